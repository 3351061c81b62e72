package mocks

//go:generate mockgen -destination=./mock_object_store.go -package=mocks github.com/guttosm/peakpulse/internal/ingestion ObjectStore
//go:generate mockgen -destination=./mock_key_value_store.go -package=mocks github.com/guttosm/peakpulse/internal/publish KeyValueStore
//go:generate mockgen -destination=./mock_runs_repository.go -package=mocks github.com/guttosm/peakpulse/internal/storage RunsRepository
