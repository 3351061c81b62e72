package app

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/peakpulse/config"
	"github.com/guttosm/peakpulse/internal/kvstore"
	"github.com/guttosm/peakpulse/internal/objectstore"
)

func redisConfig(t *testing.T, mr *miniredis.Miniredis) config.Config {
	t.Helper()
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	return config.Config{Redis: config.RedisConfig{Host: mr.Host(), Port: port}}
}

func TestInitRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := InitRedis(context.Background(), redisConfig(t, mr))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	assert.NoError(t, client.Ping(context.Background()).Err())
}

func TestInitRedis_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := redisConfig(t, mr)
	mr.Close()

	_, err := InitRedis(context.Background(), cfg)
	assert.Error(t, err)
}

func TestInitS3_PathStyleAndEndpoint(t *testing.T) {
	cfg := config.Config{S3: config.S3Config{
		Bucket:      "dagster",
		AccessKey:   "test",
		SecretKey:   "test",
		EndpointURL: "http://localhost:4566",
		Region:      "us-east-1",
	}}

	client, err := InitS3(context.Background(), cfg)
	require.NoError(t, err)

	opts := client.Options()
	assert.True(t, opts.UsePathStyle)
	require.NotNil(t, opts.BaseEndpoint)
	assert.Equal(t, "http://localhost:4566", *opts.BaseEndpoint)
	assert.Equal(t, "us-east-1", opts.Region)
}

func TestOpenBindings_Local(t *testing.T) {
	cfg := config.Config{
		Pipeline: config.PipelineConfig{Binding: config.BindingLocal},
		Local:    config.LocalConfig{DataDir: t.TempDir()},
	}

	b, err := openBindings(context.Background(), cfg)
	require.NoError(t, err)
	defer b.Close()

	assert.IsType(t, &objectstore.LocalStore{}, b.Objects)
	assert.IsType(t, &kvstore.MemoryStore{}, b.Values)
}

func TestOpenBindings_Docker(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := redisConfig(t, mr)
	cfg.Pipeline.Binding = config.BindingDocker
	cfg.S3 = config.S3Config{Bucket: "dagster", Region: "us-east-1"}

	oldS3 := s3Opener
	s3Opener = func(context.Context, config.Config) (*s3.Client, error) {
		return s3.New(s3.Options{Region: "us-east-1"}), nil
	}
	t.Cleanup(func() { s3Opener = oldS3 })

	b, err := openBindings(context.Background(), cfg)
	require.NoError(t, err)
	defer b.Close()

	assert.IsType(t, &objectstore.S3Store{}, b.Objects)
	require.IsType(t, &kvstore.RedisStore{}, b.Values)

	ctx := context.Background()
	require.NoError(t, b.Values.PutData(ctx, "01/02/2020", "20"))
	got, err := mr.Get("01/02/2020")
	require.NoError(t, err)
	assert.Equal(t, "20", got)
}

func TestOpenBindings_Errors(t *testing.T) {
	t.Run("unknown binding", func(t *testing.T) {
		_, err := openBindings(context.Background(), config.Config{Pipeline: config.PipelineConfig{Binding: "cloud"}})
		assert.Error(t, err)
	})

	t.Run("redis down", func(t *testing.T) {
		oldS3, oldRedis := s3Opener, redisOpener
		s3Opener = func(context.Context, config.Config) (*s3.Client, error) {
			return s3.New(s3.Options{Region: "us-east-1"}), nil
		}
		redisOpener = func(context.Context, config.Config) (*redis.Client, error) {
			return nil, errors.New("connection refused")
		}
		t.Cleanup(func() { s3Opener, redisOpener = oldS3, oldRedis })

		_, err := openBindings(context.Background(), config.Config{Pipeline: config.PipelineConfig{Binding: config.BindingDocker}})
		assert.ErrorContains(t, err, "connection refused")
	})
}
