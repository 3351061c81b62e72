package app

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/redis/go-redis/v9"

	"github.com/guttosm/peakpulse/config"
	"github.com/guttosm/peakpulse/internal/kvstore"
	"github.com/guttosm/peakpulse/internal/objectstore"
)

const redisPingTimeout = 5 * time.Second

// ObjectStore is what the loader and the sensor need from a binding.
type ObjectStore interface {
	GetData(ctx context.Context, key string) ([][]string, error)
	ListKeys(ctx context.Context, prefix string) ([]string, error)
}

// KeyValueStore is what the publisher, the read API and the readiness probe
// need from a binding.
type KeyValueStore interface {
	PutData(ctx context.Context, key, value string) error
	GetData(ctx context.Context, key string) (string, bool, error)
	Ping(ctx context.Context) error
}

// Bindings pairs the two pipeline capabilities selected by PIPELINE_BINDING.
type Bindings struct {
	Objects ObjectStore
	Values  KeyValueStore
	close   func()
}

// Close releases the clients held by the bindings.
func (b Bindings) Close() {
	if b.close != nil {
		b.close()
	}
}

// InitS3 builds an S3 client from cfg.S3. Static credentials are used when
// an access key is configured, the default AWS chain otherwise. Path-style
// addressing keeps localstack endpoints working.
func InitS3(ctx context.Context, cfg config.Config) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.S3.Region)}
	if cfg.S3.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3.AccessKey, cfg.S3.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.S3.EndpointURL)
		}
		o.UsePathStyle = true
	}), nil
}

// InitRedis connects to cfg.Redis and pings it.
func InitRedis(ctx context.Context, cfg config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pctx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := client.Ping(pctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", cfg.Redis.Addr(), err)
	}
	return client, nil
}

// s3Opener and redisOpener are indirections for unit testing.
var (
	s3Opener    = InitS3
	redisOpener = InitRedis
)

// openBindings builds the object store and the key-value store of the
// configured binding.
//
//   - local:  files under LOCAL_DATA_DIR and an in-memory map.
//   - docker: S3 and Redis.
func openBindings(ctx context.Context, cfg config.Config) (Bindings, error) {
	switch cfg.Pipeline.Binding {
	case config.BindingLocal:
		return Bindings{
			Objects: objectstore.NewLocalStore(cfg.Local.DataDir),
			Values:  kvstore.NewMemoryStore(),
		}, nil

	case config.BindingDocker:
		s3Client, err := s3Opener(ctx, cfg)
		if err != nil {
			return Bindings{}, err
		}
		redisClient, err := redisOpener(ctx, cfg)
		if err != nil {
			return Bindings{}, err
		}
		values := kvstore.NewRedisStore(redisClient)
		return Bindings{
			Objects: objectstore.NewS3Store(s3Client, cfg.S3.Bucket),
			Values:  values,
			close:   func() { _ = values.Close() },
		}, nil
	}
	return Bindings{}, fmt.Errorf("unknown binding %q", cfg.Pipeline.Binding)
}
