package s3patch

import (
	"context"
	"os"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	s3errors "github.com/blobforge/s3patch/errors"
	"github.com/blobforge/s3patch/s3types"
)

// EnvConfigPath is the environment variable naming the JSON config file the
// process-wide default client is built from.
const EnvConfigPath = "S3_STORE_CONFIG"

// Config is the store configuration consumed by the default client.
// It is loaded once per process from the file named by EnvConfigPath.
type Config struct {
	// Endpoint is the store's base URL
	Endpoint string `mapstructure:"endpoint" validate:"required,url"`

	// Bucket is the bucket all default-client operations target
	Bucket string `mapstructure:"bucket" validate:"required"`

	// Region is the signing region
	Region string `mapstructure:"region" validate:"required"`

	// AccessKey and SecretKey form an optional static credential pair;
	// when absent the default AWS credential chain applies
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// LoadConfig reads and validates a JSON config file.
// All failures are reported as ErrConfigLoad.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	if err := v.ReadInConfig(); err != nil {
		return nil, s3errors.NewError("loadConfig", s3errors.ErrConfigLoad).
			WithMessage(err.Error())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, s3errors.NewError("loadConfig", s3errors.ErrConfigLoad).
			WithMessage(err.Error())
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, s3errors.NewError("loadConfig", s3errors.ErrConfigLoad).
			WithMessage(err.Error())
	}

	return &cfg, nil
}

// defaultState holds the process-wide client. The first successful
// initialization wins; concurrent first callers serialize on the mutex and
// a failed attempt is retried by the next caller.
var defaultState struct {
	mu     sync.Mutex
	client *Client
	bucket string
}

// Default returns the process-wide client and bucket built from the config
// file named by the S3_STORE_CONFIG environment variable. The client is
// constructed once and shared across concurrent calls; it is read-only, so
// no further locking is needed after initialization.
func Default() (*Client, string, error) {
	defaultState.mu.Lock()
	defer defaultState.mu.Unlock()

	if defaultState.client != nil {
		return defaultState.client, defaultState.bucket, nil
	}

	path := os.Getenv(EnvConfigPath)
	if path == "" {
		return nil, "", s3errors.NewError("loadConfig", s3errors.ErrConfigLoad).
			WithMessage(EnvConfigPath + " is not set")
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, "", err
	}

	opts := []s3types.Option{
		WithEndpoint(cfg.Endpoint),
		WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, WithStaticCredentials(cfg.AccessKey, cfg.SecretKey))
	}

	client, err := New(opts...)
	if err != nil {
		return nil, "", err
	}

	defaultState.client = client
	defaultState.bucket = cfg.Bucket
	return client, cfg.Bucket, nil
}

// resetDefault clears the cached default client. Tests only.
func resetDefault() {
	defaultState.mu.Lock()
	defer defaultState.mu.Unlock()
	defaultState.client = nil
	defaultState.bucket = ""
}

// Modify patches key in the configured bucket using the process-wide
// default client. It is the convenience entry point for callers that load
// everything from the S3_STORE_CONFIG file.
func Modify(ctx context.Context, key string, edit s3types.Edit) error {
	client, bucket, err := Default()
	if err != nil {
		return err
	}
	_, err = client.Patch(ctx, bucket, key, edit)
	return err
}
