package s3patch

import (
	"context"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/blobforge/s3patch/errors"
	"github.com/blobforge/s3patch/internal/s3api"
	"github.com/blobforge/s3patch/s3types"
)

const (
	// DefaultMaxPartSize is the ceiling on a single part's byte size.
	// 1 GiB keeps copy parts well under the store's 5 GiB copy limit while
	// keeping part counts low for large objects.
	DefaultMaxPartSize int64 = 1 << 30
)

// Client patches objects in an S3-compatible store.
// It is read-only after construction and safe for concurrent use; each
// patch call allocates its own multipart upload session.
type Client struct {
	// s3Client is the underlying AWS SDK S3 client
	s3Client s3api.S3API

	// clientCfg holds the resolved client configuration
	clientCfg s3types.ClientConfig

	// log receives per-part progress and cleanup diagnostics
	log *slog.Logger
}

// New creates a new patch client with the provided options.
// It loads AWS credentials using the default credential chain unless static
// credentials are supplied, and applies the specified configuration options.
//
// Example:
//
//	client, err := s3patch.New(
//	    s3patch.WithRegion("us-west-2"),
//	    s3patch.WithEndpoint("http://localhost:9000"),
//	)
func New(opts ...s3types.Option) (*Client, error) {
	clientCfg := s3types.ClientConfig{
		MaxRetries:  3,
		MaxPartSize: DefaultMaxPartSize,
	}
	for _, opt := range opts {
		opt(&clientCfg)
	}

	var cfg aws.Config
	var err error

	if clientCfg.CustomAWSConfig != nil {
		cfg = *clientCfg.CustomAWSConfig
	} else {
		var loadOpts []func(*awsconfig.LoadOptions) error
		if clientCfg.AccessKey != "" && clientCfg.SecretKey != "" {
			loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(clientCfg.AccessKey, clientCfg.SecretKey, ""),
			))
		}
		if clientCfg.CustomHTTPClient != nil {
			loadOpts = append(loadOpts, awsconfig.WithHTTPClient(clientCfg.CustomHTTPClient))
		}
		cfg, err = awsconfig.LoadDefaultConfig(context.Background(), loadOpts...)
		if err != nil {
			return nil, errors.NewError("client initialization", err)
		}
	}

	if clientCfg.Region != "" {
		cfg.Region = clientCfg.Region
	} else if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	if clientCfg.MaxRetries > 0 {
		cfg.RetryMaxAttempts = clientCfg.MaxRetries
	}

	var s3Opts []func(*s3.Options)
	if clientCfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(clientCfg.Endpoint)
			// S3-compatible stores generally do not support virtual hosting
			o.UsePathStyle = true
		})
	}
	if clientCfg.ForcePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}

	return &Client{
		s3Client:  s3.NewFromConfig(cfg, s3Opts...),
		clientCfg: clientCfg,
		log:       resolveLogger(clientCfg.Logger),
	}, nil
}

// NewWithClient creates a new patch client with a custom S3API implementation.
// This is primarily used for testing with mocked clients.
func NewWithClient(s3Client s3api.S3API, opts ...s3types.Option) *Client {
	clientCfg := s3types.ClientConfig{
		MaxPartSize: DefaultMaxPartSize,
	}
	for _, opt := range opts {
		opt(&clientCfg)
	}
	return &Client{
		s3Client:  s3Client,
		clientCfg: clientCfg,
		log:       resolveLogger(clientCfg.Logger),
	}
}

func resolveLogger(log *slog.Logger) *slog.Logger {
	if log != nil {
		return log
	}
	return slog.Default()
}
