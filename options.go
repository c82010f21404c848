// Package s3patch provides functional options for configuring client behavior.
// These options follow the functional options pattern for clean, composable configuration.
package s3patch

import (
	"log/slog"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/blobforge/s3patch/s3types"
)

// WithRegion sets the AWS region for store operations.
// If not specified, uses the default AWS region from the credential chain.
func WithRegion(region string) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.Region = region
	}
}

// WithEndpoint sets a custom S3 endpoint URL.
// This is required for S3-compatible stores (MinIO, LocalStack, Ceph RGW).
// Setting an endpoint also switches the client to path-style addressing.
func WithEndpoint(endpoint string) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.Endpoint = endpoint
	}
}

// WithStaticCredentials sets a static access/secret key pair.
// If not specified, the default AWS credential chain applies.
func WithStaticCredentials(accessKey, secretKey string) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.AccessKey = accessKey
		c.SecretKey = secretKey
	}
}

// WithMaxRetries sets the maximum number of SDK retry attempts for failed
// requests. Default is 3. The patch operation itself never retries; only
// the transport layer does.
func WithMaxRetries(maxRetries int) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.MaxRetries = maxRetries
	}
}

// WithMaxPartSize sets the ceiling on a single part's byte size.
// Default is 1 GiB. Must be at least 5 MiB for store multipart uploads.
func WithMaxPartSize(maxPartSize int64) s3types.Option {
	return func(c *s3types.ClientConfig) {
		if maxPartSize > 0 {
			c.MaxPartSize = maxPartSize
		}
	}
}

// WithForcePathStyle forces path-style URLs instead of virtual-hosted style.
// Default is false; setting an endpoint implies path style already.
func WithForcePathStyle(forcePathStyle bool) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.ForcePathStyle = forcePathStyle
	}
}

// WithAWSConfig allows providing a custom AWS configuration.
// This overrides the default configuration loading behavior.
func WithAWSConfig(config *aws.Config) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.CustomAWSConfig = config
	}
}

// WithHTTPClient allows providing a custom HTTP client.
// This gives full control over HTTP behavior including timeouts and proxies.
func WithHTTPClient(client *http.Client) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.CustomHTTPClient = client
	}
}

// WithLogger sets the logger used for per-part progress and cleanup
// diagnostics. Defaults to slog.Default().
func WithLogger(log *slog.Logger) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.Logger = log
	}
}

// WithPatchMaxPartSize overrides the client-level part size ceiling for a
// single patch operation.
func WithPatchMaxPartSize(maxPartSize int64) s3types.PatchOption {
	return func(c *s3types.PatchOptionConfig) {
		if maxPartSize > 0 {
			c.MaxPartSize = maxPartSize
		}
	}
}

// WithMaxKeys limits the page size of a list operation (1-1000).
func WithMaxKeys(maxKeys int32) s3types.ListOption {
	return func(c *s3types.ListOptionConfig) {
		if maxKeys > 0 {
			c.MaxKeys = maxKeys
		}
	}
}

// WithStartAfter starts listing after the given key, for pagination.
func WithStartAfter(startAfter string) s3types.ListOption {
	return func(c *s3types.ListOptionConfig) {
		c.StartAfter = startAfter
	}
}
