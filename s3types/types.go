// Package s3types provides shared type definitions for the s3patch module.
package s3types

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
)

// Edit describes a single in-place byte-range replacement.
// The payload replaces the bytes at [Offset, Offset+len(Payload)) of the
// target object; the window must fit inside the object, it is never clamped.
type Edit struct {
	// Offset is the byte position in the target object where the payload
	// is written. Must be non-negative.
	Offset int64

	// Payload is the replacement data. Ownership transfers to the patch
	// operation; the caller must not reuse the slice afterwards.
	Payload []byte
}

// NewEdit creates an Edit replacing len(payload) bytes at offset.
func NewEdit(offset int64, payload []byte) Edit {
	return Edit{Offset: offset, Payload: payload}
}

// ObjectInfo describes the target object as observed by a single HeadObject
// call. It is immutable for the duration of one patch operation.
type ObjectInfo struct {
	// Bucket is the S3 bucket holding the object
	Bucket string

	// Key is the S3 object key
	Key string

	// Size is the object length in bytes
	Size int64

	// ETag is the S3 entity tag for the object
	ETag string

	// ContentType is the stored MIME type of the object
	ContentType string

	// LastModified is when the object was last modified
	LastModified time.Time
}

// PatchResult contains the result of a patch operation.
type PatchResult struct {
	// Key is the S3 object key that was patched
	Key string

	// Size is the total object length in bytes after the patch
	Size int64

	// Parts is the number of multipart parts the patch was assembled from
	Parts int

	// CopiedBytes is the number of bytes carried over by server-side copy
	CopiedBytes int64

	// UploadedBytes is the number of replacement bytes uploaded
	UploadedBytes int64

	// ETag is the S3 entity tag of the patched object
	ETag string

	// Duration is how long the patch took
	Duration time.Duration
}

// Object represents an S3 object with its basic metadata.
type Object struct {
	// Key is the S3 object key (path)
	Key string

	// Size is the object size in bytes
	Size int64

	// LastModified is when the object was last modified
	LastModified time.Time

	// ETag is the S3 entity tag for the object
	ETag string
}

// ListResult contains the result of a list operation.
type ListResult struct {
	// Objects contains the listed objects
	Objects []Object

	// IsTruncated indicates if the results were truncated
	IsTruncated bool

	// NextContinuationToken is the token for the next page of results
	NextContinuationToken string

	// Duration is how long the operation took
	Duration time.Duration
}

// Configuration types for functional options

// ClientConfig holds configuration for the patch client.
type ClientConfig struct {
	Region           string
	Endpoint         string
	AccessKey        string
	SecretKey        string
	MaxRetries       int
	MaxPartSize      int64
	ForcePathStyle   bool
	CustomAWSConfig  *aws.Config
	CustomHTTPClient *http.Client
	Logger           *slog.Logger
}

// PatchOptionConfig holds configuration for patch operations via functional options.
type PatchOptionConfig struct {
	// MaxPartSize overrides the client-level part size ceiling for this patch
	MaxPartSize int64
}

// ListOptionConfig holds configuration for list operations via functional options.
type ListOptionConfig struct {
	Prefix     string
	MaxKeys    int32
	StartAfter string
}

// Option is a functional option for configuring the patch client.
type (
	Option func(*ClientConfig)
	// PatchOption is a functional option for configuring patch operations.
	PatchOption func(*PatchOptionConfig)
	// ListOption is a functional option for configuring list operations.
	ListOption func(*ListOptionConfig)
)
