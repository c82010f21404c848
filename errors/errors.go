// Package errors provides error types and handling for object patch operations.
package errors

import (
	"errors"
	"fmt"
)

// Error represents a patch operation error with context about the operation
// that failed. It wraps the underlying AWS SDK error with additional context
// for better debugging.
type Error struct {
	// Op is the operation that failed (e.g., "patch", "list", "loadConfig")
	Op string

	// Bucket is the S3 bucket name (if applicable)
	Bucket string

	// Key is the S3 object key (if applicable)
	Key string

	// Err is the underlying error from the AWS SDK or other source
	Err error
}

// Error implements the error interface by providing a formatted error message.
func (e *Error) Error() string {
	if e.Bucket != "" && e.Key != "" {
		return fmt.Sprintf("s3patch.%s %s/%s: %v", e.Op, e.Bucket, e.Key, e.Err)
	}
	if e.Bucket != "" {
		return fmt.Sprintf("s3patch.%s bucket %s: %v", e.Op, e.Bucket, e.Err)
	}
	if e.Key != "" {
		return fmt.Sprintf("s3patch.%s object %s: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("s3patch.%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error chaining support.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithBucket adds bucket context to an existing error.
func (e *Error) WithBucket(bucket string) *Error {
	e.Bucket = bucket
	return e
}

// WithKey adds object key context to an existing error.
func (e *Error) WithKey(key string) *Error {
	e.Key = key
	return e
}

// WithMessage wraps the underlying error with a custom message.
func (e *Error) WithMessage(message string) *Error {
	e.Err = fmt.Errorf("%s: %w", message, e.Err)
	return e
}

// NewError creates a new Error with the given operation and underlying error.
func NewError(op string, err error) *Error {
	return &Error{
		Op:  op,
		Err: err,
	}
}

// NewObjectError creates a new Error with bucket and key context.
func NewObjectError(op, bucket, key string, err error) *Error {
	return &Error{
		Op:     op,
		Bucket: bucket,
		Key:    key,
		Err:    err,
	}
}

// Sentinel errors for patch operation failures.
// These can be used with errors.Is() for error checking.
var (
	// ErrObjectNotFound indicates that the target object does not exist
	ErrObjectNotFound = errors.New("s3patch: object not found")

	// ErrInvalidEditWindow indicates that the edit range does not fit
	// inside the target object
	ErrInvalidEditWindow = errors.New("s3patch: edit window exceeds object length")

	// ErrMissingUploadID indicates that the store did not return an upload
	// id when the multipart upload was created
	ErrMissingUploadID = errors.New("s3patch: store returned no upload id")

	// ErrMissingPartTag indicates that the store did not return an ETag for
	// an uploaded or copied part
	ErrMissingPartTag = errors.New("s3patch: store returned no part tag")

	// ErrTooManyParts indicates that the planned part count exceeds the
	// store's per-upload ceiling
	ErrTooManyParts = errors.New("s3patch: plan exceeds maximum part count")

	// ErrConfigLoad indicates that the store config file could not be
	// loaded or was invalid
	ErrConfigLoad = errors.New("s3patch: config load failed")

	// ErrInvalidInput indicates that the provided input is invalid
	ErrInvalidInput = errors.New("s3patch: invalid input")

	// ErrInvalidBucketName indicates that the bucket name is invalid
	ErrInvalidBucketName = errors.New("s3patch: invalid bucket name")

	// ErrInvalidObjectKey indicates that the object key is invalid
	ErrInvalidObjectKey = errors.New("s3patch: invalid object key")
)

// IsObjectNotFound checks if an error indicates that an object was not found.
// This is a convenience function that handles both sentinel errors and wrapped errors.
func IsObjectNotFound(err error) bool {
	return errors.Is(err, ErrObjectNotFound)
}

// IsInvalidEditWindow checks if an error indicates that the edit range does
// not fit inside the target object.
func IsInvalidEditWindow(err error) bool {
	return errors.Is(err, ErrInvalidEditWindow)
}

// IsTooManyParts checks if an error indicates that the plan exceeded the
// store's part-count ceiling.
func IsTooManyParts(err error) bool {
	return errors.Is(err, ErrTooManyParts)
}

// IsConfigLoad checks if an error indicates a config bootstrap failure.
func IsConfigLoad(err error) bool {
	return errors.Is(err, ErrConfigLoad)
}

// IsInvalidInput checks if an error indicates invalid input.
// This is a convenience function that handles both sentinel errors and wrapped errors.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
