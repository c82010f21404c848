package s3patch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	awstypes "github.com/aws/aws-sdk-go-v2/service/s3/types"

	s3errors "github.com/blobforge/s3patch/errors"
	"github.com/blobforge/s3patch/internal/executor"
	"github.com/blobforge/s3patch/internal/planner"
	"github.com/blobforge/s3patch/internal/validation"
	"github.com/blobforge/s3patch/s3types"
)

// Patch replaces the bytes at [edit.Offset, edit.Offset+len(edit.Payload))
// of an existing object, in place, without transferring the rest of the
// object through the client.
//
// The replacement is expressed as a fresh multipart upload: unmodified
// spans become server-side copy parts of the object itself, the payload
// becomes one or more uploaded parts, and completion swaps the assembled
// object in atomically. Readers observe either the old or the new full
// object, never an intermediate state.
//
// The edit window must fit inside the object; a window past the end fails
// with ErrInvalidEditWindow before any store mutation is issued. The
// payload is consumed by the call and must not be reused.
//
// Any failure after the multipart session is created aborts the session,
// so no half-finished upload is left behind on the store. The first error
// is returned; nothing is retried at this layer.
//
// Returns:
//   - *PatchResult: Part count, copied/uploaded byte totals, new ETag
//   - error: Returns an error if the patch fails
//
// Errors:
//   - ErrInvalidInput: If the bucket, key, offset, or payload is invalid
//   - ErrObjectNotFound: If the target object doesn't exist
//   - ErrInvalidEditWindow: If the edit range exceeds the object length
//   - ErrMissingUploadID, ErrMissingPartTag: If the store omits a response field
//   - ErrTooManyParts: If the plan exceeds the store's part-count ceiling
//   - Network errors or AWS SDK errors wrapped in Error type
//
// Example:
//
//	result, err := client.Patch(ctx, "my-bucket", "plot.bin",
//	    s3types.NewEdit(1024, payload),
//	)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("patched %s in %d parts\n", result.Key, result.Parts)
func (c *Client) Patch(
	ctx context.Context,
	bucket, key string,
	edit s3types.Edit,
	opts ...s3types.PatchOption,
) (*s3types.PatchResult, error) {
	if err := validation.ValidateBucketName(bucket); err != nil {
		return nil, err
	}
	if err := validation.ValidateObjectKey(key); err != nil {
		return nil, err
	}
	if edit.Offset < 0 {
		return nil, s3errors.NewObjectError("patch", bucket, key, s3errors.ErrInvalidInput).
			WithMessage(fmt.Sprintf("offset cannot be negative, got %d", edit.Offset))
	}
	if len(edit.Payload) == 0 {
		// An empty window would plan a zero-length part, which the store rejects.
		return nil, s3errors.NewObjectError("patch", bucket, key, s3errors.ErrInvalidInput).
			WithMessage("payload cannot be empty")
	}

	config := s3types.PatchOptionConfig{
		MaxPartSize: c.clientCfg.MaxPartSize,
	}
	if config.MaxPartSize <= 0 {
		config.MaxPartSize = DefaultMaxPartSize
	}
	for _, opt := range opts {
		opt(&config)
	}

	startTime := time.Now()

	info, err := c.headObject(ctx, bucket, key)
	if err != nil {
		return nil, err
	}

	window := planner.Window{Offset: edit.Offset, Length: int64(len(edit.Payload))}
	if window.End() > info.Size {
		return nil, s3errors.NewObjectError("patch", bucket, key, s3errors.ErrInvalidEditWindow).
			WithMessage(fmt.Sprintf("edit [%d, %d) exceeds object length %d", window.Offset, window.End(), info.Size))
	}

	createInput := &s3.CreateMultipartUploadInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}
	if info.ContentType != "" {
		// Keep the patched object's stored MIME type.
		createInput.ContentType = aws.String(info.ContentType)
	}
	created, err := c.s3Client.CreateMultipartUpload(ctx, createInput)
	if err != nil {
		return nil, s3errors.NewObjectError("createMultipartUpload", bucket, key, err)
	}
	uploadID := aws.ToString(created.UploadId)
	if uploadID == "" {
		return nil, s3errors.NewObjectError("createMultipartUpload", bucket, key, s3errors.ErrMissingUploadID)
	}

	exec := executor.New(c.s3Client, c.log)
	target := executor.Target{Bucket: bucket, Key: key, UploadID: uploadID}

	// The session exists from here on; every non-success exit must release it.
	segments, err := planner.Plan(info.Size, config.MaxPartSize, window)
	if err != nil {
		exec.Abort(context.WithoutCancel(ctx), target)
		return nil, err
	}

	parts, err := exec.Execute(ctx, target, segments, window, edit.Payload)
	if err != nil {
		exec.Abort(context.WithoutCancel(ctx), target)
		return nil, err
	}

	etag, err := exec.Complete(ctx, target, parts)
	if err != nil {
		exec.Abort(context.WithoutCancel(ctx), target)
		return nil, err
	}

	result := &s3types.PatchResult{
		Key:           key,
		Size:          info.Size,
		Parts:         len(parts),
		CopiedBytes:   info.Size - window.Length,
		UploadedBytes: window.Length,
		ETag:          etag,
		Duration:      time.Since(startTime),
	}

	c.log.InfoContext(ctx, "object patched",
		"bucket", bucket,
		"key", key,
		"offset", window.Offset,
		"length", window.Length,
		"parts", result.Parts,
		"duration", result.Duration,
	)

	return result, nil
}

// Stat retrieves metadata for the target object without downloading it.
//
// Errors:
//   - ErrObjectNotFound: If the specified object doesn't exist
//   - Network errors or AWS SDK errors wrapped in Error type
func (c *Client) Stat(ctx context.Context, bucket, key string) (*s3types.ObjectInfo, error) {
	if err := validation.ValidateBucketName(bucket); err != nil {
		return nil, err
	}
	if err := validation.ValidateObjectKey(key); err != nil {
		return nil, err
	}
	return c.headObject(ctx, bucket, key)
}

// headObject fetches the object descriptor the patch is planned against.
func (c *Client) headObject(ctx context.Context, bucket, key string) (*s3types.ObjectInfo, error) {
	output, err := c.s3Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, s3errors.NewObjectError("headObject", bucket, key, s3errors.ErrObjectNotFound)
		}
		return nil, s3errors.NewObjectError("headObject", bucket, key, err)
	}

	return &s3types.ObjectInfo{
		Bucket:       bucket,
		Key:          key,
		Size:         aws.ToInt64(output.ContentLength),
		ETag:         strings.Trim(aws.ToString(output.ETag), "\""),
		ContentType:  aws.ToString(output.ContentType),
		LastModified: aws.ToTime(output.LastModified),
	}, nil
}

// isNotFound reports whether an SDK error means the object is absent.
func isNotFound(err error) bool {
	var notFound *awstypes.NotFound
	if errors.As(err, &notFound) {
		return true
	}
	var noSuchKey *awstypes.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}
	// HeadObject errors from some S3-compatible stores only carry the code
	// in the message.
	msg := err.Error()
	return strings.Contains(msg, "NotFound") || strings.Contains(msg, "NoSuchKey")
}
