// Package executor walks a multipart plan against the object store.
//
// Execution is strictly sequential in segment order: part n+1 is not issued
// before part n's response arrives. The store only requires correct part
// numbers, so this is stronger than necessary, but it keeps one patch call
// a single chain of request/response steps with no coordination state.
package executor

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	awstypes "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/blobforge/s3patch/errors"
	"github.com/blobforge/s3patch/internal/planner"
	"github.com/blobforge/s3patch/internal/s3api"
)

// Target identifies one open multipart upload session.
type Target struct {
	Bucket   string
	Key      string
	UploadID string
}

// Part records the store-assigned tag for one completed part.
type Part struct {
	// Number is the part number, 1-based, in segment order
	Number int32

	// ETag is the opaque identifier returned by the store
	ETag string
}

// Executor issues one store operation per planned segment.
type Executor struct {
	s3Client s3api.S3API
	log      *slog.Logger
}

// New creates an executor over the given store client.
func New(s3Client s3api.S3API, log *slog.Logger) *Executor {
	if log == nil {
		log = slog.Default()
	}
	return &Executor{
		s3Client: s3Client,
		log:      log,
	}
}

// Execute walks the segments in order and returns one Part per segment.
//
// Upload segments are served from payload, which holds the replacement
// bytes for the window w; the slice is consumed and must not be reused by
// the caller. The first failing part operation aborts the walk and is
// returned unchanged.
func (e *Executor) Execute(
	ctx context.Context,
	target Target,
	segments []planner.Segment,
	w planner.Window,
	payload []byte,
) ([]Part, error) {
	parts := make([]Part, 0, len(segments))

	for i, seg := range segments {
		partNumber := int32(i + 1)

		var (
			etag string
			err  error
		)
		switch seg.Kind {
		case planner.SegmentUpload:
			body := payload[seg.Start-w.Offset : seg.End-w.Offset]
			etag, err = e.uploadPart(ctx, target, partNumber, body)
		default:
			etag, err = e.copyPart(ctx, target, partNumber, seg.Start, seg.End)
		}
		if err != nil {
			return nil, err
		}

		e.log.DebugContext(ctx, "part done",
			"part", partNumber,
			"kind", seg.Kind.String(),
			"range", fmt.Sprintf("%d-%d", seg.Start, seg.End-1),
		)
		parts = append(parts, Part{Number: partNumber, ETag: etag})
	}

	return parts, nil
}

// uploadPart uploads one part carrying replacement bytes.
func (e *Executor) uploadPart(ctx context.Context, target Target, partNumber int32, body []byte) (string, error) {
	input := &s3.UploadPartInput{
		Bucket:        aws.String(target.Bucket),
		Key:           aws.String(target.Key),
		UploadId:      aws.String(target.UploadID),
		PartNumber:    aws.Int32(partNumber),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
	}

	output, err := e.s3Client.UploadPart(ctx, input)
	if err != nil {
		return "", errors.NewObjectError("uploadPart", target.Bucket, target.Key, err).
			WithMessage(fmt.Sprintf("part %d", partNumber))
	}
	etag := aws.ToString(output.ETag)
	if etag == "" {
		return "", errors.NewObjectError("uploadPart", target.Bucket, target.Key, errors.ErrMissingPartTag).
			WithMessage(fmt.Sprintf("part %d", partNumber))
	}
	return etag, nil
}

// copyPart copies [start, end) of the existing object server-side as one part.
func (e *Executor) copyPart(ctx context.Context, target Target, partNumber int32, start, end int64) (string, error) {
	input := &s3.UploadPartCopyInput{
		Bucket:          aws.String(target.Bucket),
		Key:             aws.String(target.Key),
		UploadId:        aws.String(target.UploadID),
		PartNumber:      aws.Int32(partNumber),
		CopySource:      aws.String(fmt.Sprintf("%s/%s", target.Bucket, target.Key)),
		CopySourceRange: aws.String(fmt.Sprintf("bytes=%d-%d", start, end-1)),
	}

	output, err := e.s3Client.UploadPartCopy(ctx, input)
	if err != nil {
		return "", errors.NewObjectError("copyPart", target.Bucket, target.Key, err).
			WithMessage(fmt.Sprintf("part %d", partNumber))
	}
	if output.CopyPartResult == nil || aws.ToString(output.CopyPartResult.ETag) == "" {
		return "", errors.NewObjectError("copyPart", target.Bucket, target.Key, errors.ErrMissingPartTag).
			WithMessage(fmt.Sprintf("part %d", partNumber))
	}
	return aws.ToString(output.CopyPartResult.ETag), nil
}

// Complete assembles the completion request and finishes the upload.
//
// Part numbers are rebuilt from list position rather than trusting the
// collected numbers, guarding against any ordering drift between execution
// and completion. Returns the ETag of the assembled object.
func (e *Executor) Complete(ctx context.Context, target Target, parts []Part) (string, error) {
	completed := make([]awstypes.CompletedPart, len(parts))
	for i, part := range parts {
		completed[i] = awstypes.CompletedPart{
			PartNumber: aws.Int32(int32(i + 1)),
			ETag:       aws.String(part.ETag),
		}
	}

	output, err := e.s3Client.CompleteMultipartUpload(ctx, &s3.CompleteMultipartUploadInput{
		Bucket:   aws.String(target.Bucket),
		Key:      aws.String(target.Key),
		UploadId: aws.String(target.UploadID),
		MultipartUpload: &awstypes.CompletedMultipartUpload{
			Parts: completed,
		},
	})
	if err != nil {
		return "", errors.NewObjectError("completeMultipartUpload", target.Bucket, target.Key, err)
	}

	return aws.ToString(output.ETag), nil
}

// Abort releases an incomplete upload session. Stores retain and bill
// incomplete multipart uploads until aborted, so this runs on every
// non-success exit after session creation.
func (e *Executor) Abort(ctx context.Context, target Target) {
	_, err := e.s3Client.AbortMultipartUpload(ctx, &s3.AbortMultipartUploadInput{
		Bucket:   aws.String(target.Bucket),
		Key:      aws.String(target.Key),
		UploadId: aws.String(target.UploadID),
	})
	if err != nil {
		e.log.WarnContext(ctx, "abort multipart upload failed",
			"bucket", target.Bucket,
			"key", target.Key,
			"upload_id", target.UploadID,
			"error", err,
		)
	}
}
