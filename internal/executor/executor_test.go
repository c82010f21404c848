package executor

import (
	"context"
	stderrors "errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	awstypes "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blobforge/s3patch/errors"
	"github.com/blobforge/s3patch/internal/planner"
	"github.com/blobforge/s3patch/internal/testutil"
)

func testTarget() Target {
	return Target{Bucket: "test-bucket", Key: "test-key", UploadID: "upload-1"}
}

func TestExecute(t *testing.T) {
	t.Run("issues one operation per segment in order", func(t *testing.T) {
		var uploads []int32
		var copies []int32
		var copyRanges []string

		mock := &testutil.MockS3Client{
			UploadPartFunc: func(_ context.Context, params *s3.UploadPartInput, _ ...func(*s3.Options)) (*s3.UploadPartOutput, error) {
				uploads = append(uploads, aws.ToInt32(params.PartNumber))
				return &s3.UploadPartOutput{ETag: aws.String("etag-upload")}, nil
			},
			UploadPartCopyFunc: func(_ context.Context, params *s3.UploadPartCopyInput, _ ...func(*s3.Options)) (*s3.UploadPartCopyOutput, error) {
				copies = append(copies, aws.ToInt32(params.PartNumber))
				copyRanges = append(copyRanges, aws.ToString(params.CopySourceRange))
				assert.Equal(t, "test-bucket/test-key", aws.ToString(params.CopySource))
				return &s3.UploadPartCopyOutput{
					CopyPartResult: &awstypes.CopyPartResult{ETag: aws.String("etag-copy")},
				}, nil
			},
		}

		segments := []planner.Segment{
			{Start: 0, End: 100, Kind: planner.SegmentCopy},
			{Start: 100, End: 103, Kind: planner.SegmentUpload},
			{Start: 103, End: 200, Kind: planner.SegmentCopy},
		}
		w := planner.Window{Offset: 100, Length: 3}

		exec := New(mock, nil)
		parts, err := exec.Execute(context.Background(), testTarget(), segments, w, []byte("abc"))
		require.NoError(t, err)

		require.Len(t, parts, 3)
		assert.Equal(t, []Part{
			{Number: 1, ETag: "etag-copy"},
			{Number: 2, ETag: "etag-upload"},
			{Number: 3, ETag: "etag-copy"},
		}, parts)
		assert.Equal(t, []int32{2}, uploads)
		assert.Equal(t, []int32{1, 3}, copies)
		// Range headers use inclusive ends.
		assert.Equal(t, []string{"bytes=0-99", "bytes=103-199"}, copyRanges)
	})

	t.Run("slices the payload per upload segment", func(t *testing.T) {
		var bodies []string
		mock := &testutil.MockS3Client{
			UploadPartFunc: func(_ context.Context, params *s3.UploadPartInput, _ ...func(*s3.Options)) (*s3.UploadPartOutput, error) {
				data, err := io.ReadAll(params.Body)
				require.NoError(t, err)
				bodies = append(bodies, string(data))
				return &s3.UploadPartOutput{ETag: aws.String("etag")}, nil
			},
		}

		// Window split into two upload segments.
		segments := []planner.Segment{
			{Start: 50, End: 54, Kind: planner.SegmentUpload},
			{Start: 54, End: 56, Kind: planner.SegmentUpload},
		}
		w := planner.Window{Offset: 50, Length: 6}

		exec := New(mock, nil)
		_, err := exec.Execute(context.Background(), testTarget(), segments, w, []byte("abcdef"))
		require.NoError(t, err)
		assert.Equal(t, []string{"abcd", "ef"}, bodies)
	})

	t.Run("stops at the first failing part", func(t *testing.T) {
		boom := stderrors.New("connection reset")
		calls := 0
		mock := &testutil.MockS3Client{
			UploadPartCopyFunc: func(_ context.Context, _ *s3.UploadPartCopyInput, _ ...func(*s3.Options)) (*s3.UploadPartCopyOutput, error) {
				calls++
				if calls == 2 {
					return nil, boom
				}
				return &s3.UploadPartCopyOutput{
					CopyPartResult: &awstypes.CopyPartResult{ETag: aws.String("etag")},
				}, nil
			},
		}

		segments := []planner.Segment{
			{Start: 0, End: 10, Kind: planner.SegmentCopy},
			{Start: 10, End: 20, Kind: planner.SegmentCopy},
			{Start: 20, End: 30, Kind: planner.SegmentCopy},
		}

		exec := New(mock, nil)
		_, err := exec.Execute(context.Background(), testTarget(), segments, planner.Window{}, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 2, calls, "no parts issued after the failure")
	})

	t.Run("missing upload etag", func(t *testing.T) {
		mock := &testutil.MockS3Client{
			UploadPartFunc: func(_ context.Context, _ *s3.UploadPartInput, _ ...func(*s3.Options)) (*s3.UploadPartOutput, error) {
				return &s3.UploadPartOutput{}, nil
			},
		}

		segments := []planner.Segment{{Start: 0, End: 3, Kind: planner.SegmentUpload}}
		exec := New(mock, nil)
		_, err := exec.Execute(context.Background(), testTarget(), segments, planner.Window{Offset: 0, Length: 3}, []byte("abc"))
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrMissingPartTag)
	})

	t.Run("missing copy part result", func(t *testing.T) {
		mock := &testutil.MockS3Client{
			UploadPartCopyFunc: func(_ context.Context, _ *s3.UploadPartCopyInput, _ ...func(*s3.Options)) (*s3.UploadPartCopyOutput, error) {
				return &s3.UploadPartCopyOutput{}, nil
			},
		}

		segments := []planner.Segment{{Start: 0, End: 3, Kind: planner.SegmentCopy}}
		exec := New(mock, nil)
		_, err := exec.Execute(context.Background(), testTarget(), segments, planner.Window{}, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrMissingPartTag)
	})
}

func TestComplete(t *testing.T) {
	t.Run("renumbers parts by list position", func(t *testing.T) {
		var sent []awstypes.CompletedPart
		mock := &testutil.MockS3Client{
			CompleteMultipartUploadFunc: func(_ context.Context, params *s3.CompleteMultipartUploadInput, _ ...func(*s3.Options)) (*s3.CompleteMultipartUploadOutput, error) {
				sent = params.MultipartUpload.Parts
				return &s3.CompleteMultipartUploadOutput{ETag: aws.String(`"final"`)}, nil
			},
		}

		// Collected numbers deliberately wrong; completion must use position.
		parts := []Part{
			{Number: 7, ETag: "a"},
			{Number: 9, ETag: "b"},
		}

		exec := New(mock, nil)
		etag, err := exec.Complete(context.Background(), testTarget(), parts)
		require.NoError(t, err)
		assert.Equal(t, `"final"`, etag)

		require.Len(t, sent, 2)
		assert.Equal(t, int32(1), aws.ToInt32(sent[0].PartNumber))
		assert.Equal(t, "a", aws.ToString(sent[0].ETag))
		assert.Equal(t, int32(2), aws.ToInt32(sent[1].PartNumber))
		assert.Equal(t, "b", aws.ToString(sent[1].ETag))
	})

	t.Run("wraps completion failure", func(t *testing.T) {
		boom := stderrors.New("internal error")
		mock := &testutil.MockS3Client{
			CompleteMultipartUploadFunc: func(_ context.Context, _ *s3.CompleteMultipartUploadInput, _ ...func(*s3.Options)) (*s3.CompleteMultipartUploadOutput, error) {
				return nil, boom
			},
		}

		exec := New(mock, nil)
		_, err := exec.Complete(context.Background(), testTarget(), []Part{{Number: 1, ETag: "a"}})
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
	})
}

func TestAbort(t *testing.T) {
	t.Run("sends the session identifiers", func(t *testing.T) {
		var got *s3.AbortMultipartUploadInput
		mock := &testutil.MockS3Client{
			AbortMultipartUploadFunc: func(_ context.Context, params *s3.AbortMultipartUploadInput, _ ...func(*s3.Options)) (*s3.AbortMultipartUploadOutput, error) {
				got = params
				return &s3.AbortMultipartUploadOutput{}, nil
			},
		}

		exec := New(mock, nil)
		exec.Abort(context.Background(), testTarget())

		require.NotNil(t, got)
		assert.Equal(t, "test-bucket", aws.ToString(got.Bucket))
		assert.Equal(t, "test-key", aws.ToString(got.Key))
		assert.Equal(t, "upload-1", aws.ToString(got.UploadId))
	})

	t.Run("swallows abort failure", func(t *testing.T) {
		mock := &testutil.MockS3Client{
			AbortMultipartUploadFunc: func(_ context.Context, _ *s3.AbortMultipartUploadInput, _ ...func(*s3.Options)) (*s3.AbortMultipartUploadOutput, error) {
				return nil, stderrors.New("gone")
			},
		}

		exec := New(mock, nil)
		// Must not panic or propagate.
		exec.Abort(context.Background(), testTarget())
	})
}
