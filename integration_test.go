//go:build integration

package s3patch

import (
	"bytes"
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	s3errors "github.com/blobforge/s3patch/errors"
	"github.com/blobforge/s3patch/internal/testutil"
	"github.com/blobforge/s3patch/s3types"
)

// Run with: go test -tags integration ./...
// Requires Docker for the LocalStack container.

func TestIntegrationPatch(t *testing.T) {
	raw, endpoint := testutil.StartLocalStack(t)
	ctx := context.Background()

	bucket := testutil.GenerateTestBucketName("s3patch-it")
	testutil.MakeBucket(t, raw, bucket)

	client, err := New(
		WithEndpoint(endpoint),
		WithRegion("us-east-1"),
		WithStaticCredentials("test", "test"),
	)
	require.NoError(t, err)

	t.Run("patch round trip", func(t *testing.T) {
		key := testutil.GenerateTestKey("patch")
		original := testutil.GenerateRandomData(64 * 1024)
		_, err := raw.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(original),
			ContentType: aws.String("application/octet-stream"),
		})
		require.NoError(t, err)

		payload := bytes.Repeat([]byte{0xAB}, 512)
		offset := int64(10_000)

		result, err := client.Patch(ctx, bucket, key,
			s3types.NewEdit(offset, payload),
			WithPatchMaxPartSize(16*1024))
		require.NoError(t, err)
		assert.Equal(t, int64(512), result.UploadedBytes)
		assert.NotEmpty(t, result.ETag)

		got, err := client.Get(ctx, bucket, key)
		require.NoError(t, err)

		want := append([]byte(nil), original...)
		copy(want[offset:], payload)
		assert.Equal(t, want, got)

		info, err := client.Stat(ctx, bucket, key)
		require.NoError(t, err)
		assert.Equal(t, int64(len(original)), info.Size)
		assert.Equal(t, "application/octet-stream", info.ContentType)
	})

	t.Run("window past the end leaves the object intact", func(t *testing.T) {
		key := testutil.GenerateTestKey("bounds")
		original := []byte("0123456789")
		_, err := raw.PutObject(ctx, &s3.PutObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
			Body:   bytes.NewReader(original),
		})
		require.NoError(t, err)

		_, err = client.Patch(ctx, bucket, key, s3types.NewEdit(8, []byte("xxx")))
		require.Error(t, err)
		assert.True(t, s3errors.IsInvalidEditWindow(err))

		got, err := client.Get(ctx, bucket, key)
		require.NoError(t, err)
		assert.Equal(t, original, got)
	})

	t.Run("missing object", func(t *testing.T) {
		_, err := client.Patch(ctx, bucket, "never-written",
			s3types.NewEdit(0, []byte("x")))
		require.Error(t, err)
		assert.True(t, s3errors.IsObjectNotFound(err))
	})

	t.Run("list with prefix", func(t *testing.T) {
		for _, key := range []string{"set/a", "set/b", "outside/c"} {
			_, err := raw.PutObject(ctx, &s3.PutObjectInput{
				Bucket: aws.String(bucket),
				Key:    aws.String(key),
				Body:   bytes.NewReader([]byte("data")),
			})
			require.NoError(t, err)
		}

		result, err := client.List(ctx, bucket, "set/")
		require.NoError(t, err)
		require.Len(t, result.Objects, 2)
		assert.Equal(t, "set/a", result.Objects[0].Key)
		assert.Equal(t, "set/b", result.Objects[1].Key)
	})
}
