package s3patch

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	s3errors "github.com/blobforge/s3patch/errors"
	"github.com/blobforge/s3patch/internal/testutil"
	"github.com/blobforge/s3patch/s3types"
)

// These tests run the full patch path against the in-memory store, so the
// planned copy ranges and uploaded slices are checked byte for byte.
func TestPatchRoundTrip(t *testing.T) {
	ctx := context.Background()

	patchExpect := func(original []byte, offset int64, payload []byte) []byte {
		want := append([]byte(nil), original...)
		copy(want[offset:], payload)
		return want
	}

	tests := []struct {
		name        string
		size        int
		offset      int64
		payloadLen  int
		maxPartSize int64
	}{
		{name: "middle of object, many parts", size: 10_000, offset: 4_321, payloadLen: 57, maxPartSize: 1024},
		{name: "start of object", size: 1000, offset: 0, payloadLen: 10, maxPartSize: 256},
		{name: "end of object", size: 1000, offset: 990, payloadLen: 10, maxPartSize: 256},
		{name: "whole object", size: 500, offset: 0, payloadLen: 500, maxPartSize: 128},
		{name: "payload split across parts", size: 2000, offset: 500, payloadLen: 700, maxPartSize: 200},
		{name: "single byte", size: 100, offset: 50, payloadLen: 1, maxPartSize: 1 << 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := testutil.NewFakeStore()
			original := testutil.GenerateRandomData(tt.size)
			store.Seed("test-bucket", "test-key", original)

			payload := bytes.Repeat([]byte{0xEE}, tt.payloadLen)
			client := NewWithClient(store)

			result, err := client.Patch(ctx, "test-bucket", "test-key",
				s3types.NewEdit(tt.offset, payload),
				WithPatchMaxPartSize(tt.maxPartSize))
			require.NoError(t, err)
			assert.Equal(t, int64(tt.payloadLen), result.UploadedBytes)
			assert.Equal(t, int64(tt.size-tt.payloadLen), result.CopiedBytes)

			got, ok := store.Object("test-bucket", "test-key")
			require.True(t, ok)
			assert.Equal(t, patchExpect(original, tt.offset, payload), got)
			assert.Zero(t, store.OpenUploads(), "no multipart session left open")
		})
	}
}

func TestPatchRoundTripPreservesContentType(t *testing.T) {
	store := testutil.NewFakeStore()
	store.SeedWithContentType("test-bucket", "test-key", []byte("hello world"), "text/plain")

	client := NewWithClient(store)
	_, err := client.Patch(context.Background(), "test-bucket", "test-key",
		s3types.NewEdit(6, []byte("patch")))
	require.NoError(t, err)

	got, ok := store.Object("test-bucket", "test-key")
	require.True(t, ok)
	assert.Equal(t, []byte("hello patch"), got)
}

func TestPatchRoundTripMissingObject(t *testing.T) {
	store := testutil.NewFakeStore()
	client := NewWithClient(store)

	_, err := client.Patch(context.Background(), "test-bucket", "absent",
		s3types.NewEdit(0, []byte("x")))
	require.Error(t, err)
	assert.True(t, s3errors.IsObjectNotFound(err))
	assert.Zero(t, store.OpenUploads())
}

func TestGetAndListRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewFakeStore()
	store.Seed("test-bucket", "plots/a.bin", []byte("aaaa"))
	store.Seed("test-bucket", "plots/b.bin", []byte("bbbbbb"))
	store.Seed("test-bucket", "other/c.bin", []byte("cc"))

	client := NewWithClient(store)

	data, err := client.Get(ctx, "test-bucket", "plots/a.bin")
	require.NoError(t, err)
	assert.Equal(t, []byte("aaaa"), data)

	result, err := client.List(ctx, "test-bucket", "plots/")
	require.NoError(t, err)
	require.Len(t, result.Objects, 2)
	assert.Equal(t, "plots/a.bin", result.Objects[0].Key)
	assert.Equal(t, int64(4), result.Objects[0].Size)
	assert.Equal(t, "plots/b.bin", result.Objects[1].Key)

	_, err = client.Get(ctx, "test-bucket", "plots/missing.bin")
	require.Error(t, err)
	assert.True(t, s3errors.IsObjectNotFound(err))
}
