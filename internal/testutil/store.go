package testutil

import (
	"bytes"
	"context"
	"crypto/md5" //nolint:gosec // MD5 required for S3 ETag semantics
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	awstypes "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/blobforge/s3patch/internal/s3api"
)

// FakeStore is an in-memory object store implementing the S3API interface.
// It supports the multipart copy/upload/complete/abort lifecycle, so patch
// plans can be executed end to end without a live endpoint.
type FakeStore struct {
	mu          sync.Mutex
	objects     map[string][]byte
	contentType map[string]string
	uploads     map[string]*fakeUpload
	nextUpload  int

	// AbortedUploads records the upload IDs aborted through the store.
	AbortedUploads []string
}

type fakeUpload struct {
	bucket string
	key    string
	parts  map[int32][]byte
	etags  map[int32]string
}

// NewFakeStore creates an empty in-memory store.
func NewFakeStore() *FakeStore {
	return &FakeStore{
		objects:     make(map[string][]byte),
		contentType: make(map[string]string),
		uploads:     make(map[string]*fakeUpload),
	}
}

func objectKey(bucket, key string) string {
	return bucket + "/" + key
}

// Seed stores an object directly, bypassing the multipart lifecycle.
func (f *FakeStore) Seed(bucket, key string, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[objectKey(bucket, key)] = append([]byte(nil), data...)
}

// SeedWithContentType stores an object with an explicit content type.
func (f *FakeStore) SeedWithContentType(bucket, key string, data []byte, contentType string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[objectKey(bucket, key)] = append([]byte(nil), data...)
	f.contentType[objectKey(bucket, key)] = contentType
}

// Object returns a copy of the stored object bytes, if present.
func (f *FakeStore) Object(bucket, key string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[objectKey(bucket, key)]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), data...), true
}

// OpenUploads returns the number of multipart sessions that were started
// but neither completed nor aborted.
func (f *FakeStore) OpenUploads() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.uploads)
}

// HeadObject returns metadata for a seeded object.
func (f *FakeStore) HeadObject(
	_ context.Context,
	params *s3.HeadObjectInput,
	_ ...func(*s3.Options),
) (*s3.HeadObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[objectKey(aws.ToString(params.Bucket), aws.ToString(params.Key))]
	if !ok {
		return nil, &awstypes.NotFound{}
	}
	out := &s3.HeadObjectOutput{
		ContentLength: aws.Int64(int64(len(data))),
		ETag:          aws.String(CalculateETag(data)),
		LastModified:  aws.Time(time.Now()),
	}
	if ct, ok := f.contentType[objectKey(aws.ToString(params.Bucket), aws.ToString(params.Key))]; ok {
		out.ContentType = aws.String(ct)
	}
	return out, nil
}

// GetObject returns the full body of a seeded object.
func (f *FakeStore) GetObject(
	_ context.Context,
	params *s3.GetObjectInput,
	_ ...func(*s3.Options),
) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[objectKey(aws.ToString(params.Bucket), aws.ToString(params.Key))]
	if !ok {
		return nil, &awstypes.NoSuchKey{}
	}
	body := append([]byte(nil), data...)
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: aws.Int64(int64(len(body))),
		ETag:          aws.String(CalculateETag(body)),
	}, nil
}

// ListObjectsV2 lists seeded objects in a bucket, honoring Prefix, StartAfter
// and MaxKeys.
func (f *FakeStore) ListObjectsV2(
	_ context.Context,
	params *s3.ListObjectsV2Input,
	_ ...func(*s3.Options),
) (*s3.ListObjectsV2Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	bucket := aws.ToString(params.Bucket)
	prefix := aws.ToString(params.Prefix)
	startAfter := aws.ToString(params.StartAfter)

	var keys []string
	for stored := range f.objects {
		b, key, _ := strings.Cut(stored, "/")
		if b != bucket {
			continue
		}
		if prefix != "" && !strings.HasPrefix(key, prefix) {
			continue
		}
		if startAfter != "" && key <= startAfter {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	maxKeys := len(keys)
	if params.MaxKeys != nil && int(*params.MaxKeys) < maxKeys {
		maxKeys = int(*params.MaxKeys)
	}
	truncated := maxKeys < len(keys)
	keys = keys[:maxKeys]

	contents := make([]awstypes.Object, 0, len(keys))
	for _, key := range keys {
		data := f.objects[objectKey(bucket, key)]
		contents = append(contents, awstypes.Object{
			Key:          aws.String(key),
			Size:         aws.Int64(int64(len(data))),
			ETag:         aws.String(CalculateETag(data)),
			LastModified: aws.Time(time.Now()),
		})
	}
	return &s3.ListObjectsV2Output{
		Contents:    contents,
		KeyCount:    aws.Int32(int32(len(contents))),
		IsTruncated: aws.Bool(truncated),
	}, nil
}

// CreateMultipartUpload starts a multipart session.
func (f *FakeStore) CreateMultipartUpload(
	_ context.Context,
	params *s3.CreateMultipartUploadInput,
	_ ...func(*s3.Options),
) (*s3.CreateMultipartUploadOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextUpload++
	id := fmt.Sprintf("upload-%d", f.nextUpload)
	f.uploads[id] = &fakeUpload{
		bucket: aws.ToString(params.Bucket),
		key:    aws.ToString(params.Key),
		parts:  make(map[int32][]byte),
		etags:  make(map[int32]string),
	}
	return &s3.CreateMultipartUploadOutput{UploadId: aws.String(id)}, nil
}

// UploadPart stores part bytes for an open session.
func (f *FakeStore) UploadPart(
	_ context.Context,
	params *s3.UploadPartInput,
	_ ...func(*s3.Options),
) (*s3.UploadPartOutput, error) {
	data, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	up, ok := f.uploads[aws.ToString(params.UploadId)]
	if !ok {
		return nil, &awstypes.NoSuchUpload{}
	}
	num := aws.ToInt32(params.PartNumber)
	etag := partETag(data)
	up.parts[num] = data
	up.etags[num] = etag
	return &s3.UploadPartOutput{ETag: aws.String(etag)}, nil
}

// UploadPartCopy copies a byte range of an existing object into a part.
// CopySource is "bucket/key" and CopySourceRange is "bytes=start-end"
// with an inclusive end.
func (f *FakeStore) UploadPartCopy(
	_ context.Context,
	params *s3.UploadPartCopyInput,
	_ ...func(*s3.Options),
) (*s3.UploadPartCopyOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	up, ok := f.uploads[aws.ToString(params.UploadId)]
	if !ok {
		return nil, &awstypes.NoSuchUpload{}
	}

	source := strings.TrimPrefix(aws.ToString(params.CopySource), "/")
	src, ok := f.objects[source]
	if !ok {
		return nil, &awstypes.NoSuchKey{}
	}

	var start, end int64
	if _, err := fmt.Sscanf(aws.ToString(params.CopySourceRange), "bytes=%d-%d", &start, &end); err != nil {
		return nil, fmt.Errorf("invalid copy source range %q: %w", aws.ToString(params.CopySourceRange), err)
	}
	if start < 0 || end >= int64(len(src)) || start > end {
		return nil, fmt.Errorf("copy source range %q out of bounds for %d byte object",
			aws.ToString(params.CopySourceRange), len(src))
	}

	data := append([]byte(nil), src[start:end+1]...)
	num := aws.ToInt32(params.PartNumber)
	etag := partETag(data)
	up.parts[num] = data
	up.etags[num] = etag
	return &s3.UploadPartCopyOutput{
		CopyPartResult: &awstypes.CopyPartResult{ETag: aws.String(etag)},
	}, nil
}

// CompleteMultipartUpload assembles the listed parts in part-number order
// and replaces the target object.
func (f *FakeStore) CompleteMultipartUpload(
	_ context.Context,
	params *s3.CompleteMultipartUploadInput,
	_ ...func(*s3.Options),
) (*s3.CompleteMultipartUploadOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := aws.ToString(params.UploadId)
	up, ok := f.uploads[id]
	if !ok {
		return nil, &awstypes.NoSuchUpload{}
	}
	if params.MultipartUpload == nil || len(params.MultipartUpload.Parts) == 0 {
		return nil, fmt.Errorf("no parts listed for upload %s", id)
	}

	var assembled []byte
	for _, part := range params.MultipartUpload.Parts {
		num := aws.ToInt32(part.PartNumber)
		data, ok := up.parts[num]
		if !ok {
			// The SDK does not model InvalidPart as a typed error.
			return nil, &smithy.GenericAPIError{Code: "InvalidPart", Message: fmt.Sprintf("part %d was never uploaded", num)}
		}
		if aws.ToString(part.ETag) != up.etags[num] {
			return nil, &smithy.GenericAPIError{Code: "InvalidPart", Message: fmt.Sprintf("part %d etag mismatch", num)}
		}
		assembled = append(assembled, data...)
	}

	f.objects[objectKey(up.bucket, up.key)] = assembled
	delete(f.uploads, id)
	return &s3.CompleteMultipartUploadOutput{
		ETag: aws.String(CalculateETag(assembled)),
	}, nil
}

// AbortMultipartUpload discards an open session.
func (f *FakeStore) AbortMultipartUpload(
	_ context.Context,
	params *s3.AbortMultipartUploadInput,
	_ ...func(*s3.Options),
) (*s3.AbortMultipartUploadOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := aws.ToString(params.UploadId)
	if _, ok := f.uploads[id]; !ok {
		return nil, &awstypes.NoSuchUpload{}
	}
	delete(f.uploads, id)
	f.AbortedUploads = append(f.AbortedUploads, id)
	return &s3.AbortMultipartUploadOutput{}, nil
}

func partETag(data []byte) string {
	sum := md5.Sum(data) //nolint:gosec // MD5 required for S3 ETag
	return fmt.Sprintf("\"%x\"", sum)
}

var _ s3api.S3API = (*FakeStore)(nil)
