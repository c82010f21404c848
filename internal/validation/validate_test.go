package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/blobforge/s3patch/errors"
)

func TestValidateBucketName(t *testing.T) {
	tests := []struct {
		name    string
		bucket  string
		wantErr bool
	}{
		{name: "valid simple name", bucket: "my-bucket"},
		{name: "valid with dots", bucket: "my.bucket.name"},
		{name: "valid with digits", bucket: "bucket123"},
		{name: "minimum length", bucket: "abc"},
		{name: "maximum length", bucket: strings.Repeat("a", 63)},
		{name: "empty", bucket: "", wantErr: true},
		{name: "too short", bucket: "ab", wantErr: true},
		{name: "too long", bucket: strings.Repeat("a", 64), wantErr: true},
		{name: "uppercase", bucket: "MyBucket", wantErr: true},
		{name: "underscore", bucket: "my_bucket", wantErr: true},
		{name: "leading hyphen", bucket: "-bucket", wantErr: true},
		{name: "trailing hyphen", bucket: "bucket-", wantErr: true},
		{name: "adjacent periods", bucket: "my..bucket", wantErr: true},
		{name: "period hyphen", bucket: "my.-bucket", wantErr: true},
		{name: "hyphen period", bucket: "my-.bucket", wantErr: true},
		{name: "ip address", bucket: "192.168.1.1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBucketName(tt.bucket)
			if tt.wantErr {
				assert.ErrorIs(t, err, errors.ErrInvalidBucketName)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateObjectKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{name: "simple key", key: "file.txt"},
		{name: "nested key", key: "path/to/file.txt"},
		{name: "dots inside name", key: "archive.tar.gz"},
		{name: "maximum length", key: strings.Repeat("a", 1024)},
		{name: "empty", key: "", wantErr: true},
		{name: "too long", key: strings.Repeat("a", 1025), wantErr: true},
		{name: "bare traversal", key: "..", wantErr: true},
		{name: "leading traversal", key: "../etc/passwd", wantErr: true},
		{name: "embedded traversal", key: "a/../b", wantErr: true},
		{name: "trailing traversal", key: "a/..", wantErr: true},
		{name: "control character", key: "file\x00name", wantErr: true},
		{name: "newline", key: "file\nname", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateObjectKey(tt.key)
			if tt.wantErr {
				assert.ErrorIs(t, err, errors.ErrInvalidObjectKey)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
