package s3patch

import (
	"context"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	s3errors "github.com/blobforge/s3patch/errors"
	"github.com/blobforge/s3patch/internal/validation"
)

// Get downloads an entire object and returns it as a byte slice.
// This is a convenience for verification and small objects; it loads the
// whole object into memory.
//
// Errors:
//   - ErrObjectNotFound: If the specified object doesn't exist
//   - Network errors or AWS SDK errors wrapped in Error type
func (c *Client) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	if err := validation.ValidateBucketName(bucket); err != nil {
		return nil, err
	}
	if err := validation.ValidateObjectKey(key); err != nil {
		return nil, err
	}

	output, err := c.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, s3errors.NewObjectError("get", bucket, key, s3errors.ErrObjectNotFound)
		}
		return nil, s3errors.NewObjectError("get", bucket, key, err)
	}
	defer output.Body.Close()

	data, err := io.ReadAll(output.Body)
	if err != nil {
		return nil, s3errors.NewObjectError("get", bucket, key, err)
	}
	return data, nil
}
