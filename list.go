package s3patch

import (
	"context"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	s3errors "github.com/blobforge/s3patch/errors"
	"github.com/blobforge/s3patch/internal/validation"
	"github.com/blobforge/s3patch/s3types"
)

// List lists objects in a bucket with support for pagination and prefix
// filtering. Use maxKeys to control the page size (max 1000 per request).
//
// Returns:
//   - *ListResult: Contains the objects and pagination information
//   - error: Returns an error if the listing fails
//
// Example:
//
//	result, err := client.List(ctx, "my-bucket", "plots/")
//	if err != nil {
//	    return err
//	}
//	for _, obj := range result.Objects {
//	    fmt.Printf("%s\t%d\n", obj.Key, obj.Size)
//	}
func (c *Client) List(
	ctx context.Context,
	bucket, prefix string,
	opts ...s3types.ListOption,
) (*s3types.ListResult, error) {
	if err := validation.ValidateBucketName(bucket); err != nil {
		return nil, err
	}

	config := s3types.ListOptionConfig{
		Prefix:  prefix,
		MaxKeys: 1000,
	}
	for _, opt := range opts {
		opt(&config)
	}

	startTime := time.Now()

	input := &s3.ListObjectsV2Input{
		Bucket:  aws.String(bucket),
		Prefix:  aws.String(config.Prefix),
		MaxKeys: aws.Int32(config.MaxKeys),
	}
	if config.StartAfter != "" {
		input.StartAfter = aws.String(config.StartAfter)
	}

	output, err := c.s3Client.ListObjectsV2(ctx, input)
	if err != nil {
		return nil, s3errors.NewError("list", err).WithBucket(bucket)
	}

	result := &s3types.ListResult{
		Objects:     make([]s3types.Object, 0, len(output.Contents)),
		IsTruncated: aws.ToBool(output.IsTruncated),
		Duration:    time.Since(startTime),
	}
	if output.NextContinuationToken != nil {
		result.NextContinuationToken = aws.ToString(output.NextContinuationToken)
	}

	for _, obj := range output.Contents {
		result.Objects = append(result.Objects, s3types.Object{
			Key:          aws.ToString(obj.Key),
			Size:         aws.ToInt64(obj.Size),
			LastModified: aws.ToTime(obj.LastModified),
			ETag:         strings.Trim(aws.ToString(obj.ETag), "\""),
		})
	}

	return result, nil
}
