// Package s3patch patches a contiguous byte range of an existing object in
// an S3-compatible store without downloading and re-uploading the object.
//
// Object stores expose only whole-object writes plus a multipart-upload
// protocol, so an in-place edit is expressed as a new multipart upload:
// the unmodified spans of the object become server-side copy parts (no
// data transfer), the replacement bytes become uploaded parts, and
// CompleteMultipartUpload swaps the assembled object in atomically.
//
// Typical usage:
//
//	client, err := s3patch.New(s3patch.WithRegion("us-east-1"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	_, err = client.Patch(ctx, "my-bucket", "plot.bin",
//	    s3types.NewEdit(1024, payload))
//
// Callers that keep their store settings in a JSON file can use the
// process-wide default client instead, configured via the S3_STORE_CONFIG
// environment variable:
//
//	err := s3patch.Modify(ctx, "plot.bin", s3types.NewEdit(1024, payload))
package s3patch
