package testutil

import (
	"crypto/md5" //nolint:gosec // MD5 required for S3 ETag comparison
	"crypto/rand"
	"encoding/hex"
	"fmt"
	mathrand "math/rand"
	"time"
)

// GenerateRandomData creates random test data of the specified size.
func GenerateRandomData(size int) []byte {
	data := make([]byte, size)
	if _, err := rand.Read(data); err != nil {
		// Fall back to deterministic data on error
		for i := range data {
			data[i] = byte(i % 256)
		}
	}
	return data
}

// GenerateTestKey creates a unique object key for testing.
func GenerateTestKey(prefix string) string {
	return fmt.Sprintf("%s-%d-%d", prefix, time.Now().UnixNano(), mathrand.Intn(10000)) //nolint:gosec
}

// GenerateTestBucketName creates a valid, unique bucket name for testing.
func GenerateTestBucketName(prefix string) string {
	timestamp := time.Now().Unix()
	random := mathrand.Intn(10000) //nolint:gosec
	name := fmt.Sprintf("%s-%d-%d", prefix, timestamp, random)
	if len(name) > 63 {
		name = name[:63]
	}
	return name
}

// CalculateETag computes the expected ETag for data (MD5 hash in quotes).
func CalculateETag(data []byte) string {
	hash := md5.Sum(data) //nolint:gosec // MD5 required for S3 ETag
	return fmt.Sprintf("%q", hex.EncodeToString(hash[:]))
}
