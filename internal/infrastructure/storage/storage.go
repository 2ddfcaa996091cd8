// Package storage uploads objects to the public and private buckets.
package storage

import (
	"context"
	"io"
)

// Bucket is one object store bucket.
type Bucket interface {
	Name() string
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	// PublicURL is the URL the object is reachable at when the bucket allows public reads.
	PublicURL(key string) string
}
