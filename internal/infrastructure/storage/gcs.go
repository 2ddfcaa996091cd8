package storage

import (
	"context"
	"io"
	"strings"

	gcs "cloud.google.com/go/storage"

	"github.com/oksasatya/go-account-service/pkg/helpers"
)

// GCSBucket is a Google Cloud Storage bucket, used when STORAGE_DRIVER=gcs.
type GCSBucket struct {
	client *gcs.Client
	bucket string
}

func NewGCSBucket(client *gcs.Client, bucket string) *GCSBucket {
	return &GCSBucket{client: client, bucket: bucket}
}

func (b *GCSBucket) Name() string { return b.bucket }

func (b *GCSBucket) Put(ctx context.Context, key, contentType string, body io.Reader, _ int64) error {
	wc := b.client.Bucket(b.bucket).Object(strings.TrimPrefix(key, "/")).NewWriter(ctx)
	wc.ContentType = contentType
	wc.ChunkSize = 0 // disable chunking for small files
	if _, err := io.Copy(wc, body); err != nil {
		_ = wc.Close()
		return err
	}
	return wc.Close()
}

func (b *GCSBucket) PublicURL(key string) string {
	return helpers.GCSPublicURL(b.bucket, key)
}
