package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/oksasatya/go-account-service/config"
	"github.com/oksasatya/go-account-service/pkg/helpers"
)

// S3Bucket is a bucket on AWS S3 or an S3-compatible server.
type S3Bucket struct {
	client *s3.Client
	cfg    config.BucketConfig
}

func NewS3Bucket(ctx context.Context, bc config.BucketConfig) (*S3Bucket, error) {
	client, err := helpers.NewS3Client(ctx, bc)
	if err != nil {
		return nil, fmt.Errorf("s3 client for %s: %w", bc.Bucket, err)
	}
	return &S3Bucket{client: client, cfg: bc}, nil
}

func (b *S3Bucket) Name() string { return b.cfg.Bucket }

func (b *S3Bucket) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(b.cfg.Bucket),
		Key:           aws.String(strings.TrimPrefix(key, "/")),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	})
	return err
}

func (b *S3Bucket) PublicURL(key string) string {
	return S3PublicURL(b.cfg, key)
}

// S3PublicURL builds endpoint/bucket/key for path-style buckets and
// scheme://bucket.host/key for virtual-hosted ones.
func S3PublicURL(bc config.BucketConfig, key string) string {
	key = strings.TrimPrefix(key, "/")
	endpoint := strings.TrimRight(bc.Endpoint, "/")
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://s3.%s.amazonaws.com", bc.Region)
	}
	if bc.ForcePathStyle {
		return endpoint + "/" + bc.Bucket + "/" + key
	}
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return endpoint + "/" + bc.Bucket + "/" + key
	}
	return u.Scheme + "://" + bc.Bucket + "." + u.Host + "/" + key
}
