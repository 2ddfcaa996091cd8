package helpers

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/oksasatya/go-account-service/config"
)

// NewS3Client creates an S3 client for one bucket configuration using static credentials.
// Works against AWS as well as S3-compatible servers such as MinIO.
func NewS3Client(ctx context.Context, bc config.BucketConfig) (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(bc.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			bc.AccessKeyID,
			bc.SecretAccessKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if bc.Endpoint != "" {
			o.BaseEndpoint = aws.String(bc.Endpoint)
		}
		o.UsePathStyle = bc.ForcePathStyle
	}), nil
}
