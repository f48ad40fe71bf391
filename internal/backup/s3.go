// Package backup copies model artifacts to object storage so a fresh host
// can start serving without retraining.
package backup

import (
	"context"
	"fmt"
	"os"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// S3Uploader uploads files to an S3 bucket under a fixed key prefix.
type S3Uploader struct {
	uploader *manager.Uploader
	bucket   string
	prefix   string
	log      zerolog.Logger
}

// NewS3Uploader creates an uploader using the default AWS credential chain.
func NewS3Uploader(ctx context.Context, bucket, prefix, region string, log zerolog.Logger) (*S3Uploader, error) {
	if bucket == "" {
		return nil, fmt.Errorf("backup bucket is required")
	}

	opts := []func(*awsconfig.LoadOptions) error{}
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &S3Uploader{
		uploader: manager.NewUploader(s3.NewFromConfig(cfg)),
		bucket:   bucket,
		prefix:   prefix,
		log:      log.With().Str("component", "backup").Logger(),
	}, nil
}

// UploadFile streams a local file to s3://bucket/prefix/key.
func (u *S3Uploader) UploadFile(ctx context.Context, key, filePath string) error {
	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", filePath, err)
	}
	defer f.Close()

	fullKey := key
	if u.prefix != "" {
		fullKey = path.Join(u.prefix, key)
	}

	_, err = u.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(fullKey),
		Body:   f,
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s to s3://%s/%s: %w", filePath, u.bucket, fullKey, err)
	}

	u.log.Info().
		Str("bucket", u.bucket).
		Str("key", fullKey).
		Msg("Artifact uploaded")
	return nil
}
