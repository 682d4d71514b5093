package upload

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// S3Store stores files in an S3 bucket using the ambient AWS credentials.
type S3Store struct {
	client *s3.Client
	bucket string
	// publicBase is the URL the bucket contents are reachable at, without a
	// trailing slash (e.g. a CloudFront distribution).
	publicBase string
}

func NewS3Store(ctx context.Context, bucket, publicBase string) (*S3Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	if publicBase == "" {
		publicBase = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, cfg.Region)
	}
	return &S3Store{
		client:     s3.NewFromConfig(cfg),
		bucket:     bucket,
		publicBase: publicBase,
	}, nil
}

func (s *S3Store) Store(ctx context.Context, name, contentType string, r io.Reader, size int64) (Result, error) {
	id := uuid.NewString()
	key := id + "-" + name
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
		Body:          r,
	})
	if err != nil {
		return Result{}, fmt.Errorf("put object %s: %w", key, err)
	}
	return Result{
		URL:        s.publicBase + "/" + key,
		FileName:   name,
		FileSize:   size,
		FileType:   contentType,
		ExternalID: id,
	}, nil
}
