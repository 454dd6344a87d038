package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	appConfig "github.com/kendall-kelly/restaurant-assistant-api/config"
)

// ObjectStorage defines the object store operations used for transcript archives
type ObjectStorage interface {
	PutObject(ctx context.Context, key, contentType string, body []byte) error
	GetPresignedURL(ctx context.Context, key string, expires time.Duration) (string, error)
}

// S3Service stores objects in a single S3 bucket
type S3Service struct {
	client *s3.Client
	bucket string
}

// NewS3Service builds an S3 client from the AWS settings in cfg
func NewS3Service(ctx context.Context, cfg *appConfig.Config) (*S3Service, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.AWSRegion),
	}
	// Explicit keys win; otherwise fall back to the default credential chain (instance role, profile, ...)
	if cfg.AWSAccessKeyID != "" && cfg.AWSSecretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AWSAccessKeyID,
			cfg.AWSSecretAccessKey,
			"",
		)))
	}

	awsConfig, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &S3Service{
		client: s3.NewFromConfig(awsConfig),
		bucket: cfg.AWSS3Bucket,
	}, nil
}

// PutObject uploads body under key
func (s *S3Service) PutObject(ctx context.Context, key, contentType string, body []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}
	return nil
}

// GetPresignedURL generates a presigned GET URL for a private object
func (s *S3Service) GetPresignedURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	if key == "" {
		return "", nil
	}

	presignClient := s3.NewPresignClient(s.client)
	request, err := presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = expires
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return request.URL, nil
}
