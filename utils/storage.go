package utils

import (
	"context"
	"fmt"
	"mime/multipart"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

// S3Storage stores product images in an S3 bucket and serves them as public
// URLs.
type S3Storage struct {
	client *s3.Client
	bucket string
	region string
}

// NewS3Storage builds an S3Storage from the default AWS config chain and the
// AWS_S3_BUCKET_NAME / AWS_REGION environment variables.
func NewS3Storage(ctx context.Context) (*S3Storage, error) {
	region := os.Getenv("AWS_REGION")
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &S3Storage{
		client: s3.NewFromConfig(cfg),
		bucket: os.Getenv("AWS_S3_BUCKET_NAME"),
		region: region,
	}, nil
}

// Upload stores one image under folder/ and returns its public URL.
func (s *S3Storage) Upload(ctx context.Context, file multipart.File, header *multipart.FileHeader, folder string) (string, error) {
	key := fmt.Sprintf("%s/%s-%s", folder, uuid.NewString(), header.Filename)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(header.Header.Get("Content-Type")),
		ACL:         types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", UpstreamError("Failed to upload image to S3")
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key), nil
}

// UploadMany stores each image in turn, returning the public URLs in order.
func (s *S3Storage) UploadMany(ctx context.Context, files []*multipart.FileHeader, folder string) ([]string, error) {
	urls := make([]string, 0, len(files))
	for _, header := range files {
		f, err := header.Open()
		if err != nil {
			return nil, UpstreamError("Failed to upload image to S3")
		}
		url, err := s.Upload(ctx, f, header, folder)
		f.Close()
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

// Delete removes an object identified by its public URL.
func (s *S3Storage) Delete(ctx context.Context, imageURL string) error {
	parts := strings.SplitN(imageURL, ".com/", 2)
	if len(parts) < 2 {
		return ValidationError("Invalid image URL")
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(parts[1]),
	})
	if err != nil {
		return UpstreamError("Failed to delete image from S3")
	}
	return nil
}
