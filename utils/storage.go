package utils

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectStorage implements services.FileStorage over an S3-compatible
// endpoint. Book files and generated invoices live in one private bucket and
// are only ever handed out as presigned URLs.
type ObjectStorage struct {
	client *minio.Client
	bucket string
}

// NewObjectStorage builds the storage client from environment configuration.
func NewObjectStorage() *ObjectStorage {
	endpoint := os.Getenv("S3_ENDPOINT")
	accessKey := os.Getenv("S3_ACCESS_KEY")
	secretKey := os.Getenv("S3_SECRET_KEY")
	bucket := os.Getenv("S3_BUCKET")
	if endpoint == "" || bucket == "" {
		log.Fatal("S3_ENDPOINT and S3_BUCKET must be set")
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: os.Getenv("S3_INSECURE") != "true",
	})
	if err != nil {
		log.Fatalf("Failed to create storage client: %v", err)
	}

	return &ObjectStorage{client: client, bucket: bucket}
}

// Upload writes an object, overwriting any existing one under the same path.
func (s *ObjectStorage) Upload(ctx context.Context, objectPath string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, objectPath, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", objectPath, err)
	}
	return nil
}

// PresignedGet returns a time-limited URL granting read access to the object.
func (s *ObjectStorage) PresignedGet(ctx context.Context, objectPath string, expiry time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, objectPath, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to presign %s: %w", objectPath, err)
	}
	return u.String(), nil
}
