package services

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"net/url"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"marketplace-backend/shared/config"
)

// BlobService stores file content in MinIO, addressed by the SHA-1 of the
// content. Identical uploads share one object.
type BlobService struct {
	client     *minio.Client
	bucketName string
}

func NewBlobService() (*BlobService, error) {
	cfg := config.GetConfig()

	parsedURL, err := url.Parse(cfg.MinIOServerURL)
	if err != nil {
		return nil, fmt.Errorf("invalid MinIO endpoint: %v", err)
	}

	endpoint := parsedURL.Host
	useSSL := cfg.MinIOUseSSL

	log.Printf("🔗 Connecting to MinIO: %s (SSL: %v)", endpoint, useSSL)

	minioClient, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIORootUser, cfg.MinIORootPassword, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %v", err)
	}

	service := &BlobService{
		client:     minioClient,
		bucketName: cfg.MinIOBucketName,
	}

	if err := service.initializeBucket(); err != nil {
		return nil, err
	}

	return service, nil
}

func (s *BlobService) initializeBucket() error {
	ctx := context.Background()

	exists, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %v", err)
	}

	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %v", err)
		}
		log.Printf("✅ MinIO bucket '%s' created successfully", s.bucketName)
	} else {
		log.Printf("✅ MinIO bucket '%s' already exists", s.bucketName)
	}

	return nil
}

// HashBlob returns the content address for a blob.
func HashBlob(data []byte) string {
	sum := sha1.Sum(data)
	return hex.EncodeToString(sum[:])
}

// PutBlob stores content under its hash and returns the hash. Re-uploading
// existing content overwrites the identical object, so the write is
// idempotent.
func (s *BlobService) PutBlob(ctx context.Context, data []byte) (string, error) {
	hash := HashBlob(data)
	_, err := s.client.PutObject(ctx, s.bucketName, hash,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/octet-stream"})
	if err != nil {
		return "", fmt.Errorf("failed to store blob: %v", err)
	}
	return hash, nil
}

// GetBlob retrieves content by its hash.
func (s *BlobService) GetBlob(ctx context.Context, hash string) ([]byte, error) {
	object, err := s.client.GetObject(ctx, s.bucketName, hash, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve blob: %v", err)
	}
	defer object.Close()

	data, err := io.ReadAll(object)
	if err != nil {
		return nil, fmt.Errorf("failed to read blob: %v", err)
	}
	return data, nil
}
