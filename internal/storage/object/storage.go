package object

import (
	"context"
	"fmt"
	"path"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/wb-go/wbf/retry"

	"github.com/aliskhannn/vr180-converter/internal/config"
)

const contentType = "video/mp4"

// Storage copies finished results to an S3-compatible bucket using MinIO.
type Storage struct {
	client     *minio.Client
	bucketName string
	prefix     string
	strategy   retry.Strategy
}

// NewStorage creates a new Storage instance connected to the configured MinIO server.
// If the bucket does not exist, it will be created automatically.
func NewStorage(ctx context.Context, cfg *config.Mirror, s retry.Strategy) (*Storage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check if bucket exists: %w", err)
	}

	if !exists {
		if err := client.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &Storage{
		client:     client,
		bucketName: cfg.BucketName,
		prefix:     cfg.Prefix,
		strategy:   s,
	}, nil
}

// Put uploads the local file under {prefix}/{base name} and returns the object name.
func (s *Storage) Put(ctx context.Context, localPath string) (string, error) {
	objectName := ObjectName(s.prefix, localPath)

	err := retry.Do(func() error {
		_, putErr := s.client.FPutObject(ctx, s.bucketName, objectName, localPath, minio.PutObjectOptions{
			ContentType: contentType,
		})
		return putErr
	}, s.strategy)
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", objectName, err)
	}

	return objectName, nil
}

// ObjectName maps a local result file to its key in the bucket.
func ObjectName(prefix, localPath string) string {
	base := filepath.Base(localPath)
	if prefix == "" {
		return base
	}

	return path.Join(prefix, base)
}
