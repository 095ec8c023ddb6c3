// Package storage uploads listing and blog images to MinIO or any
// S3-compatible bucket.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/julin-realestate/realestate-api/internal/config"
)

const DefaultFolder = "uploads"

// ImageStore writes decoded data URLs to a bucket and returns public URLs.
type ImageStore struct {
	client  *minio.Client
	bucket  string
	baseURL string
	log     *zap.Logger
}

// New connects to the bucket, creating it when it does not exist yet.
func New(ctx context.Context, cfg config.StorageConfig, log *zap.Logger) (*ImageStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client for %s: %w", cfg.Endpoint, err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("make bucket %s: %w", cfg.Bucket, err)
		}
		log.Info("bucket created", zap.String("bucket", cfg.Bucket))
	}

	baseURL := strings.TrimRight(cfg.PublicBaseURL, "/")
	if baseURL == "" {
		baseURL = client.EndpointURL().String() + "/" + cfg.Bucket
	}
	return &ImageStore{client: client, bucket: cfg.Bucket, baseURL: baseURL, log: log}, nil
}

// UploadDataURL stores a base64 image data URL under folder and returns the
// object's public URL.  Malformed input yields ErrInvalidImage.
func (s *ImageStore) UploadDataURL(ctx context.Context, dataURL, folder string) (string, error) {
	img, err := DecodeDataURL(dataURL)
	if err != nil {
		return "", err
	}
	key := ObjectKey(folder, img.ContentType, uuid.NewString())

	_, err = s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(img.Data), int64(len(img.Data)),
		minio.PutObjectOptions{ContentType: img.ContentType, CacheControl: "public, max-age=31536000, immutable"})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	s.log.Info("image uploaded", zap.String("key", key), zap.Int("bytes", len(img.Data)))
	return s.baseURL + "/" + key, nil
}
