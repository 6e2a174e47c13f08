package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/silentpianist/portfolio-videos-go/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ThumbnailUploader stores uploaded thumbnail images in MinIO and returns
// their public URLs.
type ThumbnailUploader struct {
	client *minio.Client
	config *config.UploadConfig
}

// NewThumbnailUploader connects to MinIO and ensures the bucket exists.
func NewThumbnailUploader(ctx context.Context, cfg *config.UploadConfig) (*ThumbnailUploader, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to object storage: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	return &ThumbnailUploader{
		client: client,
		config: cfg,
	}, nil
}

// Upload stores one image and returns its hosted URL. The object name is
// timestamped so repeated uploads of the same filename never collide.
func (u *ThumbnailUploader) Upload(ctx context.Context, filename, contentType string, reader io.Reader, size int64) (string, error) {
	objectName := fmt.Sprintf("thumbnails/%d%s", time.Now().UnixNano(), filepath.Ext(filename))

	_, err := u.client.PutObject(ctx, u.config.Bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("store thumbnail: %w", err)
	}

	scheme := "http"
	if u.config.UseSSL {
		scheme = "https"
	}
	publicHost := u.config.PublicHost
	if publicHost == "" {
		publicHost = u.config.Endpoint
	}

	return fmt.Sprintf("%s://%s/%s/%s", scheme, publicHost, u.config.Bucket, objectName), nil
}
