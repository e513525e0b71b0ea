package repository

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/lewybagz/photoBomb/internal/config"
	"github.com/lewybagz/photoBomb/internal/database/minio"
)

// BlobRepository is the path-addressed blob store for photo binaries.
type BlobRepository struct {
	bucket         string
	publicEndpoint string
}

func NewBlobRepository(cfg *config.MinIOConfig) *BlobRepository {
	return &BlobRepository{
		bucket:         cfg.PhotoBucket,
		publicEndpoint: strings.TrimSuffix(cfg.PublicEndpoint, "/"),
	}
}

// Upload stores binary content under objectName and returns its durable
// retrievable URL.
func (r *BlobRepository) Upload(ctx context.Context, objectName string, data []byte, contentType string) (string, error) {
	_, err := minio.UploadObject(ctx, r.bucket, objectName, bytes.NewReader(data), int64(len(data)), contentType)
	if err != nil {
		return "", fmt.Errorf("error uploading object %s: %w", objectName, err)
	}

	return fmt.Sprintf("%s/%s/%s", r.publicEndpoint, r.bucket, objectName), nil
}

// Remove deletes the object at objectName
func (r *BlobRepository) Remove(ctx context.Context, objectName string) error {
	return minio.DeleteObject(ctx, r.bucket, objectName)
}

// Open retrieves an object as a binary stream for re-download flows
func (r *BlobRepository) Open(ctx context.Context, objectName string) (io.ReadCloser, int64, error) {
	obj, err := minio.GetObject(ctx, r.bucket, objectName)
	if err != nil {
		return nil, 0, err
	}

	stat, err := obj.Stat()
	if err != nil {
		obj.Close()
		return nil, 0, err
	}

	return obj, stat.Size, nil
}

// ObjectPathFromURL recovers the bucket-relative object path from a public
// URL produced by Upload.
func (r *BlobRepository) ObjectPathFromURL(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid storage URL %q: %w", rawURL, err)
	}

	path := strings.TrimPrefix(parsed.Path, "/")
	path = strings.TrimPrefix(path, r.bucket+"/")
	if path == "" {
		return "", fmt.Errorf("no object path in storage URL %q", rawURL)
	}
	return path, nil
}

// CountObjects counts the stored photo binaries
func (r *BlobRepository) CountObjects(ctx context.Context) (int, error) {
	return minio.CountObjectsInBucket(r.bucket)
}
