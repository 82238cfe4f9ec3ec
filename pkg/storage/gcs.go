package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	gcs "cloud.google.com/go/storage"
)

// GCSStore stores uploads in a Google Cloud Storage bucket. Upload results
// carry the object key so other instances can fetch the original.
type GCSStore struct {
	client *gcs.Client
	bucket string
}

var _ ObjectStore = &GCSStore{}

func NewGCSStore(ctx context.Context, bucket string) (*GCSStore, error) {
	if bucket == "" {
		return nil, fmt.Errorf("GCS bucket name is required")
	}
	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &GCSStore{client: client, bucket: bucket}, nil
}

func (s *GCSStore) Upload(ctx context.Context, localPath, sessionId, filename string) (UploadResult, error) {
	file, err := os.Open(localPath)
	if err != nil {
		return UploadResult{}, fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	key := fmt.Sprintf("sessions/%s/%s", sessionId, filename)

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	if _, err := io.Copy(w, file); err != nil {
		_ = w.Close()
		return UploadResult{}, fmt.Errorf("write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return UploadResult{}, fmt.Errorf("finalize object: %w", err)
	}

	return UploadResult{
		URL:        fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, key),
		StorageKey: &key,
	}, nil
}

func (s *GCSStore) Download(ctx context.Context, storageKey, localPath string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	r, err := s.client.Bucket(s.bucket).Object(storageKey).NewReader(ctx)
	if err != nil {
		return "", fmt.Errorf("open object %s: %w", storageKey, err)
	}
	defer r.Close()

	out, err := os.Create(localPath)
	if err != nil {
		return "", fmt.Errorf("create local file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, r); err != nil {
		return "", fmt.Errorf("download object: %w", err)
	}
	return localPath, nil
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}
