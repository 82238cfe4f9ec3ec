package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalStore keeps uploads under a base directory served statically by the
// HTTP server. Its results carry a nil storage key.
type LocalStore struct {
	BaseDir string
	BaseURL string
}

var _ ObjectStore = &LocalStore{}

func NewLocalStore(baseDir, baseURL string) *LocalStore {
	return &LocalStore{BaseDir: baseDir, BaseURL: baseURL}
}

func (s *LocalStore) Upload(ctx context.Context, localPath, sessionId, filename string) (UploadResult, error) {
	destDir := filepath.Join(s.BaseDir, sessionId)
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return UploadResult{}, fmt.Errorf("create upload directory: %w", err)
	}
	destPath := filepath.Join(destDir, filename)

	if err := copyFile(localPath, destPath); err != nil {
		return UploadResult{}, err
	}

	return UploadResult{
		URL:        fmt.Sprintf("%s/uploads/%s/%s", s.BaseURL, sessionId, filename),
		StorageKey: nil, // local mode: pipeline reads the file in place
	}, nil
}

func (s *LocalStore) Download(ctx context.Context, storageKey, localPath string) (string, error) {
	// Local mode never issues downloads; the caller kept the original path.
	srcPath := filepath.Join(s.BaseDir, storageKey)
	if err := copyFile(srcPath, localPath); err != nil {
		return "", err
	}
	return localPath, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy: %w", err)
	}
	return nil
}
