package storage

import "context"

// NewObjectStore picks the storage backend from configuration. A non-empty
// bucket selects GCS; otherwise uploads stay on the local disk and carry no
// storage key.
func NewObjectStore(ctx context.Context, bucket, localDir, baseURL string) (ObjectStore, error) {
	if bucket != "" {
		return NewGCSStore(ctx, bucket)
	}
	return NewLocalStore(localDir, baseURL), nil
}
