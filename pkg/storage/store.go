// Package storage abstracts where original uploads live: a local uploads
// directory in development, a GCS bucket in production. A nil storage key
// on the upload result signals local mode, telling the pipeline to skip
// the remote-fetch path.
package storage

import (
	"context"
)

// UploadResult describes where an uploaded file ended up.
type UploadResult struct {
	URL string
	// StorageKey is nil in local-filesystem mode.
	StorageKey *string
}

// ObjectStore stores and retrieves original session documents.
type ObjectStore interface {
	Upload(ctx context.Context, localPath, sessionId, filename string) (UploadResult, error)
	Download(ctx context.Context, storageKey, localPath string) (string, error)
}
