package filestore

import (
	"context"
	"errors"
)

// ErrObjectNotFound is returned by ResolveURL when the handle does not point
// to a stored object (deleted, expired or never uploaded).
var ErrObjectNotFound = errors.New("object not found")

// UploadTarget is handed to clients so they can push attachment bytes
// directly to the blob store. The handle is what ends up as a response value.
type UploadTarget struct {
	Handle    string `json:"handle"`
	URL       string `json:"url"`
	Method    string `json:"method"`
	ExpiresAt int64  `json:"expiresAt"`
}

// ObjectStore is the blob storage collaborator: opaque handles in, fetchable
// URLs out. Handles are stored raw in submissions and resolved only at read
// time, so URLs never end up in the document store.
type ObjectStore interface {
	IssueUploadTarget(ctx context.Context) (UploadTarget, error)
	ResolveURL(ctx context.Context, handle string) (string, error)
}
