package services

import (
	"context"
	"io"

	"peo-doctrack/internal/core/domain"
)

// Actor is the authenticated identity attached to a request.
type Actor struct {
	UserID   uint
	Username string
	Role     domain.Role
}

// StoredBlob is what the blob store hands back; the core persists these
// three fields alongside a document and nothing else.
type StoredBlob struct {
	Path string
	Name string
	Size int64
}

// BlobStore is the narrow capability the core consumes for attachments.
// Implementations enforce the content-type allowlist and size cap; the
// core never inspects file bytes.
type BlobStore interface {
	Store(ctx context.Context, r io.Reader, size int64, name, contentType string) (*StoredBlob, error)
}
