package service

import (
	"context"
	"io"
)

// BlobHandle identifies a stored blob inside its backing store.
type BlobHandle struct {
	Key     string
	Version string
	// URL is set when the store already knows the delivery address.
	URL string
}

// BlobStore writes bytes under a key and resolves a public URL for them.
// Writing an existing key replaces the previous bytes.
type BlobStore interface {
	Put(ctx context.Context, key string, data io.Reader) (BlobHandle, error)
	PublicURL(ctx context.Context, handle BlobHandle) (string, error)
}
