package service

import (
	"context"
	"errors"
)

var ErrDocumentNotFound = errors.New("document not found")

// Document is a keyed set of JSON-compatible fields.
type Document struct {
	Key    string
	Fields map[string]any
}

// FieldEquals filters documents whose Field holds exactly Value.
type FieldEquals struct {
	Field string
	Value string
}

type DocumentStore interface {
	// Get returns ErrDocumentNotFound when the key is absent.
	Get(ctx context.Context, collection, key string) (*Document, error)
	// Set replaces the document wholesale.
	Set(ctx context.Context, collection, key string, fields map[string]any) error
	Delete(ctx context.Context, collection, key string) error
	// Query returns matching documents in the store's retrieval order.
	Query(ctx context.Context, collection string, filter FieldEquals) ([]*Document, error)
}
