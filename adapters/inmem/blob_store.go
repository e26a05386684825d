package inmem

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/khoahotran/devlinks/internal/application/service"
)

type blob struct {
	data    []byte
	version int
}

// BlobStore keeps blobs in memory and serves them under BaseURL.
type BlobStore struct {
	BaseURL string

	mu    sync.RWMutex
	blobs map[string]*blob
}

func NewBlobStore(baseURL string) *BlobStore {
	return &BlobStore{BaseURL: strings.TrimSuffix(baseURL, "/"), blobs: make(map[string]*blob)}
}

func (s *BlobStore) Put(_ context.Context, key string, data io.Reader) (service.BlobHandle, error) {
	b, err := io.ReadAll(data)
	if err != nil {
		return service.BlobHandle{}, fmt.Errorf("failed to read blob: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.blobs[key]
	version := 1
	if ok {
		version = prev.version + 1
	}
	s.blobs[key] = &blob{data: b, version: version}
	return service.BlobHandle{Key: key, Version: strconv.Itoa(version)}, nil
}

func (s *BlobStore) PublicURL(_ context.Context, h service.BlobHandle) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.blobs[h.Key]; !ok {
		return "", fmt.Errorf("blob %q not found", h.Key)
	}
	return fmt.Sprintf("%s/%s?v=%s", s.BaseURL, h.Key, h.Version), nil
}

// Open returns the current bytes stored under key.
func (s *BlobStore) Open(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.blobs[key]
	if !ok {
		return nil, false
	}
	return b.data, true
}
