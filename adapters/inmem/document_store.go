// Package inmem holds process-local adapters used by tests and by the
// "memory" storage driver.
package inmem

import (
	"context"
	"maps"
	"sync"

	"github.com/khoahotran/devlinks/internal/application/service"
)

type collection struct {
	order []string
	docs  map[string]map[string]any
}

type DocumentStore struct {
	mu          sync.RWMutex
	collections map[string]*collection
}

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{collections: make(map[string]*collection)}
}

func (s *DocumentStore) Get(_ context.Context, coll, key string) (*service.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[coll]
	if !ok {
		return nil, service.ErrDocumentNotFound
	}
	fields, ok := c.docs[key]
	if !ok {
		return nil, service.ErrDocumentNotFound
	}
	return &service.Document{Key: key, Fields: maps.Clone(fields)}, nil
}

func (s *DocumentStore) Set(_ context.Context, coll, key string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[coll]
	if !ok {
		c = &collection{docs: make(map[string]map[string]any)}
		s.collections[coll] = c
	}
	if _, exists := c.docs[key]; !exists {
		c.order = append(c.order, key)
	}
	c.docs[key] = maps.Clone(fields)
	return nil
}

func (s *DocumentStore) Delete(_ context.Context, coll, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[coll]
	if !ok {
		return service.ErrDocumentNotFound
	}
	if _, exists := c.docs[key]; !exists {
		return service.ErrDocumentNotFound
	}
	delete(c.docs, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *DocumentStore) Query(_ context.Context, coll string, filter service.FieldEquals) ([]*service.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]*service.Document, 0)
	c, ok := s.collections[coll]
	if !ok {
		return docs, nil
	}
	for _, key := range c.order {
		fields := c.docs[key]
		if v, ok := fields[filter.Field].(string); ok && v == filter.Value {
			docs = append(docs, &service.Document{Key: key, Fields: maps.Clone(fields)})
		}
	}
	return docs, nil
}
