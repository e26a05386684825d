package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/khoahotran/devlinks/internal/application/service"
	"github.com/khoahotran/devlinks/pkg/logger"
)

// cachedDocumentStore serves point lookups from Redis and drops the cached
// copy whenever a document is written. Queries always hit the inner store.
type cachedDocumentStore struct {
	inner  service.DocumentStore
	rdb    *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedDocumentStore(inner service.DocumentStore, rdb *redis.Client, ttl time.Duration, logger logger.Logger) service.DocumentStore {
	return &cachedDocumentStore{inner: inner, rdb: rdb, ttl: ttl, logger: logger}
}

func documentCacheKey(collection, key string) string {
	return "doc:" + collection + ":" + key
}

func (s *cachedDocumentStore) Get(ctx context.Context, collection, key string) (*service.Document, error) {
	cacheKey := documentCacheKey(collection, key)

	b, err := s.rdb.Get(ctx, cacheKey).Bytes()
	if err == nil {
		doc := &service.Document{Key: key}
		if jsonErr := json.Unmarshal(b, &doc.Fields); jsonErr == nil {
			return doc, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		s.logger.Warn("Document cache read failed", zap.String("cache_key", cacheKey), zap.Error(err))
	}

	doc, err := s.inner.Get(ctx, collection, key)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(doc.Fields); err == nil {
		if err := s.rdb.Set(ctx, cacheKey, b, s.ttl).Err(); err != nil {
			s.logger.Warn("Document cache write failed", zap.String("cache_key", cacheKey), zap.Error(err))
		}
	}
	return doc, nil
}

func (s *cachedDocumentStore) Set(ctx context.Context, collection, key string, fields map[string]any) error {
	if err := s.inner.Set(ctx, collection, key, fields); err != nil {
		return err
	}
	s.invalidate(ctx, collection, key)
	return nil
}

func (s *cachedDocumentStore) Delete(ctx context.Context, collection, key string) error {
	if err := s.inner.Delete(ctx, collection, key); err != nil {
		return err
	}
	s.invalidate(ctx, collection, key)
	return nil
}

func (s *cachedDocumentStore) Query(ctx context.Context, collection string, filter service.FieldEquals) ([]*service.Document, error) {
	return s.inner.Query(ctx, collection, filter)
}

func (s *cachedDocumentStore) invalidate(ctx context.Context, collection, key string) {
	cacheKey := documentCacheKey(collection, key)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		// a stale entry expires with the TTL
		s.logger.Warn("Document cache invalidation failed", zap.String("cache_key", cacheKey), zap.Error(err))
	}
}
