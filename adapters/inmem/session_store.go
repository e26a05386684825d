package inmem

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type SessionStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{revoked: make(map[string]time.Time), now: time.Now}
}

func (s *SessionStore) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[tokenID] = s.now().Add(ttl)
	return nil
}

func (s *SessionStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	until, ok := s.revoked[tokenID]
	if !ok {
		return false, nil
	}
	if s.now().After(until) {
		delete(s.revoked, tokenID)
		return false, nil
	}
	return true, nil
}

type ViewCounter struct {
	mu     sync.Mutex
	counts map[uuid.UUID]int64
}

func NewViewCounter() *ViewCounter {
	return &ViewCounter{counts: make(map[uuid.UUID]int64)}
}

func (c *ViewCounter) Increment(_ context.Context, ownerID uuid.UUID, _ time.Time) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[ownerID]++
	return c.counts[ownerID], nil
}

func (c *ViewCounter) Count(_ context.Context, ownerID uuid.UUID) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[ownerID], nil
}
