// Package cache keeps acquired documents in memory for a bounded time.
package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/matchfeed/internal/platform/resilience"
)

type entry[T any] struct {
	value     T
	expiresAt time.Time
}

// Store is a TTL cache. A store with ttl <= 0 retains nothing and only
// collapses concurrent loads of the same key.
type Store[T any] struct {
	mu      sync.RWMutex
	entries map[string]entry[T]
	ttl     time.Duration
	now     func() time.Time
	flight  resilience.Group[T]
}

func NewStore[T any](ttl time.Duration) *Store[T] {
	return &Store[T]{
		entries: make(map[string]entry[T]),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *Store[T]) Enabled() bool {
	return s != nil && s.ttl > 0
}

func (s *Store[T]) Get(_ context.Context, key string) (T, bool) {
	var zero T
	if !s.Enabled() || key == "" {
		return zero, false
	}

	now := s.now()
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return zero, false
	}
	if !e.expiresAt.After(now) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return zero, false
	}
	return e.value, true
}

func (s *Store[T]) Set(_ context.Context, key string, value T) {
	if !s.Enabled() || key == "" {
		return
	}

	s.mu.Lock()
	s.entries[key] = entry[T]{value: value, expiresAt: s.now().Add(s.ttl)}
	s.mu.Unlock()
}

// DeletePrefix drops every key starting with prefix, e.g. all documents of
// one origin.
func (s *Store[T]) DeletePrefix(_ context.Context, prefix string) {
	if !s.Enabled() || prefix == "" {
		return
	}

	s.mu.Lock()
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
		}
	}
	s.mu.Unlock()
}

// GetOrLoad returns the cached value or runs loader once per key, sharing
// the result with concurrent callers. Failed loads are not cached. hit
// reports whether the value came from the cache or an in-flight load.
func (s *Store[T]) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (T, error)) (value T, hit bool, err error) {
	if loader == nil {
		return value, false, fmt.Errorf("loader is required")
	}
	if key == "" {
		value, err = loader(ctx)
		return value, false, err
	}

	if cached, ok := s.Get(ctx, key); ok {
		return cached, true, nil
	}

	value, err, shared := s.flight.Do(key, func() (T, error) {
		if cached, ok := s.Get(ctx, key); ok {
			return cached, nil
		}

		loaded, loadErr := loader(ctx)
		if loadErr != nil {
			return loaded, loadErr
		}
		s.Set(ctx, key, loaded)
		return loaded, nil
	})
	return value, shared, err
}
