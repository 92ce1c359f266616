package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Store is an in-process TTL cache. Concurrent misses on the same key share one load.
// A zero ttl keeps entries until they are deleted.
type Store[V any] struct {
	mu      sync.RWMutex
	entries map[string]entry[V]
	ttl     time.Duration
	flight  singleflight.Group
	now     func() time.Time
}

func NewStore[V any](ttl time.Duration) *Store[V] {
	return &Store[V]{
		entries: make(map[string]entry[V]),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *Store[V]) Get(_ context.Context, key string) (V, bool) {
	var zero V
	if key == "" {
		return zero, false
	}

	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return zero, false
	}
	if s.ttl > 0 && !e.expiresAt.After(s.now()) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return zero, false
	}

	return e.value, true
}

func (s *Store[V]) Set(_ context.Context, key string, value V) {
	if key == "" {
		return
	}

	expiresAt := time.Time{}
	if s.ttl > 0 {
		expiresAt = s.now().Add(s.ttl)
	}

	s.mu.Lock()
	s.entries[key] = entry[V]{
		value:     value,
		expiresAt: expiresAt,
	}
	s.mu.Unlock()
}

func (s *Store[V]) Delete(_ context.Context, key string) {
	if key == "" {
		return
	}

	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	s.flight.Forget(key)
}

// DeletePrefix drops every entry whose key starts with prefix and returns how many went.
func (s *Store[V]) DeletePrefix(_ context.Context, prefix string) int {
	if prefix == "" {
		return 0
	}

	removed := 0
	s.mu.Lock()
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
			s.flight.Forget(key)
			removed++
		}
	}
	s.mu.Unlock()
	return removed
}

func (s *Store[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// GetOrLoad returns the cached value for key or calls loader once for all concurrent
// callers. The loader runs detached from ctx cancellation. Failed loads are not cached.
func (s *Store[V]) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (V, error)) (V, bool, error) {
	var zero V
	if loader == nil {
		return zero, false, fmt.Errorf("loader is required")
	}
	if key == "" {
		value, err := loader(ctx)
		return value, false, err
	}

	if value, ok := s.Get(ctx, key); ok {
		return value, true, nil
	}

	shared := context.WithoutCancel(ctx)
	results := s.flight.DoChan(key, func() (any, error) {
		if cached, ok := s.Get(shared, key); ok {
			return cached, nil
		}

		loaded, loadErr := loader(shared)
		if loadErr != nil {
			return nil, loadErr
		}
		s.Set(shared, key, loaded)
		return loaded, nil
	})

	// A waiter that goes away stops waiting; the load keeps going for the others.
	var res singleflight.Result
	select {
	case <-ctx.Done():
		return zero, false, ctx.Err()
	case res = <-results:
	}
	if res.Err != nil {
		return zero, false, res.Err
	}

	return res.Val.(V), false, nil
}
