package memory

import (
	"context"
	"sync"
	"time"

	"github.com/riskibarqy/match-roster/internal/domain/session"
)

type SessionRepository struct {
	mu    sync.RWMutex
	items map[string]session.Session
	now   func() time.Time
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		items: make(map[string]session.Session),
		now:   time.Now,
	}
}

func (r *SessionRepository) Create(_ context.Context, item session.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.ID] = item.Clone()
	return nil
}

func (r *SessionRepository) GetByID(_ context.Context, id string) (session.Session, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok || item.Expired(r.now()) {
		return session.Session{}, false, nil
	}

	return item.Clone(), true, nil
}

func (r *SessionRepository) Update(_ context.Context, id string, fn func(*session.Session) error) (session.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok || item.Expired(r.now()) {
		return session.Session{}, session.ErrNotFound
	}

	working := item.Clone()
	if err := fn(&working); err != nil {
		return session.Session{}, err
	}

	r.items[id] = working
	return working.Clone(), nil
}

func (r *SessionRepository) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.items[id]
	delete(r.items, id)
	return ok, nil
}

func (r *SessionRepository) DeleteExpired(_ context.Context, now time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, item := range r.items {
		if item.Expired(now) {
			delete(r.items, id)
			removed++
		}
	}
	return removed, nil
}

// Count returns the number of live sessions.
func (r *SessionRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	now := r.now()
	count := 0
	for _, item := range r.items {
		if !item.Expired(now) {
			count++
		}
	}
	return count, nil
}
