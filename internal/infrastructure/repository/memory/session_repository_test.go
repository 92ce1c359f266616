package memory

import (
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/match-roster/internal/domain/candidate"
	"github.com/riskibarqy/match-roster/internal/domain/roster"
	"github.com/riskibarqy/match-roster/internal/domain/session"
)

func newTestSession(id string, expiresAt time.Time) session.Session {
	return session.Session{
		ID:         id,
		Source:     session.Source{SheetID: "sheet-abc", GIDs: []string{"0"}},
		Candidates: candidate.FromRecords([]candidate.Record{{"Nome": "Anna"}, {"Nome": "Bea"}}, candidate.DefaultFieldMapping()),
		Roster:     roster.New(roster.DefaultCapacity),
		ExpiresAt:  expiresAt,
	}
}

func TestSessionRepository_UpdateIsAtomic(t *testing.T) {
	repo := NewSessionRepository()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }

	if err := repo.Create(t.Context(), newTestSession("s-1", now.Add(time.Hour))); err != nil {
		t.Fatalf("create session: %v", err)
	}

	_, err := repo.Update(t.Context(), "s-1", func(item *session.Session) error {
		_, err := item.Roster.Add(item.Candidates, "0", 1, roster.RoleNone)
		return err
	})
	if err != nil {
		t.Fatalf("update session: %v", err)
	}

	rejected := errors.New("rejected")
	_, err = repo.Update(t.Context(), "s-1", func(item *session.Session) error {
		if _, err := item.Roster.Add(item.Candidates, "1", 2, roster.RoleNone); err != nil {
			return err
		}
		return rejected
	})
	if !errors.Is(err, rejected) {
		t.Fatalf("expected rejected error, got %v", err)
	}

	stored, ok, err := repo.GetByID(t.Context(), "s-1")
	if err != nil || !ok {
		t.Fatalf("get session: ok=%v err=%v", ok, err)
	}
	if stored.Roster.Len() != 1 {
		t.Fatalf("failed update leaked into store: len=%d", stored.Roster.Len())
	}

	stored.Roster.Remove("0")
	again, _, _ := repo.GetByID(t.Context(), "s-1")
	if again.Roster.Len() != 1 {
		t.Fatalf("caller mutation leaked into store")
	}
}

func TestSessionRepository_Expiry(t *testing.T) {
	repo := NewSessionRepository()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }

	_ = repo.Create(t.Context(), newTestSession("old", now.Add(-time.Minute)))
	_ = repo.Create(t.Context(), newTestSession("live", now.Add(time.Minute)))

	if _, ok, _ := repo.GetByID(t.Context(), "old"); ok {
		t.Fatalf("expired session must not be visible")
	}
	if _, err := repo.Update(t.Context(), "old", func(*session.Session) error { return nil }); !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	removed, err := repo.DeleteExpired(t.Context(), now)
	if err != nil {
		t.Fatalf("delete expired: %v", err)
	}
	if removed != 1 {
		t.Fatalf("unexpected removed count: %d", removed)
	}
	if _, ok, _ := repo.GetByID(t.Context(), "live"); !ok {
		t.Fatalf("live session was removed")
	}
}
