package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/match-roster/internal/domain/roster"
	"github.com/riskibarqy/match-roster/internal/domain/session"
	"github.com/riskibarqy/match-roster/internal/platform/id"
	"github.com/riskibarqy/match-roster/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

const defaultSessionTTL = 12 * time.Hour

type OpenSessionInput struct {
	SheetID string
	GIDs    []string
}

type SessionServiceConfig struct {
	TTL            time.Duration
	RosterCapacity int
}

// SessionService owns the session lifecycle: open from an import, swap the source,
// reset and expire.
type SessionService struct {
	repo     session.Repository
	importer *ImportService
	ids      id.Generator
	ttl      time.Duration
	capacity int
	now      func() time.Time
	logger   *logging.Logger
	metrics  MetricsRecorder
}

func NewSessionService(
	repo session.Repository,
	importer *ImportService,
	ids id.Generator,
	cfg SessionServiceConfig,
	logger *logging.Logger,
	metrics MetricsRecorder,
) *SessionService {
	if logger == nil {
		logger = logging.Default()
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	capacity := cfg.RosterCapacity
	if capacity < 1 {
		capacity = roster.DefaultCapacity
	}

	return &SessionService{
		repo:     repo,
		importer: importer,
		ids:      ids,
		ttl:      ttl,
		capacity: capacity,
		now:      time.Now,
		logger:   logger,
		metrics:  metricsOrNop(metrics),
	}
}

// Open imports the candidates and starts a session with an empty roster. A failed
// import creates nothing.
func (s *SessionService) Open(ctx context.Context, input OpenSessionInput) (session.Session, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SessionService.Open")
	defer span.End()

	src, err := s.importer.NormalizeSource(input.SheetID, input.GIDs)
	if err != nil {
		return session.Session{}, err
	}

	items, err := s.importer.Import(ctx, src, false)
	if err != nil {
		recordSpanError(span, err)
		return session.Session{}, fmt.Errorf("import candidates: %w", err)
	}

	sessionID, err := s.ids.NewID()
	if err != nil {
		return session.Session{}, fmt.Errorf("generate session id: %w", err)
	}

	now := s.now().UTC()
	item := session.Session{
		ID:         sessionID,
		Source:     src,
		Candidates: items,
		Roster:     roster.New(s.capacity),
		CreatedAt:  now,
		UpdatedAt:  now,
		ExpiresAt:  now.Add(s.ttl),
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return session.Session{}, fmt.Errorf("create session: %w", err)
	}
	span.SetAttributes(attribute.String("session.id", sessionID))

	s.refreshActiveGauge(ctx)
	s.logger.InfoContext(ctx, "session opened",
		"session_id", sessionID,
		"sheet_id", src.MaskedSheetID(),
		"candidates", len(items),
	)
	return item, nil
}

func (s *SessionService) Get(ctx context.Context, sessionID string) (session.Session, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SessionService.Get")
	defer span.End()

	return loadSession(ctx, s.repo, sessionID)
}

// ReplaceSource re-imports from another sheet (or the same one, bypassing the cache)
// and clears the roster.
func (s *SessionService) ReplaceSource(ctx context.Context, sessionID string, input OpenSessionInput) (session.Session, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SessionService.ReplaceSource", attribute.String("session.id", sessionID))
	defer span.End()

	sessionID = strings.TrimSpace(sessionID)
	if _, err := loadSession(ctx, s.repo, sessionID); err != nil {
		return session.Session{}, err
	}

	src, err := s.importer.NormalizeSource(input.SheetID, input.GIDs)
	if err != nil {
		return session.Session{}, err
	}
	items, err := s.importer.Import(ctx, src, true)
	if err != nil {
		recordSpanError(span, err)
		return session.Session{}, fmt.Errorf("import candidates: %w", err)
	}

	updated, err := s.repo.Update(ctx, sessionID, func(item *session.Session) error {
		now := s.now().UTC()
		item.Source = src
		item.Candidates = items
		item.Roster = roster.New(item.Roster.Capacity())
		item.UpdatedAt = now
		item.ExpiresAt = now.Add(s.ttl)
		return nil
	})
	if err != nil {
		return session.Session{}, mapSessionError(err, sessionID)
	}

	s.logger.InfoContext(ctx, "session source replaced",
		"session_id", sessionID,
		"sheet_id", src.MaskedSheetID(),
		"candidates", len(items),
	)
	return updated, nil
}

// Close drops the session with its roster.
func (s *SessionService) Close(ctx context.Context, sessionID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.SessionService.Close")
	defer span.End()

	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return fmt.Errorf("%w: session id is required", ErrInvalidInput)
	}

	deleted, err := s.repo.Delete(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if !deleted {
		return fmt.Errorf("%w: session=%s", ErrNotFound, sessionID)
	}

	s.refreshActiveGauge(ctx)
	s.logger.InfoContext(ctx, "session closed", "session_id", sessionID)
	return nil
}

// SweepExpired removes sessions past their expiry and returns how many were removed.
func (s *SessionService) SweepExpired(ctx context.Context) (int, error) {
	removed, err := s.repo.DeleteExpired(ctx, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	if removed > 0 {
		s.logger.InfoContext(ctx, "expired sessions removed", "count", removed)
	}
	s.refreshActiveGauge(ctx)
	return removed, nil
}

// RunJanitor sweeps on every interval tick until ctx is done.
func (s *SessionService) RunJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.SweepExpired(ctx); err != nil {
				s.logger.WarnContext(ctx, "session sweep failed", "error", err)
			}
		}
	}
}

func (s *SessionService) refreshActiveGauge(ctx context.Context) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "count sessions failed", "error", err)
		return
	}
	s.metrics.SetActiveSessions(count)
}

func loadSession(ctx context.Context, repo session.Repository, sessionID string) (session.Session, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return session.Session{}, fmt.Errorf("%w: session id is required", ErrInvalidInput)
	}

	item, exists, err := repo.GetByID(ctx, sessionID)
	if err != nil {
		return session.Session{}, fmt.Errorf("get session: %w", err)
	}
	if !exists {
		return session.Session{}, fmt.Errorf("%w: session=%s", ErrNotFound, sessionID)
	}
	return item, nil
}

func mapSessionError(err error, sessionID string) error {
	if errors.Is(err, session.ErrNotFound) {
		return fmt.Errorf("%w: session=%s", ErrNotFound, sessionID)
	}
	return err
}
