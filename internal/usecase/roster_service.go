package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/match-roster/internal/domain/candidate"
	"github.com/riskibarqy/match-roster/internal/domain/roster"
	"github.com/riskibarqy/match-roster/internal/domain/session"
	"github.com/riskibarqy/match-roster/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

// RosterView is a consistent snapshot of one session's roster.
type RosterView struct {
	SessionID string
	Entries   []roster.Entry
	Summary   roster.Summary
	Version   uint64
}

type NumberUpdateResult struct {
	View RosterView
	Swap roster.Swap
}

type Availability struct {
	SuggestedNumber int
	FreeRoles       []roster.RoleKey
	TakenNumbers    []int
}

// AddEntryInput leaves Number nil to use the suggested number.
type AddEntryInput struct {
	CandidateID string
	Number      *int
	Role        string
}

// RosterService runs assignment-engine operations against a session. Every mutation
// goes through the repository's Update so a rejected operation changes nothing.
type RosterService struct {
	repo    session.Repository
	ttl     time.Duration
	now     func() time.Time
	logger  *logging.Logger
	metrics MetricsRecorder
}

func NewRosterService(repo session.Repository, ttl time.Duration, logger *logging.Logger, metrics MetricsRecorder) *RosterService {
	if logger == nil {
		logger = logging.Default()
	}
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &RosterService{
		repo:    repo,
		ttl:     ttl,
		now:     time.Now,
		logger:  logger,
		metrics: metricsOrNop(metrics),
	}
}

func (s *RosterService) GetRoster(ctx context.Context, sessionID string) (RosterView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.GetRoster")
	defer span.End()

	item, err := loadSession(ctx, s.repo, sessionID)
	if err != nil {
		return RosterView{}, err
	}
	return viewOf(item), nil
}

// ListCandidates returns the imported candidates not yet on the roster.
func (s *RosterService) ListCandidates(ctx context.Context, sessionID, search string) (candidate.List, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.ListCandidates")
	defer span.End()

	item, err := loadSession(ctx, s.repo, sessionID)
	if err != nil {
		return nil, err
	}
	return item.Roster.UnassignedCandidates(item.Candidates, search), nil
}

// Availability reports the default number for a new entry with role and the roles
// still free.
func (s *RosterService) Availability(ctx context.Context, sessionID, role string) (Availability, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.Availability")
	defer span.End()

	key, err := parseRole(role)
	if err != nil {
		return Availability{}, err
	}
	item, err := loadSession(ctx, s.repo, sessionID)
	if err != nil {
		return Availability{}, err
	}

	taken := make([]int, 0, item.Roster.Len())
	for _, entry := range item.Roster.Entries() {
		if entry.HasNumber() {
			taken = append(taken, entry.Number)
		}
	}
	return Availability{
		SuggestedNumber: item.Roster.SuggestNumber(key),
		FreeRoles:       item.Roster.FreeRoles(),
		TakenNumbers:    taken,
	}, nil
}

func (s *RosterService) AddEntry(ctx context.Context, sessionID string, input AddEntryInput) (RosterView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.AddEntry", attribute.String("session.id", sessionID))
	defer span.End()

	candidateID := strings.TrimSpace(input.CandidateID)
	if candidateID == "" {
		return RosterView{}, fmt.Errorf("%w: candidate id is required", ErrInvalidInput)
	}
	role, err := parseRole(input.Role)
	if err != nil {
		return RosterView{}, err
	}

	updated, err := s.mutate(ctx, "add", sessionID, func(item *session.Session) error {
		number := item.Roster.SuggestNumber(role)
		if input.Number != nil {
			number = *input.Number
		}
		_, err := item.Roster.Add(item.Candidates, candidateID, number, role)
		return err
	})
	if err != nil {
		recordSpanError(span, err)
		return RosterView{}, err
	}
	return viewOf(updated), nil
}

func (s *RosterService) ToggleRole(ctx context.Context, sessionID, candidateID, role string, on bool) (RosterView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.ToggleRole", attribute.String("session.id", sessionID))
	defer span.End()

	key, err := parseRole(role)
	if err != nil {
		return RosterView{}, err
	}
	if key == roster.RoleNone {
		return RosterView{}, fmt.Errorf("%w: role is required", ErrInvalidInput)
	}

	updated, err := s.mutate(ctx, "toggle_role", sessionID, func(item *session.Session) error {
		_, err := item.Roster.ToggleRole(strings.TrimSpace(candidateID), key, on)
		return err
	})
	if err != nil {
		recordSpanError(span, err)
		return RosterView{}, err
	}
	return viewOf(updated), nil
}

// UpdateNumber changes an entry's number. When another entry holds the number the two
// exchange numbers and the result says with whom.
func (s *RosterService) UpdateNumber(ctx context.Context, sessionID, candidateID string, number int) (NumberUpdateResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.UpdateNumber", attribute.String("session.id", sessionID))
	defer span.End()

	var swap roster.Swap
	updated, err := s.mutate(ctx, "update_number", sessionID, func(item *session.Session) error {
		var err error
		_, swap, err = item.Roster.UpdateNumber(strings.TrimSpace(candidateID), number)
		return err
	})
	if err != nil {
		recordSpanError(span, err)
		return NumberUpdateResult{}, err
	}

	if swap.Happened() {
		s.logger.InfoContext(ctx, "roster numbers swapped",
			"session_id", sessionID,
			"candidate_id", candidateID,
			"swapped_with", swap.CandidateID,
			"swapped_to", swap.Number,
		)
	}
	return NumberUpdateResult{View: viewOf(updated), Swap: swap}, nil
}

func (s *RosterService) RemoveEntry(ctx context.Context, sessionID, candidateID string) (RosterView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.RemoveEntry", attribute.String("session.id", sessionID))
	defer span.End()

	updated, err := s.mutate(ctx, "remove", sessionID, func(item *session.Session) error {
		_, err := item.Roster.Remove(strings.TrimSpace(candidateID))
		return err
	})
	if err != nil {
		recordSpanError(span, err)
		return RosterView{}, err
	}
	return viewOf(updated), nil
}

func (s *RosterService) mutate(ctx context.Context, operation, sessionID string, fn func(*session.Session) error) (session.Session, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return session.Session{}, fmt.Errorf("%w: session id is required", ErrInvalidInput)
	}

	updated, err := s.repo.Update(ctx, sessionID, func(item *session.Session) error {
		before := item.Roster.Version()
		if err := fn(item); err != nil {
			return err
		}
		if item.Roster.Version() != before {
			now := s.now().UTC()
			item.UpdatedAt = now
			item.ExpiresAt = now.Add(s.ttl)
		}
		return nil
	})
	if err != nil {
		err = mapSessionError(err, sessionID)
		if isRosterRejection(err) {
			s.metrics.ObserveRosterOperation(operation, outcomeRejected)
			s.logger.WarnContext(ctx, "roster operation rejected",
				"operation", operation,
				"session_id", sessionID,
				"error", err,
			)
		} else {
			s.metrics.ObserveRosterOperation(operation, outcomeError)
		}
		return session.Session{}, err
	}

	s.metrics.ObserveRosterOperation(operation, outcomeSuccess)
	return updated, nil
}

func viewOf(item session.Session) RosterView {
	return RosterView{
		SessionID: item.ID,
		Entries:   item.Roster.Entries(),
		Summary:   item.Roster.Summary(),
		Version:   item.Roster.Version(),
	}
}

func parseRole(raw string) (roster.RoleKey, error) {
	key, err := roster.ParseRoleKey(raw)
	if err != nil {
		return roster.RoleNone, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return key, nil
}

func isRosterRejection(err error) bool {
	for _, target := range []error{
		roster.ErrCapacityExceeded,
		roster.ErrInvalidCandidate,
		roster.ErrNumberConflict,
		roster.ErrRoleConflict,
		roster.ErrInvalidOperation,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
