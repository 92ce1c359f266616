package session

import (
	"time"

	"github.com/riskibarqy/match-roster/internal/domain/candidate"
	"github.com/riskibarqy/match-roster/internal/domain/roster"
)

// Source identifies the spreadsheet a session imported its candidates from.
type Source struct {
	SheetID string
	GIDs    []string
}

// Session binds one imported candidate set to the roster being built from it.
type Session struct {
	ID         string
	Source     Source
	Candidates candidate.List
	Roster     *roster.Roster
	CreatedAt  time.Time
	UpdatedAt  time.Time
	ExpiresAt  time.Time
}

func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Clone returns a deep copy; the roster and candidate set are not shared.
func (s Session) Clone() Session {
	copied := s
	copied.Source.GIDs = append([]string(nil), s.Source.GIDs...)
	copied.Candidates = s.Candidates.Clone()
	copied.Roster = s.Roster.Clone()
	return copied
}

// MaskedSheetID hides most of the sheet id, which acts as the access secret.
func (s Source) MaskedSheetID() string {
	if len(s.SheetID) <= 6 {
		return "***"
	}
	return s.SheetID[:3] + "***" + s.SheetID[len(s.SheetID)-3:]
}
