package httpapi

import (
	"time"

	"github.com/riskibarqy/match-roster/internal/domain/candidate"
	"github.com/riskibarqy/match-roster/internal/domain/roster"
	"github.com/riskibarqy/match-roster/internal/domain/session"
	"github.com/riskibarqy/match-roster/internal/usecase"
)

type openSessionRequest struct {
	SheetID string   `json:"sheetId" validate:"required,max=128"`
	GIDs    []string `json:"gids" validate:"omitempty,max=10,dive,required,numeric"`
}

// addEntryRequest leaves Number nil to take the suggested number.
type addEntryRequest struct {
	CandidateID string `json:"candidateId" validate:"required"`
	Number      *int   `json:"number" validate:"omitempty,min=0,max=999"`
	Role        string `json:"role" validate:"omitempty,max=32"`
}

type updateNumberRequest struct {
	Number int `json:"number" validate:"required,min=1,max=999"`
}

type toggleRoleRequest struct {
	On *bool `json:"on" validate:"required"`
}

type sessionDTO struct {
	ID             string           `json:"id"`
	SheetID        string           `json:"sheetId"`
	GIDs           []string         `json:"gids"`
	CandidateCount int              `json:"candidateCount"`
	Roster         rosterSummaryDTO `json:"roster"`
	Version        uint64           `json:"version"`
	CreatedAt      string           `json:"createdAt"`
	UpdatedAt      string           `json:"updatedAt"`
	ExpiresAt      string           `json:"expiresAt"`
}

type rosterSummaryDTO struct {
	Total    int `json:"total"`
	Capacity int `json:"capacity"`
	Numbered int `json:"numbered"`
	Special  int `json:"special"`
}

type rosterDTO struct {
	SessionID string           `json:"sessionId"`
	Version   uint64           `json:"version"`
	Summary   rosterSummaryDTO `json:"summary"`
	Entries   []rosterEntryDTO `json:"entries"`
}

type rosterEntryDTO struct {
	CandidateID string            `json:"candidateId"`
	Label       string            `json:"label"`
	Number      int               `json:"number"`
	Role        string            `json:"role,omitempty"`
	RoleLabel   string            `json:"roleLabel,omitempty"`
	Special     bool              `json:"special"`
	Fields      map[string]string `json:"fields"`
}

type candidateDTO struct {
	ID     string            `json:"id"`
	Label  string            `json:"label"`
	Fields map[string]string `json:"fields"`
}

type availabilityDTO struct {
	SuggestedNumber int      `json:"suggestedNumber"`
	FreeRoles       []string `json:"freeRoles"`
	TakenNumbers    []int    `json:"takenNumbers"`
}

type numberUpdateDTO struct {
	Roster rosterDTO `json:"roster"`
	Swap   *swapDTO  `json:"swap,omitempty"`
}

type swapDTO struct {
	CandidateID string `json:"candidateId"`
	Number      int    `json:"number"`
}

func sessionToDTO(item session.Session) sessionDTO {
	gids := item.Source.GIDs
	if gids == nil {
		gids = []string{}
	}

	return sessionDTO{
		ID:             item.ID,
		SheetID:        item.Source.MaskedSheetID(),
		GIDs:           gids,
		CandidateCount: len(item.Candidates),
		Roster:         summaryToDTO(item.Roster.Summary()),
		Version:        item.Roster.Version(),
		CreatedAt:      formatTime(item.CreatedAt),
		UpdatedAt:      formatTime(item.UpdatedAt),
		ExpiresAt:      formatTime(item.ExpiresAt),
	}
}

func summaryToDTO(v roster.Summary) rosterSummaryDTO {
	return rosterSummaryDTO{
		Total:    v.Total,
		Capacity: v.Capacity,
		Numbered: v.Numbered,
		Special:  v.Special,
	}
}

func rosterToDTO(v usecase.RosterView) rosterDTO {
	entries := make([]rosterEntryDTO, 0, len(v.Entries))
	for _, item := range v.Entries {
		entries = append(entries, entryToDTO(item))
	}

	return rosterDTO{
		SessionID: v.SessionID,
		Version:   v.Version,
		Summary:   summaryToDTO(v.Summary),
		Entries:   entries,
	}
}

func entryToDTO(v roster.Entry) rosterEntryDTO {
	fields := v.Fields
	if fields == nil {
		fields = map[string]string{}
	}

	return rosterEntryDTO{
		CandidateID: v.CandidateID,
		Label:       v.Label,
		Number:      v.Number,
		Role:        v.Role.String(),
		RoleLabel:   v.Role.Label(),
		Special:     v.IsSpecial(),
		Fields:      fields,
	}
}

func candidatesToDTO(items candidate.List) []candidateDTO {
	out := make([]candidateDTO, 0, len(items))
	for _, item := range items {
		fields := item.Fields
		if fields == nil {
			fields = map[string]string{}
		}
		out = append(out, candidateDTO{
			ID:     item.ID,
			Label:  item.Label,
			Fields: fields,
		})
	}
	return out
}

func availabilityToDTO(v usecase.Availability) availabilityDTO {
	roles := make([]string, 0, len(v.FreeRoles))
	for _, key := range v.FreeRoles {
		roles = append(roles, key.String())
	}
	taken := v.TakenNumbers
	if taken == nil {
		taken = []int{}
	}

	return availabilityDTO{
		SuggestedNumber: v.SuggestedNumber,
		FreeRoles:       roles,
		TakenNumbers:    taken,
	}
}

func numberUpdateToDTO(v usecase.NumberUpdateResult) numberUpdateDTO {
	out := numberUpdateDTO{Roster: rosterToDTO(v.View)}
	if v.Swap.Happened() {
		out.Swap = &swapDTO{
			CandidateID: v.Swap.CandidateID,
			Number:      v.Swap.Number,
		}
	}
	return out
}

func formatTime(v time.Time) string {
	if v.IsZero() {
		return ""
	}
	return v.UTC().Format(time.RFC3339)
}
