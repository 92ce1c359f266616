package httpapi

import (
	"net/http"

	"github.com/riskibarqy/match-roster/internal/usecase"
)

func (h *Handler) ListCandidates(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListCandidates")
	defer span.End()

	sessionID, err := sessionIDFromPath(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.rosterService.ListCandidates(ctx, sessionID, r.URL.Query().Get("search"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, candidatesToDTO(items))
}

func (h *Handler) GetRoster(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRoster")
	defer span.End()

	sessionID, err := sessionIDFromPath(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := h.rosterService.GetRoster(ctx, sessionID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rosterToDTO(view))
}

func (h *Handler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetAvailability")
	defer span.End()

	sessionID, err := sessionIDFromPath(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	availability, err := h.rosterService.Availability(ctx, sessionID, r.URL.Query().Get("role"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, availabilityToDTO(availability))
}

func (h *Handler) AddRosterEntry(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AddRosterEntry")
	defer span.End()

	sessionID, err := sessionIDFromPath(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req addEntryRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := h.rosterService.AddEntry(ctx, sessionID, usecase.AddEntryInput{
		CandidateID: req.CandidateID,
		Number:      req.Number,
		Role:        req.Role,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, rosterToDTO(view))
}

func (h *Handler) UpdateRosterNumber(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateRosterNumber")
	defer span.End()

	sessionID, err := sessionIDFromPath(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req updateNumberRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.rosterService.UpdateNumber(ctx, sessionID, r.PathValue("candidateID"), req.Number)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, numberUpdateToDTO(result))
}

func (h *Handler) ToggleRosterRole(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ToggleRosterRole")
	defer span.End()

	sessionID, err := sessionIDFromPath(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req toggleRoleRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := h.rosterService.ToggleRole(
		ctx,
		sessionID,
		r.PathValue("candidateID"),
		r.PathValue("role"),
		*req.On,
	)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rosterToDTO(view))
}

func (h *Handler) RemoveRosterEntry(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RemoveRosterEntry")
	defer span.End()

	sessionID, err := sessionIDFromPath(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := h.rosterService.RemoveEntry(ctx, sessionID, r.PathValue("candidateID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rosterToDTO(view))
}
