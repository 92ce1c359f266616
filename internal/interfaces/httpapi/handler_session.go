package httpapi

import (
	"net/http"

	"github.com/riskibarqy/match-roster/internal/usecase"
)

func (h *Handler) OpenSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.OpenSession")
	defer span.End()

	var req openSessionRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.sessionService.Open(ctx, usecase.OpenSessionInput{
		SheetID: req.SheetID,
		GIDs:    req.GIDs,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "open session failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, sessionToDTO(item))
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSession")
	defer span.End()

	sessionID, err := sessionIDFromPath(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.sessionService.Get(ctx, sessionID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sessionToDTO(item))
}

func (h *Handler) ReplaceSessionSource(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ReplaceSessionSource")
	defer span.End()

	sessionID, err := sessionIDFromPath(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req openSessionRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.sessionService.ReplaceSource(ctx, sessionID, usecase.OpenSessionInput{
		SheetID: req.SheetID,
		GIDs:    req.GIDs,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "replace session source failed", "session_id", sessionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sessionToDTO(item))
}

func (h *Handler) CloseSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CloseSession")
	defer span.End()

	sessionID, err := sessionIDFromPath(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.sessionService.Close(ctx, sessionID); err != nil {
		writeError(ctx, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
