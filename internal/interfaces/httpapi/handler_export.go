package httpapi

import (
	"mime"
	"net/http"
	"strconv"
)

func (h *Handler) ExportMatchSheet(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ExportMatchSheet")
	defer span.End()

	sessionID, err := sessionIDFromPath(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	file, err := h.exportService.Export(ctx, sessionID)
	if err != nil {
		h.logger.WarnContext(ctx, "export match sheet failed", "session_id", sessionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": file.FileName}))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Body)))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(file.Body); err != nil {
		h.logger.WarnContext(ctx, "write match sheet failed", "session_id", sessionID, "error", err)
	}
}
