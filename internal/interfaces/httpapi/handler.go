package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/match-roster/internal/platform/id"
	"github.com/riskibarqy/match-roster/internal/platform/logging"
	"github.com/riskibarqy/match-roster/internal/usecase"
)

type Handler struct {
	sessionService *usecase.SessionService
	rosterService  *usecase.RosterService
	exportService  *usecase.ExportService
	logger         *logging.Logger
	validator      *validator.Validate
}

func NewHandler(
	sessionService *usecase.SessionService,
	rosterService *usecase.RosterService,
	exportService *usecase.ExportService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		sessionService: sessionService,
		rosterService:  rosterService,
		exportService:  exportService,
		logger:         logger,
		validator:      validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) decodeRequest(ctx context.Context, r *http.Request, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.decodeRequest")
	defer span.End()

	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(payload); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return h.validateRequest(ctx, payload)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// sessionIDFromPath rejects ids this service could never have issued.
func sessionIDFromPath(ctx context.Context, r *http.Request) (string, error) {
	sessionID := strings.TrimSpace(r.PathValue("sessionID"))
	if !id.Valid(sessionID) {
		return "", fmt.Errorf("%w: session=%s", usecase.ErrNotFound, sessionID)
	}
	tagSession(ctx, sessionID)
	return sessionID, nil
}
