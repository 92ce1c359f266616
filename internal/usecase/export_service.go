package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/match-roster/internal/domain/matchsheet"
	"github.com/riskibarqy/match-roster/internal/domain/session"
	"github.com/riskibarqy/match-roster/internal/platform/logging"
)

// ExportedFile is a rendered match sheet ready to download.
type ExportedFile struct {
	FileName    string
	ContentType string
	Body        []byte
	Rows        int
}

type ExportService struct {
	repo     session.Repository
	renderer matchsheet.Renderer
	profile  matchsheet.Profile
	now      func() time.Time
	logger   *logging.Logger
}

func NewExportService(repo session.Repository, renderer matchsheet.Renderer, profile matchsheet.Profile, logger *logging.Logger) *ExportService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ExportService{
		repo:     repo,
		renderer: renderer,
		profile:  profile,
		now:      time.Now,
		logger:   logger,
	}
}

// Export renders the session's roster in ordering-policy order. An empty roster has
// nothing to print and is rejected.
func (s *ExportService) Export(ctx context.Context, sessionID string) (ExportedFile, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ExportService.Export")
	defer span.End()

	item, err := loadSession(ctx, s.repo, sessionID)
	if err != nil {
		return ExportedFile{}, err
	}

	entries := item.Roster.Entries()
	if len(entries) == 0 {
		return ExportedFile{}, fmt.Errorf("%w: roster is empty", ErrInvalidInput)
	}

	doc := matchsheet.Build(entries, s.profile, s.now(), s.renderer.Extension())
	body, err := s.renderer.Render(ctx, doc)
	if err != nil {
		recordSpanError(span, err)
		return ExportedFile{}, fmt.Errorf("render match sheet: %w", err)
	}

	s.logger.InfoContext(ctx, "match sheet exported",
		"session_id", item.ID,
		"entries", len(entries),
		"file_name", doc.FileName,
		"bytes", len(body),
	)
	return ExportedFile{
		FileName:    doc.FileName,
		ContentType: s.renderer.ContentType(),
		Body:        body,
		Rows:        len(doc.Rows),
	}, nil
}
