package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/match-roster/internal/domain/matchsheet"
	"github.com/riskibarqy/match-roster/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturingRenderer struct {
	doc matchsheet.Document
}

func (r *capturingRenderer) Render(_ context.Context, doc matchsheet.Document) ([]byte, error) {
	r.doc = doc
	return []byte("rendered"), nil
}

func (r *capturingRenderer) ContentType() string { return "text/html; charset=utf-8" }
func (r *capturingRenderer) Extension() string   { return "html" }

func TestExportService_Export(t *testing.T) {
	t.Parallel()

	fx := newSessionFixture(t)
	sessionID := openTestSession(t, fx, "A", "B")

	renderer := &capturingRenderer{}
	profile := matchsheet.DefaultProfile()
	profile.Location = time.UTC
	service := NewExportService(fx.repo, renderer, profile, logging.NewNop())
	service.now = func() time.Time { return time.Date(2026, 5, 17, 14, 45, 0, 0, time.UTC) }

	_, err := service.Export(t.Context(), sessionID)
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = fx.rosters.AddEntry(t.Context(), sessionID, AddEntryInput{CandidateID: "1", Role: "allen"})
	require.NoError(t, err)
	_, err = fx.rosters.AddEntry(t.Context(), sessionID, AddEntryInput{CandidateID: "0", Number: intPtr(3)})
	require.NoError(t, err)

	file, err := service.Export(t.Context(), sessionID)
	require.NoError(t, err)

	assert.Equal(t, "distinta-riolunato-17-05-2026_14-45.html", file.FileName)
	assert.Equal(t, "rendered", string(file.Body))
	assert.Equal(t, matchsheet.DefaultMinRows, file.Rows)
	assert.Equal(t, "3", renderer.doc.Rows[0].Mark)
	assert.Equal(t, "Allen.", renderer.doc.Rows[1].Mark)
}

func TestExportService_UnknownSession(t *testing.T) {
	t.Parallel()

	fx := newSessionFixture(t)
	service := NewExportService(fx.repo, &capturingRenderer{}, matchsheet.DefaultProfile(), logging.NewNop())

	_, err := service.Export(t.Context(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}
