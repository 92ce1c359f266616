package matchsheet

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/match-roster/internal/domain/matchsheet"
	"github.com/riskibarqy/match-roster/internal/domain/roster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTMLRenderer_Render(t *testing.T) {
	t.Parallel()

	profile := matchsheet.DefaultProfile()
	profile.Location = time.UTC
	entries := []roster.Entry{
		{CandidateID: "0", Number: 10, Role: roster.RoleCaptain, Fields: map[string]string{"Nome": "Mario", "Cognome": "<Rossi>"}},
		{CandidateID: "1", Role: roster.RoleTeamManager, Fields: map[string]string{"Nome": "Gino", "Cognome": "Neri"}},
	}
	doc := matchsheet.Build(entries, profile, time.Date(2026, 6, 1, 20, 0, 0, 0, time.UTC), "html")

	body, err := NewHTMLRenderer().Render(t.Context(), doc)
	require.NoError(t, err)
	html := string(body)

	assert.Contains(t, html, "DISTINTA GARA")
	assert.Contains(t, html, "U.S. RIOLUNATO")
	assert.Contains(t, html, `<td class="mark">10 C.</td>`)
	assert.Contains(t, html, "&lt;Rossi&gt; Mario")
	assert.Contains(t, html, "Dir. Acc")
	assert.Contains(t, html, "IL DIRIGENTE ACCOMPAGNATORE")
	assert.Equal(t, matchsheet.DefaultMinRows+1, strings.Count(html, "<tr>"))
}

func TestHTMLRenderer_Render_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := NewHTMLRenderer().Render(ctx, matchsheet.Document{})
	require.ErrorIs(t, err, context.Canceled)
}
