package roster

import (
	"testing"

	"github.com/riskibarqy/match-roster/internal/domain/candidate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoster_NextSuggestedNumber(t *testing.T) {
	pool := testPool(4)
	r := New(DefaultCapacity)
	assert.Equal(t, 1, r.NextSuggestedNumber())

	_, err := r.Add(pool, "0", 4, RoleNone)
	require.NoError(t, err)
	_, err = r.Add(pool, "1", 0, RoleHeadCoach)
	require.NoError(t, err)
	_, err = r.Add(pool, "2", 2, RoleCaptain)
	require.NoError(t, err)

	assert.Equal(t, 5, r.NextSuggestedNumber())
	assert.Equal(t, 5, r.SuggestNumber(RoleCaptain))
	assert.Equal(t, 0, r.SuggestNumber(RoleViceCoach))
	assert.True(t, r.IsNumberTaken(4))
	assert.False(t, r.IsNumberTaken(3))
	assert.False(t, r.IsNumberTaken(0))
	assert.Equal(t, []RoleKey{RoleViceCaptain, RoleViceCoach, RoleTeamManager}, r.FreeRoles())
	assert.Equal(t, Summary{Total: 3, Capacity: DefaultCapacity, Numbered: 2, Special: 1}, r.Summary())
}

func TestRoster_UnassignedCandidates(t *testing.T) {
	pool := candidate.FromRecords([]candidate.Record{
		{"Nome": "Marco", "Cognome": "Bianchi"},
		{"Nome": "Luca", "Cognome": "Verdi"},
		{"Nome": "Marta", "Cognome": "Neri"},
		{},
	}, candidate.DefaultFieldMapping())
	r := New(DefaultCapacity)
	_, err := r.Add(pool, "0", 1, RoleNone)
	require.NoError(t, err)

	got := r.UnassignedCandidates(pool, "MAR")
	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].ID)

	all := r.UnassignedCandidates(pool, "")
	require.Len(t, all, 3)
	assert.Equal(t, "", all[2].Label)
}
