package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/match-roster/internal/domain/roster"
	sessionmock "github.com/riskibarqy/match-roster/internal/mocks/domain/session"
	"github.com/riskibarqy/match-roster/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSessionService_Open_ImportsCandidatesWithEmptyRoster(t *testing.T) {
	t.Parallel()

	fx := newSessionFixture(t)
	fx.feed.On("FetchRecords", mock.Anything, testSheetID, "0").Return(playerRecords("Anna", "Bruno"), nil).Once()

	item, err := fx.sessions.Open(t.Context(), OpenSessionInput{SheetID: testSheetID})
	require.NoError(t, err)

	assert.Equal(t, "session-1", item.ID)
	assert.Len(t, item.Candidates, 2)
	assert.Equal(t, 0, item.Roster.Len())
	assert.Equal(t, roster.DefaultCapacity, item.Roster.Capacity())
	assert.Equal(t, time.Hour, item.ExpiresAt.Sub(item.CreatedAt))
	assert.Equal(t, 1, fx.metrics.active)

	stored, err := fx.sessions.Get(t.Context(), item.ID)
	require.NoError(t, err)
	assert.Equal(t, item.Source.SheetID, stored.Source.SheetID)
}

func TestSessionService_Open_FailedImportCreatesNothing(t *testing.T) {
	t.Parallel()

	fx := newSessionFixture(t)
	fx.feed.On("FetchRecords", mock.Anything, testSheetID, "0").
		Return(nil, ErrDependencyUnavailable).
		Once()

	_, err := fx.sessions.Open(t.Context(), OpenSessionInput{SheetID: testSheetID})
	require.ErrorIs(t, err, ErrDependencyUnavailable)

	count, err := fx.repo.Count(t.Context())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSessionService_ReplaceSource_ClearsRoster(t *testing.T) {
	t.Parallel()

	fx := newSessionFixture(t)
	fx.feed.On("FetchRecords", mock.Anything, testSheetID, "0").Return(playerRecords("Anna", "Bruno"), nil).Once()
	fx.feed.On("FetchRecords", mock.Anything, "2ZyXwVuTsRqPoNmLk", "5").Return(playerRecords("Carla"), nil).Once()

	item, err := fx.sessions.Open(t.Context(), OpenSessionInput{SheetID: testSheetID})
	require.NoError(t, err)
	_, err = fx.rosters.AddEntry(t.Context(), item.ID, AddEntryInput{CandidateID: "0"})
	require.NoError(t, err)

	replaced, err := fx.sessions.ReplaceSource(t.Context(), item.ID, OpenSessionInput{SheetID: "2ZyXwVuTsRqPoNmLk", GIDs: []string{"5"}})
	require.NoError(t, err)

	assert.Equal(t, "2ZyXwVuTsRqPoNmLk", replaced.Source.SheetID)
	assert.Equal(t, []string{"5"}, replaced.Source.GIDs)
	assert.Len(t, replaced.Candidates, 1)
	assert.Equal(t, 0, replaced.Roster.Len())
}

func TestSessionService_ReplaceSource_UnknownSession(t *testing.T) {
	t.Parallel()

	fx := newSessionFixture(t)
	_, err := fx.sessions.ReplaceSource(t.Context(), "missing", OpenSessionInput{SheetID: testSheetID})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSessionService_Close(t *testing.T) {
	t.Parallel()

	fx := newSessionFixture(t)
	fx.feed.On("FetchRecords", mock.Anything, testSheetID, "0").Return(playerRecords("Anna"), nil).Once()

	item, err := fx.sessions.Open(t.Context(), OpenSessionInput{SheetID: testSheetID})
	require.NoError(t, err)

	require.NoError(t, fx.sessions.Close(t.Context(), item.ID))
	_, err = fx.sessions.Get(t.Context(), item.ID)
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, fx.sessions.Close(t.Context(), item.ID), ErrNotFound)
	assert.Equal(t, 0, fx.metrics.active)
}

func TestSessionService_Close_RepositoryFailure(t *testing.T) {
	t.Parallel()

	repo := sessionmock.NewRepository(t)
	service := NewSessionService(repo, nil, &sequenceIDs{}, SessionServiceConfig{}, logging.NewNop(), nil)
	storageErr := errors.New("storage offline")

	repo.On("Delete", mock.MatchedBy(func(context.Context) bool { return true }), "abc").
		Return(false, storageErr).
		Once()

	err := service.Close(t.Context(), "abc")
	require.ErrorIs(t, err, storageErr)
	require.NotErrorIs(t, err, ErrNotFound)
}

func TestSessionService_SweepExpired(t *testing.T) {
	t.Parallel()

	fx := newSessionFixture(t)
	fx.feed.On("FetchRecords", mock.Anything, testSheetID, "0").Return(playerRecords("Anna"), nil).Once()

	_, err := fx.sessions.Open(t.Context(), OpenSessionInput{SheetID: testSheetID})
	require.NoError(t, err)

	removed, err := fx.sessions.SweepExpired(t.Context())
	require.NoError(t, err)
	assert.Zero(t, removed)

	fx.sessions.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	removed, err = fx.sessions.SweepExpired(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
}
