package usecase

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/match-roster/internal/domain/candidate"
	"github.com/riskibarqy/match-roster/internal/infrastructure/repository/memory"
	candidatemock "github.com/riskibarqy/match-roster/internal/mocks/domain/candidate"
	"github.com/riskibarqy/match-roster/internal/platform/logging"
)

const testSheetID = "1AbCdEfGhIjKlMnOp_qr-st"

type sequenceIDs struct {
	mu   sync.Mutex
	next int
}

func (g *sequenceIDs) NewID() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return fmt.Sprintf("session-%d", g.next), nil
}

type recordingMetrics struct {
	mu         sync.Mutex
	operations map[string]int
	imports    map[string]int
	cacheHits  int
	cacheMiss  int
	active     int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{
		operations: make(map[string]int),
		imports:    make(map[string]int),
	}
}

func (m *recordingMetrics) ObserveRosterOperation(operation, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.operations[operation+":"+outcome]++
}

func (m *recordingMetrics) ObserveImport(outcome string, _, _ int, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.imports[outcome]++
}

func (m *recordingMetrics) ObserveCacheLookup(hit bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if hit {
		m.cacheHits++
	} else {
		m.cacheMiss++
	}
}

func (m *recordingMetrics) SetActiveSessions(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = count
}

func playerRecords(names ...string) []candidate.Record {
	out := make([]candidate.Record, 0, len(names))
	for _, name := range names {
		out = append(out, candidate.Record{"Nome": name, "Cognome": "Test"})
	}
	return out
}

type sessionFixture struct {
	repo     *memory.SessionRepository
	feed     *candidatemock.Feed
	metrics  *recordingMetrics
	sessions *SessionService
	rosters  *RosterService
}

func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()

	repo := memory.NewSessionRepository()
	feed := candidatemock.NewFeed(t)
	metrics := newRecordingMetrics()
	logger := logging.NewNop()

	importer := NewImportService(feed, ImportServiceConfig{Workers: 2}, logger, metrics)
	return &sessionFixture{
		repo:     repo,
		feed:     feed,
		metrics:  metrics,
		sessions: NewSessionService(repo, importer, &sequenceIDs{}, SessionServiceConfig{TTL: time.Hour}, logger, metrics),
		rosters:  NewRosterService(repo, time.Hour, logger, metrics),
	}
}
