package sheets

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/match-roster/internal/platform/logging"
	"github.com/riskibarqy/match-roster/internal/platform/resilience"
	"github.com/riskibarqy/match-roster/internal/usecase"
)

const testSheetID = "1AbCdEfGhIjKlMnOp_qr-st"

func newTestClient(t *testing.T, handler http.HandlerFunc, breaker resilience.CircuitBreakerConfig) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		BaseURL:        server.URL,
		Timeout:        2 * time.Second,
		MaxRetries:     2,
		RetryBackoff:   time.Millisecond,
		Logger:         logging.NewNop(),
		CircuitBreaker: breaker,
	})
	return client, server
}

func TestClient_FetchRecords_BuildsExportURL(t *testing.T) {
	t.Parallel()

	var gotPath, gotFormat, gotGID string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotFormat = r.URL.Query().Get("format")
		gotGID = r.URL.Query().Get("gid")
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		_, _ = w.Write([]byte("Nome,Cognome\nMario,Rossi\n"))
	}, resilience.CircuitBreakerConfig{})

	records, err := client.FetchRecords(t.Context(), testSheetID, "123")
	if err != nil {
		t.Fatalf("fetch records: %v", err)
	}
	if gotPath != "/"+testSheetID+"/export" || gotFormat != "csv" || gotGID != "123" {
		t.Fatalf("unexpected request: path=%s format=%s gid=%s", gotPath, gotFormat, gotGID)
	}
	if len(records) != 1 || records[0]["Cognome"] != "Rossi" {
		t.Fatalf("unexpected records: %v", records)
	}
}

func TestClient_FetchRecords_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("Nome\nMario\n"))
	}, resilience.CircuitBreakerConfig{})

	records, err := client.FetchRecords(t.Context(), testSheetID, "")
	if err != nil {
		t.Fatalf("fetch records: %v", err)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 attempts, got=%d", calls.Load())
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got=%d", len(records))
	}
}

func TestClient_FetchRecords_NotFoundIsNotRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}, resilience.CircuitBreakerConfig{})

	_, err := client.FetchRecords(t.Context(), testSheetID, "0")
	if !errors.Is(err, usecase.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single attempt, got=%d", calls.Load())
	}
}

func TestClient_FetchRecords_UnpublishedSheetServesHTML(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html>sign in</html>"))
	}, resilience.CircuitBreakerConfig{})

	_, err := client.FetchRecords(t.Context(), testSheetID, "0")
	if !errors.Is(err, usecase.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestClient_FetchRecords_RejectsMalformedInput(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("no request expected, got %s", r.URL)
	}, resilience.CircuitBreakerConfig{})

	if _, err := client.FetchRecords(t.Context(), "../etc", "0"); !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for sheet id, got %v", err)
	}
	if _, err := client.FetchRecords(t.Context(), testSheetID, "abc"); !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for gid, got %v", err)
	}
}

func TestClient_FetchRecords_OpensCircuitAfterRepeatedFailures(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	var opened atomic.Bool
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}, resilience.CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 1,
		OpenTimeout:      time.Minute,
		HalfOpenMaxReq:   1,
		OnStateChange: func(_, to resilience.CircuitState) {
			if to == resilience.CircuitStateOpen {
				opened.Store(true)
			}
		},
	})

	_, err := client.FetchRecords(t.Context(), testSheetID, "0")
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
	attempts := calls.Load()

	_, err = client.FetchRecords(t.Context(), testSheetID, "0")
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable from open circuit, got %v", err)
	}
	if calls.Load() != attempts {
		t.Fatalf("open circuit must not reach the provider, calls=%d want=%d", calls.Load(), attempts)
	}
	if !opened.Load() {
		t.Fatalf("expected state change callback to observe open state")
	}
}

func TestClient_FetchRecords_CancelledCallerDoesNotFailSharedDownload(t *testing.T) {
	t.Parallel()

	started := make(chan struct{}, 4)
	release := make(chan struct{})
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		started <- struct{}{}
		<-release
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte("Nome,Cognome\nMario,Rossi\n"))
	}, resilience.CircuitBreakerConfig{})

	firstCtx, cancel := context.WithCancel(t.Context())
	firstErr := make(chan error, 1)
	go func() {
		_, err := client.FetchRecords(firstCtx, testSheetID, "0")
		firstErr <- err
	}()
	<-started

	type result struct {
		count int
		err   error
	}
	second := make(chan result, 1)
	go func() {
		records, err := client.FetchRecords(t.Context(), testSheetID, "0")
		second <- result{count: len(records), err: err}
	}()

	cancel()
	if err := <-firstErr; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancelled caller error, got %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	close(release)

	got := <-second
	if got.err != nil || got.count != 1 {
		t.Fatalf("waiter: count=%d err=%v", got.count, got.err)
	}
}
