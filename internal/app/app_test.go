package app

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/riskibarqy/match-roster/internal/config"
	"github.com/riskibarqy/match-roster/internal/platform/logging"
)

func testConfig() config.Config {
	return config.Config{
		HTTPAddr:                    ":0",
		CORSAllowedOrigins:          []string{"*"},
		ReadTimeout:                 time.Second,
		WriteTimeout:                time.Second,
		SessionTTL:                  time.Hour,
		SessionSweepInterval:        time.Minute,
		CacheEnabled:                true,
		CacheTTL:                    time.Minute,
		SheetsBaseURL:               "http://127.0.0.1:1/d",
		SheetsDefaultGID:            "0",
		SheetsTimeout:               time.Second,
		SheetsRetryBackoff:          time.Millisecond,
		SheetsCircuitEnabled:        true,
		SheetsCircuitFailureCount:   3,
		SheetsCircuitOpenTimeout:    time.Second,
		SheetsCircuitHalfOpenMaxReq: 1,
		ImportWorkers:               2,
		Profile:                     config.DefaultRosterProfile(),
		MetricsEnabled:              true,
	}
}

func TestNew_ServesHealthAndMetrics(t *testing.T) {
	a, err := New(testConfig(), logging.NewNop())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	if a.Metrics == nil {
		t.Fatalf("expected metrics to be wired")
	}

	for _, path := range []string{"/healthz", "/metrics"} {
		rec := httptest.NewRecorder()
		a.HTTPServer.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s: expected 200, got %d", path, rec.Code)
		}
	}
}

func TestNew_MetricsDisabledHidesEndpoint(t *testing.T) {
	cfg := testConfig()
	cfg.MetricsEnabled = false

	a, err := New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}

	rec := httptest.NewRecorder()
	a.HTTPServer.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for /metrics, got %d", rec.Code)
	}
}

func TestNew_RejectsEmptyAddr(t *testing.T) {
	cfg := testConfig()
	cfg.HTTPAddr = ""
	if _, err := New(cfg, logging.NewNop()); err == nil {
		t.Fatalf("expected error for empty addr")
	}
}

func TestMatchSheetProfile_MapsRosterProfile(t *testing.T) {
	p := config.DefaultRosterProfile()
	p.TeamName = "A.S.D. Pievepelago"
	p.FileSlug = ""
	p.Timezone = "UTC"
	p.MinRows = 18

	out, err := matchSheetProfile(p)
	if err != nil {
		t.Fatalf("map profile: %v", err)
	}
	if out.TeamName != "A.S.D. Pievepelago" || out.MinRows != 18 {
		t.Fatalf("unexpected profile: %+v", out)
	}
	if out.FileSlug == "" {
		t.Fatalf("expected slug derived from team name")
	}
	if out.Location.String() != "UTC" {
		t.Fatalf("unexpected location: %s", out.Location)
	}
}
