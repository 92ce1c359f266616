package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/riskibarqy/match-roster/external/sheets"
	"github.com/riskibarqy/match-roster/internal/config"
	"github.com/riskibarqy/match-roster/internal/domain/candidate"
	"github.com/riskibarqy/match-roster/internal/domain/matchsheet"
	rendering "github.com/riskibarqy/match-roster/internal/infrastructure/matchsheet"
	"github.com/riskibarqy/match-roster/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/match-roster/internal/interfaces/httpapi"
	"github.com/riskibarqy/match-roster/internal/observability"
	"github.com/riskibarqy/match-roster/internal/platform/cache"
	idgen "github.com/riskibarqy/match-roster/internal/platform/id"
	"github.com/riskibarqy/match-roster/internal/platform/logging"
	"github.com/riskibarqy/match-roster/internal/platform/resilience"
	"github.com/riskibarqy/match-roster/internal/usecase"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var (
	_ usecase.MetricsRecorder = (*observability.Metrics)(nil)
	_ httpapi.RequestObserver = (*observability.Metrics)(nil)
	_ candidate.Feed          = (*sheets.Client)(nil)
)

// App is the assembled service: the API server plus the background session janitor.
type App struct {
	HTTPServer *http.Server
	Metrics    *observability.Metrics

	sessions      *usecase.SessionService
	sweepInterval time.Duration
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	profile, err := matchSheetProfile(cfg.Profile)
	if err != nil {
		return nil, fmt.Errorf("build match sheet profile: %w", err)
	}

	var metrics *observability.Metrics
	var recorder usecase.MetricsRecorder
	var observer httpapi.RequestObserver
	var metricsHandler http.Handler
	onCircuitChange := func(_, _ resilience.CircuitState) {}
	if cfg.MetricsEnabled {
		metrics = observability.NewMetrics()
		recorder = metrics
		observer = metrics
		metricsHandler = metrics.Handler()
		onCircuitChange = metrics.SetCircuitState
	}

	sheetsClient := sheets.NewClient(sheets.ClientConfig{
		HTTPClient: &http.Client{
			Timeout:   cfg.SheetsTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		BaseURL:      cfg.SheetsBaseURL,
		MaxRetries:   cfg.SheetsMaxRetries,
		RetryBackoff: cfg.SheetsRetryBackoff,
		Logger:       logger.Named("sheets"),
		CircuitBreaker: resilience.NormalizeCircuitBreakerConfig(resilience.CircuitBreakerConfig{
			Enabled:          cfg.SheetsCircuitEnabled,
			FailureThreshold: cfg.SheetsCircuitFailureCount,
			OpenTimeout:      cfg.SheetsCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.SheetsCircuitHalfOpenMaxReq,
			OnStateChange:    onCircuitChange,
		}),
	})

	var tabCache *cache.Store[[]candidate.Record]
	if cfg.CacheEnabled {
		tabCache = cache.NewStore[[]candidate.Record](cfg.CacheTTL)
	}

	sessionRepo := memory.NewSessionRepository()
	importSvc := usecase.NewImportService(sheetsClient, usecase.ImportServiceConfig{
		Workers:    cfg.ImportWorkers,
		DefaultGID: cfg.SheetsDefaultGID,
		Mapping:    cfg.Profile.Fields,
		Cache:      tabCache,
	}, logger, recorder)
	sessionSvc := usecase.NewSessionService(
		sessionRepo,
		importSvc,
		idgen.NewUUIDGenerator(),
		usecase.SessionServiceConfig{
			TTL:            cfg.SessionTTL,
			RosterCapacity: cfg.Profile.Capacity,
		},
		logger,
		recorder,
	)
	rosterSvc := usecase.NewRosterService(sessionRepo, cfg.SessionTTL, logger, recorder)
	exportSvc := usecase.NewExportService(sessionRepo, rendering.NewHTMLRenderer(), profile, logger)

	handler := httpapi.NewHandler(sessionSvc, rosterSvc, exportSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, metricsHandler, observer)

	return &App{
		HTTPServer: &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		Metrics:       metrics,
		sessions:      sessionSvc,
		sweepInterval: cfg.SessionSweepInterval,
	}, nil
}

// RunJanitor drops expired sessions until ctx is cancelled.
func (a *App) RunJanitor(ctx context.Context) {
	a.sessions.RunJanitor(ctx, a.sweepInterval)
}

func matchSheetProfile(p config.RosterProfile) (matchsheet.Profile, error) {
	loc, err := p.Location()
	if err != nil {
		return matchsheet.Profile{}, err
	}

	out := matchsheet.DefaultProfile()
	out.TeamName = p.TeamName
	out.MinRows = p.MinRows
	out.Location = loc
	out.Mapping = p.Fields
	if p.Title != "" {
		out.Title = p.Title
	}
	if p.FileSlug != "" {
		out.FileSlug = p.FileSlug
	} else {
		out.FileSlug = matchsheet.Slugify(p.TeamName)
	}
	if len(p.Signatures) > 0 {
		out.Signatures = append([]string(nil), p.Signatures...)
	}
	return out, nil
}
