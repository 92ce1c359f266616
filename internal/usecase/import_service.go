package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/match-roster/internal/domain/candidate"
	"github.com/riskibarqy/match-roster/internal/domain/session"
	"github.com/riskibarqy/match-roster/internal/platform/cache"
	"github.com/riskibarqy/match-roster/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

const (
	defaultImportWorkers = 4
	maxImportTabs        = 10
)

var sheetIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{10,128}$`)

type ImportServiceConfig struct {
	Workers    int
	DefaultGID string
	Mapping    candidate.FieldMapping
	// Cache is optional; nil disables tab caching.
	Cache *cache.Store[[]candidate.Record]
}

// ImportService turns spreadsheet tabs into a candidate set. Tabs are fetched
// concurrently and concatenated in the order they were requested.
type ImportService struct {
	feed       candidate.Feed
	cache      *cache.Store[[]candidate.Record]
	workers    int
	defaultGID string
	mapping    candidate.FieldMapping
	logger     *logging.Logger
	metrics    MetricsRecorder
}

func NewImportService(feed candidate.Feed, cfg ImportServiceConfig, logger *logging.Logger, metrics MetricsRecorder) *ImportService {
	if logger == nil {
		logger = logging.Default()
	}
	workers := cfg.Workers
	if workers < 1 {
		workers = defaultImportWorkers
	}
	defaultGID := strings.TrimSpace(cfg.DefaultGID)
	if defaultGID == "" {
		defaultGID = "0"
	}
	mapping := cfg.Mapping
	if mapping == (candidate.FieldMapping{}) {
		mapping = candidate.DefaultFieldMapping()
	}

	return &ImportService{
		feed:       feed,
		cache:      cfg.Cache,
		workers:    workers,
		defaultGID: defaultGID,
		mapping:    mapping,
		logger:     logger,
		metrics:    metricsOrNop(metrics),
	}
}

// NormalizeSource validates the sheet id and de-duplicates the tab list, falling back
// to the default tab.
func (s *ImportService) NormalizeSource(sheetID string, gids []string) (session.Source, error) {
	sheetID = strings.TrimSpace(sheetID)
	if sheetID == "" {
		return session.Source{}, fmt.Errorf("%w: sheet id is required", ErrInvalidInput)
	}
	if !sheetIDPattern.MatchString(sheetID) {
		return session.Source{}, fmt.Errorf("%w: sheet id is malformed", ErrInvalidInput)
	}

	out := make([]string, 0, len(gids))
	seen := make(map[string]struct{}, len(gids))
	for _, gid := range gids {
		gid = strings.TrimSpace(gid)
		if gid == "" {
			continue
		}
		if _, ok := seen[gid]; ok {
			continue
		}
		seen[gid] = struct{}{}
		out = append(out, gid)
	}
	if len(out) == 0 {
		out = append(out, s.defaultGID)
	}
	if len(out) > maxImportTabs {
		return session.Source{}, fmt.Errorf("%w: at most %d tabs can be imported", ErrInvalidInput, maxImportTabs)
	}

	return session.Source{SheetID: sheetID, GIDs: out}, nil
}

// Import loads every tab of src. With refresh set, cached tabs of the sheet are
// dropped first. Any failing tab fails the whole import.
func (s *ImportService) Import(ctx context.Context, src session.Source, refresh bool) (candidate.List, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ImportService.Import",
		attribute.Int("sheet.tabs", len(src.GIDs)),
		attribute.Bool("sheet.refresh", refresh),
	)
	defer span.End()

	start := time.Now()
	items, err := s.importTabs(ctx, src, refresh)
	if err != nil {
		recordSpanError(span, err)
		s.metrics.ObserveImport(outcomeError, len(src.GIDs), 0, time.Since(start))
		s.logger.WarnContext(ctx, "candidate import failed",
			"sheet_id", src.MaskedSheetID(),
			"tabs", len(src.GIDs),
			"error", err,
		)
		return nil, err
	}

	s.metrics.ObserveImport(outcomeSuccess, len(src.GIDs), len(items), time.Since(start))
	s.logger.InfoContext(ctx, "candidates imported",
		"sheet_id", src.MaskedSheetID(),
		"tabs", len(src.GIDs),
		"candidates", len(items),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return items, nil
}

func (s *ImportService) importTabs(ctx context.Context, src session.Source, refresh bool) (candidate.List, error) {
	if len(src.GIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one tab is required", ErrInvalidInput)
	}
	if refresh && s.cache != nil {
		s.cache.DeletePrefix(ctx, src.SheetID+":")
	}

	tabs := make([][]candidate.Record, len(src.GIDs))
	tabErrs := make([]error, len(src.GIDs))
	var loaded atomic.Int32

	pool, err := ants.NewPool(min(s.workers, len(src.GIDs)))
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	var submitErr error
	for idx, gid := range src.GIDs {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			records, tabErr := s.fetchTab(ctx, src.SheetID, gid)
			if tabErr != nil {
				tabErrs[idx] = fmt.Errorf("tab gid=%s: %w", gid, tabErr)
				return
			}
			tabs[idx] = records
			loaded.Add(1)
		}); err != nil {
			workers.Done()
			submitErr = fmt.Errorf("submit tab to worker pool: %w", err)
			break
		}
	}
	workers.Wait()

	if submitErr != nil {
		return nil, submitErr
	}
	if err := errors.Join(tabErrs...); err != nil {
		return nil, err
	}

	records := make([]candidate.Record, 0, 32*int(loaded.Load()))
	for _, tab := range tabs {
		records = append(records, tab...)
	}
	return candidate.FromRecords(records, s.mapping), nil
}

func (s *ImportService) fetchTab(ctx context.Context, sheetID, gid string) ([]candidate.Record, error) {
	if s.cache == nil {
		return s.feed.FetchRecords(ctx, sheetID, gid)
	}

	records, hit, err := s.cache.GetOrLoad(ctx, sheetID+":"+gid, func(ctx context.Context) ([]candidate.Record, error) {
		return s.feed.FetchRecords(ctx, sheetID, gid)
	})
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveCacheLookup(hit)
	return records, nil
}
