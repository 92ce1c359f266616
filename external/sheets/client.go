package sheets

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/match-roster/internal/domain/candidate"
	"github.com/riskibarqy/match-roster/internal/platform/logging"
	"github.com/riskibarqy/match-roster/internal/platform/resilience"
	"github.com/riskibarqy/match-roster/internal/usecase"
	"golang.org/x/sync/singleflight"
)

const (
	defaultBaseURL      = "https://docs.google.com/spreadsheets/d"
	defaultRetryBackoff = time.Second
	maxBodyBytes        = 4 << 20
)

var sheetIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
var gidPattern = regexp.MustCompile(`^[0-9]+$`)
var errSheetsTransient = crerr.New("sheets transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client downloads spreadsheet tabs through the public CSV export endpoint.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	maxRetries     int
	retryBackoff   time.Duration
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         singleflight.Group
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 15 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = defaultRetryBackoff
	}

	breakerCfg := cfg.CircuitBreaker
	notify := breakerCfg.OnStateChange
	breakerCfg.OnStateChange = func(from, to resilience.CircuitState) {
		logger.Warn("sheets circuit breaker state changed", "from", from, "to", to)
		if notify != nil {
			notify(from, to)
		}
	}

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		maxRetries:     max(cfg.MaxRetries, 0),
		retryBackoff:   backoff,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// FetchRecords downloads one tab and parses it into header-keyed rows.
func (c *Client) FetchRecords(ctx context.Context, sheetID, gid string) ([]candidate.Record, error) {
	sheetID = strings.TrimSpace(sheetID)
	gid = strings.TrimSpace(gid)
	if !sheetIDPattern.MatchString(sheetID) {
		return nil, fmt.Errorf("%w: sheet id is malformed", usecase.ErrInvalidInput)
	}
	if gid == "" {
		gid = "0"
	}
	if !gidPattern.MatchString(gid) {
		return nil, fmt.Errorf("%w: sheet gid must be numeric", usecase.ErrInvalidInput)
	}

	raw, err := c.download(ctx, sheetID, gid)
	if err != nil {
		return nil, err
	}

	records, err := ParseCSV(raw)
	if err != nil {
		return nil, fmt.Errorf("parse sheet gid=%s: %w", gid, err)
	}
	return records, nil
}

func (c *Client) download(ctx context.Context, sheetID, gid string) ([]byte, error) {
	values := url.Values{}
	values.Set("format", "csv")
	values.Set("gid", gid)
	fullURL := c.baseURL + "/" + url.PathEscape(sheetID) + "/export?" + values.Encode()

	// The download is shared by every waiter on the tab, so it must outlive the
	// caller that started it.
	shared := context.WithoutCancel(ctx)
	results := c.flight.DoChan(sheetID+":"+gid, func() (any, error) {
		var raw []byte
		call := func() error {
			var reqErr error
			raw, reqErr = c.executeRequest(shared, fullURL, sheetID)
			return reqErr
		}

		var callErr error
		if c.circuitEnabled {
			callErr = c.breaker.Execute(call, isCircuitFailure)
		} else {
			callErr = call()
		}
		return raw, callErr
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-results:
	}
	out, err := res.Val, res.Err
	if err != nil {
		switch {
		case stderrors.Is(err, resilience.ErrCircuitOpen):
			c.logger.WarnContext(ctx, "sheets circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: spreadsheet provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		case crerr.Is(err, errSheetsTransient):
			return nil, fmt.Errorf("%w: %w", usecase.ErrDependencyUnavailable, err)
		}
		return nil, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}
	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL, sheetID string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "text/csv")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = fmt.Errorf("%w: send request: %s", errSheetsTransient, redactSheetID(err.Error(), sheetID))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errSheetsTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				if isHTMLResponse(resp.Header.Get("Content-Type")) {
					return nil, fmt.Errorf("%w: sheet is not published as csv", usecase.ErrNotFound)
				}
				return raw, nil
			case isNotFoundStatus(resp.StatusCode):
				return nil, fmt.Errorf("%w: sheet not found or not shared (status=%d)", usecase.ErrNotFound, resp.StatusCode)
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: provider status=%d", errSheetsTransient, resp.StatusCode)
			default:
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		timer := time.NewTimer(time.Duration(attempt+1) * c.retryBackoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("%w: provider request failed", errSheetsTransient)
	}
	c.logger.WarnContext(ctx, "sheets request failed", "url", redactSheetID(fullURL, sheetID), "error", lastErr)
	return nil, lastErr
}

func isCircuitFailure(err error) bool {
	return crerr.Is(err, errSheetsTransient)
}

func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

func isNotFoundStatus(status int) bool {
	switch status {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return true
	default:
		return false
	}
}

// isHTMLResponse catches the sign-in page served for sheets that are not public.
func isHTMLResponse(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "text/html"
}

func redactSheetID(value, sheetID string) string {
	if sheetID == "" {
		return value
	}
	return strings.ReplaceAll(value, sheetID, "REDACTED")
}

func abbreviateBody(raw []byte) string {
	const limit = 160
	text := strings.TrimSpace(string(raw))
	if len(text) <= limit {
		return text
	}
	return text[:limit] + "..."
}
