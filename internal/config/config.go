package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/match-roster/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                      string
	ServiceName                 string
	ServiceVersion              string
	HTTPAddr                    string
	CORSAllowedOrigins          []string
	ReadTimeout                 time.Duration
	WriteTimeout                time.Duration
	LogLevel                    logging.Level
	LogFormat                   string
	SessionTTL                  time.Duration
	SessionSweepInterval        time.Duration
	CacheEnabled                bool
	CacheTTL                    time.Duration
	SheetsBaseURL               string
	SheetsDefaultGID            string
	SheetsTimeout               time.Duration
	SheetsMaxRetries            int
	SheetsRetryBackoff          time.Duration
	SheetsCircuitEnabled        bool
	SheetsCircuitFailureCount   int
	SheetsCircuitOpenTimeout    time.Duration
	SheetsCircuitHalfOpenMaxReq int
	ImportWorkers               int
	RosterProfilePath           string
	Profile                     RosterProfile
	MetricsEnabled              bool
	PprofEnabled                bool
	PprofAddr                   string
	UptraceEnabled              bool
	UptraceDSN                  string
	PyroscopeEnabled            bool
	PyroscopeServerAddress      string
	PyroscopeAppName            string
	PyroscopeAuthToken          string
	PyroscopeBasicAuthUser      string
	PyroscopeBasicAuthPassword  string
	PyroscopeUploadRate         time.Duration
}

const (
	LogFormatJSON    = "json"
	LogFormatConsole = "console"
)

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:                     appEnv,
		ServiceName:                getEnv("APP_SERVICE_NAME", "match-roster-api"),
		ServiceVersion:             getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                   getEnv("APP_HTTP_ADDR", ":8080"),
		CORSAllowedOrigins:         splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		LogLevel:                   logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info")),
		SheetsBaseURL:              strings.TrimSpace(getEnv("SHEETS_BASE_URL", "https://docs.google.com/spreadsheets/d")),
		SheetsDefaultGID:           strings.TrimSpace(getEnv("SHEETS_DEFAULT_GID", "0")),
		RosterProfilePath:          strings.TrimSpace(getEnv("ROSTER_PROFILE_PATH", "")),
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
	}

	logFormatDefault := LogFormatJSON
	if appEnv == EnvDev {
		logFormatDefault = LogFormatConsole
	}
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(getEnv("APP_LOG_FORMAT", logFormatDefault)))
	if cfg.LogFormat != LogFormatJSON && cfg.LogFormat != LogFormatConsole {
		return Config{}, fmt.Errorf("invalid APP_LOG_FORMAT %q: valid values are %s, %s", cfg.LogFormat, LogFormatJSON, LogFormatConsole)
	}

	if cfg.ReadTimeout, err = parsePositiveDuration("APP_READ_TIMEOUT", "10s"); err != nil {
		return Config{}, err
	}
	if cfg.WriteTimeout, err = parsePositiveDuration("APP_WRITE_TIMEOUT", "15s"); err != nil {
		return Config{}, err
	}

	if cfg.SessionTTL, err = parsePositiveDuration("SESSION_TTL", "12h"); err != nil {
		return Config{}, err
	}
	if cfg.SessionSweepInterval, err = parsePositiveDuration("SESSION_SWEEP_INTERVAL", "5m"); err != nil {
		return Config{}, err
	}

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cfg.CacheEnabled = cacheEnabled
	if cfg.CacheTTL, err = parsePositiveDuration("CACHE_TTL", "60s"); err != nil {
		return Config{}, err
	}

	if cfg.SheetsBaseURL == "" {
		return Config{}, fmt.Errorf("SHEETS_BASE_URL must not be empty")
	}
	if _, err := strconv.ParseUint(cfg.SheetsDefaultGID, 10, 64); err != nil {
		return Config{}, fmt.Errorf("SHEETS_DEFAULT_GID must be numeric, got %q", cfg.SheetsDefaultGID)
	}
	if cfg.SheetsTimeout, err = parsePositiveDuration("SHEETS_TIMEOUT", "15s"); err != nil {
		return Config{}, err
	}
	if cfg.SheetsMaxRetries, err = getEnvAsInt("SHEETS_MAX_RETRIES", 2); err != nil {
		return Config{}, fmt.Errorf("parse SHEETS_MAX_RETRIES: %w", err)
	}
	if cfg.SheetsMaxRetries < 0 {
		return Config{}, fmt.Errorf("SHEETS_MAX_RETRIES must be >= 0")
	}
	if cfg.SheetsRetryBackoff, err = parsePositiveDuration("SHEETS_RETRY_BACKOFF", "500ms"); err != nil {
		return Config{}, err
	}

	sheetsCircuitEnabled, err := strconv.ParseBool(getEnv("SHEETS_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SHEETS_CIRCUIT_ENABLED: %w", err)
	}
	cfg.SheetsCircuitEnabled = sheetsCircuitEnabled
	if cfg.SheetsCircuitFailureCount, err = getEnvAsInt("SHEETS_CIRCUIT_FAILURE_COUNT", 5); err != nil {
		return Config{}, fmt.Errorf("parse SHEETS_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if cfg.SheetsCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("SHEETS_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	if cfg.SheetsCircuitOpenTimeout, err = parsePositiveDuration("SHEETS_CIRCUIT_OPEN_TIMEOUT", "30s"); err != nil {
		return Config{}, err
	}
	if cfg.SheetsCircuitHalfOpenMaxReq, err = getEnvAsInt("SHEETS_CIRCUIT_HALF_OPEN_MAX_REQ", 1); err != nil {
		return Config{}, fmt.Errorf("parse SHEETS_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if cfg.SheetsCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("SHEETS_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	if cfg.ImportWorkers, err = getEnvAsInt("IMPORT_WORKERS", 4); err != nil {
		return Config{}, fmt.Errorf("parse IMPORT_WORKERS: %w", err)
	}
	if cfg.ImportWorkers < 1 {
		return Config{}, fmt.Errorf("IMPORT_WORKERS must be >= 1")
	}

	if cfg.Profile, err = LoadRosterProfile(cfg.RosterProfilePath); err != nil {
		return Config{}, fmt.Errorf("load roster profile: %w", err)
	}

	metricsEnabled, err := strconv.ParseBool(getEnv("METRICS_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse METRICS_ENABLED: %w", err)
	}
	cfg.MetricsEnabled = metricsEnabled

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	cfg.PprofEnabled = pprofEnabled
	cfg.PprofAddr = strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	cfg.UptraceEnabled = uptraceEnabled
	cfg.UptraceDSN = uptraceDSN

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	if cfg.PyroscopeUploadRate, err = parsePositiveDuration("PYROSCOPE_UPLOAD_RATE", "15s"); err != nil {
		return Config{}, err
	}
	cfg.PyroscopeEnabled = pyroscopeEnabled
	cfg.PyroscopeServerAddress = pyroscopeServerAddress
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))

	return cfg, nil
}

func parsePositiveDuration(key, fallback string) (time.Duration, error) {
	value, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if value <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return value, nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
