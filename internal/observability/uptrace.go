package observability

import (
	"context"
	"strings"

	"github.com/riskibarqy/match-roster/internal/config"
	"github.com/riskibarqy/match-roster/internal/platform/logging"
	"github.com/uptrace/uptrace-go/uptrace"
	"go.opentelemetry.io/otel/attribute"
)

func noopShutdown(context.Context) error { return nil }

// InitUptrace installs the global OpenTelemetry providers. Without UPTRACE_ENABLED or a
// DSN the otel globals stay no-op and the HTTP spans cost nothing.
func InitUptrace(cfg config.Config, logger *logging.Logger) (func(context.Context) error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	switch {
	case !cfg.UptraceEnabled:
		logger.Info("tracing off", "reason", "UPTRACE_ENABLED=false")
		return noopShutdown, nil
	case strings.TrimSpace(cfg.UptraceDSN) == "":
		logger.Info("tracing off", "reason", "UPTRACE_DSN empty")
		return noopShutdown, nil
	}

	uptrace.ConfigureOpentelemetry(
		uptrace.WithDSN(cfg.UptraceDSN),
		uptrace.WithServiceName(cfg.ServiceName),
		uptrace.WithServiceVersion(cfg.ServiceVersion),
		uptrace.WithDeploymentEnvironment(cfg.AppEnv),
		uptrace.WithResourceAttributes(attribute.String("roster.team", cfg.Profile.TeamName)),
	)

	logger.Info("tracing on",
		"service_name", cfg.ServiceName,
		"service_version", cfg.ServiceVersion,
		"environment", cfg.AppEnv,
		"team", cfg.Profile.TeamName,
	)
	return uptrace.Shutdown, nil
}
