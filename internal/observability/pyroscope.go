package observability

import (
	"github.com/grafana/pyroscope-go"
	"github.com/riskibarqy/match-roster/internal/config"
	"github.com/riskibarqy/match-roster/internal/platform/logging"
)

// Rendering and CSV parsing are allocation heavy; block profiles add little here.
var rosterProfileTypes = []pyroscope.ProfileType{
	pyroscope.ProfileCPU,
	pyroscope.ProfileAllocObjects,
	pyroscope.ProfileAllocSpace,
	pyroscope.ProfileInuseObjects,
	pyroscope.ProfileInuseSpace,
	pyroscope.ProfileGoroutines,
	pyroscope.ProfileMutexCount,
	pyroscope.ProfileMutexDuration,
}

func profileTags(cfg config.Config) map[string]string {
	tags := map[string]string{
		"env":     cfg.AppEnv,
		"service": cfg.ServiceName,
		"version": cfg.ServiceVersion,
	}
	if cfg.Profile.FileSlug != "" {
		tags["team"] = cfg.Profile.FileSlug
	}
	return tags
}

// InitPyroscope starts continuous profiling when PYROSCOPE_ENABLED is set. The returned
// stop func is always safe to call.
func InitPyroscope(cfg config.Config, logger *logging.Logger) (func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if !cfg.PyroscopeEnabled {
		logger.Info("continuous profiling off", "reason", "PYROSCOPE_ENABLED=false")
		return func() error { return nil }, nil
	}

	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName:   cfg.PyroscopeAppName,
		ServerAddress:     cfg.PyroscopeServerAddress,
		AuthToken:         cfg.PyroscopeAuthToken,
		BasicAuthUser:     cfg.PyroscopeBasicAuthUser,
		BasicAuthPassword: cfg.PyroscopeBasicAuthPassword,
		UploadRate:        cfg.PyroscopeUploadRate,
		Tags:              profileTags(cfg),
		ProfileTypes:      rosterProfileTypes,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("continuous profiling on",
		"server_address", cfg.PyroscopeServerAddress,
		"application", cfg.PyroscopeAppName,
	)
	return profiler.Stop, nil
}
