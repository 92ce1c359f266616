package resilience

import "time"

// Fallbacks match the SHEETS_CIRCUIT_* defaults: the export endpoint recovers slowly, so
// one probe at a time after a 30s cool-down.
const (
	fallbackFailureThreshold = 5
	fallbackOpenTimeout      = 30 * time.Second
	fallbackHalfOpenProbes   = 1
)

// CircuitBreakerConfig tunes the breaker in front of the spreadsheet export endpoint.
// OnStateChange runs under the breaker lock and must not call back into it.
type CircuitBreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
	HalfOpenMaxReq   int
	OnStateChange    func(from, to CircuitState)
}

func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: fallbackFailureThreshold,
		OpenTimeout:      fallbackOpenTimeout,
		HalfOpenMaxReq:   fallbackHalfOpenProbes,
	}
}

// NormalizeCircuitBreakerConfig fills unset or non-positive limits. Enabled and
// OnStateChange are left as given.
func NormalizeCircuitBreakerConfig(cfg CircuitBreakerConfig) CircuitBreakerConfig {
	if cfg.FailureThreshold < 1 {
		cfg.FailureThreshold = fallbackFailureThreshold
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = fallbackOpenTimeout
	}
	if cfg.HalfOpenMaxReq < 1 {
		cfg.HalfOpenMaxReq = fallbackHalfOpenProbes
	}
	return cfg
}
