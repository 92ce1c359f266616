package usecase

import "time"

const (
	outcomeSuccess  = "success"
	outcomeRejected = "rejected"
	outcomeError    = "error"
)

// MetricsRecorder receives service-level measurements. Implementations must be safe
// for concurrent use.
type MetricsRecorder interface {
	ObserveRosterOperation(operation, outcome string)
	ObserveImport(outcome string, tabs, candidates int, elapsed time.Duration)
	ObserveCacheLookup(hit bool)
	SetActiveSessions(count int)
}

type nopMetrics struct{}

func (nopMetrics) ObserveRosterOperation(string, string)         {}
func (nopMetrics) ObserveImport(string, int, int, time.Duration) {}
func (nopMetrics) ObserveCacheLookup(bool)                       {}
func (nopMetrics) SetActiveSessions(int)                         {}

func metricsOrNop(m MetricsRecorder) MetricsRecorder {
	if m == nil {
		return nopMetrics{}
	}
	return m
}
