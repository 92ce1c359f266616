package httpapi

import "testing"

func TestShouldTraceRequest_SystemPaths(t *testing.T) {
	paths := []string{"/healthz", "/health", "/livez", "/readyz", "/metrics", " /healthz "}
	for _, path := range paths {
		if shouldTraceRequest(path) {
			t.Fatalf("expected no tracing for path %q", path)
		}
	}
}

func TestShouldTraceRequest_APIPaths(t *testing.T) {
	paths := []string{"/v1/sessions", "/v1/sessions/abc/roster", "/"}
	for _, path := range paths {
		if !shouldTraceRequest(path) {
			t.Fatalf("expected tracing for path %q", path)
		}
	}
}
