package httpapi

import (
	"net/http"

	"github.com/riskibarqy/match-roster/internal/platform/logging"
)

// NewRouter builds the API handler. metricsHandler and observer are optional.
func NewRouter(
	handler *Handler,
	logger *logging.Logger,
	corsAllowedOrigins []string,
	metricsHandler http.Handler,
	observer RequestObserver,
) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler, metricsHandler)
	registerSessionRoutes(mux, handler)
	registerRosterRoutes(mux, handler)

	// RequestMetrics must wrap the mux directly to see the matched pattern.
	return RequestTracing(RequestLogging(logger, CORS(corsAllowedOrigins, recoverPanic(logger, RequestMetrics(observer, mux)))))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.recoverPanic")
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
