package httpapi

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const handlerSpanPrefix = "httpapi.Handler."

var (
	handlerTracer = otel.Tracer("match-roster/internal/interfaces/httpapi")
	untracedSpan  = trace.SpanFromContext(context.Background())
)

// startSpan opens a child span for handler operations only. Middleware and response
// helpers run inside the request span, and requests on untraced routes get nothing.
func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if !isHandlerSpan(name) || !trace.SpanContextFromContext(ctx).IsValid() {
		return ctx, untracedSpan
	}
	return handlerTracer.Start(ctx, name, trace.WithSpanKind(trace.SpanKindInternal))
}

func isHandlerSpan(name string) bool {
	return strings.HasPrefix(name, handlerSpanPrefix)
}

func tagSession(ctx context.Context, sessionID string) {
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("roster.session_id", sessionID))
}
