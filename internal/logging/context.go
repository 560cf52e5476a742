package logging

import (
	"context"
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
)

type ctxKey string

const traceIDKey ctxKey = "trace_id"

// FieldTraceID is the log field carrying the command trace ID.
const FieldTraceID = "trace_id"

// NewTraceID returns a new lexically sortable trace ID.
func NewTraceID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}

// ContextWithTraceID stores the trace ID in the context.
func ContextWithTraceID(ctx context.Context, id string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, traceIDKey, id)
}

// TraceIDFromContext extracts the trace ID from context if present.
func TraceIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(traceIDKey).(string); ok {
		return v
	}
	return ""
}

// GetOrGenerateTraceID returns the trace ID already stored in ctx, or a new one.
func GetOrGenerateTraceID(ctx context.Context) string {
	if id := TraceIDFromContext(ctx); id != "" {
		return id
	}
	return NewTraceID()
}

// FromContext returns the logger stored in ctx, enriched with the trace ID.
// A disabled logger is returned when ctx carries none.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx == nil {
		l := zerolog.Nop()
		return &l
	}
	l := zerolog.Ctx(ctx)
	if id := TraceIDFromContext(ctx); id != "" && l.GetLevel() != zerolog.Disabled {
		withTrace := l.With().Str(FieldTraceID, id).Logger()
		return &withTrace
	}
	return l
}

// WithComponentFromContext returns the context logger annotated with component.
func WithComponentFromContext(ctx context.Context, component string) zerolog.Logger {
	return ComponentLogger(*FromContext(ctx), component)
}
