package common

import "context"

type contextKey string

const (
	TraceIdKey    contextKey = "trace_id"
	MetadataKey   contextKey = "metadata"
	RequestIdKey  contextKey = "request_id"
	LatencyCtxKey contextKey = "__execution_time"
)

// TraceIdFromContext returns the trace id carried by the caller's request
// context, or the empty string.
func TraceIdFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(TraceIdKey).(string); ok {
		return v
	}
	return ""
}

// WithTraceId attaches a trace id for downstream log correlation.
func WithTraceId(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIdKey, traceID)
}
