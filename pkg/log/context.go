package log

import "context"

const (
	ModeProduction  = "production"
	EncodingJSON    = "json"
	EncodingConsole = "console"
)

type ctxKey int

const (
	traceIDKey ctxKey = iota
	userIDKey
)

// WithTraceID attaches a trace id that every log line on ctx will carry.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

// WithUserID attaches the acting user id.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// TraceID returns the trace id stored on ctx, if any.
func TraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(traceIDKey).(string)
	return v
}

func fieldsFromContext(ctx context.Context) []any {
	if ctx == nil {
		return nil
	}
	var fields []any
	if v, ok := ctx.Value(traceIDKey).(string); ok && v != "" {
		fields = append(fields, "trace_id", v)
	}
	if v, ok := ctx.Value(userIDKey).(string); ok && v != "" {
		fields = append(fields, "user_id", v)
	}
	return fields
}
