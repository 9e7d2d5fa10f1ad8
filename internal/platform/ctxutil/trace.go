package ctxutil

import "context"

type traceDataKey struct{}

// TraceData is the per-request correlation data carried through the pipeline.
type TraceData struct {
	TraceID   string
	RequestID string
	Platform  string
	Client    string
}

func WithTraceData(ctx context.Context, td *TraceData) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, traceDataKey{}, td)
}

func GetTraceData(ctx context.Context) *TraceData {
	if ctx == nil {
		return nil
	}
	val := ctx.Value(traceDataKey{})
	if td, ok := val.(*TraceData); ok {
		return td
	}
	return nil
}

// LogFields returns the non-empty trace fields as logger key/value pairs.
func LogFields(ctx context.Context) []any {
	td := GetTraceData(ctx)
	if td == nil {
		return nil
	}
	out := make([]any, 0, 8)
	if td.RequestID != "" {
		out = append(out, "request_id", td.RequestID)
	}
	if td.TraceID != "" {
		out = append(out, "trace_id", td.TraceID)
	}
	if td.Platform != "" {
		out = append(out, "platform", td.Platform)
	}
	if td.Client != "" {
		out = append(out, "client_version", td.Client)
	}
	return out
}
