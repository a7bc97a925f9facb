package context

import "context"

type contextKey string

const (
	requestIDKey contextKey = "observability_request_id"
	previewIDKey contextKey = "observability_preview_id"
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	if ctx == nil || requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(requestIDKey).(string)
	return value
}

// WithPreviewID tags the context with the preview a request operates on so
// export logs can be correlated with the preview that produced them.
func WithPreviewID(ctx context.Context, previewID string) context.Context {
	if ctx == nil || previewID == "" {
		return ctx
	}
	return context.WithValue(ctx, previewIDKey, previewID)
}

func PreviewIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(previewIDKey).(string)
	return value
}
