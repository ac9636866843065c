package services

import "context"

type contextKey string

const (
	contextKeyItemID    contextKey = "queue_item_id"
	contextKeyStage     contextKey = "stage"
	contextKeyRequestID contextKey = "request_id"
)

// WithItemID records the active queue item on the context.
func WithItemID(ctx context.Context, itemID int64) context.Context {
	return context.WithValue(ctx, contextKeyItemID, itemID)
}

// ItemIDFromContext reports the queue item stored by WithItemID.
func ItemIDFromContext(ctx context.Context) (int64, bool) {
	if ctx == nil {
		return 0, false
	}
	itemID, ok := ctx.Value(contextKeyItemID).(int64)
	return itemID, ok
}

// WithStage records the active stage name on the context.
func WithStage(ctx context.Context, stage string) context.Context {
	return context.WithValue(ctx, contextKeyStage, stage)
}

// StageFromContext reports the stage stored by WithStage.
func StageFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	stage, ok := ctx.Value(contextKeyStage).(string)
	return stage, ok
}

// WithRequestID records the per-attempt request identifier on the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextKeyRequestID, requestID)
}

// RequestIDFromContext reports the identifier stored by WithRequestID.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	requestID, ok := ctx.Value(contextKeyRequestID).(string)
	return requestID, ok
}
