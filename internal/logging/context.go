package logging

import (
	"context"
	"log/slog"

	"capstan/internal/services"
)

// Shared attribute keys. Stages and the workflow manager use these so log
// lines stay machine-filterable across components.
const (
	FieldComponent  = "component"
	FieldItemID     = "item_id"
	FieldStage      = "stage"
	FieldRequestID  = "request_id"
	FieldEpisodeKey = "episode_key"
	FieldSeason     = "season"
	FieldEpisode    = "episode"
	FieldAlert      = "alert"
)

// ContextFields extracts workflow identifiers stored on the context and
// returns them as attributes, most specific last.
func ContextFields(ctx context.Context) []Attr {
	if ctx == nil {
		return nil
	}
	attrs := make([]Attr, 0, 3)
	if itemID, ok := services.ItemIDFromContext(ctx); ok {
		attrs = append(attrs, Int64(FieldItemID, itemID))
	}
	if stage, ok := services.StageFromContext(ctx); ok && stage != "" {
		attrs = append(attrs, String(FieldStage, stage))
	}
	if requestID, ok := services.RequestIDFromContext(ctx); ok && requestID != "" {
		attrs = append(attrs, String(FieldRequestID, requestID))
	}
	return attrs
}

// WithContext returns a logger pre-tagged with any workflow identifiers the
// context carries.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
