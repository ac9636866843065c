package workflow

import (
	"context"
	"log/slog"
	"strings"
	"unicode"

	"capstan/internal/logging"
	"capstan/internal/queue"
	"capstan/internal/services"
)

func (m *Manager) stageLogger(ctx context.Context, base *slog.Logger, item *queue.Item) *slog.Logger {
	if base == nil {
		base = m.logger
	}
	if base == nil {
		base = logging.NewNop()
	}
	logger := logging.WithContext(ctx, base)
	if item != nil {
		logger = logger.With(
			logging.String(logging.FieldEpisodeKey, item.EpisodeKey()),
			logging.Int(logging.FieldSeason, item.Season),
			logging.Int(logging.FieldEpisode, item.Episode),
		)
	}
	return logger
}

func withStageContext(ctx context.Context, stageName string, item *queue.Item, requestID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if item != nil {
		ctx = services.WithItemID(ctx, item.ID)
	}
	if stageName != "" {
		ctx = services.WithStage(ctx, stageName)
	}
	if requestID != "" {
		ctx = services.WithRequestID(ctx, requestID)
	}
	return ctx
}

func deriveStageLabel(status queue.Status) string {
	if status == "" {
		return ""
	}
	parts := strings.Fields(strings.ReplaceAll(string(status), "_", " "))
	for i, part := range parts {
		if part == "" {
			continue
		}
		runes := []rune(strings.ToLower(part))
		runes[0] = unicode.ToUpper(runes[0])
		parts[i] = string(runes)
	}
	return strings.Join(parts, " ")
}
