package workflow

import (
	"context"
	"errors"
	"strings"

	"capstan/internal/logging"
	"capstan/internal/queue"
	"capstan/internal/services"
)

func (m *Manager) handleStageFailure(ctx context.Context, stageName string, item *queue.Item, stageErr error) {
	base := m.logger
	if base == nil {
		base = logging.NewNop()
	}
	logger := logging.WithContext(ctx, base).With(
		logging.String(logging.FieldComponent, "workflow-manager"))

	message := failureMessage(stageName, stageErr)
	resolved := services.FailureStatus(stageErr)

	if resolved == queue.StatusReview {
		item.Status = queue.StatusReview
		item.NeedsReview = true
		item.ReviewReason = message
		item.ErrorMessage = message
		item.ProgressMessage = message
		item.LastHeartbeat = nil
	} else {
		item.SetFailed(message)
	}

	logger.Error("stage failed",
		logging.String("resolved_status", string(resolved)),
		logging.String("error_message", message),
		logging.Alert("stage_failure"),
		logging.Error(stageErr),
	)

	if err := m.store.Update(ctx, item); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Debug("daemon shutting down, could not update stage failure")
		} else {
			logger.Error("failed to persist stage failure", logging.Error(err))
		}
	}

	m.setLastItem(item)
	m.notifyStageError(ctx, stageName, item, stageErr)
	m.checkQueueCompletion(ctx)
}

func failureMessage(stageName string, stageErr error) string {
	if stageErr != nil {
		if message := strings.TrimSpace(stageErr.Error()); message != "" {
			return message
		}
	}
	if stageName != "" {
		return stageName + " failed without error detail"
	}
	return "workflow failed without error detail"
}
