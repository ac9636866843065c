package workflow

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"capstan/internal/logging"
	"capstan/internal/notifications"
	"capstan/internal/queue"
)

func (m *Manager) notifyStageError(ctx context.Context, stageName string, item *queue.Item, stageErr error) {
	if m.notifier == nil || stageErr == nil {
		return
	}
	logger := logging.WithContext(ctx, m.logger)
	contextLabel := fmt.Sprintf("%s (item #%d)", stageName, item.ID)
	if err := m.notifier.Publish(ctx, notifications.EventError, notifications.Payload{
		"error":   stageErr.Error(),
		"context": contextLabel,
	}); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Debug("daemon shutting down, could not send error notification")
		} else {
			logger.Debug("stage error notification failed", logging.Error(err))
		}
	}
}

func (m *Manager) notifyEpisodeCompleted(ctx context.Context, item *queue.Item) {
	if m.notifier == nil || item == nil {
		return
	}
	if err := m.notifier.Publish(ctx, notifications.EventEpisodeCompleted, notifications.Payload{
		"episode": item.Label(),
		"title":   item.Title,
	}); err != nil && !errors.Is(err, context.Canceled) {
		m.logger.Debug("episode completion notification failed", logging.Error(err))
	}
}

func (m *Manager) onItemStarted(ctx context.Context) {
	if m.notifier == nil {
		return
	}
	stats, err := m.store.Stats(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			m.logger.Debug("daemon shutting down, could not get queue stats for start notification")
		} else {
			m.logger.Warn("queue stats unavailable for start notification", logging.Error(err))
		}
		return
	}
	m.mu.Lock()
	if m.queueActive {
		m.mu.Unlock()
		return
	}
	m.queueActive = true
	m.queueStart = time.Now()
	m.mu.Unlock()

	count := countWorkItems(stats)
	if err := m.notifier.Publish(ctx, notifications.EventQueueStarted, notifications.Payload{
		"count": strconv.Itoa(count),
	}); err != nil && !errors.Is(err, context.Canceled) {
		m.logger.Debug("queue start notification failed", logging.Error(err))
	}
}

func (m *Manager) checkQueueCompletion(ctx context.Context) {
	if m.notifier == nil {
		return
	}
	stats, err := m.store.Stats(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			m.logger.Debug("daemon shutting down, could not check queue completion")
		} else {
			m.logger.Warn("queue stats unavailable for completion notification", logging.Error(err))
		}
		return
	}
	if active := countActiveItems(stats); active > 0 {
		return
	}

	m.mu.Lock()
	if !m.queueActive {
		m.mu.Unlock()
		return
	}
	start := m.queueStart
	m.queueActive = false
	m.queueStart = time.Time{}
	m.mu.Unlock()

	duration := time.Duration(0)
	if !start.IsZero() {
		duration = time.Since(start).Round(time.Second)
	}
	if err := m.notifier.Publish(ctx, notifications.EventQueueCompleted, notifications.Payload{
		"processed": strconv.Itoa(stats[queue.StatusCompleted]),
		"failed":    strconv.Itoa(stats[queue.StatusFailed]),
		"duration":  duration.String(),
	}); err != nil && !errors.Is(err, context.Canceled) {
		m.logger.Debug("queue completion notification failed", logging.Error(err))
	}
}

func countWorkItems(stats map[queue.Status]int) int {
	total := 0
	for status, count := range stats {
		switch status {
		case queue.StatusCompleted, queue.StatusFailed, queue.StatusReview:
			continue
		}
		total += count
	}
	return total
}

func countActiveItems(stats map[queue.Status]int) int {
	total := 0
	for _, status := range queue.AllStatuses() {
		switch status {
		case queue.StatusCompleted, queue.StatusFailed, queue.StatusReview:
			continue
		}
		total += stats[status]
	}
	return total
}
