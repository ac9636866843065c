package queue

import (
	"context"
	"fmt"
	"strings"
	"time"
)

func rollbackCase() (string, []any) {
	var b strings.Builder
	b.WriteString("CASE status")
	args := make([]any, 0, len(stageRollbackTransitions)*2)
	for range stageRollbackTransitions {
		b.WriteString(" WHEN ? THEN ?")
	}
	for _, transition := range stageRollbackTransitions {
		args = append(args, transition.from, transition.to)
	}
	b.WriteString(" ELSE status END")
	return b.String(), args
}

// ResetStuckProcessing resets items in processing states back to the start of their current stage.
func (s *Store) ResetStuckProcessing(ctx context.Context) (int64, error) {
	caseExpr, caseArgs := rollbackCase()
	args := append([]any{}, caseArgs...)
	args = append(args, time.Now().UTC().Format(time.RFC3339Nano))
	for _, status := range processingOrder {
		args = append(args, status)
	}

	res, err := s.execWithRetry(
		ctx,
		`UPDATE queue_items
         SET status = `+caseExpr+`,
             progress_stage = 'Reset from stuck processing',
             progress_percent = 0, progress_message = NULL, last_heartbeat = NULL, updated_at = ?
         WHERE status IN (`+makePlaceholders(len(processingOrder))+`)`,
		args...,
	)
	if err != nil {
		return 0, fmt.Errorf("reset stuck items: %w", err)
	}
	return res.RowsAffected()
}

// UpdateHeartbeat updates the last heartbeat timestamp for an in-flight item.
func (s *Store) UpdateHeartbeat(ctx context.Context, id int64) error {
	now := time.Now().UTC()
	if err := s.execWithoutResultRetry(
		ctx,
		`UPDATE queue_items SET last_heartbeat = ?, updated_at = ? WHERE id = ?`,
		now.Format(time.RFC3339Nano),
		now.Format(time.RFC3339Nano),
		id,
	); err != nil {
		return fmt.Errorf("update heartbeat: %w", err)
	}
	return nil
}

// ReclaimStaleProcessing returns items stuck in processing back to the start
// of their current stage when heartbeats expire. When statuses are provided
// only those processing states are reclaimed; otherwise all of them are.
func (s *Store) ReclaimStaleProcessing(ctx context.Context, cutoff time.Time, statuses ...Status) (int64, error) {
	targets := make([]Status, 0, len(processingOrder))
	if len(statuses) == 0 {
		targets = append(targets, processingOrder...)
	} else {
		for _, status := range statuses {
			if IsProcessingStatus(status) {
				targets = append(targets, status)
			}
		}
	}
	if len(targets) == 0 {
		return 0, nil
	}

	caseExpr, caseArgs := rollbackCase()
	now := time.Now().UTC()
	args := append([]any{}, caseArgs...)
	args = append(args, now.Format(time.RFC3339Nano))
	for _, status := range targets {
		args = append(args, status)
	}
	args = append(args, cutoff.UTC().Format(time.RFC3339Nano))

	res, err := s.execWithRetry(
		ctx,
		`UPDATE queue_items
        SET status = `+caseExpr+`,
            progress_stage = 'Reclaimed from stale processing',
            progress_percent = 0, progress_message = NULL, last_heartbeat = NULL, updated_at = ?
        WHERE status IN (`+makePlaceholders(len(targets))+`) AND last_heartbeat IS NOT NULL AND last_heartbeat < ?`,
		args...,
	)
	if err != nil {
		return 0, fmt.Errorf("reclaim stale items: %w", err)
	}
	return res.RowsAffected()
}

// RetryFailed moves failed items back to pending for reprocessing.
func (s *Store) RetryFailed(ctx context.Context, ids ...int64) (int64, error) {
	if len(ids) == 0 {
		res, err := s.execWithRetry(
			ctx,
			`UPDATE queue_items
            SET status = ?, progress_stage = 'Retry requested', progress_percent = 0,
                progress_message = NULL, error_message = NULL, updated_at = ?
            WHERE status = ?`,
			StatusPending,
			time.Now().UTC().Format(time.RFC3339Nano),
			StatusFailed,
		)
		if err != nil {
			return 0, fmt.Errorf("retry failed items: %w", err)
		}
		return res.RowsAffected()
	}

	placeholders := makePlaceholders(len(ids))
	args := make([]any, 0, len(ids)+2)
	args = append(args, StatusPending, time.Now().UTC().Format(time.RFC3339Nano))
	for _, id := range ids {
		args = append(args, id)
	}
	query := `UPDATE queue_items
        SET status = ?, progress_stage = 'Retry requested', progress_percent = 0,
            progress_message = NULL, error_message = NULL, updated_at = ?
        WHERE id IN (` + placeholders + `) AND status = '` + string(StatusFailed) + `'`
	res, err := s.execWithRetry(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("retry selected items: %w", err)
	}
	return res.RowsAffected()
}
