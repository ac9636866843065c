package services

import (
	"errors"
	"fmt"
	"strings"

	"capstan/internal/queue"
)

// Error markers classify stage failures. Wrap attaches one to an error so the
// workflow manager can route the item to the right terminal status.
var (
	// ErrUpstream marks failures of the caption CDN or other remote services.
	ErrUpstream = errors.New("upstream service failure")
	// ErrValidation marks malformed input that retrying will not fix.
	ErrValidation = errors.New("validation failure")
	// ErrConfiguration marks missing or inconsistent configuration.
	ErrConfiguration = errors.New("configuration failure")
	// ErrNotFound marks missing files or records.
	ErrNotFound = errors.New("not found")
	// ErrTimeout marks operations that exceeded their deadline.
	ErrTimeout = errors.New("timeout")
	// ErrTransient marks failures that may succeed on retry.
	ErrTransient = errors.New("transient failure")
)

// Wrap attaches a marker and stage/operation detail to err. The marker stays
// visible to errors.Is while the detail keeps log lines actionable.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if err == nil {
		if detail == "" {
			return marker
		}
		return fmt.Errorf("%w: %s", marker, detail)
	}
	if detail == "" {
		return fmt.Errorf("%w: %w", marker, err)
	}
	return fmt.Errorf("%w: %s: %w", marker, detail, err)
}

// FailureStatus maps a stage error onto the queue status the item should land
// in. Validation, configuration, and not-found failures need operator review;
// everything else is a plain failure eligible for retry.
func FailureStatus(err error) queue.Status {
	switch {
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrConfiguration),
		errors.Is(err, ErrNotFound):
		return queue.StatusReview
	default:
		return queue.StatusFailed
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	for _, part := range []string{stage, operation, message} {
		part = strings.TrimSpace(part)
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, ": ")
}
