package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"capstan/internal/logging"
	"capstan/internal/preflight"
)

// RunPreflightChecks validates the environment before processing begins.
// Returns nil when all checks pass, or an error describing every failure.
func (m *Manager) RunPreflightChecks(ctx context.Context, logger *slog.Logger) error {
	results := preflight.RunAll(ctx, m.cfg)
	if len(results) == 0 {
		return nil
	}

	var failures []string
	for _, r := range results {
		if r.Passed {
			logger.Debug("preflight check passed",
				logging.String("check", r.Name),
				logging.String("detail", r.Detail),
			)
		} else {
			logger.Error("preflight check failed",
				logging.String("check", r.Name),
				logging.String("detail", r.Detail),
			)
			failures = append(failures, fmt.Sprintf("%s: %s", r.Name, r.Detail))
		}
	}

	if len(failures) > 0 {
		return fmt.Errorf("preflight checks failed: %s", strings.Join(failures, "; "))
	}
	return nil
}
