package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// RetentionTarget names a family of log files eligible for cleanup.
type RetentionTarget struct {
	// Dir is the directory scanned for matching files.
	Dir string
	// Pattern is a filepath.Match glob applied to base names.
	Pattern string
	// Exclude lists base names that are never removed, such as the
	// current-run log or its stable symlink.
	Exclude []string
}

// CleanupOldLogs deletes files matching target older than maxAge and reports
// how many were removed. Missing directories are not an error.
func CleanupOldLogs(target RetentionTarget, maxAge time.Duration) (int, error) {
	if target.Dir == "" || target.Pattern == "" || maxAge <= 0 {
		return 0, nil
	}

	entries, err := os.ReadDir(target.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("read log directory: %w", err)
	}

	excluded := make(map[string]struct{}, len(target.Exclude))
	for _, name := range target.Exclude {
		excluded[name] = struct{}{}
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if _, skip := excluded[name]; skip {
			continue
		}
		matched, err := filepath.Match(target.Pattern, name)
		if err != nil {
			return removed, fmt.Errorf("invalid retention pattern %q: %w", target.Pattern, err)
		}
		if !matched {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(target.Dir, name)); err != nil {
			return removed, fmt.Errorf("remove old log %s: %w", name, err)
		}
		removed++
	}
	return removed, nil
}
