package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DataRoot   string `toml:"data_root"`
	StagingDir string `toml:"staging_dir"`
	LogDir     string `toml:"log_dir"`
	InboxDir   string `toml:"inbox_dir"`
}

// Show describes the series the pipeline processes.
type Show struct {
	Name string `toml:"name"`
}

// Fetch contains configuration for playlist probing and segment downloads.
type Fetch struct {
	MaxWorkers      int    `toml:"max_workers"`
	RequestTimeout  int    `toml:"request_timeout"`
	RetryMaxElapsed int    `toml:"retry_max_elapsed"`
	Language        string `toml:"language"`
	UserAgent       string `toml:"user_agent"`
}

// Merge contains configuration for combining fetched segments.
type Merge struct {
	GapThresholdSeconds float64 `toml:"gap_threshold_seconds"`
}

// Clean contains configuration for caption text cleanup.
type Clean struct {
	StripNotes bool `toml:"strip_notes"`
}

// Structure contains configuration for utterance extraction.
type Structure struct {
	StripNotes       bool `toml:"strip_notes"`
	MergeSameSpeaker bool `toml:"merge_same_speaker"`
}

// Speakers contains configuration for the speaker mapping.
type Speakers struct {
	MapPath string `toml:"map_path"`
}

// Metadata contains configuration for the episode metadata join.
type Metadata struct {
	EpisodesPath             string  `toml:"episodes_path"`
	TitleSimilarityThreshold float64 `toml:"title_similarity_threshold"`
}

// Summary contains configuration for season summary generation.
type Summary struct {
	TopKeywords int `toml:"top_keywords"`
	TopBigrams  int `toml:"top_bigrams"`
	TopSpeakers int `toml:"top_speakers"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
	Queue          bool   `toml:"queue"`
	Episodes       bool   `toml:"episodes"`
	Captures       bool   `toml:"captures"`
	Errors         bool   `toml:"errors"`
}

// Workflow contains configuration for daemon timing and intervals.
type Workflow struct {
	QueuePollInterval  int `toml:"queue_poll_interval"`
	ErrorRetryInterval int `toml:"error_retry_interval"`
	HeartbeatInterval  int `toml:"heartbeat_interval"`
	HeartbeatTimeout   int `toml:"heartbeat_timeout"`
	InboxScanInterval  int `toml:"inbox_scan_interval"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for Capstan.
//
// Configuration sections by subsystem:
//   - Paths: data root, staging, logs, and the watched HAR inbox
//   - Show: series identity used in notifications
//   - Fetch: playlist probing and segment download tuning
//   - Merge: segment combination and capture-gap thresholds
//   - Clean: caption text cleanup toggles
//   - Structure: utterance extraction toggles
//   - Speakers: speaker map CSV location
//   - Metadata: episode table location and title-match threshold
//   - Summary: season summary sizing
//   - Notifications: ntfy push notification settings
//   - Workflow: daemon polling intervals and timeouts
//   - Logging: log format, level, and retention
type Config struct {
	Paths         Paths         `toml:"paths"`
	Show          Show          `toml:"show"`
	Fetch         Fetch         `toml:"fetch"`
	Merge         Merge         `toml:"merge"`
	Clean         Clean         `toml:"clean"`
	Structure     Structure     `toml:"structure"`
	Speakers      Speakers      `toml:"speakers"`
	Metadata      Metadata      `toml:"metadata"`
	Summary       Summary       `toml:"summary"`
	Notifications Notifications `toml:"notifications"`
	Workflow      Workflow      `toml:"workflow"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/capstan/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath("~/.config/capstan/config.toml")
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("capstan.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for daemon operation.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataRoot, c.Paths.StagingDir, c.Paths.LogDir, c.Paths.InboxDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// SeasonRoot returns the processed output directory for a season.
func (c *Config) SeasonRoot(season int) string {
	return filepath.Join(c.Paths.DataRoot, fmt.Sprintf("s%02d", season))
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	sample := sampleConfig

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
