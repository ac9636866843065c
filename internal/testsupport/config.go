package testsupport

import (
	"path/filepath"
	"testing"

	"capstan/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataRoot = filepath.Join(base, "data")
	cfgVal.Paths.StagingDir = filepath.Join(base, "staging")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.InboxDir = filepath.Join(base, "inbox")
	cfgVal.Workflow.QueuePollInterval = 1
	cfgVal.Workflow.HeartbeatInterval = 1

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithSpeakerMap points the config at a speaker map CSV.
func WithSpeakerMap(path string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Speakers.MapPath = path
	}
}

// WithEpisodeTable points the config at an episode metadata table.
func WithEpisodeTable(path string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Metadata.EpisodesPath = path
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StagingDir)
}
