package config

import (
	"fmt"
	"os"
	"strings"

	"capstan/internal/language"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeShow()
	c.normalizeFetch()
	c.normalizeMerge()
	if err := c.normalizeSpeakers(); err != nil {
		return err
	}
	if err := c.normalizeMetadata(); err != nil {
		return err
	}
	c.normalizeSummary()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataRoot) == "" {
		c.Paths.DataRoot = defaultDataRoot
	}
	if c.Paths.DataRoot, err = expandPath(c.Paths.DataRoot); err != nil {
		return fmt.Errorf("paths.data_root: %w", err)
	}
	if strings.TrimSpace(c.Paths.StagingDir) == "" {
		c.Paths.StagingDir = defaultStagingDir
	}
	if c.Paths.StagingDir, err = expandPath(c.Paths.StagingDir); err != nil {
		return fmt.Errorf("paths.staging_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.InboxDir) == "" {
		c.Paths.InboxDir = defaultInboxDir
	}
	if c.Paths.InboxDir, err = expandPath(c.Paths.InboxDir); err != nil {
		return fmt.Errorf("paths.inbox_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeShow() {
	c.Show.Name = strings.TrimSpace(c.Show.Name)
}

func (c *Config) normalizeFetch() {
	if c.Fetch.MaxWorkers <= 0 {
		c.Fetch.MaxWorkers = defaultFetchMaxWorkers
	}
	if c.Fetch.RequestTimeout <= 0 {
		c.Fetch.RequestTimeout = defaultFetchRequestTimeout
	}
	if c.Fetch.RetryMaxElapsed < 0 {
		c.Fetch.RetryMaxElapsed = defaultFetchRetryMaxElapsed
	}
	c.Fetch.Language = language.ToISO2(c.Fetch.Language)
	if c.Fetch.Language == "" {
		c.Fetch.Language = defaultFetchLanguage
	}
	c.Fetch.UserAgent = strings.TrimSpace(c.Fetch.UserAgent)
	if c.Fetch.UserAgent == "" {
		c.Fetch.UserAgent = defaultFetchUserAgent
	}
}

func (c *Config) normalizeMerge() {
	if c.Merge.GapThresholdSeconds <= 0 {
		c.Merge.GapThresholdSeconds = defaultMergeGapThreshold
	}
}

func (c *Config) normalizeSpeakers() error {
	c.Speakers.MapPath = strings.TrimSpace(c.Speakers.MapPath)
	if c.Speakers.MapPath == "" {
		return nil
	}
	expanded, err := expandPath(c.Speakers.MapPath)
	if err != nil {
		return fmt.Errorf("speakers.map_path: %w", err)
	}
	c.Speakers.MapPath = expanded
	return nil
}

func (c *Config) normalizeMetadata() error {
	c.Metadata.EpisodesPath = strings.TrimSpace(c.Metadata.EpisodesPath)
	if c.Metadata.EpisodesPath == "" {
		return nil
	}
	expanded, err := expandPath(c.Metadata.EpisodesPath)
	if err != nil {
		return fmt.Errorf("metadata.episodes_path: %w", err)
	}
	c.Metadata.EpisodesPath = expanded
	return nil
}

func (c *Config) normalizeSummary() {
	if c.Summary.TopKeywords <= 0 {
		c.Summary.TopKeywords = defaultSummaryTopKeywords
	}
	if c.Summary.TopBigrams <= 0 {
		c.Summary.TopBigrams = defaultSummaryTopBigrams
	}
	if c.Summary.TopSpeakers <= 0 {
		c.Summary.TopSpeakers = defaultSummaryTopSpeakers
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.NtfyTopic == "" {
		if value, ok := os.LookupEnv("CAPSTAN_NTFY_TOPIC"); ok {
			c.Notifications.NtfyTopic = strings.TrimSpace(value)
		}
	}
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyRequestTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}
