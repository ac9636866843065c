package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateFetch(); err != nil {
		return err
	}
	if err := c.validateMerge(); err != nil {
		return err
	}
	if err := c.validateMetadata(); err != nil {
		return err
	}
	if err := c.validateSummary(); err != nil {
		return err
	}
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateFetch() error {
	if err := ensurePositiveMap(map[string]int{
		"fetch.max_workers":     c.Fetch.MaxWorkers,
		"fetch.request_timeout": c.Fetch.RequestTimeout,
	}); err != nil {
		return err
	}
	if c.Fetch.RetryMaxElapsed < 0 {
		return errors.New("fetch.retry_max_elapsed must be >= 0")
	}
	if strings.TrimSpace(c.Fetch.Language) == "" {
		return errors.New("fetch.language must be set")
	}
	if strings.TrimSpace(c.Fetch.UserAgent) == "" {
		return errors.New("fetch.user_agent must be set")
	}
	return nil
}

func (c *Config) validateMerge() error {
	if c.Merge.GapThresholdSeconds <= 0 {
		return errors.New("merge.gap_threshold_seconds must be positive")
	}
	return nil
}

func (c *Config) validateMetadata() error {
	if c.Metadata.TitleSimilarityThreshold < 0 || c.Metadata.TitleSimilarityThreshold > 1 {
		return errors.New("metadata.title_similarity_threshold must be between 0 and 1")
	}
	return nil
}

func (c *Config) validateSummary() error {
	return ensurePositiveMap(map[string]int{
		"summary.top_keywords": c.Summary.TopKeywords,
		"summary.top_bigrams":  c.Summary.TopBigrams,
		"summary.top_speakers": c.Summary.TopSpeakers,
	})
}

func (c *Config) validateWorkflow() error {
	if err := ensurePositiveMap(map[string]int{
		"notifications.request_timeout": c.Notifications.RequestTimeout,
		"workflow.queue_poll_interval":  c.Workflow.QueuePollInterval,
		"workflow.error_retry_interval": c.Workflow.ErrorRetryInterval,
		"workflow.inbox_scan_interval":  c.Workflow.InboxScanInterval,
	}); err != nil {
		return err
	}
	if c.Workflow.HeartbeatInterval <= 0 {
		return errors.New("workflow.heartbeat_interval must be positive")
	}
	if c.Workflow.HeartbeatTimeout <= 0 {
		return errors.New("workflow.heartbeat_timeout must be positive")
	}
	if c.Workflow.HeartbeatTimeout <= c.Workflow.HeartbeatInterval {
		return errors.New("workflow.heartbeat_timeout must be greater than workflow.heartbeat_interval")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
