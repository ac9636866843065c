package config

const (
	defaultDataRoot                 = "~/.local/share/capstan/data"
	defaultStagingDir               = "~/.local/share/capstan/staging"
	defaultLogDir                   = "~/.local/share/capstan/logs"
	defaultInboxDir                 = "~/.local/share/capstan/inbox"
	defaultFetchMaxWorkers          = 16
	defaultFetchRequestTimeout      = 30
	defaultFetchRetryMaxElapsed     = 120
	defaultFetchLanguage            = "en"
	defaultFetchUserAgent           = "Mozilla/5.0 (subs-dl)"
	defaultMergeGapThreshold        = 5.0
	defaultTitleSimilarityThreshold = 0.5
	defaultSummaryTopKeywords       = 100
	defaultSummaryTopBigrams        = 100
	defaultSummaryTopSpeakers       = 50
	defaultNotifyRequestTimeout     = 10
	defaultWorkflowQueuePoll        = 5
	defaultWorkflowErrorRetry       = 10
	defaultHeartbeatInterval        = 15
	defaultHeartbeatTimeout         = 120
	defaultInboxScanInterval        = 5
	defaultLogFormat                = "console"
	defaultLogLevel                 = "info"
	defaultLogRetentionDays         = 60
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataRoot:   defaultDataRoot,
			StagingDir: defaultStagingDir,
			LogDir:     defaultLogDir,
			InboxDir:   defaultInboxDir,
		},
		Fetch: Fetch{
			MaxWorkers:      defaultFetchMaxWorkers,
			RequestTimeout:  defaultFetchRequestTimeout,
			RetryMaxElapsed: defaultFetchRetryMaxElapsed,
			Language:        defaultFetchLanguage,
			UserAgent:       defaultFetchUserAgent,
		},
		Merge: Merge{
			GapThresholdSeconds: defaultMergeGapThreshold,
		},
		Metadata: Metadata{
			TitleSimilarityThreshold: defaultTitleSimilarityThreshold,
		},
		Summary: Summary{
			TopKeywords: defaultSummaryTopKeywords,
			TopBigrams:  defaultSummaryTopBigrams,
			TopSpeakers: defaultSummaryTopSpeakers,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
			Queue:          true,
			Episodes:       true,
			Captures:       true,
			Errors:         true,
		},
		Workflow: Workflow{
			QueuePollInterval:  defaultWorkflowQueuePoll,
			ErrorRetryInterval: defaultWorkflowErrorRetry,
			HeartbeatInterval:  defaultHeartbeatInterval,
			HeartbeatTimeout:   defaultHeartbeatTimeout,
			InboxScanInterval:  defaultInboxScanInterval,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
