package queue

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a queue item.
type Status string

const (
	StatusPending     Status = "pending"
	StatusFetching    Status = "fetching"
	StatusFetched     Status = "fetched"
	StatusMerging     Status = "merging"
	StatusMerged      Status = "merged"
	StatusCleaning    Status = "cleaning"
	StatusCleaned     Status = "cleaned"
	StatusStructuring Status = "structuring"
	StatusStructured  Status = "structured"
	StatusEnriching   Status = "enriching"
	StatusCompleted   Status = "completed"
	StatusFailed      Status = "failed"
	StatusReview      Status = "review"
)

// UserStopReason is the review reason set when a user explicitly stops an item.
const UserStopReason = "Stop requested by user"

// DaemonStopReason is the error message set when items are failed due to daemon shutdown.
const DaemonStopReason = "Daemon stopped"

var allStatuses = []Status{
	StatusPending,
	StatusFetching,
	StatusFetched,
	StatusMerging,
	StatusMerged,
	StatusCleaning,
	StatusCleaned,
	StatusStructuring,
	StatusStructured,
	StatusEnriching,
	StatusCompleted,
	StatusFailed,
	StatusReview,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

var processingOrder = []Status{
	StatusFetching,
	StatusMerging,
	StatusCleaning,
	StatusStructuring,
	StatusEnriching,
}

var processingStatuses = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(processingOrder))
	for _, status := range processingOrder {
		set[status] = struct{}{}
	}
	return set
}()

type statusTransition struct {
	from Status
	to   Status
}

// stageRollbackTransitions return an interrupted item to the start of the
// stage it was executing, not to the head of the queue.
var stageRollbackTransitions = []statusTransition{
	{from: StatusFetching, to: StatusPending},
	{from: StatusMerging, to: StatusFetched},
	{from: StatusCleaning, to: StatusMerged},
	{from: StatusStructuring, to: StatusCleaned},
	{from: StatusEnriching, to: StatusStructured},
}

// DatabaseHealth captures diagnostic information about the queue database.
type DatabaseHealth struct {
	DBPath           string
	DatabaseExists   bool
	DatabaseReadable bool
	SchemaVersion    string
	TableExists      bool
	ColumnsPresent   []string
	MissingColumns   []string
	IntegrityCheck   bool
	TotalItems       int
	Error            string
}

// HealthSummary describes aggregated queue counts per key lifecycle states.
type HealthSummary struct {
	Total      int
	Pending    int
	Processing int
	Failed     int
	Review     int
	Completed  int
}

// Item represents one episode persisted in SQLite.
type Item struct {
	ID              int64
	Season          int
	Episode         int
	Title           string
	Status          Status
	SourceHAR       string
	PlaylistURL     string
	PlaylistUUID    string
	PSID            string
	IsSDH           bool
	RequestedAt     *time.Time
	MergedFile      string
	CleanFile       string
	SentencesFile   string
	StructuredFile  string
	ErrorMessage    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	ProgressStage   string
	ProgressPercent float64
	ProgressMessage string
	CueCount        int
	MalformedCues   int
	DuplicateCues   int
	CaptureGaps     int
	SpeakerMisses   int
	UtteranceCount  int
	MetadataJSON    string
	MetadataMatched bool
	LastHeartbeat   *time.Time
	NeedsReview     bool
	ReviewReason    string
}

// EpisodeIntake carries the capture details needed to enqueue one episode.
type EpisodeIntake struct {
	Season       int
	Episode      int
	PlaylistURL  string
	PlaylistUUID string
	PSID         string
	IsSDH        bool
	RequestedAt  time.Time
	SourceHAR    string
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ProcessingStatuses returns the ordered list of in-flight statuses.
func ProcessingStatuses() []Status {
	cp := make([]Status, len(processingOrder))
	copy(cp, processingOrder)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// IsProcessing returns true when the status reflects an in-flight operation.
func (i Item) IsProcessing() bool {
	_, ok := processingStatuses[i.Status]
	return ok
}

// IsProcessingStatus reports whether a status reflects an in-flight operation.
func IsProcessingStatus(status Status) bool {
	_, ok := processingStatuses[status]
	return ok
}

// IsTerminal reports whether an item has left the workflow.
func (i Item) IsTerminal() bool {
	switch i.Status {
	case StatusCompleted, StatusFailed, StatusReview:
		return true
	default:
		return false
	}
}

// IsUserStopReason reports whether a review reason represents a user-initiated stop.
func IsUserStopReason(reason string) bool {
	return strings.EqualFold(strings.TrimSpace(reason), UserStopReason)
}

// InitProgress resets progress fields for a new stage.
// If ProgressStage is currently empty, it is set to the provided stage value;
// otherwise the existing stage is preserved (to support resume scenarios).
// ProgressMessage is set to message, ProgressPercent is reset to 0,
// and ErrorMessage is cleared.
func (i *Item) InitProgress(stage, message string) {
	if i.ProgressStage == "" {
		i.ProgressStage = stage
	}
	i.ProgressMessage = message
	i.ProgressPercent = 0
	i.ErrorMessage = ""
}

// SetProgress updates all three progress fields atomically.
// Use this instead of setting ProgressStage, ProgressPercent, and ProgressMessage individually.
func (i *Item) SetProgress(stage, message string, percent float64) {
	i.ProgressStage = stage
	i.ProgressMessage = message
	i.ProgressPercent = percent
}

// SetProgressComplete sets progress to 100% with the given stage and message.
// Convenience method for stage completion.
func (i *Item) SetProgressComplete(stage, message string) {
	i.SetProgress(stage, message, 100)
}

// SetFailed marks the item as failed with the given error message.
// Clears heartbeat and sets progress fields appropriately.
func (i *Item) SetFailed(message string) {
	i.Status = StatusFailed
	i.ErrorMessage = message
	i.ProgressPercent = 0
	i.ProgressMessage = message
	i.LastHeartbeat = nil
	i.ProgressStage = "Failed"
}
