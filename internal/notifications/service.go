package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"capstan/internal/config"
)

const userAgent = "Capstan/0.1.0"

// Event identifies a workflow milestone worth telling a human about.
type Event string

const (
	// EventCaptureDetected fires when a HAR capture lands in the inbox.
	EventCaptureDetected Event = "capture-detected"
	// EventQueueStarted fires when the daemon begins draining the queue.
	EventQueueStarted Event = "queue-started"
	// EventQueueCompleted fires when a queue drain finishes.
	EventQueueCompleted Event = "queue-completed"
	// EventEpisodeCompleted fires when an episode transcript is fully processed.
	EventEpisodeCompleted Event = "episode-completed"
	// EventError fires when a stage fails.
	EventError Event = "error"
	// EventTest exercises the notification path end to end.
	EventTest Event = "test"
)

// Payload carries the event-specific values used to format a message.
type Payload map[string]string

// Service defines the notification surface exposed to workflow components.
type Service interface {
	Publish(ctx context.Context, event Event, payload Payload) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
		toggles:  cfg.Notifications,
		show:     strings.TrimSpace(cfg.Show.Name),
	}
}

type message struct {
	title    string
	body     string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
	toggles  config.Notifications
	show     string
}

// Publish formats and delivers the event. Events suppressed by configuration
// return nil without touching the network.
func (n *ntfyService) Publish(ctx context.Context, event Event, payload Payload) error {
	if !n.enabled(event) {
		return nil
	}
	msg, ok := format(event, payload)
	if !ok {
		return nil
	}
	if n.show != "" {
		msg.title = strings.Replace(msg.title, "Capstan", n.show, 1)
	}
	return n.send(ctx, msg)
}

func (n *ntfyService) enabled(event Event) bool {
	switch event {
	case EventCaptureDetected:
		return n.toggles.Captures
	case EventQueueStarted, EventQueueCompleted:
		return n.toggles.Queue
	case EventEpisodeCompleted:
		return n.toggles.Episodes
	case EventError:
		return n.toggles.Errors
	default:
		return true
	}
}

func format(event Event, payload Payload) (message, bool) {
	get := func(key string) string {
		return strings.TrimSpace(payload[key])
	}

	switch event {
	case EventCaptureDetected:
		file := get("file")
		episode := get("episode")
		body := fmt.Sprintf("📥 Capture detected: %s", file)
		if episode != "" {
			body = fmt.Sprintf("📥 Capture detected: %s (%s)", file, episode)
		}
		return message{
			title: "Capstan - Capture Detected",
			body:  body,
			tags:  []string{"capstan", "capture", "detected"},
		}, true
	case EventQueueStarted:
		return message{
			title: "Capstan - Queue Started",
			body:  fmt.Sprintf("Started processing queue with %s items", orUnknown(get("count"))),
			tags:  []string{"capstan", "queue", "started"},
		}, true
	case EventQueueCompleted:
		processed := orUnknown(get("processed"))
		failed := get("failed")
		duration := get("duration")
		if duration == "" {
			duration = "0s"
		}
		title := "Capstan - Queue Complete"
		body := fmt.Sprintf("Queue processing complete: %s items processed in %s", processed, duration)
		if failed != "" && failed != "0" {
			title = "Capstan - Queue Complete (with errors)"
			body = fmt.Sprintf("Queue processing complete: %s succeeded, %s failed in %s", processed, failed, duration)
		}
		return message{
			title: title,
			body:  body,
			tags:  []string{"capstan", "queue", "completed"},
		}, true
	case EventEpisodeCompleted:
		label := orUnknown(get("episode"))
		body := fmt.Sprintf("✅ Transcript ready: %s", label)
		if title := get("title"); title != "" {
			body = fmt.Sprintf("✅ Transcript ready: %s - %s", label, title)
		}
		return message{
			title:    "Capstan - Episode Complete",
			body:     body,
			tags:     []string{"capstan", "episode", "completed"},
			priority: "high",
		}, true
	case EventError:
		var builder strings.Builder
		builder.WriteString("❌ Error")
		if contextLabel := get("context"); contextLabel != "" {
			builder.WriteString(" with ")
			builder.WriteString(contextLabel)
		}
		builder.WriteString(": ")
		if detail := get("error"); detail != "" {
			builder.WriteString(detail)
		} else {
			builder.WriteString("unknown")
		}
		return message{
			title:    "Capstan - Error",
			body:     builder.String(),
			tags:     []string{"capstan", "error", "alert"},
			priority: "high",
		}, true
	case EventTest:
		return message{
			title:    "Capstan - Test",
			body:     "🧪 Notification system test",
			tags:     []string{"capstan", "test"},
			priority: "low",
		}, true
	default:
		return message{}, false
	}
}

func orUnknown(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}

func (n *ntfyService) send(ctx context.Context, msg message) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(msg.body))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if msg.title != "" {
		req.Header.Set("Title", msg.title)
	}
	if len(msg.tags) > 0 {
		req.Header.Set("Tags", strings.Join(msg.tags, ","))
	}
	if msg.priority != "" && msg.priority != "default" {
		req.Header.Set("Priority", msg.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) Publish(context.Context, Event, Payload) error { return nil }
