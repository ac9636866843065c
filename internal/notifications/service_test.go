package notifications_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"capstan/internal/config"
	"capstan/internal/notifications"
)

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(&cfg)
	if err := svc.Publish(context.Background(), notifications.EventEpisodeCompleted, notifications.Payload{"episode": "S01E03"}); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

func TestNtfyServiceFormatsPayloads(t *testing.T) {
	tests := []struct {
		name           string
		event          notifications.Event
		payload        notifications.Payload
		expectTitle    string
		expectMessage  string
		expectTags     string
		expectPriority string
	}{
		{
			name:  "capture detected",
			event: notifications.EventCaptureDetected,
			payload: notifications.Payload{
				"file":    "recital.har",
				"episode": "S01E03",
			},
			expectTitle:   "Capstan - Capture Detected",
			expectMessage: "📥 Capture detected: recital.har (S01E03)",
			expectTags:    "capstan,capture,detected",
		},
		{
			name:  "queue started",
			event: notifications.EventQueueStarted,
			payload: notifications.Payload{
				"count": "4",
			},
			expectTitle:   "Capstan - Queue Started",
			expectMessage: "Started processing queue with 4 items",
			expectTags:    "capstan,queue,started",
		},
		{
			name:  "queue completed clean",
			event: notifications.EventQueueCompleted,
			payload: notifications.Payload{
				"processed": "4",
				"failed":    "0",
				"duration":  "1m30s",
			},
			expectTitle:   "Capstan - Queue Complete",
			expectMessage: "Queue processing complete: 4 items processed in 1m30s",
			expectTags:    "capstan,queue,completed",
		},
		{
			name:  "queue completed with failures",
			event: notifications.EventQueueCompleted,
			payload: notifications.Payload{
				"processed": "3",
				"failed":    "1",
				"duration":  "2m",
			},
			expectTitle:   "Capstan - Queue Complete (with errors)",
			expectMessage: "Queue processing complete: 3 succeeded, 1 failed in 2m",
			expectTags:    "capstan,queue,completed",
		},
		{
			name:  "episode completed",
			event: notifications.EventEpisodeCompleted,
			payload: notifications.Payload{
				"episode": "S02E05",
				"title":   "The Recital",
			},
			expectTitle:    "Capstan - Episode Complete",
			expectMessage:  "✅ Transcript ready: S02E05 - The Recital",
			expectTags:     "capstan,episode,completed",
			expectPriority: "high",
		},
		{
			name:  "error",
			event: notifications.EventError,
			payload: notifications.Payload{
				"context": "merging",
				"error":   "no segments found",
			},
			expectTitle:    "Capstan - Error",
			expectMessage:  "❌ Error with merging: no segments found",
			expectTags:     "capstan,error,alert",
			expectPriority: "high",
		},
		{
			name:           "test",
			event:          notifications.EventTest,
			payload:        nil,
			expectTitle:    "Capstan - Test",
			expectMessage:  "🧪 Notification system test",
			expectTags:     "capstan,test",
			expectPriority: "low",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var captured struct {
				title    string
				tags     string
				priority string
				body     string
			}

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Fatalf("unexpected method: %s", r.Method)
				}
				captured.title = r.Header.Get("Title")
				captured.tags = r.Header.Get("Tags")
				captured.priority = r.Header.Get("Priority")
				body, err := io.ReadAll(r.Body)
				if err != nil {
					t.Fatalf("read body: %v", err)
				}
				captured.body = string(body)
				_ = r.Body.Close()
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			cfg := config.Default()
			cfg.Notifications.NtfyTopic = server.URL
			cfg.Notifications.RequestTimeout = 5

			svc := notifications.NewService(&cfg)
			if err := svc.Publish(context.Background(), tc.event, tc.payload); err != nil {
				t.Fatalf("notification returned error: %v", err)
			}

			if captured.title != tc.expectTitle {
				t.Fatalf("expected title %q, got %q", tc.expectTitle, captured.title)
			}
			if captured.body != tc.expectMessage {
				t.Fatalf("expected message %q, got %q", tc.expectMessage, captured.body)
			}
			if captured.tags != tc.expectTags {
				t.Fatalf("expected tags %q, got %q", tc.expectTags, captured.tags)
			}
			if captured.priority != tc.expectPriority {
				t.Fatalf("expected priority %q, got %q", tc.expectPriority, captured.priority)
			}
		})
	}
}

func TestNtfyServiceHonorsToggles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("unexpected call for disabled event: %s", r.URL.String())
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	cfg.Notifications.Queue = false
	cfg.Notifications.Episodes = false
	cfg.Notifications.Captures = false
	cfg.Notifications.Errors = false

	svc := notifications.NewService(&cfg)
	disabled := []notifications.Event{
		notifications.EventCaptureDetected,
		notifications.EventQueueStarted,
		notifications.EventQueueCompleted,
		notifications.EventEpisodeCompleted,
		notifications.EventError,
	}

	for _, event := range disabled {
		if err := svc.Publish(context.Background(), event, notifications.Payload{"value": "ignored"}); err != nil {
			t.Fatalf("expected no error for disabled event %s, got %v", event, err)
		}
	}
}

func TestNtfyServiceReportsHTTPFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "topic quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL

	svc := notifications.NewService(&cfg)
	err := svc.Publish(context.Background(), notifications.EventTest, nil)
	if err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}

func TestNtfyServiceUsesShowNameInTitle(t *testing.T) {
	var title string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		title = r.Header.Get("Title")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	cfg.Show.Name = "Dance Moms"

	svc := notifications.NewService(&cfg)
	if err := svc.Publish(context.Background(), notifications.EventTest, nil); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if title != "Dance Moms - Test" {
		t.Fatalf("expected show name in title, got %q", title)
	}
}
