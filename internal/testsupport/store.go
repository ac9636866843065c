package testsupport

import (
	"context"
	"testing"
	"time"

	"capstan/internal/config"
	"capstan/internal/queue"
)

// MustOpenStore opens a queue.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *queue.Store {
	t.Helper()

	store, err := queue.Open(cfg)
	if err != nil {
		t.Fatalf("queue.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewEpisode enqueues a pending episode item for tests.
func NewEpisode(t testing.TB, store *queue.Store, season, episode int) *queue.Item {
	t.Helper()

	item, err := store.NewEpisode(context.Background(), queue.EpisodeIntake{
		Season:      season,
		Episode:     episode,
		PlaylistURL: "https://cdn.example/ps01/captions.m3u8",
		RequestedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("store.NewEpisode: %v", err)
	}
	return item
}
