package queue_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"capstan/internal/queue"
	"capstan/internal/testsupport"
)

func intake(season, episode int, uuid string) queue.EpisodeIntake {
	return queue.EpisodeIntake{
		Season:       season,
		Episode:      episode,
		PlaylistURL:  fmt.Sprintf("https://cdn.example.com/ps01/x/%s/r/playlist.m3u8", uuid),
		PlaylistUUID: uuid,
		PSID:         "11111111-2222-3333-4444-555555555555",
		IsSDH:        true,
		RequestedAt:  time.Now().UTC(),
	}
}

func TestOpenInitializesSchema(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	item, err := store.NewEpisode(ctx, intake(1, 1, "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee"))
	if err != nil {
		t.Fatalf("NewEpisode failed: %v", err)
	}
	if item.ID == 0 {
		t.Fatal("expected item ID to be assigned")
	}
	if item.Status != queue.StatusPending {
		t.Fatalf("expected pending status, got %s", item.Status)
	}
	if !item.IsSDH {
		t.Fatal("expected SDH flag persisted")
	}
	if item.RequestedAt == nil {
		t.Fatal("expected requested_at persisted")
	}

	fetched, err := store.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if fetched == nil || fetched.Season != 1 || fetched.Episode != 1 {
		t.Fatalf("unexpected fetched item: %#v", fetched)
	}

	found, err := store.FindByPlaylistUUID(ctx, "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee")
	if err != nil {
		t.Fatalf("FindByPlaylistUUID failed: %v", err)
	}
	if found == nil || found.ID != item.ID {
		t.Fatalf("expected to find inserted item, got %#v", found)
	}
}

func TestNewEpisodeValidation(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	if _, err := store.NewEpisode(ctx, queue.EpisodeIntake{Season: 1, Episode: 1}); err == nil {
		t.Fatal("expected error when playlist URL missing")
	}
	bad := intake(0, 1, "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee")
	if _, err := store.NewEpisode(ctx, bad); err == nil {
		t.Fatal("expected error for season zero")
	}
}

func TestNewMergedFileStartsAtCleaning(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	item, err := store.NewMergedFile(ctx, 2, 4, "/data/s02/vtt/S02E04.vtt")
	if err != nil {
		t.Fatalf("NewMergedFile failed: %v", err)
	}
	if item.Status != queue.StatusMerged {
		t.Fatalf("expected merged status, got %s", item.Status)
	}
	if item.MergedFile != "/data/s02/vtt/S02E04.vtt" {
		t.Fatalf("unexpected merged file: %s", item.MergedFile)
	}
	if item.Title != "S02E04" {
		t.Fatalf("expected title from filename, got %q", item.Title)
	}
}

func TestMaxEpisodeForSeason(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	max, err := store.MaxEpisodeForSeason(ctx, 1)
	if err != nil {
		t.Fatalf("MaxEpisodeForSeason empty: %v", err)
	}
	if max != 0 {
		t.Fatalf("expected 0 for empty season, got %d", max)
	}

	for i := 1; i <= 3; i++ {
		if _, err := store.NewEpisode(ctx, intake(1, i, fmt.Sprintf("aaaaaaaa-bbbb-cccc-dddd-%012d", i))); err != nil {
			t.Fatalf("NewEpisode %d: %v", i, err)
		}
	}
	if _, err := store.NewEpisode(ctx, intake(2, 9, "aaaaaaaa-bbbb-cccc-dddd-999999999999")); err != nil {
		t.Fatalf("NewEpisode other season: %v", err)
	}

	max, err = store.MaxEpisodeForSeason(ctx, 1)
	if err != nil {
		t.Fatalf("MaxEpisodeForSeason: %v", err)
	}
	if max != 3 {
		t.Fatalf("expected max episode 3, got %d", max)
	}
}

func TestResetStuckProcessing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	cases := []struct {
		name          string
		initialStatus queue.Status
		expected      queue.Status
	}{
		{"fetching", queue.StatusFetching, queue.StatusPending},
		{"merging", queue.StatusMerging, queue.StatusFetched},
		{"cleaning", queue.StatusCleaning, queue.StatusMerged},
		{"structuring", queue.StatusStructuring, queue.StatusCleaned},
		{"enriching", queue.StatusEnriching, queue.StatusStructured},
	}
	var ids []int64
	for i, tc := range cases {
		item, err := store.NewEpisode(ctx, intake(1, i+1, fmt.Sprintf("aaaaaaaa-bbbb-cccc-dddd-%012d", i)))
		if err != nil {
			t.Fatalf("NewEpisode failed: %v", err)
		}
		item.Status = tc.initialStatus
		item.ProgressStage = tc.name
		if err := store.Update(ctx, item); err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		ids = append(ids, item.ID)
	}

	count, err := store.ResetStuckProcessing(ctx)
	if err != nil {
		t.Fatalf("ResetStuckProcessing failed: %v", err)
	}
	if int(count) != len(cases) {
		t.Fatalf("expected %d items reset, got %d", len(cases), count)
	}

	for idx, tc := range cases {
		updated, err := store.GetByID(ctx, ids[idx])
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
		if updated.Status != tc.expected {
			t.Fatalf("%s: expected status %s, got %s", tc.name, tc.expected, updated.Status)
		}
		if updated.LastHeartbeat != nil {
			t.Fatalf("%s: expected heartbeat cleared", tc.name)
		}
	}
}

func TestItemsByStatusOrdering(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	if _, err := store.NewEpisode(ctx, intake(1, 1, "aaaaaaaa-bbbb-cccc-dddd-000000000001")); err != nil {
		t.Fatalf("NewEpisode failed: %v", err)
	}
	b, err := store.NewEpisode(ctx, intake(1, 2, "aaaaaaaa-bbbb-cccc-dddd-000000000002"))
	if err != nil {
		t.Fatalf("NewEpisode failed: %v", err)
	}
	b.Status = queue.StatusFetched
	if err := store.Update(ctx, b); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	items, err := store.ItemsByStatus(ctx, queue.StatusFetched)
	if err != nil {
		t.Fatalf("ItemsByStatus failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected one fetched item, got %d", len(items))
	}
	if items[0].Episode != 2 {
		t.Fatalf("expected episode 2, got %d", items[0].Episode)
	}
}

func TestListSupportsStatusFilter(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	a, err := store.NewEpisode(ctx, intake(1, 1, "aaaaaaaa-bbbb-cccc-dddd-000000000001"))
	if err != nil {
		t.Fatalf("NewEpisode failed: %v", err)
	}
	b, err := store.NewEpisode(ctx, intake(1, 2, "aaaaaaaa-bbbb-cccc-dddd-000000000002"))
	if err != nil {
		t.Fatalf("NewEpisode failed: %v", err)
	}
	b.Status = queue.StatusFetched
	if err := store.Update(ctx, b); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	c, err := store.NewEpisode(ctx, intake(1, 3, "aaaaaaaa-bbbb-cccc-dddd-000000000003"))
	if err != nil {
		t.Fatalf("NewEpisode failed: %v", err)
	}
	c.Status = queue.StatusFailed
	c.ErrorMessage = "boom"
	if err := store.Update(ctx, c); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	items, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if items[0].ID != a.ID || items[1].ID != b.ID || items[2].ID != c.ID {
		t.Fatalf("expected insertion order, got IDs %d,%d,%d", items[0].ID, items[1].ID, items[2].ID)
	}

	filtered, err := store.List(ctx, queue.StatusFetched, queue.StatusFailed)
	if err != nil {
		t.Fatalf("Filtered list failed: %v", err)
	}
	if len(filtered) != 2 {
		t.Fatalf("expected 2 items, got %d", len(filtered))
	}
	if filtered[0].ID != b.ID || filtered[1].ID != c.ID {
		t.Fatalf("unexpected filtered order: got %d,%d", filtered[0].ID, filtered[1].ID)
	}
}

func TestBySeasonOrdersByEpisode(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	for _, ep := range []int{3, 1, 2} {
		if _, err := store.NewEpisode(ctx, intake(1, ep, fmt.Sprintf("aaaaaaaa-bbbb-cccc-dddd-%012d", ep))); err != nil {
			t.Fatalf("NewEpisode %d: %v", ep, err)
		}
	}
	if _, err := store.NewEpisode(ctx, intake(2, 1, "aaaaaaaa-bbbb-cccc-dddd-000000000099")); err != nil {
		t.Fatalf("NewEpisode other season: %v", err)
	}

	items, err := store.BySeason(ctx, 1)
	if err != nil {
		t.Fatalf("BySeason failed: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	for i, item := range items {
		if item.Episode != i+1 {
			t.Fatalf("expected episode order 1,2,3; position %d has %d", i, item.Episode)
		}
	}
}

func TestRetryFailed(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	a, err := store.NewEpisode(ctx, intake(1, 1, "aaaaaaaa-bbbb-cccc-dddd-000000000001"))
	if err != nil {
		t.Fatalf("NewEpisode: %v", err)
	}
	b, err := store.NewEpisode(ctx, intake(1, 2, "aaaaaaaa-bbbb-cccc-dddd-000000000002"))
	if err != nil {
		t.Fatalf("NewEpisode: %v", err)
	}
	for _, item := range []*queue.Item{a, b} {
		item.Status = queue.StatusFailed
		item.ErrorMessage = "boom"
		if err := store.Update(ctx, item); err != nil {
			t.Fatalf("Update: %v", err)
		}
	}

	updated, err := store.RetryFailed(ctx)
	if err != nil {
		t.Fatalf("RetryFailed all: %v", err)
	}
	if updated != 2 {
		t.Fatalf("expected 2 items retried, got %d", updated)
	}

	item, err := store.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if item.Status != queue.StatusPending {
		t.Fatalf("expected item A pending, got %s", item.Status)
	}

	// Mark B failed again and retry targeted selection.
	b.Status = queue.StatusFailed
	if err := store.Update(ctx, b); err != nil {
		t.Fatalf("Update: %v", err)
	}
	updated, err = store.RetryFailed(ctx, b.ID)
	if err != nil {
		t.Fatalf("RetryFailed targeted: %v", err)
	}
	if updated != 1 {
		t.Fatalf("expected 1 item retried, got %d", updated)
	}
}

func TestUpdateHeartbeat(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	item, err := store.NewEpisode(ctx, intake(1, 1, "aaaaaaaa-bbbb-cccc-dddd-000000000001"))
	if err != nil {
		t.Fatalf("NewEpisode: %v", err)
	}
	item.Status = queue.StatusFetching
	if err := store.Update(ctx, item); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if err := store.UpdateHeartbeat(ctx, item.ID); err != nil {
		t.Fatalf("UpdateHeartbeat: %v", err)
	}

	updated, err := store.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if updated.LastHeartbeat == nil {
		t.Fatal("expected last heartbeat to be set")
	}
}

func TestReclaimStaleProcessing(t *testing.T) {
	t.Run("all statuses", func(t *testing.T) {
		cfg := testsupport.NewConfig(t)
		store := testsupport.MustOpenStore(t, cfg)

		ctx := context.Background()
		past := time.Now().Add(-2 * time.Hour).UTC()
		cases := []struct {
			name       string
			processing queue.Status
			expected   queue.Status
		}{
			{"fetching", queue.StatusFetching, queue.StatusPending},
			{"merging", queue.StatusMerging, queue.StatusFetched},
			{"cleaning", queue.StatusCleaning, queue.StatusMerged},
			{"structuring", queue.StatusStructuring, queue.StatusCleaned},
			{"enriching", queue.StatusEnriching, queue.StatusStructured},
		}
		var ids []int64
		for i, tc := range cases {
			item, err := store.NewEpisode(ctx, intake(1, i+1, fmt.Sprintf("aaaaaaaa-bbbb-cccc-dddd-%012d", i)))
			if err != nil {
				t.Fatalf("NewEpisode: %v", err)
			}
			item.Status = tc.processing
			item.LastHeartbeat = &past
			if err := store.Update(ctx, item); err != nil {
				t.Fatalf("Update: %v", err)
			}
			ids = append(ids, item.ID)
		}

		count, err := store.ReclaimStaleProcessing(ctx, time.Now().Add(-1*time.Hour))
		if err != nil {
			t.Fatalf("ReclaimStaleProcessing: %v", err)
		}
		if int(count) != len(cases) {
			t.Fatalf("expected %d items reclaimed, got %d", len(cases), count)
		}

		for idx, tc := range cases {
			updated, err := store.GetByID(ctx, ids[idx])
			if err != nil {
				t.Fatalf("GetByID: %v", err)
			}
			if updated.Status != tc.expected {
				t.Fatalf("%s: expected status %s after reclaim, got %s", tc.name, tc.expected, updated.Status)
			}
			if updated.LastHeartbeat != nil {
				t.Fatalf("%s: expected heartbeat cleared, got %v", tc.name, updated.LastHeartbeat)
			}
		}
	})

	t.Run("filtered statuses", func(t *testing.T) {
		cfg := testsupport.NewConfig(t)
		store := testsupport.MustOpenStore(t, cfg)

		ctx := context.Background()
		past := time.Now().Add(-2 * time.Hour).UTC()

		fetching, err := store.NewEpisode(ctx, intake(1, 1, "aaaaaaaa-bbbb-cccc-dddd-000000000001"))
		if err != nil {
			t.Fatalf("NewEpisode fetching: %v", err)
		}
		fetching.Status = queue.StatusFetching
		fetching.LastHeartbeat = &past
		if err := store.Update(ctx, fetching); err != nil {
			t.Fatalf("Update fetching: %v", err)
		}

		cleaning, err := store.NewEpisode(ctx, intake(1, 2, "aaaaaaaa-bbbb-cccc-dddd-000000000002"))
		if err != nil {
			t.Fatalf("NewEpisode cleaning: %v", err)
		}
		cleaning.Status = queue.StatusCleaning
		cleaning.LastHeartbeat = &past
		if err := store.Update(ctx, cleaning); err != nil {
			t.Fatalf("Update cleaning: %v", err)
		}

		count, err := store.ReclaimStaleProcessing(ctx, time.Now().Add(-1*time.Hour), queue.StatusCleaning)
		if err != nil {
			t.Fatalf("ReclaimStaleProcessing filtered: %v", err)
		}
		if count != 1 {
			t.Fatalf("expected 1 item reclaimed, got %d", count)
		}

		reclaimed, err := store.GetByID(ctx, cleaning.ID)
		if err != nil {
			t.Fatalf("GetByID cleaning: %v", err)
		}
		if reclaimed.Status != queue.StatusMerged {
			t.Fatalf("expected cleaning item rolled back to merged, got %s", reclaimed.Status)
		}
		if reclaimed.LastHeartbeat != nil {
			t.Fatalf("expected cleaning heartbeat cleared, got %v", reclaimed.LastHeartbeat)
		}

		unchanged, err := store.GetByID(ctx, fetching.ID)
		if err != nil {
			t.Fatalf("GetByID fetching: %v", err)
		}
		if unchanged.Status != queue.StatusFetching {
			t.Fatalf("expected fetching item untouched, got %s", unchanged.Status)
		}
		if unchanged.LastHeartbeat == nil || !unchanged.LastHeartbeat.Equal(past) {
			t.Fatalf("expected fetching heartbeat unchanged, got %v", unchanged.LastHeartbeat)
		}
	})
}

func TestUpdateProgressPreservesHeartbeat(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	item, err := store.NewEpisode(ctx, intake(1, 1, "aaaaaaaa-bbbb-cccc-dddd-000000000001"))
	if err != nil {
		t.Fatalf("NewEpisode: %v", err)
	}
	item.Status = queue.StatusFetching
	past := time.Now().Add(-5 * time.Minute).UTC()
	item.LastHeartbeat = &past
	if err := store.Update(ctx, item); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if err := store.UpdateHeartbeat(ctx, item.ID); err != nil {
		t.Fatalf("UpdateHeartbeat: %v", err)
	}

	before, err := store.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID before progress: %v", err)
	}
	if before.LastHeartbeat == nil {
		t.Fatal("expected heartbeat set before progress update")
	}
	origHeartbeat := *before.LastHeartbeat

	before.ProgressStage = "Fetch"
	before.ProgressPercent = 42.5
	before.ProgressMessage = "Downloading segments"
	if err := store.UpdateProgress(ctx, before); err != nil {
		t.Fatalf("UpdateProgress: %v", err)
	}

	after, err := store.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID after progress: %v", err)
	}
	if after.LastHeartbeat == nil {
		t.Fatal("expected heartbeat preserved after progress update")
	}
	if !after.LastHeartbeat.Equal(origHeartbeat) {
		t.Fatalf("expected heartbeat unchanged, before %v after %v", origHeartbeat, after.LastHeartbeat)
	}
	if after.ProgressStage != "Fetch" || after.ProgressMessage != "Downloading segments" {
		t.Fatalf("expected progress fields persisted, got stage=%q message=%q", after.ProgressStage, after.ProgressMessage)
	}
	if after.ProgressPercent != 42.5 {
		t.Fatalf("expected progress percent 42.5, got %f", after.ProgressPercent)
	}
}

func TestHealthCountsReviewSeparately(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	statuses := []queue.Status{
		queue.StatusPending,
		queue.StatusCleaning,
		queue.StatusFailed,
		queue.StatusReview,
		queue.StatusCompleted,
	}
	for i, status := range statuses {
		item, err := store.NewEpisode(ctx, intake(1, i+1, fmt.Sprintf("aaaaaaaa-bbbb-cccc-dddd-%012d", i)))
		if err != nil {
			t.Fatalf("NewEpisode: %v", err)
		}
		item.Status = status
		if err := store.Update(ctx, item); err != nil {
			t.Fatalf("Update: %v", err)
		}
	}

	health, err := store.Health(ctx)
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if health.Total != 5 || health.Pending != 1 || health.Processing != 1 ||
		health.Failed != 1 || health.Review != 1 || health.Completed != 1 {
		t.Fatalf("unexpected health summary: %+v", health)
	}
}

func TestCheckHealthReportsColumns(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	health, err := store.CheckHealth(context.Background())
	if err != nil {
		t.Fatalf("CheckHealth: %v", err)
	}
	if !health.DatabaseExists || !health.DatabaseReadable || !health.TableExists {
		t.Fatalf("expected healthy database, got %+v", health)
	}
	if len(health.MissingColumns) != 0 {
		t.Fatalf("expected no missing columns, got %v", health.MissingColumns)
	}
	if !health.IntegrityCheck {
		t.Fatal("expected integrity check to pass")
	}
}
