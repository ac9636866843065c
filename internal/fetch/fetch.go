package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"capstan/internal/capture"
	"capstan/internal/config"
)

// Downloader retrieves playlists and caption segments over HTTP.
type Downloader struct {
	client     *http.Client
	userAgent  string
	maxWorkers int
	maxElapsed time.Duration
}

// NewDownloader builds a Downloader from the fetch configuration.
func NewDownloader(cfg *config.Config) *Downloader {
	timeout := time.Duration(cfg.Fetch.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	workers := cfg.Fetch.MaxWorkers
	if workers <= 0 {
		workers = 1
	}
	maxElapsed := time.Duration(cfg.Fetch.RetryMaxElapsed) * time.Second
	return &Downloader{
		client:     &http.Client{Timeout: timeout},
		userAgent:  cfg.Fetch.UserAgent,
		maxWorkers: workers,
		maxElapsed: maxElapsed,
	}
}

// Playlist fetches the m3u8 playlist body.
func (d *Downloader) Playlist(ctx context.Context, url string) (string, error) {
	body, err := d.get(ctx, url)
	if err != nil {
		return "", fmt.Errorf("fetch playlist: %w", err)
	}
	return string(body), nil
}

// Report summarizes one segment download run.
type Report struct {
	// Total is the number of segments the playlist references.
	Total int
	// Downloaded counts segments written to the staging directory.
	Downloaded int
	// Failed lists segment URLs that could not be fetched after retries.
	Failed []string
}

// Segments downloads every .vtt segment referenced by the playlist body into
// destDir. Files are named by playlist position so directory order matches
// playback order. Individual failures are reported, not returned as errors;
// the error return covers only setup problems.
func (d *Downloader) Segments(ctx context.Context, playlistURL, body, destDir string) (Report, error) {
	urls, err := capture.SegmentURLs(playlistURL, body)
	if err != nil {
		return Report{}, err
	}
	report := Report{Total: len(urls)}
	if len(urls) == 0 {
		return report, nil
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return report, fmt.Errorf("create staging directory: %w", err)
	}

	type job struct {
		index int
		url   string
	}
	jobs := make(chan job)
	var mu sync.Mutex
	var wg sync.WaitGroup

	workers := d.maxWorkers
	if workers > len(urls) {
		workers = len(urls)
	}
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for j := range jobs {
				dest := filepath.Join(destDir, fmt.Sprintf("seg_%04d.vtt", j.index))
				if err := d.downloadWithRetry(ctx, j.url, dest); err != nil {
					mu.Lock()
					report.Failed = append(report.Failed, j.url)
					mu.Unlock()
					continue
				}
				mu.Lock()
				report.Downloaded++
				mu.Unlock()
			}
		}()
	}

	for i, u := range urls {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return report, ctx.Err()
		case jobs <- job{index: i, url: u}:
		}
	}
	close(jobs)
	wg.Wait()

	sort.Strings(report.Failed)
	return report, nil
}

func (d *Downloader) downloadWithRetry(ctx context.Context, url, dest string) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = time.Second
	bo.MaxInterval = 10 * time.Second
	bo.MaxElapsedTime = d.maxElapsed

	return backoff.Retry(func() error {
		body, err := d.get(ctx, url)
		if err != nil {
			return err
		}
		if err := os.WriteFile(dest, body, 0o644); err != nil {
			return backoff.Permanent(err)
		}
		return nil
	}, backoff.WithContext(bo, ctx))
}

func (d *Downloader) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if d.userAgent != "" {
		req.Header.Set("User-Agent", d.userAgent)
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: status %d", url, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
