// Package tcgcsv fetches market prices from the daily TCGplayer price archives
// published by tcgcsv.com.
//
// Each archive holds, for every category and group, a "prices" JSON document
// listing the market price of the group's products on that day.
package tcgcsv

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	tracker "github.com/etnz/tcgtracker"
	"github.com/etnz/tcgtracker/date"
	"github.com/etnz/tcgtracker/logger"
)

// DefaultBaseURL is where the daily archives are published.
const DefaultBaseURL = "https://tcgcsv.com/archive/tcgplayer"

// ErrNoData is returned when no archive exists for a day.
var ErrNoData = errors.New("no price archive")

// Client downloads price archives.
//
// Archives of past days never change and are kept in the cache directory.
// Today's archive goes through an HTTP cache that expires every day.
type Client struct {
	baseURL  string
	cacheDir string
	http     *http.Client // past days
	daily    *http.Client // today
	today    func() date.Date
}

// NewClient returns a client for the archives under baseURL, caching into
// cacheDir. loc defines which day is today.
func NewClient(baseURL, cacheDir string, loc *time.Location) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	today := func() date.Date { return date.TodayIn(loc) }
	return &Client{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		cacheDir: cacheDir,
		today:    today,
		http:     &http.Client{Timeout: 5 * time.Minute},
		daily: &http.Client{
			Timeout:   5 * time.Minute,
			Transport: &diskCache{base: http.DefaultTransport, dir: filepath.Join(cacheDir, "http"), today: today},
		},
	}
}

// ArchiveURL returns the address of the archive of day.
func (c *Client) ArchiveURL(day tracker.Date) string {
	return fmt.Sprintf("%s/prices-%s.ppmd.7z", c.baseURL, day)
}

func (c *Client) archivePath(day tracker.Date) string {
	return filepath.Join(c.cacheDir, "archives", fmt.Sprintf("prices-%s.ppmd.7z", day))
}

// Download returns the local path of the archive of day, downloading it when
// needed. A missing archive is ErrNoData.
func (c *Client) Download(ctx context.Context, day tracker.Date) (string, error) {
	path := c.archivePath(day)
	past := day.Before(c.today())
	if past {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.ArchiveURL(day), nil)
	if err != nil {
		return "", err
	}
	client := c.http
	if !past {
		client = c.daily
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("cannot download archive of %s: %w", day, err)
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", fmt.Errorf("%w for %s", ErrNoData, day)
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("cannot http GET %v: %v", req.URL, resp.Status)
	}

	if !past {
		// today's archive may still change, keep it out of the permanent cache.
		path = filepath.Join(c.cacheDir, "today", filepath.Base(path))
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	f, err := os.CreateTemp(filepath.Dir(path), ".download-*")
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("cannot download archive of %s: %w", day, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	if err := os.Rename(f.Name(), path); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	log := logger.FromContext(ctx)
	log.Debug().Stringer("day", day).Str("path", path).Msg("archive downloaded")
	return path, nil
}

// Open downloads and opens the archive of day.
func (c *Client) Open(ctx context.Context, day tracker.Date) (*Archive, error) {
	path, err := c.Download(ctx, day)
	if err != nil {
		return nil, err
	}
	return OpenArchive(ctx, path, day)
}
