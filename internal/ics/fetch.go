package ics

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	appLog "planner/internal/log"
)

// maxSeedBytes bounds a seed payload; a planner seed is a handful of events.
const maxSeedBytes = 4 << 20

// Fetcher loads a seed ICS payload from a local path or an http(s) URL.
type Fetcher struct {
	client *http.Client
}

// NewFetcher returns a Fetcher with a bounded HTTP timeout.
func NewFetcher() *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// IsURL reports whether src should be fetched over HTTP.
func IsURL(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// Load returns the raw payload at src.
func (f *Fetcher) Load(ctx context.Context, src string) ([]byte, error) {
	if src == "" {
		return nil, errors.New("seed source is empty")
	}
	if !IsURL(src) {
		return os.ReadFile(src)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/calendar")

	appLog.Info("ics fetch start", "url", redactURL(src))

	resp, err := f.client.Do(req)
	if err != nil {
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return nil, fmt.Errorf("ics fetch %s: %w", redactURL(src), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ics fetch %s: %s", redactURL(src), resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSeedBytes+1))
	if err != nil {
		return nil, err
	}
	if len(body) > maxSeedBytes {
		return nil, fmt.Errorf("ics fetch %s: payload exceeds %d bytes", redactURL(src), maxSeedBytes)
	}

	appLog.Info("ics fetch success", "url", redactURL(src), "bytes", len(body))
	return body, nil
}

// redactURL hides everything after the host, where private feed tokens
// usually live.
func redactURL(u string) string {
	const redactedSuffix = "/...(redacted)"

	i := strings.Index(u, "://")
	if i == -1 {
		return "ics://...(redacted)"
	}
	rest := u[i+3:]
	if j := strings.IndexByte(rest, '/'); j >= 0 {
		rest = rest[:j]
	}
	return u[:i+3] + rest + redactedSuffix
}
