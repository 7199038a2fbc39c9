// Package holidays fetches public-holiday calendars over HTTP and normalizes
// them into the public_holidays table joined by the per-day order report.
//
// The fetch is best-effort by contract: a missing URL, a failed request, or a
// malformed body yields a schema-correct empty table rather than a pipeline
// failure, because the holiday column is an enrichment, not a source of
// record. Transient failures are retried with exponential backoff.
package holidays

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"olistetl/internal/dataset"
)

// Config configures the holidays client. Zero values get defaults:
// Timeout 30s, MaxRetries 3, InitialBackoff 200ms, MaxBackoff 5s.
type Config struct {
	Timeout        time.Duration
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration

	// Transport is an optional custom RoundTripper, used by tests.
	Transport http.RoundTripper
}

// Client fetches holiday calendars with retry and backoff.
type Client struct {
	http  *http.Client
	cfg   Config
	sleep func(context.Context, time.Duration) error
}

// NewClient constructs a Client from cfg, applying defaults.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	} else if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = 200 * time.Millisecond
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 5 * time.Second
	}
	return &Client{
		http:  &http.Client{Timeout: cfg.Timeout, Transport: cfg.Transport},
		cfg:   cfg,
		sleep: sleepCtx,
	}
}

// holiday mirrors the JSON shape of the public holidays API.
type holiday struct {
	Date        string `json:"date"`
	LocalName   string `json:"localName"`
	Name        string `json:"name"`
	CountryCode string `json:"countryCode"`
	Fixed       bool   `json:"fixed"`
	Global      bool   `json:"global"`
	LaunchYear  *int64 `json:"launchYear"`
}

// FetchTable GETs {base}/{year}/{country} and returns the normalized
// public_holidays table. Dates are parsed as calendar days at UTC midnight.
// Any failure is logged and an empty, schema-correct table is returned.
func (c *Client) FetchTable(ctx context.Context, base, year, country string) *dataset.Table {
	sch := dataset.HolidaysSchema()
	t := &dataset.Table{Name: sch.Table, Columns: sch.Columns}

	if strings.TrimSpace(base) == "" {
		return t
	}
	url := fmt.Sprintf("%s/%s/%s", strings.TrimRight(base, "/"), year, country)
	log.Printf("extract: fetching public holidays: %s", url)

	body, err := c.get(ctx, url)
	if err != nil {
		log.Printf("extract: public holidays unavailable: %v", err)
		return t
	}

	var hs []holiday
	if err := json.Unmarshal(body, &hs); err != nil {
		log.Printf("extract: public holidays: bad payload: %v", err)
		return t
	}

	for _, h := range hs {
		day, err := time.Parse("2006-01-02", h.Date)
		if err != nil {
			continue
		}
		var launch any
		if h.LaunchYear != nil {
			launch = *h.LaunchYear
		}
		t.Rows = append(t.Rows, []any{
			day.UTC(), h.LocalName, h.Name, h.CountryCode, h.Fixed, h.Global, launch,
		})
	}
	log.Printf("extract: public_holidays: rows=%d", len(t.Rows))
	return t
}

// get performs the request with exponential backoff across attempts.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	backoff := c.cfg.InitialBackoff
	var lastErr error

	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := c.sleep(ctx, backoff); err != nil {
				return nil, err
			}
			backoff *= 2
			if backoff > c.cfg.MaxBackoff {
				backoff = c.cfg.MaxBackoff
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("holidays: build request: %w", err)
		}
		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("holidays: %s returned %d", url, resp.StatusCode)
			// Client errors are not retryable.
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				return nil, lastErr
			}
			continue
		}
		return body, nil
	}
	return nil, fmt.Errorf("holidays: giving up after %d attempt(s): %w", c.cfg.MaxRetries+1, lastErr)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
