// Package fetch holds the HTTP clients for the three upstream record
// sources: public-sector job postings, youth policies, and apartment rental
// listings. Each source gets a bounded timeout and maps every failure to one
// of a closed set of error kinds so callers can degrade uniformly.
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ieum-project/ieum/pkg/logger"
	"github.com/ieum-project/ieum/pkg/metrics"
)

// defaultTimeout bounds a single source call when no override is given.
const defaultTimeout = 10 * time.Second

// Client fetches records from the upstream sources.
type Client struct {
	http    *http.Client
	log     logger.Logger
	timeout time.Duration

	jobURL        string
	jobKey        string
	policyURL     string
	policyKey     string
	realEstateURL string
	realEstateKey string

	// dealYmd overrides the rental contract month (yyyymm). Empty means the
	// previous calendar month, computed per call.
	dealYmd string
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithTimeout bounds each source call.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithJobSource sets the job posting endpoint and key.
func WithJobSource(rawURL, key string) Option {
	return func(c *Client) {
		c.jobURL = rawURL
		c.jobKey = key
	}
}

// WithPolicySource sets the youth policy endpoint and key.
func WithPolicySource(rawURL, key string) Option {
	return func(c *Client) {
		c.policyURL = rawURL
		c.policyKey = key
	}
}

// WithRealEstateSource sets the rental listing endpoint and key.
func WithRealEstateSource(rawURL, key string) Option {
	return func(c *Client) {
		c.realEstateURL = rawURL
		c.realEstateKey = key
	}
}

// WithDealMonth fixes the rental contract month (yyyymm).
func WithDealMonth(ymd string) Option {
	return func(c *Client) {
		c.dealYmd = ymd
	}
}

// WithHTTPClient replaces the underlying HTTP client. Intended for tests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// NewClient creates a source client.
func NewClient(log logger.Logger, opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{},
		log:     log,
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// get performs one bounded GET and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, source, rawURL string, params url.Values, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	err := c.getJSON(ctx, rawURL, params, out)
	metrics.RecordFetchLatency(source, float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordFetchFailure(source, KindLabel(err))
		c.log.Warn(ctx, "source fetch failed",
			logger.String("source", source),
			logger.String("kind", KindLabel(err)),
			logger.Error(err))
		return err
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, params url.Values, out any) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", ErrUnreachable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}

// previousMonth formats the month before t as yyyymm. Rental contract data
// for the current month is incomplete, so the previous month is the default.
func previousMonth(t time.Time) string {
	firstOfMonth := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return firstOfMonth.AddDate(0, 0, -1).Format("200601")
}
