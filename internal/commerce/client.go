package commerce

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/radiusart/mint-actions/internal/config"
	"github.com/radiusart/mint-actions/internal/mint"
	"go.uber.org/zap"
)

const maxResponseBytes = 1 << 20

// Recorder receives per-call outcomes for the commerce backend.
type Recorder interface {
	RecordUpstream(ctx context.Context, operation, outcome string, duration time.Duration)
}

// Client talks to the commerce backend that owns collection pricing,
// presentation content and mint bookkeeping. It holds no per-request state.
type Client struct {
	baseURL  string
	username string
	password string

	http    *http.Client
	logger  *zap.SugaredLogger
	metrics Recorder
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithRecorder reports every upstream call to r.
func WithRecorder(r Recorder) Option {
	return func(c *Client) {
		c.metrics = r
	}
}

func NewClient(cfg config.CommerceConfig, logger *zap.SugaredLogger, opts ...Option) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	c := &Client{
		baseURL:  cfg.BaseURL,
		username: cfg.Username,
		password: cfg.Password,
		http:     &http.Client{Timeout: timeout},
		logger:   logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether credentials are present.
func (c *Client) Configured() bool {
	return c.username != "" && c.password != ""
}

func (c *Client) endpoint(segment string, ref mint.CollectionRef) string {
	return c.baseURL + "/" + segment + "/" + url.PathEscape(ref.String())
}

// do performs one authenticated call. Transport failures and missing
// credentials are reported as ErrUpstreamUnavailable; the caller owns the
// response body on success.
func (c *Client) do(ctx context.Context, operation, method, target string, body []byte) (*http.Response, error) {
	if !c.Configured() {
		c.record(ctx, operation, "unconfigured", 0)
		return nil, fmt.Errorf("%w: commerce credentials are not configured", mint.ErrUpstreamUnavailable)
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("%w: build %s request: %w", mint.ErrUpstreamUnavailable, operation, err)
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.record(ctx, operation, "transport_error", time.Since(start))
		return nil, fmt.Errorf("%w: %s: %w", mint.ErrUpstreamUnavailable, operation, err)
	}
	c.record(ctx, operation, strconv.Itoa(resp.StatusCode), time.Since(start))
	return resp, nil
}

func (c *Client) record(ctx context.Context, operation, outcome string, d time.Duration) {
	if c.metrics != nil {
		c.metrics.RecordUpstream(ctx, operation, outcome, d)
	}
}
