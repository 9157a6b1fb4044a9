// Package webhook posts analysis reports to HTTP endpoints.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ccollicutt/clsview/pkg/analyzer"
	"github.com/ccollicutt/clsview/pkg/output"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 10 * time.Second

	// DefaultMaxEntries caps the entries carried in one payload.
	DefaultMaxEntries = 100

	// EventAnalyzed is the event name of every payload.
	EventAnalyzed = "log_dump.analyzed"

	// ErrorsHeader is set to "true" when the dump has error entries, so
	// receivers can route without decoding the body.
	ErrorsHeader = "X-Clsview-Errors"

	userAgent        = "clsview-webhook"
	maxResponseBytes = 1 << 20
)

// Payload is the JSON document posted to a webhook.
type Payload struct {
	Event     string               `json:"event"`
	Source    string               `json:"source"`
	HasErrors bool                 `json:"has_errors"`
	Summary   analyzer.Stats       `json:"summary"`
	Project   analyzer.ProjectInfo `json:"project"`
	Entries   []analyzer.Entry     `json:"entries"`

	// Truncated is set when entries were dropped to respect the cap.
	Truncated bool      `json:"truncated,omitempty"`
	SentAt    time.Time `json:"sent_at"`
}

// NewPayload builds the webhook body for a report. When the report has more
// than maxEntries entries, error entries are kept first, then the rest in
// document order. maxEntries <= 0 means DefaultMaxEntries.
func NewPayload(report *output.Report, maxEntries int) *Payload {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}

	p := &Payload{
		Event:     EventAnalyzed,
		Source:    report.Metadata.Source,
		HasErrors: report.HasErrors(),
		Summary:   report.Summary,
		Project:   report.Project,
		Entries:   report.Entries,
		SentAt:    time.Now().UTC(),
	}
	if p.Entries == nil {
		p.Entries = []analyzer.Entry{}
	}

	if len(p.Entries) > maxEntries {
		p.Entries = capEntries(report.Entries, maxEntries)
		p.Truncated = true
	}

	return p
}

func capEntries(entries []analyzer.Entry, n int) []analyzer.Entry {
	kept := make([]analyzer.Entry, 0, n)
	for _, e := range entries {
		if len(kept) == n {
			break
		}
		if e.Severity == analyzer.SeverityError {
			kept = append(kept, e)
		}
	}
	for _, e := range entries {
		if len(kept) == n {
			break
		}
		if e.Severity != analyzer.SeverityError {
			kept = append(kept, e)
		}
	}
	return kept
}

// Client sends analysis reports to webhook endpoints.
type Client struct {
	httpClient *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates a new webhook client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{httpClient: &http.Client{}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SendOptions configures a webhook request.
type SendOptions struct {
	URL        string
	Token      string        // Bearer token (optional)
	Timeout    time.Duration // uses DefaultTimeout if zero
	MaxEntries int           // uses DefaultMaxEntries if zero
}

// Response contains the result of a webhook request.
type Response struct {
	StatusCode int
	Body       string
	Duration   time.Duration
	Error      error
}

// Success returns true if the webhook was sent successfully (2xx status).
func (r *Response) Success() bool {
	return r.Error == nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// Send posts an analysis report to a webhook endpoint. Failures are reported
// in the Response rather than returned.
func (c *Client) Send(ctx context.Context, report *output.Report, opts SendOptions) *Response {
	start := time.Now()
	resp := &Response{}
	fail := func(err error) *Response {
		resp.Error = err
		resp.Duration = time.Since(start)
		return resp
	}

	body, err := json.Marshal(NewPayload(report, opts.MaxEntries))
	if err != nil {
		return fail(fmt.Errorf("encoding payload: %w", err))
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := newRequest(ctx, opts, body, report.HasErrors())
	if err != nil {
		return fail(err)
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return fail(fmt.Errorf("posting to %s: %w", req.URL.Redacted(), err))
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	resp.StatusCode = httpResp.StatusCode
	if err != nil {
		return fail(fmt.Errorf("reading response: %w", err))
	}
	resp.Body = string(respBody)
	resp.Duration = time.Since(start)

	if resp.StatusCode >= 400 {
		resp.Error = fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return resp
}

func newRequest(ctx context.Context, opts SendOptions, body []byte, hasErrors bool) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, opts.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if hasErrors {
		req.Header.Set(ErrorsHeader, "true")
	}
	if opts.Token != "" {
		req.Header.Set("Authorization", "Bearer "+opts.Token)
	}

	return req, nil
}
