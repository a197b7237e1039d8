package webfetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/leofalp/toolloop/providers/observability"
	"github.com/leofalp/toolloop/providers/tool"
)

const (
	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 30 * time.Second
	// DefaultUserAgent is the default User-Agent header value
	DefaultUserAgent = "toolloop-webfetch/1.0"
	// MaxBodySize is the maximum response body size (10MB)
	MaxBodySize = 10 * 1024 * 1024
	// MaxRedirects is the number of redirects followed before giving up
	MaxRedirects = 10
)

// ErrEmptyURL is returned when the requested URL is blank.
var ErrEmptyURL = errors.New("URL cannot be empty")

// Fetcher downloads web pages and converts them to Markdown.
type Fetcher struct {
	client      *http.Client
	userAgent   string
	timeout     time.Duration
	maxBodySize int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient replaces the HTTP client. Its redirect policy is kept as is.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		f.client = client
	}
}

// WithUserAgent sets the default User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(f *Fetcher) {
		f.userAgent = userAgent
	}
}

// WithTimeout sets the default request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = timeout
	}
}

// WithMaxBodySize caps the number of bytes read from a response.
func WithMaxBodySize(n int64) Option {
	return func(f *Fetcher) {
		f.maxBodySize = n
	}
}

// NewFetcher creates a Fetcher with a client tuned for slow or unresponsive
// servers.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		userAgent:   DefaultUserAgent,
		timeout:     DefaultTimeout,
		maxBodySize: MaxBodySize,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.client == nil {
		f.client = &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout:   10 * time.Second,
				ResponseHeaderTimeout: 10 * time.Second,
				IdleConnTimeout:       90 * time.Second,
				MaxIdleConns:          100,
				MaxIdleConnsPerHost:   10,
				ForceAttemptHTTP2:     true,
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= MaxRedirects {
					return fmt.Errorf("too many redirects (>%d)", MaxRedirects)
				}
				return nil
			},
		}
	}
	return f
}

// New returns a tool named "WebFetch" with a "fetch" activity backed by a
// Fetcher built from opts.
//
// Example:
//
//	tools := []tool.Tool{webfetch.New(webfetch.WithTimeout(10 * time.Second))}
func New(opts ...Option) *tool.Toolkit {
	f := NewFetcher(opts...)
	return tool.New("WebFetch",
		tool.WithDescription("Fetches a web page and converts its HTML content to Markdown. Partial URLs get an https:// prefix."),
		tool.WithActivities(tool.MustActivity(tool.NewActivity("fetch", f.Fetch,
			tool.WithActivityDescription("Downloads the page at url and returns the final URL and its Markdown content."),
		))),
	)
}

// Fetch retrieves the page at req.URL and returns its content as Markdown.
//
// It fails when the URL is blank, the status is not 200 OK, the body exceeds
// the size limit, or ctx ends first.
func (f *Fetcher) Fetch(ctx context.Context, req Input) (Output, error) {
	url := normalizeURL(req.URL)
	if url == "" {
		return Output{}, ErrEmptyURL
	}

	timeout := f.timeout
	if req.TimeoutSeconds > 0 {
		timeout = time.Duration(req.TimeoutSeconds) * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Output{}, fmt.Errorf("failed to create request: %w", err)
	}
	userAgent := f.userAgent
	if req.UserAgent != "" {
		userAgent = req.UserAgent
	}
	httpReq.Header.Set("User-Agent", userAgent)

	span := observability.SpanFromContext(ctx)
	if span != nil {
		span.SetAttributes(observability.String(observability.AttrHTTPURL, url))
	}

	resp, err := f.client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return Output{}, fmt.Errorf("request timeout or canceled: %w", err)
		}
		return Output{}, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if span != nil {
		span.SetAttributes(
			observability.Int(observability.AttrHTTPStatusCode, resp.StatusCode),
			observability.String(observability.AttrHTTPResponseContentType, resp.Header.Get("Content-Type")),
		)
	}

	if resp.StatusCode != http.StatusOK {
		return Output{}, fmt.Errorf("unexpected status code: %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize+1))
	if err != nil {
		return Output{}, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) > f.maxBodySize {
		return Output{}, fmt.Errorf("response body exceeds maximum size of %d bytes", f.maxBodySize)
	}

	markdown, err := htmltomarkdown.ConvertString(string(body))
	if err != nil {
		return Output{}, fmt.Errorf("failed to convert HTML to Markdown: %w", err)
	}

	output := Output{
		URL:      resp.Request.URL.String(),
		Markdown: markdown,
	}
	if req.IncludeHTML {
		output.HTML = string(body)
	}
	return output, nil
}

func normalizeURL(raw string) string {
	url := strings.TrimSpace(raw)
	if url == "" {
		return ""
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "https://" + url
	}
	return url
}

// Input holds the parameters of the fetch activity.
type Input struct {
	URL            string `json:"url" jsonschema:"description=The URL of the web page to fetch (partial URLs like 'example.com' are accepted),required"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty" jsonschema:"description=Request timeout in seconds"`
	UserAgent      string `json:"user_agent,omitempty" jsonschema:"description=Custom User-Agent header for the HTTP request"`
	IncludeHTML    bool   `json:"include_html,omitempty" jsonschema:"description=When true the raw HTML is returned alongside the Markdown"`
}

// Output is the result of [Fetcher.Fetch]. URL is the final destination after
// redirects; HTML is only set when requested.
type Output struct {
	URL      string `json:"url"`
	Markdown string `json:"markdown"`
	HTML     string `json:"html,omitempty"`
}
