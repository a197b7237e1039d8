// Package duckduckgo provides a search tool backed by the DuckDuckGo Instant
// Answer API. The API is free and needs no key.
package duckduckgo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/leofalp/toolloop/providers/observability"
	"github.com/leofalp/toolloop/providers/tool"
)

const (
	// DefaultBaseURL is the Instant Answer API endpoint.
	DefaultBaseURL = "https://api.duckduckgo.com/"
	// DefaultUserAgent is the default User-Agent header value
	DefaultUserAgent = "toolloop-duckduckgo/1.0"
	// MaxRelatedTopics bounds the topics listed in a summary.
	MaxRelatedTopics = 5
	// NoResults is the summary of a query without any answer.
	NoResults = "No results found for this query."
)

// Client queries the Instant Answer API.
type Client struct {
	client    *http.Client
	baseURL   string
	userAgent string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

// WithBaseURL points the client at another endpoint, typically a test server.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// NewClient creates a Client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		client:    http.DefaultClient,
		baseURL:   DefaultBaseURL,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// New returns a tool named "DuckDuckGo" with two activities: "search" returns
// a plain-text summary and "lookup" the full structured answer.
func New(opts ...Option) *tool.Toolkit {
	c := NewClient(opts...)
	return tool.New("DuckDuckGo",
		tool.WithDescription("Searches the web with DuckDuckGo. Returns instant answers, abstracts, definitions and related topics."),
		tool.WithActivities(
			tool.MustActivity(tool.NewActivity("search", c.Search,
				tool.WithActivityDescription("Returns a short text summary of the answers for query."),
			)),
			tool.MustActivity(tool.NewActivity("lookup", c.Lookup,
				tool.WithActivityDescription("Returns every answer for query as structured data, with absolute URLs."),
			)),
		),
	)
}

// Search summarizes the answers for req.Query. A query without any answer
// yields [NoResults].
func (c *Client) Search(ctx context.Context, req Input) (Output, error) {
	resp, err := c.fetch(ctx, req.Query)
	if err != nil {
		return Output{}, err
	}

	var parts []string
	if resp.AbstractText != "" {
		parts = append(parts, "Abstract: "+resp.AbstractText)
		if resp.AbstractURL != "" {
			parts = append(parts, "Source: "+resp.AbstractURL)
		}
	}
	if resp.Answer != "" {
		parts = append(parts, "Answer: "+resp.Answer)
	}
	if resp.Definition != "" {
		parts = append(parts, "Definition: "+resp.Definition)
	}

	var topics []string
	for _, topic := range resp.RelatedTopics {
		if len(topics) == MaxRelatedTopics {
			break
		}
		if topic.Text != "" {
			topics = append(topics, topic.Text)
		}
	}
	if len(topics) > 0 {
		parts = append(parts, "Related topics: "+strings.Join(topics, "; "))
	}

	summary := strings.Join(parts, "\n\n")
	if summary == "" {
		summary = NoResults
	}
	return Output{Query: req.Query, Summary: summary}, nil
}

// Lookup returns the full answer for req.Query.
func (c *Client) Lookup(ctx context.Context, req Input) (Answer, error) {
	resp, err := c.fetch(ctx, req.Query)
	if err != nil {
		return Answer{}, err
	}

	topics := make([]Topic, 0, len(resp.RelatedTopics))
	for _, t := range resp.RelatedTopics {
		topics = append(topics, t.topic())
	}
	results := make([]Topic, 0, len(resp.Results))
	for _, r := range resp.Results {
		results = append(results, r.topic())
	}

	return Answer{
		Query:          req.Query,
		Heading:        resp.Heading,
		Type:           resp.Type,
		Abstract:       resp.AbstractText,
		AbstractSource: resp.AbstractSource,
		AbstractURL:    resp.AbstractURL,
		Answer:         resp.Answer,
		AnswerType:     resp.AnswerType,
		Definition:     resp.Definition,
		DefinitionURL:  resp.DefinitionURL,
		Image:          absoluteURL(resp.Image),
		RelatedTopics:  topics,
		Results:        results,
		Redirect:       resp.Redirect,
	}, nil
}

func (c *Client) fetch(ctx context.Context, query string) (*apiResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("query cannot be empty")
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("no_html", "1")
	params.Set("skip_disambig", "1")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to query DuckDuckGo: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if span := observability.SpanFromContext(ctx); span != nil {
		span.SetAttributes(observability.Int(observability.AttrHTTPStatusCode, resp.StatusCode))
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var decoded apiResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &decoded, nil
}

// absoluteURL resolves the site-relative paths the API returns for images
// and icons.
func absoluteURL(path string) string {
	if path == "" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if strings.HasPrefix(path, "/") {
		return "https://duckduckgo.com" + path
	}
	return path
}

// Input holds the parameters of both activities.
type Input struct {
	Query string `json:"query" jsonschema:"description=The search query to look up on DuckDuckGo,required"`
}

// Output is the result of [Client.Search].
type Output struct {
	Query   string `json:"query"`
	Summary string `json:"summary"`
}

// Answer is the result of [Client.Lookup].
type Answer struct {
	Query          string  `json:"query"`
	Heading        string  `json:"heading,omitempty"`
	Type           string  `json:"type,omitempty"`
	Abstract       string  `json:"abstract,omitempty"`
	AbstractSource string  `json:"abstract_source,omitempty"`
	AbstractURL    string  `json:"abstract_url,omitempty"`
	Answer         string  `json:"answer,omitempty"`
	AnswerType     string  `json:"answer_type,omitempty"`
	Definition     string  `json:"definition,omitempty"`
	DefinitionURL  string  `json:"definition_url,omitempty"`
	Image          string  `json:"image,omitempty"`
	RelatedTopics  []Topic `json:"related_topics,omitempty"`
	Results        []Topic `json:"results,omitempty"`
	Redirect       string  `json:"redirect,omitempty"`
}

// Topic is a related topic or an extra result.
type Topic struct {
	URL     string `json:"url"`
	Text    string `json:"text"`
	IconURL string `json:"icon_url,omitempty"`
}

type apiResponse struct {
	AbstractText   string     `json:"AbstractText"`
	AbstractSource string     `json:"AbstractSource"`
	AbstractURL    string     `json:"AbstractURL"`
	Answer         string     `json:"Answer"`
	AnswerType     string     `json:"AnswerType"`
	Definition     string     `json:"Definition"`
	DefinitionURL  string     `json:"DefinitionURL"`
	Heading        string     `json:"Heading"`
	Image          string     `json:"Image"`
	ImageWidth     flexInt    `json:"ImageWidth"`
	RelatedTopics  []apiTopic `json:"RelatedTopics"`
	Results        []apiTopic `json:"Results"`
	Type           string     `json:"Type"`
	Redirect       string     `json:"Redirect"`
}

type apiTopic struct {
	FirstURL string  `json:"FirstURL"`
	Text     string  `json:"Text"`
	Icon     apiIcon `json:"Icon"`
}

type apiIcon struct {
	URL    string  `json:"URL"`
	Height flexInt `json:"Height"`
}

func (t apiTopic) topic() Topic {
	return Topic{URL: t.FirstURL, Text: t.Text, IconURL: absoluteURL(t.Icon.URL)}
}

// flexInt accepts the numbers the API sends either as JSON numbers or as
// strings, including "".
type flexInt string

func (f *flexInt) UnmarshalJSON(data []byte) error {
	var i int
	if err := json.Unmarshal(data, &i); err == nil {
		*f = flexInt(strconv.Itoa(i))
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexInt(s)
		return nil
	}
	*f = ""
	return nil
}
