package webfetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/leofalp/toolloop/core/action"
	"github.com/leofalp/toolloop/providers/tool"
)

const page = `<!DOCTYPE html>
<html>
<head><title>Test Page</title></head>
<body>
	<h1>Welcome</h1>
	<p>This is a <strong>test</strong> paragraph.</p>
</body>
</html>`

func htmlServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func TestFetch_Success(t *testing.T) {
	var gotAgent string
	server := htmlServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, page)
	})

	output, err := NewFetcher().Fetch(context.Background(), Input{URL: server.URL})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if output.URL != server.URL {
		t.Errorf("expected URL %s, got %s", server.URL, output.URL)
	}
	if !strings.Contains(output.Markdown, "# Welcome") {
		t.Errorf("markdown should contain the heading, got %q", output.Markdown)
	}
	if !strings.Contains(output.Markdown, "**test**") {
		t.Errorf("markdown should keep emphasis, got %q", output.Markdown)
	}
	if output.HTML != "" {
		t.Errorf("HTML must be omitted unless requested")
	}
	if gotAgent != DefaultUserAgent {
		t.Errorf("expected default user agent, got %q", gotAgent)
	}
}

func TestFetch_Options(t *testing.T) {
	var gotAgent string
	server := htmlServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		fmt.Fprint(w, page)
	})

	f := NewFetcher(WithUserAgent("custom/1.0"))
	output, err := f.Fetch(context.Background(), Input{URL: server.URL, IncludeHTML: true})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if gotAgent != "custom/1.0" {
		t.Errorf("expected custom user agent, got %q", gotAgent)
	}
	if output.HTML != page {
		t.Errorf("expected raw HTML")
	}

	if _, err := f.Fetch(context.Background(), Input{URL: server.URL, UserAgent: "override"}); err != nil {
		t.Fatal(err)
	}
	if gotAgent != "override" {
		t.Errorf("per-request user agent must win, got %q", gotAgent)
	}
}

func TestFetch_EmptyURL(t *testing.T) {
	for _, url := range []string{"", "   "} {
		if _, err := NewFetcher().Fetch(context.Background(), Input{URL: url}); !errors.Is(err, ErrEmptyURL) {
			t.Errorf("%q: expected ErrEmptyURL, got %v", url, err)
		}
	}
}

func TestNormalizeURL(t *testing.T) {
	tests := map[string]string{
		"example.com":          "https://example.com",
		"  example.com/a  ":    "https://example.com/a",
		"http://example.com":   "http://example.com",
		"https://example.com/": "https://example.com/",
		"":                     "",
	}
	for in, want := range tests {
		if got := normalizeURL(in); got != want {
			t.Errorf("normalizeURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFetch_StatusError(t *testing.T) {
	server := htmlServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	_, err := NewFetcher().Fetch(context.Background(), Input{URL: server.URL})
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestFetch_Redirect(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/new", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, page)
	})
	server := htmlServer(t, mux.ServeHTTP)

	output, err := NewFetcher().Fetch(context.Background(), Input{URL: server.URL + "/old"})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if output.URL != server.URL+"/new" {
		t.Errorf("expected final URL, got %s", output.URL)
	}
}

func TestFetch_BodyTooLarge(t *testing.T) {
	server := htmlServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, strings.Repeat("a", 64))
	})

	_, err := NewFetcher(WithMaxBodySize(32)).Fetch(context.Background(), Input{URL: server.URL})
	if err == nil || !strings.Contains(err.Error(), "exceeds maximum size") {
		t.Fatalf("expected size error, got %v", err)
	}
}

func TestFetch_Timeout(t *testing.T) {
	server := htmlServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	start := time.Now()
	_, err := NewFetcher(WithTimeout(50 * time.Millisecond)).Fetch(context.Background(), Input{URL: server.URL})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if time.Since(start) > time.Second {
		t.Errorf("timeout was not honored")
	}
}

type caller struct{ url string }

func (c caller) ID() string      { return "1" }
func (c caller) Thought() string { return "" }

func (c caller) Action() action.Action {
	return action.Action{Name: "WebFetch", Path: "fetch", Input: map[string]any{"values": map[string]any{"url": c.url}}}
}

func TestNew_FetchActivity(t *testing.T) {
	server := htmlServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, page)
	})

	activity, ok := tool.FindActivity(New(), "fetch")
	if !ok {
		t.Fatal("expected a fetch activity")
	}
	if err := activity.ValidateInput(map[string]any{"values": map[string]any{"url": server.URL}}); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
	if err := activity.ValidateInput(map[string]any{"values": map[string]any{}}); err == nil {
		t.Fatal("url is required")
	}

	out, err := activity.Execute(context.Background(), caller{url: server.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.Value(), "Welcome") {
		t.Errorf("unexpected output %q", out.Value())
	}
}
