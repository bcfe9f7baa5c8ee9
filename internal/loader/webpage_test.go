package loader_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"linksum/internal/domain"
	"linksum/internal/loader"
)

const articlePage = `<!DOCTYPE html>
<html>
<head>
  <title>Ignored title</title>
  <meta property="og:title" content="Go Pipelines">
  <style>body { color: red; }</style>
  <script>var tracking = "should not leak";</script>
</head>
<body>
  <nav>Home | About</nav>
  <article>
    <h1>Pipelines</h1>
    <p>Stages are   connected by channels.</p>
    <p>Each stage<br>runs in its own goroutine.</p>
  </article>
  <footer>Copyright</footer>
</body>
</html>`

const rssFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Example Feed</title>
  <description>Latest posts</description>
  <item>
    <title>First post</title>
    <description><![CDATA[<p>Hello <b>feed</b> readers.</p>]]></description>
  </item>
</channel>
</rss>`

func newPageServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return srv
}

func loadPage(t *testing.T, rawURL string) (*domain.Document, error) {
	t.Helper()

	l := loader.New(nil, loader.NewHTTPClient(5*time.Second, false), nil, discardLogger())

	return l.Load(context.Background(), domain.SourceWebPage, mustParse(t, rawURL))
}

func TestLoadWebPageExtractsArticleText(t *testing.T) {
	var gotUserAgent string

	srv := newPageServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(articlePage))
	})

	doc, err := loadPage(t, srv.URL+"/post")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "Pipelines\nStages are connected by channels.\nEach stage\nruns in its own goroutine."
	if doc.Text != want {
		t.Fatalf("unexpected text:\n%q\nwant:\n%q", doc.Text, want)
	}

	if doc.Title != "Go Pipelines" {
		t.Fatalf("unexpected title: %q", doc.Title)
	}

	if doc.SourceURL != srv.URL+"/post" || doc.Source != domain.SourceWebPage {
		t.Fatalf("unexpected metadata: %+v", doc)
	}

	if !strings.Contains(gotUserAgent, "Mozilla/5.0") {
		t.Fatalf("expected browser user agent, got %q", gotUserAgent)
	}
}

func TestLoadWebPageFallsBackToBody(t *testing.T) {
	srv := newPageServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head><title> Plain   page </title></head>` +
			`<body><div>First</div><div>Second</div></body></html>`))
	})

	doc, err := loadPage(t, srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.Text != "First\nSecond" {
		t.Fatalf("unexpected text: %q", doc.Text)
	}

	if doc.Title != "Plain page" {
		t.Fatalf("unexpected title: %q", doc.Title)
	}
}

func TestLoadWebPageDecodesCharset(t *testing.T) {
	srv := newPageServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		// "café" in Latin-1.
		_, _ = w.Write([]byte("<html><body><p>caf\xe9</p></body></html>"))
	})

	doc, err := loadPage(t, srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.Text != "café" {
		t.Fatalf("unexpected text: %q", doc.Text)
	}
}

func TestLoadWebPageReadsFeeds(t *testing.T) {
	srv := newPageServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(rssFeed))
	})

	doc, err := loadPage(t, srv.URL+"/feed.xml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "Example Feed\nLatest posts\nFirst post\nHello feed readers."
	if doc.Text != want {
		t.Fatalf("unexpected text:\n%q\nwant:\n%q", doc.Text, want)
	}

	if doc.Title != "Example Feed" {
		t.Fatalf("unexpected title: %q", doc.Title)
	}
}

func TestLoadWebPageBlocked(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			"Forbidden",
			func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "bots are not welcome", http.StatusForbidden)
			},
		},
		{
			"Server error",
			func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			},
		},
		{
			"Empty body",
			func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			},
		},
		{
			"Whitespace body",
			func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("  \n\t "))
			},
		},
		{
			"Only scripts",
			func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "text/html")
				_, _ = w.Write([]byte(`<html><head><script>render()</script></head>` +
					`<body><noscript>Enable JavaScript</noscript><div id="app"></div></body></html>`))
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			srv := newPageServer(t, test.handler)

			doc, err := loadPage(t, srv.URL)
			if !errors.Is(err, domain.ErrFetchBlocked) {
				t.Fatalf("expected fetch blocked, got %v", err)
			}

			if doc != nil {
				t.Fatalf("expected no document, got %+v", doc)
			}
		})
	}
}

func TestLoadWebPageNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	rawURL := srv.URL
	srv.Close()

	_, err := loadPage(t, rawURL)
	if !errors.Is(err, domain.ErrFetchError) {
		t.Fatalf("expected fetch error, got %v", err)
	}
}
