package crawl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"sitedigest/internal/fetch"
	"sitedigest/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testTarget(t *testing.T, rawURL string) models.CrawlTarget {
	t.Helper()
	u, err := url.Parse(rawURL)
	if err != nil {
		t.Fatalf("parse target: %v", err)
	}
	return models.CrawlTarget{
		RawURL:        rawURL,
		NormalizedURL: rawURL,
		Scheme:        u.Scheme,
		Domain:        u.Host,
	}
}

func newTestSite() http.Handler {
	mux := http.NewServeMux()
	page := func(title, nav, body string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprintf(w, "<html><head><title>%s</title></head><body>%s<main>%s</main></body></html>",
				title, nav, body)
		}
	}
	nav := `<nav><a href="/pricing">Pricing</a><a href="/about">About</a><a href="/broken">Broken</a><a href="/report.pdf">PDF</a></nav>`
	mux.HandleFunc("/", page("Acme", nav, "<p>Welcome to Acme, the home of shipping software quickly.</p>"))
	mux.HandleFunc("/pricing", page("Pricing", "", "<p>Plans start at ten dollars per month for small teams.</p>"))
	mux.HandleFunc("/about", page("About", "", "<p>We were founded in a garage by two engineers.</p>"))
	mux.HandleFunc("/broken", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	})
	mux.HandleFunc("/report.pdf", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.4"))
	})
	return mux
}

func TestPrimaryEngineCrawlsNavLinks(t *testing.T) {
	ts := httptest.NewServer(newTestSite())
	defer ts.Close()

	eng := NewPrimaryEngine(fetch.NewClient(5*time.Second, 0), 15, false, testLogger())
	pages, err := eng.Crawl(context.Background(), testTarget(t, ts.URL))
	if err != nil {
		t.Fatalf("crawl: %v", err)
	}
	// Homepage + pricing + about; the 404 and the PDF are skipped.
	if len(pages) != 3 {
		t.Fatalf("want 3 pages, got %d: %+v", len(pages), pages)
	}
	if pages[0].Title != "Acme" {
		t.Fatalf("homepage should come first, got %q", pages[0].Title)
	}
}

func TestPrimaryEngineRespectsPageCap(t *testing.T) {
	ts := httptest.NewServer(newTestSite())
	defer ts.Close()

	eng := NewPrimaryEngine(fetch.NewClient(5*time.Second, 0), 2, false, testLogger())
	pages, err := eng.Crawl(context.Background(), testTarget(t, ts.URL))
	if err != nil {
		t.Fatalf("crawl: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("want 2 pages, got %d", len(pages))
	}
}

func TestPrimaryEngineDeduplicatesNormalizedURLs(t *testing.T) {
	mux := http.NewServeMux()
	var hits int
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/docs" {
			hits++
		}
		w.Header().Set("Content-Type", "text/html")
		io.WriteString(w, `<html><body><nav><a href="/docs">A</a><a href="/docs/">B</a><a href="/docs#x">C</a></nav></body></html>`)
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	eng := NewPrimaryEngine(fetch.NewClient(5*time.Second, 0), 15, false, testLogger())
	if _, err := eng.Crawl(context.Background(), testTarget(t, ts.URL)); err != nil {
		t.Fatalf("crawl: %v", err)
	}
	if hits != 1 {
		t.Fatalf("want /docs fetched once, got %d", hits)
	}
}

type stubEngine struct {
	pages []models.ExtractedPage
	err   error
	calls int
}

func (s *stubEngine) Crawl(ctx context.Context, target models.CrawlTarget) ([]models.ExtractedPage, error) {
	s.calls++
	return s.pages, s.err
}

func TestOrchestratorFallsBackOnZeroPages(t *testing.T) {
	empty := &stubEngine{}
	second := &stubEngine{pages: []models.ExtractedPage{{URL: "https://acme.io", Title: "Acme"}}}
	orch := NewOrchestrator(testLogger(), empty, second)

	pages, err := orch.Crawl(context.Background(), testTarget(t, "https://acme.io"))
	if err != nil {
		t.Fatalf("crawl: %v", err)
	}
	if empty.calls != 1 || second.calls != 1 {
		t.Fatalf("engine call counts: %d, %d", empty.calls, second.calls)
	}
	if len(pages) != 1 {
		t.Fatalf("want 1 page, got %d", len(pages))
	}
}

func TestOrchestratorUnreachableWhenAllEnginesEmpty(t *testing.T) {
	orch := NewOrchestrator(testLogger(),
		&stubEngine{err: errors.New("homepage fetch: connection refused")},
		&stubEngine{})
	_, err := orch.Crawl(context.Background(), testTarget(t, "https://acme.io"))
	if !errors.Is(err, ErrUnreachable) {
		t.Fatalf("want ErrUnreachable, got %v", err)
	}
}

func TestOrchestratorSkipsFallbackOnSuccess(t *testing.T) {
	first := &stubEngine{pages: []models.ExtractedPage{{URL: "https://acme.io"}}}
	second := &stubEngine{}
	orch := NewOrchestrator(testLogger(), first, second)
	if _, err := orch.Crawl(context.Background(), testTarget(t, "https://acme.io")); err != nil {
		t.Fatalf("crawl: %v", err)
	}
	if second.calls != 0 {
		t.Fatal("fallback engine should not run after a successful primary crawl")
	}
}

func TestNormalizeURL(t *testing.T) {
	cases := map[string]string{
		"https://acme.io/docs/":  "https://acme.io/docs",
		"https://acme.io/docs#x": "https://acme.io/docs",
		"acme.io/docs":           "https://acme.io/docs",
	}
	for in, want := range cases {
		if got := NormalizeURL(in); got != want {
			t.Fatalf("NormalizeURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFallbackEngineCrawls(t *testing.T) {
	ts := httptest.NewServer(newTestSite())
	defer ts.Close()

	eng := NewFallbackEngine(15, 2, 10*time.Millisecond, 30*time.Second, testLogger())
	pages, err := eng.Crawl(context.Background(), testTarget(t, ts.URL))
	if err != nil {
		t.Fatalf("crawl: %v", err)
	}
	if len(pages) < 3 {
		t.Fatalf("want at least 3 pages, got %d", len(pages))
	}
}
