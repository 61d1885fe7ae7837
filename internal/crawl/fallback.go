package crawl

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly"

	"sitedigest/internal/extract"
	"sitedigest/internal/models"
)

const (
	fallbackUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"
	fallbackRequestTimeout = 20 * time.Second
	fallbackMaxRetries     = 3
)

// FallbackEngine re-crawls the target from scratch with a concurrent
// collector: bounded parallelism, per-request delay, its own cookie
// and redirect handling, and 403 treated as retryable. It is abandoned
// wholesale when its total timeout elapses.
type FallbackEngine struct {
	maxPages int
	workers  int
	delay    time.Duration
	timeout  time.Duration
	log      *slog.Logger
}

func NewFallbackEngine(maxPages, workers int, delay, timeout time.Duration, log *slog.Logger) *FallbackEngine {
	return &FallbackEngine{
		maxPages: maxPages,
		workers:  workers,
		delay:    delay,
		timeout:  timeout,
		log:      log,
	}
}

func (e *FallbackEngine) Crawl(ctx context.Context, target models.CrawlTarget) ([]models.ExtractedPage, error) {
	c := colly.NewCollector(
		colly.UserAgent(fallbackUserAgent),
		colly.Async(true),
		colly.MaxDepth(2),
	)
	c.SetRequestTimeout(fallbackRequestTimeout)
	if err := c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: e.workers,
		Delay:       e.delay,
	}); err != nil {
		return nil, err
	}

	var (
		mu    sync.Mutex
		pages []models.ExtractedPage
	)
	visited := newVisitSet()
	retries := make(map[string]int)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		r.Headers.Set("Accept-Language", "en-US,en;q=0.9,fr;q=0.8")
		r.Headers.Set("Cache-Control", "no-cache")
		r.Headers.Set("Upgrade-Insecure-Requests", "1")
	})

	c.OnResponse(func(r *colly.Response) {
		contentType := r.Headers.Get("Content-Type")
		if contentType != "" && !strings.Contains(contentType, "text/html") &&
			!strings.Contains(contentType, "application/xhtml") {
			return
		}
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(r.Body))
		if err != nil {
			return
		}
		pageURL := r.Request.URL.String()

		page := extract.Page(doc, pageURL)
		mu.Lock()
		if len(pages) < e.maxPages {
			pages = append(pages, page)
		}
		full := len(pages) >= e.maxPages
		mu.Unlock()

		// Only the homepage feeds the frontier; everything else is a
		// leaf, mirroring the nav-link-only crawl scope.
		if r.Request.Depth > 1 || full {
			return
		}
		base := target.Scheme + "://" + target.Domain
		for _, link := range extract.DiscoverLinks(doc, base) {
			if !visited.Add(link) {
				continue
			}
			if err := r.Request.Visit(link); err != nil &&
				!errors.Is(err, colly.ErrAlreadyVisited) && !errors.Is(err, colly.ErrMaxDepth) {
				e.log.Debug("fallback enqueue failed", "url", link, "error", err)
			}
		}
	})

	c.OnError(func(r *colly.Response, err error) {
		code := r.StatusCode
		retryable := code == 403 || code == 408 || code == 429 || (code >= 500 && code <= 504)
		if !retryable {
			e.log.Debug("fallback fetch failed", "url", r.Request.URL.String(), "error", err)
			return
		}
		key := r.Request.URL.String()
		mu.Lock()
		retries[key]++
		attempt := retries[key]
		mu.Unlock()
		if attempt <= fallbackMaxRetries {
			if rerr := r.Request.Retry(); rerr != nil {
				e.log.Debug("fallback retry failed", "url", key, "error", rerr)
			}
		}
	})

	visited.Add(target.NormalizedURL)
	if err := c.Visit(target.NormalizedURL); err != nil {
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		c.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(e.timeout):
		return nil, errors.New("fallback crawl timed out")
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	mu.Lock()
	defer mu.Unlock()
	return pages, nil
}
