// Package fetch implements the primary page-fetch strategy: a single
// reusable HTTP client with browser-like headers, bounded retry with
// exponential backoff, and a Googlebot-like fallback profile.
package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
)

const (
	maxHops      = 15
	maxBodyBytes = 5 << 20
	backoffBase  = 500 * time.Millisecond
)

// ErrNotHTML marks a response that is not an HTML document. The crawl
// treats it as a skip, not a failure.
var ErrNotHTML = errors.New("non-html content")

// browserHeaders resemble a desktop Chrome session to avoid naive bot
// detection.
var browserHeaders = map[string]string{
	"User-Agent": "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36",
	"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	"Accept-Language":           "en-US,en;q=0.9,fr;q=0.8",
	"Cache-Control":             "no-cache",
	"Sec-Fetch-Dest":            "document",
	"Sec-Fetch-Mode":            "navigate",
	"Sec-Fetch-Site":            "none",
	"Sec-Fetch-User":            "?1",
	"Upgrade-Insecure-Requests": "1",
}

// crawlerHeaders resemble a well-known crawler, used once per URL when
// the browser profile fails outright.
var crawlerHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)",
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.9",
}

var retryStatuses = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

type Client struct {
	http       *http.Client
	maxRetries int
}

func NewClient(timeout time.Duration, maxRetries int) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		http: &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
			Jar:     jar,
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxHops {
					return fmt.Errorf("stopped after %d redirects", maxHops)
				}
				return nil
			},
		},
		maxRetries: maxRetries,
	}
}

// Fetch retrieves and parses one HTML document. The browser profile is
// tried first with retry; on failure the crawler profile gets one more
// full attempt. A non-HTML response surfaces as ErrNotHTML.
func (c *Client) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	doc, err := c.fetchWith(ctx, url, browserHeaders)
	if err == nil {
		return doc, nil
	}
	if ctx.Err() != nil {
		return nil, err
	}
	return c.fetchWith(ctx, url, crawlerHeaders)
}

func (c *Client) fetchWith(ctx context.Context, url string, headers map[string]string) (*goquery.Document, error) {
	var lastErr error
	backoff := backoffBase
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}
		doc, retryable, err := c.do(ctx, url, headers)
		if err == nil {
			return doc, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
	}
	return nil, lastErr
}

// do performs a single request. The second return value reports
// whether the failure is transient and worth retrying.
func (c *Client) do(ctx context.Context, url string, headers map[string]string) (*goquery.Document, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	if retryStatuses[resp.StatusCode] {
		io.Copy(io.Discard, resp.Body)
		return nil, true, fmt.Errorf("http status %d", resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, false, fmt.Errorf("http status %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !strings.Contains(contentType, "text/html") &&
		!strings.Contains(contentType, "application/xhtml") {
		return nil, false, fmt.Errorf("%w: %s", ErrNotHTML, contentType)
	}

	utf8Reader, err := charset.NewReader(resp.Body, contentType)
	if err != nil {
		utf8Reader = resp.Body
	}
	body, err := io.ReadAll(io.LimitReader(utf8Reader, maxBodyBytes))
	if err != nil {
		return nil, true, err
	}

	lower := strings.ToLower(string(body))
	if strings.Contains(lower, "captcha") || strings.Contains(lower, "security check") {
		return nil, false, errors.New("captcha challenge detected")
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, false, err
	}
	return doc, false, nil
}
