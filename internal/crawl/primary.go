package crawl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/temoto/robotstxt"

	"sitedigest/internal/extract"
	"sitedigest/internal/fetch"
	"sitedigest/internal/models"
)

const robotsAgent = "sitedigest"

// PrimaryEngine fetches pages one at a time over a shared connection
// pool: the homepage first, then its navigation links, bounded by
// maxPages successful extractions.
type PrimaryEngine struct {
	client        *fetch.Client
	maxPages      int
	respectRobots bool
	log           *slog.Logger
}

func NewPrimaryEngine(client *fetch.Client, maxPages int, respectRobots bool, log *slog.Logger) *PrimaryEngine {
	return &PrimaryEngine{
		client:        client,
		maxPages:      maxPages,
		respectRobots: respectRobots,
		log:           log,
	}
}

func (e *PrimaryEngine) Crawl(ctx context.Context, target models.CrawlTarget) ([]models.ExtractedPage, error) {
	doc, err := e.client.Fetch(ctx, target.NormalizedURL)
	if err != nil {
		return nil, fmt.Errorf("homepage fetch: %w", err)
	}

	var robots *robotstxt.Group
	if e.respectRobots {
		robots = e.client.RobotsGroup(ctx, target.Scheme, target.Domain, robotsAgent)
	}

	base := target.Scheme + "://" + target.Domain
	links := extract.DiscoverLinks(doc, base)
	links = ensureHomepageFirst(links, base)

	visited := make(map[string]bool)
	var pages []models.ExtractedPage
	for _, link := range links {
		if ctx.Err() != nil {
			break
		}
		normalized := NormalizeURL(link)
		if visited[normalized] {
			continue
		}
		visited[normalized] = true

		if robots != nil && !robotsAllows(robots, link) {
			e.log.Debug("robots.txt disallows", "url", link)
			continue
		}

		doc, err := e.client.Fetch(ctx, link)
		if err != nil {
			// Per-page failures never surface individually.
			if errors.Is(err, fetch.ErrNotHTML) {
				e.log.Debug("skipping non-html page", "url", link)
			} else {
				e.log.Debug("page fetch failed", "url", link, "error", err)
			}
			continue
		}

		pages = append(pages, extract.Page(doc, link))
		if len(pages) >= e.maxPages {
			break
		}
	}
	return pages, nil
}

func ensureHomepageFirst(links []string, base string) []string {
	homepage := NormalizeURL(base)
	for _, l := range links {
		if NormalizeURL(l) == homepage {
			return links
		}
	}
	return append([]string{homepage}, links...)
}

func robotsAllows(group *robotstxt.Group, link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	return group.Test(u.Path)
}
