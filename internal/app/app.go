// Package app wires configuration, crawl engines, categorization, and
// digest assembly into the one operation the CLI and the HTTP endpoint
// both expose.
package app

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"sitedigest/internal/categorize"
	"sitedigest/internal/config"
	"sitedigest/internal/crawl"
	"sitedigest/internal/digest"
	"sitedigest/internal/fetch"
	"sitedigest/internal/models"
)

// Result is the logical output contract: site-level facts plus the
// assembled digest string.
type Result struct {
	URL        string   `json:"url"`
	Domain     string   `json:"domain"`
	Categories []string `json:"categories"`
	HasPricing bool     `json:"hasPricing"`
	HasBlog    bool     `json:"hasBlog"`
	HasCareers bool     `json:"hasCareers"`
	PageCount  int      `json:"pageCount"`
	Content    string   `json:"content"`
}

type App struct {
	cfg        *config.Config
	orch       *crawl.Orchestrator
	repeatable map[models.Category]bool
	log        *slog.Logger
}

func New(cfg *config.Config, log *slog.Logger) *App {
	client := fetch.NewClient(time.Duration(cfg.Crawl.TimeoutSec)*time.Second, cfg.Crawl.MaxRetries)
	primary := crawl.NewPrimaryEngine(client, cfg.Crawl.MaxPages, cfg.Crawl.RespectRobots, log)
	fallback := crawl.NewFallbackEngine(
		cfg.Crawl.MaxPages,
		cfg.Fallback.Workers,
		time.Duration(cfg.Fallback.DelayMS)*time.Millisecond,
		time.Duration(cfg.Fallback.TimeoutSec)*time.Second,
		log,
	)

	repeatable := make(map[models.Category]bool)
	for _, c := range cfg.Digest.RepeatCategories {
		repeatable[models.Category(c)] = true
	}

	return &App{
		cfg:        cfg,
		orch:       crawl.NewOrchestrator(log, primary, fallback),
		repeatable: repeatable,
		log:        log,
	}
}

// Scrape runs the full pipeline for one target URL.
func (a *App) Scrape(ctx context.Context, rawURL string) (*Result, error) {
	target, err := models.NewCrawlTarget(rawURL)
	if err != nil {
		return nil, err
	}

	pages, err := a.orch.Crawl(ctx, target)
	if err != nil {
		return nil, err
	}

	for i := range pages {
		pages[i].Category = categorize.Page(pages[i].URL, pages[i])
	}

	unique := digest.DedupePages(pages, a.repeatable)
	d := digest.Assemble(target.Domain, unique, a.cfg.Digest.MaxOutputBytes)

	seen := make(map[models.Category]bool)
	var categories []string
	for _, p := range unique {
		if !seen[p.Category] {
			seen[p.Category] = true
			categories = append(categories, string(p.Category))
		}
	}
	sort.Strings(categories)

	return &Result{
		URL:        target.NormalizedURL,
		Domain:     target.Domain,
		Categories: categories,
		HasPricing: seen[models.CategoryPricing],
		HasBlog:    seen[models.CategoryBlog],
		HasCareers: seen[models.CategoryCareers],
		PageCount:  len(unique),
		Content:    d.Render(),
	}, nil
}
