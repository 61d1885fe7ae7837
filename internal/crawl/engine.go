// Package crawl drives page discovery, fetching, and extraction across
// a site's navigation-reachable pages. Two engines implement the same
// contract: a sequential primary engine and a concurrent fallback
// engine that only runs when the primary run yields nothing.
package crawl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"sitedigest/internal/models"
)

// ErrUnreachable means every crawl strategy produced zero pages. The
// caller must never treat partial state as usable in this case.
var ErrUnreachable = errors.New("site unreachable")

// Engine crawls one target and returns its extracted pages. Per-page
// failures are absorbed inside the engine; an error or an empty page
// list both mean the whole run failed.
type Engine interface {
	Crawl(ctx context.Context, target models.CrawlTarget) ([]models.ExtractedPage, error)
}

// Orchestrator tries engines in order until one returns pages. Engines
// never run concurrently with each other.
type Orchestrator struct {
	engines []Engine
	log     *slog.Logger
}

func NewOrchestrator(log *slog.Logger, engines ...Engine) *Orchestrator {
	return &Orchestrator{engines: engines, log: log}
}

func (o *Orchestrator) Crawl(ctx context.Context, target models.CrawlTarget) ([]models.ExtractedPage, error) {
	for _, eng := range o.engines {
		pages, err := eng.Crawl(ctx, target)
		if err != nil {
			o.log.Warn("crawl engine failed", "domain", target.Domain, "error", err)
			continue
		}
		if len(pages) > 0 {
			o.log.Info("crawl complete", "domain", target.Domain, "pages", len(pages))
			return pages, nil
		}
		o.log.Warn("crawl engine returned no pages", "domain", target.Domain)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnreachable, target.Domain)
}
