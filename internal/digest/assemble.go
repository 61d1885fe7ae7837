package digest

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"sitedigest/internal/models"
)

const (
	blockSeparator   = "\n\n"
	truncStep        = 50
	ellipsis         = "..."
	maxBlockHeadings = 4
)

// Assemble renders the digest for a deduplicated, categorized page
// set, never exceeding maxBytes unless the header alone already does.
func Assemble(domain string, pages []models.ExtractedPage, maxBytes int) models.Digest {
	ordered := make([]models.ExtractedPage, len(pages))
	copy(ordered, pages)
	// Stable sort: ties keep discovery order.
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Category.Priority() < ordered[j].Category.Priority()
	})

	sig := Signals(pages)
	header := renderHeader(domain, sig, len(pages))

	remaining := maxBytes - len(header) - len(ordered)*len(blockSeparator)
	if remaining < 0 {
		remaining = 0
	}
	perPage := 0
	if len(ordered) > 0 {
		perPage = remaining / len(ordered)
	}

	st := NewState()
	blocks := make([]models.DigestBlock, 0, len(ordered))
	for i, p := range ordered {
		text := truncateToBytes(renderBlock(p, st), tierAllowance(perPage, i))
		if text == "" {
			continue
		}
		blocks = append(blocks, models.DigestBlock{
			Category: p.Category,
			Path:     pathOf(p.URL),
			Text:     text,
			Bytes:    len(text),
		})
	}

	// Progressive trimming: drop lowest-priority blocks from the end
	// until the whole digest fits. The header is never dropped.
	total := renderedBytes(header, blocks)
	for total > maxBytes && len(blocks) > 0 {
		blocks = blocks[:len(blocks)-1]
		total = renderedBytes(header, blocks)
	}

	return models.Digest{Header: header, Blocks: blocks, TotalBytes: total}
}

// renderedBytes mirrors Digest.Render: header plus a separator before
// every block.
func renderedBytes(header string, blocks []models.DigestBlock) int {
	total := len(header)
	for _, blk := range blocks {
		total += len(blockSeparator) + len(blk.Text)
	}
	return total
}

// tierAllowance scales the per-page byte allowance: the first three
// pages are the most likely to carry decision-relevant content.
func tierAllowance(perPage, index int) int {
	switch {
	case index < 3:
		return perPage * 14 / 10
	case index < 6:
		return perPage
	default:
		return perPage * 7 / 10
	}
}

func renderHeader(domain string, sig models.CompanySignals, pageCount int) string {
	var b strings.Builder
	name := sig.SiteName
	if name == "" {
		name = domain
	}
	fmt.Fprintf(&b, "# %s (%s)\n", name, domain)
	if sig.Tagline != "" {
		fmt.Fprintf(&b, "Tagline: %s\n", sig.Tagline)
	}
	if len(sig.Products) > 0 {
		fmt.Fprintf(&b, "Products: %s\n", strings.Join(sig.Products, ", "))
	}
	fmt.Fprintf(&b, "Pages: %d | pricing: %s | blog: %s | careers: %s",
		pageCount, yesNo(sig.HasPricing), yesNo(sig.HasBlog), yesNo(sig.HasCareers))
	return b.String()
}

// renderBlock renders one page: category tag, path, deduplicated
// summary, and up to four headings not already implied by the summary.
func renderBlock(p models.ExtractedPage, st *State) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## [%s] %s", p.Category, pathOf(p.URL))

	if s := summary(p, st); s != "" {
		b.WriteString("\n")
		b.WriteString(s)
	}

	var kept []string
	summaryWords := wordSet(b.String())
	for _, h := range p.Headings {
		if len(kept) >= maxBlockHeadings {
			break
		}
		if overlap(wordSet(h), summaryWords) > overlapThreshold {
			continue
		}
		if containsHeading(kept, h) {
			continue
		}
		kept = append(kept, h)
	}
	if len(kept) > 0 {
		b.WriteString("\nHeadings: ")
		b.WriteString(strings.Join(kept, " | "))
	}
	return b.String()
}

func containsHeading(kept []string, h string) bool {
	for _, k := range kept {
		if strings.EqualFold(k, h) {
			return true
		}
	}
	return false
}

// truncateToBytes repeatedly cuts the last 50 characters and appends
// an ellipsis until the text fits. Returns "" when nothing meaningful
// fits.
func truncateToBytes(s string, maxBytes int) string {
	if len(s) <= maxBytes {
		return s
	}
	runes := []rune(s)
	for {
		if len(runes) <= truncStep {
			return ""
		}
		runes = runes[:len(runes)-truncStep]
		if len(string(runes))+len(ellipsis) <= maxBytes {
			return strings.TrimRight(string(runes), " \n") + ellipsis
		}
	}
}

func pathOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Path == "" {
		return "/"
	}
	return u.Path
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
