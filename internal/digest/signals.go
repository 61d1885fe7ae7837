package digest

import (
	"strings"
	"unicode/utf8"

	"sitedigest/internal/clean"
	"sitedigest/internal/models"
)

const (
	maxTaglineLen = 120
	maxProductLen = 80
)

// Signals derives site-wide company signals from the categorized,
// deduplicated page set.
func Signals(pages []models.ExtractedPage) models.CompanySignals {
	var sig models.CompanySignals

	for _, p := range pages {
		if p.Category != models.CategoryHome {
			continue
		}
		switch {
		case p.H1 != "":
			sig.Tagline = p.H1
		case p.StructuredData.OGTitle != "":
			sig.Tagline = p.StructuredData.OGTitle
		default:
			sig.Tagline = p.MetaDescription
		}
		break
	}
	if utf8.RuneCountInString(sig.Tagline) > maxTaglineLen {
		if sentences := clean.SplitSentences(sig.Tagline); len(sentences) > 0 {
			sig.Tagline = sentences[0]
		}
	}

	seen := make(map[string]bool)
	for _, p := range pages {
		if p.Category != models.CategoryProduct {
			continue
		}
		name := p.H1
		if name == "" {
			name = p.Title
		}
		if name == "" || utf8.RuneCountInString(name) >= maxProductLen || seen[name] {
			continue
		}
		seen[name] = true
		sig.Products = append(sig.Products, name)
	}

	for _, p := range pages {
		if sig.SiteName == "" && p.StructuredData.OGSiteName != "" {
			sig.SiteName = p.StructuredData.OGSiteName
		}
		switch p.Category {
		case models.CategoryPricing:
			sig.HasPricing = true
		case models.CategoryBlog:
			sig.HasBlog = true
		case models.CategoryCareers:
			sig.HasCareers = true
		}
	}
	return sig
}

// summary picks the best description for a page: meta description,
// OpenGraph description, schema description, then h1, falling back to
// the first two body sentences. When a description source exists, up
// to three body sentences that are not near-duplicates are appended.
// Everything flows through the shared dedup state.
func summary(page models.ExtractedPage, st *State) string {
	desc := page.MetaDescription
	if desc == "" {
		desc = page.StructuredData.OGDescription
	}
	if desc == "" {
		desc = page.StructuredData.SchemaDescription
	}
	if desc == "" {
		desc = page.H1
	}

	body := clean.SplitSentences(page.TextPreview)
	if desc == "" {
		n := len(body)
		if n > 2 {
			n = 2
		}
		if n == 0 {
			return ""
		}
		return st.Filter(strings.Join(body[:n], " "))
	}

	parts := make([]string, 0, 4)
	if kept := st.Filter(desc); kept != "" {
		parts = append(parts, kept)
	}
	extras := 0
	for _, s := range body {
		if extras >= 3 {
			break
		}
		if kept := st.Filter(s); kept != "" {
			parts = append(parts, kept)
			extras++
		}
	}
	return strings.Join(parts, " ")
}
