// Package categorize assigns pages to the fixed category taxonomy via
// a deterministic three-pass rule cascade: URL path keywords, content
// keywords, then URL-segment heuristics. First match wins; table order
// is the tie-break.
package categorize

import (
	"net/url"
	"strings"
	"unicode"

	"sitedigest/internal/models"
)

type rule struct {
	category models.Category
	keywords []string
}

// urlRules match slugs: high precision, tried first.
var urlRules = []rule{
	{models.CategoryPricing, []string{"pricing", "plans", "tarif", "price", "cost", "subscription"}},
	{models.CategoryProduct, []string{"product", "features", "solution", "use-case", "platform", "capabilities"}},
	{models.CategoryAbout, []string{"about", "team", "a-propos", "qui-sommes", "our-story", "our-team", "leadership"}},
	{models.CategoryContact, []string{"contact", "contact-us", "contactez"}},
	{models.CategoryBlog, []string{"blog", "articles", "news", "actualites", "insights", "resources"}},
	{models.CategoryLegal, []string{"privacy", "terms", "legal", "cgu", "cgv", "mentions-legales", "cookie", "gdpr", "imprint", "disclaimer"}},
	{models.CategoryCareers, []string{"careers", "jobs", "recrutement", "hiring", "open-positions", "join-us", "work-with-us"}},
	{models.CategoryFAQ, []string{"faq", "help", "support", "help-center", "knowledge-base"}},
	{models.CategoryPartners, []string{"partner", "partenaire", "integrations", "marketplace", "ecosystem"}},
	{models.CategoryCaseStudy, []string{"case-stud", "temoignage", "success-stor", "customer-stor", "clients", "testimonial"}},
	{models.CategoryPress, []string{"press", "presse", "media", "newsroom", "in-the-news"}},
	{models.CategoryInvestors, []string{"investor", "ir", "shareholders", "annual-report", "governance"}},
	{models.CategorySecurity, []string{"security", "compliance", "trust", "certifications", "soc2", "iso27001"}},
	{models.CategoryAPI, []string{"api", "docs", "documentation", "developer", "reference", "changelog", "sdk"}},
}

// contentRules match prose in title/h1/meta/headings, tried when the
// slug says nothing.
var contentRules = []rule{
	{models.CategoryPricing, []string{"pricing", "price", "cost", "subscription", "free trial", "per month", "per year", "plan"}},
	{models.CategoryProduct, []string{"product", "feature", "solution", "how it works", "capabilities", "platform"}},
	{models.CategoryAbout, []string{"about us", "our team", "our story", "who we are", "our mission", "founded"}},
	{models.CategoryContact, []string{"contact us", "get in touch", "reach out"}},
	{models.CategoryBlog, []string{"blog", "article", "news", "latest post", "insights"}},
	{models.CategoryLegal, []string{"privacy policy", "terms of service", "terms and conditions", "cookie policy", "legal notice"}},
	{models.CategoryCareers, []string{"careers", "open positions", "join our team", "we're hiring", "job opening"}},
	{models.CategoryFAQ, []string{"frequently asked", "faq", "help center", "common questions"}},
	{models.CategoryPartners, []string{"partners", "integrations", "marketplace", "ecosystem"}},
	{models.CategoryCaseStudy, []string{"case study", "customer story", "success story", "testimonial"}},
	{models.CategoryPress, []string{"press release", "in the news", "media coverage", "newsroom"}},
	{models.CategoryInvestors, []string{"investor relations", "shareholders", "annual report", "quarterly results"}},
	{models.CategorySecurity, []string{"security", "compliance", "trust center", "certifications", "data protection"}},
	{models.CategoryAPI, []string{"api reference", "documentation", "developer guide", "sdk", "api docs"}},
}

// productPrefixes catch explanatory-page slugs like /why-acme.
var productPrefixes = []string{"why-", "how-it-works", "what-is-", "tour", "demo", "overview"}

// Page classifies one page. It is a pure function of the URL and the
// extracted content.
func Page(pageURL string, page models.ExtractedPage) models.Category {
	var path string
	if u, err := url.Parse(pageURL); err == nil {
		path = strings.ToLower(strings.Trim(u.Path, "/"))
	}

	// Homepage: empty path, explicit index, or a short alphabetic
	// locale prefix such as /fr.
	switch path {
	case "", "home", "index", "index.html":
		return models.CategoryHome
	}
	if len(path) <= 3 && isAlpha(path) {
		return models.CategoryHome
	}

	for _, r := range urlRules {
		for _, kw := range r.keywords {
			if strings.Contains(path, kw) {
				return r.category
			}
		}
	}

	searchable := strings.ToLower(strings.Join([]string{
		page.Title, page.H1, page.MetaDescription, strings.Join(page.Headings, " "),
	}, " "))
	for _, r := range contentRules {
		for _, kw := range r.keywords {
			if strings.Contains(searchable, kw) {
				return r.category
			}
		}
	}

	for _, segment := range strings.Split(path, "/") {
		for _, prefix := range productPrefixes {
			if strings.HasPrefix(segment, prefix) {
				return models.CategoryProduct
			}
		}
	}

	return models.CategoryOther
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return s != ""
}
