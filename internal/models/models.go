package models

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Category is the fixed taxonomy of marketing-site sections.
type Category string

const (
	CategoryHome      Category = "home"
	CategoryProduct   Category = "product"
	CategoryPricing   Category = "pricing"
	CategoryAbout     Category = "about"
	CategoryContact   Category = "contact"
	CategoryBlog      Category = "blog"
	CategoryLegal     Category = "legal"
	CategoryCareers   Category = "careers"
	CategoryFAQ       Category = "faq"
	CategoryPartners  Category = "partners"
	CategoryCaseStudy Category = "case-study"
	CategoryPress     Category = "press"
	CategoryInvestors Category = "investors"
	CategorySecurity  Category = "security"
	CategoryAPI       Category = "api"
	CategoryOther     Category = "other"
)

// categoryPriority orders categories for digest assembly and trimming.
// Lower rank renders earlier and survives trimming longer.
var categoryPriority = map[Category]int{
	CategoryHome:      0,
	CategoryProduct:   1,
	CategoryPricing:   2,
	CategoryAbout:     3,
	CategoryContact:   4,
	CategoryBlog:      5,
	CategoryLegal:     6,
	CategoryCareers:   7,
	CategoryFAQ:       8,
	CategoryPartners:  9,
	CategoryCaseStudy: 10,
	CategoryPress:     11,
	CategoryInvestors: 12,
	CategorySecurity:  13,
	CategoryAPI:       14,
	CategoryOther:     15,
}

// Priority returns the digest ordering rank for c. Unknown values rank
// with CategoryOther.
func (c Category) Priority() int {
	if p, ok := categoryPriority[c]; ok {
		return p
	}
	return categoryPriority[CategoryOther]
}

// StructuredData holds JSON-LD and OpenGraph fields captured from a
// page's head before any element removal.
type StructuredData struct {
	SchemaDescription string `json:"schema_description,omitempty"`
	SchemaName        string `json:"schema_name,omitempty"`
	SchemaType        string `json:"schema_type,omitempty"`
	OGDescription     string `json:"og_description,omitempty"`
	OGTitle           string `json:"og_title,omitempty"`
	OGSiteName        string `json:"og_site_name,omitempty"`
}

// ExtractedPage is the semantic content of one fetched document. All
// text fields are normalized before the page leaves the extractor;
// Category is filled in later by the categorizer.
type ExtractedPage struct {
	URL             string         `json:"url"`
	Title           string         `json:"title"`
	MetaDescription string         `json:"meta_description"`
	H1              string         `json:"h1"`
	Headings        []string       `json:"headings"`
	TextPreview     string         `json:"text_preview"`
	StructuredData  StructuredData `json:"structured_data"`
	Category        Category       `json:"category,omitempty"`
}

// CrawlTarget is the parsed form of the user-supplied URL, created
// once per request.
type CrawlTarget struct {
	RawURL        string
	NormalizedURL string
	Scheme        string
	Domain        string
}

// ErrInvalidTarget marks input rejected before any network access.
var ErrInvalidTarget = errors.New("invalid target url")

// NewCrawlTarget validates and normalizes the user input, prepending
// https:// when no scheme is given.
func NewCrawlTarget(raw string) (CrawlTarget, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return CrawlTarget{}, fmt.Errorf("%w: empty url", ErrInvalidTarget)
	}
	normalized := raw
	if !strings.HasPrefix(normalized, "http://") && !strings.HasPrefix(normalized, "https://") {
		normalized = "https://" + normalized
	}
	u, err := url.Parse(normalized)
	if err != nil {
		return CrawlTarget{}, fmt.Errorf("%w: %v", ErrInvalidTarget, err)
	}
	if u.Host == "" {
		return CrawlTarget{}, fmt.Errorf("%w: missing host in %q", ErrInvalidTarget, raw)
	}
	return CrawlTarget{
		RawURL:        raw,
		NormalizedURL: strings.TrimSuffix(normalized, "/"),
		Scheme:        u.Scheme,
		Domain:        u.Host,
	}, nil
}

// CompanySignals are site-wide facts derived once per crawl from the
// categorized, deduplicated page set.
type CompanySignals struct {
	Tagline    string   `json:"tagline,omitempty"`
	Products   []string `json:"products,omitempty"`
	SiteName   string   `json:"site_name,omitempty"`
	HasPricing bool     `json:"has_pricing"`
	HasBlog    bool     `json:"has_blog"`
	HasCareers bool     `json:"has_careers"`
}

// DigestBlock is one rendered page section of the digest.
type DigestBlock struct {
	Category Category `json:"category"`
	Path     string   `json:"path"`
	Text     string   `json:"text"`
	Bytes    int      `json:"bytes"`
}

// Digest is the final budget-constrained artifact.
type Digest struct {
	Header     string        `json:"header"`
	Blocks     []DigestBlock `json:"blocks"`
	TotalBytes int           `json:"total_bytes"`
}

// Render joins the header and blocks into the digest string. Its
// UTF-8 byte length equals TotalBytes.
func (d Digest) Render() string {
	var b strings.Builder
	b.WriteString(d.Header)
	for _, blk := range d.Blocks {
		b.WriteString("\n\n")
		b.WriteString(blk.Text)
	}
	return b.String()
}
