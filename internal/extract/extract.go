// Package extract turns one parsed document into an ExtractedPage and
// discovers same-domain navigation links.
package extract

import (
	"encoding/json"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"sitedigest/internal/clean"
	"sitedigest/internal/models"
)

const noiseTags = "script,style,noscript,nav,footer,aside,header"

// Elements whose role/class/id marks them as chrome rather than
// content. Removed from a working copy only, after head metadata has
// been captured.
var noiseSelectors = []string{
	"[role='navigation']", "[role='banner']", "[role='contentinfo']",
	"[class*='cookie']", "[id*='cookie']",
	"[class*='banner']", "[class*='popup']", "[class*='modal']",
	"[class*='mega-menu']", "[class*='nav-']", "[class*='dropdown-menu']",
}

// minPreviewLen is the body-text length below which the readability
// fallback is attempted.
const minPreviewLen = 200

// Block-level tags get padded with spaces before flattening to text,
// otherwise adjacent words from sibling elements merge.
var blockTagRe = regexp.MustCompile(`(?i)</?(?:div|p|br|li|td|tr|section|ul|ol|h[1-6])[^>]*>`)

// Page extracts semantic content from a parsed document. Structured
// metadata is captured before noisy elements are removed: removal only
// targets body-rendering elements.
func Page(doc *goquery.Document, pageURL string) models.ExtractedPage {
	structured := structuredData(doc)

	title := clean.Normalize(doc.Find("title").First().Text())
	metaDesc := clean.Normalize(doc.Find(`meta[name="description"]`).AttrOr("content", ""))
	h1 := clean.Normalize(doc.Find("h1").First().Text())

	var headings []string
	doc.Find("h2,h3").Each(func(_ int, s *goquery.Selection) {
		if h := clean.Normalize(s.Text()); h != "" {
			headings = append(headings, h)
		}
	})

	preview := textPreview(doc)
	if len(preview) < minPreviewLen {
		if alt := readabilityPreview(doc, pageURL); len(alt) > len(preview) {
			preview = alt
		}
	}

	return models.ExtractedPage{
		URL:             pageURL,
		Title:           title,
		MetaDescription: metaDesc,
		H1:              h1,
		Headings:        headings,
		TextPreview:     preview,
		StructuredData:  structured,
	}
}

// textPreview removes boilerplate elements from a working copy and
// flattens the primary content region, preferring main, then article,
// then body.
func textPreview(doc *goquery.Document) string {
	work := goquery.CloneDocument(doc)
	work.Find(noiseTags).Remove()
	for _, sel := range noiseSelectors {
		work.Find(sel).Remove()
	}

	region := work.Find("main").First()
	if region.Length() == 0 {
		region = work.Find("article").First()
	}
	if region.Length() == 0 {
		region = work.Find("body")
	}
	if region.Length() == 0 {
		return ""
	}

	html, err := goquery.OuterHtml(region)
	if err != nil {
		return ""
	}
	spaced, err := goquery.NewDocumentFromReader(strings.NewReader(padBlockTags(html)))
	if err != nil {
		return ""
	}
	return clean.RemoveBoilerplate(clean.Normalize(spaced.Text()))
}

func padBlockTags(html string) string {
	return blockTagRe.ReplaceAllStringFunc(html, func(m string) string {
		return " " + m + " "
	})
}

// readabilityPreview re-extracts the page through go-readability when
// the region-based pass yields too little text, e.g. heavily nested
// markup with no main/article landmark.
func readabilityPreview(doc *goquery.Document, pageURL string) string {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	html, err := doc.Html()
	if err != nil {
		return ""
	}
	article, err := readability.FromReader(strings.NewReader(html), parsed)
	if err != nil {
		return ""
	}
	return clean.RemoveBoilerplate(clean.Normalize(article.TextContent))
}

// structuredData pulls JSON-LD and OpenGraph fields. JSON-LD blocks
// that fail to parse, or parse to an unexpected shape, are skipped;
// that is not an error condition.
func structuredData(doc *goquery.Document) models.StructuredData {
	var sd models.StructuredData

	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		var raw any
		if err := json.Unmarshal([]byte(s.Text()), &raw); err != nil {
			return
		}
		if arr, ok := raw.([]any); ok {
			if len(arr) == 0 {
				return
			}
			raw = arr[0]
		}
		obj, ok := raw.(map[string]any)
		if !ok {
			return
		}
		if v, ok := obj["description"].(string); ok && v != "" {
			sd.SchemaDescription = clean.Normalize(v)
		}
		if v, ok := obj["name"].(string); ok && v != "" {
			sd.SchemaName = clean.Normalize(v)
		}
		switch v := obj["@type"].(type) {
		case string:
			sd.SchemaType = v
		case []any:
			if len(v) > 0 {
				if s, ok := v[0].(string); ok {
					sd.SchemaType = s
				}
			}
		}
	})

	if v := doc.Find(`meta[property="og:description"]`).AttrOr("content", ""); v != "" {
		sd.OGDescription = clean.Normalize(v)
	}
	if v := doc.Find(`meta[property="og:title"]`).AttrOr("content", ""); v != "" {
		sd.OGTitle = clean.Normalize(v)
	}
	if v := doc.Find(`meta[property="og:site_name"]`).AttrOr("content", ""); v != "" {
		sd.OGSiteName = clean.Normalize(v)
	}
	return sd
}
