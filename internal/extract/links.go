package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DiscoverLinks returns absolute same-domain links from navigation-like
// regions of the document, deduplicated in insertion order. When no
// such region yields links, every anchor on the page is scanned.
func DiscoverLinks(doc *goquery.Document, baseURL string) []string {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var links []string
	collect := func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok || href == "" {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		resolved := base.ResolveReference(ref)
		if resolved.Scheme != "http" && resolved.Scheme != "https" {
			return
		}
		if resolved.Host != base.Host {
			return
		}
		resolved.Fragment = ""
		link := strings.TrimSuffix(resolved.String(), "/")
		if link == "" || seen[link] {
			return
		}
		seen[link] = true
		links = append(links, link)
	}

	doc.Find("nav, header, [role='navigation'], [role='banner']").Find("a[href]").Each(collect)
	if len(links) == 0 {
		doc.Find("a[href]").Each(collect)
	}
	return links
}
