package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/offercrawl"
)

var (
	linkRegionTags     = map[string]bool{"nav": true, "header": true, "main": true}
	linkRegionKeywords = []string{"nav", "menu", "navigation", "header", "content", "main"}
)

// ClassifyLinks parses html and returns its offering links.
func (e *Engine) ClassifyLinks(html, baseURL string, maxLinks int) ([]offercrawl.OfferingLink, error) {
	doc, err := Parse(html)
	if err != nil {
		return nil, err
	}
	return e.ClassifyDocumentLinks(doc, baseURL, maxLinks)
}

// ClassifyDocumentLinks returns the offering links found in the navigation,
// header and content regions of doc, in document order. Links are resolved
// against baseURL, restricted to its host, stripped of query and fragment,
// and deduplicated. At most maxLinks links are returned; zero or less uses
// offercrawl.DefaultMaxLinks.
func (e *Engine) ClassifyDocumentLinks(doc *goquery.Document, baseURL string, maxLinks int) ([]offercrawl.OfferingLink, error) {
	base, err := url.Parse(baseURL)
	if err != nil || base.Host == "" {
		return nil, offercrawl.Errorf(offercrawl.EINVALID, "invalid base URL: %q", baseURL)
	}
	if maxLinks <= 0 {
		maxLinks = offercrawl.DefaultMaxLinks
	}

	seen := make(map[string]bool)
	var links []offercrawl.OfferingLink

	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if len(links) >= maxLinks {
			return false
		}
		if !inLinkRegion(sel) {
			return true
		}

		href, _ := sel.Attr("href")
		if href == "" || isNonHTTPLink(href) {
			return true
		}

		resolved := normalizeLink(base, href)
		if resolved == "" || seen[resolved] {
			return true
		}

		typ, ok := e.urls.Classify(resolved)
		if !ok {
			return true
		}

		seen[resolved] = true
		links = append(links, offercrawl.OfferingLink{
			URL:      resolved,
			Type:     typ,
			LinkText: collapse(sel.Text()),
		})
		return true
	})

	return links, nil
}

// inLinkRegion reports whether an anchor sits inside navigation, a header
// or the main content.
func inLinkRegion(sel *goquery.Selection) bool {
	for p := sel.Parent(); p.Length() > 0; p = p.Parent() {
		if linkRegionTags[goquery.NodeName(p)] || attrContainsAny(p, linkRegionKeywords) {
			return true
		}
	}
	return false
}

// normalizeLink resolves href against base and returns the absolute URL
// without query, fragment or trailing slash. Returns empty string for
// unparsable hrefs, non-HTTP schemes and other hosts.
func normalizeLink(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	// Exact host match, subdomains are other hosts.
	if !strings.EqualFold(resolved.Host, base.Host) {
		return ""
	}

	resolved.Fragment = ""
	resolved.RawFragment = ""
	resolved.RawQuery = ""
	resolved.ForceQuery = false
	if resolved.Path != "/" {
		resolved.Path = strings.TrimRight(resolved.Path, "/")
		resolved.RawPath = ""
	}
	return resolved.String()
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}
