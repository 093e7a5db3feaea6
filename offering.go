package offercrawl

import (
	"net/url"
	"regexp"
	"strings"
)

// DefaultMaxLinks is the default cap on classified links per homepage.
const DefaultMaxLinks = 50

// LinkType classifies an offering page.
type LinkType string

// Offering link types.
const (
	LinkListing LinkType = "listing"
	LinkDetail  LinkType = "detail"
)

// OfferingLink is a same-site link that points at an offering page.
type OfferingLink struct {
	URL      string   `json:"url"`
	Type     LinkType `json:"type"`
	LinkText string   `json:"linkText"`
}

// LinkClassifier finds offering links on a homepage.
type LinkClassifier interface {
	// ClassifyLinks parses html and returns offering links in document
	// order, resolved against baseURL and capped at maxLinks. A maxLinks of
	// zero or less uses DefaultMaxLinks.
	ClassifyLinks(html, baseURL string, maxLinks int) ([]OfferingLink, error)
}

// URLRules decides from a URL path alone whether a page is an offering
// page and which kind. URLRules is immutable and safe for concurrent use.
type URLRules struct {
	includes []string
	excludes []string
	listing  *regexp.Regexp
}

// NewURLRules compiles the URL vocabulary of vocab. A nil vocab uses
// DefaultVocabulary.
func NewURLRules(vocab *Vocabulary) *URLRules {
	if vocab == nil {
		vocab = DefaultVocabulary()
	}
	r := &URLRules{
		includes: lowerAll(vocab.URLIncludes),
		excludes: lowerAll(vocab.URLExcludes),
	}
	roots := make([]string, 0, len(r.includes))
	for _, inc := range r.includes {
		roots = append(roots, regexp.QuoteMeta(strings.Trim(inc, "/")))
	}
	r.listing = regexp.MustCompile(`^/(` + strings.Join(roots, "|") + `)/?$`)
	return r
}

var defaultURLRules = NewURLRules(nil)

// IsOfferingURL reports whether rawURL looks like an offering page under
// the default vocabulary.
func IsOfferingURL(rawURL string) bool {
	return defaultURLRules.IsOffering(rawURL)
}

// ClassifyOfferingURL classifies rawURL under the default vocabulary.
func ClassifyOfferingURL(rawURL string) (LinkType, bool) {
	return defaultURLRules.Classify(rawURL)
}

// IsOffering reports whether the path of rawURL contains an inclusion term
// and no exclusion term. Exclusions are checked first.
func (r *URLRules) IsOffering(rawURL string) bool {
	path := urlPath(rawURL)
	if containsAny(path, r.excludes) {
		return false
	}
	return containsAny(path, r.includes)
}

// Classify returns the link type of an offering URL. The second result is
// false when rawURL is not an offering URL or cannot be classified.
func (r *URLRules) Classify(rawURL string) (LinkType, bool) {
	if !r.IsOffering(rawURL) {
		return "", false
	}
	path := urlPath(rawURL)
	if r.listing.MatchString(path) {
		return LinkListing, true
	}
	var segments int
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			segments++
		}
	}
	switch {
	case segments >= 2:
		return LinkDetail, true
	case segments == 1:
		return LinkListing, true
	}
	return "", false
}

func urlPath(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return strings.ToLower(rawURL)
	}
	return strings.ToLower(u.Path)
}
