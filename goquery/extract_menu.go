package goquery

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/fwojciec/offercrawl"
	"golang.org/x/net/html"
)

// Menu item length limits.
const (
	minMenuItemLength = 2
	maxMenuItemLength = 100
)

// menuContainerSelectors locate navigation menus by tag, class, id and
// ARIA role.
var menuContainerSelectors = []string{
	"nav", "menu", ".nav", "#nav", ".menu", "#menu", ".navigation",
	"#navigation", "header nav", ".navbar", ".nav-menu", ".main-menu",
	".primary-menu", ".site-navigation", ".main-navigation",
	".primary-navigation", ".header-menu", ".top-menu", ".header-nav",
	"#main-menu", "#primary-menu", "#site-navigation", ".menu-container",
	".nav-container", "[role=navigation]", "[role=menubar]",
}

var (
	menuContainerMatcher = cascadia.MustCompile(strings.Join(menuContainerSelectors, ", "))
	menuFallbackMatcher  = cascadia.MustCompile("div, ul, ol, aside, section")
	menuAriaMatcher      = cascadia.MustCompile("[aria-label]")
)

var (
	menuKeywords   = []string{"menu", "nav", "navigation", "navbar", "menubar"}
	menuAriaLabels = map[string]bool{"navigation": true, "main navigation": true, "primary navigation": true}
)

// MenuExtractor proposes navigation menu labels of a homepage.
type MenuExtractor struct {
	noise map[string]bool
}

// NewMenuExtractor returns a MenuExtractor that drops the UI control labels
// listed in vocab.
func NewMenuExtractor(vocab *offercrawl.Vocabulary) *MenuExtractor {
	e := &MenuExtractor{noise: make(map[string]bool)}
	for _, n := range vocab.MenuNoise {
		e.noise[strings.ToLower(strings.TrimSpace(n))] = true
	}
	return e
}

// Name returns the extractor's identifier.
func (e *MenuExtractor) Name() string { return "menu" }

// Extract returns one candidate per normalized keyword found in menu
// labels, in document order.
func (e *MenuExtractor) Extract(doc *goquery.Document, pageURL string) []offercrawl.Candidate {
	out := candidates{pageURL: pageURL}
	seen := make(map[string]bool)
	for _, item := range e.Items(doc) {
		for _, kw := range offercrawl.SplitMenuText(item) {
			if seen[kw] {
				continue
			}
			seen[kw] = true
			out.add(kw, ConfidenceMenu, offercrawl.MethodMenu)
		}
	}
	return out.list
}

// Items returns the cleaned, distinct menu labels of doc.
func (e *MenuExtractor) Items(doc *goquery.Document) []string {
	visited := make(map[*html.Node]bool)
	seen := make(map[string]bool)
	var items []string

	visit := func(container *goquery.Selection) {
		node := container.Get(0)
		if visited[node] {
			return
		}
		visited[node] = true
		for _, label := range containerLabels(container) {
			if seen[label] || !e.keep(label) {
				continue
			}
			seen[label] = true
			items = append(items, label)
		}
	}

	doc.FindMatcher(menuContainerMatcher).Each(func(_ int, sel *goquery.Selection) { visit(sel) })
	doc.FindMatcher(menuAriaMatcher).Each(func(_ int, sel *goquery.Selection) {
		label, _ := sel.Attr("aria-label")
		if menuAriaLabels[strings.ToLower(strings.TrimSpace(label))] {
			visit(sel)
		}
	})
	doc.FindMatcher(menuFallbackMatcher).Each(func(_ int, sel *goquery.Selection) {
		if attrContainsAny(sel, menuKeywords) {
			visit(sel)
		}
	})
	return items
}

// keep reports whether a menu label is a real item rather than noise.
func (e *MenuExtractor) keep(label string) bool {
	n := utf8.RuneCountInString(label)
	if n < minMenuItemLength || n > maxMenuItemLength {
		return false
	}
	if strings.IndexFunc(label, func(r rune) bool { return !unicode.IsDigit(r) }) < 0 {
		return false
	}
	return !e.noise[strings.ToLower(label)]
}

// containerLabels returns the labels of links, buttons and list items of a
// menu container, or of its direct spans when it has none.
func containerLabels(container *goquery.Selection) []string {
	var labels []string
	add := func(sel *goquery.Selection) {
		if label := menuLabel(sel); label != "" {
			labels = append(labels, label)
		}
	}

	container.Find("a").Each(func(_ int, sel *goquery.Selection) { add(sel) })
	container.Find("button").Each(func(_ int, sel *goquery.Selection) { add(sel) })
	container.Find("li").Each(func(_ int, li *goquery.Selection) {
		if a := li.Find("a").First(); a.Length() > 0 {
			add(a)
			return
		}
		add(li)
	})
	if len(labels) == 0 {
		container.ChildrenFiltered("span").Each(func(_ int, sel *goquery.Selection) { add(sel) })
	}
	return labels
}

// menuLabel prefers an element's aria-label over its visible text.
func menuLabel(sel *goquery.Selection) string {
	if aria, ok := sel.Attr("aria-label"); ok && strings.TrimSpace(aria) != "" {
		return offercrawl.SanitizeText(aria)
	}
	return offercrawl.SanitizeText(sel.Text())
}
