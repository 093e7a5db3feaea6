package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fwojciec/offercrawl"
	"github.com/fwojciec/offercrawl/crawl"
)

// linkURLWidth is the column width of link URLs in the links listing.
const linkURLWidth = 60

// Run executes the links command.
func (c *LinksCmd) Run(deps *Dependencies) error {
	links, err := deps.Crawler.PreviewLinks(deps.Ctx, previewURL(c.URL))
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}
	if len(links) == 0 {
		fmt.Fprintln(deps.Stdout, "No offering links found.")
		return nil
	}
	for _, l := range links {
		fmt.Fprintf(deps.Stdout, "%-8s %-*s  %s\n", l.Type, linkURLWidth, crawl.TruncateURL(l.URL, linkURLWidth), l.LinkText)
	}
	return nil
}

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	role, err := offercrawl.ParsePageRole(c.Role)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", offercrawl.ErrorMessage(err))
		return err
	}

	kws, res, err := deps.Crawler.Preview(deps.Ctx, previewURL(c.URL), role)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}
	sorted := kws.Sorted()

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(sorted)
	}

	fmt.Fprintf(deps.Stdout, "%s (%s): %d keywords\n", res.FinalURL, role, len(sorted))
	for _, k := range sorted {
		fmt.Fprintf(deps.Stdout, "  %.2f  %-16s %s\n", k.Confidence, k.Method, k.Text)
	}
	return nil
}

// previewURL accepts a URL without a scheme and assumes https.
func previewURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.Contains(raw, "://") {
		return "https://" + raw
	}
	return raw
}
