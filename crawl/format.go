package crawl

import "fmt"

// TruncateURL shortens a URL for display, keeping the end which is more informative.
func TruncateURL(url string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if maxLen < 4 {
		// Too short for "..." prefix, just return dots
		return url[:min(len(url), maxLen)]
	}
	if len(url) <= maxLen {
		return url
	}
	return "..." + url[len(url)-maxLen+3:]
}

// FormatResult summarizes a company crawl on one line.
func FormatResult(r *Result) string {
	if r == nil {
		return "no result"
	}
	s := fmt.Sprintf("%s, %d keywords (%d new; menu %d, offerings %d)",
		plural(r.PagesCrawled, "page"), r.KeywordsFound, r.NewKeywords, r.MenuKeywords, r.OfferingKeywords)
	if r.PagesFailed > 0 {
		s += fmt.Sprintf(", %d failed", r.PagesFailed)
	}
	if r.PagesSkipped > 0 {
		s += fmt.Sprintf(", %d duplicate", r.PagesSkipped)
	}
	return s
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
