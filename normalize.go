package offercrawl

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

var keywordSymbols = strings.NewReplacer(
	"&", " and ",
	"/", " or ",
	"+", " plus ",
	"@", " at ",
	"#", " number ",
	"%", " percent ",
)

var (
	nonKeywordCharRe = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)
	whitespaceRunRe  = regexp.MustCompile(`\s+`)
	hyphenRunRe      = regexp.MustCompile(`-+`)
)

// NormalizeKeyword returns the canonical form of a keyword used for
// storage-level deduplication. The result is lowercase, common symbols are
// spelled out as words, and only letters, digits, spaces and single hyphens
// remain.
func NormalizeKeyword(text string) string {
	s := strings.ToLower(text)
	s = keywordSymbols.Replace(s)
	s = nonKeywordCharRe.ReplaceAllString(s, "")
	s = hyphenRunRe.ReplaceAllString(s, "-")
	s = whitespaceRunRe.ReplaceAllString(s, " ")
	return strings.Trim(s, " -")
}

var (
	camelBoundaryRe = regexp.MustCompile(`(\p{Ll})(\p{Lu})`)
	dashRunRe       = regexp.MustCompile(`[-–—]{2,}`)
	phoneRe         = regexp.MustCompile(`\(\d{3}\)\s?\d{3}[\s.\-]\d{4}|\d{3}[\s.\-)]\d{3,4}`)
	periodRunRe     = regexp.MustCompile(`\.{2,}`)
	bangRunRe       = regexp.MustCompile(`!{2,}`)
)

// SanitizeText repairs common artifacts of text scraped from HTML: words
// glued together by markup, separator dashes, trailing e-mail addresses and
// phone numbers, repeated punctuation and stray edge punctuation.
func SanitizeText(text string) string {
	s := camelBoundaryRe.ReplaceAllString(text, "$1 $2")
	s = dashRunRe.ReplaceAllString(s, " ")
	if i := strings.IndexByte(s, '@'); i >= 0 {
		s = s[:i]
	}
	if loc := phoneRe.FindStringIndex(s); loc != nil {
		s = s[:loc[0]]
	}
	s = periodRunRe.ReplaceAllString(s, ".")
	s = bangRunRe.ReplaceAllString(s, "!")
	s = whitespaceRunRe.ReplaceAllString(s, " ")
	return trimEdgePunct(s)
}

// trimEdgePunct strips punctuation, quotes and brackets from both ends.
// A closing bracket is kept when it balances an opening one.
func trimEdgePunct(s string) string {
	for {
		prev := s
		s = strings.TrimLeftFunc(s, func(r rune) bool {
			return unicode.IsSpace(r) || (isEdgePunct(r) && r != '(' && r != '[')
		})
		s = strings.TrimRightFunc(s, func(r rune) bool {
			return unicode.IsSpace(r) || (isEdgePunct(r) && r != ')' && r != ']')
		})
		if strings.HasSuffix(s, ")") && strings.Count(s, "(") < strings.Count(s, ")") {
			s = s[:len(s)-1]
		}
		if strings.HasSuffix(s, "]") && strings.Count(s, "[") < strings.Count(s, "]") {
			s = s[:len(s)-1]
		}
		if strings.HasPrefix(s, "(") && !strings.Contains(s, ")") {
			s = s[1:]
		}
		if strings.HasPrefix(s, "[") && !strings.Contains(s, "]") {
			s = s[1:]
		}
		if s == prev {
			return s
		}
	}
}

func isEdgePunct(r rune) bool {
	switch r {
	case '+', '#', '&', '%':
		return false
	}
	return unicode.IsPunct(r) || r == '|' || r == '~' || r == '<' || r == '>' || r == '•' || r == '·'
}

var menuSplitRe = regexp.MustCompile(`[,|/\n\t]+`)

// SplitMenuText splits a navigation label that packs several items into
// one string and returns the normalized parts. Parts shorter than two
// characters are dropped.
func SplitMenuText(text string) []string {
	var parts []string
	for _, part := range menuSplitRe.Split(text, -1) {
		norm := NormalizeKeyword(part)
		if len([]rune(norm)) < 2 {
			continue
		}
		parts = append(parts, norm)
	}
	return parts
}

// NormalizeDomain reduces a URL or bare domain to its lowercase host name
// without a leading "www.".
func NormalizeDomain(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}
	if strings.Contains(s, "://") {
		if u, err := url.Parse(s); err == nil {
			s = u.Host
		}
	}
	if i := strings.IndexAny(s, "/?#"); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSuffix(s, ".")
	return strings.TrimPrefix(s, "www.")
}

// HomepageURL returns the https URL of a domain's homepage.
func HomepageURL(domain string) string {
	return "https://" + NormalizeDomain(domain)
}
