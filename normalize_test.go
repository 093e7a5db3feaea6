package offercrawl_test

import (
	"testing"

	"github.com/fwojciec/offercrawl"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeKeyword(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases", "Cloud Hosting", "cloud hosting"},
		{"spells out ampersand", "Cloud & DevOps", "cloud and devops"},
		{"spells out slash and trims hyphens", "  --AI/ML Consulting--  ", "ai or ml consulting"},
		{"spells out plus", "C++ Development", "c plus plus development"},
		{"strips punctuation", "24/7 Support!", "24 or 7 support"},
		{"strips brackets", "SEO (Search)", "seo search"},
		{"collapses hyphen runs", "end---to---end", "end-to-end"},
		{"keeps non-ascii letters", "Café Catering", "café catering"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, offercrawl.NormalizeKeyword(tt.input))
		})
	}
}

func TestNormalizeKeyword_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"Cloud & DevOps / CI",
		"  Managed IT -- Services ",
		"100% Uptime Hosting",
		"#1 Rated SEO @ Scale",
	}
	for _, in := range inputs {
		once := offercrawl.NormalizeKeyword(in)
		assert.Equal(t, once, offercrawl.NormalizeKeyword(once), in)
	}
}

func TestSanitizeText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"splits glued words", "WebDesignServices", "Web Design Services"},
		{"replaces dash runs", "Consulting -- Strategy", "Consulting Strategy"},
		{"truncates at email", "Contact sales@example.com", "Contact sales"},
		{"truncates at phone number", "Call 555-123-4567 today", "Call"},
		{"truncates at area code in parentheses", "Roofing (555) 123-4567", "Roofing"},
		{"truncates at local number", "Cloud Consulting 555-1234", "Cloud Consulting"},
		{"truncates at short space separated number", "Cloud Consulting 555 123", "Cloud Consulting"},
		{"truncates at dotted number", "Cloud Consulting 555.1234 ext", "Cloud Consulting"},
		{"keeps numbers without separator", "Top 100 Agency", "Top 100 Agency"},
		{"collapses repeated punctuation", "Wow!!! Great...", "Wow! Great"},
		{"strips quotes", `"Cloud Hosting"`, "Cloud Hosting"},
		{"keeps balanced brackets", "Search Engine Optimization (SEO)", "Search Engine Optimization (SEO)"},
		{"strips bullets", "  • Managed IT  ", "Managed IT"},
		{"collapses whitespace", "Cloud \n\t Hosting", "Cloud Hosting"},
		{"keeps trailing plus", "Notepad++", "Notepad++"},
		{"keeps trailing hash", "C#", "C#"},
		{"strips unbalanced closing bracket", "Roof Repair)", "Roof Repair"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, offercrawl.SanitizeText(tt.input))
		})
	}
}

func TestSplitMenuText(t *testing.T) {
	t.Parallel()

	t.Run("splits on separators and normalizes", func(t *testing.T) {
		t.Parallel()

		got := offercrawl.SplitMenuText("Services | Products / Support,Training")

		assert.Equal(t, []string{"services", "products", "support", "training"}, got)
	})

	t.Run("drops parts shorter than two characters", func(t *testing.T) {
		t.Parallel()

		got := offercrawl.SplitMenuText("A, Cloud\n\t-")

		assert.Equal(t, []string{"cloud"}, got)
	})
}

func TestNormalizeDomain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"https://www.Example.com/path?x=1", "example.com"},
		{"www.example.com", "example.com"},
		{"Example.com/", "example.com"},
		{"http://shop.example.co.uk", "shop.example.co.uk"},
		{"  example.org  ", "example.org"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, offercrawl.NormalizeDomain(tt.input))
		})
	}
}

func TestHomepageURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://example.com", offercrawl.HomepageURL("www.example.com"))
}
