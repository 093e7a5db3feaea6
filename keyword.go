package offercrawl

import (
	"context"
	"sort"
	"time"
)

// Method identifies the extraction strategy that produced a keyword.
type Method string

// Extraction methods.
const (
	MethodH1             Method = "h1"
	MethodTitle          Method = "title"
	MethodH2             Method = "h2"
	MethodH3             Method = "h3"
	MethodH4             Method = "h4"
	MethodH5             Method = "h5"
	MethodH6             Method = "h6"
	MethodMeta           Method = "meta"
	MethodJSONLD         Method = "json_ld"
	MethodList           Method = "list"
	MethodEmphasis       Method = "emphasis"
	MethodServiceSection Method = "service_section"
	MethodProse          Method = "prose"
	MethodOfferingCard   Method = "offering_card"
	MethodMenu           Method = "menu"

	// MethodManual marks keywords recorded by hand rather than extracted.
	MethodManual Method = "manual"
)

// Candidate is keyword text proposed by a single extractor.
type Candidate struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Method     Method  `json:"method"`
	SourceURL  string  `json:"sourceUrl"`
}

// KeywordInfo describes the surviving occurrence of a keyword.
type KeywordInfo struct {
	Confidence float64 `json:"confidence"`
	Method     Method  `json:"method"`
	URL        string  `json:"url"`
}

// Keywords maps keyword text, with its original casing, to the occurrence
// that survived aggregation.
type Keywords map[string]KeywordInfo

// Keyword is one entry of a Keywords mapping.
type Keyword struct {
	Text string `json:"text"`
	KeywordInfo
}

// Sorted returns the keywords ordered by descending confidence, then text.
func (k Keywords) Sorted() []Keyword {
	out := make([]Keyword, 0, len(k))
	for text, info := range k {
		out = append(out, Keyword{Text: text, KeywordInfo: info})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence > out[j].Confidence
		}
		return out[i].Text < out[j].Text
	})
	return out
}

// KeywordExtractor extracts the final keyword set of one page.
type KeywordExtractor interface {
	// ExtractKeywords parses html and extracts keywords according to the
	// declared page role. An empty result is not an error.
	ExtractKeywords(html, pageURL string, role PageRole) (Keywords, error)
}

// KeywordRecord is a keyword observed on one company's site.
type KeywordRecord struct {
	CompanyID  string      `json:"companyId"`
	Section    SectionCode `json:"section"`
	Keyword    string      `json:"keyword"`
	Confidence float64     `json:"confidence"`
	Method     Method      `json:"method"`
	SourceURL  string      `json:"sourceUrl"`
}

// Validate returns an error if the record contains invalid fields.
func (r *KeywordRecord) Validate() error {
	if r.CompanyID == "" {
		return Errorf(EINVALID, "keyword company ID required")
	}
	if !r.Section.Valid() {
		return Errorf(EINVALID, "invalid section %q", r.Section)
	}
	if NormalizeKeyword(r.Keyword) == "" {
		return Errorf(EINVALID, "keyword text required")
	}
	return nil
}

// StoreResult summarizes a batch store.
type StoreResult struct {
	Total int `json:"total"`
	New   int `json:"new"`
}

// KeywordStat aggregates a keyword across all companies.
type KeywordStat struct {
	Keyword           string    `json:"keyword"`
	NormalizedKeyword string    `json:"normalizedKeyword"`
	UniqueDomains     int       `json:"uniqueDomains"`
	TotalOccurrences  int       `json:"totalOccurrences"`
	LastSeen          time.Time `json:"lastSeen"`
}

// KeywordService represents a service for persisting extracted keywords.
// Storing the same keyword twice for a company and section is idempotent
// apart from occurrence counters.
type KeywordService interface {
	// StoreKeyword stores one keyword and reports whether it is new for the
	// record's company and section.
	StoreKeyword(ctx context.Context, rec *KeywordRecord) (isNew bool, err error)

	// StoreKeywords stores a page's keyword set in one transaction.
	StoreKeywords(ctx context.Context, companyID string, section SectionCode, kws Keywords) (*StoreResult, error)

	// FindTopKeywords returns keywords ordered by the number of companies
	// they were found on.
	FindTopKeywords(ctx context.Context, limit int) ([]*KeywordStat, error)

	// FindCompanyKeywords returns the keywords stored for a company.
	// Returns ENOTFOUND if the company does not exist.
	FindCompanyKeywords(ctx context.Context, companyID string) ([]*KeywordRecord, error)
}
