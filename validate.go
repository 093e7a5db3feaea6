package offercrawl

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Keyword length and size limits.
const (
	MinKeywordLength      = 3
	MaxKeywordLength      = 80
	MaxKeywordWords       = 15
	maxDescriptionWords   = 6
	maxCapitalizedWords   = 6
	compoundWordMinLength = 11
)

// Rejection reasons reported by Validator.Validate.
const (
	RejectEmpty       = "empty"
	RejectTooShort    = "too short"
	RejectTooLong     = "too long"
	RejectTooManyWord = "too many words"
	RejectGeneric     = "generic term"
	RejectPattern     = "excluded pattern"
	RejectNoLetters   = "no letters"
	RejectDescription = "description"
	RejectSingleWord  = "single word without offering signal"
	RejectMultiWord   = "phrase without offering signal"
)

var exclusionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`:$`),
	regexp.MustCompile(`(?i)^(and|or|our)\s`),
	regexp.MustCompile(`(?i)^(step\s+)?(\d+|[a-z]|[ivx]+)[.)]?$`),
	regexp.MustCompile(`\.$`),
}

var (
	editionMarkerRe = regexp.MustCompile(`(?i)\b(v\d+(\.\d+)*|\d+\.\d+|version|edition|pro|plus|enterprise|premium|lite|20\d\d)\b`)
	acronymRe       = regexp.MustCompile(`^[A-Z]{2,4}$`)
)

// Validator decides whether candidate text names an offering. A Validator
// is immutable and safe for concurrent use.
type Validator struct {
	generic      map[string]bool
	indicators   []string
	descriptions []string
}

// NewValidator returns a Validator built from vocab. A nil vocab uses
// DefaultVocabulary.
func NewValidator(vocab *Vocabulary) *Validator {
	if vocab == nil {
		vocab = DefaultVocabulary()
	}
	v := &Validator{
		generic:      make(map[string]bool, len(vocab.GenericTerms)),
		indicators:   lowerAll(vocab.OfferingIndicators),
		descriptions: lowerAll(vocab.DescriptionPhrases),
	}
	for _, term := range vocab.GenericTerms {
		v.generic[lower(term)] = true
	}
	return v
}

var defaultValidator = NewValidator(nil)

// ValidateKeyword reports whether text is an acceptable offering keyword
// when produced by the given extraction method, using the default
// vocabulary.
func ValidateKeyword(text string, method Method) bool {
	ok, _ := defaultValidator.Validate(text, method)
	return ok
}

// Validate reports whether text is an acceptable offering keyword. When it
// is not, reason names the rule that rejected it. Text from an
// offering_card source is trusted as a single word.
func (v *Validator) Validate(text string, method Method) (ok bool, reason string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return false, RejectEmpty
	}

	n := utf8.RuneCountInString(text)
	if n < MinKeywordLength {
		return false, RejectTooShort
	}
	if n > MaxKeywordLength {
		return false, RejectTooLong
	}

	words := strings.Fields(text)
	if len(words) > MaxKeywordWords {
		return false, RejectTooManyWord
	}

	lowered := lower(text)
	if v.generic[lowered] {
		return false, RejectGeneric
	}
	for _, re := range exclusionPatterns {
		if re.MatchString(text) {
			return false, RejectPattern
		}
	}
	if strings.IndexFunc(text, unicode.IsLetter) < 0 {
		return false, RejectNoLetters
	}
	if len(words) > maxDescriptionWords && containsAny(lowered, v.descriptions) {
		return false, RejectDescription
	}

	if len(words) == 1 {
		switch {
		case method == MethodOfferingCard:
			return true, ""
		case containsAny(lowered, v.indicators):
			return true, ""
		case strings.Contains(text, "-") || n >= compoundWordMinLength:
			return true, ""
		case acronymRe.MatchString(text):
			return true, ""
		}
		return false, RejectSingleWord
	}

	if containsAny(lowered, v.indicators) {
		return true, ""
	}
	first, _ := utf8.DecodeRuneInString(words[0])
	if unicode.IsUpper(first) &&
		(len(words) <= maxCapitalizedWords || editionMarkerRe.MatchString(text) || strings.ContainsAny(text, "™®©")) {
		return true, ""
	}
	return false, RejectMultiWord
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func lower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func lowerAll(list []string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		if s = lower(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
