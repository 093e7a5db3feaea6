// Package yaml loads offercrawl rule vocabularies from YAML files.
package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fwojciec/offercrawl"
	"gopkg.in/yaml.v3"
)

// vocabularyFile is the on-disk layout of a vocabulary override file.
type vocabularyFile struct {
	GenericTerms         []string `yaml:"generic_terms"`
	OfferingIndicators   []string `yaml:"offering_indicators"`
	DescriptionPhrases   []string `yaml:"description_phrases"`
	ServiceIntentPhrases []string `yaml:"service_intent_phrases"`
	SectionMarkers       []string `yaml:"section_markers"`
	URLIncludes          []string `yaml:"url_includes"`
	URLExcludes          []string `yaml:"url_excludes"`
	LegalTokens          []string `yaml:"legal_tokens"`
	MenuNoise            []string `yaml:"menu_noise"`
}

// LoadVocabulary reads the vocabulary file at path and merges its entries
// onto the default vocabulary.
func LoadVocabulary(path string) (*offercrawl.Vocabulary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vocabulary: %w", err)
	}
	defer f.Close()
	return ReadVocabulary(f)
}

// ReadVocabulary decodes a vocabulary from r and merges it onto the default
// vocabulary. Unknown keys are rejected with EINVALID. An empty document
// yields the default vocabulary.
func ReadVocabulary(r io.Reader) (*offercrawl.Vocabulary, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary: %w", err)
	}

	var file vocabularyFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, offercrawl.Errorf(offercrawl.EINVALID, "invalid vocabulary: %v", err)
	}

	return offercrawl.DefaultVocabulary().Merge(&offercrawl.Vocabulary{
		GenericTerms:         file.GenericTerms,
		OfferingIndicators:   file.OfferingIndicators,
		DescriptionPhrases:   file.DescriptionPhrases,
		ServiceIntentPhrases: file.ServiceIntentPhrases,
		SectionMarkers:       file.SectionMarkers,
		URLIncludes:          file.URLIncludes,
		URLExcludes:          file.URLExcludes,
		LegalTokens:          file.LegalTokens,
		MenuNoise:            file.MenuNoise,
	}), nil
}
