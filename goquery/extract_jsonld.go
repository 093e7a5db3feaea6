package goquery

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/offercrawl"
)

// offeringTypes are the schema.org types whose name is an offering.
var offeringTypes = map[string]bool{
	"service":             true,
	"product":             true,
	"offer":               true,
	"softwareapplication": true,
	"medicalprocedure":    true,
	"medicaltherapy":      true,
	"course":              true,
	"educationalprogram":  true,
	"professionalservice": true,
	"financialproduct":    true,
	"vehicle":             true,
	"drug":                true,
	"itemlist":            true,
}

// jsonLDNestedKeys are properties descended into when looking for offerings.
var jsonLDNestedKeys = []string{"@graph", "offers", "hasOfferingCatalog", "itemListElement", "itemOffered", "item"}

// maxJSONLDDepth bounds the descent into nested structured data.
const maxJSONLDDepth = 10

// JSONLDExtractor proposes the names of offering objects in schema.org
// structured data.
type JSONLDExtractor struct{}

// Name returns the extractor's identifier.
func (JSONLDExtractor) Name() string { return "json_ld" }

// Extract returns offering names from all application/ld+json blocks.
// Blocks that are not valid JSON are skipped.
func (JSONLDExtractor) Extract(doc *goquery.Document, pageURL string) []offercrawl.Candidate {
	out := candidates{pageURL: pageURL}
	doc.Find("script[type]").Each(func(_ int, sel *goquery.Selection) {
		typ, _ := sel.Attr("type")
		if !strings.EqualFold(strings.TrimSpace(typ), "application/ld+json") {
			return
		}
		var data any
		if err := json.Unmarshal([]byte(strings.TrimSpace(sel.Text())), &data); err != nil {
			return
		}
		walkJSONLD(data, 0, &out)
	})
	return out.list
}

func walkJSONLD(v any, depth int, out *candidates) {
	if depth > maxJSONLDDepth {
		return
	}
	switch node := v.(type) {
	case []any:
		for _, item := range node {
			walkJSONLD(item, depth+1, out)
		}
	case map[string]any:
		if isOfferingType(node["@type"]) {
			if name, ok := node["name"].(string); ok {
				out.add(offercrawl.SanitizeText(name), ConfidenceJSONLD, offercrawl.MethodJSONLD)
			}
		}
		for _, key := range jsonLDNestedKeys {
			if sub, ok := node[key]; ok {
				walkJSONLD(sub, depth+1, out)
			}
		}
	}
}

// isOfferingType reports whether an @type value, a string or a list of
// strings, names an offering type. Prefixed forms like "schema:Service"
// are accepted.
func isOfferingType(v any) bool {
	switch t := v.(type) {
	case string:
		if i := strings.LastIndexAny(t, ":/"); i >= 0 {
			t = t[i+1:]
		}
		return offeringTypes[strings.ToLower(t)]
	case []any:
		for _, item := range t {
			if isOfferingType(item) {
				return true
			}
		}
	}
	return false
}
