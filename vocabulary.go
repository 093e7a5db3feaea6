package offercrawl

// Vocabulary holds the literal word lists behind link classification,
// keyword validation and extraction heuristics. Lists are matched
// case-insensitively. A Vocabulary is treated as immutable once it has been
// handed to a validator or an engine.
type Vocabulary struct {
	// GenericTerms are navigation or marketing labels rejected as keywords.
	GenericTerms []string

	// OfferingIndicators are substrings that mark text as naming an offering.
	OfferingIndicators []string

	// DescriptionPhrases mark sentences describing a business rather than
	// naming an offering.
	DescriptionPhrases []string

	// ServiceIntentPhrases mark a heading that introduces a list of offerings.
	ServiceIntentPhrases []string

	// SectionMarkers are class or id substrings identifying offering
	// sections and cards.
	SectionMarkers []string

	// URLIncludes are path substrings of offering pages. Each entry is also
	// the root segment of a listing page (e.g. /services).
	URLIncludes []string

	// URLExcludes are path substrings of pages that are never offerings.
	URLExcludes []string

	// LegalTokens are title segments that name the company, not an offering.
	LegalTokens []string

	// MenuNoise are navigation labels that are UI controls.
	MenuNoise []string
}

// DefaultVocabulary returns the built-in vocabulary. Each call returns a
// fresh copy that may be extended with Merge.
func DefaultVocabulary() *Vocabulary {
	return &Vocabulary{
		GenericTerms: []string{
			"home", "home page", "homepage", "menu", "main menu", "welcome",
			"about", "about us", "contact", "contact us", "get in touch",
			"services", "our services", "solutions", "our solutions",
			"products", "our products", "offerings", "our offerings",
			"what we do", "what we offer", "how we help", "who we are",
			"learn more", "read more", "find out more", "more", "more info",
			"get started", "start now", "click here", "view all", "see all",
			"view more", "see more", "show more", "back", "next", "previous",
			"page", "loading", "search", "login", "log in", "sign in",
			"sign up", "register", "subscribe", "blog", "news", "careers",
			"faq", "faqs", "privacy policy", "terms of service",
			"terms and conditions", "cookie policy", "skip to content",
			"toggle navigation", "overview", "our work", "our team",
			"testimonials", "resources", "request a quote", "get a quote",
			"book now", "call now", "submit", "close", "open",
		},
		OfferingIndicators: []string{
			"consulting", "consultancy", "development", "management",
			"design", "engineering", "assessment", "analysis", "analytics",
			"integration", "migration", "optimization", "optimisation",
			"implementation", "support", "planning", "architecture",
			"security", "compliance", "testing", "training", "strategy",
			"audit", "review", "platform", "software", "solution", "service",
			"product", "system", "suite", "automation", "monitoring",
			"hosting", "cloud", "network", "infrastructure", "marketing",
			"advertising", "branding", "treatment", "therapy", "surgery",
			"repair", "installation", "maintenance", "cleaning", "inspection",
			"coaching", "counseling", "counselling", "insurance", "financing",
			"lending", "accounting", "bookkeeping", "payroll", "litigation",
			"dental", "healthcare", "program", "course", "certification",
			"workshop", "outsourcing", "staffing", "recruiting", "logistics",
			"delivery", "manufacturing", "fabrication", "construction",
			"renovation", "remodeling", "landscaping", "catering", "rental",
			"leasing", "protection", "recovery", "backup", "application",
		},
		DescriptionPhrases: []string{
			"we provide", "we offer", "we deliver", "we specialize",
			"we help", "we are", "we have", "such as", "our team",
			"you can", "designed to", "in order to", "that we",
			"helps you", "allows you",
		},
		ServiceIntentPhrases: []string{
			"services", "we offer", "we provide", "our solutions",
			"our products", "what we do", "includ", "specializ",
			"expertise", "offerings", "capabilities",
		},
		SectionMarkers: []string{
			"service", "solution", "product", "offering", "capabilit",
			"practice", "program", "treatment", "feature",
		},
		URLIncludes: []string{
			"services", "solutions", "products", "platforms",
			"practice-areas", "offerings", "what-we-do", "capabilities",
			"expertise", "treatments", "therapies", "programs", "specialties",
		},
		URLExcludes: []string{
			"/blog", "/news", "/about", "/contact", "/careers", "/jobs",
			"/privacy", "/terms", "/legal", "/cookie", "/team", "/people",
			"/events", "/resources", "/case-studies", "/testimonials",
			"/login", "/cart", "/checkout", "/faq", "/download",
			".pdf", ".doc", ".docx", ".zip",
		},
		LegalTokens: []string{
			"inc", "ltd", "llc", "corp", "company", "services",
			"limited", "corporation", "gmbh", "plc",
		},
		MenuNoise: []string{
			"skip to content", "skip to main content", "skip navigation",
			"menu", "toggle", "toggle navigation", "open menu", "close menu",
		},
	}
}

// Merge returns a new Vocabulary holding the entries of v followed by the
// entries of other that v does not already contain. Either may be nil.
func (v *Vocabulary) Merge(other *Vocabulary) *Vocabulary {
	if v == nil {
		v = &Vocabulary{}
	}
	if other == nil {
		other = &Vocabulary{}
	}
	return &Vocabulary{
		GenericTerms:         mergeTerms(v.GenericTerms, other.GenericTerms),
		OfferingIndicators:   mergeTerms(v.OfferingIndicators, other.OfferingIndicators),
		DescriptionPhrases:   mergeTerms(v.DescriptionPhrases, other.DescriptionPhrases),
		ServiceIntentPhrases: mergeTerms(v.ServiceIntentPhrases, other.ServiceIntentPhrases),
		SectionMarkers:       mergeTerms(v.SectionMarkers, other.SectionMarkers),
		URLIncludes:          mergeTerms(v.URLIncludes, other.URLIncludes),
		URLExcludes:          mergeTerms(v.URLExcludes, other.URLExcludes),
		LegalTokens:          mergeTerms(v.LegalTokens, other.LegalTokens),
		MenuNoise:            mergeTerms(v.MenuNoise, other.MenuNoise),
	}
}

func mergeTerms(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	seen := make(map[string]bool, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, term := range list {
			key := lower(term)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, key)
		}
	}
	return out
}
