// Package offercrawl discovers and catalogs the business offerings of
// company websites. It classifies navigation links into offering listing
// and detail pages, extracts keyword candidates from those pages with a
// cascade of extractors, filters them with a rule-based validator and
// deduplicates them into a final keyword set.
//
// This package contains domain types, pure text rules and interfaces
// following Ben Johnson's Standard Package Layout. Implementations live in
// subdirectories named after their primary dependency (e.g., goquery/,
// sqlite/, http/).
package offercrawl
