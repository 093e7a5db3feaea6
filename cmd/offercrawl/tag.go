package main

import (
	"fmt"

	"github.com/fwojciec/offercrawl"
)

// Run executes the tag command.
func (c *TagCmd) Run(deps *Dependencies) error {
	company, err := deps.Companies.FindCompanyByDomain(deps.Ctx, c.Domain)
	if offercrawl.ErrorCode(err) == offercrawl.ENOTFOUND {
		fmt.Fprintf(deps.Stderr, "error: company %q not found. Use 'offercrawl add' first\n", offercrawl.NormalizeDomain(c.Domain))
		return err
	} else if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", offercrawl.ErrorMessage(err))
		return err
	}

	rec := &offercrawl.KeywordRecord{
		CompanyID:  company.ID,
		Section:    offercrawl.SectionCode(c.Section),
		Keyword:    offercrawl.SanitizeText(c.Keyword),
		Confidence: 1,
		Method:     offercrawl.MethodManual,
		SourceURL:  c.URL,
	}
	isNew, err := deps.Keywords.StoreKeyword(deps.Ctx, rec)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", offercrawl.ErrorMessage(err))
		return err
	}

	if isNew {
		fmt.Fprintf(deps.Stdout, "Tagged %s with %q (%s)\n", company.Domain, rec.Keyword, rec.Section)
	} else {
		fmt.Fprintf(deps.Stdout, "%s already has %q (%s)\n", company.Domain, rec.Keyword, rec.Section)
	}
	return nil
}
