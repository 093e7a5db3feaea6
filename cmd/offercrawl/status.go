package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/offercrawl"
)

// statusOrder is the display order of company states.
var statusOrder = []offercrawl.CompanyStatus{
	offercrawl.StatusPending,
	offercrawl.StatusInProgress,
	offercrawl.StatusCompleted,
	offercrawl.StatusFailed,
	offercrawl.StatusPaused,
}

// Run executes the status command.
func (c *StatusCmd) Run(deps *Dependencies) error {
	if c.Domain != "" {
		return c.runCompany(deps)
	}

	stats, err := deps.Companies.Stats(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", offercrawl.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Companies: %d\n", stats.Companies)
	for _, s := range statusOrder {
		fmt.Fprintf(deps.Stdout, "  %-12s %d\n", s, stats.ByStatus[s])
	}
	fmt.Fprintf(deps.Stdout, "Keywords: %d unique, %d company links\n", stats.Keywords, stats.DomainKeywords)
	fmt.Fprintf(deps.Stdout, "Crawl jobs: %d (%d completed, %d failed)\n",
		stats.Jobs, stats.JobsByStatus[offercrawl.JobCompleted], stats.JobsByStatus[offercrawl.JobFailed])

	jobs, err := deps.Jobs.FindCrawlJobs(deps.Ctx, offercrawl.CrawlJobFilter{Limit: c.Recent})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", offercrawl.ErrorMessage(err))
		return err
	}
	if len(jobs) > 0 {
		fmt.Fprintln(deps.Stdout, "\nRecent jobs:")
		for _, j := range jobs {
			domain := j.CompanyID
			if company, err := deps.Companies.FindCompanyByID(deps.Ctx, j.CompanyID); err == nil {
				domain = company.Domain
			}
			fmt.Fprintf(deps.Stdout, "  %s  %-9s  %-30s  pages %d/%d  new %d\n",
				j.StartedAt.Local().Format(time.DateTime), j.Status, domain,
				j.PagesCrawled, j.PagesCrawled+j.PagesFailed, j.NewKeywords)
		}
	}

	top, err := deps.Keywords.FindTopKeywords(deps.Ctx, c.Top)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", offercrawl.ErrorMessage(err))
		return err
	}
	if len(top) > 0 {
		fmt.Fprintln(deps.Stdout, "\nTop keywords:")
		for _, k := range top {
			fmt.Fprintf(deps.Stdout, "  %-40s  %d companies  %d occurrences\n", k.Keyword, k.UniqueDomains, k.TotalOccurrences)
		}
	}

	failed := offercrawl.StatusFailed
	companies, err := deps.Companies.FindCompanies(deps.Ctx, offercrawl.CompanyFilter{Status: &failed, Limit: c.Recent})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", offercrawl.ErrorMessage(err))
		return err
	}
	if len(companies) > 0 {
		fmt.Fprintln(deps.Stdout, "\nFailed companies:")
		for _, co := range companies {
			fmt.Fprintf(deps.Stdout, "  %-30s  %s\n", co.Domain, co.ErrorMessage)
		}
	}
	return nil
}

// runCompany prints one company's state and its stored keywords by section.
func (c *StatusCmd) runCompany(deps *Dependencies) error {
	company, err := deps.Companies.FindCompanyByDomain(deps.Ctx, c.Domain)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", offercrawl.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "%s (%s)\n", company.Domain, company.Status)
	if company.LastCrawled != nil {
		fmt.Fprintf(deps.Stdout, "  last crawled %s\n", company.LastCrawled.Local().Format(time.DateTime))
	}
	if company.ErrorMessage != "" {
		fmt.Fprintf(deps.Stdout, "  error: %s\n", company.ErrorMessage)
	}

	recs, err := deps.Keywords.FindCompanyKeywords(deps.Ctx, company.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", offercrawl.ErrorMessage(err))
		return err
	}
	if len(recs) == 0 {
		fmt.Fprintln(deps.Stdout, "No keywords stored.")
		return nil
	}

	var section offercrawl.SectionCode
	for _, r := range recs {
		if r.Section != section {
			section = r.Section
			fmt.Fprintf(deps.Stdout, "\n%s:\n", section)
		}
		fmt.Fprintf(deps.Stdout, "  %.2f  %-16s %s\n", r.Confidence, r.Method, r.Keyword)
	}
	return nil
}
