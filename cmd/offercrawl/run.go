package main

import (
	"fmt"

	"github.com/fwojciec/offercrawl"
	"github.com/fwojciec/offercrawl/crawl"
)

// Run executes the run command.
func (c *RunCmd) Run(deps *Dependencies) error {
	progress := func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressCompleted:
			fmt.Fprintf(deps.Stdout, "[%d/%d] %s: %s\n", event.Completed, event.Total, event.Domain, crawl.FormatResult(event.Result))
		case crawl.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "[%d/%d] %s failed: %v\n", event.Completed, event.Total, event.Domain, event.Error)
		}
	}

	summary, err := deps.Crawler.ProcessPending(deps.Ctx, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", offercrawl.ErrorMessage(err))
		return err
	}

	if summary.Processed == 0 {
		fmt.Fprintln(deps.Stdout, "No pending companies. Use 'offercrawl add' or 'offercrawl import' to register some.")
		return nil
	}
	fmt.Fprintf(deps.Stdout, "Processed %d companies (%d completed, %d failed)\n",
		summary.Processed, summary.Completed, summary.Failed)
	if deps.Ctx.Err() != nil {
		fmt.Fprintln(deps.Stdout, "Interrupted; remaining companies stay pending.")
	}
	return nil
}

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	company, err := deps.Companies.FindCompanyByDomain(deps.Ctx, c.Domain)
	if offercrawl.ErrorCode(err) == offercrawl.ENOTFOUND && c.Add {
		company = &offercrawl.Company{Domain: c.Domain}
		err = deps.Companies.CreateCompany(deps.Ctx, company)
	}
	if offercrawl.ErrorCode(err) == offercrawl.ENOTFOUND {
		fmt.Fprintf(deps.Stderr, "error: company %q not found. Use 'offercrawl add' first or pass --add\n", offercrawl.NormalizeDomain(c.Domain))
		return err
	} else if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", offercrawl.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Crawling %s (status %s)\n", company.Domain, company.Status)
	result, err := deps.Crawler.CrawlJob(deps.Ctx, company)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error crawling %s: %v\n", company.Domain, err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "  Found %d offering links\n", result.LinksFound)
	fmt.Fprintf(deps.Stdout, "  %s\n", crawl.FormatResult(result))
	return nil
}
