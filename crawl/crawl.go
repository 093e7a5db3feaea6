// Package crawl provides offering crawl orchestration.
// It coordinates robots checks, fetching, link classification, keyword
// extraction and storage for company websites, and works through the queue
// of pending companies.
package crawl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/offercrawl"
	"golang.org/x/sync/errgroup"
)

// Defaults used when the corresponding Crawler field is zero.
const (
	DefaultConcurrency = 1
	DefaultMaxLinks    = 20
	DefaultStuckAfter  = time.Hour
)

// Crawler orchestrates the crawling of company websites.
// Robots and RateLimiter are optional.
type Crawler struct {
	Fetcher     offercrawl.Fetcher
	Robots      offercrawl.RobotsPolicy
	RateLimiter offercrawl.DomainLimiter
	Links       offercrawl.LinkClassifier
	Extractor   offercrawl.KeywordExtractor
	Keywords    offercrawl.KeywordService
	Companies   offercrawl.CompanyService
	Jobs        offercrawl.CrawlJobService
	Logger      *slog.Logger

	MaxLinks    int
	Concurrency int
	RetryDelays []time.Duration
	StuckAfter  time.Duration
}

// Result holds the outcome of crawling one company.
type Result struct {
	LinksFound       int
	PagesCrawled     int
	PagesFailed      int
	PagesSkipped     int
	KeywordsFound    int
	NewKeywords      int
	MenuKeywords     int
	OfferingKeywords int
}

// Summary holds the outcome of processing the pending queue.
type Summary struct {
	Reset     int
	Processed int
	Completed int
	Failed    int
}

// ProgressEvent reports progress while processing pending companies.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	Domain    string
	Result    *Result
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting crawl progress. It may be called
// from several workers at once.
type ProgressFunc func(event ProgressEvent)

// CrawlCompany extracts menu keywords from the company homepage, follows the
// offering links found there and stores the keywords of every page. Pages
// that fail to fetch are counted and skipped. A homepage that cannot be
// fetched, or that robots.txt disallows, fails the crawl.
func (c *Crawler) CrawlCompany(ctx context.Context, company *offercrawl.Company) (*Result, error) {
	logger := c.logger().With("domain", company.Domain)
	result := &Result{}

	home, err := c.fetchPage(ctx, company.HomepageURL())
	if err != nil {
		result.PagesFailed++
		return result, fmt.Errorf("homepage: %w", err)
	}
	result.PagesCrawled++
	if strings.TrimSuffix(home.FinalURL, "/") != company.HomepageURL() {
		logger.Info("redirect detected", "url", company.HomepageURL(), "final_url", home.FinalURL)
	}
	seen := map[uint64]bool{xxhash.Sum64String(home.HTML): true}

	menu, err := c.Extractor.ExtractKeywords(home.HTML, home.FinalURL, offercrawl.RoleHome)
	if err != nil {
		return result, fmt.Errorf("extract menu: %w", err)
	}
	stored, err := c.store(ctx, company.ID, offercrawl.SectionMenu, menu)
	if err != nil {
		return result, err
	}
	result.MenuKeywords = stored.Total
	result.NewKeywords += stored.New
	if len(menu) == 0 {
		logger.Warn("no menu keywords found")
	}

	links, err := c.Links.ClassifyLinks(home.HTML, home.FinalURL, c.maxLinks())
	if err != nil {
		return result, fmt.Errorf("classify links: %w", err)
	}
	result.LinksFound = len(links)

	for i, link := range links {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		logger.Debug("crawling offering page", "url", link.URL, "type", link.Type, "position", i+1, "total", len(links))

		res, err := c.fetchPage(ctx, link.URL)
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			logger.Warn("offering page failed", "url", link.URL, "err", err)
			result.PagesFailed++
			continue
		}
		hash := xxhash.Sum64String(res.HTML)
		if seen[hash] {
			result.PagesSkipped++
			continue
		}
		seen[hash] = true
		result.PagesCrawled++

		role := offercrawl.RoleForLink(link.Type)
		kws, err := c.Extractor.ExtractKeywords(res.HTML, link.URL, role)
		if err != nil {
			logger.Warn("extraction failed", "url", link.URL, "err", err)
			result.PagesFailed++
			continue
		}
		stored, err := c.store(ctx, company.ID, offercrawl.SectionForRole(role), kws)
		if err != nil {
			return result, err
		}
		result.OfferingKeywords += stored.Total
		result.NewKeywords += stored.New
	}

	result.KeywordsFound = result.MenuKeywords + result.OfferingKeywords
	return result, nil
}

// CrawlJob crawls a company and records the run as a crawl job. The company
// ends up completed or failed, or back in pending when the context is
// canceled mid-crawl. The returned error is the crawl error, joined with any
// error recording the outcome.
func (c *Crawler) CrawlJob(ctx context.Context, company *offercrawl.Company) (*Result, error) {
	if err := c.Companies.UpdateCompanyStatus(ctx, company.ID, offercrawl.StatusInProgress, ""); err != nil {
		return nil, err
	}
	job, err := c.Jobs.CreateCrawlJob(ctx, company.ID)
	if err != nil {
		return nil, err
	}

	result, crawlErr := c.CrawlCompany(ctx, company)
	if result == nil {
		result = &Result{}
	}

	// Record the outcome even when ctx has been canceled.
	bctx := context.WithoutCancel(ctx)
	upd := offercrawl.CrawlJobUpdate{
		PagesCrawled: &result.PagesCrawled,
		PagesFailed:  &result.PagesFailed,
		NewKeywords:  &result.NewKeywords,
	}
	jobStatus, companyStatus := offercrawl.JobCompleted, offercrawl.StatusCompleted
	var msg string
	switch {
	case crawlErr != nil && ctx.Err() != nil:
		jobStatus, companyStatus = offercrawl.JobCancelled, offercrawl.StatusPending
		msg = crawlErr.Error()
	case crawlErr != nil:
		jobStatus, companyStatus = offercrawl.JobFailed, offercrawl.StatusFailed
		msg = crawlErr.Error()
	}
	upd.Status = &jobStatus
	if msg != "" {
		upd.ErrorMessage = &msg
	}

	_, jobErr := c.Jobs.UpdateCrawlJob(bctx, job.ID, upd)
	statusErr := c.Companies.UpdateCompanyStatus(bctx, company.ID, companyStatus, msg)
	return result, errors.Join(crawlErr, jobErr, statusErr)
}

// ProcessPending resets companies stuck in progress, then crawls pending
// companies with Concurrency workers until none remain or ctx is canceled.
// Failures of individual companies are recorded and do not stop the run.
func (c *Crawler) ProcessPending(ctx context.Context, progress ProgressFunc) (*Summary, error) {
	summary := &Summary{}
	logger := c.logger()

	stuckAfter := c.StuckAfter
	if stuckAfter <= 0 {
		stuckAfter = DefaultStuckAfter
	}
	n, err := c.Companies.ResetStuckCompanies(ctx, stuckAfter)
	if err != nil {
		return nil, fmt.Errorf("reset stuck companies: %w", err)
	}
	summary.Reset = n
	if n > 0 {
		logger.Info("reset stuck companies", "count", n)
	}

	stats, err := c.Companies.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	total := stats.ByStatus[offercrawl.StatusPending]
	logger.Info("pending companies", "count", total)

	events := make(chan ProgressEvent)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range events {
			summary.Processed++
			if ev.Type == ProgressCompleted {
				summary.Completed++
			} else {
				summary.Failed++
			}
			ev.Completed = summary.Processed
			ev.Total = max(total, summary.Processed)
			if progress != nil {
				progress(ev)
			}
		}
	}()

	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	g, gctx := errgroup.WithContext(ctx)
	for range concurrency {
		g.Go(func() error {
			return c.work(gctx, events, progress)
		})
	}
	err = g.Wait()
	close(events)
	<-done

	if progress != nil {
		progress(ProgressEvent{
			Type:      ProgressFinished,
			Completed: summary.Processed,
			Total:     max(total, summary.Processed),
		})
	}
	return summary, err
}

// work claims and crawls companies until the queue is empty.
func (c *Crawler) work(ctx context.Context, events chan<- ProgressEvent, progress ProgressFunc) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		company, err := c.Companies.ClaimNextPending(ctx)
		if offercrawl.ErrorCode(err) == offercrawl.ENOTFOUND {
			return nil
		} else if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("claim next pending: %w", err)
		}

		if progress != nil {
			progress(ProgressEvent{Type: ProgressStarted, Domain: company.Domain})
		}
		result, err := c.CrawlJob(ctx, company)
		ev := ProgressEvent{Type: ProgressCompleted, Domain: company.Domain, Result: result}
		if err != nil {
			ev.Type = ProgressFailed
			ev.Error = err
			c.logger().Error("crawl failed", "domain", company.Domain, "err", err)
		}
		events <- ev
	}
}

// Preview fetches a page and extracts its keywords without storing them.
func (c *Crawler) Preview(ctx context.Context, rawURL string, role offercrawl.PageRole) (offercrawl.Keywords, *offercrawl.FetchResult, error) {
	if !role.Valid() {
		return nil, nil, offercrawl.Errorf(offercrawl.EINVALID, "unknown page role %q", role)
	}
	res, err := c.fetchPage(ctx, rawURL)
	if err != nil {
		return nil, nil, err
	}
	kws, err := c.Extractor.ExtractKeywords(res.HTML, res.FinalURL, role)
	if err != nil {
		return nil, res, err
	}
	return kws, res, nil
}

// PreviewLinks fetches a homepage and classifies its offering links.
func (c *Crawler) PreviewLinks(ctx context.Context, rawURL string) ([]offercrawl.OfferingLink, error) {
	res, err := c.fetchPage(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return c.Links.ClassifyLinks(res.HTML, res.FinalURL, c.maxLinks())
}

// fetchPage applies the robots policy and rate limit, then fetches with retry.
func (c *Crawler) fetchPage(ctx context.Context, rawURL string) (*offercrawl.FetchResult, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return nil, offercrawl.Errorf(offercrawl.EINVALID, "invalid URL %q", rawURL)
	}
	if c.Robots != nil {
		ok, err := c.Robots.Allowed(ctx, rawURL)
		if err != nil {
			return nil, fmt.Errorf("robots: %w", err)
		}
		if !ok {
			return nil, offercrawl.Errorf(offercrawl.EINVALID, "crawling disallowed by robots.txt: %s", rawURL)
		}
	}
	if c.RateLimiter != nil {
		if err := c.RateLimiter.Wait(ctx, u.Hostname()); err != nil {
			return nil, err
		}
	}

	delays := c.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	onRetry := func(target string, attempt int, err error) {
		c.logger().Warn("retrying fetch", "url", target, "attempt", attempt, "err", err)
	}
	return FetchWithRetryDelays(ctx, rawURL, c.Fetcher.Fetch, onRetry, delays)
}

func (c *Crawler) store(ctx context.Context, companyID string, section offercrawl.SectionCode, kws offercrawl.Keywords) (*offercrawl.StoreResult, error) {
	if len(kws) == 0 {
		return &offercrawl.StoreResult{}, nil
	}
	res, err := c.Keywords.StoreKeywords(ctx, companyID, section, kws)
	if err != nil {
		return nil, fmt.Errorf("store %s keywords: %w", section, err)
	}
	return res, nil
}

func (c *Crawler) maxLinks() int {
	if c.MaxLinks > 0 {
		return c.MaxLinks
	}
	return DefaultMaxLinks
}

func (c *Crawler) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.New(slog.DiscardHandler)
}
