package crawl_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/offercrawl"
	"github.com/fwojciec/offercrawl/crawl"
	"github.com/fwojciec/offercrawl/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// site serves canned pages by URL and records what was stored.
type site struct {
	mu     sync.Mutex
	pages  map[string]*offercrawl.FetchResult
	stored map[offercrawl.SectionCode]offercrawl.Keywords
	hosts  []string
}

func newSite() *site {
	return &site{
		pages: map[string]*offercrawl.FetchResult{
			"https://example.com": {HTML: "<html>home</html>", FinalURL: "https://www.example.com/"},
			"https://www.example.com/services": {
				HTML: "<html>listing</html>", FinalURL: "https://www.example.com/services",
			},
			"https://www.example.com/services/roof-repair": {
				HTML: "<html>detail</html>", FinalURL: "https://www.example.com/services/roof-repair",
			},
		},
		stored: map[offercrawl.SectionCode]offercrawl.Keywords{},
	}
}

func (s *site) crawler() *crawl.Crawler {
	return &crawl.Crawler{
		Fetcher: &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (*offercrawl.FetchResult, error) {
				s.mu.Lock()
				defer s.mu.Unlock()
				if res, ok := s.pages[url]; ok {
					return res, nil
				}
				return nil, offercrawl.Errorf(offercrawl.EINVALID, "unexpected status 404 for %s", url)
			},
		},
		RateLimiter: &mock.DomainLimiter{
			WaitFn: func(_ context.Context, domain string) error {
				s.mu.Lock()
				defer s.mu.Unlock()
				s.hosts = append(s.hosts, domain)
				return nil
			},
		},
		Links: &mock.LinkClassifier{
			ClassifyLinksFn: func(html, baseURL string, maxLinks int) ([]offercrawl.OfferingLink, error) {
				return []offercrawl.OfferingLink{
					{URL: "https://www.example.com/services", Type: offercrawl.LinkListing, LinkText: "Services"},
					{URL: "https://www.example.com/services/roof-repair", Type: offercrawl.LinkDetail, LinkText: "Roof Repair"},
				}, nil
			},
		},
		Extractor: &mock.KeywordExtractor{
			ExtractKeywordsFn: func(html, pageURL string, role offercrawl.PageRole) (offercrawl.Keywords, error) {
				switch role {
				case offercrawl.RoleHome:
					return offercrawl.Keywords{
						"roofing": {Confidence: 0.5, Method: offercrawl.MethodMenu, URL: pageURL},
						"gutters": {Confidence: 0.5, Method: offercrawl.MethodMenu, URL: pageURL},
					}, nil
				case offercrawl.RoleListing:
					return offercrawl.Keywords{
						"Roof Repair": {Confidence: 0.8, Method: offercrawl.MethodOfferingCard, URL: pageURL},
					}, nil
				default:
					return offercrawl.Keywords{
						"Roof Repair":       {Confidence: 0.95, Method: offercrawl.MethodH1, URL: pageURL},
						"Emergency Tarping": {Confidence: 0.85, Method: offercrawl.MethodList, URL: pageURL},
					}, nil
				}
			},
		},
		Keywords: &mock.KeywordService{
			StoreKeywordsFn: func(_ context.Context, companyID string, section offercrawl.SectionCode, kws offercrawl.Keywords) (*offercrawl.StoreResult, error) {
				s.mu.Lock()
				defer s.mu.Unlock()
				s.stored[section] = kws
				return &offercrawl.StoreResult{Total: len(kws), New: len(kws)}, nil
			},
		},
		RetryDelays: []time.Duration{0},
	}
}

func testCompany() *offercrawl.Company {
	return &offercrawl.Company{ID: "c1", Domain: "example.com", Status: offercrawl.StatusInProgress, Active: true}
}

func TestCrawler_CrawlCompany(t *testing.T) {
	t.Parallel()

	t.Run("stores menu and offering keywords per section", func(t *testing.T) {
		t.Parallel()

		s := newSite()
		result, err := s.crawler().CrawlCompany(context.Background(), testCompany())

		require.NoError(t, err)
		assert.Equal(t, &crawl.Result{
			LinksFound:       2,
			PagesCrawled:     3,
			KeywordsFound:    5,
			NewKeywords:      5,
			MenuKeywords:     2,
			OfferingKeywords: 3,
		}, result)
		assert.Contains(t, s.stored[offercrawl.SectionMenu], "roofing")
		assert.Contains(t, s.stored[offercrawl.SectionServiceListing], "Roof Repair")
		assert.Contains(t, s.stored[offercrawl.SectionServiceDetail], "Emergency Tarping")
	})

	t.Run("rate limits every request by host", func(t *testing.T) {
		t.Parallel()

		s := newSite()
		_, err := s.crawler().CrawlCompany(context.Background(), testCompany())

		require.NoError(t, err)
		assert.Equal(t, []string{"example.com", "www.example.com", "www.example.com"}, s.hosts)
	})

	t.Run("classifies links against the final homepage URL", func(t *testing.T) {
		t.Parallel()

		s := newSite()
		c := s.crawler()
		var gotBase string
		var gotMax int
		c.MaxLinks = 5
		c.Links = &mock.LinkClassifier{
			ClassifyLinksFn: func(html, baseURL string, maxLinks int) ([]offercrawl.OfferingLink, error) {
				gotBase, gotMax = baseURL, maxLinks
				return nil, nil
			},
		}

		result, err := c.CrawlCompany(context.Background(), testCompany())

		require.NoError(t, err)
		assert.Equal(t, "https://www.example.com/", gotBase)
		assert.Equal(t, 5, gotMax)
		assert.Equal(t, 1, result.PagesCrawled)
	})

	t.Run("fails when robots.txt disallows the homepage", func(t *testing.T) {
		t.Parallel()

		s := newSite()
		c := s.crawler()
		c.Robots = &mock.RobotsPolicy{
			AllowedFn: func(_ context.Context, url string) (bool, error) {
				return false, nil
			},
		}
		c.Fetcher = &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (*offercrawl.FetchResult, error) {
				t.Fatal("fetch should not be called")
				return nil, nil
			},
		}

		result, err := c.CrawlCompany(context.Background(), testCompany())

		require.Error(t, err)
		assert.Equal(t, offercrawl.EINVALID, offercrawl.ErrorCode(err))
		assert.Contains(t, err.Error(), "robots.txt")
		assert.Equal(t, 1, result.PagesFailed)
	})

	t.Run("fails when the homepage cannot be fetched", func(t *testing.T) {
		t.Parallel()

		s := newSite()
		delete(s.pages, "https://example.com")

		result, err := s.crawler().CrawlCompany(context.Background(), testCompany())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "homepage")
		assert.Equal(t, 0, result.PagesCrawled)
		assert.Equal(t, 1, result.PagesFailed)
	})

	t.Run("counts failed offering pages and continues", func(t *testing.T) {
		t.Parallel()

		s := newSite()
		delete(s.pages, "https://www.example.com/services")

		result, err := s.crawler().CrawlCompany(context.Background(), testCompany())

		require.NoError(t, err)
		assert.Equal(t, 2, result.PagesCrawled)
		assert.Equal(t, 1, result.PagesFailed)
		assert.Contains(t, s.stored, offercrawl.SectionServiceDetail)
		assert.NotContains(t, s.stored, offercrawl.SectionServiceListing)
	})

	t.Run("skips pages with content already seen", func(t *testing.T) {
		t.Parallel()

		s := newSite()
		s.pages["https://www.example.com/services/roof-repair"] = s.pages["https://www.example.com/services"]

		result, err := s.crawler().CrawlCompany(context.Background(), testCompany())

		require.NoError(t, err)
		assert.Equal(t, 2, result.PagesCrawled)
		assert.Equal(t, 1, result.PagesSkipped)
		assert.NotContains(t, s.stored, offercrawl.SectionServiceDetail)
	})

	t.Run("does not store empty keyword sets", func(t *testing.T) {
		t.Parallel()

		s := newSite()
		c := s.crawler()
		c.Extractor = &mock.KeywordExtractor{
			ExtractKeywordsFn: func(html, pageURL string, role offercrawl.PageRole) (offercrawl.Keywords, error) {
				return offercrawl.Keywords{}, nil
			},
		}
		c.Keywords = &mock.KeywordService{
			StoreKeywordsFn: func(context.Context, string, offercrawl.SectionCode, offercrawl.Keywords) (*offercrawl.StoreResult, error) {
				t.Fatal("store should not be called")
				return nil, nil
			},
		}

		result, err := c.CrawlCompany(context.Background(), testCompany())

		require.NoError(t, err)
		assert.Equal(t, 0, result.KeywordsFound)
		assert.Equal(t, 3, result.PagesCrawled)
	})

	t.Run("aborts on storage failure", func(t *testing.T) {
		t.Parallel()

		s := newSite()
		c := s.crawler()
		c.Keywords = &mock.KeywordService{
			StoreKeywordsFn: func(context.Context, string, offercrawl.SectionCode, offercrawl.Keywords) (*offercrawl.StoreResult, error) {
				return nil, errors.New("database is locked")
			},
		}

		_, err := c.CrawlCompany(context.Background(), testCompany())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "store menu keywords")
		assert.Contains(t, err.Error(), "database is locked")
	})

	t.Run("stops when the context is canceled", func(t *testing.T) {
		t.Parallel()

		s := newSite()
		c := s.crawler()
		ctx, cancel := context.WithCancel(context.Background())
		c.Links = &mock.LinkClassifier{
			ClassifyLinksFn: func(html, baseURL string, maxLinks int) ([]offercrawl.OfferingLink, error) {
				cancel()
				return []offercrawl.OfferingLink{{URL: "https://www.example.com/services", Type: offercrawl.LinkListing}}, nil
			},
		}

		_, err := c.CrawlCompany(ctx, testCompany())

		require.ErrorIs(t, err, context.Canceled)
	})
}

// bookkeeping records company and job updates made by CrawlJob.
type bookkeeping struct {
	mu       sync.Mutex
	statuses map[string][]offercrawl.CompanyStatus
	messages map[string]string
	jobs     map[string]offercrawl.CrawlJobUpdate
}

func newBookkeeping() *bookkeeping {
	return &bookkeeping{
		statuses: map[string][]offercrawl.CompanyStatus{},
		messages: map[string]string{},
		jobs:     map[string]offercrawl.CrawlJobUpdate{},
	}
}

func (b *bookkeeping) wire(c *crawl.Crawler, queue []*offercrawl.Company) {
	var claimed int
	c.Companies = &mock.CompanyService{
		UpdateCompanyStatusFn: func(_ context.Context, id string, status offercrawl.CompanyStatus, errMsg string) error {
			b.mu.Lock()
			defer b.mu.Unlock()
			b.statuses[id] = append(b.statuses[id], status)
			b.messages[id] = errMsg
			return nil
		},
		ClaimNextPendingFn: func(context.Context) (*offercrawl.Company, error) {
			b.mu.Lock()
			defer b.mu.Unlock()
			if claimed >= len(queue) {
				return nil, offercrawl.Errorf(offercrawl.ENOTFOUND, "no pending company")
			}
			claimed++
			return queue[claimed-1], nil
		},
		ResetStuckCompaniesFn: func(_ context.Context, olderThan time.Duration) (int, error) {
			return 1, nil
		},
		StatsFn: func(context.Context) (*offercrawl.CrawlStats, error) {
			return &offercrawl.CrawlStats{ByStatus: map[offercrawl.CompanyStatus]int{
				offercrawl.StatusPending: len(queue),
			}}, nil
		},
	}
	c.Jobs = &mock.CrawlJobService{
		CreateCrawlJobFn: func(_ context.Context, companyID string) (*offercrawl.CrawlJob, error) {
			return &offercrawl.CrawlJob{ID: "job-" + companyID, CompanyID: companyID, Status: offercrawl.JobRunning}, nil
		},
		UpdateCrawlJobFn: func(_ context.Context, id string, upd offercrawl.CrawlJobUpdate) (*offercrawl.CrawlJob, error) {
			b.mu.Lock()
			defer b.mu.Unlock()
			b.jobs[id] = upd
			return &offercrawl.CrawlJob{ID: id, Status: *upd.Status}, nil
		},
	}
}

func TestCrawler_CrawlJob(t *testing.T) {
	t.Parallel()

	t.Run("completes the job and the company", func(t *testing.T) {
		t.Parallel()

		s := newSite()
		c := s.crawler()
		b := newBookkeeping()
		b.wire(c, nil)

		result, err := c.CrawlJob(context.Background(), testCompany())

		require.NoError(t, err)
		assert.Equal(t, 5, result.NewKeywords)
		assert.Equal(t, []offercrawl.CompanyStatus{offercrawl.StatusInProgress, offercrawl.StatusCompleted}, b.statuses["c1"])
		upd := b.jobs["job-c1"]
		assert.Equal(t, offercrawl.JobCompleted, *upd.Status)
		assert.Equal(t, 3, *upd.PagesCrawled)
		assert.Equal(t, 0, *upd.PagesFailed)
		assert.Equal(t, 5, *upd.NewKeywords)
		assert.Nil(t, upd.ErrorMessage)
	})

	t.Run("fails the job and the company with the crawl error", func(t *testing.T) {
		t.Parallel()

		s := newSite()
		delete(s.pages, "https://example.com")
		c := s.crawler()
		b := newBookkeeping()
		b.wire(c, nil)

		_, err := c.CrawlJob(context.Background(), testCompany())

		require.Error(t, err)
		assert.Equal(t, offercrawl.StatusFailed, b.statuses["c1"][1])
		assert.Contains(t, b.messages["c1"], "404")
		upd := b.jobs["job-c1"]
		assert.Equal(t, offercrawl.JobFailed, *upd.Status)
		require.NotNil(t, upd.ErrorMessage)
		assert.Contains(t, *upd.ErrorMessage, "homepage")
		assert.Equal(t, 1, *upd.PagesFailed)
	})

	t.Run("returns the company to pending when canceled", func(t *testing.T) {
		t.Parallel()

		s := newSite()
		c := s.crawler()
		ctx, cancel := context.WithCancel(context.Background())
		c.Links = &mock.LinkClassifier{
			ClassifyLinksFn: func(html, baseURL string, maxLinks int) ([]offercrawl.OfferingLink, error) {
				cancel()
				return []offercrawl.OfferingLink{{URL: "https://www.example.com/services", Type: offercrawl.LinkListing}}, nil
			},
		}
		b := newBookkeeping()
		b.wire(c, nil)

		_, err := c.CrawlJob(ctx, testCompany())

		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, offercrawl.StatusPending, b.statuses["c1"][1])
		assert.Equal(t, offercrawl.JobCancelled, *b.jobs["job-c1"].Status)
	})

	t.Run("returns job creation errors", func(t *testing.T) {
		t.Parallel()

		s := newSite()
		c := s.crawler()
		b := newBookkeeping()
		b.wire(c, nil)
		c.Jobs = &mock.CrawlJobService{
			CreateCrawlJobFn: func(_ context.Context, companyID string) (*offercrawl.CrawlJob, error) {
				return nil, offercrawl.Errorf(offercrawl.ENOTFOUND, "company not found")
			},
		}

		_, err := c.CrawlJob(context.Background(), testCompany())

		assert.Equal(t, offercrawl.ENOTFOUND, offercrawl.ErrorCode(err))
	})
}

func TestCrawler_ProcessPending(t *testing.T) {
	t.Parallel()

	t.Run("crawls every pending company", func(t *testing.T) {
		t.Parallel()

		s := newSite()
		c := s.crawler()
		c.Concurrency = 2
		b := newBookkeeping()
		b.wire(c, []*offercrawl.Company{
			{ID: "c1", Domain: "example.com"},
			{ID: "c2", Domain: "broken.example"},
		})

		var mu sync.Mutex
		var events []crawl.ProgressEvent
		summary, err := c.ProcessPending(context.Background(), func(ev crawl.ProgressEvent) {
			mu.Lock()
			defer mu.Unlock()
			events = append(events, ev)
		})

		require.NoError(t, err)
		assert.Equal(t, &crawl.Summary{Reset: 1, Processed: 2, Completed: 1, Failed: 1}, summary)
		assert.Equal(t, offercrawl.StatusCompleted, b.statuses["c1"][1])
		assert.Equal(t, offercrawl.StatusFailed, b.statuses["c2"][1])

		var started, finished int
		for _, ev := range events {
			switch ev.Type {
			case crawl.ProgressStarted:
				started++
			case crawl.ProgressFinished:
				finished++
				assert.Equal(t, 2, ev.Completed)
				assert.Equal(t, 2, ev.Total)
			}
		}
		assert.Equal(t, 2, started)
		assert.Equal(t, 1, finished)
		assert.Equal(t, crawl.ProgressFinished, events[len(events)-1].Type)
	})

	t.Run("returns immediately when nothing is pending", func(t *testing.T) {
		t.Parallel()

		c := newSite().crawler()
		b := newBookkeeping()
		b.wire(c, nil)

		summary, err := c.ProcessPending(context.Background(), nil)

		require.NoError(t, err)
		assert.Equal(t, 0, summary.Processed)
	})

	t.Run("stops on claim errors", func(t *testing.T) {
		t.Parallel()

		c := newSite().crawler()
		b := newBookkeeping()
		b.wire(c, nil)
		companies := c.Companies.(*mock.CompanyService)
		companies.ClaimNextPendingFn = func(context.Context) (*offercrawl.Company, error) {
			return nil, errors.New("disk I/O error")
		}

		_, err := c.ProcessPending(context.Background(), nil)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "claim next pending")
	})

	t.Run("uses the configured stuck threshold", func(t *testing.T) {
		t.Parallel()

		c := newSite().crawler()
		c.StuckAfter = 10 * time.Minute
		b := newBookkeeping()
		b.wire(c, nil)
		var got time.Duration
		companies := c.Companies.(*mock.CompanyService)
		companies.ResetStuckCompaniesFn = func(_ context.Context, olderThan time.Duration) (int, error) {
			got = olderThan
			return 0, nil
		}

		_, err := c.ProcessPending(context.Background(), nil)

		require.NoError(t, err)
		assert.Equal(t, 10*time.Minute, got)
	})
}

func TestCrawler_Preview(t *testing.T) {
	t.Parallel()

	t.Run("extracts keywords without storing", func(t *testing.T) {
		t.Parallel()

		s := newSite()
		c := s.crawler()
		c.Keywords = nil

		kws, res, err := c.Preview(context.Background(), "https://www.example.com/services/roof-repair", offercrawl.RoleDetail)

		require.NoError(t, err)
		assert.Equal(t, "https://www.example.com/services/roof-repair", res.FinalURL)
		assert.Contains(t, kws, "Roof Repair")
	})

	t.Run("rejects unknown roles", func(t *testing.T) {
		t.Parallel()

		_, _, err := newSite().crawler().Preview(context.Background(), "https://example.com", "sidebar")

		assert.Equal(t, offercrawl.EINVALID, offercrawl.ErrorCode(err))
	})

	t.Run("rejects URLs without a host", func(t *testing.T) {
		t.Parallel()

		_, _, err := newSite().crawler().Preview(context.Background(), "/services", offercrawl.RoleDetail)

		assert.Equal(t, offercrawl.EINVALID, offercrawl.ErrorCode(err))
	})
}

func TestCrawler_PreviewLinks(t *testing.T) {
	t.Parallel()

	links, err := newSite().crawler().PreviewLinks(context.Background(), "https://example.com")

	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, offercrawl.LinkListing, links[0].Type)
	assert.Equal(t, offercrawl.LinkDetail, links[1].Type)
}
