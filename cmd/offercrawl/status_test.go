package main_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/offercrawl"
	main "github.com/fwojciec/offercrawl/cmd/offercrawl"
	"github.com/fwojciec/offercrawl/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints counts jobs keywords and failures", func(t *testing.T) {
		t.Parallel()

		companies := &mock.CompanyService{
			StatsFn: func(_ context.Context) (*offercrawl.CrawlStats, error) {
				return &offercrawl.CrawlStats{
					Companies:      3,
					ByStatus:       map[offercrawl.CompanyStatus]int{offercrawl.StatusPending: 1, offercrawl.StatusCompleted: 1, offercrawl.StatusFailed: 1},
					Keywords:       7,
					DomainKeywords: 9,
					Jobs:           2,
					JobsByStatus:   map[offercrawl.JobStatus]int{offercrawl.JobCompleted: 1, offercrawl.JobFailed: 1},
				}, nil
			},
			FindCompanyByIDFn: func(_ context.Context, id string) (*offercrawl.Company, error) {
				return &offercrawl.Company{ID: id, Domain: "acme.com"}, nil
			},
			FindCompaniesFn: func(_ context.Context, filter offercrawl.CompanyFilter) ([]*offercrawl.Company, error) {
				require.NotNil(t, filter.Status)
				assert.Equal(t, offercrawl.StatusFailed, *filter.Status)
				return []*offercrawl.Company{{Domain: "broken.com", ErrorMessage: "homepage: connection refused"}}, nil
			},
		}
		jobs := &mock.CrawlJobService{
			FindCrawlJobsFn: func(_ context.Context, filter offercrawl.CrawlJobFilter) ([]*offercrawl.CrawlJob, error) {
				assert.Equal(t, 5, filter.Limit)
				return []*offercrawl.CrawlJob{{
					ID: "j1", CompanyID: "c1", Status: offercrawl.JobCompleted,
					StartedAt: time.Now(), PagesCrawled: 3, PagesFailed: 1, NewKeywords: 4,
				}}, nil
			},
		}
		keywords := &mock.KeywordService{
			FindTopKeywordsFn: func(_ context.Context, limit int) ([]*offercrawl.KeywordStat, error) {
				assert.Equal(t, 10, limit)
				return []*offercrawl.KeywordStat{{Keyword: "Roof Repair", UniqueDomains: 2, TotalOccurrences: 3}}, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{},
			Companies: companies, Jobs: jobs, Keywords: keywords,
		}

		err := (&main.StatusCmd{Top: 10, Recent: 5}).Run(deps)

		require.NoError(t, err)
		out := stdout.String()
		assert.Contains(t, out, "Companies: 3")
		assert.Contains(t, out, "  pending      1")
		assert.Contains(t, out, "  in_progress  0")
		assert.Contains(t, out, "Keywords: 7 unique, 9 company links")
		assert.Contains(t, out, "Crawl jobs: 2 (1 completed, 1 failed)")
		assert.Contains(t, out, "acme.com")
		assert.Contains(t, out, "pages 3/4  new 4")
		assert.Contains(t, out, "Roof Repair")
		assert.Contains(t, out, "2 companies  3 occurrences")
		assert.Contains(t, out, "broken.com")
		assert.Contains(t, out, "homepage: connection refused")
	})

	t.Run("lists one company's keywords by section", func(t *testing.T) {
		t.Parallel()

		companies := &mock.CompanyService{
			FindCompanyByDomainFn: func(_ context.Context, domain string) (*offercrawl.Company, error) {
				return &offercrawl.Company{ID: "c1", Domain: "acme.com", Status: offercrawl.StatusCompleted}, nil
			},
		}
		keywords := &mock.KeywordService{
			FindCompanyKeywordsFn: func(_ context.Context, companyID string) ([]*offercrawl.KeywordRecord, error) {
				assert.Equal(t, "c1", companyID)
				return []*offercrawl.KeywordRecord{
					{Section: offercrawl.SectionMenu, Keyword: "roofing", Confidence: 0.5, Method: offercrawl.MethodMenu},
					{Section: offercrawl.SectionServiceDetail, Keyword: "Roof Repair", Confidence: 0.95, Method: offercrawl.MethodH1},
					{Section: offercrawl.SectionServiceDetail, Keyword: "Storm Damage", Confidence: 0.85, Method: offercrawl.MethodList},
				}, nil
			},
		}
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{},
			Companies: companies, Keywords: keywords,
		}

		err := (&main.StatusCmd{Domain: "acme.com"}).Run(deps)

		require.NoError(t, err)
		out := stdout.String()
		assert.Contains(t, out, "acme.com (completed)")
		assert.Contains(t, out, "menu:\n  0.50  menu             roofing")
		assert.Contains(t, out, "service_detail:\n  0.95  h1               Roof Repair\n  0.85  list             Storm Damage")
	})

	t.Run("unknown company", func(t *testing.T) {
		t.Parallel()

		companies := &mock.CompanyService{
			FindCompanyByDomainFn: func(_ context.Context, domain string) (*offercrawl.Company, error) {
				return nil, offercrawl.Errorf(offercrawl.ENOTFOUND, "company %q not found", domain)
			},
		}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}, Companies: companies}

		err := (&main.StatusCmd{Domain: "nope.com"}).Run(deps)

		assert.Equal(t, offercrawl.ENOTFOUND, offercrawl.ErrorCode(err))
	})

	t.Run("returns stats error", func(t *testing.T) {
		t.Parallel()

		companies := &mock.CompanyService{
			StatsFn: func(_ context.Context) (*offercrawl.CrawlStats, error) {
				return nil, errors.New("disk I/O error")
			},
		}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: &bytes.Buffer{}, Stderr: stderr, Companies: companies}

		err := (&main.StatusCmd{}).Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "error: Internal error")
	})
}
