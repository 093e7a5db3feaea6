package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/fwojciec/offercrawl"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ offercrawl.CrawlJobService = (*CrawlJobService)(nil)

// CrawlJobService implements offercrawl.CrawlJobService using SQLite.
type CrawlJobService struct {
	db *DB
}

// NewCrawlJobService creates a new CrawlJobService.
func NewCrawlJobService(db *DB) *CrawlJobService {
	return &CrawlJobService{db: db}
}

const jobColumns = `id, company_id, status, started_at, completed_at, pages_crawled,
	pages_failed, new_keywords_found, error_message`

func scanJob(row scanner) (*offercrawl.CrawlJob, error) {
	var job offercrawl.CrawlJob
	var startedAt string
	var completedAt sql.NullString

	if err := row.Scan(&job.ID, &job.CompanyID, &job.Status, &startedAt, &completedAt,
		&job.PagesCrawled, &job.PagesFailed, &job.NewKeywords, &job.ErrorMessage); err != nil {
		return nil, err
	}

	var err error
	if job.StartedAt, err = parseRFC3339(startedAt, "started_at"); err != nil {
		return nil, err
	}
	if job.CompletedAt, err = parseNullRFC3339(completedAt, "completed_at"); err != nil {
		return nil, err
	}
	return &job, nil
}

// CreateCrawlJob starts a running job for a company.
func (s *CrawlJobService) CreateCrawlJob(ctx context.Context, companyID string) (*offercrawl.CrawlJob, error) {
	if err := requireCompany(ctx, s.db, companyID); err != nil {
		return nil, err
	}

	job := &offercrawl.CrawlJob{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Status:    offercrawl.JobRunning,
		StartedAt: time.Now().UTC().Truncate(time.Second),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO crawl_jobs (id, company_id, status, started_at)
		VALUES (?, ?, ?, ?)
	`, job.ID, job.CompanyID, job.Status, formatTime(job.StartedAt))
	if err != nil {
		return nil, err
	}
	return job, nil
}

// findCrawlJobByID retrieves a job by ID.
func (s *CrawlJobService) findCrawlJobByID(ctx context.Context, id string) (*offercrawl.CrawlJob, error) {
	job, err := scanJob(s.db.QueryRowContext(ctx, "SELECT "+jobColumns+" FROM crawl_jobs WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, offercrawl.Errorf(offercrawl.ENOTFOUND, "crawl job not found")
	}
	return job, err
}

// UpdateCrawlJob updates an existing job. Moving to a terminal status
// records the completion time.
func (s *CrawlJobService) UpdateCrawlJob(ctx context.Context, id string, upd offercrawl.CrawlJobUpdate) (*offercrawl.CrawlJob, error) {
	job, err := s.findCrawlJobByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Status != nil {
		if !upd.Status.Valid() {
			return nil, offercrawl.Errorf(offercrawl.EINVALID, "invalid job status %q", *upd.Status)
		}
		job.Status = *upd.Status
		if job.Status.Terminal() && job.CompletedAt == nil {
			now := time.Now().UTC().Truncate(time.Second)
			job.CompletedAt = &now
		}
	}
	if upd.PagesCrawled != nil {
		job.PagesCrawled = *upd.PagesCrawled
	}
	if upd.PagesFailed != nil {
		job.PagesFailed = *upd.PagesFailed
	}
	if upd.NewKeywords != nil {
		job.NewKeywords = *upd.NewKeywords
	}
	if upd.ErrorMessage != nil {
		job.ErrorMessage = *upd.ErrorMessage
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE crawl_jobs
		SET status = ?, completed_at = ?, pages_crawled = ?, pages_failed = ?,
			new_keywords_found = ?, error_message = ?
		WHERE id = ?
	`, job.Status, formatNullTime(job.CompletedAt), job.PagesCrawled, job.PagesFailed,
		job.NewKeywords, job.ErrorMessage, id)
	if err != nil {
		return nil, err
	}
	return job, nil
}

// FindCrawlJobs retrieves jobs matching the filter, newest first.
func (s *CrawlJobService) FindCrawlJobs(ctx context.Context, filter offercrawl.CrawlJobFilter) ([]*offercrawl.CrawlJob, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + jobColumns + " FROM crawl_jobs WHERE 1=1")

	if filter.CompanyID != nil {
		query.WriteString(" AND company_id = ?")
		args = append(args, *filter.CompanyID)
	}
	if filter.Status != nil {
		query.WriteString(" AND status = ?")
		args = append(args, *filter.Status)
	}

	query.WriteString(" ORDER BY started_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []*offercrawl.CrawlJob
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}

	return jobs, rows.Err()
}

// requireCompany returns ENOTFOUND unless companyID exists.
func requireCompany(ctx context.Context, q queryer, companyID string) error {
	var n int
	if err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM companies WHERE id = ?", companyID).Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		return offercrawl.Errorf(offercrawl.ENOTFOUND, "company not found")
	}
	return nil
}
