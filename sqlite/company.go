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
var _ offercrawl.CompanyService = (*CompanyService)(nil)

// CompanyService implements offercrawl.CompanyService using SQLite.
type CompanyService struct {
	db *DB
}

// NewCompanyService creates a new CompanyService.
func NewCompanyService(db *DB) *CompanyService {
	return &CompanyService{db: db}
}

const companyColumns = `id, domain, name, crawl_status, is_active, last_crawled,
	next_crawl_date, error_message, created_at, updated_at`

// scanner is implemented by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanCompany(row scanner) (*offercrawl.Company, error) {
	var c offercrawl.Company
	var lastCrawled, nextCrawl sql.NullString
	var createdAt, updatedAt string

	if err := row.Scan(&c.ID, &c.Domain, &c.Name, &c.Status, &c.Active, &lastCrawled,
		&nextCrawl, &c.ErrorMessage, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if c.LastCrawled, err = parseNullRFC3339(lastCrawled, "last_crawled"); err != nil {
		return nil, err
	}
	if c.NextCrawlDate, err = parseNullRFC3339(nextCrawl, "next_crawl_date"); err != nil {
		return nil, err
	}
	if c.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateCompany registers a new active company.
func (s *CompanyService) CreateCompany(ctx context.Context, company *offercrawl.Company) error {
	if err := company.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM companies WHERE domain = ?", company.Domain).Scan(&exists)
	if err != nil {
		return err
	}
	if exists > 0 {
		return offercrawl.Errorf(offercrawl.ECONFLICT, "company %q already exists", company.Domain)
	}

	company.ID = uuid.New().String()
	company.Active = true
	now := time.Now().UTC()
	company.CreatedAt = now
	company.UpdatedAt = now

	_, err = tx.ExecContext(ctx, `
		INSERT INTO companies (`+companyColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, company.ID, company.Domain, company.Name, company.Status, company.Active,
		formatNullTime(company.LastCrawled), formatNullTime(company.NextCrawlDate),
		company.ErrorMessage, formatTime(company.CreatedAt), formatTime(company.UpdatedAt))
	if err != nil {
		return err
	}

	return tx.Commit()
}

// FindCompanyByID retrieves a company by ID.
func (s *CompanyService) FindCompanyByID(ctx context.Context, id string) (*offercrawl.Company, error) {
	c, err := scanCompany(s.db.QueryRowContext(ctx,
		"SELECT "+companyColumns+" FROM companies WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, offercrawl.Errorf(offercrawl.ENOTFOUND, "company not found")
	}
	return c, err
}

// FindCompanyByDomain retrieves a company by domain. The domain is
// normalized before lookup.
func (s *CompanyService) FindCompanyByDomain(ctx context.Context, domain string) (*offercrawl.Company, error) {
	c, err := scanCompany(s.db.QueryRowContext(ctx,
		"SELECT "+companyColumns+" FROM companies WHERE domain = ?", offercrawl.NormalizeDomain(domain)))
	if err == sql.ErrNoRows {
		return nil, offercrawl.Errorf(offercrawl.ENOTFOUND, "company %q not found", domain)
	}
	return c, err
}

// FindCompanies retrieves companies matching the filter, oldest first.
func (s *CompanyService) FindCompanies(ctx context.Context, filter offercrawl.CompanyFilter) ([]*offercrawl.Company, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + companyColumns + " FROM companies WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.Domain != nil {
		query.WriteString(" AND domain = ?")
		args = append(args, offercrawl.NormalizeDomain(*filter.Domain))
	}
	if filter.Status != nil {
		query.WriteString(" AND crawl_status = ?")
		args = append(args, *filter.Status)
	}
	if filter.Active != nil {
		query.WriteString(" AND is_active = ?")
		args = append(args, *filter.Active)
	}

	query.WriteString(" ORDER BY created_at ASC, rowid ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []*offercrawl.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}

	return companies, rows.Err()
}

// UpdateCompanyStatus sets the crawl status of a company. Completing a
// crawl records the crawl time and schedules the next one.
func (s *CompanyService) UpdateCompanyStatus(ctx context.Context, id string, status offercrawl.CompanyStatus, errMsg string) error {
	if !status.Valid() {
		return offercrawl.Errorf(offercrawl.EINVALID, "invalid company status %q", status)
	}

	now := time.Now().UTC()
	var (
		result sql.Result
		err    error
	)
	if status == offercrawl.StatusCompleted {
		result, err = s.db.ExecContext(ctx, `
			UPDATE companies
			SET crawl_status = ?, last_crawled = ?, next_crawl_date = ?, error_message = ?, updated_at = ?
			WHERE id = ?
		`, status, formatTime(now), formatTime(now.Add(offercrawl.RecrawlInterval)), errMsg, formatTime(now), id)
	} else {
		result, err = s.db.ExecContext(ctx, `
			UPDATE companies
			SET crawl_status = ?, error_message = ?, updated_at = ?
			WHERE id = ?
		`, status, errMsg, formatTime(now), id)
	}
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return offercrawl.Errorf(offercrawl.ENOTFOUND, "company not found")
	}
	return nil
}

// ClaimNextPending atomically marks the oldest active pending company in
// progress and returns it.
func (s *CompanyService) ClaimNextPending(ctx context.Context) (*offercrawl.Company, error) {
	now := formatTime(time.Now())
	c, err := scanCompany(s.db.QueryRowContext(ctx, `
		UPDATE companies
		SET crawl_status = ?, updated_at = ?
		WHERE id = (
			SELECT id FROM companies
			WHERE crawl_status = ? AND is_active = 1
			ORDER BY created_at ASC, rowid ASC
			LIMIT 1
		)
		RETURNING `+companyColumns,
		offercrawl.StatusInProgress, now, offercrawl.StatusPending))
	if err == sql.ErrNoRows {
		return nil, offercrawl.Errorf(offercrawl.ENOTFOUND, "no pending companies")
	}
	return c, err
}

// ResetStuckCompanies returns companies that have been in progress for
// longer than olderThan to pending.
func (s *CompanyService) ResetStuckCompanies(ctx context.Context, olderThan time.Duration) (int, error) {
	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx, `
		UPDATE companies
		SET crawl_status = ?, updated_at = ?
		WHERE crawl_status = ? AND updated_at < ?
	`, offercrawl.StatusPending, formatTime(now), offercrawl.StatusInProgress, formatTime(now.Add(-olderThan)))
	if err != nil {
		return 0, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(rows), nil
}

// Stats returns aggregate crawl statistics.
func (s *CompanyService) Stats(ctx context.Context) (*offercrawl.CrawlStats, error) {
	stats := &offercrawl.CrawlStats{
		ByStatus:     make(map[offercrawl.CompanyStatus]int),
		JobsByStatus: make(map[offercrawl.JobStatus]int),
	}

	rows, err := s.db.QueryContext(ctx, "SELECT crawl_status, COUNT(*) FROM companies GROUP BY crawl_status")
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var status offercrawl.CompanyStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			rows.Close()
			return nil, err
		}
		stats.ByStatus[status] = n
		stats.Companies += n
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = s.db.QueryContext(ctx, "SELECT status, COUNT(*) FROM crawl_jobs GROUP BY status")
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var status offercrawl.JobStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			rows.Close()
			return nil, err
		}
		stats.JobsByStatus[status] = n
		stats.Jobs += n
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM keywords_master").Scan(&stats.Keywords); err != nil {
		return nil, err
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM domain_keywords").Scan(&stats.DomainKeywords); err != nil {
		return nil, err
	}
	return stats, nil
}
