package offercrawl

import (
	"context"
	"strings"
	"time"
)

// RecrawlInterval is the time between successful crawls of a company.
const RecrawlInterval = 30 * 24 * time.Hour

// CompanyStatus is the crawl state of a company.
type CompanyStatus string

// Company crawl states.
const (
	StatusPending    CompanyStatus = "pending"
	StatusInProgress CompanyStatus = "in_progress"
	StatusCompleted  CompanyStatus = "completed"
	StatusFailed     CompanyStatus = "failed"
	StatusPaused     CompanyStatus = "paused"
)

// Valid reports whether s is a known company status.
func (s CompanyStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusFailed, StatusPaused:
		return true
	}
	return false
}

// Company is a website whose offerings are crawled.
type Company struct {
	ID            string        `json:"id"`
	Domain        string        `json:"domain"`
	Name          string        `json:"name"`
	Status        CompanyStatus `json:"status"`
	Active        bool          `json:"active"`
	LastCrawled   *time.Time    `json:"lastCrawled,omitempty"`
	NextCrawlDate *time.Time    `json:"nextCrawlDate,omitempty"`
	ErrorMessage  string        `json:"errorMessage,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// HomepageURL returns the URL crawling starts from.
func (c *Company) HomepageURL() string {
	return HomepageURL(c.Domain)
}

// Validate returns an error if the company contains invalid fields.
// The domain is normalized in place.
func (c *Company) Validate() error {
	c.Domain = NormalizeDomain(c.Domain)
	if c.Domain == "" {
		return Errorf(EINVALID, "company domain required")
	}
	if !strings.Contains(c.Domain, ".") || strings.ContainsAny(c.Domain, " \t") {
		return Errorf(EINVALID, "invalid company domain %q", c.Domain)
	}
	if c.Status == "" {
		c.Status = StatusPending
	}
	if !c.Status.Valid() {
		return Errorf(EINVALID, "invalid company status %q", c.Status)
	}
	return nil
}

// CompanyService represents a service for managing companies.
type CompanyService interface {
	// CreateCompany registers a company. Returns ECONFLICT if the domain is
	// already registered.
	CreateCompany(ctx context.Context, company *Company) error

	// FindCompanyByID retrieves a company by ID.
	// Returns ENOTFOUND if company does not exist.
	FindCompanyByID(ctx context.Context, id string) (*Company, error)

	// FindCompanyByDomain retrieves a company by its normalized domain.
	// Returns ENOTFOUND if company does not exist.
	FindCompanyByDomain(ctx context.Context, domain string) (*Company, error)

	// FindCompanies retrieves companies matching the filter.
	FindCompanies(ctx context.Context, filter CompanyFilter) ([]*Company, error)

	// UpdateCompanyStatus sets the crawl status of a company. Completing a
	// crawl records the crawl time and schedules the next one.
	// Returns ENOTFOUND if company does not exist.
	UpdateCompanyStatus(ctx context.Context, id string, status CompanyStatus, errMsg string) error

	// ClaimNextPending marks the oldest active pending company in progress
	// and returns it. Returns ENOTFOUND when no company is pending.
	ClaimNextPending(ctx context.Context) (*Company, error)

	// ResetStuckCompanies returns companies that have been in progress for
	// longer than olderThan to pending and reports how many were reset.
	ResetStuckCompanies(ctx context.Context, olderThan time.Duration) (int, error)

	// Stats returns aggregate crawl statistics.
	Stats(ctx context.Context) (*CrawlStats, error)
}

// CompanyFilter represents a filter for FindCompanies.
type CompanyFilter struct {
	ID     *string        `json:"id"`
	Domain *string        `json:"domain"`
	Status *CompanyStatus `json:"status"`
	Active *bool          `json:"active"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// CrawlStats summarizes the crawl database.
type CrawlStats struct {
	Companies      int                   `json:"companies"`
	ByStatus       map[CompanyStatus]int `json:"byStatus"`
	Keywords       int                   `json:"keywords"`
	DomainKeywords int                   `json:"domainKeywords"`
	Jobs           int                   `json:"jobs"`
	JobsByStatus   map[JobStatus]int     `json:"jobsByStatus"`
}
