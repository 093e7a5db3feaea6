package offercrawl

import (
	"context"
	"time"
)

// JobStatus is the state of one crawl run.
type JobStatus string

// Crawl job states.
const (
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
	JobCancelled JobStatus = "cancelled"
)

// Terminal reports whether the job has finished.
func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobFailed || s == JobCancelled
}

// Valid reports whether s is a known job status.
func (s JobStatus) Valid() bool {
	return s == JobRunning || s.Terminal()
}

// CrawlJob records one crawl of a company.
type CrawlJob struct {
	ID           string     `json:"id"`
	CompanyID    string     `json:"companyId"`
	Status       JobStatus  `json:"status"`
	StartedAt    time.Time  `json:"startedAt"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
	PagesCrawled int        `json:"pagesCrawled"`
	PagesFailed  int        `json:"pagesFailed"`
	NewKeywords  int        `json:"newKeywords"`
	ErrorMessage string     `json:"errorMessage,omitempty"`
}

// CrawlJobService represents a service for recording crawl jobs.
type CrawlJobService interface {
	// CreateCrawlJob starts a running job for a company.
	// Returns ENOTFOUND if the company does not exist.
	CreateCrawlJob(ctx context.Context, companyID string) (*CrawlJob, error)

	// UpdateCrawlJob updates a job. Moving to a terminal status records the
	// completion time.
	// Returns ENOTFOUND if job does not exist.
	UpdateCrawlJob(ctx context.Context, id string, upd CrawlJobUpdate) (*CrawlJob, error)

	// FindCrawlJobs retrieves jobs matching the filter, newest first.
	FindCrawlJobs(ctx context.Context, filter CrawlJobFilter) ([]*CrawlJob, error)
}

// CrawlJobUpdate represents fields that can be updated on a crawl job.
type CrawlJobUpdate struct {
	Status       *JobStatus `json:"status"`
	PagesCrawled *int       `json:"pagesCrawled"`
	PagesFailed  *int       `json:"pagesFailed"`
	NewKeywords  *int       `json:"newKeywords"`
	ErrorMessage *string    `json:"errorMessage"`
}

// CrawlJobFilter represents a filter for FindCrawlJobs.
type CrawlJobFilter struct {
	CompanyID *string    `json:"companyId"`
	Status    *JobStatus `json:"status"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
