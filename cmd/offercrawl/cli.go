package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/offercrawl"
	"github.com/fwojciec/offercrawl/crawl"
	"github.com/fwojciec/offercrawl/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	DB        *sqlite.DB
	Companies offercrawl.CompanyService
	Jobs      offercrawl.CrawlJobService
	Keywords  offercrawl.KeywordService
	Crawler   *crawl.Crawler
}

// Globals are flags shared by every command. Each can also be set through
// the environment or a .env file.
type Globals struct {
	UserAgent     string        `name:"user-agent" env:"USER_AGENT" help:"User agent sent with every request"`
	Timeout       time.Duration `env:"REQUEST_TIMEOUT" default:"30s" help:"Per-request timeout"`
	RateLimit     float64       `env:"RATE_LIMIT" default:"1" help:"Requests per second per domain (0 disables limiting)"`
	MaxRetries    int           `env:"MAX_RETRIES" default:"3" help:"Retries for failed fetches"`
	RespectRobots bool          `name:"robots" env:"RESPECT_ROBOTS_TXT" default:"true" negatable:"" help:"Honor robots.txt"`
	MaxLinks      int           `env:"MAX_LINKS" default:"20" help:"Offering links followed per homepage"`
	Concurrency   int           `short:"c" env:"CONCURRENCY" default:"1" help:"Companies crawled concurrently"`
	Vocabulary    string        `name:"vocabulary" env:"VOCABULARY_FILE" type:"path" help:"YAML file with additional rule vocabulary"`
	Browser       bool          `env:"BROWSER" help:"Render pages with a headless browser"`
	LogLevel      string        `env:"LOG_LEVEL" default:"info" enum:"debug,info,warn,error" help:"Log level"`
	LogFormat     string        `env:"LOG_FORMAT" default:"text" enum:"text,json" help:"Log format"`
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Globals

	Run     RunCmd     `cmd:"" help:"Crawl all pending companies"`
	Crawl   CrawlCmd   `cmd:"" help:"Crawl one company now, regardless of its status"`
	Add     AddCmd     `cmd:"" help:"Register companies by domain"`
	Import  ImportCmd  `cmd:"" help:"Import companies from a CSV or NDJSON file"`
	Status  StatusCmd  `cmd:"" help:"Show crawl statistics"`
	Reset   ResetCmd   `cmd:"" help:"Return stuck or failed companies to pending"`
	Tag     TagCmd     `cmd:"" help:"Record an offering keyword for a company by hand"`
	Links   LinksCmd   `cmd:"" help:"Show the offering links found on a homepage"`
	Extract ExtractCmd `cmd:"" help:"Show the keywords extracted from a page"`
}

// RunCmd is the "run" subcommand.
type RunCmd struct{}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	Domain string `arg:"" help:"Company domain or URL"`
	Add    bool   `help:"Register the company if it is not known yet"`
}

// AddCmd is the "add" subcommand.
type AddCmd struct {
	Domains []string `arg:"" help:"Company domains or URLs"`
	Name    string   `help:"Company name (only with a single domain)"`
}

// ImportCmd is the "import" subcommand.
type ImportCmd struct {
	File   string `arg:"" type:"existingfile" help:"CSV or NDJSON file"`
	Column string `help:"CSV column holding the domain (name or zero-based index)"`
	DryRun bool   `name:"dry-run" help:"Validate the file without storing companies"`
}

// StatusCmd is the "status" subcommand.
type StatusCmd struct {
	Domain string `arg:"" optional:"" help:"Show the stored keywords of one company"`
	Top    int    `default:"20" help:"Number of top keywords to show"`
	Recent int    `default:"10" help:"Number of recent jobs and failed companies to show"`
}

// ResetCmd is the "reset" subcommand.
type ResetCmd struct {
	OlderThan time.Duration `name:"older-than" default:"1h" help:"Reset companies in progress for longer than this"`
	Failed    bool          `help:"Also return failed companies to pending"`
}

// TagCmd is the "tag" subcommand.
type TagCmd struct {
	Domain  string `arg:"" help:"Company domain or URL"`
	Keyword string `arg:"" help:"Offering keyword"`
	Section string `short:"s" default:"service_detail" enum:"menu,service_listing,service_detail" help:"Page section the keyword belongs to"`
	URL     string `name:"url" help:"Page the keyword was seen on"`
}

// LinksCmd is the "links" subcommand.
type LinksCmd struct {
	URL string `arg:"" help:"Homepage URL"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	URL  string `arg:"" help:"Page URL"`
	Role string `short:"r" default:"detail" enum:"home,listing,detail" help:"Page role (home, listing, detail)"`
	JSON bool   `help:"Print keywords as JSON"`
}
