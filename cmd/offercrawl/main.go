package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/offercrawl"
	"github.com/fwojciec/offercrawl/crawl"
	"github.com/fwojciec/offercrawl/goquery"
	ochttp "github.com/fwojciec/offercrawl/http"
	"github.com/fwojciec/offercrawl/rod"
	ocslog "github.com/fwojciec/offercrawl/slog"
	"github.com/fwojciec/offercrawl/sqlite"
	"github.com/fwojciec/offercrawl/yaml"
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env file is not an error.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	CompanyService  offercrawl.CompanyService
	CrawlJobService offercrawl.CrawlJobService
	KeywordService  offercrawl.KeywordService

	// Fetcher overrides the configured fetcher when set.
	Fetcher offercrawl.Fetcher
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// crawlCommands need a fetcher and the extraction engine.
var crawlCommands = map[string]bool{
	"run":     true,
	"crawl":   true,
	"links":   true,
	"extract": true,
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("offercrawl"),
		kong.Description("Discover and catalog the offerings of company websites."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'offercrawl --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd, _, _ = strings.Cut(kongCtx.Command(), " ")

	logger := ocslog.NewLogger(stderr, cli.LogLevel, cli.LogFormat)
	deps.Logger = logger

	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set OFFERCRAWL_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	m.CompanyService = sqlite.NewCompanyService(m.DB)
	m.CrawlJobService = sqlite.NewCrawlJobService(m.DB)
	m.KeywordService = sqlite.NewKeywordService(m.DB)
	deps.DB = m.DB
	deps.Companies = m.CompanyService
	deps.Jobs = m.CrawlJobService
	deps.Keywords = m.KeywordService

	if crawlCommands[cmd] {
		crawler, closeFn, err := m.newCrawler(&cli.Globals, logger, stderr)
		if err != nil {
			return err
		}
		defer closeFn()
		deps.Crawler = crawler
	}

	return kongCtx.Run(deps)
}

// newCrawler wires the fetch stack, the extraction engine and storage into
// a crawler according to the global flags.
func (m *Main) newCrawler(g *Globals, logger *slog.Logger, stderr io.Writer) (*crawl.Crawler, func() error, error) {
	var vocab *offercrawl.Vocabulary
	if g.Vocabulary != "" {
		v, err := yaml.LoadVocabulary(g.Vocabulary)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load vocabulary: %w", err)
		}
		vocab = v
	}
	engine := goquery.NewEngine(goquery.WithVocabulary(vocab), goquery.WithLogger(logger))

	ua := g.UserAgent
	if ua == "" {
		ua = ochttp.DefaultUserAgent
	}

	fetcher := m.Fetcher
	if fetcher == nil && g.Browser {
		f, err := rod.NewFetcher(rod.WithUserAgent(ua), rod.WithFetchTimeout(g.Timeout))
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
			return nil, nil, fmt.Errorf("failed to start browser: %w", err)
		}
		fetcher = f
	} else if fetcher == nil {
		fetcher = ochttp.NewFetcher(ochttp.WithUserAgent(ua), ochttp.WithTimeout(g.Timeout))
	}
	fetcher = ocslog.NewLoggingFetcher(fetcher, logger)

	c := &crawl.Crawler{
		Fetcher:     fetcher,
		RateLimiter: crawl.NewDomainLimiter(g.RateLimit),
		Links:       ocslog.NewLoggingLinkClassifier(engine, logger),
		Extractor:   ocslog.NewLoggingKeywordExtractor(engine, logger),
		Keywords:    ocslog.NewLoggingKeywordService(m.KeywordService, logger),
		Companies:   m.CompanyService,
		Jobs:        m.CrawlJobService,
		Logger:      logger,
		MaxLinks:    g.MaxLinks,
		Concurrency: g.Concurrency,
		RetryDelays: retryDelays(g.MaxRetries),
	}
	if g.RespectRobots {
		c.Robots = ochttp.NewRobotsChecker(ua)
	}
	return c, fetcher.Close, nil
}

// retryDelays returns n exponential backoff delays starting at one second.
func retryDelays(n int) []time.Duration {
	delays := make([]time.Duration, 0, max(n, 0))
	d := time.Second
	for range n {
		delays = append(delays, d)
		d *= 2
	}
	return delays
}

func defaultDBPath() string {
	if path := os.Getenv("OFFERCRAWL_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "offercrawl.db"
	}
	dir := filepath.Join(home, ".offercrawl")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "offercrawl.db")
}
