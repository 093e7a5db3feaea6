package http

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/offercrawl"
	"github.com/temoto/robotstxt"
)

// DefaultRobotsTimeout bounds the fetch of a robots.txt file.
const DefaultRobotsTimeout = 10 * time.Second

var _ offercrawl.RobotsPolicy = (*RobotsChecker)(nil)

// RobotsChecker answers robots.txt queries, fetching each site's file once.
// A site whose robots.txt is missing or unreachable allows everything.
type RobotsChecker struct {
	client    *http.Client
	userAgent string

	mu    sync.Mutex
	cache map[string]*robotstxt.Group
}

// NewRobotsChecker creates a RobotsChecker that identifies as userAgent.
func NewRobotsChecker(userAgent string) *RobotsChecker {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &RobotsChecker{
		client:    &http.Client{Timeout: DefaultRobotsTimeout},
		userAgent: userAgent,
		cache:     make(map[string]*robotstxt.Group),
	}
}

// Allowed reports whether rawURL may be crawled.
func (c *RobotsChecker) Allowed(ctx context.Context, rawURL string) (bool, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return false, offercrawl.Errorf(offercrawl.EINVALID, "invalid URL %q", rawURL)
	}
	site := u.Scheme + "://" + u.Host

	c.mu.Lock()
	group, ok := c.cache[site]
	c.mu.Unlock()

	if !ok {
		group = c.fetch(ctx, site)
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		c.mu.Lock()
		c.cache[site] = group
		c.mu.Unlock()
	}

	if group == nil {
		return true, nil
	}
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return group.Test(path), nil
}

// fetch retrieves and parses the robots.txt of site. It returns nil when
// the file cannot be read, which allows all paths.
func (c *RobotsChecker) fetch(ctx context.Context, site string) *robotstxt.Group {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, site+"/robots.txt", nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 512<<10))
	if err != nil {
		return nil
	}
	robots, err := robotstxt.FromBytes(body)
	if err != nil {
		return nil
	}
	return robots.FindGroup(agentToken(c.userAgent))
}

// agentToken returns the product token robots.txt groups are matched
// against, e.g. "OfferCrawl" for "Mozilla/5.0 (compatible; OfferCrawl/1.0)".
func agentToken(userAgent string) string {
	if i := strings.Index(userAgent, "compatible;"); i >= 0 {
		rest := strings.TrimSpace(userAgent[i+len("compatible;"):])
		if j := strings.IndexAny(rest, "/;) "); j > 0 {
			return rest[:j]
		}
	}
	if j := strings.IndexAny(userAgent, "/ "); j > 0 {
		return userAgent[:j]
	}
	return userAgent
}
