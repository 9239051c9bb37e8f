package soccerstats

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/grauwolf32/soccer/models"
	"github.com/grauwolf32/soccer/season"
	"github.com/grauwolf32/soccer/utils"
)

// DefaultBaseURL is the site the client reads from.
const DefaultBaseURL = "https://www.soccerstats.com"

// Options configures a Client.
type Options struct {
	BaseURL        string
	MaxConcurrency int
	RateLimitMs    int
	// Countries restricts the catalog; empty means every country.
	Countries []string
	// Now is the clock; nil means time.Now.
	Now func() time.Time
}

// Client reads the league catalog and season results from soccerstats.com.
type Client struct {
	loader PageLoader
	logger *utils.Logger
	base   *url.URL
	opts   Options
}

// NewClient creates a Client that fetches pages through loader.
func NewClient(loader PageLoader, logger *utils.Logger, opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("soccerstats: base url: %w", err)
	}
	return &Client{loader: loader, logger: logger, base: base, opts: opts}, nil
}

// FetchLeagueCatalog lists every league with its season pages. A league whose
// own page cannot be loaded is logged and left out.
func (c *Client) FetchLeagueCatalog(ctx context.Context) ([]models.CatalogEntry, error) {
	body, err := c.loader.Load(ctx, c.resolve("leagues.asp"))
	if err != nil {
		return nil, fmt.Errorf("soccerstats: league list: %w", err)
	}
	links, err := ParseLeagueList(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	c.logger.Info("[soccerstats] League list has %d entries", len(links))

	var (
		mu      sync.Mutex
		catalog []models.CatalogEntry
	)
	seen := utils.NewSet[string]()
	pool := utils.NewWorkerPool(c.opts.MaxConcurrency, c.opts.RateLimitMs)

	for _, link := range links {
		if !c.wantCountry(link.Country) {
			continue
		}
		leagueURL := c.resolve(link.Href)
		if !seen.Add(leagueURL) {
			continue
		}
		if ctx.Err() != nil {
			break
		}

		pool.Submit(func() {
			page, err := c.loader.Load(ctx, leagueURL)
			if err != nil {
				c.logger.Warn("[soccerstats] %s %s: %v", link.Country, link.League, err)
				return
			}
			refs, err := ParseSeasonRefs(bytes.NewReader(page))
			if err != nil {
				c.logger.Warn("[soccerstats] %s %s: %v", link.Country, link.League, err)
				return
			}

			mu.Lock()
			defer mu.Unlock()
			catalog = append(catalog, models.CatalogEntry{
				Country: link.Country,
				League:  link.League,
				URL:     leagueURL,
				Seasons: refs,
			})
		})
	}
	pool.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("soccerstats: league catalog: %w", err)
	}

	sort.Slice(catalog, func(i, j int) bool {
		if catalog[i].Country != catalog[j].Country {
			return catalog[i].Country < catalog[j].Country
		}
		return catalog[i].League < catalog[j].League
	})
	c.logger.Info("[soccerstats] Catalog ready: %d of %d league pages parsed", len(catalog), seen.Size())
	return catalog, nil
}

// FetchLeagueMatches loads the by-date results of the league identified by
// ref for season s. Unreadable rows are logged and dropped.
func (c *Client) FetchLeagueMatches(ctx context.Context, ref string, s season.Season) (*models.SeasonPage, error) {
	tag, err := LeagueTag(ref)
	if err != nil {
		return nil, err
	}
	body, err := c.loader.Load(ctx, c.ResultsURL(tag))
	if err != nil {
		return nil, err
	}

	now := c.opts.Now()
	page, rowErrs, err := ParseResults(bytes.NewReader(body), s, season.ForDate(now) == s, now)
	if err != nil {
		return nil, err
	}
	for _, rowErr := range rowErrs {
		c.logger.Warn("[soccerstats] %s %s: %v", tag, s, rowErr)
	}
	c.logger.Debug("[soccerstats] %s %s: %d matches, %d fixtures", tag, s, len(page.Matches), len(page.Upcoming))
	return page, nil
}

// ResultsURL returns the by-date results page of a league tag.
func (c *Client) ResultsURL(tag string) string {
	return c.resolve("results.asp?league=" + tag + "&pmtype=bydate")
}

func (c *Client) resolve(ref string) string {
	u, err := url.Parse(ref)
	if err != nil {
		return c.base.String() + strings.TrimLeft(ref, "/")
	}
	return c.base.ResolveReference(u).String()
}

func (c *Client) wantCountry(country string) bool {
	if len(c.opts.Countries) == 0 {
		return true
	}
	for _, want := range c.opts.Countries {
		if strings.EqualFold(strings.TrimSpace(want), country) {
			return true
		}
	}
	return false
}
