package soccerstats

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/grauwolf32/soccer/season"
	"github.com/grauwolf32/soccer/utils"
)

type fakeLoader struct {
	mu    sync.Mutex
	pages map[string]string
	hits  []string
}

func (f *fakeLoader) Load(ctx context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hits = append(f.hits, url)
	body, ok := f.pages[url]
	if !ok {
		return nil, ErrUnexpectedStatus
	}
	return []byte(body), nil
}

func (f *fakeLoader) Close() error { return nil }

func newTestClient(t *testing.T, loader PageLoader, opts Options) *Client {
	t.Helper()
	opts.BaseURL = "https://stats.example.test"
	opts.MaxConcurrency = 2
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Date(2021, time.April, 1, 12, 0, 0, 0, time.UTC) }
	}
	c, err := NewClient(loader, utils.NewLoggerTo(io.Discard), opts)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestFetchLeagueCatalog(t *testing.T) {
	loader := &fakeLoader{pages: map[string]string{
		"https://stats.example.test/leagues.asp":               leagueListHTML,
		"https://stats.example.test/latest.asp?league=england": leaguePageHTML,
	}}
	c := newTestClient(t, loader, Options{})

	catalog, err := c.FetchLeagueCatalog(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(catalog) != 1 {
		t.Fatalf("expected only England (Spain page missing), got %+v", catalog)
	}
	e := catalog[0]
	if e.Country != "England" || e.League != "Premier League" {
		t.Errorf("catalog entry: %+v", e)
	}
	if e.URL != "https://stats.example.test/latest.asp?league=england" {
		t.Errorf("league url: %q", e.URL)
	}
	if len(e.Seasons) != 3 {
		t.Errorf("seasons: %v", e.Seasons)
	}
}

func TestFetchLeagueCatalogCountryFilter(t *testing.T) {
	loader := &fakeLoader{pages: map[string]string{
		"https://stats.example.test/leagues.asp":               leagueListHTML,
		"https://stats.example.test/latest.asp?league=england": leaguePageHTML,
		"https://stats.example.test/latest.asp?league=spain":   leaguePageHTML,
	}}
	c := newTestClient(t, loader, Options{Countries: []string{"spain"}})

	catalog, err := c.FetchLeagueCatalog(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(catalog) != 1 || catalog[0].Country != "Spain" {
		t.Errorf("country filter: %+v", catalog)
	}
	for _, hit := range loader.hits {
		if hit == "https://stats.example.test/latest.asp?league=england" {
			t.Error("filtered country should not be fetched")
		}
	}
}

func TestFetchLeagueCatalogListFailure(t *testing.T) {
	c := newTestClient(t, &fakeLoader{}, Options{})
	if _, err := c.FetchLeagueCatalog(context.Background()); !errors.Is(err, ErrUnexpectedStatus) {
		t.Errorf("expected loader error, got %v", err)
	}
}

func TestFetchLeagueMatches(t *testing.T) {
	loader := &fakeLoader{pages: map[string]string{
		"https://stats.example.test/results.asp?league=england&pmtype=bydate":      currentHTML,
		"https://stats.example.test/results.asp?league=england_2020&pmtype=bydate": archiveHTML,
	}}
	c := newTestClient(t, loader, Options{})

	current, err := c.FetchLeagueMatches(context.Background(), "latest.asp?league=england", season.MustParse("2020/21"))
	if err != nil {
		t.Fatal(err)
	}
	if current.Upcoming == nil || len(current.Upcoming) != 2 {
		t.Errorf("current season fixtures: %+v", current.Upcoming)
	}

	archive, err := c.FetchLeagueMatches(context.Background(), "latest.asp?league=england_2020", season.MustParse("2019/20"))
	if err != nil {
		t.Fatal(err)
	}
	if archive.Upcoming != nil || len(archive.Matches) != 2 {
		t.Errorf("archive page: %+v", archive)
	}

	if _, err := c.FetchLeagueMatches(context.Background(), "widgets.asp", season.MustParse("2019/20")); !errors.Is(err, ErrNoLeagueTag) {
		t.Errorf("expected ErrNoLeagueTag, got %v", err)
	}
}
