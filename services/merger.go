package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/grauwolf32/soccer/models"
	"github.com/grauwolf32/soccer/season"
	"github.com/grauwolf32/soccer/storage"
	"github.com/grauwolf32/soccer/utils"
)

// DefaultInitialSeasons is how many seasons an empty store is seeded with.
const DefaultInitialSeasons = 4

// MatchSource provides the league catalog and per-season result pages.
type MatchSource interface {
	FetchLeagueCatalog(ctx context.Context) ([]models.CatalogEntry, error)
	FetchLeagueMatches(ctx context.Context, ref string, s season.Season) (*models.SeasonPage, error)
}

// MergeOptions configures a Merger.
type MergeOptions struct {
	InitialSeasons int
	MaxConcurrency int
	RateLimitMs    int
	// Now is the clock; nil means time.Now.
	Now func() time.Time
}

// MergeReport summarises one merge run.
type MergeReport struct {
	Seasons         []season.Season
	NewLeagues      int
	UpdatedLeagues  int
	AppendedMatches int
	Fixtures        int
	SkippedSeasons  int
	FailedLeagues   []models.LeagueKey
}

// Merger folds freshly fetched season pages into a copy of the stored dataset.
type Merger struct {
	source  MatchSource
	cleaner *Cleaner
	logger  *utils.Logger
	opts    MergeOptions
}

// NewMerger creates a Merger reading from source.
func NewMerger(source MatchSource, logger *utils.Logger, opts MergeOptions) *Merger {
	if opts.InitialSeasons <= 0 {
		opts.InitialSeasons = DefaultInitialSeasons
	}
	if opts.MaxConcurrency <= 0 {
		opts.MaxConcurrency = 1
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Merger{
		source:  source,
		cleaner: NewCleaner(logger),
		logger:  logger,
		opts:    opts,
	}
}

// SeasonsToFetch decides which seasons a merge into store must fetch, oldest
// first. An empty store gets the initial load; a store whose newest match
// belongs to an earlier season gets every season from that one onwards;
// otherwise only the current season is refreshed.
func (m *Merger) SeasonsToFetch(store *storage.Store) []season.Season {
	current := season.ForDate(m.opts.Now())

	last, ok := store.LastKnownDate()
	if !ok {
		seasons := season.LastN(current, m.opts.InitialSeasons)
		sort.Slice(seasons, func(i, j int) bool { return seasons[i].Before(seasons[j]) })
		return seasons
	}

	lastSeason := season.ForDate(last)
	if lastSeason.Before(current) {
		return season.Range(lastSeason, current)
	}
	return []season.Season{current}
}

type seasonFetch struct {
	season season.Season
	page   *models.SeasonPage
}

type leagueFetch struct {
	entry models.CatalogEntry
	pages []seasonFetch
	err   error
}

// Merge fetches new data and merges it into a clone of old. old is never
// modified; the caller replaces its store with the returned one only when err
// is nil. A league whose pages fail to load keeps its stored data and is listed
// in the report.
func (m *Merger) Merge(ctx context.Context, old *storage.Store) (*storage.Store, *MergeReport, error) {
	next := old.Clone()
	report := &MergeReport{Seasons: m.SeasonsToFetch(old)}

	catalog, err := m.source.FetchLeagueCatalog(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("merger: fetch league catalog: %w", err)
	}
	m.logger.Info("[merger] Catalog lists %d leagues, fetching %d season(s): %v",
		len(catalog), len(report.Seasons), report.Seasons)

	fetched, skipped := m.fetchAll(ctx, catalog, report.Seasons)
	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("merger: %w", err)
	}
	report.SkippedSeasons = skipped

	known := next.KnownMatches()
	for _, key := range sortedLeagueKeys(fetched) {
		lf := fetched[key]
		if lf.err != nil {
			m.logger.Warn("[merger] %s skipped this run: %v", key, lf.err)
			report.FailedLeagues = append(report.FailedLeagues, key)
			continue
		}
		if err := m.apply(next, lf, known, report); err != nil {
			return nil, nil, err
		}
	}

	m.logger.Info("[merger] %d new leagues, %d updated, %d matches appended, %d failed",
		report.NewLeagues, report.UpdatedLeagues, report.AppendedMatches, len(report.FailedLeagues))
	return next, report, nil
}

// fetchAll loads every (league, season) page on the worker pool. Seasons the
// league does not list are skipped and counted.
func (m *Merger) fetchAll(ctx context.Context, catalog []models.CatalogEntry, seasons []season.Season) (map[models.LeagueKey]*leagueFetch, int) {
	var (
		mu      sync.Mutex
		skipped int
	)
	results := make(map[models.LeagueKey]*leagueFetch, len(catalog))
	pool := utils.NewWorkerPool(m.opts.MaxConcurrency, m.opts.RateLimitMs)

	for _, entry := range catalog {
		key := models.LeagueKey{Country: entry.Country, League: entry.League}
		lf, ok := results[key]
		if !ok {
			lf = &leagueFetch{entry: entry}
			results[key] = lf
		}

		for _, s := range seasons {
			ref, ok := entry.Seasons[s.String()]
			if !ok {
				m.logger.Debug("[merger] %s does not list season %s", key, s)
				skipped++
				continue
			}
			if ctx.Err() != nil {
				break
			}

			pool.Submit(func() {
				page, err := m.source.FetchLeagueMatches(ctx, ref, s)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					if lf.err == nil {
						lf.err = fmt.Errorf("season %s: %w", s, err)
					}
					return
				}
				lf.pages = append(lf.pages, seasonFetch{season: s, page: page})
			})
		}
	}
	pool.Wait()

	for _, lf := range results {
		sort.Slice(lf.pages, func(i, j int) bool { return lf.pages[i].season.Before(lf.pages[j].season) })
	}
	return results, skipped
}

func (m *Merger) apply(next *storage.Store, lf *leagueFetch, known map[models.MatchKey]struct{}, report *MergeReport) error {
	key := models.LeagueKey{Country: lf.entry.Country, League: lf.entry.League}
	_, existed := next.Lookup(key.Country, key.League)

	entry := next.UpsertLeague(key.Country, key.League, lf.entry.URL, lf.entry.Seasons)
	if entry.Kind.Kind == models.KindUnknown {
		entry.Kind = ClassifyLeague(key.League)
	}

	var (
		matches  []models.HistoricalMatch
		fixtures []models.UpcomingFixture
		current  bool
	)
	for _, sf := range lf.pages {
		page := m.cleaner.CleanPage(key, sf.page)
		if page.Upcoming != nil {
			current = true
			fixtures = append(fixtures, page.Upcoming...)
		}
		for _, hm := range page.Matches {
			if existed {
				if _, dup := known[hm.Key()]; dup {
					continue
				}
			}
			matches = append(matches, hm)
		}
	}

	added, err := next.AppendHistoricalMatches(key.Country, key.League, matches)
	if err != nil {
		return fmt.Errorf("merger: %w", err)
	}
	for _, hm := range matches {
		known[hm.Key()] = struct{}{}
	}

	// Fixtures only come from a current-season page; without one the stored
	// list is outdated.
	if !current && len(entry.Future) > 0 {
		m.logger.Info("[merger] %s: no current-season page, dropping %d stored fixtures", key, len(entry.Future))
	}
	if err := next.SetUpcomingFixtures(key.Country, key.League, fixtures); err != nil {
		return fmt.Errorf("merger: %w", err)
	}
	report.Fixtures += len(fixtures)

	report.AppendedMatches += added
	if existed {
		report.UpdatedLeagues++
	} else {
		report.NewLeagues++
	}
	if added > 0 {
		m.logger.Debug("[merger] %s: +%d matches, %d fixtures", key, added, len(entry.Future))
	}
	return nil
}

func sortedLeagueKeys[V any](m map[models.LeagueKey]V) []models.LeagueKey {
	keys := make([]models.LeagueKey, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Country != keys[j].Country {
			return keys[i].Country < keys[j].Country
		}
		return keys[i].League < keys[j].League
	})
	return keys
}
