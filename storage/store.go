package storage

import (
	"errors"
	"fmt"
	"maps"
	"sort"
	"strings"
	"time"

	"github.com/grauwolf32/soccer/models"
)

// ErrUnknownLeague is returned when an operation targets a league that was
// never upserted.
var ErrUnknownLeague = errors.New("storage: unknown league")

// Store is the accumulated match dataset: country -> league -> entry.
// Lookups are exact-string keyed; two spellings of a league are two entries.
// A Store is not safe for concurrent mutation.
type Store struct {
	countries map[string]map[string]*models.LeagueEntry
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{countries: make(map[string]map[string]*models.LeagueEntry)}
}

// UpsertLeague creates the league entry if it is missing, otherwise refreshes
// its URL and adds any season pages not seen before.
func (s *Store) UpsertLeague(country, league, url string, seasonRefs map[string]string) *models.LeagueEntry {
	leagues, ok := s.countries[country]
	if !ok {
		leagues = make(map[string]*models.LeagueEntry)
		s.countries[country] = leagues
	}

	entry, ok := leagues[league]
	if !ok {
		entry = &models.LeagueEntry{
			Country: country,
			Name:    league,
			Seasons: make(map[string]string),
			Matches: []models.HistoricalMatch{},
			Future:  []models.UpcomingFixture{},
		}
		leagues[league] = entry
	}

	if url != "" {
		entry.URL = url
	}
	for label, ref := range seasonRefs {
		entry.Seasons[label] = ref
	}
	return entry
}

// Lookup returns the entry for an exact (country, league) pair.
func (s *Store) Lookup(country, league string) (*models.LeagueEntry, bool) {
	entry, ok := s.countries[country][league]
	return entry, ok
}

// AppendHistoricalMatches adds matches whose key is not yet stored for the
// league and keeps the list ordered by date, newest first. It returns the
// number of matches actually added.
func (s *Store) AppendHistoricalMatches(country, league string, matches []models.HistoricalMatch) (int, error) {
	entry, ok := s.Lookup(country, league)
	if !ok {
		return 0, fmt.Errorf("%w: %s/%s", ErrUnknownLeague, country, league)
	}

	known := make(map[models.MatchKey]struct{}, len(entry.Matches))
	for _, m := range entry.Matches {
		known[m.Key()] = struct{}{}
	}

	added := 0
	for _, m := range matches {
		key := m.Key()
		if _, dup := known[key]; dup {
			continue
		}
		known[key] = struct{}{}
		entry.Matches = append(entry.Matches, m)
		added++
	}

	if added > 0 {
		SortMatchesDesc(entry.Matches)
	}
	return added, nil
}

// SetUpcomingFixtures replaces the league's fixture list.
func (s *Store) SetUpcomingFixtures(country, league string, fixtures []models.UpcomingFixture) error {
	entry, ok := s.Lookup(country, league)
	if !ok {
		return fmt.Errorf("%w: %s/%s", ErrUnknownLeague, country, league)
	}
	entry.Future = append([]models.UpcomingFixture{}, fixtures...)
	return nil
}

// Leagues returns every entry ordered by country, then league name.
func (s *Store) Leagues() []*models.LeagueEntry {
	out := make([]*models.LeagueEntry, 0)
	for _, country := range sortedKeys(s.countries) {
		leagues := s.countries[country]
		for _, league := range sortedKeys(leagues) {
			out = append(out, leagues[league])
		}
	}
	return out
}

// Countries returns the stored country names in order.
func (s *Store) Countries() []string {
	return sortedKeys(s.countries)
}

// Len returns the number of stored leagues.
func (s *Store) Len() int {
	n := 0
	for _, leagues := range s.countries {
		n += len(leagues)
	}
	return n
}

// MatchCount returns the number of stored historical matches.
func (s *Store) MatchCount() int {
	n := 0
	for _, leagues := range s.countries {
		for _, entry := range leagues {
			n += len(entry.Matches)
		}
	}
	return n
}

// LastKnownDate returns the most recent historical match date. ok is false
// when the store holds no matches.
func (s *Store) LastKnownDate() (last time.Time, ok bool) {
	for _, leagues := range s.countries {
		for _, entry := range leagues {
			for _, m := range entry.Matches {
				if !ok || m.Date.After(last) {
					last = m.Date
					ok = true
				}
			}
		}
	}
	return last, ok
}

// KnownMatches returns the key set of every stored historical match.
func (s *Store) KnownMatches() map[models.MatchKey]struct{} {
	known := make(map[models.MatchKey]struct{}, s.MatchCount())
	for _, leagues := range s.countries {
		for _, entry := range leagues {
			for _, m := range entry.Matches {
				known[m.Key()] = struct{}{}
			}
		}
	}
	return known
}

// FindLeague searches league names case-insensitively, optionally within a
// country. Several countries may run a league of the same name.
func (s *Store) FindLeague(name, country string) models.Lookup[models.LeagueKey] {
	var candidates []models.LeagueKey
	for _, entry := range s.Leagues() {
		if !strings.EqualFold(entry.Name, name) {
			continue
		}
		if country != "" && !strings.EqualFold(entry.Country, country) {
			continue
		}
		candidates = append(candidates, entry.Key())
	}
	return models.NewLookup(candidates)
}

// Filter returns a shallow Store holding only the entries keep accepts.
// Entries are shared with s.
func (s *Store) Filter(keep func(*models.LeagueEntry) bool) *Store {
	out := NewStore()
	for _, entry := range s.Leagues() {
		if !keep(entry) {
			continue
		}
		if out.countries[entry.Country] == nil {
			out.countries[entry.Country] = make(map[string]*models.LeagueEntry)
		}
		out.countries[entry.Country][entry.Name] = entry
	}
	return out
}

// Clone returns a deep copy, so a merge can build the next version without
// touching the current one.
func (s *Store) Clone() *Store {
	out := NewStore()
	for country, leagues := range s.countries {
		copied := make(map[string]*models.LeagueEntry, len(leagues))
		for name, entry := range leagues {
			e := *entry
			e.Seasons = maps.Clone(entry.Seasons)
			if e.Seasons == nil {
				e.Seasons = make(map[string]string)
			}
			e.Matches = append([]models.HistoricalMatch{}, entry.Matches...)
			e.Future = append([]models.UpcomingFixture{}, entry.Future...)
			copied[name] = &e
		}
		out.countries[country] = copied
	}
	return out
}

// SortMatchesDesc orders matches newest first; same-day matches keep their
// relative order.
func SortMatchesDesc(matches []models.HistoricalMatch) {
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Date.After(matches[j].Date)
	})
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
