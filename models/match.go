package models

import (
	"time"

	"github.com/grauwolf32/soccer/season"
)

// DateLayout is the ISO calendar-date form used for match keys.
const DateLayout = "2006-01-02"

// HistoricalMatch is a played match exactly as it was scraped.
// Participants keeps the raw "Team A - Team B" text and Score the raw "S1-S2".
type HistoricalMatch struct {
	Date         time.Time     `json:"date"`
	Participants string        `json:"participants"`
	Season       season.Season `json:"season"`
	Score        string        `json:"score"`
}

// MatchKey identifies a historical match across repeated fetches.
type MatchKey struct {
	Date         string
	Participants string
	Score        string
}

// Key returns the de-duplication key of the match.
func (m HistoricalMatch) Key() MatchKey {
	return MatchKey{
		Date:         m.Date.Format(DateLayout),
		Participants: m.Participants,
		Score:        m.Score,
	}
}

// UpcomingFixture is a scheduled match without a result.
type UpcomingFixture struct {
	Date         time.Time     `json:"date"`
	Participants string        `json:"participants"`
	Season       season.Season `json:"season"`
}

// LeagueKey identifies a league by exact country and league name.
type LeagueKey struct {
	Country string
	League  string
}

func (k LeagueKey) String() string {
	return k.Country + " " + k.League
}

// LeagueEntry holds everything stored for a single (country, league) pair.
// Country and Name are implied by the store nesting and are not serialised.
type LeagueEntry struct {
	Country string            `json:"-"`
	Name    string            `json:"-"`
	URL     string            `json:"url"`
	Kind    Classification    `json:"kind"`
	Seasons map[string]string `json:"seasons"`
	Matches []HistoricalMatch `json:"matches"`
	Future  []UpcomingFixture `json:"future"`
}

// Key returns the entry's (country, league) key.
func (e *LeagueEntry) Key() LeagueKey {
	return LeagueKey{Country: e.Country, League: e.Name}
}

// CatalogEntry is one league listed by the source site, with its season pages.
type CatalogEntry struct {
	Country string
	League  string
	URL     string
	Seasons map[string]string
}

// SeasonPage is the parsed content of one league/season results page.
// Upcoming is nil unless the page belongs to the current season.
type SeasonPage struct {
	Matches  []HistoricalMatch
	Upcoming []UpcomingFixture
}
