package models

import (
	"sort"
	"time"

	"github.com/grauwolf32/soccer/season"
)

// Outcome is a match result from one team's perspective.
type Outcome int

const (
	Loss Outcome = iota
	Draw
	Win
)

// TeamMatchRecord is one played match seen from one of its participants.
type TeamMatchRecord struct {
	League        string
	Country       string
	Opponent      string
	OwnScore      int
	OpponentScore int
	Season        season.Season
	Date          time.Time
}

// LeagueKey returns the (country, league) the match was played in.
func (r TeamMatchRecord) LeagueKey() LeagueKey {
	return LeagueKey{Country: r.Country, League: r.League}
}

// Outcome classifies the match for the owning team.
func (r TeamMatchRecord) Outcome() Outcome {
	switch {
	case r.OwnScore > r.OpponentScore:
		return Win
	case r.OwnScore < r.OpponentScore:
		return Loss
	default:
		return Draw
	}
}

// IsDraw reports whether both sides scored the same.
func (r TeamMatchRecord) IsDraw() bool {
	return r.OwnScore == r.OpponentScore
}

// FutureFixture is an upcoming match seen from one of its participants.
type FutureFixture struct {
	League   string
	Country  string
	Opponent string
	Season   season.Season
	Date     time.Time
}

// TeamKey names a team within the country it plays in.
type TeamKey struct {
	Country string
	Team    string
}

func (k TeamKey) String() string {
	return k.Team + " (" + k.Country + ")"
}

// TeamView aggregates everything known about a single team name.
type TeamView struct {
	Team    string
	Matches []TeamMatchRecord
	Future  []FutureFixture
}

// Countries lists, in order, the countries of every league the team has a
// match or fixture in.
func (v *TeamView) Countries() []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range v.Matches {
		if !seen[r.Country] {
			seen[r.Country] = true
			out = append(out, r.Country)
		}
	}
	for _, f := range v.Future {
		if !seen[f.Country] {
			seen[f.Country] = true
			out = append(out, f.Country)
		}
	}
	sort.Strings(out)
	return out
}
