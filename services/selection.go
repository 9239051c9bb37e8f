package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/grauwolf32/soccer/models"
	"github.com/grauwolf32/soccer/storage"
)

var (
	ErrLeagueNotFound  = errors.New("league not found")
	ErrAmbiguousLeague = errors.New("league name is ambiguous")
	ErrTeamNotFound    = errors.New("team not found")
	ErrAmbiguousTeam   = errors.New("team name is ambiguous")
)

// Selection narrows a run's report down to some leagues or a single team.
type Selection struct {
	Countries   []string
	League      string
	Team        string
	IncludeCups bool
}

func (sel Selection) country() string {
	if len(sel.Countries) == 1 {
		return sel.Countries[0]
	}
	return ""
}

// SelectStats keeps the rows of stats that belong to the selected leagues and,
// when sel.Team is set, to that team. stats and idx must come from the whole
// store: league membership and head-to-head records are never recomputed here.
func SelectStats(store *storage.Store, idx TeamIndex, stats []*models.DrawStreakStat, sel Selection) ([]*models.DrawStreakStat, error) {
	leagues, err := SelectLeagues(store, sel)
	if err != nil {
		return nil, err
	}

	var team *models.TeamKey
	if sel.Team != "" {
		res := idx.FindTeam(sel.Team, sel.country())
		switch res.Status {
		case models.NotFound:
			return nil, fmt.Errorf("%w: %q", ErrTeamNotFound, sel.Team)
		case models.Ambiguous:
			names := make([]string, len(res.Candidates))
			for i, k := range res.Candidates {
				names[i] = k.String()
			}
			return nil, fmt.Errorf("%w: %q matches %s", ErrAmbiguousTeam, sel.Team, strings.Join(names, ", "))
		}
		key, _ := res.Value()
		team = &key
	}

	out := make([]*models.DrawStreakStat, 0, len(stats))
	for _, st := range stats {
		if _, ok := leagues.Lookup(st.Country, st.League); !ok {
			continue
		}
		if team != nil && (st.Team != team.Team || st.Country != team.Country) {
			continue
		}
		out = append(out, st)
	}
	return out, nil
}

// SelectLeagues returns a view of store holding only the selected leagues.
// Cups, playoffs and friendlies are dropped unless IncludeCups is set or the
// league is named explicitly. A league name found in several countries must be
// narrowed with a single country.
func SelectLeagues(store *storage.Store, sel Selection) (*storage.Store, error) {
	var only *models.LeagueKey
	if sel.League != "" {
		res := store.FindLeague(sel.League, sel.country())
		switch res.Status {
		case models.NotFound:
			return nil, fmt.Errorf("%w: %q", ErrLeagueNotFound, sel.League)
		case models.Ambiguous:
			names := make([]string, len(res.Candidates))
			for i, k := range res.Candidates {
				names[i] = k.String()
			}
			return nil, fmt.Errorf("%w: %q matches %s", ErrAmbiguousLeague, sel.League, strings.Join(names, ", "))
		}
		key, _ := res.Value()
		only = &key
	}

	return store.Filter(func(e *models.LeagueEntry) bool {
		if only != nil {
			return e.Key() == *only
		}
		if !sel.IncludeCups && !e.Kind.IsLeague() {
			return false
		}
		return wantCountry(sel.Countries, e.Country)
	}), nil
}

func wantCountry(countries []string, country string) bool {
	if len(countries) == 0 {
		return true
	}
	for _, c := range countries {
		if strings.EqualFold(c, country) {
			return true
		}
	}
	return false
}
