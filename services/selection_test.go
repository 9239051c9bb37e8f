package services

import (
	"errors"
	"testing"

	"github.com/grauwolf32/soccer/models"
	"github.com/grauwolf32/soccer/storage"
)

func selectionStore() *storage.Store {
	s := storage.NewStore()
	for _, l := range []struct{ country, league string }{
		{"England", "Premier League"},
		{"England", "FA Cup"},
		{"Russia", "Premier League"},
		{"Spain", "La Liga"},
	} {
		e := s.UpsertLeague(l.country, l.league, "", nil)
		e.Kind = ClassifyLeague(l.league)
	}
	return s
}

func leagueNames(s *storage.Store) []string {
	var out []string
	for _, e := range s.Leagues() {
		out = append(out, e.Key().String())
	}
	return out
}

func TestSelectLeaguesDefault(t *testing.T) {
	got, err := SelectLeagues(selectionStore(), Selection{})
	if err != nil {
		t.Fatal(err)
	}
	if names := leagueNames(got); len(names) != 3 {
		t.Errorf("cups should be excluded by default: %v", names)
	}

	withCups, _ := SelectLeagues(selectionStore(), Selection{IncludeCups: true})
	if withCups.Len() != 4 {
		t.Errorf("IncludeCups: got %d leagues", withCups.Len())
	}
}

func TestSelectLeaguesByCountry(t *testing.T) {
	got, err := SelectLeagues(selectionStore(), Selection{Countries: []string{"england", "Spain"}})
	if err != nil {
		t.Fatal(err)
	}
	names := leagueNames(got)
	if len(names) != 2 || names[0] != "England Premier League" || names[1] != "Spain La Liga" {
		t.Errorf("country filter: %v", names)
	}
}

func TestSelectLeaguesByName(t *testing.T) {
	if _, err := SelectLeagues(selectionStore(), Selection{League: "premier league"}); !errors.Is(err, ErrAmbiguousLeague) {
		t.Errorf("expected ambiguity, got %v", err)
	}

	got, err := SelectLeagues(selectionStore(), Selection{League: "premier league", Countries: []string{"Russia"}})
	if err != nil {
		t.Fatal(err)
	}
	if names := leagueNames(got); len(names) != 1 || names[0] != "Russia Premier League" {
		t.Errorf("narrowed lookup: %v", names)
	}

	cup, err := SelectLeagues(selectionStore(), Selection{League: "FA Cup"})
	if err != nil {
		t.Fatal(err)
	}
	if cup.Len() != 1 {
		t.Errorf("explicitly named cup should be kept: %v", leagueNames(cup))
	}

	if _, err := SelectLeagues(selectionStore(), Selection{League: "Serie A"}); !errors.Is(err, ErrLeagueNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

// cupStore has Arsenal and Leeds in both the league and the cup; Chelsea
// plays league matches only.
func cupStore() *storage.Store {
	s := storage.NewStore()
	pl := s.UpsertLeague("England", "Premier League", "", nil)
	pl.Kind = ClassifyLeague(pl.Name)
	_, _ = s.AppendHistoricalMatches("England", "Premier League", []models.HistoricalMatch{
		played("2021-03-14", "Arsenal - Chelsea", "1-1"),
		played("2021-03-21", "Leeds - Arsenal", "0-2"),
		played("2021-03-28", "Chelsea - Leeds", "2-2"),
	})
	cup := s.UpsertLeague("England", "FA Cup", "", nil)
	cup.Kind = ClassifyLeague(cup.Name)
	_, _ = s.AppendHistoricalMatches("England", "FA Cup", []models.HistoricalMatch{
		played("2021-02-10", "Arsenal - Leeds", "3-0"),
	})
	return s
}

func statTeams(stats []*models.DrawStreakStat) []string {
	var out []string
	for _, st := range stats {
		out = append(out, st.Team)
	}
	return out
}

func TestSelectStatsKeepsEligibilityOfFullStore(t *testing.T) {
	s := cupStore()
	idx := NewTeamViewBuilder(quietLogger()).Build(s)
	all := NewStreakAnalyzer(quietLogger(), StreakOptions{Now: day("2021-04-01")}).Run(idx)

	for _, sel := range []Selection{{}, {League: "Premier League"}, {Countries: []string{"England"}}} {
		got, err := SelectStats(s, idx, all, sel)
		if err != nil {
			t.Fatal(err)
		}
		if teams := statTeams(got); len(teams) != 1 || teams[0] != "Chelsea" {
			t.Errorf("%+v: teams with cup matches must stay excluded, got %v", sel, teams)
		}
	}

	got, err := SelectStats(s, idx, all, Selection{League: "FA Cup"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("FA Cup has no single-competition team, got %v", statTeams(got))
	}
}

func TestSelectStatsByTeam(t *testing.T) {
	s := cupStore()
	idx := NewTeamViewBuilder(quietLogger()).Build(s)
	all := NewStreakAnalyzer(quietLogger(), StreakOptions{Now: day("2021-04-01")}).Run(idx)

	got, err := SelectStats(s, idx, all, Selection{Team: "chelsea"})
	if err != nil {
		t.Fatal(err)
	}
	if teams := statTeams(got); len(teams) != 1 || teams[0] != "Chelsea" {
		t.Errorf("team filter: %v", teams)
	}

	got, err = SelectStats(s, idx, all, Selection{Team: "Arsenal"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("Arsenal is not eligible, got %v", statTeams(got))
	}

	if _, err := SelectStats(s, idx, all, Selection{Team: "Everton"}); !errors.Is(err, ErrTeamNotFound) {
		t.Errorf("expected team not found, got %v", err)
	}
	if _, err := SelectStats(s, idx, all, Selection{League: "Serie A"}); !errors.Is(err, ErrLeagueNotFound) {
		t.Errorf("expected league not found, got %v", err)
	}
}
