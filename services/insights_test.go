package services

import (
	"testing"

	"github.com/grauwolf32/soccer/models"
)

func TestInsightGenerate(t *testing.T) {
	stats := []*models.DrawStreakStat{
		{Country: "England", League: "Premier League", Team: "Arsenal", MaxStreak: 5, CurrentStreak: 4, Delta: 1, DrawFrequency: 0.25},
		{Country: "England", League: "Premier League", Team: "Chelsea", MaxStreak: 3, CurrentStreak: 0, Delta: 3, DrawFrequency: 0.5},
		{Country: "England", League: "Premier League", Team: "Leeds", MaxStreak: 2, CurrentStreak: 4, Delta: -2, DrawFrequency: 0.1},
		{Country: "Spain", League: "La Liga", Team: "Betis", MaxStreak: 6, CurrentStreak: 7, Delta: -1, DrawFrequency: 0.15},
		{Country: "Spain", League: "La Liga", Team: "Sevilla", MaxStreak: 4, CurrentStreak: 3, Delta: 1, DrawFrequency: 0.2},
	}

	r := NewInsightService(quietLogger()).Generate(stats)

	if r.TeamsAnalysed != 5 || r.Leagues != 2 {
		t.Errorf("teams %d, leagues %d", r.TeamsAnalysed, r.Leagues)
	}
	if r.TeamsByLeague["England Premier League"] != 3 {
		t.Errorf("TeamsByLeague: %v", r.TeamsByLeague)
	}
	if r.AverageDrawRate != 0.24 {
		t.Errorf("average draw rate: got %v", r.AverageDrawRate)
	}
	if r.LongestMaxStreak == nil || r.LongestMaxStreak.Team != "Betis" {
		t.Errorf("longest max streak: %+v", r.LongestMaxStreak)
	}

	if len(r.RecordBreakers) != 2 || r.RecordBreakers[0].Team != "Leeds" || r.RecordBreakers[1].Team != "Betis" {
		t.Errorf("record breakers: %+v", r.RecordBreakers)
	}

	if len(r.MostOverdue) != 2 {
		t.Fatalf("expected 2 overdue teams, got %d", len(r.MostOverdue))
	}
	if r.MostOverdue[0].Team != "Arsenal" || r.MostOverdue[1].Team != "Sevilla" {
		t.Errorf("overdue order: %s, %s", r.MostOverdue[0].Team, r.MostOverdue[1].Team)
	}
}

func TestInsightGenerateEmpty(t *testing.T) {
	r := NewInsightService(quietLogger()).Generate(nil)
	if r.TeamsAnalysed != 0 || r.LongestMaxStreak != nil || r.TeamsByLeague == nil {
		t.Errorf("empty report: %+v", r)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("Borussia Mönchengladbach", 10); got != "Borussi..." {
		t.Errorf("truncate: got %q", got)
	}
	if got := truncate("Ajax", 10); got != "Ajax" {
		t.Errorf("truncate short: got %q", got)
	}
}
