package services

import (
	"testing"

	"github.com/grauwolf32/soccer/models"
)

func TestClassifyLeague(t *testing.T) {
	tests := []struct {
		name     string
		kind     models.MatchKind
		division int
	}{
		{"Premier League", models.KindLeague, 1},
		{"2. Bundesliga", models.KindLeague, 2},
		{"Ligue 2", models.KindLeague, 2},
		{"Championship", models.KindLeague, 2},
		{"League One", models.KindLeague, 3},
		{"FA Cup", models.KindCup, 0},
		{"Copa del Rey", models.KindCup, 0},
		{"Кубок России", models.KindCup, 0},
		{"Eredivisie Play-offs", models.KindPlayoff, 1},
		{"Club Friendlies", models.KindFriendly, 0},
		{"Allsvenskan", models.KindLeague, 0},
	}
	for _, tt := range tests {
		got := ClassifyLeague(tt.name)
		if got.Kind != tt.kind || got.Division != tt.division {
			t.Errorf("ClassifyLeague(%q) = %s/%d; want %s/%d",
				tt.name, got.Kind, got.Division, tt.kind, tt.division)
		}
	}
}

func TestClassificationIsLeague(t *testing.T) {
	if !ClassifyLeague("Serie A").IsLeague() {
		t.Error("Serie A should count as league play")
	}
	if ClassifyLeague("DFB Pokal").IsLeague() {
		t.Error("DFB Pokal should not count as league play")
	}
}
