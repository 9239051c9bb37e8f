package services

import (
	"sort"
	"strings"

	"github.com/grauwolf32/soccer/models"
	"github.com/grauwolf32/soccer/storage"
	"github.com/grauwolf32/soccer/utils"
)

// TeamIndex maps a team name to everything recorded about it.
type TeamIndex map[string]*models.TeamView

// Team returns the view for name, creating it on first use.
func (idx TeamIndex) Team(name string) *models.TeamView {
	v, ok := idx[name]
	if !ok {
		v = &models.TeamView{Team: name}
		idx[name] = v
	}
	return v
}

// Names returns the indexed team names in order.
func (idx TeamIndex) Names() []string {
	names := make([]string, 0, len(idx))
	for name := range idx {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FindTeam searches team names case-insensitively, optionally within a
// country. A name recorded in several countries is ambiguous until narrowed.
func (idx TeamIndex) FindTeam(name, country string) models.Lookup[models.TeamKey] {
	var candidates []models.TeamKey
	for _, team := range idx.Names() {
		if !strings.EqualFold(team, name) {
			continue
		}
		for _, c := range idx[team].Countries() {
			if country != "" && !strings.EqualFold(c, country) {
				continue
			}
			candidates = append(candidates, models.TeamKey{Country: c, Team: team})
		}
	}
	return models.NewLookup(candidates)
}

// TeamViewBuilder turns the league-centric store into a team-centric index.
type TeamViewBuilder struct {
	logger *utils.Logger
}

// NewTeamViewBuilder creates a TeamViewBuilder with the given logger.
func NewTeamViewBuilder(logger *utils.Logger) *TeamViewBuilder {
	return &TeamViewBuilder{logger: logger}
}

// Build emits two mirrored records per stored match and per upcoming fixture.
// Each team's matches end up newest first; rows that cannot be split are
// logged and skipped.
func (b *TeamViewBuilder) Build(store *storage.Store) TeamIndex {
	idx := make(TeamIndex)

	for _, entry := range store.Leagues() {
		key := entry.Key()

		if len(entry.Matches) == 0 {
			b.logger.Info("[teamview] %s has no matches yet", key)
		}

		matches := append([]models.HistoricalMatch{}, entry.Matches...)
		storage.SortMatchesDesc(matches)

		for _, m := range matches {
			home, away, err := SplitParticipants(m.Participants)
			if err != nil {
				b.logger.Warn("[teamview] %s: %v", key, err)
				continue
			}
			homeGoals, awayGoals, err := ParseScore(m.Score)
			if err != nil {
				b.logger.Warn("[teamview] %s: %v", key, err)
				continue
			}

			hv := idx.Team(home)
			hv.Matches = append(hv.Matches, models.TeamMatchRecord{
				League: entry.Name, Country: entry.Country, Opponent: away,
				OwnScore: homeGoals, OpponentScore: awayGoals,
				Season: m.Season, Date: m.Date,
			})
			av := idx.Team(away)
			av.Matches = append(av.Matches, models.TeamMatchRecord{
				League: entry.Name, Country: entry.Country, Opponent: home,
				OwnScore: awayGoals, OpponentScore: homeGoals,
				Season: m.Season, Date: m.Date,
			})
		}

		for _, f := range entry.Future {
			home, away, err := SplitParticipants(f.Participants)
			if err != nil {
				b.logger.Warn("[teamview] %s: %v", key, err)
				continue
			}
			hv := idx.Team(home)
			hv.Future = append(hv.Future, models.FutureFixture{
				League: entry.Name, Country: entry.Country, Opponent: away,
				Season: f.Season, Date: f.Date,
			})
			av := idx.Team(away)
			av.Future = append(av.Future, models.FutureFixture{
				League: entry.Name, Country: entry.Country, Opponent: home,
				Season: f.Season, Date: f.Date,
			})
		}
	}

	for _, v := range idx {
		SortRecordsDesc(v.Matches)
	}

	b.logger.Info("[teamview] Indexed %d teams from %d leagues", len(idx), store.Len())
	return idx
}

// SortRecordsDesc orders records newest first, keeping same-day order.
func SortRecordsDesc(records []models.TeamMatchRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.After(records[j].Date)
	})
}
