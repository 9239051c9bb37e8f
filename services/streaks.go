package services

import (
	"sort"
	"time"

	"github.com/grauwolf32/soccer/models"
	"github.com/grauwolf32/soccer/season"
	"github.com/grauwolf32/soccer/storage"
	"github.com/grauwolf32/soccer/utils"
)

const (
	DefaultSeasons  = 4
	DefaultFixtures = 5
)

// StreakOptions configures an analytics run.
type StreakOptions struct {
	// NSeasons is the trailing window, counting the current season.
	NSeasons int
	// MFixtures is the number of head-to-head columns per team.
	MFixtures int
	// Now anchors the window; zero means time.Now().
	Now time.Time
}

func (o StreakOptions) withDefaults() StreakOptions {
	if o.NSeasons <= 0 {
		o.NSeasons = DefaultSeasons
	}
	if o.MFixtures <= 0 {
		o.MFixtures = DefaultFixtures
	}
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	return o
}

// StreakResult holds the draw-streak figures of one ordered match list.
type StreakResult struct {
	Current       int
	Historical    []int
	Max           int
	Mean          float64
	Draws         int
	Matches       int
	DrawFrequency float64
}

// StreakAnalyzer computes draw-streak statistics for single-league teams.
type StreakAnalyzer struct {
	logger *utils.Logger
	opts   StreakOptions
}

// NewStreakAnalyzer creates a StreakAnalyzer; unset options take defaults.
func NewStreakAnalyzer(logger *utils.Logger, opts StreakOptions) *StreakAnalyzer {
	return &StreakAnalyzer{logger: logger, opts: opts.withDefaults()}
}

// RunAnalytics builds the team index from store and analyses it.
func RunAnalytics(store *storage.Store, opts StreakOptions, logger *utils.Logger) []*models.DrawStreakStat {
	idx := NewTeamViewBuilder(logger).Build(store)
	return NewStreakAnalyzer(logger, opts).Run(idx)
}

// Run returns one stat per eligible team with matches in the window, ordered
// by country, league and team.
func (a *StreakAnalyzer) Run(idx TeamIndex) []*models.DrawStreakStat {
	eligible := FilterEligibleTeams(idx)
	a.logger.Info("[streaks] %d of %d teams play in a single league", len(eligible), len(idx))

	stats := make([]*models.DrawStreakStat, 0, len(eligible))
	for _, name := range eligible {
		stat, ok := a.Analyze(idx[name])
		if !ok {
			a.logger.Info("[streaks] No data for team %s in the last %d seasons", name, a.opts.NSeasons)
			continue
		}
		stats = append(stats, stat)
	}

	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].Country != stats[j].Country {
			return stats[i].Country < stats[j].Country
		}
		if stats[i].League != stats[j].League {
			return stats[i].League < stats[j].League
		}
		return stats[i].Team < stats[j].Team
	})
	return stats
}

// Analyze computes the stat row for one team. ok is false when the team has
// no matches inside the window.
func (a *StreakAnalyzer) Analyze(view *models.TeamView) (*models.DrawStreakStat, bool) {
	window := a.WindowMatches(view.Matches)
	if len(window) == 0 {
		return nil, false
	}

	res := ComputeStreaks(window)
	return &models.DrawStreakStat{
		Country:           window[0].Country,
		League:            window[0].League,
		Team:              view.Team,
		MaxStreak:         res.Max,
		MeanStreak:        res.Mean,
		CurrentStreak:     res.Current,
		FixturesRemaining: len(view.Future),
		Delta:             res.Max - res.Current,
		DrawFrequency:     res.DrawFrequency,
		HeadToHead:        a.HeadToHeads(view),
	}, true
}

// FilterEligibleTeams returns, in order, the teams whose every recorded match
// belongs to one (league, country) pair. A name seen in two leagues may be two
// different clubs, so such teams are left out.
func FilterEligibleTeams(idx TeamIndex) []string {
	var eligible []string
	for _, name := range idx.Names() {
		v := idx[name]
		if len(v.Matches) == 0 {
			continue
		}
		first := v.Matches[0].LeagueKey()
		single := true
		for _, r := range v.Matches[1:] {
			if r.LeagueKey() != first {
				single = false
				break
			}
		}
		if single {
			eligible = append(eligible, name)
		}
	}
	return eligible
}

// WindowMatches selects, from records sorted newest first, the played matches
// of the last NSeasons seasons and returns them newest first. Walking stops at
// the first match older than the window, which relies on the input order.
func (a *StreakAnalyzer) WindowMatches(records []models.TeamMatchRecord) []models.TeamMatchRecord {
	oldest := season.ForDate(a.opts.Now).ReferenceYear() - a.opts.NSeasons + 1

	var window []models.TeamMatchRecord
	for _, r := range records {
		if r.Date.After(a.opts.Now) {
			continue
		}
		if r.Season.ReferenceYear() < oldest {
			break
		}
		window = append(window, r)
	}
	SortRecordsDesc(window)
	return window
}

// ComputeStreaks walks records newest first counting non-draw matches. Each
// draw closes a streak; the first closed streak is the current one and the
// rest form the historical pool. An unfinished streak at the old edge of the
// data joins the historical pool.
func ComputeStreaks(records []models.TeamMatchRecord) StreakResult {
	var (
		res     StreakResult
		run     int
		streaks []int
	)

	for _, r := range records {
		if r.IsDraw() {
			streaks = append(streaks, run)
			run = 0
			res.Draws++
		} else {
			run++
		}
	}
	if run > 0 {
		streaks = append(streaks, run)
	}

	res.Matches = len(records)
	if res.Matches > 0 {
		res.DrawFrequency = float64(res.Draws) / float64(res.Matches)
	}
	if len(streaks) == 0 {
		return res
	}

	res.Current = streaks[0]
	res.Historical = streaks[1:]
	if len(res.Historical) > 0 {
		sum := 0
		for _, s := range res.Historical {
			sum += s
			if s > res.Max {
				res.Max = s
			}
		}
		res.Mean = float64(sum) / float64(len(res.Historical))
	}
	return res
}

// HeadToHeads returns exactly MFixtures records against the opponents of the
// nearest upcoming fixtures, padded with empty records.
func (a *StreakAnalyzer) HeadToHeads(view *models.TeamView) []models.HeadToHead {
	future := append([]models.FutureFixture{}, view.Future...)
	sort.SliceStable(future, func(i, j int) bool {
		return future[i].Date.Before(future[j].Date)
	})

	out := make([]models.HeadToHead, 0, a.opts.MFixtures)
	for _, f := range future {
		if len(out) == a.opts.MFixtures {
			break
		}
		out = append(out, HeadToHeadRecord(view.Matches, f.Opponent))
	}
	for len(out) < a.opts.MFixtures {
		out = append(out, models.HeadToHead{})
	}
	return out
}

// HeadToHeadRecord tallies every stored match against opponent.
func HeadToHeadRecord(records []models.TeamMatchRecord, opponent string) models.HeadToHead {
	h := models.HeadToHead{Opponent: opponent}
	for _, r := range records {
		if r.Opponent != opponent {
			continue
		}
		switch r.Outcome() {
		case models.Win:
			h.Wins++
		case models.Loss:
			h.Losses++
		default:
			h.Draws++
		}
	}
	return h
}
