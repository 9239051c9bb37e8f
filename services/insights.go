package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/grauwolf32/soccer/models"
	"github.com/grauwolf32/soccer/utils"
)

const topOverdue = 5

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

// Generate summarises an analytics run. Record breakers are teams whose
// current run without a draw already exceeds their longest closed one; the
// most overdue teams are those closest to their record.
func (s *InsightService) Generate(stats []*models.DrawStreakStat) *models.StreakReport {
	report := &models.StreakReport{
		TeamsByLeague: make(map[string]int),
	}

	if len(stats) == 0 {
		return report
	}

	report.TeamsAnalysed = len(stats)

	var (
		overdue  []*models.DrawStreakStat
		drawRate float64
	)
	for _, st := range stats {
		report.TeamsByLeague[models.LeagueKey{Country: st.Country, League: st.League}.String()]++
		drawRate += st.DrawFrequency

		if report.LongestMaxStreak == nil || st.MaxStreak > report.LongestMaxStreak.MaxStreak {
			report.LongestMaxStreak = st
		}
		switch {
		case st.Delta < 0:
			report.RecordBreakers = append(report.RecordBreakers, st)
		case st.CurrentStreak > 0:
			overdue = append(overdue, st)
		}
	}
	report.Leagues = len(report.TeamsByLeague)
	report.AverageDrawRate = round2(drawRate / float64(len(stats)))

	sort.SliceStable(report.RecordBreakers, func(i, j int) bool {
		return report.RecordBreakers[i].Delta < report.RecordBreakers[j].Delta
	})

	sort.SliceStable(overdue, func(i, j int) bool {
		if overdue[i].Delta != overdue[j].Delta {
			return overdue[i].Delta < overdue[j].Delta
		}
		return overdue[i].CurrentStreak > overdue[j].CurrentStreak
	})
	if len(overdue) > topOverdue {
		overdue = overdue[:topOverdue]
	}
	report.MostOverdue = overdue

	s.logger.Debug("[insights] %d teams, %d record breakers", report.TeamsAnalysed, len(report.RecordBreakers))
	return report
}

func (s *InsightService) Print(r *models.StreakReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  ⚽ DRAW STREAK INSIGHTS\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	// Overview
	fmt.Printf("\033[1;33m  Overview\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Teams analysed    : \033[1m%d\033[0m\n", r.TeamsAnalysed)
	fmt.Printf("  Leagues           : \033[1m%d\033[0m\n", r.Leagues)
	fmt.Printf("  Average draw rate : \033[1m%.2f\033[0m\n", r.AverageDrawRate)
	if r.LongestMaxStreak != nil {
		fmt.Printf("  Longest streak    : \033[1m%d\033[0m (%s, %s)\n",
			r.LongestMaxStreak.MaxStreak, r.LongestMaxStreak.Team, r.LongestMaxStreak.League)
	}
	fmt.Println()

	fmt.Printf("\033[1;33m  Record-breaking streaks\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(r.RecordBreakers) == 0 {
		fmt.Printf("  None\n")
	} else {
		for _, st := range r.RecordBreakers {
			fmt.Printf("  %-30s current \033[1;31m%d\033[0m, max %d\n",
				truncate(st.Team, 28), st.CurrentStreak, st.MaxStreak)
		}
	}
	fmt.Println()

	fmt.Printf("\033[1;33m  Top %d overdue for a draw\033[0m\n", topOverdue)
	fmt.Printf("  %s\n", thin)
	if len(r.MostOverdue) == 0 {
		fmt.Printf("  No team without a recent draw\n")
	} else {
		for i, st := range r.MostOverdue {
			fmt.Printf("  \033[1m%d.\033[0m %-30s delta \033[1;32m%d\033[0m (%d/%d)\n",
				i+1, truncate(st.Team, 28), st.Delta, st.CurrentStreak, st.MaxStreak)
		}
	}
	fmt.Println()

	fmt.Printf("\033[1;33m  Teams by league\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(r.TeamsByLeague) == 0 {
		fmt.Printf("  No league data\n")
	} else {
		type leagueCount struct {
			league string
			count  int
		}
		var leagues []leagueCount
		for league, cnt := range r.TeamsByLeague {
			leagues = append(leagues, leagueCount{league, cnt})
		}
		sort.Slice(leagues, func(i, j int) bool {
			if leagues[i].count != leagues[j].count {
				return leagues[i].count > leagues[j].count
			}
			return leagues[i].league < leagues[j].league
		})
		for _, lc := range leagues {
			fmt.Printf("  %-40s %d\n", truncate(lc.league, 38), lc.count)
		}
	}

	fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

// truncate shortens s to max runes.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
