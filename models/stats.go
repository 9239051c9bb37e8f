package models

import "fmt"

// HeadToHead is the all-time record of a team against one opponent.
type HeadToHead struct {
	Opponent string
	Wins     int
	Losses   int
	Draws    int
}

// String formats the record as "wins/losses/draws".
func (h HeadToHead) String() string {
	return fmt.Sprintf("%d/%d/%d", h.Wins, h.Losses, h.Draws)
}

// DrawStreakStat is one report row: draw-streak statistics of a core team.
type DrawStreakStat struct {
	Country           string
	League            string
	Team              string
	MaxStreak         int
	MeanStreak        float64
	CurrentStreak     int
	FixturesRemaining int
	Delta             int
	DrawFrequency     float64
	HeadToHead        []HeadToHead
}

// StreakReport summarises an analytics run for console output.
type StreakReport struct {
	TeamsAnalysed    int
	Leagues          int
	AverageDrawRate  float64
	LongestMaxStreak *DrawStreakStat
	RecordBreakers   []*DrawStreakStat
	MostOverdue      []*DrawStreakStat
	TeamsByLeague    map[string]int
}
