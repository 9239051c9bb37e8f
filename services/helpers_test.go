package services

import (
	"io"
	"time"

	"github.com/grauwolf32/soccer/models"
	"github.com/grauwolf32/soccer/season"
	"github.com/grauwolf32/soccer/utils"
)

func quietLogger() *utils.Logger {
	return utils.NewLoggerTo(io.Discard)
}

func day(s string) time.Time {
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func played(date, participants, score string) models.HistoricalMatch {
	d := day(date)
	return models.HistoricalMatch{Date: d, Participants: participants, Season: season.ForDate(d), Score: score}
}

func fixture(date, participants string) models.UpcomingFixture {
	d := day(date)
	return models.UpcomingFixture{Date: d, Participants: participants, Season: season.ForDate(d)}
}

// record builds a team-side record; score is from the team's point of view.
func record(date, opponent string, own, other int) models.TeamMatchRecord {
	d := day(date)
	return models.TeamMatchRecord{
		League: "Premier League", Country: "England", Opponent: opponent,
		OwnScore: own, OpponentScore: other, Season: season.ForDate(d), Date: d,
	}
}
