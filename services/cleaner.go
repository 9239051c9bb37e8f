package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/grauwolf32/soccer/models"
	"github.com/grauwolf32/soccer/utils"
)

// ErrParseMismatch marks a fetched row that does not have the expected shape.
var ErrParseMismatch = errors.New("row does not match the expected shape")

// Cleaner validates and normalises freshly fetched season pages before they
// reach the store.
type Cleaner struct {
	logger *utils.Logger
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *utils.Logger) *Cleaner {
	return &Cleaner{logger: logger}
}

// CleanPage returns a copy of page with malformed rows dropped, whitespace
// collapsed and in-page duplicates removed. Every dropped row is logged.
func (c *Cleaner) CleanPage(key models.LeagueKey, page *models.SeasonPage) *models.SeasonPage {
	if page == nil {
		return &models.SeasonPage{}
	}

	out := &models.SeasonPage{Matches: make([]models.HistoricalMatch, 0, len(page.Matches))}
	seen := make(map[models.MatchKey]struct{}, len(page.Matches))

	for _, m := range page.Matches {
		m.Participants = normaliseText(m.Participants)
		m.Score = strings.ReplaceAll(normaliseText(m.Score), " ", "")

		if err := validateMatch(m); err != nil {
			c.logger.Warn("[cleaner] %s: dropping match row: %v", key, err)
			continue
		}

		k := m.Key()
		if _, dup := seen[k]; dup {
			c.logger.Debug("[cleaner] %s: duplicate row skipped: %s %s %s", key, k.Date, k.Participants, k.Score)
			continue
		}
		seen[k] = struct{}{}
		out.Matches = append(out.Matches, m)
	}

	if page.Upcoming != nil {
		out.Upcoming = make([]models.UpcomingFixture, 0, len(page.Upcoming))
		for _, f := range page.Upcoming {
			f.Participants = normaliseText(f.Participants)
			if f.Date.IsZero() {
				c.logger.Warn("[cleaner] %s: dropping fixture without date: %q", key, f.Participants)
				continue
			}
			if _, _, err := SplitParticipants(f.Participants); err != nil {
				c.logger.Warn("[cleaner] %s: dropping fixture row: %v", key, err)
				continue
			}
			out.Upcoming = append(out.Upcoming, f)
		}
	}

	dropped := len(page.Matches) - len(out.Matches) + len(page.Upcoming) - len(out.Upcoming)
	if dropped > 0 {
		c.logger.Info("[cleaner] %s: kept %d matches, %d fixtures (dropped %d)",
			key, len(out.Matches), len(out.Upcoming), dropped)
	}
	return out
}

func validateMatch(m models.HistoricalMatch) error {
	if m.Date.IsZero() {
		return fmt.Errorf("%w: missing date for %q", ErrParseMismatch, m.Participants)
	}
	if _, _, err := SplitParticipants(m.Participants); err != nil {
		return err
	}
	if _, _, err := ParseScore(m.Score); err != nil {
		return err
	}
	return nil
}

// SplitParticipants splits "Team A - Team B". A spaced " - " separator is
// preferred so hyphenated names survive; otherwise the first and last dash
// separated tokens are taken.
func SplitParticipants(raw string) (home, away string, err error) {
	if strings.Count(raw, " - ") == 1 {
		parts := strings.SplitN(raw, " - ", 2)
		home, away = strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	} else {
		parts := strings.Split(raw, "-")
		if len(parts) < 2 {
			return "", "", fmt.Errorf("%w: participants %q", ErrParseMismatch, raw)
		}
		home, away = strings.TrimSpace(parts[0]), strings.TrimSpace(parts[len(parts)-1])
	}
	if home == "" || away == "" {
		return "", "", fmt.Errorf("%w: participants %q", ErrParseMismatch, raw)
	}
	return home, away, nil
}

// ParseScore splits "S1-S2" into the two goal counts.
func ParseScore(raw string) (home, away int, err error) {
	parts := strings.Split(raw, "-")
	if len(parts) < 2 {
		return 0, 0, fmt.Errorf("%w: score %q", ErrParseMismatch, raw)
	}
	home, err = strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: score %q", ErrParseMismatch, raw)
	}
	away, err = strconv.Atoi(strings.TrimSpace(parts[len(parts)-1]))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: score %q", ErrParseMismatch, raw)
	}
	return home, away, nil
}

// normaliseText strips leading/trailing whitespace and collapses internal whitespace.
func normaliseText(s string) string {
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}
