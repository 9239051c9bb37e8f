// Package season implements football-calendar arithmetic: mapping dates to
// seasons, season labels to reference years, and day/month text to dates.
package season

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrDateParse is returned when a raw match date cannot be resolved.
var ErrDateParse = errors.New("season: date parse failure")

// ErrInvalidLabel is returned by Parse for unrecognised season labels.
var ErrInvalidLabel = errors.New("season: invalid label")

// firstMonthOfSeason is the month that opens a new season. Matches dated
// January..May belong to the season that started the previous year.
const firstMonthOfSeason = time.June

var (
	shortLabelRe = regexp.MustCompile(`^\s*(\d{4})\s*/\s*(\d{2})\s*$`)
	longLabelRe  = regexp.MustCompile(`^\s*(\d{4})\s*[/-]\s*(\d{4})\s*$`)
	yearOnlyRe   = regexp.MustCompile(`^\s*(\d{4})\s*$`)
	// LabelRe finds an embedded short label such as "2021/22" in free text.
	LabelRe = regexp.MustCompile(`\d{4}/\d{2}`)
)

var months = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// Season is a football season spanning two calendar years.
type Season struct {
	StartYear int
}

// FromYear returns the season starting in year.
func FromYear(year int) Season {
	return Season{StartYear: year}
}

// ForDate maps a calendar date to the season it belongs to.
func ForDate(t time.Time) Season {
	if t.Month() < firstMonthOfSeason {
		return Season{StartYear: t.Year() - 1}
	}
	return Season{StartYear: t.Year()}
}

// Parse accepts "2020/21", "2020/2021", "2020-2021" and a bare "2020".
func Parse(label string) (Season, error) {
	if m := shortLabelRe.FindStringSubmatch(label); m != nil {
		start, _ := strconv.Atoi(m[1])
		end, _ := strconv.Atoi(m[2])
		if (start+1)%100 != end {
			return Season{}, fmt.Errorf("%w: %q", ErrInvalidLabel, label)
		}
		return Season{StartYear: start}, nil
	}
	if m := longLabelRe.FindStringSubmatch(label); m != nil {
		start, _ := strconv.Atoi(m[1])
		end, _ := strconv.Atoi(m[2])
		if end != start+1 {
			return Season{}, fmt.Errorf("%w: %q", ErrInvalidLabel, label)
		}
		return Season{StartYear: start}, nil
	}
	if m := yearOnlyRe.FindStringSubmatch(label); m != nil {
		start, _ := strconv.Atoi(m[1])
		return Season{StartYear: start}, nil
	}
	return Season{}, fmt.Errorf("%w: %q", ErrInvalidLabel, label)
}

// MustParse is Parse for literals known to be valid.
func MustParse(label string) Season {
	s, err := Parse(label)
	if err != nil {
		panic(err)
	}
	return s
}

// String returns the "2020/21" label.
func (s Season) String() string {
	return fmt.Sprintf("%d/%02d", s.StartYear, (s.StartYear+1)%100)
}

// ReferenceYear returns the year the season starts in.
func (s Season) ReferenceYear() int {
	return s.StartYear
}

// IsZero reports whether s was never set.
func (s Season) IsZero() bool {
	return s.StartYear == 0
}

func (s Season) Next() Season { return Season{StartYear: s.StartYear + 1} }
func (s Season) Prev() Season { return Season{StartYear: s.StartYear - 1} }

// Before orders seasons by start year.
func (s Season) Before(o Season) bool {
	return s.StartYear < o.StartYear
}

// MarshalText encodes the season as its label.
func (s Season) MarshalText() ([]byte, error) {
	if s.IsZero() {
		return []byte{}, nil
	}
	return []byte(s.String()), nil
}

// UnmarshalText decodes a season label.
func (s *Season) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*s = Season{}
		return nil
	}
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Range lists every season from `from` through `to`, inclusive, oldest first.
func Range(from, to Season) []Season {
	if to.Before(from) {
		return nil
	}
	out := make([]Season, 0, to.StartYear-from.StartYear+1)
	for s := from; !to.Before(s); s = s.Next() {
		out = append(out, s)
	}
	return out
}

// LastN returns the n seasons ending with current, newest first.
func LastN(current Season, n int) []Season {
	if n <= 0 {
		return nil
	}
	out := make([]Season, 0, n)
	for s := current; len(out) < n; s = s.Prev() {
		out = append(out, s)
	}
	return out
}

// ResolveMatchDate turns day+month text ("Mar 14", "Sa 14 Mar") into a date
// in s: January..May fall in the end year, other months in the start year.
func ResolveMatchDate(raw string, s Season) (time.Time, error) {
	var (
		month time.Month
		day   int
	)
	for _, tok := range strings.Fields(raw) {
		tok = strings.Trim(tok, ".,")
		if m, ok := months[strings.ToLower(tok)]; ok && len(tok) == 3 {
			month = m
			continue
		}
		if n, err := strconv.Atoi(tok); err == nil {
			day = n
		}
	}
	if month == 0 {
		return time.Time{}, fmt.Errorf("%w: no month in %q", ErrDateParse, raw)
	}
	if day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("%w: no day in %q", ErrDateParse, raw)
	}

	year := s.StartYear
	if month < firstMonthOfSeason {
		year++
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day {
		return time.Time{}, fmt.Errorf("%w: %q is not a calendar date in %d", ErrDateParse, raw, year)
	}
	return t, nil
}
