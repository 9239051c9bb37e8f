package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/grauwolf32/soccer/models"
)

// DefaultDelimiter separates report fields.
const DefaultDelimiter = ", "

// ReportOptions controls the report layout.
type ReportOptions struct {
	Delimiter string
	// Locale selects header labels: "en" (default) or "ru".
	Locale string
	// Fixtures is the number of head-to-head columns; zero means DefaultFixtures.
	Fixtures             int
	IncludeDrawFrequency bool
}

type headerLabels struct {
	country, league, team                string
	maxStreak, meanStreak, currentStreak string
	fixtures, delta, drawFrequency       string
	headToHead                           string
}

var reportLabels = map[string]headerLabels{
	"en": {
		country: "Country", league: "League", team: "Team",
		maxStreak: "Max streak", meanStreak: "Mean streak", currentStreak: "Current streak",
		fixtures: "Fixtures remaining", delta: "Delta", drawFrequency: "Draw frequency",
		headToHead: "Head-to-head %d",
	},
	"ru": {
		country: "Страна", league: "Лига", team: "Команда",
		maxStreak: "Максимальная серия", meanStreak: "Средняя серия", currentStreak: "Текущая серия",
		fixtures: "Игр до конца сезона", delta: "Дельта", drawFrequency: "Частота ничьих",
		headToHead: "Прошлые встречи %d",
	},
}

func (o ReportOptions) withDefaults() ReportOptions {
	if o.Delimiter == "" {
		o.Delimiter = DefaultDelimiter
	}
	if _, ok := reportLabels[o.Locale]; !ok {
		o.Locale = "en"
	}
	if o.Fixtures <= 0 {
		o.Fixtures = DefaultFixtures
	}
	return o
}

// ReportHeader returns the column names for opts.
func ReportHeader(opts ReportOptions) []string {
	opts = opts.withDefaults()
	l := reportLabels[opts.Locale]

	header := []string{l.country, l.league, l.team, l.maxStreak, l.meanStreak, l.currentStreak, l.fixtures, l.delta}
	if opts.IncludeDrawFrequency {
		header = append(header, l.drawFrequency)
	}
	for i := 1; i <= opts.Fixtures; i++ {
		header = append(header, fmt.Sprintf(l.headToHead, i))
	}
	return header
}

// ReportRows returns the header followed by one row per stat. Head-to-head
// cells are padded with "0/0/0" or truncated to the configured column count.
func ReportRows(stats []*models.DrawStreakStat, opts ReportOptions) [][]string {
	opts = opts.withDefaults()
	rows := make([][]string, 0, len(stats)+1)
	rows = append(rows, ReportHeader(opts))

	for _, s := range stats {
		row := []string{
			s.Country,
			s.League,
			s.Team,
			strconv.Itoa(s.MaxStreak),
			formatRatio(s.MeanStreak),
			strconv.Itoa(s.CurrentStreak),
			strconv.Itoa(s.FixturesRemaining),
			strconv.Itoa(s.Delta),
		}
		if opts.IncludeDrawFrequency {
			row = append(row, formatRatio(s.DrawFrequency))
		}
		for i := 0; i < opts.Fixtures; i++ {
			if i < len(s.HeadToHead) {
				row = append(row, s.HeadToHead[i].String())
			} else {
				row = append(row, models.HeadToHead{}.String())
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// FormatReport renders stats as delimiter-joined lines, header first.
func FormatReport(stats []*models.DrawStreakStat, opts ReportOptions) string {
	opts = opts.withDefaults()
	var b strings.Builder
	for _, row := range ReportRows(stats, opts) {
		b.WriteString(strings.Join(row, opts.Delimiter))
		b.WriteByte('\n')
	}
	return b.String()
}

// ExportReport renders stats with the given delimiter. The number of
// head-to-head columns follows the stats; an empty report gets DefaultFixtures.
func ExportReport(stats []*models.DrawStreakStat, delimiter string) string {
	return FormatReport(stats, ReportOptions{Delimiter: delimiter, Fixtures: headToHeadColumns(stats)})
}

func headToHeadColumns(stats []*models.DrawStreakStat) int {
	n := 0
	for _, st := range stats {
		n = max(n, len(st.HeadToHead))
	}
	return n
}

func formatRatio(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
