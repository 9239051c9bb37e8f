package soccerstats

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/grauwolf32/soccer/models"
	"github.com/grauwolf32/soccer/season"
)

var (
	// ErrRowMismatch marks a table row that does not have the expected columns.
	ErrRowMismatch = errors.New("soccerstats: row does not match the results layout")
	// ErrNoLeagueTag is returned for season refs without a league parameter.
	ErrNoLeagueTag = errors.New("soccerstats: no league tag in season ref")

	leagueTagRe = regexp.MustCompile(`league=([^&]+)`)
)

// LeagueLink is one row of the league list page.
type LeagueLink struct {
	Country string
	League  string
	Href    string
}

// ParseLeagueList reads the sortable league table. Rows without a league
// anchor are skipped.
func ParseLeagueList(r io.Reader) ([]LeagueLink, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("soccerstats: parse league list: %w", err)
	}

	var links []LeagueLink
	doc.Find("table.sortable tbody tr").Each(func(_ int, row *goquery.Selection) {
		a := row.Find("td").First().Find("a").First()
		href, ok := a.Attr("href")
		if !ok {
			return
		}
		league := strings.TrimSpace(a.Find("font").First().Text())
		country := strings.Trim(ownText(a), " - \t\n")
		if country == "" || league == "" {
			return
		}
		links = append(links, LeagueLink{Country: country, League: league, Href: href})
	})
	return links, nil
}

// ParseSeasonRefs reads the season dropdown of a league page into a
// label -> href map. Entries without a "YYYY/yy" label are ignored.
func ParseSeasonRefs(r io.Reader) (map[string]string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("soccerstats: parse season list: %w", err)
	}

	refs := make(map[string]string)
	doc.Find("div.dropdown-content a").Each(func(_ int, a *goquery.Selection) {
		label := season.LabelRe.FindString(a.Text())
		href, ok := a.Attr("href")
		if label == "" || !ok {
			return
		}
		refs[label] = href
	})
	return refs, nil
}

// LeagueTag extracts the league parameter from a season ref.
func LeagueTag(ref string) (string, error) {
	m := leagueTagRe.FindStringSubmatch(ref)
	if m == nil {
		return "", fmt.Errorf("%w: %q", ErrNoLeagueTag, ref)
	}
	return m[1], nil
}

// ParseResults reads the by-date results table of season s. Archive pages
// use "odd" rows; the current season page uses "trow3" rows, where unscored
// rows dated today or later become fixtures. Rows that cannot be read are
// returned as errors alongside the page.
func ParseResults(r io.Reader, s season.Season, current bool, now time.Time) (*models.SeasonPage, []error, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("soccerstats: parse results: %w", err)
	}

	page := &models.SeasonPage{Matches: []models.HistoricalMatch{}}
	selector := "table#btable tr.odd"
	if current {
		selector = "table#btable tr.trow3"
		page.Upcoming = []models.UpcomingFixture{}
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var rowErrs []error
	doc.Find(selector).Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 4 {
			rowErrs = append(rowErrs, fmt.Errorf("%w: %d cells in %q", ErrRowMismatch, cells.Length(), rowText(row)))
			return
		}

		rawDate := strings.TrimSpace(cells.Eq(0).Find("font").First().Text())
		participants := strings.TrimSpace(cells.Eq(2).Text())
		score := strings.TrimSpace(cells.Eq(3).Find("font b").First().Text())

		date, err := season.ResolveMatchDate(rawDate, s)
		if err != nil {
			rowErrs = append(rowErrs, err)
			return
		}

		switch {
		case score != "":
			page.Matches = append(page.Matches, models.HistoricalMatch{
				Date: date, Participants: participants, Season: s, Score: score,
			})
		case current && !date.Before(today):
			page.Upcoming = append(page.Upcoming, models.UpcomingFixture{
				Date: date, Participants: participants, Season: s,
			})
		default:
			rowErrs = append(rowErrs, fmt.Errorf("%w: no score in %q", ErrRowMismatch, rowText(row)))
		}
	})
	return page, rowErrs, nil
}

func ownText(s *goquery.Selection) string {
	return s.Contents().FilterFunction(func(_ int, c *goquery.Selection) bool {
		return goquery.NodeName(c) == "#text"
	}).Text()
}

func rowText(row *goquery.Selection) string {
	return strings.Join(strings.Fields(row.Text()), " ")
}
