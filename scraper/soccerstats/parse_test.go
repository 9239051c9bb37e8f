package soccerstats

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/grauwolf32/soccer/season"
)

const leagueListHTML = `<html><body>
<table class="sortable">
<thead><tr><th>League</th></tr></thead>
<tbody>
<tr><td><a href="latest.asp?league=england">England - <font>Premier League</font></a></td><td>20</td></tr>
<tr><td><a href="latest.asp?league=spain">Spain - <font>La Liga</font></a></td><td>20</td></tr>
<tr><td>no anchor here</td></tr>
<tr><td><a href="latest.asp?league=empty"><font></font></a></td></tr>
</tbody>
</table>
</body></html>`

const leaguePageHTML = `<html><body>
<div class="dropdown">
<div class="dropdown-content">
<a href="latest.asp?league=england">2020/21 season</a>
<a href="latest.asp?league=england_2020">2019/20 season</a>
<a href="latest.asp?league=england_2019">2018/19</a>
<a href="widgets.asp">Widgets</a>
</div>
</div>
</body></html>`

const archiveHTML = `<html><body>
<table id="btable">
<tr class="odd"><td><font>Sa 14 Mar</font></td><td></td><td>Arsenal - Chelsea</td><td><font><b>1 - 1</b></font></td></tr>
<tr class="odd"><td><font>Aug 10</font></td><td></td><td>Leeds - Everton</td><td><font><b>2-0</b></font></td></tr>
<tr class="odd"><td><font>Foo 10</font></td><td></td><td>Leeds - Everton</td><td><font><b>2-0</b></font></td></tr>
<tr class="odd"><td><font>Sep 1</font></td><td></td><td>Leeds - Arsenal</td><td><font></font></td></tr>
<tr class="odd"><td>short row</td></tr>
<tr class="trow3"><td><font>Apr 2</font></td><td></td><td>Ignored - Row</td><td><font><b>0-0</b></font></td></tr>
</table>
</body></html>`

const currentHTML = `<html><body>
<table id="btable">
<tr class="trow3"><td><font>Mar 14</font></td><td></td><td>Arsenal - Chelsea</td><td><font><b>1-1</b></font></td></tr>
<tr class="trow3"><td><font>Apr 1</font></td><td></td><td>Leeds - Everton</td><td><font></font></td></tr>
<tr class="trow3"><td><font>Apr 10</font></td><td></td><td>Chelsea - Leeds</td><td><font></font></td></tr>
<tr class="trow3"><td><font>Mar 20</font></td><td></td><td>Everton - Arsenal</td><td><font></font></td></tr>
<tr class="odd"><td><font>Sep 1</font></td><td></td><td>Archive - Row</td><td><font><b>3-0</b></font></td></tr>
</table>
</body></html>`

func TestParseLeagueList(t *testing.T) {
	links, err := ParseLeagueList(strings.NewReader(leagueListHTML))
	if err != nil {
		t.Fatal(err)
	}
	if len(links) != 2 {
		t.Fatalf("expected 2 leagues, got %d: %+v", len(links), links)
	}
	want := LeagueLink{Country: "England", League: "Premier League", Href: "latest.asp?league=england"}
	if links[0] != want {
		t.Errorf("first league: got %+v, want %+v", links[0], want)
	}
	if links[1].Country != "Spain" || links[1].League != "La Liga" {
		t.Errorf("second league: %+v", links[1])
	}
}

func TestParseSeasonRefs(t *testing.T) {
	refs, err := ParseSeasonRefs(strings.NewReader(leaguePageHTML))
	if err != nil {
		t.Fatal(err)
	}
	if len(refs) != 3 {
		t.Fatalf("expected 3 seasons, got %v", refs)
	}
	if refs["2019/20"] != "latest.asp?league=england_2020" {
		t.Errorf("2019/20 ref: got %q", refs["2019/20"])
	}
}

func TestLeagueTag(t *testing.T) {
	tag, err := LeagueTag("latest.asp?league=england_2020&x=1")
	if err != nil || tag != "england_2020" {
		t.Errorf("LeagueTag: got %q, %v", tag, err)
	}
	if _, err := LeagueTag("widgets.asp"); !errors.Is(err, ErrNoLeagueTag) {
		t.Errorf("expected ErrNoLeagueTag, got %v", err)
	}
}

func TestParseResultsArchive(t *testing.T) {
	s := season.MustParse("2019/20")
	now := time.Date(2021, time.April, 1, 12, 0, 0, 0, time.UTC)

	page, rowErrs, err := ParseResults(strings.NewReader(archiveHTML), s, false, now)
	if err != nil {
		t.Fatal(err)
	}
	if page.Upcoming != nil {
		t.Error("archive pages have no fixtures")
	}
	if len(page.Matches) != 2 {
		t.Fatalf("expected 2 matches, got %d: %+v", len(page.Matches), page.Matches)
	}

	m := page.Matches[0]
	if !m.Date.Equal(time.Date(2020, time.March, 14, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("first match date: %v", m.Date)
	}
	if m.Participants != "Arsenal - Chelsea" || m.Score != "1 - 1" || m.Season != s {
		t.Errorf("first match: %+v", m)
	}
	if !page.Matches[1].Date.Equal(time.Date(2019, time.August, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("second match date: %v", page.Matches[1].Date)
	}

	if len(rowErrs) != 3 {
		t.Fatalf("expected 3 row errors, got %d: %v", len(rowErrs), rowErrs)
	}
	if !errors.Is(rowErrs[0], season.ErrDateParse) {
		t.Errorf("bad month should be a date parse error, got %v", rowErrs[0])
	}
	if !errors.Is(rowErrs[1], ErrRowMismatch) || !errors.Is(rowErrs[2], ErrRowMismatch) {
		t.Errorf("expected row mismatches, got %v", rowErrs[1:])
	}
}

func TestParseResultsCurrentSeason(t *testing.T) {
	s := season.MustParse("2020/21")
	now := time.Date(2021, time.April, 1, 12, 0, 0, 0, time.UTC)

	page, rowErrs, err := ParseResults(strings.NewReader(currentHTML), s, true, now)
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Matches) != 1 || page.Matches[0].Participants != "Arsenal - Chelsea" {
		t.Errorf("matches: %+v", page.Matches)
	}
	if len(page.Upcoming) != 2 {
		t.Fatalf("expected 2 fixtures, got %+v", page.Upcoming)
	}
	if page.Upcoming[0].Participants != "Leeds - Everton" || page.Upcoming[1].Participants != "Chelsea - Leeds" {
		t.Errorf("fixtures: %+v", page.Upcoming)
	}
	if len(rowErrs) != 1 || !errors.Is(rowErrs[0], ErrRowMismatch) {
		t.Errorf("unscored past row should be a mismatch, got %v", rowErrs)
	}
}

func TestParseResultsEmptyCurrentSeason(t *testing.T) {
	page, rowErrs, err := ParseResults(strings.NewReader("<html></html>"), season.MustParse("2020/21"), true, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if page.Upcoming == nil || len(page.Matches) != 0 || len(rowErrs) != 0 {
		t.Errorf("empty page: %+v, %v", page, rowErrs)
	}
}
