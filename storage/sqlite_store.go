package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/grauwolf32/soccer/models"
	"github.com/grauwolf32/soccer/season"
)

// SQLiteStore persists the match dataset in an embedded SQLite database.
// Save replaces the whole dataset inside one transaction.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and ensures the schema.
func OpenSQLite(path string) (*SQLiteStore, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	ss := &SQLiteStore{db: db}
	if err := ss.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: migrate: %w", err)
	}
	return ss, nil
}

func (ss *SQLiteStore) migrate() error {
	_, err := ss.db.Exec(`
CREATE TABLE IF NOT EXISTS leagues (
  country   TEXT NOT NULL,
  league    TEXT NOT NULL,
  url       TEXT NOT NULL DEFAULT '',
  kind      TEXT NOT NULL DEFAULT 'unknown',
  division  INTEGER NOT NULL DEFAULT 0,
  PRIMARY KEY (country, league)
);
CREATE TABLE IF NOT EXISTS season_pages (
  country   TEXT NOT NULL,
  league    TEXT NOT NULL,
  season    TEXT NOT NULL,
  ref       TEXT NOT NULL,
  PRIMARY KEY (country, league, season)
);
CREATE TABLE IF NOT EXISTS matches (
  id            INTEGER PRIMARY KEY,
  country       TEXT NOT NULL,
  league        TEXT NOT NULL,
  played_on     TEXT NOT NULL,
  participants  TEXT NOT NULL,
  season        TEXT NOT NULL,
  score         TEXT NOT NULL,
  UNIQUE(country, league, played_on, participants, score)
);
CREATE INDEX IF NOT EXISTS idx_matches_league ON matches(country, league);
CREATE TABLE IF NOT EXISTS fixtures (
  id            INTEGER PRIMARY KEY,
  country       TEXT NOT NULL,
  league        TEXT NOT NULL,
  scheduled_on  TEXT NOT NULL,
  participants  TEXT NOT NULL,
  season        TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_fixtures_league ON fixtures(country, league);
`)
	return err
}

// Save replaces the stored dataset with s.
func (ss *SQLiteStore) Save(s *Store) (err error) {
	ctx := context.Background()
	tx, err := ss.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("sqlite: begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, table := range []string{"fixtures", "matches", "season_pages", "leagues"} {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("sqlite: clear %s: %w", table, err)
		}
	}

	for _, e := range s.Leagues() {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO leagues (country, league, url, kind, division) VALUES (?, ?, ?, ?, ?)`,
			e.Country, e.Name, e.URL, e.Kind.Kind.String(), e.Kind.Division); err != nil {
			return fmt.Errorf("sqlite: insert league %s: %w", e.Key(), err)
		}
		for label, ref := range e.Seasons {
			if _, err = tx.ExecContext(ctx,
				`INSERT INTO season_pages (country, league, season, ref) VALUES (?, ?, ?, ?)`,
				e.Country, e.Name, label, ref); err != nil {
				return fmt.Errorf("sqlite: insert season page: %w", err)
			}
		}
		for _, m := range e.Matches {
			if _, err = tx.ExecContext(ctx,
				`INSERT INTO matches (country, league, played_on, participants, season, score)
				 VALUES (?, ?, ?, ?, ?, ?)
				 ON CONFLICT DO NOTHING`,
				e.Country, e.Name, m.Date.Format(time.RFC3339Nano), m.Participants, seasonText(m.Season), m.Score); err != nil {
				return fmt.Errorf("sqlite: insert match: %w", err)
			}
		}
		for _, f := range e.Future {
			if _, err = tx.ExecContext(ctx,
				`INSERT INTO fixtures (country, league, scheduled_on, participants, season) VALUES (?, ?, ?, ?, ?)`,
				e.Country, e.Name, f.Date.Format(time.RFC3339Nano), f.Participants, seasonText(f.Season)); err != nil {
				return fmt.Errorf("sqlite: insert fixture: %w", err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit: %w", err)
	}
	return nil
}

// Load rebuilds the Store from the database.
func (ss *SQLiteStore) Load() (*Store, error) {
	s := NewStore()

	rows, err := ss.db.Query(`SELECT country, league, url, kind, division FROM leagues`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: query leagues: %w", err)
	}
	for rows.Next() {
		var (
			country, league, url, kind string
			division                   int
		)
		if err := rows.Scan(&country, &league, &url, &kind, &division); err != nil {
			rows.Close()
			return nil, fmt.Errorf("sqlite: scan league: %w", err)
		}
		entry := s.UpsertLeague(country, league, url, nil)
		if err := entry.Kind.Kind.UnmarshalText([]byte(kind)); err != nil {
			rows.Close()
			return nil, fmt.Errorf("sqlite: league %s/%s: %w", country, league, err)
		}
		entry.Kind.Division = division
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: leagues: %w", err)
	}

	if err := ss.loadSeasonPages(s); err != nil {
		return nil, err
	}
	if err := ss.loadMatches(s); err != nil {
		return nil, err
	}
	if err := ss.loadFixtures(s); err != nil {
		return nil, err
	}
	return s, nil
}

func (ss *SQLiteStore) loadSeasonPages(s *Store) error {
	rows, err := ss.db.Query(`SELECT country, league, season, ref FROM season_pages`)
	if err != nil {
		return fmt.Errorf("sqlite: query season pages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var country, league, label, ref string
		if err := rows.Scan(&country, &league, &label, &ref); err != nil {
			return fmt.Errorf("sqlite: scan season page: %w", err)
		}
		if entry, ok := s.Lookup(country, league); ok {
			entry.Seasons[label] = ref
		}
	}
	return rows.Err()
}

func (ss *SQLiteStore) loadMatches(s *Store) error {
	rows, err := ss.db.Query(`SELECT country, league, played_on, participants, season, score FROM matches ORDER BY id`)
	if err != nil {
		return fmt.Errorf("sqlite: query matches: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var country, league, playedOn, participants, label, score string
		if err := rows.Scan(&country, &league, &playedOn, &participants, &label, &score); err != nil {
			return fmt.Errorf("sqlite: scan match: %w", err)
		}
		entry, ok := s.Lookup(country, league)
		if !ok {
			continue
		}
		d, sn, err := parseDateSeason(playedOn, label)
		if err != nil {
			return err
		}
		entry.Matches = append(entry.Matches, models.HistoricalMatch{
			Date: d, Participants: participants, Season: sn, Score: score,
		})
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("sqlite: matches: %w", err)
	}

	for _, entry := range s.Leagues() {
		SortMatchesDesc(entry.Matches)
	}
	return nil
}

func (ss *SQLiteStore) loadFixtures(s *Store) error {
	rows, err := ss.db.Query(`SELECT country, league, scheduled_on, participants, season FROM fixtures ORDER BY id`)
	if err != nil {
		return fmt.Errorf("sqlite: query fixtures: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var country, league, scheduledOn, participants, label string
		if err := rows.Scan(&country, &league, &scheduledOn, &participants, &label); err != nil {
			return fmt.Errorf("sqlite: scan fixture: %w", err)
		}
		entry, ok := s.Lookup(country, league)
		if !ok {
			continue
		}
		d, sn, err := parseDateSeason(scheduledOn, label)
		if err != nil {
			return err
		}
		entry.Future = append(entry.Future, models.UpcomingFixture{
			Date: d, Participants: participants, Season: sn,
		})
	}
	return rows.Err()
}

func seasonText(s season.Season) string {
	b, _ := s.MarshalText()
	return string(b)
}

func parseDateSeason(date, label string) (time.Time, season.Season, error) {
	d, err := time.Parse(time.RFC3339Nano, date)
	if err != nil {
		return time.Time{}, season.Season{}, fmt.Errorf("sqlite: bad date %q: %w", date, err)
	}
	var sn season.Season
	if err := sn.UnmarshalText([]byte(label)); err != nil {
		return time.Time{}, season.Season{}, fmt.Errorf("sqlite: bad season %q: %w", label, err)
	}
	return d, sn, nil
}

// Close closes the database.
func (ss *SQLiteStore) Close() error {
	if ss == nil || ss.db == nil {
		return nil
	}
	return ss.db.Close()
}
