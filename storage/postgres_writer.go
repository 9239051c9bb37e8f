package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/grauwolf32/soccer/models"
)

const statsColumns = 11

// PostgresWriter mirrors the latest draw-streak report into PostgreSQL.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS draw_streaks (
			id                 SERIAL PRIMARY KEY,
			country            TEXT         NOT NULL,
			league             TEXT         NOT NULL,
			team               TEXT         NOT NULL,
			max_streak         INTEGER      NOT NULL DEFAULT 0,
			mean_streak        NUMERIC(8,2) NOT NULL DEFAULT 0,
			current_streak     INTEGER      NOT NULL DEFAULT 0,
			fixtures_remaining INTEGER      NOT NULL DEFAULT 0,
			delta              INTEGER      NOT NULL DEFAULT 0,
			draw_frequency     NUMERIC(5,4) NOT NULL DEFAULT 0,
			h2h_opponents      TEXT[]       NOT NULL DEFAULT '{}',
			h2h_records        TEXT[]       NOT NULL DEFAULT '{}',
			created_at         TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
			UNIQUE (country, league, team)
		);

		CREATE INDEX IF NOT EXISTS idx_draw_streaks_league ON draw_streaks(country, league);
		CREATE INDEX IF NOT EXISTS idx_draw_streaks_delta  ON draw_streaks(delta);
	`)
	return err
}

// Clear deletes the previous report.
func (pw *PostgresWriter) Clear() error {
	_, err := pw.db.Exec("DELETE FROM draw_streaks")
	if err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}
	return nil
}

// Write replaces the stored report with stats, in batches.
func (pw *PostgresWriter) Write(stats []*models.DrawStreakStat) error {
	if len(stats) == 0 {
		return nil
	}

	if err := pw.Clear(); err != nil {
		return err
	}

	const batchSize = 50
	for i := 0; i < len(stats); i += batchSize {
		end := min(i+batchSize, len(stats))
		query, args := buildStatsInsert(stats[i:end])
		if _, err := pw.db.Exec(query, args...); err != nil {
			return fmt.Errorf("postgres: insert batch: %w", err)
		}
	}
	return nil
}

func buildStatsInsert(batch []*models.DrawStreakStat) (string, []interface{}) {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*statsColumns)

	for idx, s := range batch {
		base := idx * statsColumns
		placeholders := make([]string, statsColumns)
		for j := range placeholders {
			placeholders[j] = fmt.Sprintf("$%d", base+j+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")

		opponents := make([]string, len(s.HeadToHead))
		records := make([]string, len(s.HeadToHead))
		for j, h := range s.HeadToHead {
			opponents[j] = h.Opponent
			records[j] = h.String()
		}
		valueArgs = append(valueArgs,
			s.Country, s.League, s.Team, s.MaxStreak, s.MeanStreak, s.CurrentStreak,
			s.FixturesRemaining, s.Delta, s.DrawFrequency, pq.Array(opponents), pq.Array(records))
	}

	query := fmt.Sprintf(`
		INSERT INTO draw_streaks (country, league, team, max_streak, mean_streak, current_streak,
			fixtures_remaining, delta, draw_frequency, h2h_opponents, h2h_records)
		VALUES %s
		ON CONFLICT (country, league, team) DO NOTHING
	`, strings.Join(valueStrings, ","))
	return query, valueArgs
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

// FetchAll reads the stored report back in report order.
func (pw *PostgresWriter) FetchAll() ([]*models.DrawStreakStat, error) {
	rows, err := pw.db.Query(`
		SELECT country, league, team, max_streak, mean_streak, current_streak,
		       fixtures_remaining, delta, draw_frequency, h2h_opponents, h2h_records
		FROM draw_streaks
		ORDER BY country, league, team
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch all: %w", err)
	}
	defer rows.Close()

	var stats []*models.DrawStreakStat
	for rows.Next() {
		var (
			s         models.DrawStreakStat
			opponents []string
			records   []string
		)
		if err := rows.Scan(
			&s.Country, &s.League, &s.Team, &s.MaxStreak, &s.MeanStreak, &s.CurrentStreak,
			&s.FixturesRemaining, &s.Delta, &s.DrawFrequency, pq.Array(&opponents), pq.Array(&records),
		); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		s.HeadToHead, err = parseHeadToHeads(opponents, records)
		if err != nil {
			return nil, fmt.Errorf("postgres: %s: %w", s.Team, err)
		}
		stats = append(stats, &s)
	}
	return stats, rows.Err()
}

func parseHeadToHeads(opponents, records []string) ([]models.HeadToHead, error) {
	if len(opponents) != len(records) {
		return nil, fmt.Errorf("head-to-head arrays differ in length: %d != %d", len(opponents), len(records))
	}
	out := make([]models.HeadToHead, len(records))
	for i, rec := range records {
		h := models.HeadToHead{Opponent: opponents[i]}
		if _, err := fmt.Sscanf(rec, "%d/%d/%d", &h.Wins, &h.Losses, &h.Draws); err != nil {
			return nil, fmt.Errorf("head-to-head %q: %w", rec, err)
		}
		out[i] = h
	}
	return out, nil
}
