package storage

import "github.com/grauwolf32/soccer/models"

// StoreBackend persists the whole match dataset between runs.
type StoreBackend interface {
	Load() (*Store, error)
	Save(s *Store) error
	Close() error
}

// StatsWriter is the interface any report sink must satisfy.
type StatsWriter interface {
	Write(stats []*models.DrawStreakStat) error
	Close() error
}

// StatsReader is a sink that can return what it stored.
type StatsReader interface {
	FetchAll() ([]*models.DrawStreakStat, error)
}

// RowWriter persists an already formatted report table.
type RowWriter interface {
	WriteRows(rows [][]string) error
	Close() error
}

var (
	_ StoreBackend = (*JSONFile)(nil)
	_ StoreBackend = (*SQLiteStore)(nil)
	_ StatsWriter  = (*PostgresWriter)(nil)
	_ StatsReader  = (*PostgresWriter)(nil)
	_ RowWriter    = (*CSVWriter)(nil)
)
