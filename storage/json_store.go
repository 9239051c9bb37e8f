package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/grauwolf32/soccer/models"
)

// SaveStore serialises the store as indented JSON:
// country -> league -> {url, kind, seasons, matches, future}.
func SaveStore(s *Store) ([]byte, error) {
	b, err := json.MarshalIndent(s.countries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("store: marshal: %w", err)
	}
	return b, nil
}

// LoadStore parses the SaveStore format.
func LoadStore(b []byte) (*Store, error) {
	var countries map[string]map[string]*models.LeagueEntry
	if err := json.Unmarshal(b, &countries); err != nil {
		return nil, fmt.Errorf("store: unmarshal: %w", err)
	}

	s := NewStore()
	for country, leagues := range countries {
		for name, entry := range leagues {
			if entry == nil {
				entry = &models.LeagueEntry{}
			}
			restoreEntry(entry, country, name)
			if s.countries[country] == nil {
				s.countries[country] = make(map[string]*models.LeagueEntry)
			}
			s.countries[country][name] = entry
		}
	}
	return s, nil
}

// restoreEntry fills the fields implied by the store nesting and the
// invariants a decoded entry may lack.
func restoreEntry(entry *models.LeagueEntry, country, name string) {
	entry.Country = country
	entry.Name = name
	if entry.Seasons == nil {
		entry.Seasons = make(map[string]string)
	}
	if entry.Matches == nil {
		entry.Matches = []models.HistoricalMatch{}
	}
	if entry.Future == nil {
		entry.Future = []models.UpcomingFixture{}
	}
	SortMatchesDesc(entry.Matches)
}

// JSONFile persists the store as a single JSON document on disk.
type JSONFile struct {
	path string
}

// NewJSONFile returns a backend for the JSON file at path.
func NewJSONFile(path string) *JSONFile {
	return &JSONFile{path: path}
}

// Load reads the store. A missing file yields an error wrapping os.ErrNotExist.
func (j *JSONFile) Load() (*Store, error) {
	b, err := os.ReadFile(j.path)
	if err != nil {
		return nil, fmt.Errorf("store: read %q: %w", j.path, err)
	}
	return LoadStore(b)
}

// Save writes the store through a temporary file and a rename, so a crash
// never leaves a half-written dataset behind.
func (j *JSONFile) Save(s *Store) error {
	b, err := SaveStore(s)
	if err != nil {
		return err
	}

	dir := filepath.Dir(j.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("store: create dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(j.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("store: create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("store: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("store: close temp file: %w", err)
	}
	if err := os.Rename(tmpName, j.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("store: replace %q: %w", j.path, err)
	}
	return nil
}

// Close is a no-op; JSONFile holds no open handles.
func (j *JSONFile) Close() error {
	return nil
}
