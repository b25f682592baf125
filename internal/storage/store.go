// Package storage owns the persisted artifacts of a run: the raw JSON
// bundle, a plain-text rendering, and the per-resource CSV files.
package storage

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	go_json "github.com/goccy/go-json"

	"github.com/vickgarcia/fitpull/internal/xslog"
)

const (
	BundleFile  = "fitbit_data.json"
	SummaryFile = "fitbit_data.txt"

	runDirLayout = "2006-01-02_15-04-05"
)

type Store struct {
	dir    string
	logger *slog.Logger
}

// New creates a fresh timestamped run directory under the account's data
// directory.
func New(baseDir, account string, logger *slog.Logger) (*Store, error) {
	dir := filepath.Join(baseDir, account, time.Now().Format(runDirLayout))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating run directory %s: %w", dir, err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

// Open wraps an existing run directory for reprocessing.
func Open(dir string, logger *slog.Logger) *Store {
	return &Store{dir: dir, logger: logger}
}

func (s *Store) Dir() string { return s.dir }

func (s *Store) SaveJSON(name string, v any) error {
	data, err := go_json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	s.logger.Info("saved JSON data", xslog.Path(path))
	return nil
}

// LoadJSON reloads a previously saved document. A decode failure here is
// fatal for the processing step that needed the document.
func (s *Store) LoadJSON(name string, v any) error {
	path := filepath.Join(s.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := go_json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}

func (s *Store) SaveText(name, content string) error {
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	s.logger.Info("saved text data", xslog.Path(path))
	return nil
}
