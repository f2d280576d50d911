package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore persists credential records in a single JSON file mapping
// client id to record. Writes are whole-file rewrites; the file is kept
// at 0600 since it holds live secrets.
type FileStore struct {
	Path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// DefaultCredentialsPath returns the conventional location of the
// credentials file under XDG_CONFIG_HOME (or ~/.config).
func DefaultCredentialsPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "tdclient", "tokens.json")
}

func (f *FileStore) load() (map[string]*Record, error) {
	b, err := os.ReadFile(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]*Record{}, nil
		}
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}
	records := map[string]*Record{}
	if err := json.Unmarshal(b, &records); err != nil {
		return nil, fmt.Errorf("failed to parse credentials file: %w", err)
	}
	return records, nil
}

func (f *FileStore) save(records map[string]*Record) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0700); err != nil {
		return fmt.Errorf("failed to create credentials directory: %w", err)
	}
	b, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}
	if err := os.WriteFile(f.Path, b, 0600); err != nil {
		return fmt.Errorf("failed to write credentials file: %w", err)
	}
	return nil
}

func (f *FileStore) Get(_ context.Context, clientID string) (*Record, error) {
	records, err := f.load()
	if err != nil {
		return nil, err
	}
	rec, ok := records[clientID]
	if !ok {
		return nil, ErrNotFound
	}
	out := *rec
	return &out, nil
}

func (f *FileStore) Put(_ context.Context, clientID string, update Update) error {
	records, err := f.load()
	if err != nil {
		return err
	}
	rec, ok := records[clientID]
	if !ok {
		rec = &Record{ClientID: clientID}
		records[clientID] = rec
	}
	update.Apply(rec)
	return f.save(records)
}
