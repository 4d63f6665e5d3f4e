package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// StateDoc is the diagnostic document persisted after each successful
// refresh. It is best-effort and non-authoritative: the live cache never
// reads it back.
type StateDoc struct {
	Timestamp    time.Time     `json:"timestamp"`
	LastUpdated  time.Time     `json:"last_updated"`
	CacheExpiry  time.Time     `json:"cache_expiry"`
	Stats        Stats         `json:"stats"`
	Plugins      []StateRecord `json:"plugins"`
	FullRegistry *Catalog      `json:"full_registry"`
}

// StateRecord is the per-plugin projection inside a StateDoc.
type StateRecord struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Version      string    `json:"version,omitempty"`
	Categories   []string  `json:"categories,omitempty"`
	Integrations []string  `json:"integrations,omitempty"`
	Price        float64   `json:"price"`
	LastUpdated  time.Time `json:"last_updated,omitzero"`
}

// stateFile persists StateDocs to disk with atomic writes (temp file +
// rename), so a crash mid-write never leaves a torn document.
type stateFile struct {
	path string
}

func newStateFile(path string) *stateFile {
	return &stateFile{path: path}
}

// write replaces the persisted document.
func (f *stateFile) write(doc *StateDoc) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("creating state dir: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling state: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing temp state file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("renaming state file: %w", err)
	}
	return nil
}

// read loads the persisted document. A missing file is not an error; it
// returns nil, meaning no refresh has been persisted yet.
func (f *stateFile) read() (*StateDoc, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var doc StateDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("corrupt state file %q: %w", f.path, err)
	}
	return &doc, nil
}
