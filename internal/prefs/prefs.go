// Package prefs persists small per-household UI preferences, such as which
// chart panel was last shown, so a restarted dashboard resumes where the
// user left it.
package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// KeyHouseholdID names the store-global preference holding the active
// household; all other chart preferences are scoped under it.
const KeyHouseholdID = "chart.householdID"

// Per-panel preference fields, combined with a panel kind and household ID
// through PanelKey.
const (
	FieldPanelKind = "panelKind"
	FieldSerial    = "serial"
	FieldDisease   = "disease"
	FieldInterval  = "interval"
	FieldAggregate = "aggregate"
)

// PanelKey builds the composite key for a per-panel, per-household
// preference, e.g. PanelKey("timeseries", "house-1", FieldSerial) yields
// "chart.timeseries.house-1.serial". Panels of different kinds, and the same
// panel across households, never share keys.
func PanelKey(panelKind, householdID, field string) string {
	return fmt.Sprintf("chart.%s.%s.%s", panelKind, householdID, field)
}

// HouseholdKey scopes a preference to a household without tying it to one
// panel, such as the last panel kind the household viewed.
func HouseholdKey(householdID, field string) string {
	return fmt.Sprintf("chart.%s.%s", householdID, field)
}

// Store is a string key/value preference store.
type Store interface {
	Get(key string) (string, bool)
	GetDefault(key, def string) string
	Set(key, value string) error
	Delete(key string) error
}

// FileStore keeps preferences in a single JSON file, rewritten atomically on
// every mutation. Safe for concurrent use.
type FileStore struct {
	path string

	mu     sync.RWMutex
	values map[string]string
}

// OpenFile loads the store at path, creating parent directories as needed.
// A missing file is an empty store, not an error.
func OpenFile(path string) (*FileStore, error) {
	s := &FileStore{path: path, values: map[string]string{}}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("prefs: read %s: %w", path, err)
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &s.values); err != nil {
			return nil, fmt.Errorf("prefs: parse %s: %w", path, err)
		}
	}
	return s, nil
}

func (s *FileStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *FileStore) GetDefault(key, def string) string {
	if v, ok := s.Get(key); ok {
		return v
	}
	return def
}

func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return s.flushLocked()
}

func (s *FileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[key]; !ok {
		return nil
	}
	delete(s.values, key)
	return s.flushLocked()
}

// flushLocked writes the full map through a temp file and rename so a crash
// mid-write never leaves a truncated store behind.
func (s *FileStore) flushLocked() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("prefs: mkdir: %w", err)
	}
	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return fmt.Errorf("prefs: encode: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("prefs: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("prefs: rename: %w", err)
	}
	return nil
}

// Memory is an in-process Store for tests and ephemeral runs.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemory() *Memory {
	return &Memory{values: map[string]string{}}
}

func (m *Memory) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *Memory) GetDefault(key, def string) string {
	if v, ok := m.Get(key); ok {
		return v
	}
	return def
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
