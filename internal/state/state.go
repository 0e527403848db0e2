package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

const stateFileName = "state.json"

// Position is the last reading location against one backend.
type Position struct {
	BookID    string `json:"book_id"`
	ChapterID string `json:"chapter_id"`
	Line      int    `json:"line"`
}

type fileData struct {
	Theme     string              `json:"theme,omitempty"`
	Positions map[string]Position `json:"positions"`
}

// Store manages persistent reader state, keyed by backend host so that
// switching servers does not mix up positions.
type Store struct {
	path string
	data fileData
	mu   sync.RWMutex
}

// NewStore creates or loads state from XDG_STATE_HOME/zhread/
func NewStore() (*Store, error) {
	dir := getStateDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	store := &Store{
		path: filepath.Join(dir, stateFileName),
		data: fileData{Positions: make(map[string]Position)},
	}
	if err := store.load(); err != nil {
		// Non-fatal - start with empty state
		store.data = fileData{Positions: make(map[string]Position)}
	}
	return store, nil
}

// getStateDir returns XDG_STATE_HOME/zhread or ~/.local/state/zhread
func getStateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "zhread")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "zhread")
}

// Position returns the saved position for a backend host.
func (s *Store) Position(host string) (Position, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pos, ok := s.data.Positions[host]
	return pos, ok
}

// SetPosition saves the reading position for a backend host.
func (s *Store) SetPosition(host string, pos Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Positions[host] = pos
	return s.save()
}

// Clear removes the saved position for a backend host.
func (s *Store) Clear(host string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data.Positions, host)
	return s.save()
}

// Theme returns the saved theme name, or "" when unset.
func (s *Store) Theme() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Theme
}

// SetTheme saves the theme choice.
func (s *Store) SetTheme(theme string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Theme = theme
	return s.save()
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, &s.data); err != nil {
		return err
	}
	if s.data.Positions == nil {
		s.data.Positions = make(map[string]Position)
	}
	return nil
}

func (s *Store) save() error {
	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}
