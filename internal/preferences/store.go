// Package preferences persists small user settings as a JSON file in the
// per-user config directory (~/.config/gcptoolkit/preferences.json on Linux).
//
// The file is a flat string-to-string object and is rewritten in full on
// every change. A missing or corrupt file degrades to an empty mapping; only
// write failures are fatal.
package preferences

import (
	"encoding/json"
	"os"
	"path/filepath"

	gcperrors "github.com/systmms/gcptoolkit/internal/errors"
	"github.com/systmms/gcptoolkit/internal/logging"
)

const preferencesFile = "preferences.json"

// KeyConfigPath is the preference holding the user-selected config file path.
const KeyConfigPath = "config_path"

// Store reads and writes the preferences file under a fixed directory.
type Store struct {
	dir    string
	logger *logging.Logger
}

// NewStore creates a store rooted at the standard per-user config directory.
func NewStore(logger *logging.Logger) (*Store, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return nil, gcperrors.UserError{
			Message:    "Unable to locate the user config directory",
			Details:    err.Error(),
			Suggestion: "Set the HOME environment variable",
			Err:        err,
		}
	}
	return NewStoreAt(filepath.Join(base, "gcptoolkit"), logger), nil
}

// NewStoreAt creates a store rooted at dir. Tests use this to point at a
// temporary directory.
func NewStoreAt(dir string, logger *logging.Logger) *Store {
	return &Store{dir: dir, logger: logger}
}

// Path returns the location of the preferences file.
func (s *Store) Path() string {
	return filepath.Join(s.dir, preferencesFile)
}

// Get returns the value for key, or ok=false if it is not set.
func (s *Store) Get(key string) (string, bool) {
	prefs := s.load()
	value, ok := prefs[key]
	return value, ok
}

// Set inserts or overwrites key and rewrites the file. Creates the
// containing directory if needed. Write failures are fatal.
func (s *Store) Set(key, value string) error {
	prefs := s.load()
	prefs[key] = value
	return s.save(prefs)
}

// Clear removes key if present. Clearing an unset key is a no-op, not an
// error; the file is only rewritten when a removal actually happened.
func (s *Store) Clear(key string) error {
	prefs := s.load()
	if _, ok := prefs[key]; !ok {
		s.logger.Debug("preference '%s' not set, nothing to clear", key)
		return nil
	}
	delete(prefs, key)
	return s.save(prefs)
}

// All returns the full current mapping. Never nil.
func (s *Store) All() map[string]string {
	return s.load()
}

// load reads the preferences file. A missing, unreadable, or malformed file
// is treated as an empty mapping so a half-written file can never take the
// CLI down.
func (s *Store) load() map[string]string {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Debug("failed to read preferences file %s: %v", s.Path(), err)
		}
		return map[string]string{}
	}

	var prefs map[string]string
	if err := json.Unmarshal(data, &prefs); err != nil {
		s.logger.Debug("failed to parse preferences file %s: %v", s.Path(), err)
		return map[string]string{}
	}
	if prefs == nil {
		return map[string]string{}
	}
	return prefs
}

func (s *Store) save(prefs map[string]string) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return gcperrors.PreferenceWriteError{Path: s.Path(), Err: err}
	}

	data, err := json.MarshalIndent(prefs, "", "  ")
	if err != nil {
		return gcperrors.PreferenceWriteError{Path: s.Path(), Err: err}
	}

	if err := os.WriteFile(s.Path(), data, 0o600); err != nil {
		return gcperrors.PreferenceWriteError{Path: s.Path(), Err: err}
	}
	return nil
}
