package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/dalnet/ircnick/internal/nickname"
	"gopkg.in/yaml.v3"
)

const prefsFile = "prefs.yaml"

// Preferences are the two user settings driving nickname changes.
// Empty values mean unset.
type Preferences struct {
	Nickname string `yaml:"nickname"`
	Account  string `yaml:"account"`
}

// Configuration converts the preferences for the nickname policy.
func (p Preferences) Configuration() nickname.Configuration {
	return nickname.Configuration{Nickname: p.Nickname, Account: p.Account}
}

// PrefStore persists Preferences in the data directory.
type PrefStore struct {
	path  string
	mu    sync.RWMutex
	prefs Preferences
}

// OpenPrefs loads the preference file under dataDir. A missing file
// yields empty preferences.
func OpenPrefs(dataDir string) (*PrefStore, error) {
	s := &PrefStore{path: filepath.Join(dataDir, prefsFile)}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read preferences: %w", err)
	}

	if err := yaml.Unmarshal(data, &s.prefs); err != nil {
		return nil, fmt.Errorf("failed to parse preferences: %w", err)
	}
	return s, nil
}

// Get returns a snapshot of the preferences
func (s *PrefStore) Get() Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs
}

// Configuration returns the current preferences for the nickname policy.
func (s *PrefStore) Configuration() nickname.Configuration {
	return s.Get().Configuration()
}

// SetNickname stores the nickname preference. An empty value unsets it.
func (s *PrefStore) SetNickname(nick string) error {
	return s.update(func(p *Preferences) { p.Nickname = nick })
}

// SetAccount selects the account to rename. An empty value unsets it.
func (s *PrefStore) SetAccount(username string) error {
	return s.update(func(p *Preferences) { p.Account = username })
}

func (s *PrefStore) update(fn func(*Preferences)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.prefs
	fn(&next)

	data, err := yaml.Marshal(&next)
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}

	s.prefs = next
	return nil
}
