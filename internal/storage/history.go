package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	historyFile = "history.yaml"

	// MaxHistory is the number of entries kept, oldest are dropped first
	MaxHistory = 500
)

// Entry is one nickname command issued on behalf of an account.
type Entry struct {
	At      time.Time `yaml:"at"`
	Account string    `yaml:"account"`
	Command string    `yaml:"command"`
	Error   string    `yaml:"error,omitempty"` // empty when the command was accepted
}

// NewEntry records command for account at the given time. A nil err
// records success.
func NewEntry(at time.Time, account, command string, err error) Entry {
	e := Entry{At: at.UTC().Truncate(time.Second), Account: account, Command: command}
	if err != nil {
		e.Error = err.Error()
	}
	return e
}

// OK reports whether the transport accepted the command
func (e Entry) OK() bool {
	return e.Error == ""
}

func (e Entry) String() string {
	if !e.OK() {
		return fmt.Sprintf("%s %s %q failed: %s", e.At.Format(time.RFC3339), e.Account, e.Command, e.Error)
	}
	return fmt.Sprintf("%s %s %q", e.At.Format(time.RFC3339), e.Account, e.Command)
}

// History is the persisted, capped list of issued commands.
type History struct {
	path    string
	mu      sync.Mutex
	entries []Entry
}

// OpenHistory loads the history under dataDir. A missing file yields an
// empty history.
func OpenHistory(dataDir string) (*History, error) {
	h := &History{path: filepath.Join(dataDir, historyFile)}

	data, err := os.ReadFile(h.path)
	if err != nil {
		if os.IsNotExist(err) {
			return h, nil
		}
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	if err := yaml.Unmarshal(data, &h.entries); err != nil {
		return nil, fmt.Errorf("failed to parse history: %w", err)
	}
	h.entries = capEntries(h.entries)
	return h, nil
}

// Record appends e and saves the history. The entry is kept in memory
// even when saving fails.
func (h *History) Record(e Entry) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = capEntries(append(h.entries, e))

	data, err := yaml.Marshal(h.entries)
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	if err := os.WriteFile(h.path, data, 0600); err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}
	return nil
}

// Entries returns a copy of the history, oldest first
func (h *History) Entries() []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Entry(nil), h.entries...)
}

func capEntries(entries []Entry) []Entry {
	if len(entries) > MaxHistory {
		return append([]Entry(nil), entries[len(entries)-MaxHistory:]...)
	}
	return entries
}
