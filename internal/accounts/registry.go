// Package accounts tracks the configured accounts and their connection state.
package accounts

import (
	"sync"

	"github.com/dalnet/ircnick/internal/nickname"
	"github.com/samber/lo"
)

// Registry holds accounts in configuration order
type Registry struct {
	mu       sync.RWMutex
	accounts []nickname.AccountHandle
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{}
}

// Add registers a disconnected account
func (r *Registry) Add(username, protocol string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts = append(r.accounts, nickname.AccountHandle{
		Username: username,
		Protocol: protocol,
	})
}

// SetConnected updates the connection state of every account matching
// username and protocol. It reports whether any account matched.
func (r *Registry) SetConnected(username, protocol string, connected bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	found := false
	for i := range r.accounts {
		a := &r.accounts[i]
		if a.Username == username && a.Protocol == protocol {
			a.Connected = connected
			found = true
		}
	}
	return found
}

// Find returns the first account matching username and protocol
func (r *Registry) Find(username, protocol string) (nickname.AccountHandle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.Find(r.accounts, func(a nickname.AccountHandle) bool {
		return a.Username == username && a.Protocol == protocol
	})
}

// All returns a copy of every account
func (r *Registry) All() []nickname.AccountHandle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]nickname.AccountHandle(nil), r.accounts...)
}

// Choices lists the usernames of accounts using protocol, the values
// accepted by the account preference
func (r *Registry) Choices(protocol string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matching := lo.Filter(r.accounts, func(a nickname.AccountHandle, _ int) bool {
		return a.Protocol == protocol
	})
	return lo.Map(matching, func(a nickname.AccountHandle, _ int) string {
		return a.Username
	})
}
