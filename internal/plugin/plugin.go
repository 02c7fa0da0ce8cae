// Package plugin connects account lifecycle events to the nickname policy
// and sends the resulting commands to the account's transport.
package plugin

import (
	"errors"
	"sync"
	"time"

	"github.com/dalnet/ircnick/internal/logger"
	"github.com/dalnet/ircnick/internal/nickname"
	"github.com/dalnet/ircnick/internal/storage"
)

// ErrNoTransport is returned when no IRC connection is attached.
var ErrNoTransport = errors.New("no IRC transport attached")

// Executor runs a client command line on one account's connection.
type Executor interface {
	ExecuteCommand(line string) error
}

// ConfigSource supplies the current preferences.
type ConfigSource interface {
	Configuration() nickname.Configuration
}

// Plugin handles one lifecycle event at a time.
type Plugin struct {
	policy   *nickname.Policy
	accounts nickname.AccountFinder
	prefs    ConfigSource

	mu         sync.Mutex
	loaded     bool
	transports map[string]Executor
	history    *storage.History // nil when disabled

	now func() time.Time
}

// New creates an unloaded plugin. Issued commands are recorded in the
// history file under dataDir; an empty dataDir disables the history.
func New(accounts nickname.AccountFinder, prefs ConfigSource, dataDir string) *Plugin {
	p := &Plugin{
		policy:     nickname.New(accounts),
		accounts:   accounts,
		prefs:      prefs,
		transports: make(map[string]Executor),
		now:        time.Now,
	}

	if dataDir != "" {
		history, err := storage.OpenHistory(dataDir)
		if err != nil {
			logger.Warn("History disabled", "error", err)
		}
		p.history = history
	}
	return p
}

// Attach registers the transport of an account.
func (p *Plugin) Attach(username string, t Executor) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.transports[username] = t
}

// Load starts reacting to sign-on events. It fails when no transport is
// attached.
func (p *Plugin) Load() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.transports) == 0 {
		return ErrNoTransport
	}
	p.loaded = true
	logger.Debug("Plugin loaded", "transports", len(p.transports))
	return nil
}

// Unload restores the selected account's local name and stops reacting to
// events. Unloading twice is a no-op.
func (p *Plugin) Unload() nickname.Decision {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.loaded {
		return nickname.Decision{Action: nickname.NoAction}
	}
	p.loaded = false
	logger.Debug("Plugin unloading")

	d := p.policy.OnAccountSignedOff(nickname.Event{}, p.prefs.Configuration())
	p.apply(d)
	return d
}

// SignedOn handles the sign-on of username.
func (p *Plugin) SignedOn(username string) nickname.Decision {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.loaded {
		return nickname.Decision{Action: nickname.NoAction}
	}

	d := p.policy.OnAccountSignedOn(p.event(username), p.prefs.Configuration())
	p.apply(d)
	return d
}

// SignedOff handles the disconnection of username. Only the selected
// account's own disconnection is evaluated.
func (p *Plugin) SignedOff(username string) nickname.Decision {
	p.mu.Lock()
	defer p.mu.Unlock()

	cfg := p.prefs.Configuration()
	if !p.loaded || username != cfg.Account {
		return nickname.Decision{Action: nickname.NoAction}
	}

	d := p.policy.OnAccountSignedOff(p.event(username), cfg)
	p.apply(d)
	return d
}

func (p *Plugin) event(username string) nickname.Event {
	account, ok := p.accounts.Find(username, nickname.ProtocolIRC)
	if !ok {
		account = nickname.AccountHandle{Username: username, Protocol: nickname.ProtocolIRC}
	}
	return nickname.Event{Account: account}
}

// apply sends the decision to the account's transport. Failures are
// logged and otherwise ignored.
func (p *Plugin) apply(d nickname.Decision) {
	if d.Action != nickname.SetNickname || d.Nickname == "" {
		return
	}

	log := logger.Account(d.Account.Username)
	command := nickname.FormatNickCommand(d.Nickname)

	t, ok := p.transports[d.Account.Username]
	var err error
	if ok {
		err = t.ExecuteCommand(command)
	} else {
		err = ErrNoTransport
	}

	if err != nil {
		log.Warn("Failed to execute "+command, "error", err)
	} else {
		log.Info("Executed "+command)
	}
	p.record(d.Account.Username, command, err)
}

func (p *Plugin) record(username, command string, err error) {
	if p.history == nil {
		return
	}
	if err := p.history.Record(storage.NewEntry(p.now(), username, command, err)); err != nil {
		logger.Error("Error saving history", "error", err)
	}
}
