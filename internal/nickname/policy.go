// Package nickname decides which nickname an IRC account should carry when
// it signs on or off. It performs no I/O: callers turn a Decision into a
// command for the account's transport.
package nickname

import "strings"

// ProtocolIRC is the protocol tag carried by IRC accounts.
const ProtocolIRC = "prpl-irc"

// AccountHandle identifies a live account for the duration of one evaluation.
type AccountHandle struct {
	Username  string
	Protocol  string
	Connected bool
}

// AccountFinder resolves an account by username and protocol.
// When several accounts match, the first one is returned.
type AccountFinder interface {
	Find(username, protocol string) (AccountHandle, bool)
}

// Configuration holds the two user preferences. An empty Nickname means
// "use the local name", an empty Account means no account is selected.
type Configuration struct {
	Nickname string
	Account  string
}

// Event is a connection lifecycle event for one account.
type Event struct {
	Account AccountHandle
}

// Action is what the caller should do with a Decision.
type Action int

const (
	NoAction Action = iota
	SetNickname
)

func (a Action) String() string {
	switch a {
	case SetNickname:
		return "set-nickname"
	default:
		return "no-action"
	}
}

// Decision is the outcome of one evaluation. Account and Nickname are only
// meaningful when Action is SetNickname.
type Decision struct {
	Action   Action
	Nickname string
	Account  AccountHandle
}

// Policy computes nickname decisions. It keeps no state between calls and
// may be shared between goroutines.
type Policy struct {
	accounts AccountFinder
}

// New creates a Policy resolving accounts through finder.
func New(finder AccountFinder) *Policy {
	return &Policy{accounts: finder}
}

// OnAccountSignedOn returns the nickname the selected account should switch
// to after a sign-on. The event only triggers the evaluation; the target is
// always the account selected in cfg.
func (p *Policy) OnAccountSignedOn(ev Event, cfg Configuration) Decision {
	account, ok := p.resolve(cfg)
	if !ok {
		return Decision{Action: NoAction}
	}

	nick := cfg.Nickname
	if nick == "" {
		nick = LocalName(account.Username)
	}
	return Decision{Action: SetNickname, Nickname: nick, Account: account}
}

// OnAccountSignedOff returns the decision restoring the selected account's
// local name. The configured nickname is ignored.
func (p *Policy) OnAccountSignedOff(ev Event, cfg Configuration) Decision {
	account, ok := p.resolve(cfg)
	if !ok {
		return Decision{Action: NoAction}
	}
	return Decision{Action: SetNickname, Nickname: LocalName(account.Username), Account: account}
}

func (p *Policy) resolve(cfg Configuration) (AccountHandle, bool) {
	if cfg.Account == "" || p.accounts == nil {
		return AccountHandle{}, false
	}
	account, ok := p.accounts.Find(cfg.Account, ProtocolIRC)
	if !ok || !account.Connected {
		return AccountHandle{}, false
	}
	return account, true
}

// LocalName returns the part of username before the first '@', or the whole
// username when it has none.
func LocalName(username string) string {
	name, _, _ := strings.Cut(username, "@")
	return name
}

// FormatNickCommand builds the client command changing the nickname to nick.
// nick is used as is and must not be empty.
func FormatNickCommand(nick string) string {
	return "nick " + nick
}
