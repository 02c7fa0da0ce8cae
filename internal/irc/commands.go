package irc

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotConnected    = errors.New("not connected")
	ErrUnknownCommand  = errors.New("unknown command")
	ErrMissingArgument = errors.New("missing argument")
)

// ExecuteCommand runs a client command such as "nick Bob" on the account's
// connection. The first word names the command, everything after the
// first space is its argument, passed on untouched.
func (c *Client) ExecuteCommand(line string) error {
	name, arg, _ := strings.Cut(strings.TrimLeft(line, " \t"), " ")

	switch strings.ToLower(name) {
	case "nick":
		return c.cmdNick(arg)
	case "":
		return fmt.Errorf("%w: empty command line", ErrUnknownCommand)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
}

func (c *Client) cmdNick(nick string) error {
	if strings.TrimSpace(nick) == "" {
		return fmt.Errorf("nick: %w", ErrMissingArgument)
	}

	c.mu.Lock()
	if !c.ready || c.closed {
		c.mu.Unlock()
		return fmt.Errorf("nick %s: %w", nick, ErrNotConnected)
	}
	c.requested = nick
	c.mu.Unlock()

	// SetNick also becomes the nick ircevent restores on keepalive and reconnect
	c.send.SetNick(nick)
	c.log.Debug("Requested nickname", "nick", nick)
	return nil
}
