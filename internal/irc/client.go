package irc

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dalnet/ircnick/internal/config"
	"github.com/dalnet/ircnick/internal/logger"
	"github.com/ergochat/irc-go/ircevent"
	"github.com/ergochat/irc-go/ircmsg"
)

// Version information (set at build time or here)
var (
	Version   = "1.0.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// sender is the part of *ircevent.Connection used to issue commands
type sender interface {
	SetNick(nick string)
}

// Client is the connection of one IRC account
type Client struct {
	conn    *ircevent.Connection
	send    sender
	account config.AccountConfig
	log     *slog.Logger

	mu        sync.RWMutex
	ready     bool
	closed    bool
	requested string // last nickname sent, until the server answers

	// Lifecycle callbacks, called with the account username
	OnSignedOn  func(username string)
	OnSignedOff func(username string)
}

// NewClient creates the connection for an account
func NewClient(account config.AccountConfig) *Client {
	log := logger.Account(account.Username)

	conn := &ircevent.Connection{
		Server:       account.Addr(),
		Nick:         account.Nick(),
		User:         account.Nick(),
		RealName:     account.RealName,
		Password:     account.Password,
		QuitMessage:  "Signing off",
		EnableCTCP:   true,
		Version:      versionString(),
		Debug:        log.Enabled(context.Background(), slog.LevelDebug),
		Log:          logger.StdLogger(log, slog.LevelDebug),
		UseTLS:       account.TLS,
		TLSConfig:    &tls.Config{ServerName: account.Server, InsecureSkipVerify: account.Insecure},
		SASLLogin:    account.SASLLogin,
		SASLPassword: account.SASLPassword,
	}

	c := newClient(account, conn, log)
	c.conn = conn
	c.registerHandlers()
	return c
}

func newClient(account config.AccountConfig, s sender, log *slog.Logger) *Client {
	return &Client{
		send:    s,
		account: account,
		log:     log,
	}
}

func (c *Client) registerHandlers() {
	// Signed on (end of MOTD)
	c.conn.AddCallback("376", c.onConnect)
	c.conn.AddCallback("422", c.onConnect) // MOTD missing is also "connected"

	c.conn.AddDisconnectCallback(c.onDisconnect)

	c.conn.AddCallback("NICK", c.onNick)

	// Nick rejected by the server
	c.conn.AddCallback("432", c.onNickRejected) // ERR_ERRONEUSNICKNAME
	c.conn.AddCallback("433", c.onNickRejected) // ERR_NICKNAMEINUSE
	c.conn.AddCallback("436", c.onNickRejected) // ERR_NICKCOLLISION
	c.conn.AddCallback("437", c.onNickRejected) // ERR_UNAVAILRESOURCE
}

// Username returns the account this client connects
func (c *Client) Username() string {
	return c.account.Username
}

// Connect initiates the IRC connection
func (c *Client) Connect() error {
	c.log.Info("Connecting", "server", c.account.Addr(), "tls", c.account.TLS)
	if err := c.conn.Connect(); err != nil {
		return fmt.Errorf("failed to connect %s: %w", c.account.Username, err)
	}
	return nil
}

// Loop runs the IRC event loop (blocking)
func (c *Client) Loop() {
	c.conn.Loop()
}

// Quit disconnects from IRC
func (c *Client) Quit() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.conn.Quit()
}

// Ready reports whether the account is signed on
func (c *Client) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ready
}

func (c *Client) onConnect(e ircmsg.Message) {
	c.mu.Lock()
	already := c.ready
	c.ready = true
	c.mu.Unlock()

	// 376 and 422 may both show up after a MOTD request
	if already {
		return
	}

	c.log.Info("Signed on")
	if c.OnSignedOn != nil {
		c.OnSignedOn(c.account.Username)
	}
}

func (c *Client) onDisconnect(e ircmsg.Message) {
	c.mu.Lock()
	was := c.ready
	closed := c.closed
	c.ready = false
	c.requested = ""
	c.mu.Unlock()

	if !was {
		return
	}

	if closed {
		c.log.Info("Signed off")
	} else {
		c.log.Warn("Connection lost")
	}
	if c.OnSignedOff != nil {
		c.OnSignedOff(c.account.Username)
	}
}

func (c *Client) onNick(e ircmsg.Message) {
	// :old!user@host NICK new
	if len(e.Params) < 1 {
		return
	}
	newNick := e.Params[0]

	c.mu.Lock()
	ours := c.requested != "" && c.requested == newNick
	if ours {
		c.requested = ""
	}
	c.mu.Unlock()

	if ours {
		c.log.Info("Nickname changed", "from", e.Nick(), "to", newNick)
	}
}

func (c *Client) onNickRejected(e ircmsg.Message) {
	// 433 <me> <nick> :Nickname is already in use
	if len(e.Params) < 2 {
		return
	}
	nick := e.Params[1]
	reason := e.Params[len(e.Params)-1]

	c.mu.Lock()
	ours := c.requested != "" && c.requested == nick
	if ours {
		c.requested = ""
	}
	c.mu.Unlock()

	if ours {
		c.log.Warn("Server rejected nickname", "nick", nick, "numeric", e.Command, "reason", reason)
	}
}

func versionString() string {
	return fmt.Sprintf("ircnick %s (built %s, commit %s)", Version, BuildDate, GitCommit)
}
