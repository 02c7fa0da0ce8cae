package accounts

import (
	"testing"

	"github.com/dalnet/ircnick/internal/nickname"
	"github.com/stretchr/testify/require"
)

func newTestRegistry() *Registry {
	r := NewRegistry()
	r.Add("alice@irc.example.net", nickname.ProtocolIRC)
	r.Add("erin@jabber.example.net", "prpl-jabber")
	r.Add("bob@irc.example.net", nickname.ProtocolIRC)
	return r
}

func TestRegistry_Find(t *testing.T) {
	r := newTestRegistry()

	t.Run("should find a registered account disconnected", func(t *testing.T) {
		req := require.New(t)
		a, ok := r.Find("alice@irc.example.net", nickname.ProtocolIRC)
		req.True(ok)
		req.False(a.Connected)
	})

	t.Run("should not match another protocol", func(t *testing.T) {
		_, ok := r.Find("erin@jabber.example.net", nickname.ProtocolIRC)
		require.False(t, ok)
	})

	t.Run("should not find unknown accounts", func(t *testing.T) {
		_, ok := r.Find("zed@irc.example.net", nickname.ProtocolIRC)
		require.False(t, ok)
	})
}

func TestRegistry_SetConnected(t *testing.T) {
	req := require.New(t)
	r := newTestRegistry()

	req.True(r.SetConnected("bob@irc.example.net", nickname.ProtocolIRC, true))
	a, ok := r.Find("bob@irc.example.net", nickname.ProtocolIRC)
	req.True(ok)
	req.True(a.Connected)

	req.True(r.SetConnected("bob@irc.example.net", nickname.ProtocolIRC, false))
	a, _ = r.Find("bob@irc.example.net", nickname.ProtocolIRC)
	req.False(a.Connected)

	req.False(r.SetConnected("zed@irc.example.net", nickname.ProtocolIRC, true))
}

func TestRegistry_Choices(t *testing.T) {
	r := newTestRegistry()
	require.Equal(t, []string{"alice@irc.example.net", "bob@irc.example.net"}, r.Choices(nickname.ProtocolIRC))
	require.Empty(t, NewRegistry().Choices(nickname.ProtocolIRC))
}

func TestRegistry_AllIsACopy(t *testing.T) {
	req := require.New(t)
	r := newTestRegistry()

	all := r.All()
	req.Len(all, 3)
	all[0].Connected = true

	a, _ := r.Find("alice@irc.example.net", nickname.ProtocolIRC)
	req.False(a.Connected)
}

func TestRegistryWithPolicy(t *testing.T) {
	req := require.New(t)
	r := newTestRegistry()
	p := nickname.New(r)
	cfg := nickname.Configuration{Account: "alice@irc.example.net"}

	req.Equal(nickname.NoAction, p.OnAccountSignedOn(nickname.Event{}, cfg).Action)

	r.SetConnected("alice@irc.example.net", nickname.ProtocolIRC, true)
	d := p.OnAccountSignedOn(nickname.Event{}, cfg)
	req.Equal(nickname.SetNickname, d.Action)
	req.Equal("alice", d.Nickname)
}
