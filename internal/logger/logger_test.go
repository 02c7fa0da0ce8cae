package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	t.Run("should accept a known level and format", func(t *testing.T) {
		cfg := Config{Level: LevelWarn, Format: "json"}
		require.NoError(t, cfg.Validate())
	})

	t.Run("should reject an unknown level", func(t *testing.T) {
		cfg := Config{Level: "verbose", Format: "text"}
		require.Error(t, cfg.Validate())
	})

	t.Run("should reject an empty format", func(t *testing.T) {
		cfg := Config{Level: LevelInfo}
		require.Error(t, cfg.Validate())
	})
}

func TestNewFiltersByLevel(t *testing.T) {
	req := require.New(t)
	var buf bytes.Buffer
	l := New(Config{Level: LevelWarn, Format: "text"}, &buf)

	l.Info("hidden")
	l.Warn("Failed to execute nick Bob", "account", "bob@irc.example.net")

	out := buf.String()
	req.NotContains(out, "hidden")
	req.Contains(out, "level=WARN")
	req.Contains(out, "account=bob@irc.example.net")
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	New(Config{Level: LevelDebug, Format: "json"}, &buf).Debug("hello")
	require.True(t, strings.HasPrefix(buf.String(), "{"))
}

func TestAccountLogger(t *testing.T) {
	req := require.New(t)
	prev := Default()
	defer SetDefault(prev)

	var buf bytes.Buffer
	SetDefault(New(Config{Level: LevelInfo, Format: "text"}, &buf))
	Account("alice@irc.example.net").Info("signed on")

	req.Contains(buf.String(), "account=alice@irc.example.net")
	req.Contains(buf.String(), "signed on")
}

func TestStdLogger(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelDebug, Format: "text"}, &buf)
	StdLogger(l, slog.LevelDebug).Print("raw line")
	require.Contains(t, buf.String(), "raw line")
}
