package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dalnet/ircnick/internal/logger"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
data_dir: /var/lib/ircnick
log:
  level: debug
  format: json
accounts:
  - username: alice@irc.example.net
    tls: true
  - username: bob
    server: irc.other.net
    port: 7000
    real_name: Bob Builder
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	req := require.New(t)

	cfg, err := Load(writeConfig(t, sampleConfig))
	req.NoError(err)

	req.Equal("/var/lib/ircnick", cfg.DataDir)
	req.Equal(logger.LevelDebug, cfg.Log.Level)
	req.Equal("json", cfg.Log.Format)
	req.Len(cfg.Accounts, 2)

	alice := cfg.Accounts[0]
	req.Equal("irc.example.net", alice.Server)
	req.Equal(6697, alice.Port)
	req.Equal("alice", alice.RealName)
	req.Equal("alice", alice.Nick())
	req.Equal("irc.example.net:6697", alice.Addr())

	bob := cfg.Accounts[1]
	req.Equal("irc.other.net:7000", bob.Addr())
	req.Equal("Bob Builder", bob.RealName)
	req.Equal("bob", bob.Nick())
}

func TestLoadDefaults(t *testing.T) {
	req := require.New(t)

	cfg, err := Load(writeConfig(t, "accounts:\n  - username: carol@irc.example.net\n"))
	req.NoError(err)

	req.Equal("./data", cfg.DataDir)
	req.Equal(logger.LevelInfo, cfg.Log.Level)
	req.Equal("text", cfg.Log.Format)
	req.Equal(6667, cfg.Accounts[0].Port)
}

func TestLoadEnvOverrides(t *testing.T) {
	req := require.New(t)
	t.Setenv("IRCNICK_DATA_DIR", "/tmp/ircnick")
	t.Setenv("IRCNICK_LOG_LEVEL", "warn")

	cfg, err := Load(writeConfig(t, sampleConfig))
	req.NoError(err)

	req.Equal("/tmp/ircnick", cfg.DataDir)
	req.Equal(logger.LevelWarn, cfg.Log.Level)
	req.Equal("json", cfg.Log.Format)
}

func TestLoadErrors(t *testing.T) {
	t.Run("should fail when the file is missing", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("should fail on malformed yaml", func(t *testing.T) {
		_, err := Load(writeConfig(t, "accounts: [\n"))
		require.Error(t, err)
	})

	t.Run("should fail without accounts", func(t *testing.T) {
		_, err := Load(writeConfig(t, "data_dir: ./data\n"))
		require.Error(t, err)
	})

	t.Run("should fail when no server can be derived", func(t *testing.T) {
		_, err := Load(writeConfig(t, "accounts:\n  - username: dave\n"))
		require.Error(t, err)
	})

	t.Run("should fail on duplicate usernames", func(t *testing.T) {
		_, err := Load(writeConfig(t, `
accounts:
  - username: erin@irc.example.net
  - username: erin@irc.example.net
`))
		require.Error(t, err)
	})

	t.Run("should fail on an unknown log level", func(t *testing.T) {
		_, err := Load(writeConfig(t, `
log:
  level: loud
accounts:
  - username: frank@irc.example.net
`))
		require.Error(t, err)
	})

	t.Run("should require a SASL password with a SASL login", func(t *testing.T) {
		_, err := Load(writeConfig(t, `
accounts:
  - username: gina@irc.example.net
    sasl_login: gina
`))
		require.Error(t, err)
	})
}
