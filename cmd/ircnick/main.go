package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/dalnet/ircnick/internal/accounts"
	"github.com/dalnet/ircnick/internal/config"
	"github.com/dalnet/ircnick/internal/irc"
	"github.com/dalnet/ircnick/internal/logger"
	"github.com/dalnet/ircnick/internal/nickname"
	"github.com/dalnet/ircnick/internal/plugin"
	"github.com/dalnet/ircnick/internal/storage"
	"github.com/olekukonko/tablewriter"
)

// Version information - set at build time via ldflags
var (
	version   = "dev"
	buildDate = "unknown"
	gitCommit = "unknown"
)

const shutdownTimeout = 5 * time.Second

func main() {
	// Command line flags
	configPath := flag.String("c", "./config.yaml", "Path to configuration file")
	showVersion := flag.Bool("v", false, "Show version information and exit")
	showVersionLong := flag.Bool("version", false, "Show version information and exit")
	listAccounts := flag.Bool("accounts", false, "List the IRC accounts that can be selected and exit")
	showHistory := flag.Bool("history", false, "Print the issued nickname commands and exit")
	setNick := flag.String("set-nick", "", "Set the nickname preference and exit")
	setAccount := flag.String("set-account", "", "Select the IRC account to rename and exit")
	clearNick := flag.Bool("clear-nick", false, "Unset the nickname preference and exit")
	clearAccount := flag.Bool("clear-account", false, "Unset the account preference and exit")
	flag.Parse()

	// Show version and exit
	if *showVersion || *showVersionLong {
		fmt.Printf("ircnick version %s\n", version)
		fmt.Printf("Built: %s\n", buildDate)
		fmt.Printf("Commit: %s\n", gitCommit)
		os.Exit(0)
	}

	// Set version info in irc package
	irc.Version = version
	irc.BuildDate = buildDate
	irc.GitCommit = gitCommit

	cfg := loadConfig(*configPath)
	registry := newRegistry(cfg)

	prefs, err := storage.OpenPrefs(cfg.DataDir)
	if err != nil {
		logger.Fatal("Failed to load preferences", "error", err)
	}

	if *listAccounts {
		printChoices(os.Stdout, registry, prefs.Get())
		return
	}

	if *showHistory {
		history, err := storage.OpenHistory(cfg.DataDir)
		if err != nil {
			logger.Fatal("Failed to load history", "error", err)
		}
		printHistory(os.Stdout, history.Entries())
		return
	}

	edits := prefEdits{
		nick:         *setNick,
		account:      *setAccount,
		clearNick:    *clearNick,
		clearAccount: *clearAccount,
	}
	if edits.any() {
		if err := edits.apply(prefs, registry); err != nil {
			logger.Fatal("Failed to update preferences", "error", err)
		}
		p := prefs.Get()
		fmt.Printf("nickname: %q\naccount: %q\n", p.Nickname, p.Account)
		return
	}

	// Write PID file
	if err := writePIDFile(cfg.DataDir); err != nil {
		logger.Warn("Could not write PID file", "error", err)
	}

	run(cfg, registry, prefs)
}

func loadConfig(configPath string) *config.Config {
	// Make config path absolute
	if !filepath.IsAbs(configPath) {
		wd, _ := os.Getwd()
		configPath = filepath.Join(wd, configPath)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatal("Failed to load configuration", "error", err)
	}
	logger.Init(cfg.Log)

	// Create data directory if it doesn't exist
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		logger.Fatal("Failed to create data directory", "error", err)
	}
	return cfg
}

func newRegistry(cfg *config.Config) *accounts.Registry {
	registry := accounts.NewRegistry()
	for _, a := range cfg.Accounts {
		registry.Add(a.Username, nickname.ProtocolIRC)
	}
	return registry
}

func printChoices(w io.Writer, registry *accounts.Registry, prefs storage.Preferences) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Account", "Local name", "Selected"})
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)

	for _, username := range registry.Choices(nickname.ProtocolIRC) {
		selected := ""
		if username == prefs.Account {
			selected = "*"
		}
		table.Append([]string{username, nickname.LocalName(username), selected})
	}
	table.Render()
}

func printHistory(w io.Writer, entries []storage.Entry) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Time", "Account", "Command", "Result"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)

	for _, e := range entries {
		result := "ok"
		if !e.OK() {
			result = e.Error
		}
		table.Append([]string{e.At.Format(time.RFC3339), e.Account, e.Command, result})
	}
	table.Render()
}

func writePIDFile(dataDir string) error {
	pid := os.Getpid()
	return os.WriteFile(filepath.Join(dataDir, "pid.txt"), []byte(fmt.Sprintf("%d\n", pid)), 0644)
}

func run(cfg *config.Config, registry *accounts.Registry, prefs *storage.PrefStore) {
	p := plugin.New(registry, prefs, cfg.DataDir)

	var clients []*irc.Client
	for _, a := range cfg.Accounts {
		username := a.Username
		client := irc.NewClient(a)
		client.OnSignedOn = func(string) {
			registry.SetConnected(username, nickname.ProtocolIRC, true)
			p.SignedOn(username)
		}
		client.OnSignedOff = func(string) {
			registry.SetConnected(username, nickname.ProtocolIRC, false)
			p.SignedOff(username)
		}
		p.Attach(username, client)
		clients = append(clients, client)
	}

	if err := p.Load(); err != nil {
		logger.Fatal("Failed to load plugin", "error", err)
	}

	// Connect and run
	var wg sync.WaitGroup
	var running []*irc.Client
	for _, client := range clients {
		if err := client.Connect(); err != nil {
			logger.Error("Failed to connect", "account", client.Username(), "error", err)
			continue
		}
		running = append(running, client)
		wg.Add(1)
		go func(c *irc.Client) {
			defer wg.Done()
			c.Loop()
		}(client)
	}
	if len(running) == 0 {
		logger.Fatal("No account could connect")
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	// Signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Received signal, shutting down", "signal", sig.String())
	case <-done:
		logger.Warn("All connections ended")
	}

	// Restore the local name before the connections go away
	p.Unload()
	for _, client := range running {
		client.Quit()
	}

	select {
	case <-done:
	case <-time.After(shutdownTimeout):
		logger.Warn("Connections did not close in time")
	}
}
