package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dalnet/ircnick/internal/logger"
	"github.com/dalnet/ircnick/internal/nickname"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes the environment variables overriding the file.
const EnvPrefix = "IRCNICK"

// Config holds all client configuration
type Config struct {
	DataDir  string          `yaml:"data_dir" validate:"required"`
	Log      logger.Config   `yaml:"log"`
	Accounts []AccountConfig `yaml:"accounts" validate:"required,min=1,unique=Username,dive"`
}

// AccountConfig describes one IRC account and how to reach its server
type AccountConfig struct {
	Username     string `yaml:"username" validate:"required"`
	Server       string `yaml:"server" validate:"required,hostname_rfc1123|ip"`
	Port         int    `yaml:"port" validate:"gte=1,lte=65535"`
	TLS          bool   `yaml:"tls"`
	Insecure     bool   `yaml:"insecure"`
	Password     string `yaml:"password"`
	RealName     string `yaml:"real_name"`
	SASLLogin    string `yaml:"sasl_login"`
	SASLPassword string `yaml:"sasl_password" validate:"required_with=SASLLogin"`
}

// Nick is the nickname the account registers with before any change.
func (a *AccountConfig) Nick() string {
	return nickname.LocalName(a.Username)
}

// Addr returns the host:port of the account's server.
func (a *AccountConfig) Addr() string {
	return fmt.Sprintf("%s:%d", a.Server, a.Port)
}

type envOverrides struct {
	DataDir   string `envconfig:"DATA_DIR"`
	LogLevel  string `envconfig:"LOG_LEVEL"`
	LogFormat string `envconfig:"LOG_FORMAT"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads and parses a YAML configuration file, then applies
// environment overrides and defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// A missing .env file is the common case
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML configuration and fills in defaults. It does not validate.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	if env.DataDir != "" {
		cfg.DataDir = env.DataDir
	}
	if env.LogLevel != "" {
		cfg.Log.Level = logger.LogLevel(env.LogLevel)
	}
	if env.LogFormat != "" {
		cfg.Log.Format = env.LogFormat
	}

	cfg.setDefaults()
	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.DataDir == "" {
		c.DataDir = "./data"
	}
	if c.Log.Level == "" {
		c.Log.Level = logger.LevelInfo
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	for i := range c.Accounts {
		a := &c.Accounts[i]
		// IRC account usernames are nick@server
		if a.Server == "" {
			if _, server, ok := strings.Cut(a.Username, "@"); ok {
				a.Server = server
			}
		}
		if a.Port == 0 {
			a.Port = 6667
			if a.TLS {
				a.Port = 6697
			}
		}
		if a.RealName == "" {
			a.RealName = a.Nick()
		}
	}
}

// Validate checks the configuration is usable
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
