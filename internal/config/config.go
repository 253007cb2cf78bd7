package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// DefaultConfigFile is the config file consulted when BOOKPULSE_CONFIG is unset.
const DefaultConfigFile = "bookpulse.yaml"

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig  `yaml:"server" envconfig:"SERVER"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Paths   PathsConfig   `yaml:"paths" envconfig:"PATHS"`
	Club    ClubConfig    `yaml:"club" envconfig:"CLUB"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/bookpulse.log"`
}

// PathsConfig contains file system paths for the data snapshot
type PathsConfig struct {
	SessionsFile   string `yaml:"sessions_file" envconfig:"SESSIONS_FILE" default:"data/sessions.csv" validate:"required"`
	EnrichmentFile string `yaml:"enrichment_file" envconfig:"ENRICHMENT_FILE" default:"data/book_enrichment.json"`
}

// MemberConfig describes one roster member and their stable display color.
// The color keeps chart identity consistent across views; it carries no
// statistical meaning.
type MemberConfig struct {
	Name  string `yaml:"name" validate:"required"`
	Color string `yaml:"color"`
}

// ClubConfig contains the fixed member roster and proposer alias map.
// The roster is a closed set: membership never grows or shrinks at runtime,
// and it is deliberately configuration rather than something inferred from
// the sheet's columns.
type ClubConfig struct {
	Members         []MemberConfig    `yaml:"members" validate:"min=1,dive"`
	ProposerAliases map[string]string `yaml:"proposer_aliases"`
	DateFormat      string            `yaml:"date_format" envconfig:"DATE_FORMAT" default:"01/02/2006"`
}

// MemberNames returns the roster names in configured order.
func (c ClubConfig) MemberNames() []string {
	names := make([]string, len(c.Members))
	for i, m := range c.Members {
		names[i] = m.Name
	}
	return names
}

// Load loads configuration from environment variables and the YAML config file.
// Environment variables (BOOKPULSE_ prefix) take precedence over file values.
func Load() (*Config, error) {
	return LoadFromFile(configFilePath())
}

// LoadFromFile loads configuration using the given YAML file as the base layer.
func LoadFromFile(configFile string) (*Config, error) {
	var cfg Config

	// File layer first so env vars can override it
	if _, err := os.Stat(configFile); err == nil {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := envconfig.Process("BOOKPULSE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// applyDefaults fills roster defaults that envconfig cannot express.
func (c *Config) applyDefaults() {
	if len(c.Club.Members) == 0 {
		c.Club.Members = DefaultRoster()
	}
	if c.Club.ProposerAliases == nil {
		c.Club.ProposerAliases = map[string]string{}
	}
	if c.Club.DateFormat == "" {
		c.Club.DateFormat = "01/02/2006"
	}
}

// Validate checks the configuration for structural problems.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}

	seen := make(map[string]bool, len(c.Club.Members))
	for _, m := range c.Club.Members {
		if seen[m.Name] {
			return fmt.Errorf("duplicate roster member: %s", m.Name)
		}
		seen[m.Name] = true
	}

	// Aliases must resolve to roster members, otherwise proposer stats
	// would silently split across two names.
	for alias, canonical := range c.Club.ProposerAliases {
		if !seen[canonical] {
			return fmt.Errorf("proposer alias %q maps to unknown member %q", alias, canonical)
		}
	}

	return nil
}

// DefaultRoster returns the roster used when no config file provides one.
func DefaultRoster() []MemberConfig {
	return []MemberConfig{
		{Name: "Willy", Color: "#e6194b"},
		{Name: "Bartel", Color: "#3cb44b"},
		{Name: "Josh", Color: "#ffe119"},
		{Name: "Faulkner", Color: "#4363d8"},
		{Name: "Ryan", Color: "#f58231"},
		{Name: "John", Color: "#911eb4"},
		{Name: "Christian", Color: "#46f0f0"},
	}
}

func configFilePath() string {
	if path := os.Getenv("BOOKPULSE_CONFIG"); path != "" {
		return path
	}
	return DefaultConfigFile
}
