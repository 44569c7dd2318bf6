package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file looked up in the working directory.
const DefaultFile = "monzo-mail.yaml"

// Environment variables that override file values.
const (
	EnvAccount         = "MONZO_MAIL_ACCOUNT"
	EnvOutput          = "MONZO_MAIL_OUTPUT"
	EnvCredentialsFile = "GOOGLE_OAUTH_CLIENT_FILE"
	EnvTokenFile       = "GOOGLE_OAUTH_TOKEN_FILE"
)

// Config represents monzo-mail.yaml.
type Config struct {
	// Account is the Gmail user to search; "me" is the authorized user.
	Account    string      `yaml:"account"`
	MaxResults int         `yaml:"max_results"`
	Output     string      `yaml:"output"`
	Format     string      `yaml:"format"`
	RunLog     string      `yaml:"run_log,omitempty"`
	Gmail      GmailConfig `yaml:"gmail"`
}

// GmailConfig holds mailbox access settings.
type GmailConfig struct {
	Query           string `yaml:"query,omitempty"`
	CredentialsFile string `yaml:"credentials_file"`
	TokenFile       string `yaml:"token_file"`
	Concurrency     int    `yaml:"concurrency"`
}

// Load reads a config file from disk. Keys missing from the file keep
// their Default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// LoadOptional is Load, except a missing file yields Default.
func LoadOptional(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Account:    "me",
		MaxResults: 500,
		Output:     "transactions.json",
		Format:     "json",
		Gmail: GmailConfig{
			CredentialsFile: "credentials.json",
			TokenFile:       "token.json",
			Concurrency:     8,
		},
	}
}

// LoadEnv loads KEY=value pairs from dotenv files into the process
// environment. Missing files are ignored; existing variables win.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides cfg with any non-empty variables from getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvAccount); v != "" {
		c.Account = v
	}
	if v := getenv(EnvOutput); v != "" {
		c.Output = v
	}
	if v := getenv(EnvCredentialsFile); v != "" {
		c.Gmail.CredentialsFile = v
	}
	if v := getenv(EnvTokenFile); v != "" {
		c.Gmail.TokenFile = v
	}
}
