package config

import (
	"io"
	"os"
	"path/filepath"

	"github.com/lsql-dev/lsql/pkg/consts"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type (
	// Shell holds settings for the interactive shell.
	Shell struct {
		// Prompt is the primary prompt string
		Prompt string `yaml:"prompt,omitempty"`

		// ContinuePrompt is shown while a multi-line statement is open
		ContinuePrompt string `yaml:"continue_prompt,omitempty"`

		// HistoryFile is the path of the interactive history file. A
		// relative path is resolved against the user's home directory.
		HistoryFile string `yaml:"history_file,omitempty"`
	}

	// Config represents the optional lsql configuration file.
	Config struct {
		// Shell contains interactive shell settings
		Shell Shell `yaml:"shell"`

		// MaxFieldWidth caps rendered cell widths in table output
		MaxFieldWidth int `yaml:"max_field_width,omitempty"`

		// Output is the default rendering mode ("table" or "json")
		Output string `yaml:"output,omitempty"`
	}
)

// Default returns a configuration populated entirely from defaults. It is
// used when no config file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// LoadConfig parses a configuration from the provided io.Reader. Fields not
// present in the YAML document keep their default values.
func LoadConfig(r io.Reader) (*Config, error) {
	var cfg Config
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// LoadConfigFile loads a configuration from the specified file path. This is
// a convenience function that opens the file and calls LoadConfig.
func LoadConfigFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open file: %s", path)
	}
	defer func() { _ = f.Close() }()

	return LoadConfig(f)
}

// HistoryPath resolves the configured history file to an absolute path.
// Relative paths are placed under the user's home directory; if the home
// directory cannot be determined, history is disabled (empty path).
func (c *Config) HistoryPath() string {
	if filepath.IsAbs(c.Shell.HistoryFile) {
		return c.Shell.HistoryFile
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, c.Shell.HistoryFile)
}

func (c *Config) applyDefaults() {
	if c.Shell.Prompt == "" {
		c.Shell.Prompt = consts.DefaultPrompt
	}
	if c.Shell.ContinuePrompt == "" {
		c.Shell.ContinuePrompt = consts.DefaultContinuePrompt
	}
	if c.Shell.HistoryFile == "" {
		c.Shell.HistoryFile = consts.DefaultHistoryFile
	}
	if c.MaxFieldWidth <= 0 {
		c.MaxFieldWidth = consts.DefaultMaxFieldWidth
	}
	if c.Output == "" {
		c.Output = consts.DefaultOutput
	}
}
