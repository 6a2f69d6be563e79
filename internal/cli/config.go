package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/monkeylang/monkey/internal/parser"
)

// DefaultConfigFile is read from the working directory when no --config
// flag is given.
const DefaultConfigFile = "monkey.toml"

// Config holds the complete tool configuration
type Config struct {
	Requires string       `toml:"requires" yaml:"requires"`
	Log      LogConfig    `toml:"log" yaml:"log"`
	Parser   ParserConfig `toml:"parser" yaml:"parser"`
	REPL     REPLConfig   `toml:"repl" yaml:"repl"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level   string `toml:"level" yaml:"level"`
	Format  string `toml:"format" yaml:"format"`   // text or json
	File    string `toml:"file" yaml:"file"`       // optional JSON log file
	Journal bool   `toml:"journal" yaml:"journal"` // also log to the systemd journal
}

// ParserConfig holds parser settings
type ParserConfig struct {
	Recovery string `toml:"recovery" yaml:"recovery"` // synchronize or fail-fast
}

// REPLConfig holds interactive shell settings
type REPLConfig struct {
	Prompt      string `toml:"prompt" yaml:"prompt"`
	Mode        string `toml:"mode" yaml:"mode"` // tokens or ast
	HistoryFile string `toml:"history_file" yaml:"history_file"`
	MaxHistory  int    `toml:"max_history" yaml:"max_history"`
}

// DefaultConfig returns the configuration used when no file is present
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Parser: ParserConfig{
			Recovery: "synchronize",
		},
		REPL: REPLConfig{
			Prompt:     ">> ",
			Mode:       "tokens",
			MaxHistory: 1000,
		},
	}
}

// LoadConfig reads a TOML or YAML file, chosen by extension, over the
// defaults. A missing file yields the defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if configPath == "" {
		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(configPath)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
		}
	default:
		if _, err := toml.Decode(string(data), config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
		}
	}

	return config, nil
}

// Validate rejects unknown enum values and an unsatisfied requires
// constraint.
func (c *Config) Validate() error {
	var errs []error

	if err := CheckRequirement(c.Requires); err != nil {
		errs = append(errs, err)
	}

	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}

	switch c.Log.Format {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Log.Format))
	}

	if _, err := parser.ParseRecoveryMode(c.Parser.Recovery); err != nil {
		errs = append(errs, err)
	}

	switch c.REPL.Mode {
	case "", "tokens", "ast":
	default:
		errs = append(errs, fmt.Errorf("unknown repl mode %q", c.REPL.Mode))
	}

	if c.REPL.MaxHistory < 0 {
		errs = append(errs, fmt.Errorf("max_history must not be negative, got %d", c.REPL.MaxHistory))
	}

	return errors.Join(errs...)
}

// RecoveryMode returns the configured parser recovery mode
func (c *Config) RecoveryMode() parser.ErrorRecoveryMode {
	mode, _ := parser.ParseRecoveryMode(c.Parser.Recovery)
	return mode
}

// ParseLevel maps a level name to a slog level
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}
