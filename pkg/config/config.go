package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/oarkflow/bcl"
	"github.com/oarkflow/json"
	"gopkg.in/yaml.v3"
)

// Config holds the driver settings for the mint command: prompt text,
// history persistence, logging and the compile cache.
type Config struct {
	Prompt             string   `json:"prompt" yaml:"prompt"`
	ContinuationPrompt string   `json:"continuation_prompt" yaml:"continuation_prompt"`
	HistoryFile        string   `json:"history_file" yaml:"history_file"`
	LogLevel           string   `json:"log_level" yaml:"log_level"`
	Color              *bool    `json:"color" yaml:"color"`
	ExitWords          []string `json:"exit_words" yaml:"exit_words"`
	CacheSize          int64    `json:"cache_size" yaml:"cache_size"`
}

var logLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "error": true, "fatal": true,
}

// Default returns the settings used when no config file is given.
func Default() *Config {
	color := true
	return &Config{
		Prompt:             "> ",
		ContinuationPrompt: ". ",
		LogLevel:           "warn",
		Color:              &color,
		ExitWords:          []string{"exit", "exit;", ".exit", "quit", "quit;", ".quit", ":q"},
		CacheSize:          1 << 20,
	}
}

// ColorEnabled reports whether diagnostics should be coloured.
func (cfg *Config) ColorEnabled() bool {
	return cfg.Color == nil || *cfg.Color
}

// IsExitWord reports whether line asks the REPL to stop.
func (cfg *Config) IsExitWord(line string) bool {
	line = strings.TrimSpace(line)
	for _, w := range cfg.ExitWords {
		if line == w {
			return true
		}
	}
	return false
}

// Load reads a config file, choosing the decoder from its extension.
// Environment variables in the file are expanded before decoding.
func Load(path string) (*Config, error) {
	ext := strings.ToLower(filepath.Ext(path))
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadFromString(os.ExpandEnv(string(raw)), strings.TrimPrefix(ext, "."))
}

// LoadFromString decodes config text in the given format (yaml, yml, json or
// bcl). Unset fields keep their defaults.
func LoadFromString(content, format string) (*Config, error) {
	switch strings.ToLower(format) {
	case "yaml", "yml":
		return decode([]byte(content), yaml.Unmarshal)
	case "json":
		return decode([]byte(content), func(data []byte, v any) error {
			return json.Unmarshal(data, v)
		})
	case "bcl":
		return decode([]byte(content), func(data []byte, v any) error {
			_, err := bcl.Unmarshal(data, v)
			return err
		})
	default:
		return nil, fmt.Errorf("unsupported config format: %s", format)
	}
}

// Validate checks that the settings are usable.
func (cfg *Config) Validate() error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if cfg.Prompt == "" {
		return fmt.Errorf("prompt must not be empty")
	}
	if !logLevels[strings.ToLower(cfg.LogLevel)] {
		return fmt.Errorf("unknown log level %q", cfg.LogLevel)
	}
	if cfg.CacheSize < 0 {
		return fmt.Errorf("cache_size must not be negative, got %d", cfg.CacheSize)
	}
	for _, w := range cfg.ExitWords {
		if strings.TrimSpace(w) == "" {
			return fmt.Errorf("exit words must not be blank")
		}
	}
	return nil
}

func decode(data []byte, fn func([]byte, any) error) (*Config, error) {
	cfg := Default()
	if err := fn(data, cfg); err != nil {
		return nil, err
	}
	if cfg.ContinuationPrompt == "" {
		cfg.ContinuationPrompt = strings.Repeat(".", len(strings.TrimSpace(cfg.Prompt))) + " "
	}
	return cfg, cfg.Validate()
}
