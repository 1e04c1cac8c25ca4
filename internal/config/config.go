// Package config loads arbiter configuration from TOML, YAML, or JSON
// files with koanf.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigFile is the file LoadOrDefault looks for in the working
// directory.
const DefaultConfigFile = ".arbiter.toml"

// Config holds all configuration options for arbiter.
type Config struct {
	Engine     EngineConfig     `koanf:"engine"`
	Validation ValidationConfig `koanf:"validation"`
	Folder     FolderConfig     `koanf:"folder"`
	Exclude    ExcludeConfig    `koanf:"exclude"`
	Cache      CacheConfig      `koanf:"cache"`
	Output     OutputConfig     `koanf:"output"`
}

// EngineConfig selects and tunes the analysis engine.
type EngineConfig struct {
	Provider  string `koanf:"provider"`
	Model     string `koanf:"model"`
	MaxTokens int    `koanf:"max_tokens"`
}

// ValidationConfig tunes the self-correction loop.
type ValidationConfig struct {
	ConfidenceThreshold   int  `koanf:"confidence_threshold"`
	ValidatorAgentEnabled bool `koanf:"validator_agent_enabled"`
}

// FolderConfig tunes folder-scale review.
type FolderConfig struct {
	// Concurrency bounds in-flight files. Each file internally runs two
	// concurrent agent calls, so outstanding engine calls are 2x this.
	Concurrency int   `koanf:"concurrency"`
	FileLimit   int   `koanf:"file_limit"`
	MaxFileSize int64 `koanf:"max_file_size"`
}

// ExcludeConfig defines corpus exclusion rules.
type ExcludeConfig struct {
	Dirs      []string `koanf:"dirs"`
	Gitignore bool     `koanf:"gitignore"`
}

// CacheConfig controls response caching.
type CacheConfig struct {
	Enabled bool   `koanf:"enabled"`
	Dir     string `koanf:"dir"`
	TTL     int    `koanf:"ttl"` // TTL in hours
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format  string `koanf:"format"` // text, json, markdown, toon
	Color   bool   `koanf:"color"`
	Verbose bool   `koanf:"verbose"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			Provider:  "anthropic",
			Model:     "claude-sonnet-4-20250514",
			MaxTokens: 4096,
		},
		Validation: ValidationConfig{
			ConfidenceThreshold:   80,
			ValidatorAgentEnabled: true,
		},
		Folder: FolderConfig{
			Concurrency: 1,
			FileLimit:   50,
			MaxFileSize: 256 * 1024,
		},
		Exclude: ExcludeConfig{
			Gitignore: true,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     ".arbiter/cache",
			TTL:     24,
		},
		Output: OutputConfig{
			Format:  "text",
			Color:   true,
			Verbose: false,
		},
	}
}

// Load loads configuration from a file, layering it over defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault loads the given path, or the default config file if it
// exists, or plain defaults.
func LoadOrDefault(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}
	if _, err := os.Stat(DefaultConfigFile); err == nil {
		return Load(DefaultConfigFile)
	}
	return DefaultConfig(), nil
}

func (c *Config) validate() error {
	if c.Validation.ConfidenceThreshold < 0 || c.Validation.ConfidenceThreshold > 100 {
		return fmt.Errorf("validation.confidence_threshold must be in [0,100], got %d", c.Validation.ConfidenceThreshold)
	}
	if c.Folder.Concurrency < 1 {
		return fmt.Errorf("folder.concurrency must be at least 1, got %d", c.Folder.Concurrency)
	}
	return nil
}
