// Package config provides configuration loading and validation for the CLI
// and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jonathan/class-reporter/internal/types"
)

// Config represents the application configuration that can be loaded from a
// JSON file. All fields are optional; missing values use defaults, CLI flags,
// or environment variables.
type Config struct {
	// Credentials
	APIKey            string `json:"api_key,omitempty"`             // Gemini API key
	WorkspaceToken    string `json:"workspace_token,omitempty"`     // Workspace API token
	WorkspaceParentID string `json:"workspace_parent_id,omitempty"` // Parent database for report pages

	// Static page publishing
	StaticDir     string `json:"static_dir,omitempty"`      // Directory static pages are written to
	StaticBaseURL string `json:"static_base_url,omitempty"` // Public URL the static directory is served from

	// Storage
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL for the report archive

	// Server
	Port int `json:"port,omitempty"` // API server port

	// Block limits
	MaxSpanTextLen   int `json:"max_span_text_len,omitempty"`
	MaxSpansPerBlock int `json:"max_spans_per_block,omitempty"`
	MaxBlocks        int `json:"max_blocks,omitempty"`

	// Behavior
	Precheck bool `json:"precheck,omitempty"` // Run the markdown format precheck before rendering
	Verbose  bool `json:"verbose,omitempty"`  // Print detailed debug information
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv fills unset fields from environment variables. Explicit config
// file values win over the environment.
func (c *Config) FromEnv() {
	if c.APIKey == "" {
		c.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if c.WorkspaceToken == "" {
		c.WorkspaceToken = os.Getenv("WORKSPACE_TOKEN")
	}
	if c.WorkspaceParentID == "" {
		c.WorkspaceParentID = os.Getenv("WORKSPACE_PARENT_ID")
	}
	if c.StaticDir == "" {
		c.StaticDir = os.Getenv("STATIC_DIR")
	}
	if c.StaticBaseURL == "" {
		c.StaticBaseURL = os.Getenv("STATIC_BASE_URL")
	}
	if c.DatabaseURL == "" {
		c.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if c.Port == 0 {
		if port, err := strconv.Atoi(os.Getenv("PORT")); err == nil {
			c.Port = port
		}
	}
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required credentials since those are handled
// per command after merging.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.MaxSpanTextLen < 0 {
		return fmt.Errorf("config error: 'max_span_text_len' must be non-negative")
	}
	if c.MaxSpansPerBlock < 0 {
		return fmt.Errorf("config error: 'max_spans_per_block' must be non-negative")
	}
	if c.MaxBlocks < 0 {
		return fmt.Errorf("config error: 'max_blocks' must be non-negative")
	}
	if c.StaticDir != "" {
		if info, err := os.Stat(c.StaticDir); err == nil && !info.IsDir() {
			return fmt.Errorf("config error: 'static_dir' is not a directory: %s", c.StaticDir)
		}
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.WorkspaceToken == "" {
		result.WorkspaceToken = defaults.WorkspaceToken
	}
	if result.WorkspaceParentID == "" {
		result.WorkspaceParentID = defaults.WorkspaceParentID
	}
	if result.StaticDir == "" {
		result.StaticDir = defaults.StaticDir
	}
	if result.StaticBaseURL == "" {
		result.StaticBaseURL = defaults.StaticBaseURL
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	// Int fields: use default if zero
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.MaxSpanTextLen == 0 {
		result.MaxSpanTextLen = defaults.MaxSpanTextLen
	}
	if result.MaxSpansPerBlock == 0 {
		result.MaxSpansPerBlock = defaults.MaxSpansPerBlock
	}
	if result.MaxBlocks == 0 {
		result.MaxBlocks = defaults.MaxBlocks
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// Limits returns the block limits with any configured overrides applied.
func (c *Config) Limits() types.Limits {
	limits := types.DefaultLimits()
	if c.MaxSpanTextLen > 0 {
		limits.MaxSpanTextLen = c.MaxSpanTextLen
	}
	if c.MaxSpansPerBlock > 0 {
		limits.MaxSpansPerBlock = c.MaxSpansPerBlock
	}
	if c.MaxBlocks > 0 {
		limits.MaxBlocks = c.MaxBlocks
	}
	return limits
}
