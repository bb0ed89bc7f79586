// Package config provides configuration management for roz.
// Configuration is loaded from (highest to lowest priority):
// 1. Environment variables (ROZ_*)
// 2. Config file (~/.roz/config.toml)
// 3. Defaults
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds all roz configuration.
type Config struct {
	// Storage settings.
	Storage StorageConfig `toml:"storage"`

	// Review settings.
	Review ReviewConfig `toml:"review"`

	// CircuitBreaker settings.
	CircuitBreaker CircuitBreakerConfig `toml:"circuit_breaker"`

	// Cleanup settings.
	Cleanup CleanupConfig `toml:"cleanup"`

	// ExternalModels names the second-opinion commands.
	ExternalModels ExternalModelsConfig `toml:"external_models"`

	// Templates selects the block template.
	Templates TemplateConfig `toml:"templates"`

	// Trace bounds the per-session trace.
	Trace TraceConfig `toml:"trace"`
}

// StorageConfig controls where session state lives.
type StorageConfig struct {
	// Path is the roz home directory.
	Path string `toml:"path"`
}

// ReviewMode selects when reviews are requested.
type ReviewMode string

const (
	// ModeAlways reviews every prompt.
	ModeAlways ReviewMode = "always"

	// ModePrompt reviews when the user opts in with a #roz prefix.
	ModePrompt ReviewMode = "prompt"

	// ModeNever disables review entirely.
	ModeNever ReviewMode = "never"
)

// ReviewConfig controls the review workflow.
type ReviewConfig struct {
	// Mode is "always", "prompt", or "never".
	Mode ReviewMode `toml:"mode"`

	// Gates triggers review before matching tool calls.
	Gates GatesConfig `toml:"gates"`
}

// ApprovalScope controls how long a completed review satisfies gates.
type ApprovalScope string

const (
	// ScopeSession allows all gated tools until the session ends.
	ScopeSession ApprovalScope = "session"

	// ScopePrompt resets approval when the user sends a new prompt.
	ScopePrompt ApprovalScope = "prompt"

	// ScopeTool requires a fresh review for every gated call.
	ScopeTool ApprovalScope = "tool"
)

// GatesConfig configures automatic review triggers.
type GatesConfig struct {
	// Tools lists glob patterns of tool keys to gate.
	Tools []string `toml:"tools"`

	// ApprovalScope is "session", "prompt", or "tool".
	ApprovalScope ApprovalScope `toml:"approval_scope"`

	// ApprovalTTLSeconds optionally expires approvals.
	ApprovalTTLSeconds *int64 `toml:"approval_ttl_seconds"`
}

// Enabled reports whether any tool patterns are gated.
func (g *GatesConfig) Enabled() bool {
	return len(g.Tools) > 0
}

// CircuitBreakerConfig bounds how often the stop hook may block.
type CircuitBreakerConfig struct {
	// MaxBlocks is the block count at which the breaker trips.
	MaxBlocks int `toml:"max_blocks"`

	// CooldownSeconds is how long the breaker stays tripped.
	CooldownSeconds int64 `toml:"cooldown_seconds"`
}

// CleanupConfig controls session retention.
type CleanupConfig struct {
	// RetentionDays is the default age cutoff for roz clean.
	RetentionDays int `toml:"retention_days"`
}

// ExternalModelsConfig names the second-opinion commands probed on session
// start. An empty string disables the probe.
type ExternalModelsConfig struct {
	Codex  string `toml:"codex"`
	Gemini string `toml:"gemini"`
}

// TemplateConfig selects the block template.
type TemplateConfig struct {
	// Active is a template id, or "random" for weighted selection.
	Active string `toml:"active"`

	// Weights drives random selection (template id to weight).
	Weights map[string]int `toml:"weights"`
}

// TraceConfig bounds the per-session trace.
type TraceConfig struct {
	// MaxEvents is the trace length cap.
	MaxEvents int `toml:"max_events"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{Path: DefaultHome()},
		Review:  ReviewConfig{Mode: ModePrompt, Gates: GatesConfig{ApprovalScope: ScopePrompt}},
		CircuitBreaker: CircuitBreakerConfig{
			MaxBlocks:       3,
			CooldownSeconds: 300,
		},
		Cleanup:        CleanupConfig{RetentionDays: 7},
		ExternalModels: ExternalModelsConfig{Codex: "codex", Gemini: "gemini"},
		Templates: TemplateConfig{
			Active:  "default",
			Weights: map[string]int{"default": 100},
		},
		Trace: TraceConfig{MaxEvents: 500},
	}
}

// DefaultHome returns the default roz home directory (~/.roz, or ./.roz
// when the home directory cannot be determined).
func DefaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".roz"
	}
	return filepath.Join(home, ".roz")
}

// Path returns the config file location, honoring ROZ_CONFIG and ROZ_HOME.
func Path() string {
	if path := os.Getenv("ROZ_CONFIG"); path != "" {
		return path
	}
	if home := os.Getenv("ROZ_HOME"); home != "" {
		return filepath.Join(home, "config.toml")
	}
	return filepath.Join(DefaultHome(), "config.toml")
}

// Load reads configuration with precedence env vars over file over defaults.
// A missing file is fine; a file that exists but does not parse or validate
// is an error.
func Load() (*Config, error) {
	cfg := Default()

	path := Path()
	if data, err := os.ReadFile(path); err == nil {
		// Clear the default weights so an explicit weights table in the
		// file replaces it instead of merging into it.
		cfg.Templates.Weights = nil
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
		if cfg.Templates.Weights == nil {
			cfg.Templates.Weights = map[string]int{"default": 100}
		}
		if err := cfg.validate(); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg.applyEnv()
	return cfg, nil
}

// validate rejects enum values and counts the workflow does not understand.
func (c *Config) validate() error {
	switch c.Review.Mode {
	case ModeAlways, ModePrompt, ModeNever:
	default:
		return fmt.Errorf("invalid review mode %q", c.Review.Mode)
	}
	switch c.Review.Gates.ApprovalScope {
	case ScopeSession, ScopePrompt, ScopeTool:
	default:
		return fmt.Errorf("invalid approval scope %q", c.Review.Gates.ApprovalScope)
	}
	if ttl := c.Review.Gates.ApprovalTTLSeconds; ttl != nil && *ttl < 0 {
		return fmt.Errorf("invalid approval ttl %d", *ttl)
	}
	if c.CircuitBreaker.MaxBlocks < 0 || c.CircuitBreaker.CooldownSeconds < 0 {
		return fmt.Errorf("circuit breaker values must not be negative")
	}
	if c.Trace.MaxEvents < 0 {
		return fmt.Errorf("invalid max_events %d", c.Trace.MaxEvents)
	}
	if c.Cleanup.RetentionDays < 0 {
		return fmt.Errorf("invalid retention_days %d", c.Cleanup.RetentionDays)
	}
	for id, weight := range c.Templates.Weights {
		if weight < 0 {
			return fmt.Errorf("invalid weight %d for template %q", weight, id)
		}
	}
	return nil
}

// applyEnv overrides config fields from ROZ_* environment variables.
// Unparseable numeric values are ignored.
func (c *Config) applyEnv() {
	if path := os.Getenv("ROZ_STORAGE_PATH"); path != "" {
		c.Storage.Path = path
	} else if home := os.Getenv("ROZ_HOME"); home != "" {
		c.Storage.Path = home
	}

	if v := os.Getenv("ROZ_MAX_BLOCKS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.CircuitBreaker.MaxBlocks = n
		}
	}
	if v := os.Getenv("ROZ_COOLDOWN_SECONDS"); v != "" {
		if secs, err := strconv.ParseInt(v, 10, 64); err == nil && secs >= 0 {
			c.CircuitBreaker.CooldownSeconds = secs
		}
	}
	if v := os.Getenv("ROZ_REVIEW_MODE"); v != "" {
		switch strings.ToLower(v) {
		case "always":
			c.Review.Mode = ModeAlways
		case "never":
			c.Review.Mode = ModeNever
		default:
			c.Review.Mode = ModePrompt
		}
	}
	if v := os.Getenv("ROZ_MAX_EVENTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.Trace.MaxEvents = n
		}
	}
	if v := os.Getenv("ROZ_RETENTION_DAYS"); v != "" {
		if days, err := strconv.Atoi(v); err == nil && days >= 0 {
			c.Cleanup.RetentionDays = days
		}
	}
}
