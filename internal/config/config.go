package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete Accordo configuration
type Config struct {
	Board   BoardConfig   `mapstructure:"board"`
	Claims  ClaimsConfig  `mapstructure:"claims"`
	Agent   AgentConfig   `mapstructure:"agent"`
	Watch   WatchConfig   `mapstructure:"watch"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// BoardConfig controls where the shared board lives and how access to
// it is serialized
type BoardConfig struct {
	// Dir is the coordination directory holding the board document and
	// its lock sentinel. If empty, defaults to ".accordo" relative to
	// the working directory. Can be an absolute path to share a board
	// across checkouts. Supports ~ for home directory expansion.
	Dir string `mapstructure:"dir"`
	// LockTimeoutSeconds bounds how long an operation waits for the
	// board lock before giving up (default: 30)
	LockTimeoutSeconds int `mapstructure:"lock_timeout_seconds"`
}

// ClaimsConfig controls resource claim leases
type ClaimsConfig struct {
	// DefaultTTLMinutes is the lease length applied when a claim does
	// not name one (default: 15)
	DefaultTTLMinutes int `mapstructure:"default_ttl_minutes"`
	// PruneAfterHours is how long released, completed, and expired
	// chains are kept for audit before `accordo prune` removes them
	// (default: 24, 0 = prune everything terminal)
	PruneAfterHours int `mapstructure:"prune_after_hours"`
}

// AgentConfig identifies this process on the board
type AgentConfig struct {
	// ID is the agent identifier used for claims and messages.
	// If empty, commands fall back to the ACCORDO_AGENT_ID environment
	// variable or a generated identifier.
	ID string `mapstructure:"id"`
	// StaleAfterMinutes is how long since an agent's last heartbeat
	// before status output stops counting it as active (default: 10,
	// 0 = never stale)
	StaleAfterMinutes int `mapstructure:"stale_after_minutes"`
}

// WatchConfig controls the board watcher used by `accordo watch`
type WatchConfig struct {
	// DebounceMs coalesces bursts of file events into one refresh
	// (default: 100)
	DebounceMs int `mapstructure:"debounce_ms"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled controls whether debug logging is enabled (default: true)
	Enabled bool `mapstructure:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level"`
	// MaxSizeMB is the maximum log file size in megabytes before rotation (default: 5)
	MaxSizeMB int `mapstructure:"max_size_mb"`
	// MaxBackups is the number of backup log files to keep (default: 2)
	MaxBackups int `mapstructure:"max_backups"`
}

// ResolveDir returns the resolved coordination directory.
// If Dir is empty, it returns the default ".accordo" under baseDir.
// If Dir starts with ~, it expands to the user's home directory.
// If Dir is a relative path, it's resolved relative to baseDir.
func (b *BoardConfig) ResolveDir(baseDir string) string {
	if b.Dir == "" {
		return filepath.Join(baseDir, ".accordo")
	}

	path := b.Dir

	// Expand ~ to home directory
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	// If relative path, resolve relative to baseDir
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}

	return path
}

// LockTimeout returns the board lock timeout as a time.Duration
func (b *BoardConfig) LockTimeout() time.Duration {
	return time.Duration(b.LockTimeoutSeconds) * time.Second
}

// DefaultTTL returns the default claim lease as a time.Duration
func (c *ClaimsConfig) DefaultTTL() time.Duration {
	return time.Duration(c.DefaultTTLMinutes) * time.Minute
}

// PruneAfter returns the terminal chain retention as a time.Duration
func (c *ClaimsConfig) PruneAfter() time.Duration {
	return time.Duration(c.PruneAfterHours) * time.Hour
}

// StaleAfter returns the agent staleness window as a time.Duration
// (0 means agents never go stale)
func (a *AgentConfig) StaleAfter() time.Duration {
	return time.Duration(a.StaleAfterMinutes) * time.Minute
}

// Debounce returns the watch debounce window as a time.Duration
func (w *WatchConfig) Debounce() time.Duration {
	return time.Duration(w.DebounceMs) * time.Millisecond
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Board: BoardConfig{
			Dir:                "", // Empty means use default: .accordo
			LockTimeoutSeconds: 30,
		},
		Claims: ClaimsConfig{
			DefaultTTLMinutes: 15,
			PruneAfterHours:   24,
		},
		Agent: AgentConfig{
			ID:                "",
			StaleAfterMinutes: 10,
		},
		Watch: WatchConfig{
			DebounceMs: 100,
		},
		Logging: LoggingConfig{
			Enabled:    true,
			Level:      "info",
			MaxSizeMB:  5,
			MaxBackups: 2,
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Board defaults
	viper.SetDefault("board.dir", defaults.Board.Dir)
	viper.SetDefault("board.lock_timeout_seconds", defaults.Board.LockTimeoutSeconds)

	// Claims defaults
	viper.SetDefault("claims.default_ttl_minutes", defaults.Claims.DefaultTTLMinutes)
	viper.SetDefault("claims.prune_after_hours", defaults.Claims.PruneAfterHours)

	// Agent defaults
	viper.SetDefault("agent.id", defaults.Agent.ID)
	viper.SetDefault("agent.stale_after_minutes", defaults.Agent.StaleAfterMinutes)

	// Watch defaults
	viper.SetDefault("watch.debounce_ms", defaults.Watch.DebounceMs)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Validate the configuration
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "accordo")
	}
	// Fall back to ~/.config/accordo
	home, err := os.UserHomeDir()
	if err != nil {
		return ".accordo"
	}
	return filepath.Join(home, ".config", "accordo")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
