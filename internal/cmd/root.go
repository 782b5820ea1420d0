package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/accordo/internal/board"
	"github.com/Iron-Ham/accordo/internal/claims"
	"github.com/Iron-Ham/accordo/internal/config"
	"github.com/Iron-Ham/accordo/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "accordo",
	Short: "Shared coordination board for parallel coding agents",
	Long: `Accordo coordinates multiple agents working in one repository
through a shared board: resource claims with leases, findings,
messages, tasks, and questions, all persisted in a single JSON
document guarded by a cross-process file lock.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersionInfo wires build metadata from the release pipeline into
// the --version output.
func SetVersionInfo(version, commit, date string) {
	rootCmd.Version = fmt.Sprintf("%s (commit %s, built %s)", version, commit, date)
}

var lockTimeoutFlag time.Duration

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/accordo/config.yaml)")
	rootCmd.PersistentFlags().StringP("dir", "d", "", "coordination directory (default is .accordo)")
	rootCmd.PersistentFlags().StringP("agent", "a", "", "agent identifier for claims and messages")
	rootCmd.PersistentFlags().DurationVar(&lockTimeoutFlag, "lock-timeout", 0, "board lock wait (overrides config)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("board.dir", rootCmd.PersistentFlags().Lookup("dir"))
	_ = viper.BindPFlag("agent.id", rootCmd.PersistentFlags().Lookup("agent"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath("$HOME/.config/accordo")
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("ACCORDO")
	// Replace dots with underscores for nested keys in env vars
	// e.g., ACCORDO_BOARD_DIR for board.dir
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}

// exitCodeBlocked is the process exit code when a claim is refused
// because another agent holds one of the requested resources. Scripts
// distinguish it from ordinary failures (exit 1).
const exitCodeBlocked = 2

// loadConfig returns the merged configuration (flags, env, file,
// defaults).
func loadConfig() *config.Config {
	return config.Get()
}

// resolveDir returns the coordination directory for this invocation.
func resolveDir(cfg *config.Config) (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}
	return cfg.Board.ResolveDir(cwd), nil
}

// newLogger builds the command logger under the coordination
// directory. Logging problems never block a command; callers get a
// no-op logger instead.
func newLogger(cfg *config.Config, dir string) *logging.Logger {
	if !cfg.Logging.Enabled {
		return logging.NopLogger()
	}
	logger, err := logging.NewLogger(dir, cfg.Logging.Level, logging.RotationConfig{
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	})
	if err != nil {
		return logging.NopLogger()
	}
	return logger
}

// lockTimeout returns the effective board lock timeout.
func lockTimeout(cfg *config.Config) time.Duration {
	if lockTimeoutFlag > 0 {
		return lockTimeoutFlag
	}
	return cfg.Board.LockTimeout()
}

// openStore returns a store over the coordination directory without
// requiring it to exist. Used by init.
func openStore(cfg *config.Config) (*board.Store, string, error) {
	dir, err := resolveDir(cfg)
	if err != nil {
		return nil, "", err
	}
	store := board.NewStore(dir,
		board.WithLockTimeout(lockTimeout(cfg)),
		board.WithLogger(newLogger(cfg, dir)))
	return store, dir, nil
}

// requireStore returns a store over an initialized coordination
// directory, with a pointer at `accordo init` when there is none. The
// existence check runs before the logger is built because opening the
// log file would create the directory.
func requireStore(cfg *config.Config) (*board.Store, error) {
	dir, err := resolveDir(cfg)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, fmt.Errorf("no board at %s (run 'accordo init' first)", dir)
	}
	store := board.NewStore(dir,
		board.WithLockTimeout(lockTimeout(cfg)),
		board.WithLogger(newLogger(cfg, dir)))
	return store, nil
}

// newManager builds the claim manager over store with configured
// lease defaults.
func newManager(store *board.Store, cfg *config.Config) *claims.Manager {
	return claims.NewManager(store,
		claims.WithDefaultTTL(cfg.Claims.DefaultTTL()),
		claims.WithLogger(newLogger(cfg, store.Dir())))
}

// currentAgent resolves the agent identity: --agent flag or config or
// ACCORDO_AGENT_ID, falling back to user@host so ad-hoc shell use
// stays stable across invocations.
func currentAgent(cfg *config.Config) (string, error) {
	if cfg.Agent.ID != "" {
		if !config.IsValidAgentID(cfg.Agent.ID) {
			return "", fmt.Errorf("invalid agent id %q", cfg.Agent.ID)
		}
		return cfg.Agent.ID, nil
	}

	user := os.Getenv("USER")
	if user == "" {
		user = "agent"
	}
	host, err := os.Hostname()
	if err != nil || host == "" {
		return user, nil
	}
	return user + "@" + host, nil
}

// ANSI color codes for terminal output
const (
	colorReset  = "\033[0m"
	colorGray   = "\033[90m"
	colorGreen  = "\033[32m"
	colorBlue   = "\033[34m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorCyan   = "\033[36m"
)

// useColor reports whether output should carry ANSI colors. Agents
// piping accordo output get plain text.
func useColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// colorize wraps s in color when stdout is a terminal.
func colorize(color, s string) string {
	if !useColor() {
		return s
	}
	return color + s + colorReset
}

// statusColor returns the display color for a chain status.
func statusColor(status board.ChainStatus) string {
	switch status {
	case board.ChainActive:
		return colorGreen
	case board.ChainExpired:
		return colorRed
	case board.ChainReleased, board.ChainCompleted:
		return colorGray
	default:
		return colorReset
	}
}

// formatRemaining renders the lease time left on a chain.
func formatRemaining(c *board.ClaimChain, now time.Time) string {
	if c.Status != board.ChainActive {
		return "-"
	}
	d := c.Remaining(now)
	if d <= 0 {
		return "lapsed"
	}
	return d.Round(time.Second).String()
}
