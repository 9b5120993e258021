package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/s22625/tkoview/internal/config"
	"github.com/s22625/tkoview/internal/rpc"
	"github.com/spf13/cobra"
)

// Exit codes
const (
	ExitOK            = 0
	ExitInvalidID     = 2
	ExitTestNotFound  = 6
	ExitTransport     = 7
	ExitInternalError = 10
)

// GlobalOptions holds options shared across all commands
type GlobalOptions struct {
	Server   string
	Timeout  time.Duration
	LogLevel string
	DebugLog string
}

var globalOpts = &GlobalOptions{}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "tkoview",
	Short: "Terminal viewer for Autotest TKO test results",
	Long: `tkoview renders the detail page of a single TKO test run: job
metadata, test attributes and the job's log files, fetched lazily
from a results server.

The view command opens an interactive viewer, show and logs print
the same data for scripts, and stub serves a local results directory
so everything can be tried without a production frontend.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&globalOpts.Server, "server", "", "Results server base URL (or set TKOVIEW_SERVER)")
	rootCmd.PersistentFlags().DurationVar(&globalOpts.Timeout, "timeout", 0, "Request timeout (e.g. 10s)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.LogLevel, "log-level", "", "Log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.DebugLog, "debug-log", "", "Append debug logs to this file")

	// Add subcommands
	rootCmd.AddCommand(newViewCmd())
	rootCmd.AddCommand(newShowCmd())
	rootCmd.AddCommand(newLogsCmd())
	rootCmd.AddCommand(newStubCmd())
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitInternalError)
	}
}

// loadConfig returns the effective configuration
// Precedence: command-line flags > repo-local .tkoview/config.yaml > environment > ~/.config/tkoview/config.yaml
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if globalOpts.Server != "" {
		cfg.Server = globalOpts.Server
	}
	if globalOpts.Timeout > 0 {
		cfg.Timeout = globalOpts.Timeout
	}
	if globalOpts.LogLevel != "" {
		cfg.LogLevel = globalOpts.LogLevel
	}
	if globalOpts.DebugLog != "" {
		cfg.DebugLog = config.ExpandPath(globalOpts.DebugLog, "")
	}

	return cfg, nil
}

// newLogger builds a console logger for non-interactive commands.
func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	return log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339Nano})
}

// newFileLogger builds a logger for the interactive viewer, which owns the
// terminal and cannot share stderr. Without a debug_log path it discards
// everything.
func newFileLogger(cfg *config.Config) (zerolog.Logger, func(), error) {
	if cfg.DebugLog == "" {
		return zerolog.Nop(), func() {}, nil
	}

	f, err := os.OpenFile(cfg.DebugLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("open debug log: %w", err)
	}

	level, lvlErr := zerolog.ParseLevel(cfg.LogLevel)
	if lvlErr != nil {
		level = zerolog.InfoLevel
	}

	logger := zerolog.New(f).Level(level).With().Timestamp().Logger()
	return logger, func() { f.Close() }, nil
}

// fetchExitCode maps a detail fetch failure onto the command exit code.
func fetchExitCode(err error) int {
	if errors.Is(err, rpc.ErrTestNotFound) {
		return ExitTestNotFound
	}
	return ExitTransport
}

// fetchErrorText returns the message printed for a failed detail fetch.
func fetchErrorText(err error) string {
	if errors.Is(err, rpc.ErrTestNotFound) {
		return "No such job found"
	}
	return err.Error()
}
