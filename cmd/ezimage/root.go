// Package main provides the CLI entrypoint for ezimage.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/audionyq/ezimage/internal/app"
	"github.com/audionyq/ezimage/internal/config"
)

// Build-time variables (set via ldflags)
var (
	version   = app.Version
	commit    = "unknown"
	buildTime = "unknown"
)

// Global configuration and state
var (
	globalOpts struct {
		verbose    bool
		configPath string
		logFile    string
	}
	logger  *slog.Logger
	logSink io.Closer

	// prefStore is the preference file shared by all commands
	prefStore *config.Store
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "ezimage",
	Short: "A very simple image chooser",
	Long: `ezimage is a very simple image chooser.

It remembers the interface style you pick and the directory of the last
image you selected in ~/.config/AudioNyq/EZImage.conf.

Running ezimage without a subcommand launches the interactive TUI.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogger(!cmd.HasParent() || cmd == tuiCmd); err != nil {
			return fmt.Errorf("failed to set up logging: %w", err)
		}

		prefStore = config.NewStore(globalOpts.configPath, logger)
		if prefStore.Path() == "" {
			return fmt.Errorf("failed to locate config file: home directory unknown")
		}
		logger.Debug("using config file", "path", prefStore.Path())
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logSink != nil {
			return logSink.Close()
		}
		return nil
	},
	// Default to TUI when no subcommand is provided
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd, args)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&globalOpts.configPath, "config", "",
		"Path to preference file (default: ~/.config/AudioNyq/EZImage.conf)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.logFile, "log-file", "",
		"Write logs to this file instead of stderr")
}

// setupLogger configures the global slog logger.
// Interactive sessions never log to the terminal since it belongs to the TUI.
func setupLogger(interactive bool) error {
	level := slog.LevelWarn
	if globalOpts.verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	// Log to stderr so stdout is clean for output
	var out io.Writer = os.Stderr
	switch {
	case globalOpts.logFile != "":
		f, err := os.OpenFile(globalOpts.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return err
		}
		out = f
		logSink = f
	case interactive:
		out = io.Discard
	}

	logger = slog.New(slog.NewTextHandler(out, opts))
	slog.SetDefault(logger)
	return nil
}
