// Package cmd implements the anvil command line tool.
//
// The tool replays YAML layout descriptions through the reconciliation
// engine against the in-memory memtree host and prints the resulting tree.
// Configuration comes from anvil.yaml in the project root, overridden by
// command line flags.
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/go-anvil/anvil/cmd/anvil/internal/config"
	"github.com/go-anvil/anvil/pkg/errors"
)

var (
	flagLogLevel string
	flagColor    string
	flagDebug    bool
)

var rootCmd = &cobra.Command{
	Use:   "anvil",
	Short: "Render declarative layouts through the anvil engine",
	Long: `anvil replays a YAML layout description through the anvil
reconciliation engine and prints the resulting node tree.

Engine-owned nodes are marked with '*'. Foreign nodes and skipped runs are
left untouched by every pass.

Examples:
  anvil render layout.yaml          Render once and print the tree
  anvil watch layout.yaml           Re-render whenever the file changes
  anvil version                     Show version information`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level (debug, info, warn, error), overrides anvil.yaml")
	rootCmd.PersistentFlags().StringVar(&flagColor, "color", "", "colorize output (auto, always, never)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "log engine events and include stack traces")
}

// session holds the resolved configuration of one command invocation.
type session struct {
	cfg    *config.Resolved
	logger *slog.Logger
	color  bool
}

func loadSession(cmd *cobra.Command) (*session, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Resolve(config.FindProjectRoot(wd))
	if err != nil {
		return nil, err
	}

	if flagLogLevel != "" {
		level, err := config.ParseLevel(flagLogLevel)
		if err != nil {
			return nil, err
		}
		cfg.LogLevel = level
	}
	switch flagColor {
	case "":
	case "auto", "always", "never":
		cfg.Color = flagColor
	default:
		return nil, fmt.Errorf("--color must be auto, always or never, got %q", flagColor)
	}
	if flagDebug {
		cfg.Debug = true
		cfg.LogLevel = slog.LevelDebug
	}

	logger := config.NewLogger(cfg, cmd.ErrOrStderr())
	errors.SetHandler(&errors.LogHandler{Logger: logger, Verbose: cfg.Debug})
	return &session{
		cfg:    cfg,
		logger: logger,
		color:  useColor(cfg.Color, cmd.OutOrStdout()),
	}, nil
}

func useColor(mode string, w io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
