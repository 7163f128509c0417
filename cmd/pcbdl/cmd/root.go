package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/OpenTraceLab/pcbdl/pkg/decl"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
	format  string

	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
)

var rootCmd = &cobra.Command{
	Use:   "pcbdl",
	Short: "Schematic connectivity from pcbdl declarations",
	Long: `pcbdl builds parts, nets and bus bundles from a declaration file and
shows the resolved connectivity.

Declaration files use the pcbdl language (.pcbdl) or the equivalent YAML
form (.yaml, .yml).

Examples:
  pcbdl pins board.pcbdl                 # Resolved pins of every part
  pcbdl pins board.pcbdl U2              # Pins of one part
  pcbdl ports board.yaml                 # Ports and their signal pins
  pcbdl nets -v board.pcbdl              # Nets, with build trace on stderr`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "f", "",
		"declaration format: dsl or yaml (default: by file extension)")
}

// loadDesign reads and builds one declaration file.
func loadDesign(filename string) (*decl.Design, error) {
	f, err := decl.ParseFormat(format)
	if err != nil {
		return nil, err
	}

	logger.Debug("loading declarations", "file", filename, "format", f)
	file, err := decl.Load(filename, f)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", filename, err)
	}

	design, err := decl.Build(file, decl.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to build %s: %w", filename, err)
	}
	return design, nil
}
