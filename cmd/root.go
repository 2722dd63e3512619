package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"musashi/config"
	"musashi/game"
)

var (
	configPath string
	logLevel   string
	cfg        = config.Default()
)

var rootCmd = &cobra.Command{
	Use:   "musashi",
	Short: "Retrograde tablebase generator for 16 Musashi",
	Long: `Solve the pursuit game "16 Musashi" by backward induction.

A single hunted piece (X) moves against many blockers (o). The blockers win
by immobilizing it; the hunted piece captures pairs of blockers by stepping
between them. The tables hold, for every position, how many plies the
blockers need to win, or 0 when the hunted piece escapes forever.

Examples:
  musashi solve -n 25 --goroutines 16
  musashi merge -n 25
  printf 'ooooo\no...o\no.X.o\no...o\nooooo\nX\n' | musashi show -n 25`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "YAML run configuration")
	flags.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flags.IntVarP(&cfg.Size, "size", "n", cfg.Size, fmt.Sprintf("Board size %v", game.Sizes))
	flags.IntVarP(&cfg.Variant, "variant", "t", cfg.Variant, "Capture variant: 0 anywhere, 1 any corner, 2 corner (0,0), 3 cell (1,0), 4 cell (2,0)")
	flags.StringVarP(&cfg.Dir, "dir", "d", cfg.Dir, "Directory of snapshots and tables")
	flags.BoolVar(&cfg.Compress, "compress", cfg.Compress, "Store snapshots as zstd streams")
}

// Execute runs the command tree and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command, _ []string) error {
	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", logLevel, err)
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})

	if configPath == "" {
		return cfg.Validate()
	}
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	// Flags given on the command line win over the file.
	overrides := cfg
	cfg = loaded
	cmd.Flags().Visit(func(f *pflag.Flag) {
		applyOverride(f.Name, overrides)
	})
	return cfg.Validate()
}

func applyOverride(name string, from config.Config) {
	switch name {
	case "size":
		cfg.Size = from.Size
	case "variant":
		cfg.Variant = from.Variant
	case "dir":
		cfg.Dir = from.Dir
	case "compress":
		cfg.Compress = from.Compress
	case "goroutines":
		cfg.Goroutines = from.Goroutines
	case "block-size":
		cfg.BlockSize = from.BlockSize
	case "max-ply":
		cfg.MaxPly = from.MaxPly
	case "max-blockers":
		cfg.MaxBlockers = from.MaxBlockers
	case "resume":
		cfg.Resume = from.Resume
	case "metrics-dir":
		cfg.MetricsDir = from.MetricsDir
	}
}

// loadBoard resolves the configured board and capture rule.
func loadBoard() (*game.Topology, *game.StandardRules, error) {
	topo, err := cfg.Topology()
	if err != nil {
		return nil, nil, err
	}
	rules, err := cfg.Rules(topo)
	if err != nil {
		return nil, nil, err
	}
	return topo, rules, nil
}
