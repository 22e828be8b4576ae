// Package main provides the mevis CLI entry point.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/robert-haas/mevis/internal/config"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	// humanOutput controls whether to use human-readable output
	humanOutput bool
	verbose     bool
	configPath  string
)

// cfg holds the loaded configuration; set before any command runs.
var cfg = &config.Config{}

func main() {
	if err := rootCmd.Execute(); err != nil {
		// SilenceErrors is set, so cobra errors such as missing flags are printed here
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mevis",
	Short: "Visualize and filter Atomese atom spaces",
	Long: `mevis loads an atom space, filters it down to the atoms of interest,
converts the result to a property graph and renders it.

Input can be Atomese (.scm), JSONL (.jsonl) or a SQLite index (.db).
Output can be an interactive HTML page (Cytoscape.js or vis-network)
or a static graph file (.gml, .gml.gz, .dot, .json).

All commands output JSON by default; use --human for readable output.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log pipeline steps to stderr")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: $XDG_CONFIG_HOME/mevis/config.yml)")
	rootCmd.Version = Version
}

// setup loads .env and the config file and installs the logger.
func setup(cmd *cobra.Command, args []string) error {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := config.LoadEnv(); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	var err error
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.LoadGlobalConfig()
	}
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	slog.Debug("config loaded", "path", configPathOrDefault(), "backend", cfg.Backend, "layout", cfg.Layout)
	return nil
}

func configPathOrDefault() string {
	if configPath != "" {
		return configPath
	}
	return config.GlobalConfigPath()
}
