package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pable/go-cs-gamestate/internal/config"
)

var (
	configPath string
	debug      bool

	// cfg is loaded before any subcommand runs.
	cfg config.Analysis
)

var rootCmd = &cobra.Command{
	Use:   "csgamestate",
	Short: "CS2 game-state frame analysis",
	Long: `Load per-tick player frames from a CS2 match (CSV, JSON lines, SQLite or the .dem itself)
and answer positional questions: chokepoint usage, time for an armed group to
reach a bombsite, and where defenders hold inside it.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogging()
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		log.Debug().Str("config", configPath).Msg("configuration loaded")
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML analysis config")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(crossingCmd)
	rootCmd.AddCommand(entryCmd)
	rootCmd.AddCommand(roundsCmd)
	rootCmd.AddCommand(heatmapCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(sqlCmd)
}

func setupLogging() {
	consoleWriter := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log.Logger = log.Output(consoleWriter)

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Debug().Msg("debug logging enabled")
	}
}
