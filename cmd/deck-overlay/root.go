package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/codyseavey/deck-overlay/internal/config"
	"github.com/codyseavey/deck-overlay/internal/logger"
)

var (
	flagConfig  string
	flagVerbose bool

	cfg *config.Config
	log *logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "deck-overlay",
	Short: "Card game deck tracker overlay",
	Long: `deck-overlay watches the game client and keeps the overlay in step with it.

It provides commands to:
  - Run the lifecycle monitor and the local overlay server
  - Import card data into the local card database
  - Look up a single card as the overlay would render it`,
	PersistentPreRunE: initializeGlobals,
	PersistentPostRun: func(*cobra.Command, []string) {
		if log != nil {
			log.Sync()
		}
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "path to config file (env: OVERLAY_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newCardCmd())
}

// initializeGlobals loads configuration and builds the logger.
func initializeGlobals(_ *cobra.Command, _ []string) error {
	configFile := flagConfig
	if configFile == "" {
		configFile = os.Getenv("OVERLAY_CONFIG")
	}

	loaded, err := config.NewLoader().Load(configFile)
	if err != nil {
		return err
	}
	if flagVerbose {
		loaded.Logging.Debug = true
	}

	l, err := logger.New(loaded.Logging.Mode, loaded.Logging.Debug)
	if err != nil {
		return err
	}

	cfg, log = loaded, l
	log.Debug("configuration loaded", "file", configFile, "language", cfg.Display.Language)
	return nil
}
