package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"menu-signage/config"
	"menu-signage/logging"
)

var (
	cfg   *config.Config
	debug bool
)

var rootCmd = &cobra.Command{
	Use:   "menu-signage",
	Short: "Menu board signage server",
	Long: `Serves the rotating menu board shown on the kiosk screens, the admin
API that edits its catalog and settings, and the assets it displays.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// In production, variables are set directly
		if os.Getenv("ENV") != "production" {
			if err := godotenv.Overload(".env"); err != nil {
				fmt.Fprintln(os.Stderr, "Warning: .env file not found, using system environment variables")
			}
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if debug {
			cfg.Debug = true
		}
		return logging.Init(cfg.Debug)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(previewCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
