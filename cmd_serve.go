package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"menu-signage/app"
	"menu-signage/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the signage server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := app.Initialize(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Run(ctx); err != nil {
			logging.Log.Errorf("❌ Server stopped: %v", err)
			return err
		}
		logging.Log.Infof("✅ Server stopped")
		return nil
	},
}
