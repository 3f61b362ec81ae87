package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"menu-signage/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the catalog and settings tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		dsn, err := cfg.Database.DSN()
		if err != nil {
			return err
		}
		if err := db.InitDB(cmd.Context(), dsn); err != nil {
			return err
		}
		defer db.CloseDB()

		steps, err := db.Migrate(cmd.Context())
		for _, step := range steps {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s\n", step)
		}
		return err
	},
}
