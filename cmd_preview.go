package main

import (
	"net/http"

	"github.com/spf13/cobra"

	"menu-signage/display"
	"menu-signage/models"
	"menu-signage/preview"
	"menu-signage/service"
)

var previewCatalog string

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Show the menu rotation in the terminal",
	Long: `Runs the rotation engine against the configured catalog and draws the
slots in the terminal, measuring in text lines instead of a browser.

Example:
  menu-signage preview --catalog assets/products.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fallback := &service.FileCatalogSource{Path: cfg.Catalog.FallbackPath}
		var primary display.CatalogSource = fallback
		switch {
		case previewCatalog != "":
			primary = &service.FileCatalogSource{Path: previewCatalog}
		case cfg.Catalog.APIURL != "":
			primary = &service.HTTPCatalogSource{URL: cfg.Catalog.APIURL, Client: &http.Client{}}
		}
		provider := service.NewCatalogProvider(primary, fallback, nil, cfg.Catalog.InitialTimeout, cfg.Catalog.RetryDelay)

		settings := models.DefaultDisplaySettings()
		settings.Columns = cfg.Display.Columns

		session := display.NewSession(preview.NewTerminalProbe(cfg.Display.SlotLines), display.WithColumns(settings.Columns))
		session.Load(provider.Initial(cmd.Context()))

		return preview.Run(preview.New(session, cfg.Display.RotationInterval, settings))
	},
}

func init() {
	previewCmd.Flags().StringVar(&previewCatalog, "catalog", "", "Catalog JSON file to preview (default: configured source)")
}
