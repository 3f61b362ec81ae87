package controller

import (
	"context"
	"net/http"
	"strconv"

	"menu-signage/logging"
	"menu-signage/service"
)

// Migrator applies the database schema and reports the steps it ran
type Migrator func(ctx context.Context) ([]string, error)

// ViewportSource reports the kiosk viewport
type ViewportSource interface {
	Viewport() (int, int)
}

// AssetController handles logos, rendered snapshots and admin maintenance
type AssetController struct {
	logos     service.LogoServiceInterface
	snapshots service.SnapshotServiceInterface
	sync      service.AssetSyncServiceInterface
	migrate   Migrator
	viewport  ViewportSource
	folderID  string
	onSync    Invalidator
}

// AssetControllerConfig groups the dependencies of AssetController. Any
// service left nil makes its endpoint answer 503.
type AssetControllerConfig struct {
	Logos         service.LogoServiceInterface
	Snapshots     service.SnapshotServiceInterface
	Sync          service.AssetSyncServiceInterface
	Migrate       Migrator
	Viewport      ViewportSource
	DriveFolderID string
	OnSync        Invalidator
}

// NewAssetController creates a new AssetController
func NewAssetController(cfg AssetControllerConfig) *AssetController {
	onSync := cfg.OnSync
	if onSync == nil {
		onSync = noopInvalidator{}
	}
	return &AssetController{
		logos:     cfg.Logos,
		snapshots: cfg.Snapshots,
		sync:      cfg.Sync,
		migrate:   cfg.Migrate,
		viewport:  cfg.Viewport,
		folderID:  cfg.DriveFolderID,
		onSync:    onSync,
	}
}

// Logo handles GET /logo?mode=&background=&height=
func (c *AssetController) Logo(w http.ResponseWriter, r *http.Request) {
	if c.logos == nil {
		http.Error(w, "Logo not configured", http.StatusServiceUnavailable)
		return
	}
	q := r.URL.Query()
	height, _ := strconv.Atoi(q.Get("height"))

	data, err := c.logos.Variant(service.LogoVariant{
		Mode:       q.Get("mode"),
		Background: q.Get("background"),
		Height:     height,
	})
	if err != nil {
		logging.Log.Warnf("⚠️ Logo: %v", err)
		http.Error(w, "Logo not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}

// Snapshot handles GET /api/admin/display/snapshot?width=&height=. Without
// a size the last kiosk viewport is used.
func (c *AssetController) Snapshot(w http.ResponseWriter, r *http.Request) {
	if c.snapshots == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "Snapshots not available")
		return
	}
	width, _ := strconv.Atoi(r.URL.Query().Get("width"))
	height, _ := strconv.Atoi(r.URL.Query().Get("height"))
	if (width <= 0 || height <= 0) && c.viewport != nil {
		width, height = c.viewport.Viewport()
	}
	if width <= 0 || height <= 0 {
		width, height = 1920, 1080
	}

	png, err := c.snapshots.CaptureDisplay(r.Context(), width, height)
	if err != nil {
		logging.Log.Errorf("❌ Snapshot: %v", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to capture display")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", `inline; filename="display.png"`)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Write(png)
}

// MenuPDF handles GET /api/admin/menu.pdf
func (c *AssetController) MenuPDF(w http.ResponseWriter, r *http.Request) {
	if c.snapshots == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "PDF generation not available")
		return
	}
	pdf, err := c.snapshots.GenerateMenuPDF(r.Context())
	if err != nil {
		logging.Log.Errorf("❌ MenuPDF: %v", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to generate PDF")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="menu.pdf"`)
	w.Write(pdf)
}

// SyncAssets handles POST /api/admin/assets/sync?folder_id=
func (c *AssetController) SyncAssets(w http.ResponseWriter, r *http.Request) {
	if c.sync == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "Google Drive not configured")
		return
	}
	folderID := r.URL.Query().Get("folder_id")
	if folderID == "" {
		folderID = c.folderID
	}
	if folderID == "" {
		writeJSONError(w, http.StatusBadRequest, "folder_id is required")
		return
	}

	result, err := c.sync.SyncLogos(r.Context(), folderID)
	if err != nil {
		logging.Log.Errorf("❌ SyncAssets: %v", err)
		writeJSONError(w, http.StatusBadGateway, "Failed to sync assets")
		return
	}
	if result.Downloaded > 0 {
		c.onSync.Invalidate()
	}
	writeJSON(w, http.StatusOK, result)
}

// Migrate handles POST /api/admin/migrate
func (c *AssetController) Migrate(w http.ResponseWriter, r *http.Request) {
	if c.migrate == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "Database not configured")
		return
	}
	steps, err := c.migrate(r.Context())
	if err != nil {
		logging.Log.Errorf("❌ Migrate: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error":   "Migration failed",
			"message": err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Database migration completed successfully",
		"steps":   steps,
	})
}
