package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"menu-signage/logging"
	"menu-signage/models"
)

// SettingsStore reads and writes signage settings
type SettingsStore interface {
	All(ctx context.Context) (map[string]any, error)
	Update(ctx context.Context, values map[string]any) (models.DisplaySettings, error)
}

// SettingsController handles the settings endpoints
type SettingsController struct {
	store       SettingsStore
	invalidator Invalidator
}

// NewSettingsController creates a new SettingsController. inv may be nil.
func NewSettingsController(store SettingsStore, inv Invalidator) *SettingsController {
	if inv == nil {
		inv = noopInvalidator{}
	}
	return &SettingsController{store: store, invalidator: inv}
}

// Get handles GET /api/settings
func (c *SettingsController) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := c.store.All(r.Context())
	if err != nil {
		logging.Log.Errorf("❌ GetSettings: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error":    "Failed to fetch settings",
			"settings": map[string]any{},
		})
		return
	}
	writeJSON(w, http.StatusOK, models.SettingsResponse{
		Settings:    settings,
		LastUpdated: time.Now().UTC().Format(time.RFC3339),
	})
}

// Update handles PUT /api/settings. The body is either {"settings": {...}}
// or the key/value map itself.
func (c *SettingsController) Update(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	values := body
	if nested, ok := body["settings"].(map[string]any); ok {
		values = nested
	}
	if len(values) == 0 {
		writeJSONError(w, http.StatusBadRequest, "No settings provided")
		return
	}

	display, err := c.store.Update(r.Context(), values)
	if err != nil {
		logging.Log.Errorf("❌ UpdateSettings: %v", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to update settings")
		return
	}

	logging.Log.Infof("✅ UpdateSettings: %d keys (%s)", len(values), display)
	c.invalidator.Invalidate()
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Settings updated successfully",
		"display": display,
	})
}
