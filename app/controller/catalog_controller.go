package controller

import (
	"net/http"

	"menu-signage/display"
	"menu-signage/logging"
)

// CatalogController serves the public catalog the kiosk and CMS read
type CatalogController struct {
	source display.CatalogSource
}

// NewCatalogController creates a new CatalogController
func NewCatalogController(source display.CatalogSource) *CatalogController {
	return &CatalogController{source: source}
}

// GetProducts handles GET /api/products
func (c *CatalogController) GetProducts(w http.ResponseWriter, r *http.Request) {
	catalog, err := c.source.Fetch(r.Context())
	if err != nil {
		logging.Log.Errorf("❌ GetProducts: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error":   "Failed to fetch products",
			"message": err.Error(),
		})
		return
	}
	w.Header().Set("Cache-Control", "no-cache")
	writeJSON(w, http.StatusOK, catalog)
}
