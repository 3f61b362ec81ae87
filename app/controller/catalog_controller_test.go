package controller

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"menu-signage/display"
	"menu-signage/models"
)

func TestGetProducts(t *testing.T) {
	source := display.CatalogSourceFunc(func(ctx context.Context) (*models.Catalog, error) {
		return &models.Catalog{
			Categories: []models.Category{{Title: "Drinks", Items: []models.Item{{Name: "Cola", Price: models.PriceOf(2.5)}}}},
			Source:     "neon-database",
		}, nil
	})
	rec := serve(NewCatalogController(source).GetProducts, http.MethodGet, "/api/products", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
	body := decode(t, rec)
	assert.Equal(t, "neon-database", body["source"])
	categories := body["categories"].([]any)
	require.Len(t, categories, 1)
	assert.Equal(t, "Drinks", categories[0].(map[string]any)["title"])
}

func TestGetProductsError(t *testing.T) {
	source := display.CatalogSourceFunc(func(ctx context.Context) (*models.Catalog, error) {
		return nil, errors.New("relation \"products\" does not exist")
	})
	rec := serve(NewCatalogController(source).GetProducts, http.MethodGet, "/api/products", "")

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Failed to fetch products", body["error"])
	assert.Contains(t, body["message"], "does not exist")
}
