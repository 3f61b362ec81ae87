package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"menu-signage/logging"
	"menu-signage/models"
	"menu-signage/repository"
)

// ProductController handles the admin product endpoints
type ProductController struct {
	repository  repository.ProductRepositoryInterface
	invalidator Invalidator
}

// NewProductController creates a new ProductController. inv may be nil.
func NewProductController(repo repository.ProductRepositoryInterface, inv Invalidator) *ProductController {
	if inv == nil {
		inv = noopInvalidator{}
	}
	return &ProductController{repository: repo, invalidator: inv}
}

// List handles GET /api/admin/products?category_id=&active=true
func (c *ProductController) List(w http.ResponseWriter, r *http.Request) {
	var filter models.ProductFilter
	q := r.URL.Query()
	if raw := q.Get("category_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "Invalid category_id")
			return
		}
		filter.CategoryID = &id
	}
	if q.Get("active") == "true" {
		active := true
		filter.Active = &active
	}

	products, err := c.repository.List(r.Context(), filter)
	if err != nil {
		logging.Log.Errorf("❌ ListProducts: %v", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"products": products,
		"count":    len(products),
	})
}

// Create handles POST /api/admin/products
func (c *ProductController) Create(w http.ResponseWriter, r *http.Request) {
	var in models.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" || in.CategoryID <= 0 || in.Price == nil {
		writeJSONError(w, http.StatusBadRequest, "Name, category_id, and price are required")
		return
	}
	if in.Price.IsNegative() {
		writeJSONError(w, http.StatusBadRequest, "Price cannot be negative")
		return
	}

	product, err := c.repository.Create(r.Context(), in)
	if errors.Is(err, repository.ErrCategoryMissing) {
		writeJSONError(w, http.StatusBadRequest, "Category does not exist")
		return
	}
	if err != nil {
		logging.Log.Errorf("❌ CreateProduct: %v", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to create product")
		return
	}

	logging.Log.Infof("✅ CreateProduct: id=%d name=%s price=%s", product.ID, product.Name, product.Price.StringFixed(2))
	c.invalidator.Invalidate()
	writeJSON(w, http.StatusCreated, map[string]any{
		"product": product,
		"message": "Product created successfully",
	})
}

// Update handles PUT /api/admin/products?id=
func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "Product ID is required")
		return
	}
	var in models.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Price != nil && in.Price.IsNegative() {
		writeJSONError(w, http.StatusBadRequest, "Price cannot be negative")
		return
	}

	product, err := c.repository.Update(r.Context(), id, in)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, "Product not found")
		return
	case errors.Is(err, repository.ErrCategoryMissing):
		writeJSONError(w, http.StatusBadRequest, "Category does not exist")
		return
	case err != nil:
		logging.Log.Errorf("❌ UpdateProduct: id=%d: %v", id, err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to update product")
		return
	}

	logging.Log.Infof("✅ UpdateProduct: id=%d", id)
	c.invalidator.Invalidate()
	writeJSON(w, http.StatusOK, map[string]any{
		"product": product,
		"message": "Product updated successfully",
	})
}

// Delete handles DELETE /api/admin/products?id=
func (c *ProductController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "Product ID is required")
		return
	}

	product, err := c.repository.Delete(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		writeJSONError(w, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		logging.Log.Errorf("❌ DeleteProduct: id=%d: %v", id, err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to delete product")
		return
	}

	logging.Log.Infof("✅ DeleteProduct: id=%d", id)
	c.invalidator.Invalidate()
	writeJSON(w, http.StatusOK, map[string]any{
		"message":        "Product deleted successfully",
		"deletedProduct": product,
	})
}
