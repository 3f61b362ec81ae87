package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"menu-signage/logging"
	"menu-signage/models"
	"menu-signage/repository"
)

// CategoryController handles the admin category endpoints
type CategoryController struct {
	repository  repository.CategoryRepositoryInterface
	invalidator Invalidator
}

// NewCategoryController creates a new CategoryController. inv may be nil.
func NewCategoryController(repo repository.CategoryRepositoryInterface, inv Invalidator) *CategoryController {
	if inv == nil {
		inv = noopInvalidator{}
	}
	return &CategoryController{repository: repo, invalidator: inv}
}

// List handles GET /api/admin/categories
func (c *CategoryController) List(w http.ResponseWriter, r *http.Request) {
	categories, err := c.repository.List(r.Context())
	if err != nil {
		logging.Log.Errorf("❌ ListCategories: %v", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to fetch categories")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"categories": categories,
		"count":      len(categories),
	})
}

// Create handles POST /api/admin/categories
func (c *CategoryController) Create(w http.ResponseWriter, r *http.Request) {
	var in models.CategoryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		writeJSONError(w, http.StatusBadRequest, "Name is required")
		return
	}

	category, err := c.repository.Create(r.Context(), in)
	if err != nil {
		logging.Log.Errorf("❌ CreateCategory: %v", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to create category")
		return
	}

	logging.Log.Infof("✅ CreateCategory: id=%d name=%s", category.ID, category.Name)
	c.invalidator.Invalidate()
	writeJSON(w, http.StatusCreated, map[string]any{
		"category": category,
		"message":  "Category created successfully",
	})
}

// Update handles PUT /api/admin/categories?id=
func (c *CategoryController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "Category ID is required")
		return
	}
	var in models.CategoryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	in.Name = strings.TrimSpace(in.Name)

	category, err := c.repository.Update(r.Context(), id, in)
	if errors.Is(err, repository.ErrNotFound) {
		writeJSONError(w, http.StatusNotFound, "Category not found")
		return
	}
	if err != nil {
		logging.Log.Errorf("❌ UpdateCategory: id=%d: %v", id, err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to update category")
		return
	}

	logging.Log.Infof("✅ UpdateCategory: id=%d", id)
	c.invalidator.Invalidate()
	writeJSON(w, http.StatusOK, map[string]any{
		"category": category,
		"message":  "Category updated successfully",
	})
}

// Delete handles DELETE /api/admin/categories?id=
func (c *CategoryController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "Category ID is required")
		return
	}

	category, err := c.repository.Delete(r.Context(), id)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, "Category not found")
		return
	case errors.Is(err, repository.ErrHasProducts):
		writeJSONError(w, http.StatusBadRequest, "Cannot delete category with products. Delete products first.")
		return
	case err != nil:
		logging.Log.Errorf("❌ DeleteCategory: id=%d: %v", id, err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to delete category")
		return
	}

	logging.Log.Infof("✅ DeleteCategory: id=%d", id)
	c.invalidator.Invalidate()
	writeJSON(w, http.StatusOK, map[string]any{
		"message":         "Category deleted successfully",
		"deletedCategory": category,
	})
}
