package controller

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"menu-signage/models"
	"menu-signage/repository"
)

type fakeCategoryRepo struct {
	categories map[int]*models.CategoryRecord
	products   map[int]int
	nextID     int
	err        error
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{
		categories: map[int]*models.CategoryRecord{},
		products:   map[int]int{},
		nextID:     1,
	}
}

func (f *fakeCategoryRepo) List(ctx context.Context) ([]models.CategoryRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.CategoryRecord, 0, len(f.categories))
	for id := 1; id < f.nextID; id++ {
		if c, ok := f.categories[id]; ok {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeCategoryRepo) Create(ctx context.Context, in models.CategoryInput) (*models.CategoryRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	c := &models.CategoryRecord{ID: f.nextID, Name: in.Name, Active: true}
	if in.DisplayOrder != nil {
		c.DisplayOrder = *in.DisplayOrder
	}
	f.categories[c.ID] = c
	f.nextID++
	return c, nil
}

func (f *fakeCategoryRepo) Update(ctx context.Context, id int, in models.CategoryInput) (*models.CategoryRecord, error) {
	c, ok := f.categories[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if in.Name != "" {
		c.Name = in.Name
	}
	if in.Active != nil {
		c.Active = *in.Active
	}
	return c, nil
}

func (f *fakeCategoryRepo) Delete(ctx context.Context, id int) (*models.CategoryRecord, error) {
	c, ok := f.categories[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if f.products[id] > 0 {
		return nil, repository.ErrHasProducts
	}
	delete(f.categories, id)
	return c, nil
}

func TestCategoryCreateAndList(t *testing.T) {
	repo := newFakeCategoryRepo()
	inv := &countingInvalidator{}
	c := NewCategoryController(repo, inv)

	rec := serve(c.Create, http.MethodPost, "/api/admin/categories", `{"name":"  Drinks ","display_order":2}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Category created successfully", body["message"])
	assert.Equal(t, "Drinks", body["category"].(map[string]any)["name"])
	assert.Equal(t, 1, inv.count())

	rec = serve(c.List, http.MethodGet, "/api/admin/categories", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decode(t, rec)["count"])
}

func TestCategoryCreateValidation(t *testing.T) {
	inv := &countingInvalidator{}
	c := NewCategoryController(newFakeCategoryRepo(), inv)

	rec := serve(c.Create, http.MethodPost, "/api/admin/categories", `{"name":"   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Name is required", decode(t, rec)["error"])

	rec = serve(c.Create, http.MethodPost, "/api/admin/categories", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, inv.count())
}

func TestCategoryUpdate(t *testing.T) {
	repo := newFakeCategoryRepo()
	c := NewCategoryController(repo, nil)
	_, err := repo.Create(context.Background(), models.CategoryInput{Name: "Drinks"})
	require.NoError(t, err)

	rec := serve(c.Update, http.MethodPut, "/api/admin/categories", `{"name":"Cold drinks"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Category ID is required", decode(t, rec)["error"])

	rec = serve(c.Update, http.MethodPut, "/api/admin/categories?id=9", `{"name":"Cold drinks"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(c.Update, http.MethodPut, "/api/admin/categories?id=1", `{"name":"Cold drinks"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Cold drinks", repo.categories[1].Name)
}

func TestCategoryDelete(t *testing.T) {
	repo := newFakeCategoryRepo()
	inv := &countingInvalidator{}
	c := NewCategoryController(repo, inv)
	for _, name := range []string{"Drinks", "Snacks"} {
		_, err := repo.Create(context.Background(), models.CategoryInput{Name: name})
		require.NoError(t, err)
	}
	repo.products[1] = 3

	rec := serve(c.Delete, http.MethodDelete, "/api/admin/categories?id=1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Cannot delete category with products. Delete products first.", decode(t, rec)["error"])

	rec = serve(c.Delete, http.MethodDelete, "/api/admin/categories?id=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(c.Delete, http.MethodDelete, "/api/admin/categories?id=7", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(c.Delete, http.MethodDelete, "/api/admin/categories?id=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Snacks", decode(t, rec)["deletedCategory"].(map[string]any)["name"])
	assert.Equal(t, 1, inv.count())
}

func TestCategoryListError(t *testing.T) {
	repo := newFakeCategoryRepo()
	repo.err = errors.New("connection reset")
	rec := serve(NewCategoryController(repo, nil).List, http.MethodGet, "/api/admin/categories", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to fetch categories", decode(t, rec)["error"])
}
