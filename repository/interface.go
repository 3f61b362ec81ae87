package repository

import (
	"context"

	"menu-signage/models"
)

// CategoryRepositoryInterface defines the contract for category persistence
type CategoryRepositoryInterface interface {
	List(ctx context.Context) ([]models.CategoryRecord, error)
	Create(ctx context.Context, in models.CategoryInput) (*models.CategoryRecord, error)
	Update(ctx context.Context, id int, in models.CategoryInput) (*models.CategoryRecord, error)
	Delete(ctx context.Context, id int) (*models.CategoryRecord, error)
}

// ProductRepositoryInterface defines the contract for product persistence
type ProductRepositoryInterface interface {
	List(ctx context.Context, filter models.ProductFilter) ([]models.ProductRecord, error)
	Create(ctx context.Context, in models.ProductInput) (*models.ProductRecord, error)
	Update(ctx context.Context, id int, in models.ProductInput) (*models.ProductRecord, error)
	Delete(ctx context.Context, id int) (*models.ProductRecord, error)
}

// SettingsRepositoryInterface defines the contract for signage settings
type SettingsRepositoryInterface interface {
	GetAll(ctx context.Context) (map[string]any, error)
	Upsert(ctx context.Context, values map[string]any) error
}

// CatalogRepositoryInterface defines the contract for reading the display catalog
type CatalogRepositoryInterface interface {
	GetDisplayCatalog(ctx context.Context) (*models.Catalog, error)
}

// SnapshotStoreInterface defines the contract for the last-known catalog store
type SnapshotStoreInterface interface {
	Save(ctx context.Context, catalog *models.Catalog) error
	Latest(ctx context.Context) (*models.Catalog, error)
}
