package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"menu-signage/db"
	"menu-signage/logging"
	"menu-signage/models"
)

// SourceDatabase marks catalogs read from Postgres
const SourceDatabase = "neon-database"

// CatalogRepository builds the display catalog from categories and products
type CatalogRepository struct{}

// NewCatalogRepository creates a new CatalogRepository
func NewCatalogRepository() *CatalogRepository {
	return &CatalogRepository{}
}

// Ensure CatalogRepository implements CatalogRepositoryInterface
var _ CatalogRepositoryInterface = (*CatalogRepository)(nil)

// GetDisplayCatalog returns the active categories with their active products,
// both in display order. Categories without products are left out.
func (r *CatalogRepository) GetDisplayCatalog(ctx context.Context) (*models.Catalog, error) {
	query := `
		SELECT
			c.id,
			c.name,
			p.name,
			p.price,
			COALESCE(p.on_sale, false),
			COALESCE(p.is_new, false)
		FROM categories c
		LEFT JOIN products p ON c.id = p.category_id
		WHERE c.active = true AND (p.active = true OR p.active IS NULL)
		ORDER BY c.display_order, c.name, c.id, p.display_order, p.name
	`

	rows, err := db.DB.QueryContext(ctx, query)
	if err != nil {
		logging.Log.Errorf("❌ Error querying display catalog: %v", err)
		return nil, fmt.Errorf("failed to query catalog: %w", err)
	}
	defer rows.Close()

	catalog := &models.Catalog{
		Categories: []models.Category{},
		Source:     SourceDatabase,
	}
	lastID := -1
	for rows.Next() {
		var (
			categoryID   int
			categoryName string
			name         sql.NullString
			price        decimal.NullDecimal
			onSale       bool
			isNew        bool
		)
		if err := rows.Scan(&categoryID, &categoryName, &name, &price, &onSale, &isNew); err != nil {
			return nil, fmt.Errorf("failed to scan catalog row: %w", err)
		}
		if categoryID != lastID {
			catalog.Categories = append(catalog.Categories, models.Category{Title: categoryName, Items: []models.Item{}})
			lastID = categoryID
		}
		if !name.Valid {
			continue
		}
		cur := &catalog.Categories[len(catalog.Categories)-1]
		item := models.Item{Name: name.String, OnSale: onSale, IsNew: isNew}
		if price.Valid {
			item.Price = models.PriceOf(price.Decimal.InexactFloat64())
		}
		cur.Items = append(cur.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate catalog rows: %w", err)
	}

	catalog.Categories = dropEmpty(catalog.Categories)
	catalog.LastUpdated = time.Now().UTC()
	logging.Log.Debugf("✓ Display catalog loaded: %d categories", len(catalog.Categories))
	return catalog, nil
}

func dropEmpty(categories []models.Category) []models.Category {
	out := categories[:0]
	for _, c := range categories {
		if len(c.Items) > 0 {
			out = append(out, c)
		}
	}
	return out
}
