package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"menu-signage/db"
	"menu-signage/logging"
	"menu-signage/models"
)

// CategoryRepository handles database operations for categories
type CategoryRepository struct{}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository() *CategoryRepository {
	return &CategoryRepository{}
}

// Ensure CategoryRepository implements CategoryRepositoryInterface
var _ CategoryRepositoryInterface = (*CategoryRepository)(nil)

const categoryColumns = `c.id, c.name, c.display_order, c.active, c.created_at, c.updated_at`

func scanCategory(row interface{ Scan(...any) error }, c *models.CategoryRecord) error {
	return row.Scan(&c.ID, &c.Name, &c.DisplayOrder, &c.Active, &c.CreatedAt, &c.UpdatedAt)
}

// List returns every category with its number of active products
func (r *CategoryRepository) List(ctx context.Context) ([]models.CategoryRecord, error) {
	query := `
		SELECT ` + categoryColumns + `, COUNT(p.id) AS product_count
		FROM categories c
		LEFT JOIN products p ON c.id = p.category_id AND p.active = true
		GROUP BY c.id
		ORDER BY c.display_order, c.name
	`
	rows, err := db.DB.QueryContext(ctx, query)
	if err != nil {
		logging.Log.Errorf("❌ Error querying categories: %v", err)
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := []models.CategoryRecord{}
	for rows.Next() {
		var c models.CategoryRecord
		if err := rows.Scan(&c.ID, &c.Name, &c.DisplayOrder, &c.Active, &c.CreatedAt, &c.UpdatedAt, &c.ProductCount); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}
	return categories, nil
}

// Create inserts a category. display_order defaults to 0 and active to true.
func (r *CategoryRepository) Create(ctx context.Context, in models.CategoryInput) (*models.CategoryRecord, error) {
	order := 0
	if in.DisplayOrder != nil {
		order = *in.DisplayOrder
	}
	active := true
	if in.Active != nil {
		active = *in.Active
	}

	query := `
		INSERT INTO categories AS c (name, display_order, active)
		VALUES ($1, $2, $3)
		RETURNING ` + categoryColumns

	var c models.CategoryRecord
	if err := scanCategory(db.DB.QueryRowContext(ctx, query, in.Name, order, active), &c); err != nil {
		logging.Log.Errorf("❌ Error creating category %q: %v", in.Name, err)
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	logging.Log.Infof("✓ Category created: id=%d name=%s", c.ID, c.Name)
	return &c, nil
}

// Update changes the fields present in the input
func (r *CategoryRepository) Update(ctx context.Context, id int, in models.CategoryInput) (*models.CategoryRecord, error) {
	query := `
		UPDATE categories AS c
		SET name = COALESCE(NULLIF($1, ''), c.name),
		    display_order = COALESCE($2, c.display_order),
		    active = COALESCE($3, c.active),
		    updated_at = CURRENT_TIMESTAMP
		WHERE c.id = $4
		RETURNING ` + categoryColumns

	var c models.CategoryRecord
	err := scanCategory(db.DB.QueryRowContext(ctx, query, in.Name, in.DisplayOrder, in.Active, id), &c)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return &c, nil
}

// Delete removes a category. Categories that still own products are refused.
func (r *CategoryRepository) Delete(ctx context.Context, id int) (*models.CategoryRecord, error) {
	tx, err := db.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM products WHERE category_id = $1`, id).Scan(&count); err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		logging.Log.Warnf("⚠️ Refusing to delete category %d: %d products", id, count)
		return nil, ErrHasProducts
	}

	var c models.CategoryRecord
	err = scanCategory(tx.QueryRowContext(ctx, `DELETE FROM categories AS c WHERE c.id = $1 RETURNING `+categoryColumns, id), &c)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to delete category: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	logging.Log.Infof("✓ Category deleted: id=%d name=%s", c.ID, c.Name)
	return &c, nil
}
