package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"menu-signage/db"
	"menu-signage/logging"
	"menu-signage/models"
)

// ProductRepository handles database operations for products
type ProductRepository struct{}

// NewProductRepository creates a new ProductRepository
func NewProductRepository() *ProductRepository {
	return &ProductRepository{}
}

// Ensure ProductRepository implements ProductRepositoryInterface
var _ ProductRepositoryInterface = (*ProductRepository)(nil)

const productColumns = `
	p.id, p.category_id, COALESCE(c.name, '') AS category_name, p.name, p.price,
	COALESCE(p.description, ''), p.display_order, p.active,
	COALESCE(p.on_sale, false), COALESCE(p.is_new, false), p.created_at, p.updated_at`

func scanProduct(row interface{ Scan(...any) error }, p *models.ProductRecord) error {
	return row.Scan(&p.ID, &p.CategoryID, &p.CategoryName, &p.Name, &p.Price,
		&p.Description, &p.DisplayOrder, &p.Active, &p.OnSale, &p.IsNew, &p.CreatedAt, &p.UpdatedAt)
}

// List returns products ordered the way the menu shows them
func (r *ProductRepository) List(ctx context.Context, filter models.ProductFilter) ([]models.ProductRecord, error) {
	var conditions []string
	var args []any
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		conditions = append(conditions, fmt.Sprintf("p.category_id = $%d", len(args)))
	}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		conditions = append(conditions, fmt.Sprintf("p.active = $%d", len(args)))
	}

	query := `SELECT ` + productColumns + `
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY c.display_order, p.display_order, p.name"

	logging.Log.Debugf("🔍 Listing products: %d filters", len(conditions))

	rows, err := db.DB.QueryContext(ctx, query, args...)
	if err != nil {
		logging.Log.Errorf("❌ Error querying products: %v", err)
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []models.ProductRecord{}
	for rows.Next() {
		var p models.ProductRecord
		if err := scanProduct(rows, &p); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}
	return products, nil
}

func categoryExists(ctx context.Context, tx *sql.Tx, id int) (bool, error) {
	var exists bool
	err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check category: %w", err)
	}
	return exists, nil
}

// getProduct reads a product with its category name inside tx
func getProduct(ctx context.Context, tx *sql.Tx, id int) (*models.ProductRecord, error) {
	query := `SELECT ` + productColumns + `
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id
		WHERE p.id = $1`
	var p models.ProductRecord
	err := scanProduct(tx.QueryRowContext(ctx, query, id), &p)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &p, nil
}

// Create inserts a product after checking its category exists
func (r *ProductRepository) Create(ctx context.Context, in models.ProductInput) (*models.ProductRecord, error) {
	tx, err := db.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	ok, err := categoryExists(ctx, tx, in.CategoryID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCategoryMissing
	}

	var id int
	err = tx.QueryRowContext(ctx, `
		INSERT INTO products (name, category_id, price, description, display_order, active, on_sale, is_new)
		VALUES ($1, $2, $3, $4, COALESCE($5, 0), COALESCE($6, true), COALESCE($7, false), COALESCE($8, false))
		RETURNING id`,
		in.Name, in.CategoryID, in.Price, in.Description, in.DisplayOrder, in.Active, in.OnSale, in.IsNew,
	).Scan(&id)
	if err != nil {
		logging.Log.Errorf("❌ Error creating product %q: %v", in.Name, err)
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	p, err := getProduct(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	logging.Log.Infof("✓ Product created: id=%d name=%s category=%s", p.ID, p.Name, p.CategoryName)
	return p, nil
}

// Update changes the fields present in the input
func (r *ProductRepository) Update(ctx context.Context, id int, in models.ProductInput) (*models.ProductRecord, error) {
	tx, err := db.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if in.CategoryID != 0 {
		ok, err := categoryExists(ctx, tx, in.CategoryID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrCategoryMissing
		}
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE products
		SET name = COALESCE(NULLIF($1, ''), name),
		    category_id = COALESCE(NULLIF($2, 0), category_id),
		    price = COALESCE($3, price),
		    description = COALESCE($4, description),
		    display_order = COALESCE($5, display_order),
		    active = COALESCE($6, active),
		    on_sale = COALESCE($7, on_sale),
		    is_new = COALESCE($8, is_new),
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $9`,
		in.Name, in.CategoryID, in.Price, in.Description, in.DisplayOrder, in.Active, in.OnSale, in.IsNew, id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrNotFound
	}

	p, err := getProduct(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return p, nil
}

// Delete removes a product and returns what was deleted
func (r *ProductRepository) Delete(ctx context.Context, id int) (*models.ProductRecord, error) {
	tx, err := db.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	p, err := getProduct(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id); err != nil {
		return nil, fmt.Errorf("failed to delete product: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	logging.Log.Infof("✓ Product deleted: id=%d name=%s", p.ID, p.Name)
	return p, nil
}
