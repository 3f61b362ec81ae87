package db

import (
	"context"
	"fmt"
)

type migration struct {
	name string
	stmt string
}

var migrations = []migration{
	{"create categories", `
		CREATE TABLE IF NOT EXISTS categories (
			id            SERIAL PRIMARY KEY,
			name          TEXT NOT NULL,
			display_order INTEGER NOT NULL DEFAULT 0,
			active        BOOLEAN NOT NULL DEFAULT TRUE,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`},
	{"create products", `
		CREATE TABLE IF NOT EXISTS products (
			id            SERIAL PRIMARY KEY,
			category_id   INTEGER NOT NULL REFERENCES categories(id),
			name          TEXT NOT NULL,
			price         NUMERIC(10,2) NOT NULL,
			description   TEXT,
			display_order INTEGER NOT NULL DEFAULT 0,
			active        BOOLEAN NOT NULL DEFAULT TRUE,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`},
	{"add products.on_sale", `ALTER TABLE products ADD COLUMN IF NOT EXISTS on_sale BOOLEAN DEFAULT FALSE`},
	{"add products.is_new", `ALTER TABLE products ADD COLUMN IF NOT EXISTS is_new BOOLEAN DEFAULT FALSE`},
	{"create signage_settings", `
		CREATE TABLE IF NOT EXISTS signage_settings (
			setting_key   TEXT PRIMARY KEY,
			setting_value TEXT NOT NULL,
			data_type     TEXT NOT NULL DEFAULT 'string',
			active        BOOLEAN NOT NULL DEFAULT TRUE,
			updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`},
	{"index products by category", `CREATE INDEX IF NOT EXISTS idx_products_category ON products (category_id, display_order)`},
}

// Migrate brings the schema up to date. Every statement is idempotent, so it
// is safe to run on each deploy. It returns the names of the steps applied.
func Migrate(ctx context.Context) ([]string, error) {
	if DB == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	tx, err := DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	applied := make([]string, 0, len(migrations))
	for _, m := range migrations {
		if _, err := tx.ExecContext(ctx, m.stmt); err != nil {
			return nil, fmt.Errorf("failed to apply migration %q: %w", m.name, err)
		}
		applied = append(applied, m.name)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit migrations: %w", err)
	}
	return applied, nil
}
