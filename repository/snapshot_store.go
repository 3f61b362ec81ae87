package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"menu-signage/logging"
	"menu-signage/models"
)

// SnapshotStore keeps the last catalog fetched from the primary source in a
// local SQLite file, so a restart without network still shows a real menu.
type SnapshotStore struct {
	db   *sql.DB
	keep int
}

// Ensure SnapshotStore implements SnapshotStoreInterface
var _ SnapshotStoreInterface = (*SnapshotStore)(nil)

// OpenSnapshotStore opens (and creates) the store at path
func OpenSnapshotStore(path string) (*SnapshotStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot store: %w", err)
	}
	conn.SetMaxOpenConns(1)

	_, err = conn.Exec(`
		CREATE TABLE IF NOT EXISTS catalog_snapshots (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			source     TEXT NOT NULL,
			payload    TEXT NOT NULL,
			created_at INTEGER NOT NULL
		)`)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create snapshot table: %w", err)
	}
	return &SnapshotStore{db: conn, keep: 10}, nil
}

// Save stores catalog and prunes old snapshots
func (s *SnapshotStore) Save(ctx context.Context, catalog *models.Catalog) error {
	payload, err := json.Marshal(catalog)
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO catalog_snapshots (source, payload, created_at) VALUES (?, ?, ?)`,
		catalog.Source, string(payload), time.Now().UnixMilli()); err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM catalog_snapshots
		WHERE id NOT IN (SELECT id FROM catalog_snapshots ORDER BY id DESC LIMIT ?)`, s.keep); err != nil {
		return fmt.Errorf("failed to prune snapshots: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	logging.Log.Debugf("💾 Catalog snapshot saved (%d categories)", len(catalog.Categories))
	return nil
}

// Latest returns the newest snapshot or ErrNoSnapshot
func (s *SnapshotStore) Latest(ctx context.Context) (*models.Catalog, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM catalog_snapshots ORDER BY id DESC LIMIT 1`).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var catalog models.Catalog
	if err := json.Unmarshal([]byte(payload), &catalog); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &catalog, nil
}

// Count returns how many snapshots are kept
func (s *SnapshotStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM catalog_snapshots`).Scan(&n)
	return n, err
}

// Close closes the underlying database
func (s *SnapshotStore) Close() error {
	return s.db.Close()
}
