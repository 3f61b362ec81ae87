package display

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"menu-signage/logging"
	"menu-signage/models"
)

// CatalogSource fetches the current catalog
type CatalogSource interface {
	Fetch(ctx context.Context) (*models.Catalog, error)
}

// CatalogSourceFunc adapts a function to CatalogSource
type CatalogSourceFunc func(ctx context.Context) (*models.Catalog, error)

// Fetch implements CatalogSource
func (f CatalogSourceFunc) Fetch(ctx context.Context) (*models.Catalog, error) {
	return f(ctx)
}

// Coordinator keeps a session's catalog fresh
type Coordinator struct {
	source  CatalogSource
	session *Session
}

// NewCoordinator creates a Coordinator polling source for session
func NewCoordinator(source CatalogSource, session *Session) *Coordinator {
	return &Coordinator{source: source, session: session}
}

// Check fetches the catalog and swaps it into the session when the
// categories changed. Fetch failures leave the display untouched.
func (c *Coordinator) Check(ctx context.Context) (bool, error) {
	catalog, err := c.source.Fetch(ctx)
	if err != nil {
		logging.Log.Warnf("⚠️ Failed to refresh catalog: %v", err)
		return false, fmt.Errorf("failed to fetch catalog: %w", err)
	}

	var next []models.Category
	if catalog != nil {
		next = catalog.Categories
	}

	changed, err := differs(c.session.Categories(), next)
	if err != nil {
		logging.Log.Warnf("⚠️ Failed to compare catalogs: %v", err)
		return false, err
	}
	if !changed {
		logging.Log.Debugf("Catalog unchanged")
		return false, nil
	}

	before := c.session.State()
	frame := c.session.Replace(next)
	logging.Log.Infof("🔄 Catalog updated (%d categories), rotation %d/%d -> %d/%d",
		len(next), before.CategoryIndex, before.PagePartIndex, frame.State.CategoryIndex, frame.State.PagePartIndex)
	return true, nil
}

// differs compares two category lists by their serialized form
func differs(a, b []models.Category) (bool, error) {
	if a == nil {
		a = []models.Category{}
	}
	if b == nil {
		b = []models.Category{}
	}
	ja, err := json.Marshal(a)
	if err != nil {
		return false, err
	}
	jb, err := json.Marshal(b)
	if err != nil {
		return false, err
	}
	return !bytes.Equal(ja, jb), nil
}
