package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"menu-signage/display"
	"menu-signage/logging"
	"menu-signage/models"
	"menu-signage/repository"
)

// Catalog source names reported in Catalog.Source
const (
	SourceRemote    = "cms-api"
	SourceFile      = "local-fallback"
	SourceSnapshot  = "snapshot"
	SourceEmergency = "emergency-fallback"
)

const maxCatalogBytes = 5 << 20

// HTTPCatalogSource fetches the catalog from a remote endpoint
type HTTPCatalogSource struct {
	URL    string
	Client *http.Client
}

var _ display.CatalogSource = (*HTTPCatalogSource)(nil)

// Fetch implements display.CatalogSource
func (s *HTTPCatalogSource) Fetch(ctx context.Context) (*models.Catalog, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog endpoint returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxCatalogBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	catalog, err := MapCatalog(data)
	if err != nil {
		return nil, err
	}
	if catalog.Source == "" {
		catalog.Source = SourceRemote
	}
	return catalog, nil
}

// FileCatalogSource reads the catalog from a local JSON file
type FileCatalogSource struct {
	Path string
}

var _ display.CatalogSource = (*FileCatalogSource)(nil)

// Fetch implements display.CatalogSource
func (s *FileCatalogSource) Fetch(ctx context.Context) (*models.Catalog, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fallback catalog: %w", err)
	}
	catalog, err := MapCatalog(data)
	if err != nil {
		return nil, err
	}
	catalog.Source = SourceFile
	return catalog, nil
}

// RepositoryCatalogSource reads the catalog straight from the database
type RepositoryCatalogSource struct {
	Repo repository.CatalogRepositoryInterface
}

var _ display.CatalogSource = (*RepositoryCatalogSource)(nil)

// Fetch implements display.CatalogSource
func (s *RepositoryCatalogSource) Fetch(ctx context.Context) (*models.Catalog, error) {
	return s.Repo.GetDisplayCatalog(ctx)
}

// EmergencyCatalog is shown when no source at all could be read.
func EmergencyCatalog() *models.Catalog {
	return &models.Catalog{
		Categories: []models.Category{{
			Title: "Team Pinas Menu",
			Items: []models.Item{{Name: "Loading menu...", Price: models.PriceOf(0)}},
		}},
		LastUpdated: time.Now().UTC(),
		Source:      SourceEmergency,
	}
}

// CatalogProvider resolves the display catalog through its tiers: the
// primary source, the local fallback file, the last stored snapshot and
// finally the emergency placeholder.
type CatalogProvider struct {
	primary    display.CatalogSource
	fallback   display.CatalogSource
	snapshots  repository.SnapshotStoreInterface
	timeout    time.Duration
	retryDelay time.Duration
}

var _ display.CatalogSource = (*CatalogProvider)(nil)

// NewCatalogProvider creates a CatalogProvider. fallback and snapshots may be nil.
func NewCatalogProvider(
	primary display.CatalogSource,
	fallback display.CatalogSource,
	snapshots repository.SnapshotStoreInterface,
	timeout time.Duration,
	retryDelay time.Duration,
) *CatalogProvider {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if retryDelay < 0 {
		retryDelay = 0
	}
	return &CatalogProvider{
		primary:    primary,
		fallback:   fallback,
		snapshots:  snapshots,
		timeout:    timeout,
		retryDelay: retryDelay,
	}
}

// Fetch reads the primary source only and stores a snapshot of what it got.
// The refresh coordinator polls through here, so a failing source never
// replaces the catalog on screen.
func (p *CatalogProvider) Fetch(ctx context.Context) (*models.Catalog, error) {
	catalog, err := p.primary.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if p.snapshots != nil {
		if err := p.snapshots.Save(ctx, catalog); err != nil {
			logging.Log.Warnf("⚠️ Failed to store catalog snapshot: %v", err)
		}
	}
	return catalog, nil
}

// Initial loads the catalog for a fresh display. It never returns nil.
func (p *CatalogProvider) Initial(ctx context.Context) *models.Catalog {
	for attempt := 1; attempt <= 2; attempt++ {
		catalog, err := p.fetchWithTimeout(ctx)
		if err == nil {
			logging.Log.Infof("✓ Catalog loaded from primary source (%d categories)", len(catalog.Categories))
			return catalog
		}
		logging.Log.Warnf("⚠️ Primary catalog fetch failed (attempt %d/2): %v", attempt, err)
		if attempt == 1 && !sleep(ctx, p.retryDelay) {
			break
		}
	}

	if p.fallback != nil {
		catalog, err := p.fallback.Fetch(ctx)
		if err == nil {
			logging.Log.Infof("📥 Using local fallback catalog")
			return catalog
		}
		logging.Log.Warnf("⚠️ Fallback catalog unavailable: %v", err)
	}

	if p.snapshots != nil {
		catalog, err := p.snapshots.Latest(ctx)
		if err == nil {
			logging.Log.Infof("📥 Using last known catalog snapshot from %s", catalog.LastUpdated.Format(time.RFC3339))
			catalog.Source = SourceSnapshot
			return catalog
		}
		logging.Log.Warnf("⚠️ No catalog snapshot available: %v", err)
	}

	logging.Log.Errorf("❌ All catalog sources failed, showing placeholder menu")
	return EmergencyCatalog()
}

func (p *CatalogProvider) fetchWithTimeout(ctx context.Context) (*models.Catalog, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return p.Fetch(ctx)
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// MapCatalog decodes a catalog document. Besides the canonical
// {categories:[...]} shape it accepts a bare array of categories and a single
// category object, both using name|title and products|items. Anything else
// maps to an empty catalog.
func MapCatalog(data []byte) (*models.Catalog, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}

	switch v := doc.(type) {
	case map[string]any:
		if _, ok := v["categories"].([]any); ok {
			var catalog models.Catalog
			if err := json.Unmarshal(data, &catalog); err != nil {
				return nil, fmt.Errorf("failed to decode catalog: %w", err)
			}
			return &catalog, nil
		}
		if name, _ := v["name"].(string); name != "" {
			if items, ok := firstList(v, "products", "items"); ok {
				return &models.Catalog{Categories: []models.Category{{
					Title: name,
					Items: mapItems(items),
				}}}, nil
			}
		}
	case []any:
		categories := make([]models.Category, 0, len(v))
		for _, raw := range v {
			obj, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			items, _ := firstList(obj, "products", "items")
			categories = append(categories, models.Category{
				Title: firstString(obj, "name", "title"),
				Items: mapItems(items),
			})
		}
		return &models.Catalog{Categories: categories}, nil
	}

	return &models.Catalog{Categories: []models.Category{}}, nil
}

func mapItems(raw []any) []models.Item {
	items := make([]models.Item, 0, len(raw))
	for _, r := range raw {
		obj, ok := r.(map[string]any)
		if !ok {
			continue
		}
		item := models.Item{Name: firstString(obj, "name", "title")}
		item.Price = models.PriceOf(parsePrice(firstPresent(obj, "price", "cost")))
		item.OnSale, _ = obj["on_sale"].(bool)
		item.IsNew, _ = obj["is_new"].(bool)
		items = append(items, item)
	}
	return items
}

// parsePrice turns a loose price value into a number. Values that are not
// numeric are kept as they came so the formatter can print them verbatim.
func parsePrice(v any) any {
	switch p := v.(type) {
	case nil:
		return 0
	case float64:
		return p
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(p), 64); err == nil {
			return f
		}
		return p
	default:
		return p
	}
}

func firstList(obj map[string]any, keys ...string) ([]any, bool) {
	for _, k := range keys {
		if l, ok := obj[k].([]any); ok {
			return l, true
		}
	}
	return nil, false
}

func firstString(obj map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := obj[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// firstPresent mirrors "a || b": zero values fall through to the next key.
func firstPresent(obj map[string]any, keys ...string) any {
	for _, k := range keys {
		switch v := obj[k].(type) {
		case nil:
			continue
		case string:
			if v == "" {
				continue
			}
		case float64:
			if v == 0 {
				continue
			}
		case bool:
			if !v {
				continue
			}
		}
		return obj[k]
	}
	return nil
}
