package service

import (
	"context"
	"fmt"
	"sync"

	"menu-signage/display"
	"menu-signage/models"
	"menu-signage/repository"
)

// SettingsService reads and writes signage settings and keeps the last
// display settings it saw, so page handlers never wait on the database.
// Implements display.SettingsSource
type SettingsService struct {
	repo repository.SettingsRepositoryInterface
	base models.DisplaySettings

	mu      sync.RWMutex
	current models.DisplaySettings
}

var _ display.SettingsSource = (*SettingsService)(nil)

// NewSettingsService creates a SettingsService starting from initial. Stored
// settings are applied over initial. repo may be nil when no database is
// configured.
func NewSettingsService(repo repository.SettingsRepositoryInterface, initial models.DisplaySettings) *SettingsService {
	return &SettingsService{repo: repo, base: initial, current: initial}
}

// All returns every active setting, typed
func (s *SettingsService) All(ctx context.Context) (map[string]any, error) {
	if s.repo == nil {
		return map[string]any{}, nil
	}
	return s.repo.GetAll(ctx)
}

// DisplaySettings implements display.SettingsSource
func (s *SettingsService) DisplaySettings(ctx context.Context) (models.DisplaySettings, error) {
	if s.repo == nil {
		return s.Current(), nil
	}
	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return models.DisplaySettings{}, err
	}
	ds := s.base.Merge(all)
	s.mu.Lock()
	s.current = ds
	s.mu.Unlock()
	return ds, nil
}

// Update stores values and refreshes the cached display settings
func (s *SettingsService) Update(ctx context.Context, values map[string]any) (models.DisplaySettings, error) {
	if s.repo == nil {
		return models.DisplaySettings{}, fmt.Errorf("settings are read-only without a database")
	}
	if err := s.repo.Upsert(ctx, values); err != nil {
		return models.DisplaySettings{}, err
	}
	return s.DisplaySettings(ctx)
}

// Current returns the last loaded display settings
func (s *SettingsService) Current() models.DisplaySettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}
