package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"menu-signage/logging"
)

// AssetSyncResult reports what a logo sync did
type AssetSyncResult struct {
	Total      int      `json:"total"`
	Downloaded int      `json:"downloaded"`
	Skipped    int      `json:"skipped"`
	Files      []string `json:"files"`
	Errors     []string `json:"errors,omitempty"`
}

// AssetSyncService pulls logo images from a Drive folder into the static
// logo directory, optimized.
// Implements AssetSyncServiceInterface
type AssetSyncService struct {
	driveService DriveServiceInterface
	logoDir      string
}

// NewAssetSyncService creates a new AssetSyncService
func NewAssetSyncService(driveService DriveServiceInterface, logoDir string) *AssetSyncService {
	return &AssetSyncService{driveService: driveService, logoDir: logoDir}
}

// Ensure AssetSyncService implements AssetSyncServiceInterface
var _ AssetSyncServiceInterface = (*AssetSyncService)(nil)

// SyncLogos downloads every image of the folder. Files already present in
// the logo dir are skipped; a failing file is reported and the rest go on.
func (s *AssetSyncService) SyncLogos(ctx context.Context, folderID string) (*AssetSyncResult, error) {
	logging.Log.Infof("📥 Starting logo sync for folder: %s", folderID)

	if err := os.MkdirAll(s.logoDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create logo directory: %w", err)
	}

	images, err := s.driveService.ListImages(ctx, folderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list images from Drive: %w", err)
	}

	result := &AssetSyncResult{Total: len(images), Files: []string{}}
	used := make(map[string]bool)

	for _, img := range images {
		name := logoFileName(img.Name, used)
		target := filepath.Join(s.logoDir, name)

		if _, err := os.Stat(target); err == nil {
			logging.Log.Debugf("⏭️  Skipping %s (already present)", name)
			result.Skipped++
			continue
		}

		if err := s.fetch(ctx, img, target); err != nil {
			logging.Log.Errorf("❌ Failed to sync %s: %v", img.Name, err)
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", img.Name, err))
			continue
		}
		result.Downloaded++
		result.Files = append(result.Files, name)
	}

	logging.Log.Infof("🎉 Logo sync completed: %d downloaded, %d skipped, %d total",
		result.Downloaded, result.Skipped, result.Total)
	return result, nil
}

func (s *AssetSyncService) fetch(ctx context.Context, img DriveImage, target string) error {
	body, err := s.driveService.DownloadImage(ctx, img.ID)
	if err != nil {
		return err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}
	optimized, err := OptimizeLogo(data)
	if err != nil {
		return err
	}
	return saveToCache(target, optimized)
}

// logoFileName maps a Drive file name to a safe .png name, unique in used
func logoFileName(name string, used map[string]bool) string {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '_'
		}
	}, base)
	if base == "" {
		base = "logo"
	}

	candidate := base + ".png"
	for n := 2; used[candidate]; n++ {
		candidate = fmt.Sprintf("%s_%d.png", base, n)
	}
	used[candidate] = true
	return candidate
}
