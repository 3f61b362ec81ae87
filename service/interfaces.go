package service

import (
	"context"
	"io"
)

// SnapshotServiceInterface defines the contract for rendering server pages
type SnapshotServiceInterface interface {
	CaptureDisplay(ctx context.Context, width, height int) ([]byte, error)
	GenerateMenuPDF(ctx context.Context) ([]byte, error)
}

// DriveServiceInterface defines the contract for Google Drive operations
type DriveServiceInterface interface {
	ListImages(ctx context.Context, folderID string) ([]DriveImage, error)
	DownloadImage(ctx context.Context, fileID string) (io.ReadCloser, error)
}

// AssetSyncServiceInterface defines the contract for pulling logo assets
type AssetSyncServiceInterface interface {
	SyncLogos(ctx context.Context, folderID string) (*AssetSyncResult, error)
}

// LogoServiceInterface defines the contract for logo variants
type LogoServiceInterface interface {
	Variant(v LogoVariant) ([]byte, error)
}
