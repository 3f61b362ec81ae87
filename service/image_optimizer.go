package service

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"menu-signage/logging"
)

// maxLogoDim bounds synced logo assets on their longest side
const maxLogoDim = 1024

// cacheFresh reports whether cachePath exists and is newer than source
func cacheFresh(cachePath, source string) bool {
	c, err := os.Stat(cachePath)
	if err != nil {
		return false
	}
	s, err := os.Stat(source)
	if err != nil {
		return true
	}
	return !c.ModTime().Before(s.ModTime())
}

// saveToCache writes data to path, creating the directory
func saveToCache(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	logging.Log.Debugf("✓ Image cached: %s", path)
	return nil
}

// OptimizeLogo decodes an image, shrinks it to fit maxLogoDim and encodes
// it as PNG so transparency survives.
func OptimizeLogo(data []byte) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	b := img.Bounds()
	if b.Dx() > maxLogoDim || b.Dy() > maxLogoDim {
		logging.Log.Debugf("🔄 Resizing %s logo: %dx%d", format, b.Dx(), b.Dy())
		img = imaging.Fit(img, maxLogoDim, maxLogoDim, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode to PNG: %w", err)
	}
	return buf.Bytes(), nil
}
