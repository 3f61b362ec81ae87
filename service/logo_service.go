package service

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/disintegration/imaging"

	"menu-signage/logging"
)

// Logo modes and backgrounds
const (
	LogoNormal      = "normal"
	LogoMonochrome  = "monochrome"
	BackgroundDark  = "dark"
	BackgroundLight = "light"
)

// maxLogoHeight bounds the height parameter of a variant request
const maxLogoHeight = 1024

// LogoVariant selects how the logo is drawn
type LogoVariant struct {
	Mode       string
	Background string
	Height     int
}

// Normalize replaces unknown values with the defaults
func (v LogoVariant) Normalize() LogoVariant {
	if v.Mode != LogoMonochrome {
		v.Mode = LogoNormal
	}
	if v.Background != BackgroundLight {
		v.Background = BackgroundDark
	}
	if v.Height < 0 {
		v.Height = 0
	}
	if v.Height > maxLogoHeight {
		v.Height = maxLogoHeight
	}
	return v
}

func (v LogoVariant) cacheName() string {
	return fmt.Sprintf("logo_%s_%s_%d.png", v.Mode, v.Background, v.Height)
}

// LogoService renders logo variants from one source image and caches them
// on disk.
type LogoService struct {
	source   string
	cacheDir string
	mu       sync.Mutex
}

var _ LogoServiceInterface = (*LogoService)(nil)

// NewLogoService creates a new LogoService
func NewLogoService(source, cacheDir string) *LogoService {
	return &LogoService{source: source, cacheDir: cacheDir}
}

// Variant returns the PNG bytes of the requested variant. Monochrome logos
// are grayscale, and inverted when drawn on a light background.
func (s *LogoService) Variant(v LogoVariant) ([]byte, error) {
	v = v.Normalize()
	cachePath := filepath.Join(s.cacheDir, v.cacheName())

	s.mu.Lock()
	defer s.mu.Unlock()

	if cacheFresh(cachePath, s.source) {
		data, err := os.ReadFile(cachePath)
		if err == nil {
			return data, nil
		}
	}

	img, err := imaging.Open(s.source)
	if err != nil {
		return nil, fmt.Errorf("failed to open logo: %w", err)
	}
	if v.Height > 0 && v.Height < img.Bounds().Dy() {
		img = imaging.Resize(img, 0, v.Height, imaging.Lanczos)
	}
	if v.Mode == LogoMonochrome {
		img = imaging.Grayscale(img)
		if v.Background == BackgroundLight {
			img = imaging.Invert(img)
		}
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode logo: %w", err)
	}
	data := buf.Bytes()
	if err := saveToCache(cachePath, data); err != nil {
		logging.Log.Warnf("⚠️ Logo variant not cached: %v", err)
	}
	return data, nil
}
