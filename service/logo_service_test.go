package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestLogo(t *testing.T, dir string, w, h int) string {
	t.Helper()
	img := imaging.New(w, h, color.NRGBA{R: 255, G: 200, B: 0, A: 255})
	path := filepath.Join(dir, "logo.png")
	require.NoError(t, imaging.Save(img, path))
	return path
}

func decode(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := imaging.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

func TestLogoVariantNormalize(t *testing.T) {
	v := LogoVariant{Mode: "sepia", Background: "", Height: 5000}.Normalize()
	assert.Equal(t, LogoVariant{Mode: LogoNormal, Background: BackgroundDark, Height: maxLogoHeight}, v)
}

func TestLogoServiceVariant(t *testing.T) {
	dir := t.TempDir()
	svc := NewLogoService(writeTestLogo(t, dir, 200, 100), filepath.Join(dir, "cache"))

	t.Run("resized keeping aspect", func(t *testing.T) {
		data, err := svc.Variant(LogoVariant{Height: 50})
		require.NoError(t, err)
		b := decode(t, data).Bounds()
		assert.Equal(t, 100, b.Dx())
		assert.Equal(t, 50, b.Dy())
	})

	t.Run("never upscaled", func(t *testing.T) {
		data, err := svc.Variant(LogoVariant{Height: 400})
		require.NoError(t, err)
		assert.Equal(t, 100, decode(t, data).Bounds().Dy())
	})

	t.Run("monochrome is gray", func(t *testing.T) {
		data, err := svc.Variant(LogoVariant{Mode: LogoMonochrome})
		require.NoError(t, err)
		r, g, b, _ := decode(t, data).At(10, 10).RGBA()
		assert.Equal(t, r, g)
		assert.Equal(t, g, b)
	})

	t.Run("monochrome on light is inverted", func(t *testing.T) {
		dark, err := svc.Variant(LogoVariant{Mode: LogoMonochrome})
		require.NoError(t, err)
		light, err := svc.Variant(LogoVariant{Mode: LogoMonochrome, Background: BackgroundLight})
		require.NoError(t, err)

		d := color.GrayModel.Convert(decode(t, dark).At(10, 10)).(color.Gray)
		l := color.GrayModel.Convert(decode(t, light).At(10, 10)).(color.Gray)
		assert.InDelta(t, 255, int(d.Y)+int(l.Y), 2)
	})

	t.Run("variants are cached", func(t *testing.T) {
		_, err := svc.Variant(LogoVariant{Height: 50})
		require.NoError(t, err)
		_, err = os.Stat(filepath.Join(dir, "cache", "logo_normal_dark_50.png"))
		assert.NoError(t, err)
	})
}

func TestLogoServiceMissingSource(t *testing.T) {
	svc := NewLogoService(filepath.Join(t.TempDir(), "nope.png"), t.TempDir())
	_, err := svc.Variant(LogoVariant{})
	assert.Error(t, err)
}

type fakeDrive struct {
	images []DriveImage
	files  map[string][]byte
	err    error
}

func (f *fakeDrive) ListImages(ctx context.Context, folderID string) ([]DriveImage, error) {
	return f.images, f.err
}

func (f *fakeDrive) DownloadImage(ctx context.Context, fileID string) (io.ReadCloser, error) {
	data, ok := f.files[fileID]
	if !ok {
		return nil, errors.New("not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, imaging.New(w, h, color.White), imaging.PNG))
	return buf.Bytes()
}

func TestSyncLogos(t *testing.T) {
	dir := t.TempDir()
	drive := &fakeDrive{
		images: []DriveImage{
			{ID: "a", Name: "Team Logo.PNG"},
			{ID: "b", Name: "big.jpg"},
			{ID: "c", Name: "missing.png"},
		},
		files: map[string][]byte{
			"a": pngBytes(t, 10, 10),
			"b": pngBytes(t, 3000, 1500),
		},
	}
	svc := NewAssetSyncService(drive, dir)

	res, err := svc.SyncLogos(context.Background(), "folder")
	require.NoError(t, err)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 2, res.Downloaded)
	assert.Equal(t, []string{"team_logo.png", "big.png"}, res.Files)
	assert.Len(t, res.Errors, 1)

	img, err := imaging.Open(filepath.Join(dir, "big.png"))
	require.NoError(t, err)
	assert.Equal(t, maxLogoDim, img.Bounds().Dx())

	again, err := svc.SyncLogos(context.Background(), "folder")
	require.NoError(t, err)
	assert.Equal(t, 2, again.Skipped)
	assert.Zero(t, again.Downloaded)
}

func TestSyncLogosListError(t *testing.T) {
	svc := NewAssetSyncService(&fakeDrive{err: errors.New("quota")}, t.TempDir())
	_, err := svc.SyncLogos(context.Background(), "folder")
	assert.ErrorContains(t, err, "quota")
}

func TestLogoFileName(t *testing.T) {
	used := map[string]bool{}
	assert.Equal(t, "a_b.png", logoFileName("A B.jpeg", used))
	assert.Equal(t, "a_b_2.png", logoFileName("a b.png", used))
	assert.Equal(t, "logo.png", logoFileName(".png", used))
}
