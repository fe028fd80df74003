package utils

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSupportedImage(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"code.png", true},
		{"code.PNG", true},
		{"photo.jpg", true},
		{"photo.jpeg", true},
		{"scan.bmp", true},
		{"doc.pdf", false},
		{"archive.tar.gz", false},
		{"noext", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsSupportedImage(tt.path), tt.path)
	}
}

func TestLoadImage_RoundTrip(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 12, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 12; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 20), G: uint8(y * 30), B: 128, A: 255})
		}
	}

	path := filepath.Join(t.TempDir(), "img.png")
	require.NoError(t, SavePNG(path, img))

	loaded, err := LoadImage(path)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), loaded.Bounds())
}

func TestLoadImage_Errors(t *testing.T) {
	var procErr *ImageProcessingError

	_, err := LoadImage("")
	require.ErrorAs(t, err, &procErr)
	assert.Equal(t, "load", procErr.Operation)

	_, err = LoadImage("file.txt")
	require.ErrorAs(t, err, &procErr)

	_, err = LoadImage(filepath.Join(t.TempDir(), "missing.png"))
	require.ErrorAs(t, err, &procErr)
	assert.Error(t, procErr.Unwrap())
}

func TestSavePNG_NilImage(t *testing.T) {
	err := SavePNG(filepath.Join(t.TempDir(), "out.png"), nil)
	assert.Error(t, err)
}
