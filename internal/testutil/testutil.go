// Package testutil provides helpers for composing synthetic barcode
// scenes used across the scan, detect, and server tests.
package testutil

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"

	"github.com/soundtag-tech/soundtag/internal/codec"
	"github.com/soundtag-tech/soundtag/internal/render"
	"github.com/soundtag-tech/soundtag/internal/utils"
)

// SceneConfig describes how a rendered barcode is placed inside a
// larger test scene.
type SceneConfig struct {
	Offset     image.Point
	Margin     int
	Background color.Color

	// Distractor adds a bright blob in the top-left corner so a naive
	// full-image column scan picks up a spurious first run and callers
	// are forced through logo detection.
	Distractor bool
}

// DefaultSceneConfig returns a scene with the barcode pasted onto a
// black canvas with a 40 pixel margin.
func DefaultSceneConfig() SceneConfig {
	return SceneConfig{
		Margin:     40,
		Background: render.Palette["black"],
	}
}

// RenderCode encodes mediaRef and renders it with default options.
func RenderCode(t *testing.T, mediaRef uint64) image.Image {
	t.Helper()

	symbols, err := codec.Encode(mediaRef)
	require.NoError(t, err)

	img, err := render.Render(symbols, render.DefaultOptions())
	require.NoError(t, err)
	return img
}

// ComposeScene renders mediaRef and pastes it into a larger canvas at
// the configured offset, like a screenshot containing a code.
func ComposeScene(t *testing.T, mediaRef uint64, cfg SceneConfig) image.Image {
	t.Helper()
	return PasteOnCanvas(RenderCode(t, mediaRef), cfg)
}

// PasteOnCanvas places an already rendered barcode into a scene.
func PasteOnCanvas(barcode image.Image, cfg SceneConfig) image.Image {
	canvas := imaging.New(
		barcode.Bounds().Dx()+cfg.Offset.X+cfg.Margin,
		barcode.Bounds().Dy()+cfg.Offset.Y+cfg.Margin,
		cfg.Background)

	if cfg.Distractor {
		blob := imaging.New(30, 30, render.Palette["white"])
		canvas = imaging.Paste(canvas, blob, image.Pt(5, 5))
	}

	return imaging.Paste(canvas, barcode, cfg.Offset)
}

// SaveTempPNG writes img to a fresh temp directory and returns its path.
func SaveTempPNG(t *testing.T, img image.Image, name string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, utils.SavePNG(path, img))
	return path
}
