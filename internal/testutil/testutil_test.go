package testutil

import (
	"image"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundtag-tech/soundtag/internal/render"
)

func TestComposeScene_Dimensions(t *testing.T) {
	cfg := DefaultSceneConfig()
	cfg.Offset = image.Pt(20, 30)

	barcode := RenderCode(t, 57639171874)
	scene := ComposeScene(t, 57639171874, cfg)

	assert.Equal(t, barcode.Bounds().Dx()+20+cfg.Margin, scene.Bounds().Dx())
	assert.Equal(t, barcode.Bounds().Dy()+30+cfg.Margin, scene.Bounds().Dy())
}

func TestPasteOnCanvas_Distractor(t *testing.T) {
	cfg := DefaultSceneConfig()
	cfg.Offset = image.Pt(50, 50)
	cfg.Distractor = true

	scene := PasteOnCanvas(RenderCode(t, 57639171874), cfg)

	white := render.Palette["white"]
	r, g, b, _ := scene.At(10, 10).RGBA()
	wr, wg, wb, _ := white.RGBA()
	assert.Equal(t, wr, r)
	assert.Equal(t, wg, g)
	assert.Equal(t, wb, b)
}

func TestSaveTempPNG(t *testing.T) {
	path := SaveTempPNG(t, RenderCode(t, 57639171874), "code.png")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
