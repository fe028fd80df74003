package utils

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func halfToneGray(dark, light uint8) *image.Gray {
	// Left half dark, right half light.
	img := image.NewGray(image.Rect(0, 0, 20, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 20; x++ {
			v := dark
			if x >= 10 {
				v = light
			}
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}
	return img
}

func TestToGray(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}

	gray := ToGray(img)
	require.Equal(t, img.Bounds(), gray.Bounds())

	// All pixels identical in the source, so identical after conversion.
	first := gray.GrayAt(0, 0).Y
	assert.Positive(t, int(first))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			assert.Equal(t, first, gray.GrayAt(x, y).Y)
		}
	}
}

func TestHistogram(t *testing.T) {
	img := halfToneGray(10, 240)
	hist := Histogram(img)

	assert.Equal(t, 100, hist[10])
	assert.Equal(t, 100, hist[240])

	total := 0
	for _, c := range hist {
		total += c
	}
	assert.Equal(t, 200, total)
}

func TestOtsuThreshold_SeparatesModes(t *testing.T) {
	hist := Histogram(halfToneGray(10, 240))
	threshold := OtsuThreshold(hist)

	assert.Greater(t, threshold, 10)
	assert.Less(t, threshold, 240)
}

func TestBinarize(t *testing.T) {
	img := halfToneGray(10, 240)
	threshold := OtsuThreshold(Histogram(img))

	bin := Binarize(img, threshold, false)
	assert.Equal(t, uint8(0), bin.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(255), bin.GrayAt(15, 5).Y)

	inv := Binarize(img, threshold, true)
	assert.Equal(t, uint8(255), inv.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(0), inv.GrayAt(15, 5).Y)
}
