// Package render draws a 23-bar symbol sequence as a barcode image: the
// logo at the left edge, followed by rounded bars centered on the image
// midline. Bar pixel heights are proportional to height+1 so that a
// height-0 bar stays visible, and the logo is sized to eight bar widths,
// the reference scale the scanner divides by.
package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/soundtag-tech/soundtag/internal/codec"
)

// Palette lists the color names accepted for backgrounds and bars.
var Palette = map[string]color.NRGBA{
	"black": {0, 0, 0, 255},
	"white": {255, 255, 255, 255},
	"red":   {255, 0, 0, 255},
	"green": {0, 255, 0, 255},
	"blue":  {0, 0, 255, 255},
}

// Options controls barcode rendering.
type Options struct {
	// Logo drawn at the left edge. When nil a procedural disc logo is
	// used. The logo is resized to 8x BarWidth so the scanner can use it
	// as the height reference.
	Logo image.Image

	BarWidth    int    // width of each bar in pixels
	BarPadding  int    // horizontal gap between bars in pixels
	LogoPadding int    // gap between logo and first bar in pixels
	Height      int    // output image height in pixels
	Background  string // background color name
	Bar         string // bar color name
}

// DefaultOptions returns the standard barcode geometry.
func DefaultOptions() Options {
	return Options{
		BarWidth:    8,
		BarPadding:  8,
		LogoPadding: 10,
		Height:      100,
		Background:  "black",
		Bar:         "white",
	}
}

// cornerRadius is the rounding radius of each bar, in pixels.
const cornerRadius = 4

// Render draws the symbol sequence into a new image.
func Render(symbols []int, opts Options) (image.Image, error) {
	if len(symbols) != codec.SymbolCount {
		return nil, fmt.Errorf("expected %d bars, got %d", codec.SymbolCount, len(symbols))
	}
	for i, s := range symbols {
		if s < 0 || s > codec.MaxBarHeight {
			return nil, fmt.Errorf("bar height %d at position %d outside [0,%d]", s, i, codec.MaxBarHeight)
		}
	}

	bg, ok := Palette[opts.Background]
	if !ok {
		return nil, fmt.Errorf("unknown background color: %q", opts.Background)
	}
	barColor, ok := Palette[opts.Bar]
	if !ok {
		return nil, fmt.Errorf("unknown bar color: %q", opts.Bar)
	}
	if opts.Background == opts.Bar {
		return nil, fmt.Errorf("background and bar color must differ: %q", opts.Bar)
	}
	if opts.BarWidth <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("bar width %d and height %d must be positive", opts.BarWidth, opts.Height)
	}

	logoSize := 8 * opts.BarWidth
	logo := opts.Logo
	if logo == nil {
		logo = DiscLogo(logoSize, barColor)
	}

	barsWidth := len(symbols)*opts.BarWidth + (len(symbols)-1)*opts.BarPadding
	width := logoSize + opts.LogoPadding + barsWidth + 20
	centerY := opts.Height / 2

	img := imaging.New(width, opts.Height, bg)

	scaled := imaging.Resize(logo, logoSize, logoSize, imaging.Lanczos)
	logoY := (opts.Height - logoSize) / 2
	img = imaging.Overlay(img, scaled, image.Pt(0, logoY), 1.0)

	barsStartX := logoSize + opts.LogoPadding
	for i, s := range symbols {
		x0 := barsStartX + i*(opts.BarWidth+opts.BarPadding)
		half := (s + 1) * opts.BarWidth / 2
		drawRoundedBar(img, x0, centerY-half, x0+opts.BarWidth, centerY+half, cornerRadius, barColor)
	}

	return img, nil
}

// drawRoundedBar fills the inclusive rectangle [x0,x1]x[y0,y1] with
// rounded corners of the given radius.
func drawRoundedBar(img *image.NRGBA, x0, y0, x1, y1, radius int, c color.NRGBA) {
	if radius*2 > x1-x0 {
		radius = (x1 - x0) / 2
	}
	if radius*2 > y1-y0 {
		radius = (y1 - y0) / 2
	}
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if insideRounded(x, y, x0, y0, x1, y1, radius) {
				img.SetNRGBA(x, y, c)
			}
		}
	}
}

func insideRounded(x, y, x0, y0, x1, y1, radius int) bool {
	// Offsets into the nearest corner square; negative means outside the
	// corner region, where the plain rectangle applies.
	dx := max(x0+radius-x, x-(x1-radius))
	dy := max(y0+radius-y, y-(y1-radius))
	if dx <= 0 || dy <= 0 {
		return true
	}
	return dx*dx+dy*dy <= radius*radius
}
