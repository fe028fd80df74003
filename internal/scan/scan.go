// Package scan extracts the 23-bar symbol sequence from a rendered
// barcode image. It thresholds the image with Otsu's method, walks the
// columns for vertical runs of foreground pixels, and quantizes each
// bar's pixel height against the logo, which is always the leftmost run.
package scan

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/soundtag-tech/soundtag/internal/codec"
	"github.com/soundtag-tech/soundtag/internal/utils"
)

// ErrNoBars reports an image with no detectable bar runs.
var ErrNoBars = errors.New("no bars found in image")

// Symbols extracts the 23 bar heights from a barcode image. The image
// must contain the logo followed by all 23 bars; cropping is the
// detector's job.
func Symbols(img image.Image) ([]int, error) {
	gray := utils.ToGray(img)
	threshold := utils.OtsuThreshold(utils.Histogram(gray))

	// Bars may be lighter or darker than the background. Try both
	// polarities and keep the one finding more runs.
	light := barRuns(utils.Binarize(gray, threshold, false))
	dark := barRuns(utils.Binarize(gray, threshold, true))
	runs := light
	if len(dark) > len(light) {
		runs = dark
	}

	if len(runs) == 0 {
		return nil, ErrNoBars
	}

	// The first run is the logo; its height is the reference scale.
	logoHeight := runs[0]
	if logoHeight <= 0 {
		return nil, ErrNoBars
	}

	symbols := make([]int, 0, len(runs)-1)
	for _, h := range runs[1:] {
		ratio := float64(h) / float64(logoHeight) * 8
		symbols = append(symbols, int(math.Floor(ratio))-1)
	}

	if len(symbols) != codec.SymbolCount {
		return nil, fmt.Errorf("found %d bars, want %d", len(symbols), codec.SymbolCount)
	}
	for i, s := range symbols {
		if s < 0 || s > codec.MaxBarHeight {
			return nil, fmt.Errorf("bar %d quantized to %d, outside [0,%d]", i, s, codec.MaxBarHeight)
		}
	}
	return symbols, nil
}

// SymbolsFromFile loads an image file and extracts its symbol sequence.
func SymbolsFromFile(path string) ([]int, error) {
	img, err := utils.LoadImage(path)
	if err != nil {
		return nil, err
	}
	return Symbols(img)
}

// barRuns scans a binarized image column by column and returns the pixel
// height of each horizontal run of foreground columns, left to right.
func barRuns(bin *image.Gray) []int {
	b := bin.Bounds()
	var runs []int

	inBar := false
	runMin, runMax := 0, 0

	for x := b.Min.X; x < b.Max.X; x++ {
		colMin, colMax := -1, -1
		for y := b.Min.Y; y < b.Max.Y; y++ {
			if bin.GrayAt(x, y).Y > 128 {
				if colMin < 0 {
					colMin = y
				}
				colMax = y
			}
		}

		switch {
		case colMax >= 0 && !inBar:
			inBar = true
			runMin, runMax = colMin, colMax
		case colMax >= 0:
			runMin = min(runMin, colMin)
			runMax = max(runMax, colMax)
		case inBar:
			runs = append(runs, runMax-runMin)
			inBar = false
		}
	}
	if inBar {
		runs = append(runs, runMax-runMin)
	}
	return runs
}
