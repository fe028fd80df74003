package utils

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// ToGray converts an image to 8-bit grayscale.
func ToGray(img image.Image) *image.Gray {
	nrgba := imaging.Grayscale(img)
	b := nrgba.Bounds()
	gray := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			// Grayscale output has R == G == B.
			i := nrgba.PixOffset(x, y)
			gray.SetGray(x, y, color.Gray{Y: nrgba.Pix[i]})
		}
	}
	return gray
}

// Histogram computes the 256-bin luminance histogram of a grayscale image.
func Histogram(gray *image.Gray) [256]int {
	var hist [256]int
	b := gray.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := gray.Pix[(y-b.Min.Y)*gray.Stride : (y-b.Min.Y)*gray.Stride+b.Dx()]
		for _, v := range row {
			hist[v]++
		}
	}
	return hist
}

// OtsuThreshold picks the threshold maximizing between-class variance.
func OtsuThreshold(hist [256]int) int {
	total := 0
	sumAll := 0.0
	for t, c := range hist {
		total += c
		sumAll += float64(t * c)
	}

	sumB := 0.0
	weightB := 0
	maxVar := 0.0
	threshold := 0

	for t, c := range hist {
		weightB += c
		if weightB == 0 {
			continue
		}
		weightF := total - weightB
		if weightF == 0 {
			break
		}

		sumB += float64(t * c)
		meanB := sumB / float64(weightB)
		meanF := (sumAll - sumB) / float64(weightF)

		v := float64(weightB) * float64(weightF) * (meanB - meanF) * (meanB - meanF)
		if v > maxVar {
			maxVar = v
			threshold = t
		}
	}
	return threshold
}

// Binarize thresholds a grayscale image to {0,255}. With invert false,
// pixels above the threshold become white; with invert true, pixels below
// it do.
func Binarize(gray *image.Gray, threshold int, invert bool) *image.Gray {
	b := gray.Bounds()
	out := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			v := int(gray.GrayAt(x, y).Y)
			white := v > threshold
			if invert {
				white = v < threshold
			}
			if white {
				out.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return out
}
