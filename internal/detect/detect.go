// Package detect locates a barcode inside an arbitrary image. It finds
// the logo by multi-scale normalized cross-correlation against a
// template, estimates the bar region to the logo's right, and validates
// the region's background color against the accepted palette. The
// cropped region is then handed to the scan package.
package detect

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
	"github.com/soundtag-tech/soundtag/internal/render"
	"github.com/soundtag-tech/soundtag/internal/utils"
)

// Result describes the outcome of a detection attempt.
type Result struct {
	Found bool

	// Region covers logo and bars in image coordinates, valid when Found.
	Region image.Rectangle

	// LogoConfidence is the best correlation score in [-1,1].
	LogoConfidence float64

	// Reason explains a failed detection.
	Reason string
}

// Detector locates barcodes by logo template matching.
type Detector struct {
	template      *image.Gray
	minConfidence float64
	scales        []float64
}

// DefaultScales are the template scales tried during matching.
var DefaultScales = []float64{0.5, 0.75, 1.0, 1.25, 1.5, 2.0}

// DefaultMinConfidence is the correlation score below which a logo match
// is rejected.
const DefaultMinConfidence = 0.4

// minPatchStddev rejects matches on flat, featureless patches.
const minPatchStddev = 10.0

// maxBackgroundDistance is the RGB distance within which the region
// background must match a palette color.
const maxBackgroundDistance = 80.0

// New creates a detector for the given logo template.
func New(logo image.Image, minConfidence float64) *Detector {
	return &Detector{
		template:      utils.ToGray(logo),
		minConfidence: minConfidence,
		scales:        DefaultScales,
	}
}

// NewFromFile creates a detector with a logo template loaded from disk.
func NewFromFile(path string, minConfidence float64) (*Detector, error) {
	logo, err := utils.LoadImage(path)
	if err != nil {
		return nil, err
	}
	return New(logo, minConfidence), nil
}

// Detect searches the image for the logo and the bar region beside it.
func (d *Detector) Detect(img image.Image) Result {
	gray := utils.ToGray(img)

	logoRect, confidence, ok := d.locateLogo(gray)
	if !ok {
		return Result{Reason: "logo not detected in image"}
	}

	region, ok := candidateRegion(img.Bounds(), logoRect)
	if !ok {
		return Result{LogoConfidence: confidence, Reason: "could not extract candidate region"}
	}

	if !backgroundAcceptable(img, region) {
		return Result{LogoConfidence: confidence, Reason: "background color not in acceptable palette"}
	}

	return Result{
		Found:          true,
		Region:         image.Rect(logoRect.Min.X, logoRect.Min.Y, region.Max.X, logoRect.Max.Y),
		LogoConfidence: confidence,
	}
}

// locateLogo runs template matching at every scale and keeps the best
// scoring position, gated by the confidence threshold and a variance
// check on the matched patch.
func (d *Detector) locateLogo(gray *image.Gray) (image.Rectangle, float64, bool) {
	tb := d.template.Bounds()
	best := -1.0
	var bestRect image.Rectangle

	for _, scale := range d.scales {
		tw := int(float64(tb.Dx()) * scale)
		th := int(float64(tb.Dy()) * scale)
		if tw <= 0 || th <= 0 || tw > gray.Bounds().Dx() || th > gray.Bounds().Dy() {
			continue
		}

		scaled := utils.ToGray(imaging.Resize(d.template, tw, th, imaging.Linear))
		x, y, score := matchTemplate(gray, scaled)
		if score > best {
			best = score
			bestRect = image.Rect(x, y, x+tw, y+th)
		}
	}

	if bestRect.Empty() || best < d.minConfidence {
		return image.Rectangle{}, 0, false
	}
	if patchStddev(gray, bestRect) < minPatchStddev {
		return image.Rectangle{}, 0, false
	}
	return bestRect, best, true
}

// matchTemplate slides tpl over the image and returns the offset with the
// highest zero-mean normalized cross-correlation.
func matchTemplate(img, tpl *image.Gray) (int, int, float64) {
	iw, ih := img.Bounds().Dx(), img.Bounds().Dy()
	tw, th := tpl.Bounds().Dx(), tpl.Bounds().Dy()

	tplMean, tplEnergy := patchStats(tpl, tpl.Bounds())

	bestX, bestY, bestScore := 0, 0, -1.0
	for oy := 0; oy <= ih-th; oy++ {
		for ox := 0; ox <= iw-tw; ox++ {
			window := image.Rect(ox, oy, ox+tw, oy+th)
			winMean, winEnergy := patchStats(img, window)

			if winEnergy == 0 || tplEnergy == 0 {
				continue
			}

			num := 0.0
			for y := 0; y < th; y++ {
				for x := 0; x < tw; x++ {
					iv := float64(img.GrayAt(ox+x, oy+y).Y) - winMean
					tv := float64(tpl.GrayAt(tpl.Bounds().Min.X+x, tpl.Bounds().Min.Y+y).Y) - tplMean
					num += iv * tv
				}
			}

			score := num / math.Sqrt(winEnergy*tplEnergy)
			if score > bestScore {
				bestX, bestY, bestScore = ox, oy, score
			}
		}
	}
	return bestX, bestY, bestScore
}

// patchStats returns the mean and the zero-mean energy (sum of squared
// deviations) of a rectangular patch.
func patchStats(img *image.Gray, r image.Rectangle) (float64, float64) {
	n := float64(r.Dx() * r.Dy())
	if n == 0 {
		return 0, 0
	}

	sum := 0.0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			sum += float64(img.GrayAt(x, y).Y)
		}
	}
	mean := sum / n

	energy := 0.0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			d := float64(img.GrayAt(x, y).Y) - mean
			energy += d * d
		}
	}
	return mean, energy
}

func patchStddev(img *image.Gray, r image.Rectangle) float64 {
	n := float64(r.Dx() * r.Dy())
	if n == 0 {
		return 0
	}
	_, energy := patchStats(img, r)
	return math.Sqrt(energy / n)
}

// candidateRegion estimates where the bars sit: a strip right of the
// logo, as tall as the logo and roughly six logo widths wide, clamped to
// the image.
func candidateRegion(bounds, logo image.Rectangle) (image.Rectangle, bool) {
	cropX := logo.Max.X + 5
	cropY := max(logo.Min.Y, bounds.Min.Y)

	estimated := min(bounds.Max.X-cropX-10, max(100, logo.Dx()*6))
	if cropX >= bounds.Max.X || cropY >= bounds.Max.Y || estimated <= 0 {
		return image.Rectangle{}, false
	}

	cropW := min(estimated, bounds.Max.X-cropX)
	cropH := min(logo.Dy(), bounds.Max.Y-cropY)
	return image.Rect(cropX, cropY, cropX+cropW, cropY+cropH), true
}

// backgroundAcceptable samples the edges of the candidate region and
// checks the mean color against the accepted background palette.
func backgroundAcceptable(img image.Image, region image.Rectangle) bool {
	w, h := region.Dx(), region.Dy()
	margin := min(w/8, h/8, 15)
	if margin == 0 {
		margin = 1
	}

	var rSum, gSum, bSum, count float64
	sample := func(x, y int) {
		r, g, b, _ := img.At(x, y).RGBA()
		rSum += float64(r >> 8)
		gSum += float64(g >> 8)
		bSum += float64(b >> 8)
		count++
	}

	stepX, stepY := max(1, w/8), max(1, h/8)
	for y := region.Min.Y; y < min(region.Min.Y+margin, region.Max.Y); y++ {
		for x := region.Min.X; x < region.Max.X; x += stepX {
			sample(x, y)
		}
	}
	for y := max(region.Min.Y, region.Max.Y-margin); y < region.Max.Y; y++ {
		for x := region.Min.X; x < region.Max.X; x += stepX {
			sample(x, y)
		}
	}
	for y := region.Min.Y; y < region.Max.Y; y += stepY {
		for x := region.Min.X; x < min(region.Min.X+margin, region.Max.X); x++ {
			sample(x, y)
		}
		for x := max(region.Min.X, region.Max.X-margin); x < region.Max.X; x++ {
			sample(x, y)
		}
	}
	if count == 0 {
		return false
	}

	meanR, meanG, meanB := rSum/count, gSum/count, bSum/count
	for _, c := range render.Palette {
		dr := meanR - float64(c.R)
		dg := meanG - float64(c.G)
		db := meanB - float64(c.B)
		if math.Sqrt(dr*dr+dg*dg+db*db) < maxBackgroundDistance {
			return true
		}
	}
	return false
}
