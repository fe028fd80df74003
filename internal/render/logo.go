package render

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// DiscLogo returns a filled disc of the given size on a transparent
// background. It stands in for a branded logo: the scanner only needs a
// solid blob whose height matches the reference scale.
func DiscLogo(size int, c color.NRGBA) *image.NRGBA {
	img := imaging.New(size, size, color.NRGBA{})
	r := float64(size) / 2
	cx, cy := r-0.5, r-0.5
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x) - cx
			dy := float64(y) - cy
			if dx*dx+dy*dy <= r*r {
				img.SetNRGBA(x, y, c)
			}
		}
	}
	return img
}
