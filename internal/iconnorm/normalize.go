// Package iconnorm gives every non-adaptive icon the same framing: the
// source image is scaled into a padded square and composited over a white
// disc.
package iconnorm

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// DefaultInset is the padding on each side, as a fraction of the size.
// It keeps the scaled foreground inside the disc.
const DefaultInset = 1.0 / 6

// Normalizer composites icons into size x size squares.
type Normalizer struct {
	size  int
	inset float64
}

// New creates a normalizer. Non-positive sizes fall back to 192 and insets
// outside [0, 0.5) fall back to DefaultInset.
func New(size int, inset float64) *Normalizer {
	if size <= 0 {
		size = 192
	}
	if inset < 0 || inset >= 0.5 {
		inset = DefaultInset
	}
	return &Normalizer{size: size, inset: inset}
}

// Size returns the edge length of produced icons.
func (n *Normalizer) Size() int { return n.size }

// Normalize returns src framed on a white disc. A nil src yields nil.
func (n *Normalizer) Normalize(src image.Image) image.Image {
	if src == nil {
		return nil
	}

	bounds := image.Rect(0, 0, n.size, n.size)
	mask := &disc{size: n.size}

	dst := image.NewRGBA(bounds)
	draw.DrawMask(dst, bounds, image.White, image.Point{}, mask, image.Point{}, draw.Over)

	pad := int(float64(n.size) * n.inset)
	fg := image.NewRGBA(bounds)
	xdraw.CatmullRom.Scale(fg, image.Rect(pad, pad, n.size-pad, n.size-pad), src, src.Bounds(), xdraw.Over, nil)

	draw.DrawMask(dst, bounds, fg, image.Point{}, mask, image.Point{}, draw.Over)
	return dst
}

// disc is an alpha mask that is opaque inside the inscribed circle.
type disc struct {
	size int
}

func (d *disc) ColorModel() color.Model { return color.AlphaModel }

func (d *disc) Bounds() image.Rectangle { return image.Rect(0, 0, d.size, d.size) }

func (d *disc) At(x, y int) color.Color {
	r := float64(d.size) / 2
	dx := float64(x) + 0.5 - r
	dy := float64(y) + 0.5 - r
	if dx*dx+dy*dy <= r*r {
		return color.Alpha{A: 255}
	}
	return color.Alpha{}
}
