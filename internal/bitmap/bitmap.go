package bitmap

import (
	"image"
	"image/color"
)

// Palette maps index 0 to off (black) and index 1 to on (white).
var Palette = color.Palette{color.Black, color.White}

// Bitmap is a monochrome pixel grid. Pixels start off.
type Bitmap struct {
	Width  int
	Height int
	pix    []bool
}

// New creates a width x height bitmap with all pixels off.
// Negative dimensions are treated as zero.
func New(width, height int) *Bitmap {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Bitmap{
		Width:  width,
		Height: height,
		pix:    make([]bool, width*height),
	}
}

// Empty reports whether the bitmap has no pixels at all.
func (b *Bitmap) Empty() bool {
	return b.Width == 0 || b.Height == 0
}

// InBounds reports whether (x, y) addresses a pixel of the bitmap.
func (b *Bitmap) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.Width && y < b.Height
}

// Set writes one pixel. Writes outside the bitmap are dropped and reported
// with false.
func (b *Bitmap) Set(x, y int, on bool) bool {
	if !b.InBounds(x, y) {
		return false
	}
	b.pix[y*b.Width+x] = on
	return true
}

// On returns the pixel at (x, y); anything outside the bitmap is off.
func (b *Bitmap) On(x, y int) bool {
	if !b.InBounds(x, y) {
		return false
	}
	return b.pix[y*b.Width+x]
}

// Count returns the number of on pixels.
func (b *Bitmap) Count() int {
	n := 0
	for _, on := range b.pix {
		if on {
			n++
		}
	}
	return n
}

// Image renders the bitmap as a two-color paletted image. image/png stores
// such images with a bit depth of 1.
func (b *Bitmap) Image() *image.Paletted {
	img := image.NewPaletted(image.Rect(0, 0, b.Width, b.Height), Palette)
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			if b.pix[y*b.Width+x] {
				img.SetColorIndex(x, y, 1)
			}
		}
	}
	return img
}

// Rows renders the bitmap as text, one string per row, using '#' for on
// pixels and '.' for off pixels. This is the same alphabet the device uses
// for uncompressed dumps.
func (b *Bitmap) Rows() []string {
	rows := make([]string, b.Height)
	line := make([]byte, b.Width)
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			if b.pix[y*b.Width+x] {
				line[x] = '#'
			} else {
				line[x] = '.'
			}
		}
		rows[y] = string(line)
	}
	return rows
}
