package simulator

import (
	"strconv"
	"strings"

	"screendump/internal/bitmap"
	"screendump/internal/frame"
)

// EncodeRLE run-length encodes b row-major as W<n>/B<n> tokens. Runs continue
// across row boundaries, exactly as the listener lays them out.
func EncodeRLE(b *bitmap.Bitmap) string {
	var sb strings.Builder
	total := b.Width * b.Height
	for i := 0; i < total; {
		on := b.On(i%b.Width, i/b.Width)
		n := 1
		for i+n < total && b.On((i+n)%b.Width, (i+n)/b.Width) == on {
			n++
		}
		if on {
			sb.WriteByte('W')
		} else {
			sb.WriteByte('B')
		}
		sb.WriteString(strconv.Itoa(n))
		i += n
	}
	return sb.String()
}

// RLEDump returns the wire lines of a compressed dump of b.
func RLEDump(b *bitmap.Bitmap) []string {
	return []string{frame.RLEBegin, EncodeRLE(b), frame.RLEEnd}
}

// GridDump returns the wire lines of an uncompressed dump of b.
func GridDump(b *bitmap.Bitmap) []string {
	lines := make([]string, 0, b.Height+2)
	lines = append(lines, frame.GridBegin)
	lines = append(lines, b.Rows()...)
	return append(lines, frame.GridEnd)
}

// TestPattern draws a one-pixel border and a vertical bar whose position
// advances with step, so consecutive screenshots differ.
func TestPattern(width, height, step int) *bitmap.Bitmap {
	b := bitmap.New(width, height)
	for x := 0; x < width; x++ {
		b.Set(x, 0, true)
		b.Set(x, height-1, true)
	}
	for y := 0; y < height; y++ {
		b.Set(0, y, true)
		b.Set(width-1, y, true)
	}
	if width > 4 {
		bar := 2 + step%(width-4)
		for y := 2; y < height-2; y++ {
			b.Set(bar, y, true)
		}
	}
	return b
}
