// Package decode turns captured dump frames into bitmaps.
package decode

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"screendump/internal/bitmap"
	"screendump/internal/config"
	"screendump/internal/frame"
)

// ErrEmptyPayload means the dump carried nothing to draw. It is not a
// failure: the caller skips the image and keeps listening.
var ErrEmptyPayload = errors.New("empty payload")

// RLE decodes a run-length encoded payload onto a display-sized bitmap.
// Runs are laid out row-major from the top-left pixel, wrapping at the
// display width. Pixels past the last row are dropped.
func RLE(encoded string, display config.Display) (*bitmap.Bitmap, error) {
	if encoded == "" {
		return nil, ErrEmptyPayload
	}
	if err := display.Validate(); err != nil {
		return nil, err
	}

	b := bitmap.New(display.Width, display.Height)
	total := display.Width * display.Height
	cursor := 0
	for _, tok := range Parse(encoded) {
		if cursor >= total {
			break
		}
		// Everything beyond total is out of bounds anyway, so clamping the
		// run does not change which pixels get written.
		n := tok.Length
		if n > total-cursor {
			n = total - cursor
		}
		on := tok.On()
		for i := 0; i < n; i++ {
			b.Set(cursor%display.Width, cursor/display.Width, on)
			cursor++
		}
	}
	return b, nil
}

// Grid decodes ASCII-art rows: '#' is an on pixel, anything else is off.
// The height is the row count and the width is the character count of the
// first row; characters beyond that width are dropped.
func Grid(rows []string) (*bitmap.Bitmap, error) {
	if len(rows) == 0 || rows[0] == "" {
		return nil, ErrEmptyPayload
	}

	b := bitmap.New(utf8.RuneCountInString(rows[0]), len(rows))
	for y, row := range rows {
		x := 0
		for _, r := range row {
			if r == '#' {
				b.Set(x, y, true)
			}
			x++
		}
	}
	return b, nil
}

// Frame dispatches a captured frame to the matching decoder.
func Frame(f frame.Frame, display config.Display) (*bitmap.Bitmap, error) {
	switch f := f.(type) {
	case frame.RLEFrame:
		return RLE(f.Encoded, display)
	case frame.GridFrame:
		return Grid(f.Rows)
	default:
		return nil, fmt.Errorf("unsupported frame type %T", f)
	}
}
