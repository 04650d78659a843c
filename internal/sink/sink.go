package sink

import (
	"fmt"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"screendump/internal/bitmap"
)

// TimestampLayout is inserted between stem and extension of every output file.
const TimestampLayout = "20060102_150405"

// Sink writes decoded bitmaps as timestamped PNG files.
//
// Two saves within the same second with the same base path produce the same
// filename; the second write replaces the first.
type Sink struct {
	// Base is the output path before the timestamp is inserted,
	// e.g. "screenshot.png".
	Base string

	// Now defaults to time.Now.
	Now func() time.Time

	// Preview, when set, receives a text rendering of every saved bitmap.
	Preview io.Writer
}

// New creates a sink writing to base.
func New(base string) *Sink {
	return &Sink{Base: base, Now: time.Now}
}

// OutputPath inserts "_" and the local timestamp between the stem and the
// extension of base: "shots/screen.png" -> "shots/screen_20250613_142530.png".
func OutputPath(base string, now time.Time) string {
	stem, ext := splitExt(base)
	return stem + "_" + now.Format(TimestampLayout) + ext
}

// splitExt splits off the extension of the last path element. Leading dots
// of the element do not start an extension, so ".profile" has none.
func splitExt(path string) (string, string) {
	dir, file := filepath.Split(path)
	trimmed := strings.TrimLeft(file, ".")
	i := strings.LastIndex(trimmed, ".")
	if i < 0 {
		return path, ""
	}
	i += len(file) - len(trimmed)
	return dir + file[:i], file[i:]
}

// Save renders b and writes it under a freshly computed path, which is
// returned.
func (s *Sink) Save(b *bitmap.Bitmap) (string, error) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	path := OutputPath(s.Base, now())

	if err := writePNG(path, b); err != nil {
		return "", fmt.Errorf("failed to save image file %s: %w", path, err)
	}
	slog.Info("Screenshot saved", "path", path, "width", b.Width, "height", b.Height)

	if s.Preview != nil {
		if err := Preview(s.Preview, b); err != nil {
			slog.Warn("Failed to print preview", "error", err)
		}
	}
	return path, nil
}

func writePNG(path string, b *bitmap.Bitmap) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, b.Image()); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Preview prints b as '#'/'.' rows.
func Preview(w io.Writer, b *bitmap.Bitmap) error {
	for _, row := range b.Rows() {
		if _, err := fmt.Fprintln(w, row); err != nil {
			return err
		}
	}
	return nil
}
