package listener

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"screendump/internal/bitmap"
	"screendump/internal/config"
	"screendump/internal/decode"
	"screendump/internal/frame"
	"screendump/internal/serialport"
)

// ErrConnectionLost wraps a read failure of the line source.
var ErrConnectionLost = errors.New("connection lost")

// Saver persists a decoded bitmap and returns where it went.
type Saver interface {
	Save(b *bitmap.Bitmap) (string, error)
}

// Recorder receives every bounded read before it is interpreted.
type Recorder interface {
	Record(line string, ok bool) error
}

// Stats counts what happened to the dumps seen so far.
type Stats struct {
	Frames int // complete dumps captured
	Saved  int // images written
	Empty  int // dumps without payload
	Failed int // decode or write failures
}

// Listener turns a line source into saved screenshots, one dump at a time.
type Listener struct {
	Display  config.Display
	Saver    Saver
	Recorder Recorder

	detector *frame.Detector
	stats    Stats
}

// New creates a listener that lays out RLE dumps on display and hands
// decoded bitmaps to saver.
func New(display config.Display, saver Saver) *Listener {
	return &Listener{
		Display:  display,
		Saver:    saver,
		detector: frame.NewDetector(),
	}
}

// Stats returns the counters accumulated so far.
func (l *Listener) Stats() Stats {
	return l.stats
}

// Run listens on conn until ctx is cancelled or the connection fails. conn is
// closed before Run returns, on every path.
func Run(ctx context.Context, conn io.ReadCloser, l *Listener) error {
	defer func() {
		if err := conn.Close(); err != nil {
			slog.Error("Failed to close connection", "error", err)
		}
	}()
	return l.Listen(ctx, serialport.NewLineReader(conn))
}

// Listen reads from src until ctx is cancelled, src is exhausted (io.EOF), or
// a read fails. Cancellation and exhaustion return nil; a failed read returns
// an error wrapping ErrConnectionLost. Cancellation is checked between reads,
// so it takes effect within one read timeout.
func (l *Listener) Listen(ctx context.Context, src serialport.LineSource) error {
	if l.detector == nil {
		l.detector = frame.NewDetector()
	}
	waiting := false

	for {
		if ctx.Err() != nil {
			slog.Info("Listener interrupted")
			return nil
		}
		if !waiting && l.detector.State() == frame.StateIdle {
			slog.Info("Waiting for screenshot dump", "format", "auto-detect")
			waiting = true
		}

		line, ok, err := src.ReadLine()
		if errors.Is(err, io.EOF) {
			slog.Info("Line source exhausted")
			l.drain()
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrConnectionLost, err)
		}
		l.record(line, ok)

		before := l.detector.State()
		f, done := l.detector.Feed(line, ok)
		after := l.detector.State()

		if before == frame.StateIdle && after != frame.StateIdle {
			waiting = false
			switch after {
			case frame.StateAwaitRLEEncoded:
				slog.Info("Compressed (RLE) dump detected, capturing")
			case frame.StateCapturingGrid:
				slog.Info("Uncompressed dump detected, capturing")
			}
		} else if ok && before == frame.StateIdle && line != "" {
			slog.Debug("Ignoring line", "line", line)
		}

		if done {
			l.handle(f)
		}
	}
}

// drain finishes a capture cut short by the end of the source, as if every
// further read had timed out.
func (l *Listener) drain() {
	for l.detector.State() != frame.StateIdle {
		if f, done := l.detector.Feed("", false); done {
			l.handle(f)
		}
	}
}

func (l *Listener) record(line string, ok bool) {
	if l.Recorder == nil {
		return
	}
	if err := l.Recorder.Record(line, ok); err != nil {
		slog.Error("Failed to write capture log, recording disabled", "error", err)
		l.Recorder = nil
	}
}

// handle decodes and saves one captured frame. Nothing here stops the
// listener: empty payloads are skipped, failures are logged.
func (l *Listener) handle(f frame.Frame) {
	l.stats.Frames++
	switch f := f.(type) {
	case frame.RLEFrame:
		slog.Info("Capture complete", "format", "rle", "bytes", len(f.Encoded))
	case frame.GridFrame:
		slog.Info("Capture complete", "format", "grid", "rows", len(f.Rows))
	}

	b, err := decode.Frame(f, l.Display)
	if errors.Is(err, decode.ErrEmptyPayload) {
		l.stats.Empty++
		if _, isRLE := f.(frame.RLEFrame); isRLE {
			slog.Info("RLE data is empty, no image created")
		} else {
			slog.Info("No data captured, no image created")
		}
		return
	}
	if err != nil {
		l.stats.Failed++
		slog.Error("Failed to decode dump", "error", err)
		return
	}

	slog.Info("Creating image", "width", b.Width, "height", b.Height)
	if _, err := l.Saver.Save(b); err != nil {
		l.stats.Failed++
		slog.Error("Could not save image file", "error", err)
		return
	}
	l.stats.Saved++
}
