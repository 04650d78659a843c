package capturelog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Writer appends records to an io.Writer. It is safe for concurrent use.
type Writer struct {
	mu     sync.Mutex
	w      *bufio.Writer
	closer io.Closer
	now    func() time.Time
}

// NewWriter creates a Writer on top of w. Close flushes but does not close w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{
		w:   bufio.NewWriter(w),
		now: time.Now,
	}
}

// Create opens path for appending, creating it if needed.
func Create(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open capture log: %w", err)
	}
	w := NewWriter(f)
	w.closer = f
	return w, nil
}

// Record appends one read. ok == false records a timeout.
// Every record is flushed so the log survives a crash mid-session.
func (w *Writer) Record(line string, ok bool) error {
	rec := Record{
		Stream:    StreamRX,
		Timestamp: w.now().UTC(),
		Line:      []byte(line),
	}
	if !ok {
		rec.Stream = StreamTimeout
		rec.Line = nil
	}
	return w.Write(rec)
}

// Write appends rec as is.
func (w *Writer) Write(rec Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.w == nil {
		return fmt.Errorf("capture log writer is closed")
	}
	if _, err := w.w.Write(FormatRecord(rec)); err != nil {
		return err
	}
	return w.w.Flush()
}

// Close flushes pending data and closes the underlying file, if the writer
// owns one.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.w == nil {
		return nil
	}
	err := w.w.Flush()
	w.w = nil
	if w.closer != nil {
		if cerr := w.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
