package serialport

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"
)

// LineSource yields text lines with a bounded wait per line.
type LineSource interface {
	// ReadLine returns the next line without its terminator and surrounding
	// whitespace. ok is false when the wait elapsed without any data; that
	// is not an error. io.EOF means the source is exhausted.
	ReadLine() (line string, ok bool, err error)
}

// LineReader splits a byte stream into lines. The underlying reader is
// expected to return (0, nil) or a timeout error when its read timeout
// elapses, as serial ports opened with a read timeout do.
type LineReader struct {
	rd    io.Reader
	buf   []byte
	chunk []byte
	eof   bool
}

var _ LineSource = &LineReader{}

// NewLineReader creates a LineReader on top of rd.
func NewLineReader(rd io.Reader) *LineReader {
	return &LineReader{
		rd:    rd,
		chunk: make([]byte, 512),
	}
}

// ReadLine implements LineSource. A timeout in the middle of a line returns
// the bytes received so far as a line of their own.
func (r *LineReader) ReadLine() (string, bool, error) {
	timedOut := false
	for {
		if i := bytes.IndexByte(r.buf, '\n'); i >= 0 {
			line := clean(r.buf[:i])
			r.buf = r.buf[i+1:]
			return line, true, nil
		}
		if timedOut {
			return r.flush(nil)
		}
		if r.eof {
			return r.flush(io.EOF)
		}

		n, err := r.rd.Read(r.chunk)
		if n > 0 {
			r.buf = append(r.buf, r.chunk[:n]...)
		}
		switch {
		case err == nil && n > 0:
		case err == nil, isTimeout(err):
			timedOut = true
		case errors.Is(err, io.EOF):
			r.eof = true
		default:
			return "", false, err
		}
	}
}

// flush returns any partial line, or (false, err) when nothing is pending.
func (r *LineReader) flush(err error) (string, bool, error) {
	if len(r.buf) == 0 {
		return "", false, err
	}
	line := clean(r.buf)
	r.buf = r.buf[:0]
	return line, true, nil
}

// clean drops invalid UTF-8 and trims surrounding whitespace, including the
// carriage return of CRLF line endings.
func clean(b []byte) string {
	return strings.TrimSpace(strings.ToValidUTF8(string(b), ""))
}

func isTimeout(err error) bool {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
