package capturelog

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"
)

// Reader decodes records written by Writer.
type Reader struct {
	r *bufio.Reader
}

// NewReader creates a Reader on top of r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// Next returns the next record. It returns io.EOF at a clean end of input and
// a descriptive error for a truncated or malformed record.
func (r *Reader) Next() (Record, error) {
	var rec Record

	stream, err := r.r.ReadString(' ')
	if err != nil {
		if errors.Is(err, io.EOF) && stream == "" {
			return rec, io.EOF
		}
		return rec, fmt.Errorf("reading stream: %w", unexpected(err))
	}
	rec.Stream = stream[:len(stream)-1]

	ts, err := r.r.ReadString(' ')
	if err != nil {
		return rec, fmt.Errorf("reading timestamp: %w", unexpected(err))
	}
	rec.Timestamp, err = time.Parse(timestampLayout, ts[:len(ts)-1])
	if err != nil {
		return rec, fmt.Errorf("parsing timestamp: %w", err)
	}

	lengthStr, err := r.r.ReadString(':')
	if err != nil {
		return rec, fmt.Errorf("reading length: %w", unexpected(err))
	}
	length, err := strconv.Atoi(lengthStr[:len(lengthStr)-1])
	if err != nil || length < 0 {
		return rec, fmt.Errorf("parsing length %q", lengthStr[:len(lengthStr)-1])
	}

	if b, err := r.r.ReadByte(); err != nil {
		return rec, fmt.Errorf("reading space after colon: %w", unexpected(err))
	} else if b != ' ' {
		return rec, fmt.Errorf("expected space after colon, got %q", b)
	}

	rec.Line = make([]byte, length)
	if _, err := io.ReadFull(r.r, rec.Line); err != nil {
		return rec, fmt.Errorf("reading content (%d bytes): %w", length, unexpected(err))
	}

	if b, err := r.r.ReadByte(); err != nil {
		return rec, fmt.Errorf("reading record separator: %w", unexpected(err))
	} else if b != '\n' {
		return rec, fmt.Errorf("expected newline separator, got %q", b)
	}
	return rec, nil
}

// All reads every remaining record.
func (r *Reader) All() ([]Record, error) {
	var out []Record
	for {
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
}

// unexpected turns a mid-record io.EOF into io.ErrUnexpectedEOF so callers
// can tell truncation from a clean end.
func unexpected(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}
