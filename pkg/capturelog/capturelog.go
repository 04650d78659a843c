package capturelog

import (
	"fmt"
	"time"
)

const (
	StreamRX      = "rx"
	StreamTimeout = "timeout"

	timestampLayout = "2006-01-02T15:04:05.000000000Z"
)

// Record is one bounded read from the serial line.
type Record struct {
	Stream    string
	Timestamp time.Time // UTC
	Line      []byte
}

// OK reports whether the read delivered a line.
func (r Record) OK() bool {
	return r.Stream != StreamTimeout
}

// FormatRecord encodes a record as "stream timestamp length: content\n".
func FormatRecord(rec Record) []byte {
	timestamp := rec.Timestamp.UTC().Format(timestampLayout)
	out := fmt.Appendf(nil, "%s %s %d: ", rec.Stream, timestamp, len(rec.Line))
	out = append(out, rec.Line...)
	return append(out, '\n')
}
