package capturelog

import (
	"os"
)

// Source replays a capture log as a sequence of bounded reads. It satisfies
// the listener's line source contract: ReadLine returns ok == false for
// recorded timeouts and io.EOF once the log is exhausted.
type Source struct {
	reader *Reader
	closer func() error
}

// NewSource replays records from r.
func NewSource(r *Reader) *Source {
	return &Source{reader: r}
}

// OpenSource opens a capture log file for replay.
func OpenSource(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &Source{reader: NewReader(f), closer: f.Close}, nil
}

func (s *Source) ReadLine() (string, bool, error) {
	rec, err := s.reader.Next()
	if err != nil {
		return "", false, err
	}
	return string(rec.Line), rec.OK(), nil
}

// Close closes the underlying file when the source owns one.
func (s *Source) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}
