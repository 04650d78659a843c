package frame

import "strings"

// State is the position of the Detector inside the dump protocol.
type State int

const (
	StateIdle State = iota
	StateAwaitRLEEncoded
	StateAwaitRLEEnd
	StateCapturingGrid
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitRLEEncoded:
		return "await-rle-encoded"
	case StateAwaitRLEEnd:
		return "await-rle-end"
	case StateCapturingGrid:
		return "capturing-grid"
	default:
		return "unknown"
	}
}

// Detector recognises dump framing in a stream of lines and assembles frames.
// Feed it one line per bounded read; a read that timed out is fed with
// ok == false.
// Note: This is accessed only from a single goroutine,
// so no synchronization is needed
type Detector struct {
	state   State
	encoded string
	rows    []string
}

// NewDetector creates a detector in the idle state
func NewDetector() *Detector {
	return &Detector{state: StateIdle}
}

// State returns the current protocol state.
func (d *Detector) State() State {
	return d.state
}

// Feed advances the state machine by one read. It returns a completed frame
// and true when the read finished a dump.
func (d *Detector) Feed(line string, ok bool) (Frame, bool) {
	switch d.state {
	case StateIdle:
		if !ok {
			return nil, false
		}
		// RLE wins if a line somehow carries both markers.
		if strings.Contains(line, RLEBegin) {
			d.state = StateAwaitRLEEncoded
			d.encoded = ""
		} else if strings.Contains(line, GridBegin) {
			d.state = StateCapturingGrid
			d.rows = nil
		}
		return nil, false

	case StateAwaitRLEEncoded:
		// A timeout leaves the payload empty; the dump still completes.
		if ok {
			d.encoded = line
		}
		d.state = StateAwaitRLEEnd
		return nil, false

	case StateAwaitRLEEnd:
		// Whatever arrives here is taken as the end marker.
		f := RLEFrame{Encoded: d.encoded}
		d.reset()
		return f, true

	case StateCapturingGrid:
		if !ok || strings.Contains(line, GridEnd) {
			f := GridFrame{Rows: d.rows}
			d.reset()
			return f, true
		}
		d.rows = append(d.rows, line)
		return nil, false
	}
	return nil, false
}

// Reset drops any partial capture and returns to idle.
func (d *Detector) Reset() {
	d.reset()
}

func (d *Detector) reset() {
	d.state = StateIdle
	d.encoded = ""
	d.rows = nil
}
