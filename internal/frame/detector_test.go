package frame

import (
	"reflect"
	"testing"
)

// read is one bounded read from the line source; ok == false is a timeout.
type read struct {
	line string
	ok   bool
}

func lines(ss ...string) []read {
	out := make([]read, len(ss))
	for i, s := range ss {
		out[i] = read{line: s, ok: true}
	}
	return out
}

var timeout = read{}

func feedAll(d *Detector, reads []read) []Frame {
	var frames []Frame
	for _, r := range reads {
		if f, done := d.Feed(r.line, r.ok); done {
			frames = append(frames, f)
		}
	}
	return frames
}

func TestDetector_GridDumpBetweenNoise(t *testing.T) {
	d := NewDetector()
	frames := feedAll(d, lines(
		"noise",
		"--- SCREEN DUMP BEGIN ---",
		"#.",
		"--- SCREEN DUMP END ---",
		"more noise",
	))

	if len(frames) != 1 {
		t.Fatalf("Expected exactly one frame, got %d", len(frames))
	}
	grid, ok := frames[0].(GridFrame)
	if !ok {
		t.Fatalf("Expected GridFrame, got %T", frames[0])
	}
	if !reflect.DeepEqual(grid.Rows, []string{"#."}) {
		t.Errorf("Expected rows [#.], got %q", grid.Rows)
	}
	if d.State() != StateIdle {
		t.Errorf("Expected idle after trailing noise, got %s", d.State())
	}
}

func TestDetector_RLEDump(t *testing.T) {
	tests := []struct {
		name    string
		reads   []read
		encoded string
	}{
		{
			name:    "well formed",
			reads:   lines("--- RLE DUMP BEGIN ---", "W3B5", "--- RLE DUMP END ---"),
			encoded: "W3B5",
		},
		{
			name:    "end marker not validated",
			reads:   lines("--- RLE DUMP BEGIN ---", "B8", "garbage"),
			encoded: "B8",
		},
		{
			name:    "marker embedded in log prefix",
			reads:   lines("[I] --- RLE DUMP BEGIN --- (screen)", "W1", "--- RLE DUMP END ---"),
			encoded: "W1",
		},
		{
			name:    "payload timed out",
			reads:   []read{{line: "--- RLE DUMP BEGIN ---", ok: true}, timeout, timeout},
			encoded: "",
		},
		{
			name:    "end marker timed out",
			reads:   []read{{line: "--- RLE DUMP BEGIN ---", ok: true}, {line: "W2", ok: true}, timeout},
			encoded: "W2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDetector()
			frames := feedAll(d, tt.reads)
			if len(frames) != 1 {
				t.Fatalf("Expected one frame, got %d", len(frames))
			}
			rle, ok := frames[0].(RLEFrame)
			if !ok {
				t.Fatalf("Expected RLEFrame, got %T", frames[0])
			}
			if rle.Encoded != tt.encoded {
				t.Errorf("Expected encoded %q, got %q", tt.encoded, rle.Encoded)
			}
			if d.State() != StateIdle {
				t.Errorf("Expected idle, got %s", d.State())
			}
		})
	}
}

func TestDetector_RLEPayloadIsNotInterpreted(t *testing.T) {
	// A begin marker in the payload position is captured as payload, not
	// treated as a new dump.
	d := NewDetector()
	frames := feedAll(d, lines(
		"--- RLE DUMP BEGIN ---",
		"--- SCREEN DUMP BEGIN ---",
		"--- RLE DUMP END ---",
		"#",
	))

	if len(frames) != 1 {
		t.Fatalf("Expected one frame, got %d", len(frames))
	}
	if rle := frames[0].(RLEFrame); rle.Encoded != "--- SCREEN DUMP BEGIN ---" {
		t.Errorf("Unexpected payload %q", rle.Encoded)
	}
}

func TestDetector_GridTimeoutEndsCapture(t *testing.T) {
	d := NewDetector()
	reads := append(lines("--- SCREEN DUMP BEGIN ---", "##", "#."), timeout)
	frames := feedAll(d, reads)

	if len(frames) != 1 {
		t.Fatalf("Expected one frame, got %d", len(frames))
	}
	grid := frames[0].(GridFrame)
	if !reflect.DeepEqual(grid.Rows, []string{"##", "#."}) {
		t.Errorf("Expected partial rows to be kept, got %q", grid.Rows)
	}
}

func TestDetector_EmptyGrid(t *testing.T) {
	d := NewDetector()
	frames := feedAll(d, lines("--- SCREEN DUMP BEGIN ---", "--- SCREEN DUMP END ---"))

	if len(frames) != 1 {
		t.Fatalf("Expected one frame, got %d", len(frames))
	}
	if rows := frames[0].(GridFrame).Rows; len(rows) != 0 {
		t.Errorf("Expected no rows, got %q", rows)
	}
}

func TestDetector_BlankRowsAreCaptured(t *testing.T) {
	d := NewDetector()
	frames := feedAll(d, lines("--- SCREEN DUMP BEGIN ---", "#", "", "--- SCREEN DUMP END ---"))

	rows := frames[0].(GridFrame).Rows
	if !reflect.DeepEqual(rows, []string{"#", ""}) {
		t.Errorf("Expected blank row to be kept, got %q", rows)
	}
}

func TestDetector_IdleIgnoresTimeoutsAndNoise(t *testing.T) {
	d := NewDetector()
	reads := []read{timeout, {line: "boot ok", ok: true}, timeout, {line: "--- SCREEN DUMP END ---", ok: true}}
	frames := feedAll(d, reads)

	if len(frames) != 0 {
		t.Errorf("Expected no frames, got %d", len(frames))
	}
	if d.State() != StateIdle {
		t.Errorf("Expected idle, got %s", d.State())
	}
}

func TestDetector_StateTransitions(t *testing.T) {
	d := NewDetector()
	steps := []struct {
		read read
		want State
	}{
		{read{"--- RLE DUMP BEGIN ---", true}, StateAwaitRLEEncoded},
		{read{"W1", true}, StateAwaitRLEEnd},
		{read{"--- RLE DUMP END ---", true}, StateIdle},
		{read{"--- SCREEN DUMP BEGIN ---", true}, StateCapturingGrid},
		{read{"#", true}, StateCapturingGrid},
		{read{"--- SCREEN DUMP END ---", true}, StateIdle},
	}
	for i, s := range steps {
		d.Feed(s.read.line, s.read.ok)
		if d.State() != s.want {
			t.Fatalf("step %d: expected %s, got %s", i, s.want, d.State())
		}
	}
}

func TestDetector_ConsecutiveDumps(t *testing.T) {
	d := NewDetector()
	frames := feedAll(d, lines(
		"--- SCREEN DUMP BEGIN ---", "#", "--- SCREEN DUMP END ---",
		"--- RLE DUMP BEGIN ---", "W1", "--- RLE DUMP END ---",
		"--- SCREEN DUMP BEGIN ---", ".", "--- SCREEN DUMP END ---",
	))

	if len(frames) != 3 {
		t.Fatalf("Expected three frames, got %d", len(frames))
	}
	if _, ok := frames[1].(RLEFrame); !ok {
		t.Errorf("Expected second frame to be RLE, got %T", frames[1])
	}
}

func TestDetector_Reset(t *testing.T) {
	d := NewDetector()
	feedAll(d, lines("--- SCREEN DUMP BEGIN ---", "##"))
	d.Reset()

	if d.State() != StateIdle {
		t.Fatalf("Expected idle after reset, got %s", d.State())
	}
	frames := feedAll(d, lines("--- SCREEN DUMP END ---"))
	if len(frames) != 0 {
		t.Errorf("Expected reset to drop the partial capture")
	}
}
