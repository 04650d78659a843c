package simulator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/creack/pty"
	"golang.org/x/term"

	"screendump/internal/config"
)

// Device imitates the firmware: it prints log chatter and, every Interval,
// a screen dump of the test pattern, alternating between RLE and grid
// framing.
type Device struct {
	Display  config.Display
	Interval time.Duration

	step int
}

// NewDevice creates a device with the given panel size.
func NewDevice(display config.Display, interval time.Duration) *Device {
	return &Device{Display: display, Interval: interval}
}

// Next returns the wire lines of the next dump, including a line of log
// chatter before it.
func (d *Device) Next() []string {
	b := TestPattern(d.Display.Width, d.Display.Height, d.step)
	lines := []string{fmt.Sprintf("Screen: dump %d", d.step)}
	if d.step%2 == 0 {
		lines = append(lines, RLEDump(b)...)
	} else {
		lines = append(lines, GridDump(b)...)
	}
	d.step++
	return lines
}

// WriteDump writes the next dump to w with CRLF line endings, as the
// firmware's serial console does.
func (d *Device) WriteDump(w io.Writer) error {
	for _, line := range d.Next() {
		if _, err := io.WriteString(w, line+"\r\n"); err != nil {
			return err
		}
	}
	return nil
}

// Run writes a dump immediately and then once per Interval until ctx is done.
func (d *Device) Run(ctx context.Context, w io.Writer) error {
	interval := d.Interval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := d.writeDump(ctx, w); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("failed to write dump: %w", err)
		}
		slog.Info("Dump sent", "step", d.step-1)

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// writeDump is WriteDump that stops waiting once ctx is done. A pty whose
// slave side nobody reads blocks the write as soon as the kernel buffer is
// full; that write is abandoned and Run must not touch w or d afterwards.
func (d *Device) writeDump(ctx context.Context, w io.Writer) error {
	done := make(chan error, 1)
	go func() { done <- d.WriteDump(w) }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PTY is a pseudo-terminal pair standing in for a serial cable. The device
// writes to Master; the listener opens SlavePath.
type PTY struct {
	Master    *os.File
	SlavePath string

	slave *os.File
}

// OpenPTY opens a pseudo-terminal and puts the slave side in raw mode so
// line endings pass through untranslated and nothing is echoed back.
func OpenPTY() (*PTY, error) {
	master, slave, err := pty.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open pty: %w", err)
	}
	if _, err := term.MakeRaw(int(slave.Fd())); err != nil {
		_ = master.Close()
		_ = slave.Close()
		return nil, fmt.Errorf("failed to set pty to raw mode: %w", err)
	}
	return &PTY{Master: master, SlavePath: slave.Name(), slave: slave}, nil
}

// Slave returns the slave side opened by OpenPTY. Keeping it open prevents
// writes to the master from failing while no listener is attached.
func (p *PTY) Slave() *os.File {
	return p.slave
}

// Close closes both sides.
func (p *PTY) Close() error {
	errSlave := p.slave.Close()
	if err := p.Master.Close(); err != nil {
		return err
	}
	return errSlave
}
