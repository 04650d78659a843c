package serialport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/albenik/go-serial/v2"
)

// ErrOpen is returned when the serial device cannot be opened.
var ErrOpen = errors.New("could not open serial port")

// Port is an open serial device. Close may be called any number of times;
// the device is released on the first call only.
type Port struct {
	name string
	port *serial.Port

	closeOnce sync.Once
	closeErr  error
}

// Open opens name at the given baud rate. Each Read waits at most
// readTimeout and returns no data when nothing arrived in time.
func Open(ctx context.Context, name string, baud int, readTimeout time.Duration) (*Port, error) {
	p, err := serial.Open(name,
		serial.WithBaudrate(baud),
		serial.WithReadTimeout(int(readTimeout/time.Millisecond)),
		serial.WithWriteTimeout(int(readTimeout/time.Millisecond)),
	)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %v%s", ErrOpen, name, err, describeHolders(ctx, name))
	}
	return &Port{name: name, port: p}, nil
}

// describeHolders names processes that have the device open, if any.
func describeHolders(ctx context.Context, name string) string {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	holders, err := Holders(ctx, name)
	if err != nil {
		slog.Debug("Failed to look up port holders", "error", err, "port", name)
		return ""
	}
	if len(holders) == 0 {
		return ""
	}
	names := make([]string, len(holders))
	for i, h := range holders {
		names[i] = h.String()
	}
	return " (in use by " + strings.Join(names, ", ") + ")"
}

func (p *Port) Read(b []byte) (int, error) {
	return p.port.Read(b)
}

// Close releases the device.
func (p *Port) Close() error {
	p.closeOnce.Do(func() {
		p.closeErr = p.port.Close()
		slog.Info("Serial port closed", "port", p.name)
	})
	return p.closeErr
}
