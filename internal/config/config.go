package config

import (
	"errors"
	"fmt"
	"os"
	"time"
)

const (
	DefaultBaud        = 115200
	DefaultOutput      = "screenshot.png"
	DefaultWidth       = 128
	DefaultHeight      = 64
	DefaultReadTimeout = 2 * time.Second

	// PortEnv is consulted when no port is given on the command line.
	PortEnv = "SCREENDUMP_PORT"
)

// Display holds the panel dimensions used to lay out RLE dumps.
type Display struct {
	Width  int
	Height int
}

// Config is everything the listener needs for one run.
type Config struct {
	Port        string
	Baud        int
	Output      string
	Display     Display
	ReadTimeout time.Duration
	CaptureLog  string
	Preview     bool
}

// Default returns a Config with every optional field at its default.
func Default() Config {
	return Config{
		Baud:        DefaultBaud,
		Output:      DefaultOutput,
		Display:     Display{Width: DefaultWidth, Height: DefaultHeight},
		ReadTimeout: DefaultReadTimeout,
	}
}

// ResolvePort fills Port from the environment when it was left empty.
func (c *Config) ResolvePort() {
	if c.Port == "" {
		c.Port = os.Getenv(PortEnv)
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("serial port is required (use --port or $%s)", PortEnv)
	}
	if c.Baud <= 0 {
		return fmt.Errorf("invalid baud rate: %d", c.Baud)
	}
	if err := c.Display.Validate(); err != nil {
		return err
	}
	if c.Output == "" {
		return errors.New("output path must not be empty")
	}
	if c.ReadTimeout <= 0 {
		return fmt.Errorf("read timeout must be positive, got %s", c.ReadTimeout)
	}
	return nil
}

// Validate checks that both dimensions are positive.
func (d Display) Validate() error {
	if d.Width <= 0 || d.Height <= 0 {
		return fmt.Errorf("invalid display size %dx%d", d.Width, d.Height)
	}
	return nil
}
