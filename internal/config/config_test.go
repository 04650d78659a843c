package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	require.Equal(t, 115200, cfg.Baud)
	require.Equal(t, "screenshot.png", cfg.Output)
	require.Equal(t, Display{Width: 128, Height: 64}, cfg.Display)
	require.Equal(t, 2*time.Second, cfg.ReadTimeout)
}

func TestValidate(t *testing.T) {
	valid := Default()
	valid.Port = "/dev/ttyUSB0"
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"missing port", func(c *Config) { c.Port = "" }},
		{"zero baud", func(c *Config) { c.Baud = 0 }},
		{"zero width", func(c *Config) { c.Display.Width = 0 }},
		{"negative height", func(c *Config) { c.Display.Height = -1 }},
		{"empty output", func(c *Config) { c.Output = "" }},
		{"zero timeout", func(c *Config) { c.ReadTimeout = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestResolvePortFromEnv(t *testing.T) {
	t.Setenv(PortEnv, "/dev/ttyACM1")

	cfg := Default()
	cfg.ResolvePort()
	require.Equal(t, "/dev/ttyACM1", cfg.Port)

	cfg.Port = "/dev/ttyUSB0"
	cfg.ResolvePort()
	require.Equal(t, "/dev/ttyUSB0", cfg.Port)
}
