package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"screendump/internal/config"
	"screendump/internal/listener"
	"screendump/internal/serialport"
	"screendump/internal/simulator"
	"screendump/internal/sink"
	"screendump/pkg/capturelog"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	cfg     = config.Default()
	verbose bool

	simInterval time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "screendump",
	Short: "Capture screen dumps from a serial device as PNG files",
	Long: `screendump listens on a serial port for screen dumps sent by an embedded
device and saves each one as a timestamped PNG image.

Both dump formats are detected automatically:

  --- RLE DUMP BEGIN ---       one line of W<n>/B<n> runs, then an end line
  --- SCREEN DUMP BEGIN ---    rows of '#' (on) and other characters (off)
  --- SCREEN DUMP END ---      until this marker or a read timeout

Each image is written to the --output path with _YYYYMMDD_HHMMSS inserted
before the extension.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogging,
	RunE:              runListen,
}

func setupLogging(cmd *cobra.Command, args []string) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

// newSink builds the image sink, attaching stdout for previews only when it
// is a terminal.
func newSink() *sink.Sink {
	s := sink.New(cfg.Output)
	if cfg.Preview && term.IsTerminal(int(os.Stdout.Fd())) {
		s.Preview = os.Stdout
	}
	return s
}

func runListen(cmd *cobra.Command, args []string) error {
	cfg.ResolvePort()
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("Listening", "port", cfg.Port, "baud", cfg.Baud)
	port, err := serialport.Open(ctx, cfg.Port, cfg.Baud, cfg.ReadTimeout)
	if err != nil {
		return err
	}
	slog.Info("Port opened. Press Ctrl+C to exit.")

	l := listener.New(cfg.Display, newSink())
	if cfg.CaptureLog != "" {
		w, err := capturelog.Create(cfg.CaptureLog)
		if err != nil {
			_ = port.Close()
			return err
		}
		defer func() {
			if err := w.Close(); err != nil {
				slog.Error("Failed to close capture log", "error", err)
			}
		}()
		l.Recorder = w
	}

	err = listener.Run(ctx, port, l)
	if errors.Is(err, listener.ErrConnectionLost) {
		slog.Error("Serial port error, exiting", "error", err)
		return nil
	}
	if err == nil {
		logStats(l.Stats())
	}
	return err
}

var replayCmd = &cobra.Command{
	Use:   "replay capture.log",
	Short: "Decode the dumps contained in a capture log",
	Long: `Replay a capture log written with --capture-log through the same
detection and decoding as a live session, writing one image per dump.`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Display.Validate(); err != nil {
			return err
		}
		src, err := capturelog.OpenSource(args[0])
		if err != nil {
			return fmt.Errorf("failed to open capture log: %w", err)
		}
		defer func() { _ = src.Close() }()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		l := listener.New(cfg.Display, newSink())
		if err := l.Listen(ctx, src); err != nil {
			return fmt.Errorf("replay failed: %w", err)
		}
		logStats(l.Stats())
		return nil
	},
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Emulate a device on a pseudo-terminal",
	Long: `Open a pseudo-terminal and write screen dumps to it at a fixed interval,
alternating between RLE and uncompressed framing. Point the listener at the
printed device path to try screendump without hardware.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Display.Validate(); err != nil {
			return err
		}
		p, err := simulator.OpenPTY()
		if err != nil {
			return err
		}
		defer func() { _ = p.Close() }()

		fmt.Fprintf(os.Stdout, "Simulated device at %s\n", p.SlavePath)
		fmt.Fprintf(os.Stdout, "Run: screendump --port %s\n", p.SlavePath)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return simulator.NewDevice(cfg.Display, simInterval).Run(ctx, p.Master)
	},
}

func logStats(s listener.Stats) {
	slog.Info("Done", "dumps", s.Frames, "saved", s.Saved, "empty", s.Empty, "failed", s.Failed)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", config.DefaultOutput, "Base name for output files; a timestamp is inserted before the extension")
	rootCmd.PersistentFlags().IntVar(&cfg.Display.Width, "width", config.DefaultWidth, "Display width in pixels, used for RLE dumps")
	rootCmd.PersistentFlags().IntVar(&cfg.Display.Height, "height", config.DefaultHeight, "Display height in pixels, used for RLE dumps")
	rootCmd.PersistentFlags().BoolVar(&cfg.Preview, "preview", false, "Print each saved screenshot as text when stdout is a terminal")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log ignored lines and other debug output")

	rootCmd.Flags().StringVarP(&cfg.Port, "port", "p", "", fmt.Sprintf("Serial port name, e.g. COM3 or /dev/ttyUSB0 (default: $%s)", config.PortEnv))
	rootCmd.Flags().IntVarP(&cfg.Baud, "baud", "b", config.DefaultBaud, "Baud rate")
	rootCmd.Flags().DurationVar(&cfg.ReadTimeout, "read-timeout", config.DefaultReadTimeout, "Maximum wait for one line; also ends an uncompressed dump early")
	rootCmd.Flags().StringVar(&cfg.CaptureLog, "capture-log", "", "Append every received line to this file for later replay")

	simulateCmd.Flags().DurationVar(&simInterval, "interval", 5*time.Second, "Time between dumps")

	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(simulateCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
