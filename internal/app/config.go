package app

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/gogpu/gg"
	"github.com/rook-computer/mandelview/internal/fractal"
	"github.com/rook-computer/mandelview/internal/render"
	"github.com/rook-computer/mandelview/internal/state"
)

const (
	EnvWorkers  = "MANDELVIEW_WORKERS"
	EnvStdioLog = "MANDELVIEW_STDIO_LOG"

	DebugLogPath = "./mandelview-debug.log"
)

// Config is the command line of both binaries.
type Config struct {
	Width, Height int
	Workers       int
	MaxIterations int
	Hz            int
	NoHUD         bool
	Debug         bool
	LogFormat     string
	StdioLog      string
}

// RegisterFlags binds cfg to fs. Values already in cfg are the defaults.
func (cfg *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&cfg.Width, "width", cfg.Width, "fractal width in pixels (0 = display width)")
	fs.IntVar(&cfg.Height, "height", cfg.Height, "fractal height in pixels (0 = display height)")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "compute partitions; also configurable via "+EnvWorkers)
	fs.IntVar(&cfg.MaxIterations, "max-iter", cfg.MaxIterations, "initial iteration limit")
	fs.IntVar(&cfg.Hz, "hz", cfg.Hz, "tick rate")
	fs.BoolVar(&cfg.NoHUD, "no-hud", cfg.NoHUD, "hide the control panel and status overlay")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "enable debug logging to "+DebugLogPath)
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log to stderr as text or json instead of the debug file")
	fs.StringVar(&cfg.StdioLog, "stdio-log", cfg.StdioLog, "redirect stdout+stderr (including panics) to this file; also configurable via "+EnvStdioLog)
}

func DefaultConfig() Config {
	return Config{
		Workers:       fractal.DefaultWorkers,
		MaxIterations: state.DefaultMaxIterations,
		Hz:            render.DefaultHz,
	}
}

// ApplyEnv fills values not given on the command line from the environment.
func (cfg *Config) ApplyEnv(fs *flag.FlagSet) error {
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if raw := os.Getenv(EnvWorkers); raw != "" && !set["workers"] {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return fmt.Errorf("%s must be a positive integer (got %q)", EnvWorkers, raw)
		}
		cfg.Workers = n
	}
	if cfg.StdioLog == "" {
		cfg.StdioLog = os.Getenv(EnvStdioLog)
	}
	return nil
}

// Validate rejects settings the compute cannot start with.
func (cfg Config) Validate() error {
	if cfg.Width < 0 || cfg.Height < 0 {
		return fmt.Errorf("size must not be negative: %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", cfg.Workers)
	}
	if cfg.MaxIterations < 1 || cfg.MaxIterations > state.MaxIterationsLimit {
		return fmt.Errorf("max-iter must be in [1, %d], got %d", state.MaxIterationsLimit, cfg.MaxIterations)
	}
	switch cfg.LogFormat {
	case "", "text", "json":
	default:
		return fmt.Errorf("log-format must be text or json, got %q", cfg.LogFormat)
	}
	return nil
}

// NewLogger builds the logger cfg asks for. The returned closer is never
// nil. gg is pointed at the same slog handler when one is used.
func (cfg Config) NewLogger(stderr io.Writer) (Logger, io.Closer, error) {
	switch cfg.LogFormat {
	case "text", "json":
		opts := &slog.HandlerOptions{Level: slog.LevelInfo}
		if cfg.Debug {
			opts.Level = slog.LevelDebug
		}
		var h slog.Handler = slog.NewTextHandler(stderr, opts)
		if cfg.LogFormat == "json" {
			h = slog.NewJSONHandler(stderr, opts)
		}
		l := slog.New(h)
		gg.SetLogger(l)
		return NewSlogLogger(l), nopCloser{}, nil
	}
	if !cfg.Debug {
		return NoopLogger{}, nopCloser{}, nil
	}
	f, err := os.OpenFile(DebugLogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return NoopLogger{}, nopCloser{}, fmt.Errorf("debug log open: %w", err)
	}
	logger := NewFileLogger(f)
	logger.Infof("main", "debug logging enabled")
	return logger, f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
