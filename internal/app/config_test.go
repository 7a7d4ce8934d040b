package app

import (
	"bytes"
	"encoding/json"
	"flag"
	"strings"
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		edit func(*Config)
		ok   bool
	}{
		{"defaults", func(*Config) {}, true},
		{"negative width", func(c *Config) { c.Width = -1 }, false},
		{"no workers", func(c *Config) { c.Workers = 0 }, false},
		{"zero iterations", func(c *Config) { c.MaxIterations = 0 }, false},
		{"json logs", func(c *Config) { c.LogFormat = "json" }, true},
		{"xml logs", func(c *Config) { c.LogFormat = "xml" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.edit(&cfg)
			if err := cfg.Validate(); (err == nil) != tt.ok {
				t.Fatalf("Validate() = %v, want ok=%v", err, tt.ok)
			}
		})
	}
}

func TestApplyEnvRespectsFlags(t *testing.T) {
	t.Setenv(EnvWorkers, "3")
	t.Setenv(EnvStdioLog, "/tmp/out.log")

	cfg := DefaultConfig()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg.RegisterFlags(fs)
	if err := fs.Parse(nil); err != nil {
		t.Fatal(err)
	}
	if err := cfg.ApplyEnv(fs); err != nil {
		t.Fatal(err)
	}
	if cfg.Workers != 3 || cfg.StdioLog != "/tmp/out.log" {
		t.Fatalf("env not applied: %+v", cfg)
	}

	cfg = DefaultConfig()
	fs = flag.NewFlagSet("test", flag.ContinueOnError)
	cfg.RegisterFlags(fs)
	if err := fs.Parse([]string{"-workers", "7"}); err != nil {
		t.Fatal(err)
	}
	if err := cfg.ApplyEnv(fs); err != nil {
		t.Fatal(err)
	}
	if cfg.Workers != 7 {
		t.Fatalf("flag overridden by env: workers=%d", cfg.Workers)
	}
}

func TestApplyEnvRejectsBadWorkers(t *testing.T) {
	t.Setenv(EnvWorkers, "many")
	cfg := DefaultConfig()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg.RegisterFlags(fs)
	_ = fs.Parse(nil)
	if err := cfg.ApplyEnv(fs); err == nil {
		t.Fatal("expected error")
	}
}

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.LogFormat = "json"
	logger, closer, err := cfg.NewLogger(&buf)
	if err != nil {
		t.Fatal(err)
	}
	defer closer.Close()

	logger.Errorf("controller", "compute failed: %d", 7)
	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("not json: %q", buf.String())
	}
	if rec["msg"] != "compute failed: 7" || rec["component"] != "controller" || rec["level"] != "ERROR" {
		t.Fatalf("record = %v", rec)
	}
}

func TestNewLoggerQuietByDefault(t *testing.T) {
	logger, closer, err := DefaultConfig().NewLogger(&bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	defer closer.Close()
	if _, ok := logger.(NoopLogger); !ok {
		t.Fatalf("logger = %T, want NoopLogger", logger)
	}
}

func TestFileLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	NewFileLogger(&buf).Infof("web", "listening on %s", ":80")
	line := buf.String()
	if !strings.HasSuffix(line, " [INFO] web: listening on :80\n") {
		t.Fatalf("line = %q", line)
	}
	if _, err := time.Parse(time.RFC3339, strings.SplitN(line, " ", 2)[0]); err != nil {
		t.Fatalf("timestamp: %v", err)
	}
}
