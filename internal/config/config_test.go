package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dshills/gapbuf/internal/engine/gapbuffer"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Buffer.InitialGap != gapbuffer.DefaultInitialGap {
		t.Errorf("InitialGap = %d, want %d", cfg.Buffer.InitialGap, gapbuffer.DefaultInitialGap)
	}
	if cfg.Buffer.GrowthDivisor != gapbuffer.DefaultGrowthDivisor {
		t.Errorf("GrowthDivisor = %d, want %d", cfg.Buffer.GrowthDivisor, gapbuffer.DefaultGrowthDivisor)
	}
	if cfg.Buffer.MaxCapacity != 0 {
		t.Errorf("MaxCapacity = %d, want 0", cfg.Buffer.MaxCapacity)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadNoFile(t *testing.T) {
	cfg, err := Load("", WithoutEnv())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("Load(\"\") = %+v, want defaults", cfg)
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeConfig(t, "gapbuf.toml", `
[buffer]
initialGap = 4
growthDivisor = 8
maxCapacity = 1024

[logging]
level = "debug"

[script]
instructionLimit = 1000
timeout = "250ms"
`)

	cfg, err := Load(path, WithoutEnv())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := Config{
		Buffer:  BufferConfig{InitialGap: 4, GrowthDivisor: 8, MaxCapacity: 1024},
		Logging: LoggingConfig{Level: "debug"},
		Script:  ScriptConfig{InstructionLimit: 1000, Timeout: 250 * time.Millisecond},
	}
	if *cfg != want {
		t.Errorf("Load() = %+v, want %+v", *cfg, want)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "gapbuf.yml", `
buffer:
  initialGap: 0
script:
  timeout: 3
`)

	cfg, err := Load(path, WithoutEnv())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Buffer.InitialGap != 0 {
		t.Errorf("InitialGap = %d, want 0", cfg.Buffer.InitialGap)
	}
	if cfg.Buffer.GrowthDivisor != gapbuffer.DefaultGrowthDivisor {
		t.Errorf("unset GrowthDivisor should keep default, got %d", cfg.Buffer.GrowthDivisor)
	}
	if cfg.Script.Timeout != 3*time.Second {
		t.Errorf("Timeout = %v, want 3s", cfg.Script.Timeout)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "gapbuf.toml", "[buffer]\ninitialGap = 4\n\n[logging]\nlevel = \"warn\"\n")
	t.Setenv("GAPBUF_BUFFER_INITIAL_GAP", "0")
	t.Setenv("GAPBUF_LOG_LEVEL", "error")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Buffer.InitialGap != 0 {
		t.Errorf("InitialGap = %d, want 0 from environment", cfg.Buffer.InitialGap)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("Level = %q, want 'error' from environment", cfg.Logging.Level)
	}
}

func TestLoadCustomEnvPrefix(t *testing.T) {
	t.Setenv("EDITBUF_SCRIPT_INSTRUCTION_LIMIT", "77")

	cfg, err := Load("", WithEnvPrefix("EDITBUF_"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Script.InstructionLimit != 77 {
		t.Errorf("InstructionLimit = %d, want 77", cfg.Script.InstructionLimit)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		path    string
		content string
		want    error
	}{
		{"missing file", filepath.Join(dir, "nope.toml"), "", ErrFileNotFound},
		{"unsupported extension", "gapbuf.json", "{}", ErrUnsupportedFormat},
		{"type mismatch", "gapbuf.toml", "[buffer]\ninitialGap = \"big\"\n", ErrTypeMismatch},
		{"fractional integer", "gapbuf.yaml", "buffer:\n  initialGap: 1.5\n", ErrTypeMismatch},
		{"bad duration", "gapbuf.toml", "[script]\ntimeout = \"soon\"\n", ErrTypeMismatch},
		{"validation", "gapbuf.toml", "[buffer]\ngrowthDivisor = 0\n", ErrValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tt.path
			if tt.content != "" {
				path = writeConfig(t, tt.path, tt.content)
			}
			_, err := Load(path, WithoutEnv())
			if !errors.Is(err, tt.want) {
				t.Errorf("Load() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		path   string
	}{
		{"negative gap", func(c *Config) { c.Buffer.InitialGap = -1 }, "buffer.initialGap"},
		{"zero divisor", func(c *Config) { c.Buffer.GrowthDivisor = 0 }, "buffer.growthDivisor"},
		{"negative capacity", func(c *Config) { c.Buffer.MaxCapacity = -5 }, "buffer.maxCapacity"},
		{"capacity below gap", func(c *Config) { c.Buffer.MaxCapacity = 10 }, "buffer.maxCapacity"},
		{"negative limit", func(c *Config) { c.Script.InstructionLimit = -1 }, "script.instructionLimit"},
		{"negative timeout", func(c *Config) { c.Script.Timeout = -time.Second }, "script.timeout"},
		{"unknown level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			var verr *ValidationError
			if err := cfg.Validate(); !errors.As(err, &verr) {
				t.Fatalf("Validate() error = %v, want *ValidationError", err)
			}
			if verr.Path != tt.path {
				t.Errorf("ValidationError.Path = %q, want %q", verr.Path, tt.path)
			}
		})
	}
}

func TestBufferOptions(t *testing.T) {
	cfg := Default()
	cfg.Buffer.InitialGap = 2
	cfg.Buffer.MaxCapacity = 8

	gb, err := gapbuffer.New(cfg.BufferOptions()...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if gb.GapSize() != 2 {
		t.Errorf("GapSize() = %d, want 2", gb.GapSize())
	}
	if err := gb.InsertString("0123456789"); !errors.Is(err, gapbuffer.ErrOutOfMemory) {
		t.Errorf("insert beyond MaxCapacity: error = %v, want ErrOutOfMemory", err)
	}
}
