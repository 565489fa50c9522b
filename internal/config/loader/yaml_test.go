package loader

import (
	"errors"
	"strings"
	"testing"
)

func TestYAMLLoader_Load(t *testing.T) {
	fs := NewMemFS()
	fs.AddFile("/config.yaml", `
buffer:
  initialGap: 64
  maxCapacity: 1048576
logging:
  level: warn
script:
  instructionLimit: 5000
`)

	config, err := NewYAMLLoaderWithFS(fs, "/config.yaml").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if val, ok := getByPath(config, "buffer.initialGap"); !ok || val != 64 {
		t.Errorf("buffer.initialGap = %v (%T), want 64", val, val)
	}
	if val, ok := getByPath(config, "buffer.maxCapacity"); !ok || val != 1048576 {
		t.Errorf("buffer.maxCapacity = %v (%T), want 1048576", val, val)
	}
	if val, ok := getByPath(config, "logging.level"); !ok || val != "warn" {
		t.Errorf("logging.level = %v, want 'warn'", val)
	}
	if val, ok := getByPath(config, "script.instructionLimit"); !ok || val != 5000 {
		t.Errorf("script.instructionLimit = %v, want 5000", val)
	}
}

func TestYAMLLoader_NonStringKeys(t *testing.T) {
	config, err := NewYAMLLoader("").LoadFromReader(strings.NewReader("buffer:\n  1: one\n"))
	if err != nil {
		t.Fatalf("LoadFromReader failed: %v", err)
	}
	if val, ok := getByPath(config, "buffer.1"); !ok || val != "one" {
		t.Errorf("buffer.1 = %v, want 'one'", val)
	}
}

func TestYAMLLoader_Empty(t *testing.T) {
	config, err := NewYAMLLoader("").LoadFromReader(strings.NewReader(""))
	if err != nil {
		t.Fatalf("LoadFromReader failed: %v", err)
	}
	if len(config) != 0 {
		t.Errorf("expected empty config, got %v", config)
	}
}

func TestYAMLLoader_LoadNonExistent(t *testing.T) {
	config, err := NewYAMLLoaderWithFS(NewMemFS(), "/missing.yaml").Load()
	if err != nil || config != nil {
		t.Errorf("Load() = %v, %v; want nil, nil", config, err)
	}
}

func TestYAMLLoader_NotAMapping(t *testing.T) {
	_, err := NewYAMLLoader("").LoadFromReader(strings.NewReader("- a\n- b\n"))

	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if perr.Line != 1 {
		t.Errorf("ParseError.Line = %d, want 1", perr.Line)
	}
}

func TestYAMLLoader_Invalid(t *testing.T) {
	_, err := NewYAMLLoader("").LoadFromReader(strings.NewReader("buffer: [unclosed\n"))

	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
}
