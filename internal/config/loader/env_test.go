package loader

import (
	"testing"
	"time"
)

func TestEnvLoader_Load(t *testing.T) {
	t.Setenv("GAPBUF_BUFFER_INITIAL_GAP", "256")
	t.Setenv("GAPBUF_SCRIPT_TIMEOUT", "750ms")
	t.Setenv("GAPBUF_LOG_LEVEL", "debug")

	loader := NewEnvLoaderWithMapping("GAPBUF_", map[string]string{
		"GAPBUF_LOG_LEVEL": "logging.level",
	})
	config, err := loader.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if val, ok := getByPath(config, "logging.level"); !ok || val != "debug" {
		t.Errorf("logging.level = %v, want 'debug'", val)
	}
	if val, ok := getByPath(config, "buffer.initialGap"); !ok || val != int64(256) {
		t.Errorf("buffer.initialGap = %v (%T), want 256", val, val)
	}
	if val, ok := getByPath(config, "script.timeout"); !ok || val != 750*time.Millisecond {
		t.Errorf("script.timeout = %v (%T), want 750ms", val, val)
	}
	if _, ok := getByPath(config, "log.level"); ok {
		t.Error("mapped variable should not also load under its derived path")
	}
}

func TestEnvLoader_envToPath(t *testing.T) {
	loader := NewEnvLoader("GAPBUF_")

	tests := []struct {
		env      string
		expected string
	}{
		{"GAPBUF_BUFFER_INITIAL_GAP", "buffer.initialGap"},
		{"GAPBUF_BUFFER_MAX_CAPACITY", "buffer.maxCapacity"},
		{"GAPBUF_SCRIPT_INSTRUCTION_LIMIT", "script.instructionLimit"},
		{"GAPBUF_LOGGING_LEVEL", "logging.level"},
		{"GAPBUF_SIMPLE", "simple"},
	}

	for _, tt := range tests {
		got := loader.envToPath(tt.env)
		if got != tt.expected {
			t.Errorf("envToPath(%q) = %q, want %q", tt.env, got, tt.expected)
		}
	}
}

func TestEnvLoader_parseValue(t *testing.T) {
	loader := NewEnvLoader("GAPBUF_")

	tests := []struct {
		input    string
		expected any
	}{
		{"true", true},
		{"YES", true},
		{"on", true},
		{"false", false},
		{"no", false},
		{"off", false},

		// Digits are numbers, not booleans.
		{"1", int64(1)},
		{"0", int64(0)},
		{"42", int64(42)},
		{"-10", int64(-10)},

		{"3.14", 3.14},

		{"500ms", 500 * time.Millisecond},
		{"5m", 5 * time.Minute},

		{"hello", "hello"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := loader.parseValue(tt.input); got != tt.expected {
			t.Errorf("parseValue(%q) = %v (%T), want %v (%T)",
				tt.input, got, got, tt.expected, tt.expected)
		}
	}
}

func TestEnvLoader_AddMapping(t *testing.T) {
	loader := NewEnvLoader("GAPBUF_")
	loader.AddMapping("CUSTOM_VAR", "custom.path")

	t.Setenv("CUSTOM_VAR", "custom_value")

	config, err := loader.Load()
	if err != nil {
		t.Fatal(err)
	}
	if val, ok := getByPath(config, "custom.path"); !ok || val != "custom_value" {
		t.Errorf("custom.path = %v, want 'custom_value'", val)
	}
}
