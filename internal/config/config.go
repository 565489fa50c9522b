package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/dshills/gapbuf/internal/config/loader"
	"github.com/dshills/gapbuf/internal/engine/gapbuffer"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "GAPBUF_"

// Default configuration values.
const (
	DefaultLogLevel         = "info"
	DefaultInstructionLimit = 10_000_000
	DefaultScriptTimeout    = 5 * time.Second
)

// Config is the typed configuration for the gapbuf tools.
type Config struct {
	Buffer  BufferConfig
	Logging LoggingConfig
	Script  ScriptConfig
}

// BufferConfig tunes gap buffer allocation.
type BufferConfig struct {
	// InitialGap is the gap allocated for a new buffer.
	InitialGap int
	// GrowthDivisor sets growth to max(requested, length/GrowthDivisor).
	GrowthDivisor int
	// MaxCapacity caps buffer storage in bytes. Zero means unlimited.
	MaxCapacity int
}

// LoggingConfig configures the application logger.
type LoggingConfig struct {
	Level string
}

// ScriptConfig limits Lua edit scripts.
type ScriptConfig struct {
	InstructionLimit int64
	Timeout          time.Duration
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Buffer: BufferConfig{
			InitialGap:    gapbuffer.DefaultInitialGap,
			GrowthDivisor: gapbuffer.DefaultGrowthDivisor,
		},
		Logging: LoggingConfig{
			Level: DefaultLogLevel,
		},
		Script: ScriptConfig{
			InstructionLimit: DefaultInstructionLimit,
			Timeout:          DefaultScriptTimeout,
		},
	}
}

// LoadOption configures Load.
type LoadOption func(*loadOptions)

type loadOptions struct {
	fs        loader.FileSystem
	envPrefix string
	useEnv    bool
}

// WithFS sets the file system used to read the config file.
func WithFS(fsys loader.FileSystem) LoadOption {
	return func(o *loadOptions) {
		o.fs = fsys
	}
}

// WithEnvPrefix overrides the environment variable prefix.
func WithEnvPrefix(prefix string) LoadOption {
	return func(o *loadOptions) {
		o.envPrefix = prefix
	}
}

// WithoutEnv disables the environment layer.
func WithoutEnv() LoadOption {
	return func(o *loadOptions) {
		o.useEnv = false
	}
}

// Load builds a Config from defaults, the file at path (if path is not
// empty) and the environment, in increasing priority.
func Load(path string, opts ...LoadOption) (*Config, error) {
	o := loadOptions{
		fs:        loader.DefaultFS(),
		envPrefix: EnvPrefix,
		useEnv:    true,
	}
	for _, opt := range opts {
		opt(&o)
	}

	merged := Default().toMap()

	if path != "" {
		if _, err := o.fs.Stat(path); err != nil {
			if isNotExist(err) {
				return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
			}
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}

		fileLoader, err := fileLoaderFor(o.fs, path)
		if err != nil {
			return nil, err
		}
		data, err := fileLoader.Load()
		if err != nil {
			return nil, err
		}
		merged = loader.DeepMerge(merged, data)
	}

	if o.useEnv {
		env := loader.NewEnvLoaderWithMapping(o.envPrefix, map[string]string{
			o.envPrefix + "LOG_LEVEL": "logging.level",
		})
		data, err := env.Load()
		if err != nil {
			return nil, err
		}
		merged = loader.DeepMerge(merged, data)
	}

	cfg, err := FromMap(merged)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// fileLoaderFor picks a loader by file extension.
func fileLoaderFor(fsys loader.FileSystem, path string) (loader.Loader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return loader.NewTOMLLoaderWithFS(fsys, path), nil
	case ".yaml", ".yml":
		return loader.NewYAMLLoaderWithFS(fsys, path), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// FromMap decodes a merged configuration map. Missing keys keep their
// default values; unknown keys are ignored.
func FromMap(m map[string]any) (*Config, error) {
	cfg := Default()
	d := decoder{data: m}

	d.intAt("buffer.initialGap", &cfg.Buffer.InitialGap)
	d.intAt("buffer.growthDivisor", &cfg.Buffer.GrowthDivisor)
	d.intAt("buffer.maxCapacity", &cfg.Buffer.MaxCapacity)
	d.stringAt("logging.level", &cfg.Logging.Level)
	d.int64At("script.instructionLimit", &cfg.Script.InstructionLimit)
	d.durationAt("script.timeout", &cfg.Script.Timeout)

	if d.err != nil {
		return nil, d.err
	}
	return cfg, nil
}

// Validate checks that all settings are in range.
func (c *Config) Validate() error {
	switch {
	case c.Buffer.InitialGap < 0:
		return &ValidationError{Path: "buffer.initialGap", Value: c.Buffer.InitialGap, Message: "must be >= 0"}
	case c.Buffer.GrowthDivisor <= 0:
		return &ValidationError{Path: "buffer.growthDivisor", Value: c.Buffer.GrowthDivisor, Message: "must be > 0"}
	case c.Buffer.MaxCapacity < 0:
		return &ValidationError{Path: "buffer.maxCapacity", Value: c.Buffer.MaxCapacity, Message: "must be >= 0"}
	case c.Buffer.MaxCapacity > 0 && c.Buffer.MaxCapacity < c.Buffer.InitialGap:
		return &ValidationError{Path: "buffer.maxCapacity", Value: c.Buffer.MaxCapacity, Message: "must be >= buffer.initialGap"}
	case c.Script.InstructionLimit < 0:
		return &ValidationError{Path: "script.instructionLimit", Value: c.Script.InstructionLimit, Message: "must be >= 0"}
	case c.Script.Timeout < 0:
		return &ValidationError{Path: "script.timeout", Value: c.Script.Timeout, Message: "must be >= 0"}
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{Path: "logging.level", Value: c.Logging.Level, Message: "must be debug, info, warn, or error"}
	}
	return nil
}

// BufferOptions converts the buffer settings to gap buffer options.
func (c *Config) BufferOptions() []gapbuffer.Option {
	opts := []gapbuffer.Option{
		gapbuffer.WithInitialGap(c.Buffer.InitialGap),
		gapbuffer.WithGrowthDivisor(c.Buffer.GrowthDivisor),
	}
	if c.Buffer.MaxCapacity > 0 {
		opts = append(opts, gapbuffer.WithMaxCapacity(c.Buffer.MaxCapacity))
	}
	return opts
}

// toMap renders the config in the layered map form.
func (c *Config) toMap() map[string]any {
	return map[string]any{
		"buffer": map[string]any{
			"initialGap":    c.Buffer.InitialGap,
			"growthDivisor": c.Buffer.GrowthDivisor,
			"maxCapacity":   c.Buffer.MaxCapacity,
		},
		"logging": map[string]any{
			"level": c.Logging.Level,
		},
		"script": map[string]any{
			"instructionLimit": c.Script.InstructionLimit,
			"timeout":          c.Script.Timeout,
		},
	}
}

// decoder reads typed values from a nested map, keeping the first error.
type decoder struct {
	data map[string]any
	err  error
}

func (d *decoder) lookup(path string) (any, bool) {
	current := d.data
	parts := strings.Split(path, ".")
	for i, part := range parts {
		v, ok := current[part]
		if !ok {
			return nil, false
		}
		if i == len(parts)-1 {
			return v, true
		}
		next, ok := v.(map[string]any)
		if !ok {
			return nil, false
		}
		current = next
	}
	return nil, false
}

func (d *decoder) int64At(path string, dst *int64) {
	if d.err != nil {
		return
	}
	v, ok := d.lookup(path)
	if !ok {
		return
	}
	switch n := v.(type) {
	case int:
		*dst = int64(n)
	case int64:
		*dst = n
	case uint64:
		if n > math.MaxInt64 {
			d.err = &TypeError{Path: path, Want: "integer", Value: v}
			return
		}
		*dst = int64(n)
	case float64:
		if n != math.Trunc(n) {
			d.err = &TypeError{Path: path, Want: "integer", Value: v}
			return
		}
		*dst = int64(n)
	default:
		d.err = &TypeError{Path: path, Want: "integer", Value: v}
	}
}

func (d *decoder) intAt(path string, dst *int) {
	n := int64(*dst)
	d.int64At(path, &n)
	if d.err == nil {
		*dst = int(n)
	}
}

func (d *decoder) stringAt(path string, dst *string) {
	if d.err != nil {
		return
	}
	v, ok := d.lookup(path)
	if !ok {
		return
	}
	s, ok := v.(string)
	if !ok {
		d.err = &TypeError{Path: path, Want: "string", Value: v}
		return
	}
	*dst = s
}

func (d *decoder) durationAt(path string, dst *time.Duration) {
	if d.err != nil {
		return
	}
	v, ok := d.lookup(path)
	if !ok {
		return
	}
	switch t := v.(type) {
	case time.Duration:
		*dst = t
	case string:
		parsed, err := time.ParseDuration(t)
		if err != nil {
			d.err = &TypeError{Path: path, Want: "duration", Value: v}
			return
		}
		*dst = parsed
	case int, int64:
		// Bare numbers are seconds.
		var secs int64
		d.int64At(path, &secs)
		*dst = time.Duration(secs) * time.Second
	default:
		d.err = &TypeError{Path: path, Want: "duration", Value: v}
	}
}
