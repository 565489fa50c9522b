package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dshills/gapbuf/internal/config"
	"github.com/dshills/gapbuf/internal/engine/gapbuffer"
	"github.com/dshills/gapbuf/internal/plugin/lua"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestApp(t *testing.T, opts Options) (*Application, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	if opts.LogOutput == nil {
		opts.LogOutput = &logs
	}
	app, err := New(opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return app, &logs
}

func runApp(t *testing.T, app *Application, input string) string {
	t.Helper()
	var out bytes.Buffer
	if err := app.Run(context.Background(), strings.NewReader(input), &out); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return out.String()
}

func TestNewApplication(t *testing.T) {
	app, _ := newTestApp(t, Options{})

	if app.Config() == nil {
		t.Fatal("Config() is nil")
	}
	if app.Session().String() == "" {
		t.Error("Session() is empty")
	}
	if app.Logger() == nil {
		t.Error("Logger() is nil")
	}
}

func TestNewApplicationLogLevelOverride(t *testing.T) {
	app, _ := newTestApp(t, Options{LogLevel: "debug"})
	if app.Config().Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", app.Config().Logging.Level)
	}

	_, err := New(Options{LogLevel: "chatty"})
	if !errors.Is(err, ErrInitialization) || !errors.Is(err, config.ErrValidationFailed) {
		t.Errorf("New() error = %v, want initialization and validation errors", err)
	}
}

func TestNewApplicationMissingConfig(t *testing.T) {
	_, err := New(Options{ConfigPath: filepath.Join(t.TempDir(), "absent.toml")})
	if !errors.Is(err, config.ErrFileNotFound) {
		t.Errorf("New() error = %v, want ErrFileNotFound", err)
	}
}

func TestRunCopiesStdin(t *testing.T) {
	app, _ := newTestApp(t, Options{})

	if got := runApp(t, app, "hello world"); got != "hello world" {
		t.Errorf("output = %q, want %q", got, "hello world")
	}
}

func TestRunExpression(t *testing.T) {
	app, _ := newTestApp(t, Options{Expr: `
		gb.set_point(5)
		gb.delete_forward(6)
		gb.insert(", gap")
	`})

	if got := runApp(t, app, "hello world"); got != "hello, gap" {
		t.Errorf("output = %q, want %q", got, "hello, gap")
	}
}

func TestRunScriptThenExpression(t *testing.T) {
	script := writeFile(t, "edit.lua", `gb.set_point(0) gb.insert("[")`)
	app, _ := newTestApp(t, Options{
		Script: script,
		Expr:   `gb.set_point(gb.len()) gb.insert("]")`,
	})

	if got := runApp(t, app, "body"); got != "[body]" {
		t.Errorf("output = %q, want %q", got, "[body]")
	}
}

func TestRunFiles(t *testing.T) {
	a := writeFile(t, "a.txt", "first\n")
	b := writeFile(t, "b.txt", "second\n")
	app, _ := newTestApp(t, Options{Files: []string{a, StdinName, b}})

	if got := runApp(t, app, "middle\n"); got != "first\nmiddle\nsecond\n" {
		t.Errorf("output = %q", got)
	}
}

func TestRunMissingFile(t *testing.T) {
	app, logs := newTestApp(t, Options{Files: []string{filepath.Join(t.TempDir(), "nope.txt")}})

	err := app.Run(context.Background(), nil, &bytes.Buffer{})
	var opErr *OperationError
	if !errors.As(err, &opErr) || opErr.Op != "load" {
		t.Fatalf("Run() error = %v, want load OperationError", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Run() error = %v, want os.ErrNotExist", err)
	}
	if !strings.Contains(logs.String(), "[ERROR]") {
		t.Errorf("expected error log, got: %s", logs.String())
	}
}

func TestRunDump(t *testing.T) {
	app, _ := newTestApp(t, Options{Dump: true, Expr: `gb.set_point(2)`})

	got := runApp(t, app, "abcd")
	if !strings.HasSuffix(got, "len=4 point=2 gap=[4,20)\n") {
		t.Errorf("dump = %q", got)
	}
	if !strings.HasPrefix(got, "ab|cd") {
		t.Errorf("dump should show the point before the gap moves: %q", got)
	}
}

func TestRunQuietWithPrint(t *testing.T) {
	app, _ := newTestApp(t, Options{Quiet: true, Expr: `print(gb.len(), gb.grapheme_count())`})

	if got := runApp(t, app, "e\u0301!"); got != "4\t2\n" {
		t.Errorf("output = %q, want %q", got, "4\t2\n")
	}
}

func TestRunScriptError(t *testing.T) {
	app, _ := newTestApp(t, Options{Expr: `error("bad edit")`})

	err := app.Run(context.Background(), strings.NewReader(""), &bytes.Buffer{})
	if !errors.Is(err, ErrScriptFailed) {
		t.Errorf("Run() error = %v, want ErrScriptFailed", err)
	}
	if err == nil || !strings.Contains(err.Error(), "bad edit") {
		t.Errorf("Run() error = %v, want script message", err)
	}
}

func TestRunScriptTimeout(t *testing.T) {
	path := writeFile(t, "gapbuf.toml", "[script]\ntimeout = \"50ms\"\n")
	app, _ := newTestApp(t, Options{ConfigPath: path, Expr: `while true do end`})

	start := time.Now()
	err := app.Run(context.Background(), strings.NewReader(""), &bytes.Buffer{})
	if !errors.Is(err, lua.ErrExecutionTimeout) {
		t.Errorf("Run() error = %v, want ErrExecutionTimeout", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Error("timeout was not enforced")
	}
}

func TestRunInstructionLimit(t *testing.T) {
	path := writeFile(t, "gapbuf.yaml", "script:\n  instructionLimit: 10\n")
	app, _ := newTestApp(t, Options{ConfigPath: path, Expr: `for i = 1, 100 do gb.insert("x") end`})

	err := app.Run(context.Background(), strings.NewReader(""), &bytes.Buffer{})
	if !errors.Is(err, lua.ErrInstructionLimit) {
		t.Errorf("Run() error = %v, want ErrInstructionLimit", err)
	}
}

func TestRunCapacityLimit(t *testing.T) {
	path := writeFile(t, "gapbuf.toml", "[buffer]\nmaxCapacity = 64\n")
	app, _ := newTestApp(t, Options{ConfigPath: path})

	err := app.Run(context.Background(), strings.NewReader(strings.Repeat("x", 1000)), &bytes.Buffer{})
	if !errors.Is(err, gapbuffer.ErrOutOfMemory) {
		t.Errorf("Run() error = %v, want out of memory", err)
	}
}

func TestRunKeepsRawLineEndings(t *testing.T) {
	app, _ := newTestApp(t, Options{})

	if got := runApp(t, app, "a\r\nb\rc\n"); got != "a\r\nb\rc\n" {
		t.Errorf("Run() output = %q, want input bytes unchanged", got)
	}
}

func TestRunLogsDocumentID(t *testing.T) {
	app, logs := newTestApp(t, Options{LogLevel: "debug"})
	runApp(t, app, "abc")

	if !strings.Contains(logs.String(), "buffer=") {
		t.Errorf("expected buffer id field in logs: %s", logs.String())
	}
}

func TestRunDebugLogging(t *testing.T) {
	app, logs := newTestApp(t, Options{LogLevel: "debug"})
	runApp(t, app, "abc")

	out := logs.String()
	if !strings.Contains(out, "session="+app.Session().String()) {
		t.Errorf("expected session field in logs: %s", out)
	}
	if !strings.Contains(out, "loaded 3 bytes") {
		t.Errorf("expected load log line: %s", out)
	}
}
