// Package app wires configuration, logging, the gap buffer and the Lua
// scripting layer into the gapbuf command.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/dshills/gapbuf/internal/config"
	"github.com/dshills/gapbuf/internal/engine/buffer"
	"github.com/dshills/gapbuf/internal/engine/gapbuffer"
	"github.com/dshills/gapbuf/internal/plugin/api"
	"github.com/dshills/gapbuf/internal/plugin/lua"
)

// StdinName is the file name that selects standard input.
const StdinName = "-"

// Application runs one load, edit and print cycle over a gap buffer.
type Application struct {
	opts    Options
	config  *config.Config
	logger  *Logger
	session uuid.UUID
}

// Options configures the application.
type Options struct {
	// ConfigPath is the path to a TOML or YAML configuration file.
	ConfigPath string

	// LogLevel overrides the configured logging level.
	LogLevel string

	// LogOutput receives log lines. Defaults to os.Stderr.
	LogOutput io.Writer

	// Script is a Lua file run against the buffer.
	Script string

	// Expr is Lua source run after Script.
	Expr string

	// Dump prints the raw buffer layout instead of its content.
	Dump bool

	// Quiet suppresses printing the buffer content.
	Quiet bool

	// Files are loaded in order. "-" reads standard input; no files reads
	// standard input too.
	Files []string
}

// New creates a new Application with the given options.
func New(opts Options) (*Application, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, &InitError{Component: "config", Err: err}
	}

	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
		if err := cfg.Validate(); err != nil {
			return nil, &InitError{Component: "config", Err: err}
		}
	}

	session := uuid.New()
	logger := NewLogger(LoggerConfig{
		Level:  ParseLogLevel(cfg.Logging.Level),
		Output: opts.LogOutput,
		Prefix: "gapbuf",
	}).WithField("session", session.String())

	logger.Debug("config loaded: initialGap=%d growthDivisor=%d maxCapacity=%d",
		cfg.Buffer.InitialGap, cfg.Buffer.GrowthDivisor, cfg.Buffer.MaxCapacity)

	return &Application{
		opts:    opts,
		config:  cfg,
		logger:  logger,
		session: session,
	}, nil
}

// Config returns the effective configuration.
func (app *Application) Config() *config.Config {
	return app.config
}

// Session returns the identifier attached to this run's log lines.
func (app *Application) Session() uuid.UUID {
	return app.session
}

// Run loads the input into a fresh buffer, applies the edit script and
// writes the result to out. in is used when no files are given or a file
// is named "-".
func (app *Application) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	log := app.Logger().WithComponent("buffer")

	doc, err := buffer.NewBuffer(buffer.WithGapBufferOptions(app.config.BufferOptions()...))
	if err != nil {
		log.Error("create: %v", err)
		return NewOperationError("create", "buffer", err)
	}
	defer doc.Close()
	log = log.WithField("buffer", doc.ID().String())

	// Input bytes go in unnormalized; the document only guards access.
	return doc.Do(func(gb *gapbuffer.GapBuffer) error {
		return app.edit(ctx, gb, in, out, log)
	})
}

func (app *Application) edit(ctx context.Context, gb *gapbuffer.GapBuffer, in io.Reader, out io.Writer, log *Logger) error {
	if err := app.load(gb, in); err != nil {
		log.Error("%v", err)
		return err
	}
	log.Debug("loaded %d bytes, gap=%d", gb.Len(), gb.GapSize())

	if err := app.runScripts(ctx, gb, out); err != nil {
		app.Logger().WithComponent("lua").Error("%v", err)
		return err
	}

	stats := gb.Stats()
	log.WithFields(map[string]any{
		"len":   gb.Len(),
		"moved": stats.MovedBytes,
		"grows": stats.Grows,
	}).Debug("edit complete")

	switch {
	case app.opts.Dump:
		if _, err := fmt.Fprintf(out, "%+v\n", gb); err != nil {
			return NewOperationError("write", "dump", err)
		}
	case !app.opts.Quiet:
		gb.Seeker().SeekTo(0)
		if _, err := io.Copy(out, gb.Reader()); err != nil {
			return NewOperationError("write", "output", err)
		}
	}
	return nil
}

// load appends every input to gb through its write stream.
func (app *Application) load(gb *gapbuffer.GapBuffer, in io.Reader) error {
	files := app.opts.Files
	if len(files) == 0 {
		files = []string{StdinName}
	}

	w := gb.Writer()
	for _, name := range files {
		if name == StdinName {
			if in == nil {
				continue
			}
			if _, err := w.ReadFrom(in); err != nil {
				return NewOperationError("load", "stdin", err)
			}
			continue
		}

		if err := loadFile(w, name); err != nil {
			return NewOperationError("load", name, err)
		}
	}
	return nil
}

func loadFile(w gapbuffer.Writer, name string) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = w.ReadFrom(f)
	return err
}

// runScripts runs the script file and then the expression, if set. The
// point starts at the end of the loaded content.
func (app *Application) runScripts(ctx context.Context, gb *gapbuffer.GapBuffer, out io.Writer) error {
	if app.opts.Script == "" && app.opts.Expr == "" {
		return nil
	}

	state, err := lua.NewState(
		lua.WithExecutionTimeout(app.config.Script.Timeout),
		lua.WithInstructionLimit(app.config.Script.InstructionLimit),
		lua.WithOutput(out),
	)
	if err != nil {
		return &InitError{Component: "lua", Err: err}
	}
	defer state.Close()

	if err := api.NewBufferModule(gb, state.Sandbox()).Register(state.LuaState()); err != nil {
		return &InitError{Component: "lua", Err: err}
	}

	if app.opts.Script != "" {
		app.Logger().WithComponent("lua").Debug("running %s", app.opts.Script)
		if err := state.DoFile(ctx, app.opts.Script); err != nil {
			return NewOperationError("run", app.opts.Script, scriptError(err))
		}
	}
	if app.opts.Expr != "" {
		if err := state.DoString(ctx, app.opts.Expr); err != nil {
			return NewOperationError("run", "expression", scriptError(err))
		}
	}
	return nil
}

// scriptError tags err with ErrScriptFailed unless it is already a limit
// or cancellation error.
func scriptError(err error) error {
	if errors.Is(err, lua.ErrExecutionTimeout) ||
		errors.Is(err, lua.ErrInstructionLimit) ||
		errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrScriptFailed, err)
}
