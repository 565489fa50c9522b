// Package main is the entry point for the gapbuf command.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/dshills/gapbuf/internal/app"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts, watch := parseFlags()

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if watch {
		if err := application.Watch(ctx, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	// An interactive terminal is never read as input.
	var in io.Reader = os.Stdin
	if term.IsTerminal(int(os.Stdin.Fd())) {
		in = nil
	}

	if err := application.Run(ctx, in, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	return 0
}

func parseFlags() (app.Options, bool) {
	var opts app.Options
	var watch bool
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file (.toml, .yaml)")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.Script, "script", "", "Lua edit script to run")
	flag.StringVar(&opts.Script, "s", "", "Lua edit script to run (shorthand)")
	flag.StringVar(&opts.Expr, "e", "", "Lua expression to run after the script")
	flag.BoolVar(&opts.Dump, "dump", false, "Print the raw buffer layout instead of the content")
	flag.BoolVar(&opts.Quiet, "quiet", false, "Do not print the buffer content")
	flag.BoolVar(&opts.Quiet, "q", false, "Do not print the buffer content (shorthand)")
	flag.BoolVar(&watch, "watch", false, "Rerun whenever an input file or the script changes")
	flag.BoolVar(&watch, "w", false, "Rerun whenever an input file or the script changes (shorthand)")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "gapbuf - edit text through a gap buffer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: gapbuf [options] [files...]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  gapbuf file.txt                         Print file.txt\n")
		fmt.Fprintf(os.Stderr, "  gapbuf -e 'gb.set_point(0) gb.insert(\"# \")' < in.txt\n")
		fmt.Fprintf(os.Stderr, "  gapbuf -s edit.lua -dump a.txt b.txt    Show the layout after edit.lua\n")
		fmt.Fprintf(os.Stderr, "  gapbuf -w -s edit.lua notes.txt         Rerun on every save\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("gapbuf %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	switch opts.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.LogLevel)
		os.Exit(1)
	}

	// Remaining arguments are files to load
	opts.Files = flag.Args()

	return opts, watch
}
