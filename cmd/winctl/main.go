// Package main is the entry point for winctl, a command line client for
// Tauri-style window hosts.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/MethodicalGamesInc/tauri/config"
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
	opts := parseFlags()

	cfg, err := config.LoadWithEnv(opts.ConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if opts.Transport != "" {
		cfg.Host.Transport = opts.Transport
	}
	if opts.Address != "" {
		cfg.Host.Address = opts.Address
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.Log.SlogLevel(),
	}))

	// On the stdio transport the protocol owns stdout, so human output
	// moves to stderr.
	out := io.Writer(os.Stdout)
	if cfg.Host.Transport == config.TransportStdio {
		out = os.Stderr
	}

	if len(opts.Args) == 0 {
		flag.Usage()
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	command, rest := opts.Args[0], opts.Args[1:]
	switch command {
	case "list":
		if len(rest) != 0 {
			fmt.Fprintln(os.Stderr, "Error: list takes no arguments")
			return 2
		}
		return cmdList(ctx, cfg, logger, out)
	case "run":
		if len(rest) != 1 {
			fmt.Fprintln(os.Stderr, "Error: run needs a script path")
			return 2
		}
		return cmdRun(ctx, cfg, logger, rest[0])
	case "apply":
		if len(rest) != 1 {
			fmt.Fprintln(os.Stderr, "Error: apply needs a manifest path")
			return 2
		}
		return cmdApply(ctx, cfg, logger, out, rest[0])
	case "emit":
		if len(rest) < 1 || len(rest) > 2 {
			fmt.Fprintln(os.Stderr, "Error: emit needs an event name and an optional payload")
			return 2
		}
		payload := ""
		if len(rest) == 2 {
			payload = rest[1]
		}
		return cmdEmit(ctx, cfg, logger, rest[0], payload)
	case "watch":
		if cfg.Host.Transport == config.TransportStdio {
			fmt.Fprintln(os.Stderr, "Error: watch needs the exec or tcp transport")
			return 2
		}
		return cmdWatch(ctx, cfg, logger, rest)
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n", command)
		flag.Usage()
		return 2
	}
}

type options struct {
	ConfigPath string
	Transport  string
	Address    string
	LogLevel   string
	Args       []string
}

func parseFlags() options {
	var opts options
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.Transport, "transport", "", "Host transport (stdio, exec, tcp)")
	flag.StringVar(&opts.Transport, "t", "", "Host transport (shorthand)")
	flag.StringVar(&opts.Address, "address", "", "Host address for the tcp transport")
	flag.StringVar(&opts.Address, "a", "", "Host address for the tcp transport (shorthand)")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "winctl - control client for window hosts\n\n")
		fmt.Fprintf(os.Stderr, "Usage: winctl [options] <command> [args]\n\n")
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  list                 List the host's windows\n")
		fmt.Fprintf(os.Stderr, "  run <script.lua>     Run a Lua automation script\n")
		fmt.Fprintf(os.Stderr, "  apply <layout.yaml>  Create the windows of a layout manifest\n")
		fmt.Fprintf(os.Stderr, "  emit <name> [json]   Emit an event onto the host bus\n")
		fmt.Fprintf(os.Stderr, "  watch [event...]     Show bus events live in the terminal\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  winctl list                          List windows over the default transport\n")
		fmt.Fprintf(os.Stderr, "  winctl -t tcp -a localhost:7420 watch\n")
		fmt.Fprintf(os.Stderr, "  winctl run setup.lua                 Run an automation script\n")
		fmt.Fprintf(os.Stderr, "  winctl emit build/done '{\"ok\":true}'\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("winctl %s\n", version)
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

	opts.Args = flag.Args()
	return opts
}
