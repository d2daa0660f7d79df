package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/MethodicalGamesInc/tauri/config"
	"github.com/MethodicalGamesInc/tauri/layout"
	"github.com/MethodicalGamesInc/tauri/script"
)

// cmdList prints one line per window, marking the host's current one.
func cmdList(ctx context.Context, cfg *config.Config, logger *slog.Logger, out io.Writer) int {
	s, err := connect(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer s.Close()

	current := ""
	if w := s.mgr.Current(); w != nil {
		current = w.Label()
	}
	for _, label := range s.mgr.Labels() {
		marker := " "
		if label == current {
			marker = "*"
		}
		fmt.Fprintf(out, "%s %s\n", marker, label)
	}
	return 0
}

// cmdRun executes a Lua script against the connected host. When the script
// leaves event handlers installed, the process stays resident to serve them
// until interrupted.
func cmdRun(ctx context.Context, cfg *config.Config, logger *slog.Logger, path string) int {
	s, err := connect(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer s.Close()

	eng := script.New(s.mgr, s.bus, script.WithLogger(logger))
	defer eng.Close()

	if err := eng.RunFile(ctx, path); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if n := eng.Subscriptions(); n > 0 {
		logger.Info("script handlers installed, waiting for events", "handlers", n)
		<-ctx.Done()
	}
	return 0
}

// cmdApply creates the windows of a layout manifest, with the configured
// defaults underneath the manifest's own.
func cmdApply(ctx context.Context, cfg *config.Config, logger *slog.Logger, out io.Writer, path string) int {
	m, err := layout.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	s, err := connect(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer s.Close()

	results := layout.Apply(ctx, s.mgr, m, cfg.Defaults.Options())
	failed := false
	for _, r := range results {
		if r.Err != nil {
			failed = true
			fmt.Fprintf(os.Stderr, "Error: window %q: %v\n", r.Label, r.Err)
			continue
		}
		fmt.Fprintf(out, "created %s\n", r.Label)
	}
	if failed {
		return 1
	}
	return 0
}

// cmdEmit publishes one event onto the host bus. A payload that parses as
// JSON is sent structured, anything else as a plain string.
func cmdEmit(ctx context.Context, cfg *config.Config, logger *slog.Logger, name, raw string) int {
	var payload any
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			payload = raw
		}
	}

	s, err := connect(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer s.Close()

	if err := s.bus.Emit(ctx, name, payload); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
