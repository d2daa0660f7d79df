// Package config loads client configuration from a TOML file with
// environment overrides. A missing file is not an error; every field has a
// usable default. Environment variables use the TAURI_SIDECAR_ prefix and
// override file values.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/MethodicalGamesInc/tauri/ipc"
	"github.com/MethodicalGamesInc/tauri/window"
)

// Validation errors.
var (
	// ErrUnknownTransport is returned for a transport other than stdio,
	// exec or tcp.
	ErrUnknownTransport = errors.New("config: unknown transport")

	// ErrMissingAddress is returned when the tcp transport has no address.
	ErrMissingAddress = errors.New("config: tcp transport needs an address")

	// ErrMissingCommand is returned when the exec transport has no command.
	ErrMissingCommand = errors.New("config: exec transport needs a command")
)

// Transport names accepted in [Host].
const (
	TransportStdio = "stdio"
	TransportExec  = "exec"
	TransportTCP   = "tcp"
)

// Config is the full client configuration.
type Config struct {
	Host      Host      `toml:"host"`
	Log       Log       `toml:"log"`
	Authority Authority `toml:"authority"`
	Defaults  Defaults  `toml:"defaults"`
}

// Host describes how to reach the window host.
type Host struct {
	// Transport is stdio (inherited pipes), exec (spawn Command and talk
	// over its pipes) or tcp (dial Address).
	Transport string `toml:"transport"`

	// Address is the host:port for the tcp transport.
	Address string `toml:"address"`

	// Command and Args are the host process for the exec transport.
	Command string   `toml:"command"`
	Args    []string `toml:"args"`

	// Timeout bounds each command round trip. Zero means no bound beyond
	// the caller's context.
	Timeout time.Duration `toml:"timeout"`
}

// Log controls the client's slog output.
type Log struct {
	// Level is debug, info, warn or error.
	Level string `toml:"level"`
}

// SlogLevel maps the configured name onto a slog level, defaulting to info.
func (l Log) SlogLevel() slog.Level {
	switch l.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Authority is the command ACL section. An empty section allows everything.
type Authority struct {
	// Deny lists commands rejected outright, checked before Allow.
	Deny []string `toml:"deny"`

	// Allow lists permitted commands. Empty means all commands not denied.
	Allow []Rule `toml:"allow"`
}

// Rule permits one command, optionally only for windows matching the globs.
type Rule struct {
	Command string   `toml:"command"`
	Windows []string `toml:"windows"`
}

// Build turns the section into an enforcing ipc.Authority.
func (a Authority) Build() *ipc.Authority {
	rules := make([]ipc.Rule, 0, len(a.Allow))
	for _, r := range a.Allow {
		rules = append(rules, ipc.Rule{Command: r.Command, Windows: r.Windows})
	}
	return ipc.NewAuthority(rules, a.Deny)
}

// Defaults are creation options applied to windows that do not override them.
type Defaults struct {
	URL         string  `toml:"url"`
	Title       string  `toml:"title"`
	Width       float64 `toml:"width"`
	Height      float64 `toml:"height"`
	Center      bool    `toml:"center"`
	Fullscreen  bool    `toml:"fullscreen"`
	Theme       string  `toml:"theme"`
	AlwaysOnTop bool    `toml:"always_on_top"`
	Resizable   *bool   `toml:"resizable"`
	Decorations *bool   `toml:"decorations"`
	Visible     *bool   `toml:"visible"`
}

// Options translates the section into window creation options.
func (d Defaults) Options() *window.Options {
	return &window.Options{
		URL:         d.URL,
		Title:       d.Title,
		Width:       d.Width,
		Height:      d.Height,
		Center:      d.Center,
		Fullscreen:  d.Fullscreen,
		Theme:       window.Theme(d.Theme),
		AlwaysOnTop: d.AlwaysOnTop,
		Resizable:   d.Resizable,
		Decorations: d.Decorations,
		Visible:     d.Visible,
	}
}

// Default returns the configuration used when no file and no environment
// overrides are present: stdio transport, 10s timeout, info logging, open
// authority.
func Default() *Config {
	return &Config{
		Host: Host{
			Transport: TransportStdio,
			Timeout:   10 * time.Second,
		},
		Log: Log{Level: "info"},
	}
}

// Validate checks cross-field consistency.
func (c *Config) Validate() error {
	switch c.Host.Transport {
	case TransportStdio:
	case TransportExec:
		if c.Host.Command == "" {
			return ErrMissingCommand
		}
	case TransportTCP:
		if c.Host.Address == "" {
			return ErrMissingAddress
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownTransport, c.Host.Transport)
	}
	return nil
}
