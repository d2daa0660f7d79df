package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// EnvPrefix is the prefix shared by all override variables.
const EnvPrefix = "TAURI_SIDECAR_"

// Load reads the file at path over the defaults. A missing file returns the
// defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, &ParseError{Path: path, Message: err.Error(), Err: err}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadWithEnv loads the file, then applies TAURI_SIDECAR_* overrides on top.
func LoadWithEnv(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err == nil {
		if terr := toml.Unmarshal(data, cfg); terr != nil {
			return nil, &ParseError{Path: path, Message: terr.Error(), Err: terr}
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv copies recognized override variables into cfg.
//
//	TAURI_SIDECAR_TRANSPORT   host.transport
//	TAURI_SIDECAR_ADDRESS     host.address
//	TAURI_SIDECAR_COMMAND     host.command
//	TAURI_SIDECAR_ARGS        host.args (JSON array)
//	TAURI_SIDECAR_TIMEOUT     host.timeout (duration string)
//	TAURI_SIDECAR_LOG_LEVEL   log.level
func applyEnv(cfg *Config) error {
	if v, ok := lookup("TRANSPORT"); ok {
		cfg.Host.Transport = v
	}
	if v, ok := lookup("ADDRESS"); ok {
		cfg.Host.Address = v
	}
	if v, ok := lookup("COMMAND"); ok {
		cfg.Host.Command = v
	}
	if v, ok := lookup("ARGS"); ok {
		args, err := parseArgs(v)
		if err != nil {
			return fmt.Errorf("%sARGS: %w", EnvPrefix, err)
		}
		cfg.Host.Args = args
	}
	if v, ok := lookup("TIMEOUT"); ok {
		d, err := parseDuration(v)
		if err != nil {
			return fmt.Errorf("%sTIMEOUT: %w", EnvPrefix, err)
		}
		cfg.Host.Timeout = d
	}
	if v, ok := lookup("LOG_LEVEL"); ok {
		cfg.Log.Level = strings.ToLower(v)
	}
	return nil
}

func lookup(name string) (string, bool) {
	return os.LookupEnv(EnvPrefix + name)
}

// parseArgs accepts a JSON array or, as a convenience, a space-separated
// list.
func parseArgs(s string) ([]string, error) {
	if strings.HasPrefix(strings.TrimSpace(s), "[") {
		var args []string
		if err := json.Unmarshal([]byte(s), &args); err != nil {
			return nil, err
		}
		return args, nil
	}
	return strings.Fields(s), nil
}

// parseDuration accepts a duration string or a bare number of seconds.
func parseDuration(s string) (time.Duration, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(s)
}

// ParseError reports a malformed configuration file.
type ParseError struct {
	Path    string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
