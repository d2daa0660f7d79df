// Package layout applies declarative window-set manifests. A manifest is a
// YAML document naming the windows to create and the creation options for
// each:
//
//	name: workbench
//	defaults:
//	  theme: dark
//	  decorations: true
//	windows:
//	  - label: main
//	    options:
//	      title: Workbench
//	      width: 1280
//	      height: 800
//	  - label: palette
//	    options:
//	      title: Palette
//	      alwaysOnTop: true
//	    patch:
//	      effects.radius: 8
//
// Option keys are the creation-option field names. Keys containing dots
// descend into nested values, so "effects.radius" patches inside the effects
// object. Manifest defaults apply first, then each window's options, then
// its patch.
package layout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/tidwall/sjson"
	"gopkg.in/yaml.v3"

	"github.com/MethodicalGamesInc/tauri/window"
)

// Manifest validation errors.
var (
	// ErrNoWindows is returned by Validate for a manifest without entries.
	ErrNoWindows = errors.New("layout: manifest has no windows")

	// ErrDuplicateLabel is returned when two entries share a label.
	ErrDuplicateLabel = errors.New("layout: duplicate label")
)

// Manifest is one parsed layout document.
type Manifest struct {
	// Name identifies the layout in logs and results.
	Name string `yaml:"name"`

	// Defaults are option values applied to every window before its own
	// options.
	Defaults map[string]any `yaml:"defaults"`

	// Windows lists the windows to create, in order.
	Windows []Entry `yaml:"windows"`
}

// Entry describes one window of the layout.
type Entry struct {
	// Label is the window identifier, validated before creation.
	Label string `yaml:"label"`

	// Options are creation-option values for this window.
	Options map[string]any `yaml:"options"`

	// Patch holds late overrides; keys may use dotted paths into nested
	// option values.
	Patch map[string]any `yaml:"patch"`
}

// Load reads and parses the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("layout: reading %s: %w", path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("layout: %s: %w", path, err)
	}
	return m, nil
}

// Parse decodes a manifest and validates it.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks the manifest is applicable: at least one window, every
// label valid and unique.
func (m *Manifest) Validate() error {
	if len(m.Windows) == 0 {
		return ErrNoWindows
	}
	seen := make(map[string]struct{}, len(m.Windows))
	for _, entry := range m.Windows {
		if !window.ValidLabel(entry.Label) {
			return fmt.Errorf("%w: %q", window.ErrInvalidLabel, entry.Label)
		}
		if _, dup := seen[entry.Label]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateLabel, entry.Label)
		}
		seen[entry.Label] = struct{}{}
	}
	return nil
}

// Result is the outcome for one manifest entry.
type Result struct {
	// Label names the entry this result belongs to.
	Label string

	// Window is the created handle; nil when Err is set.
	Window *window.Window

	// Err is the resolution or creation failure, if any.
	Err error
}

// Results collects per-entry outcomes in manifest order.
type Results []Result

// Err folds the failures into one error, nil when every entry succeeded.
func (rs Results) Err() error {
	var errs []error
	for _, r := range rs {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("window %q: %w", r.Label, r.Err))
		}
	}
	return errors.Join(errs...)
}

// Apply creates every window of the manifest through mgr, continuing past
// individual failures. base options, when non-nil, sit under the manifest's
// own defaults. The returned results are in manifest order.
func Apply(ctx context.Context, mgr *window.Manager, m *Manifest, base *window.Options) Results {
	results := make(Results, 0, len(m.Windows))
	for _, entry := range m.Windows {
		res := Result{Label: entry.Label}
		opts, err := entry.resolve(m.Defaults, base)
		if err != nil {
			res.Err = err
			results = append(results, res)
			continue
		}
		w, err := mgr.NewWindow(entry.Label, opts)
		if err != nil {
			res.Err = err
			results = append(results, res)
			continue
		}
		if err := w.Create(ctx); err != nil {
			res.Err = err
			results = append(results, res)
			continue
		}
		res.Window = w
		results = append(results, res)
	}
	return results
}

// resolve folds base options, manifest defaults, entry options and the patch
// into the final creation options. Later layers win; within a layer keys
// apply in sorted order for determinism.
func (e Entry) resolve(defaults map[string]any, base *window.Options) (*window.Options, error) {
	data := []byte("{}")
	if base != nil {
		marshaled, err := json.Marshal(base)
		if err != nil {
			return nil, fmt.Errorf("layout: encode base options: %w", err)
		}
		data = marshaled
	}

	var err error
	for _, layer := range []map[string]any{defaults, e.Options, e.Patch} {
		if data, err = applyLayer(data, layer); err != nil {
			return nil, fmt.Errorf("layout: window %q: %w", e.Label, err)
		}
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var opts window.Options
	if err := dec.Decode(&opts); err != nil {
		return nil, fmt.Errorf("layout: window %q options: %w", e.Label, err)
	}
	return &opts, nil
}

func applyLayer(data []byte, layer map[string]any) ([]byte, error) {
	keys := make([]string, 0, len(layer))
	for k := range layer {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var err error
	for _, k := range keys {
		if data, err = sjson.SetBytes(data, k, layer[k]); err != nil {
			return nil, fmt.Errorf("set %q: %w", k, err)
		}
	}
	return data, nil
}
