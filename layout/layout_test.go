package layout

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/MethodicalGamesInc/tauri/event"
	"github.com/MethodicalGamesInc/tauri/ipc"
	"github.com/MethodicalGamesInc/tauri/window"
)

const manifestYAML = `
name: workbench
defaults:
  theme: dark
  width: 800
windows:
  - label: main
    options:
      title: Workbench
      width: 1280
  - label: palette
    options:
      title: Palette
      alwaysOnTop: true
    patch:
      effects.radius: 8
`

// recorder captures create commands and optionally fails chosen labels.
type recorder struct {
	mu      sync.Mutex
	creates []createCall
	fail    map[string]error
}

type createCall struct {
	Label   string         `json:"label"`
	Options map[string]any `json:"options"`
}

func (r *recorder) invoker() ipc.Invoker {
	return ipc.InvokerFunc(func(ctx context.Context, command string, args, result any) error {
		if command != "create" {
			return nil
		}
		data, err := json.Marshal(args)
		if err != nil {
			return err
		}
		var call createCall
		if err := json.Unmarshal(data, &call); err != nil {
			return err
		}
		r.mu.Lock()
		defer r.mu.Unlock()
		if err := r.fail[call.Label]; err != nil {
			return err
		}
		r.creates = append(r.creates, call)
		return nil
	})
}

func testManager(rec *recorder) *window.Manager {
	return window.NewManager(event.NewBroker(nil), rec.invoker(), nil)
}

func TestParse(t *testing.T) {
	m, err := Parse([]byte(manifestYAML))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if m.Name != "workbench" {
		t.Errorf("name = %q", m.Name)
	}
	if len(m.Windows) != 2 {
		t.Fatalf("expected 2 windows, got %d", len(m.Windows))
	}
	if m.Windows[0].Label != "main" || m.Windows[1].Label != "palette" {
		t.Errorf("unexpected labels: %+v", m.Windows)
	}
	if m.Defaults["theme"] != "dark" {
		t.Errorf("defaults = %v", m.Defaults)
	}
	if m.Windows[1].Patch["effects.radius"] != 8 {
		t.Errorf("patch = %v", m.Windows[1].Patch)
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := Parse([]byte("windows: [")); err == nil {
		t.Error("expected malformed YAML to fail")
	}

	if _, err := Parse([]byte("name: empty")); !errors.Is(err, ErrNoWindows) {
		t.Errorf("expected ErrNoWindows, got %v", err)
	}

	dup := `
windows:
  - label: main
  - label: main
`
	if _, err := Parse([]byte(dup)); !errors.Is(err, ErrDuplicateLabel) {
		t.Errorf("expected ErrDuplicateLabel, got %v", err)
	}

	bad := `
windows:
  - label: "no spaces"
`
	if _, err := Parse([]byte(bad)); !errors.Is(err, window.ErrInvalidLabel) {
		t.Errorf("expected ErrInvalidLabel, got %v", err)
	}
}

func TestApply(t *testing.T) {
	m, err := Parse([]byte(manifestYAML))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	rec := &recorder{}

	results := Apply(context.Background(), testManager(rec), m, nil)
	if err := results.Err(); err != nil {
		t.Fatalf("Apply reported failures: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for _, res := range results {
		if res.Window == nil {
			t.Errorf("window %q: missing handle", res.Label)
		}
	}

	if len(rec.creates) != 2 {
		t.Fatalf("expected 2 create commands, got %d", len(rec.creates))
	}

	main := rec.creates[0]
	if main.Label != "main" {
		t.Errorf("first create label = %q", main.Label)
	}
	// Entry options override manifest defaults.
	if main.Options["width"] != float64(1280) {
		t.Errorf("width = %v, want 1280", main.Options["width"])
	}
	if main.Options["theme"] != "dark" {
		t.Errorf("theme = %v, want dark (from defaults)", main.Options["theme"])
	}
	if main.Options["title"] != "Workbench" {
		t.Errorf("title = %v", main.Options["title"])
	}

	palette := rec.creates[1]
	// Defaults fill fields no entry option set.
	if palette.Options["width"] != float64(800) {
		t.Errorf("palette width = %v, want 800", palette.Options["width"])
	}
	if palette.Options["alwaysOnTop"] != true {
		t.Errorf("alwaysOnTop = %v", palette.Options["alwaysOnTop"])
	}
	// Dotted patch paths reach nested values.
	effects, ok := palette.Options["effects"].(map[string]any)
	if !ok || effects["radius"] != float64(8) {
		t.Errorf("effects = %v, want radius 8", palette.Options["effects"])
	}
}

func TestApply_BaseOptions(t *testing.T) {
	m, err := Parse([]byte(`
windows:
  - label: main
    options:
      title: Override
`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	rec := &recorder{}

	base := &window.Options{Title: "Base", Height: 600, Resizable: window.Bool(false)}
	results := Apply(context.Background(), testManager(rec), m, base)
	if err := results.Err(); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	opts := rec.creates[0].Options
	if opts["title"] != "Override" {
		t.Errorf("title = %v, want manifest to win", opts["title"])
	}
	if opts["height"] != float64(600) {
		t.Errorf("height = %v, want base to survive", opts["height"])
	}
	if opts["resizable"] != false {
		t.Errorf("resizable = %v, want explicit false from base", opts["resizable"])
	}
}

func TestApply_ContinuesPastFailure(t *testing.T) {
	m, err := Parse([]byte(`
windows:
  - label: main
  - label: palette
`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	rec := &recorder{fail: map[string]error{"main": errors.New("label taken")}}

	results := Apply(context.Background(), testManager(rec), m, nil)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Err == nil || results[0].Window != nil {
		t.Errorf("expected first entry to fail, got %+v", results[0])
	}
	if results[1].Err != nil || results[1].Window == nil {
		t.Errorf("expected second entry to succeed, got %+v", results[1])
	}

	err = results.Err()
	if err == nil || !strings.Contains(err.Error(), `"main"`) {
		t.Errorf("expected aggregate error naming the window, got %v", err)
	}
}

func TestApply_UnknownOptionKey(t *testing.T) {
	m, err := Parse([]byte(`
windows:
  - label: main
    options:
      titel: typo
`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	rec := &recorder{}

	results := Apply(context.Background(), testManager(rec), m, nil)
	if results[0].Err == nil {
		t.Error("expected unknown option key to fail resolution")
	}
	if len(rec.creates) != 0 {
		t.Errorf("failed resolution must not reach the host, got %d creates", len(rec.creates))
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.yaml")
	if err := os.WriteFile(path, []byte(manifestYAML), 0o644); err != nil {
		t.Fatalf("writing manifest: %v", err)
	}

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if m.Name != "workbench" {
		t.Errorf("name = %q", m.Name)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected missing file to fail")
	}
}
