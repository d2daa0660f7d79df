package window

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/MethodicalGamesInc/tauri/dpi"
	"github.com/MethodicalGamesInc/tauri/event"
)

func rawEvent(name, label string, payload any) event.Event {
	data, err := json.Marshal(payload)
	if err != nil {
		panic(err)
	}
	return event.Event{Name: name, ID: 1, WindowLabel: label, Payload: data}
}

func TestWindow_OnResized(t *testing.T) {
	w, bus, _ := testWindow(t)

	var got dpi.PhysicalSize
	if _, err := w.OnResized(context.Background(), func(ctx context.Context, size dpi.PhysicalSize) error {
		got = size
		return nil
	}); err != nil {
		t.Fatalf("OnResized() failed: %v", err)
	}

	bus.deliver(context.Background(), rawEvent(EventResized, "main", dpi.PhysicalSize{Width: 1024, Height: 768}))
	if got.Width != 1024 || got.Height != 768 {
		t.Errorf("unexpected size: %+v", got)
	}
}

func TestWindow_OnMoved(t *testing.T) {
	w, bus, _ := testWindow(t)

	var got dpi.PhysicalPosition
	w.OnMoved(context.Background(), func(ctx context.Context, pos dpi.PhysicalPosition) error {
		got = pos
		return nil
	})

	bus.deliver(context.Background(), rawEvent(EventMoved, "main", dpi.PhysicalPosition{X: 15, Y: 30}))
	if got.X != 15 || got.Y != 30 {
		t.Errorf("unexpected position: %+v", got)
	}
}

func TestWindow_OnScaleChanged(t *testing.T) {
	w, bus, _ := testWindow(t)

	var got ScaleFactorChanged
	w.OnScaleChanged(context.Background(), func(ctx context.Context, change ScaleFactorChanged) error {
		got = change
		return nil
	})

	bus.deliver(context.Background(), rawEvent(EventScaleChanged, "main", ScaleFactorChanged{
		ScaleFactor: 1.5,
		Size:        dpi.PhysicalSize{Width: 2880, Height: 1800},
	}))
	if got.ScaleFactor != 1.5 || got.Size.Width != 2880 {
		t.Errorf("unexpected change: %+v", got)
	}
}

func TestWindow_OnThemeChanged(t *testing.T) {
	w, bus, _ := testWindow(t)

	var got Theme
	w.OnThemeChanged(context.Background(), func(ctx context.Context, theme Theme) error {
		got = theme
		return nil
	})

	bus.deliver(context.Background(), rawEvent(EventThemeChanged, "main", "dark"))
	if got != ThemeDark {
		t.Errorf("expected dark, got %q", got)
	}
}

func TestWindow_OnMenuClicked(t *testing.T) {
	w, bus, _ := testWindow(t)

	var got string
	w.OnMenuClicked(context.Background(), func(ctx context.Context, itemID string) error {
		got = itemID
		return nil
	})

	bus.deliver(context.Background(), rawEvent(EventMenu, "main", "file-save"))
	if got != "file-save" {
		t.Errorf("expected item 'file-save', got %q", got)
	}
}

func TestWindow_Wrapper_DecodeError(t *testing.T) {
	w, bus, _ := testWindow(t)

	var called int
	w.OnResized(context.Background(), func(ctx context.Context, size dpi.PhysicalSize) error {
		called++
		return nil
	})

	err := bus.deliver(context.Background(), rawEvent(EventResized, "main", "not-a-size"))
	if err == nil || !strings.Contains(err.Error(), EventResized) {
		t.Errorf("expected decode error naming the event, got %v", err)
	}
	if called != 0 {
		t.Errorf("callback must not run on decode failure, ran %d times", called)
	}
}

func TestWindow_OnFocusChanged(t *testing.T) {
	w, bus, _ := testWindow(t)

	var states []bool
	unlisten, err := w.OnFocusChanged(context.Background(), func(ctx context.Context, focused bool) error {
		states = append(states, focused)
		return nil
	})
	if err != nil {
		t.Fatalf("OnFocusChanged() failed: %v", err)
	}
	if bus.live(EventFocus) != 1 || bus.live(EventBlur) != 1 {
		t.Fatalf("expected one subscription per channel, got %d/%d", bus.live(EventFocus), bus.live(EventBlur))
	}

	bus.deliver(context.Background(), rawEvent(EventFocus, "main", nil))
	bus.deliver(context.Background(), rawEvent(EventBlur, "main", nil))
	bus.deliver(context.Background(), rawEvent(EventFocus, "main", nil))

	want := []bool{true, false, true}
	if len(states) != len(want) {
		t.Fatalf("expected %d deliveries, got %d", len(want), len(states))
	}
	for i := range want {
		if states[i] != want[i] {
			t.Errorf("position %d: expected %v, got %v", i, want[i], states[i])
		}
	}

	if err := unlisten(); err != nil {
		t.Fatalf("unlisten failed: %v", err)
	}
	if bus.live(EventFocus) != 0 || bus.live(EventBlur) != 0 {
		t.Errorf("expected both channels released, got %d/%d", bus.live(EventFocus), bus.live(EventBlur))
	}
}

func TestWindow_OnFileDrop(t *testing.T) {
	w, bus, _ := testWindow(t)

	var drops []FileDropEvent
	unlisten, err := w.OnFileDrop(context.Background(), func(ctx context.Context, drop FileDropEvent) error {
		drops = append(drops, drop)
		return nil
	})
	if err != nil {
		t.Fatalf("OnFileDrop() failed: %v", err)
	}

	bus.deliver(context.Background(), rawEvent(EventFileDropHover, "main", []string{"/tmp/a.txt"}))
	bus.deliver(context.Background(), rawEvent(EventFileDrop, "main", []string{"/tmp/a.txt", "/tmp/b.txt"}))
	bus.deliver(context.Background(), rawEvent(EventFileDropCancelled, "main", nil))

	if len(drops) != 3 {
		t.Fatalf("expected 3 phases, got %d", len(drops))
	}
	if drops[0].Type != FileDropHover || len(drops[0].Paths) != 1 {
		t.Errorf("unexpected hover: %+v", drops[0])
	}
	if drops[1].Type != FileDropDrop || len(drops[1].Paths) != 2 {
		t.Errorf("unexpected drop: %+v", drops[1])
	}
	if drops[2].Type != FileDropCancel || drops[2].Paths != nil {
		t.Errorf("unexpected cancel: %+v", drops[2])
	}

	if err := unlisten(); err != nil {
		t.Fatalf("unlisten failed: %v", err)
	}
	for _, name := range []string{EventFileDrop, EventFileDropHover, EventFileDropCancelled} {
		if bus.live(name) != 0 {
			t.Errorf("expected %s released, %d live", name, bus.live(name))
		}
	}
}
