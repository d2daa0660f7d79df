package window

import (
	"context"
	"errors"
	"fmt"

	"github.com/MethodicalGamesInc/tauri/dpi"
	"github.com/MethodicalGamesInc/tauri/event"
)

// ScaleFactorChanged is the payload of a scale-change event: the new factor
// plus the content size after the change, in physical pixels.
type ScaleFactorChanged struct {
	ScaleFactor float64          `json:"scaleFactor"`
	Size        dpi.PhysicalSize `json:"size"`
}

// FileDropType tags the three phases of a file drag over the window.
type FileDropType string

const (
	FileDropHover  FileDropType = "hover"
	FileDropDrop   FileDropType = "drop"
	FileDropCancel FileDropType = "cancel"
)

// FileDropEvent is the fan-in of the three file-drop channels. Paths is
// empty for the cancel phase.
type FileDropEvent struct {
	Type  FileDropType `json:"type"`
	Paths []string     `json:"paths,omitempty"`
}

// OnResized subscribes to content-size changes.
func (w *Window) OnResized(ctx context.Context, fn func(ctx context.Context, size dpi.PhysicalSize) error) (event.UnlistenFunc, error) {
	return w.Listen(ctx, EventResized, func(ctx context.Context, ev event.Event) error {
		var size dpi.PhysicalSize
		if err := ev.DecodePayload(&size); err != nil {
			return fmt.Errorf("window: decode %s payload: %w", ev.Name, err)
		}
		return fn(ctx, size)
	})
}

// OnMoved subscribes to window position changes.
func (w *Window) OnMoved(ctx context.Context, fn func(ctx context.Context, pos dpi.PhysicalPosition) error) (event.UnlistenFunc, error) {
	return w.Listen(ctx, EventMoved, func(ctx context.Context, ev event.Event) error {
		var pos dpi.PhysicalPosition
		if err := ev.DecodePayload(&pos); err != nil {
			return fmt.Errorf("window: decode %s payload: %w", ev.Name, err)
		}
		return fn(ctx, pos)
	})
}

// OnScaleChanged subscribes to DPI changes, usually from the window moving
// between monitors.
func (w *Window) OnScaleChanged(ctx context.Context, fn func(ctx context.Context, change ScaleFactorChanged) error) (event.UnlistenFunc, error) {
	return w.Listen(ctx, EventScaleChanged, func(ctx context.Context, ev event.Event) error {
		var change ScaleFactorChanged
		if err := ev.DecodePayload(&change); err != nil {
			return fmt.Errorf("window: decode %s payload: %w", ev.Name, err)
		}
		return fn(ctx, change)
	})
}

// OnThemeChanged subscribes to light/dark appearance switches.
func (w *Window) OnThemeChanged(ctx context.Context, fn func(ctx context.Context, theme Theme) error) (event.UnlistenFunc, error) {
	return w.Listen(ctx, EventThemeChanged, func(ctx context.Context, ev event.Event) error {
		var theme Theme
		if err := ev.DecodePayload(&theme); err != nil {
			return fmt.Errorf("window: decode %s payload: %w", ev.Name, err)
		}
		return fn(ctx, theme)
	})
}

// OnMenuClicked subscribes to native menu activations, delivering the
// clicked item's identifier.
func (w *Window) OnMenuClicked(ctx context.Context, fn func(ctx context.Context, itemID string) error) (event.UnlistenFunc, error) {
	return w.Listen(ctx, EventMenu, func(ctx context.Context, ev event.Event) error {
		var itemID string
		if err := ev.DecodePayload(&itemID); err != nil {
			return fmt.Errorf("window: decode %s payload: %w", ev.Name, err)
		}
		return fn(ctx, itemID)
	})
}

// OnFocusChanged pairs the focus and blur channels into one boolean
// subscription: true on focus gained, false on focus lost. The returned
// unlisten removes both underlying subscriptions, attempting the second even
// if the first fails.
func (w *Window) OnFocusChanged(ctx context.Context, fn func(ctx context.Context, focused bool) error) (event.UnlistenFunc, error) {
	unFocus, err := w.Listen(ctx, EventFocus, func(ctx context.Context, ev event.Event) error {
		return fn(ctx, true)
	})
	if err != nil {
		return nil, err
	}
	unBlur, err := w.Listen(ctx, EventBlur, func(ctx context.Context, ev event.Event) error {
		return fn(ctx, false)
	})
	if err != nil {
		unFocus()
		return nil, err
	}
	return composite(unFocus, unBlur), nil
}

// OnFileDrop fans the hover, drop and cancel channels into one tagged
// subscription. The returned unlisten removes all three underlying
// subscriptions, attempting every one regardless of individual failures.
func (w *Window) OnFileDrop(ctx context.Context, fn func(ctx context.Context, drop FileDropEvent) error) (event.UnlistenFunc, error) {
	paths := func(ev event.Event) ([]string, error) {
		var p []string
		if err := ev.DecodePayload(&p); err != nil {
			return nil, fmt.Errorf("window: decode %s payload: %w", ev.Name, err)
		}
		return p, nil
	}

	unDrop, err := w.Listen(ctx, EventFileDrop, func(ctx context.Context, ev event.Event) error {
		p, err := paths(ev)
		if err != nil {
			return err
		}
		return fn(ctx, FileDropEvent{Type: FileDropDrop, Paths: p})
	})
	if err != nil {
		return nil, err
	}
	unHover, err := w.Listen(ctx, EventFileDropHover, func(ctx context.Context, ev event.Event) error {
		p, err := paths(ev)
		if err != nil {
			return err
		}
		return fn(ctx, FileDropEvent{Type: FileDropHover, Paths: p})
	})
	if err != nil {
		unDrop()
		return nil, err
	}
	unCancel, err := w.Listen(ctx, EventFileDropCancelled, func(ctx context.Context, ev event.Event) error {
		return fn(ctx, FileDropEvent{Type: FileDropCancel})
	})
	if err != nil {
		unDrop()
		unHover()
		return nil, err
	}
	return composite(unDrop, unHover, unCancel), nil
}

// composite folds several unlisten actions into one. Every action is
// attempted; failures are collected rather than short-circuiting.
func composite(unlistens ...event.UnlistenFunc) event.UnlistenFunc {
	return func() error {
		var errs []error
		for _, unlisten := range unlistens {
			if err := unlisten(); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}
}
