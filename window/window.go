package window

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/MethodicalGamesInc/tauri/event"
	"github.com/MethodicalGamesInc/tauri/ipc"
)

// Window is a client-side handle to one host window, identified by label.
// Handles are cheap aliases: any number may exist for the same label and all
// address the same native window. The local creation-lifecycle listener table
// is per-handle state; host event subscriptions go through the shared bus.
type Window struct {
	label string

	bus    event.Bus
	inv    ipc.Invoker
	logger *slog.Logger

	opts  *Options
	track func(label string)

	mu    sync.Mutex
	local map[string][]*localListener
}

// localListener wraps a handler so each registration has its own identity;
// unlisten removes exactly the entry it was issued for.
type localListener struct {
	handler event.Handler
}

func newWindow(label string, bus event.Bus, inv ipc.Invoker, logger *slog.Logger) *Window {
	if logger == nil {
		logger = slog.Default()
	}
	return &Window{
		label:  label,
		bus:    bus,
		inv:    inv,
		logger: logger,
	}
}

// Label returns the window's identifier.
func (w *Window) Label() string { return w.label }

// Listen subscribes handler to the named event for this window. The two
// reserved local names are served from this handle's own table and never
// reach the bus; every other name, "tauri://"-prefixed or not, becomes a bus
// subscription scoped to this window's label.
func (w *Window) Listen(ctx context.Context, name string, handler event.Handler) (event.UnlistenFunc, error) {
	if handler == nil {
		return nil, event.ErrNilHandler
	}
	if isLocalEvent(name) {
		return w.listenLocal(name, handler), nil
	}
	return w.bus.Listen(ctx, name, handler, event.WithTarget(w.label))
}

// Once subscribes like Listen. On the bus path the subscription auto-removes
// after one delivery. On the local path the entry stays in the table until
// its unlisten runs: local events fire at most once per handle anyway, so the
// table does not track firing state.
func (w *Window) Once(ctx context.Context, name string, handler event.Handler) (event.UnlistenFunc, error) {
	if handler == nil {
		return nil, event.ErrNilHandler
	}
	if isLocalEvent(name) {
		return w.listenLocal(name, handler), nil
	}
	return w.bus.Once(ctx, name, handler, event.WithTarget(w.label))
}

// Emit publishes an event from this window. Local names dispatch
// synchronously to this handle's listeners without touching the host; other
// names go through the bus targeted at this window's label.
func (w *Window) Emit(ctx context.Context, name string, payload any) error {
	if isLocalEvent(name) {
		return w.emitLocal(ctx, name, payload)
	}
	return w.bus.Emit(ctx, name, payload, event.WithTarget(w.label))
}

// Create asks the host to realize this window with the options it was
// constructed with. The outcome is reported twice: through the returned
// error, and through the local created/error events for code written against
// the event-only contract.
func (w *Window) Create(ctx context.Context) error {
	err := w.inv.Invoke(ctx, CommandCreate, createArgs{Label: w.label, Options: w.opts}, nil)
	if err != nil {
		if lerr := w.emitLocal(ctx, EventError, err.Error()); lerr != nil {
			w.logger.Warn("creation error listener failed", "label", w.label, "error", lerr)
		}
		return err
	}
	if w.track != nil {
		w.track(w.label)
	}
	if lerr := w.emitLocal(ctx, EventCreated, nil); lerr != nil {
		w.logger.Warn("created listener failed", "label", w.label, "error", lerr)
	}
	return nil
}

func (w *Window) listenLocal(name string, handler event.Handler) event.UnlistenFunc {
	entry := &localListener{handler: handler}

	w.mu.Lock()
	if w.local == nil {
		w.local = make(map[string][]*localListener)
	}
	w.local[name] = append(w.local[name], entry)
	w.mu.Unlock()

	var once sync.Once
	return func() error {
		once.Do(func() {
			w.removeLocal(name, entry)
		})
		return nil
	}
}

// removeLocal splices out the first (only) entry identical to the given one.
func (w *Window) removeLocal(name string, entry *localListener) {
	w.mu.Lock()
	defer w.mu.Unlock()
	entries := w.local[name]
	for i, e := range entries {
		if e != entry {
			continue
		}
		w.local[name] = append(entries[:i:i], entries[i+1:]...)
		if len(w.local[name]) == 0 {
			delete(w.local, name)
		}
		return
	}
}

// emitLocal synthesizes an event record and delivers it to this handle's
// listeners in registration order, on the calling goroutine. Delivery
// iterates a snapshot, so a handler that emits again or unlistens mid-flight
// changes later emits only. No listeners is a silent no-op.
func (w *Window) emitLocal(ctx context.Context, name string, payload any) error {
	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("window: encode %q payload: %w", name, err)
		}
		raw = data
	}
	ev := event.Event{
		Name:        name,
		ID:          event.IDNotAssigned,
		WindowLabel: w.label,
		Payload:     raw,
	}

	w.mu.Lock()
	entries := w.local[name]
	snapshot := make([]*localListener, len(entries))
	copy(snapshot, entries)
	w.mu.Unlock()

	var errs []error
	for _, entry := range snapshot {
		if err := entry.handler(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
