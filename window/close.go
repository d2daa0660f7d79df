package window

import (
	"context"
	"sync/atomic"

	"github.com/MethodicalGamesInc/tauri/event"
)

// CloseRequestedEvent is handed to an OnCloseRequested handler once per
// close request. Calling PreventDefault keeps the window open; doing nothing
// lets the close proceed after the handler returns.
type CloseRequestedEvent struct {
	// Name is the event name the request arrived under.
	Name string

	// WindowLabel identifies the window being closed.
	WindowLabel string

	// ID is the bus registration the request was routed to.
	ID int64

	prevented atomic.Bool
}

// PreventDefault vetoes the close. Calling it more than once is the same as
// calling it once.
func (e *CloseRequestedEvent) PreventDefault() {
	e.prevented.Store(true)
}

// IsPreventDefault reports whether the close has been vetoed.
func (e *CloseRequestedEvent) IsPreventDefault() bool {
	return e.prevented.Load()
}

// CloseHandler decides the fate of one close request.
type CloseHandler func(ctx context.Context, ev *CloseRequestedEvent) error

// OnCloseRequested intercepts the user closing the window. For each request
// the handler runs to completion first; if it neither vetoed nor failed, the
// window's close operation is invoked exactly once afterwards. A handler
// error propagates to the event dispatcher and the close is not attempted,
// so a buggy handler fails toward keeping the window open.
func (w *Window) OnCloseRequested(ctx context.Context, handler CloseHandler) (event.UnlistenFunc, error) {
	if handler == nil {
		return nil, event.ErrNilHandler
	}
	return w.Listen(ctx, EventCloseRequested, func(ctx context.Context, ev event.Event) error {
		req := &CloseRequestedEvent{
			Name:        ev.Name,
			WindowLabel: ev.WindowLabel,
			ID:          ev.ID,
		}
		if err := handler(ctx, req); err != nil {
			return err
		}
		if req.IsPreventDefault() {
			return nil
		}
		return w.Close(ctx)
	})
}
