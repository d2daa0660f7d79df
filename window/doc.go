// Package window provides client-side handles to windows managed by a
// Tauri-style native host.
//
// A Window is a lightweight proxy addressed by label. It does not hold any
// native resource: every getter and setter is one host command, and any
// number of handles may alias the same window. The package's real substance
// is in three places: the per-handle event multiplexer, the cancellable
// close-request protocol, and the registry that keeps window queries
// synchronous.
//
// # Event Routing
//
// Listen, Once and Emit present one subscription surface over two physically
// different sources. Exactly two names are local: "tauri://created" and
// "tauri://error", the creation-lifecycle signals. These are served from the
// handle's own listener table, delivered synchronously in registration order,
// and never reach the host. Every other name, including all other "tauri://"
// names, is a bus subscription or emit scoped to the window's label:
//
//	unlisten, err := w.Listen(ctx, "tauri://resize", func(ctx context.Context, ev event.Event) error {
//	    var size dpi.PhysicalSize
//	    if err := ev.DecodePayload(&size); err != nil {
//	        return err
//	    }
//	    ...
//	    return nil
//	})
//
// Locally synthesized events carry event.IDNotAssigned and the handle's own
// label. The typed wrappers (OnResized, OnMoved, OnFocusChanged, OnFileDrop,
// ...) layer payload decoding over Listen; the two fan-in wrappers return a
// composite unlisten that tears down all their underlying subscriptions.
//
// # Close Protocol
//
// OnCloseRequested turns the host's close-request event into a veto point:
//
//	w.OnCloseRequested(ctx, func(ctx context.Context, ev *window.CloseRequestedEvent) error {
//	    if hasUnsavedChanges() {
//	        ev.PreventDefault()
//	    }
//	    return nil
//	})
//
// The handler always settles first. Only then, and only if it neither called
// PreventDefault nor returned an error, is the close command sent, exactly
// once per request. A handler error propagates to the event dispatcher and
// suppresses the close, so failures land on the side of keeping the window.
//
// # Registry
//
// Manager answers Current, All, GetByLabel and Labels from a snapshot seeded
// by the connection handshake and kept fresh by Watch, so none of them block
// on the host. GetFocusedWindow is the exception: it queries focus window by
// window, in order, stopping at the first hit.
//
// New windows come from NewWindow plus Create, which reports the outcome as
// a return value and through the local lifecycle events. CreateWindow is the
// fire-and-forget variant for code written against the event-only contract:
// it returns immediately and the outcome is observable only by handlers
// attached before it lands.
//
// # Concurrency
//
// All types are safe for concurrent use. Local emits run on the calling
// goroutine; bus-delivered events run on the connection's dispatch
// goroutine, one at a time, in arrival order.
package window
