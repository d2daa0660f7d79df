package event

import "context"

// Handler receives one event delivery. Handlers run synchronously on the
// dispatching goroutine; an error return is propagated to whatever performed
// the dispatch.
type Handler func(ctx context.Context, ev Event) error

// UnlistenFunc removes the registration it was returned for. It is safe to
// call more than once; calls after the first are no-ops.
type UnlistenFunc func() error

// Bus is the client-side subscription surface of the host event system.
type Bus interface {
	// Listen registers handler for every delivery of the named event until
	// the returned UnlistenFunc is called.
	Listen(ctx context.Context, name string, handler Handler, opts ...Option) (UnlistenFunc, error)

	// Once registers handler for a single delivery of the named event. The
	// registration is removed immediately before the handler runs, so a
	// re-emit from inside the handler cannot fire it again. The returned
	// UnlistenFunc cancels the registration if it has not fired yet.
	Once(ctx context.Context, name string, handler Handler, opts ...Option) (UnlistenFunc, error)

	// Emit publishes an event through the host. The payload may be nil; any
	// other value must be JSON-marshalable.
	Emit(ctx context.Context, name string, payload any, opts ...Option) error
}

// Option adjusts a single Listen, Once or Emit call.
type Option func(*Options)

// Options is the evaluated form of an Option list. Bus implementations
// outside this package read them through Apply.
type Options struct {
	// Target scopes the call to one window label; empty means unscoped.
	Target string
}

// Apply evaluates opts into an Options value.
func Apply(opts []Option) Options {
	var o Options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// WithTarget scopes the call to the window with the given label. On Listen and
// Once it filters deliveries to events emitted by that window; on Emit it
// routes the event to that window only instead of broadcasting.
func WithTarget(label string) Option {
	return func(o *Options) { o.Target = label }
}

// ValidName reports whether name is acceptable to the host: non-empty and
// limited to alphanumerics, '-', '/', ':' and '_'.
func ValidName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-', r == '/', r == ':', r == '_':
		default:
			return false
		}
	}
	return true
}
