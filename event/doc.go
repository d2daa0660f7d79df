// Package event provides the client half of the host's named event bus.
//
// The host owns event routing; this package keeps the client-side registration
// table and the wire hooks needed to mirror it. A Broker tracks every live
// registration under a numeric ID, announces it to the host through a Remote,
// and fans incoming deliveries out to matching handlers.
//
// # Subscription model
//
// Listen registers a persistent handler for an exact event name, optionally
// scoped to a window label:
//
//	unlisten, err := broker.Listen(ctx, "state-changed", handler,
//	    event.WithTarget("main"))
//	...
//	_ = unlisten()
//
// Once registers a handler that is removed after its first delivery. Emit
// publishes through the host; whether an emit loops back to local listeners is
// the host's routing decision, not ours.
//
// Every subscription returns exactly one UnlistenFunc. Calling it more than
// once is safe: the second call is a no-op.
//
// # Delivery
//
// The transport layer feeds host-pushed events into Dispatch. Handlers run
// synchronously on the dispatching goroutine, in registration order; handler
// errors are joined and returned to the dispatcher rather than swallowed.
package event
