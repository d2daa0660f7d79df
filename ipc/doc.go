// Package ipc carries commands and events between this process and a window
// host over a byte stream.
//
// The wire protocol is JSON-RPC 2.0 with Content-Length framing. Commands are
// requests whose method is the command name and whose params are the command's
// argument bag; host-pushed events arrive as "event" notifications. A Bridge
// owns one connection, correlates responses to in-flight requests, and feeds
// notifications to registered handlers in arrival order.
//
// Invoker is the one-method surface the rest of the module programs against.
// Authority optionally wraps an Invoker with a command access policy evaluated
// before anything reaches the wire.
package ipc
