// Package script runs Lua automation over the window API. Scripts see one
// global table, win, backed by a window manager and an event bus:
//
//	win.current()            handle to the client's own window, or nil
//	win.get(label)           handle by label, or nil
//	win.all()                array of handles
//	win.labels()             array of label strings
//	win.create(label, opts)  create a window; opts is an option table
//	win.listen(name, fn)     subscribe globally; returns a subscription id
//	win.once(name, fn)       like listen, removed after one delivery
//	win.unlisten(id)         drop a subscription; returns true if it existed
//	win.emit(name, payload)  publish an event
//	win.log(message)         write to the client log
//
// Handles carry the window operations as methods, named after the host
// commands:
//
//	local w = win.current()
//	w:set_title("Build " .. w:label())
//	w:set_size(1280, 800)
//	w:listen("tauri://focus", function(ev) win.log("focused") end)
//
// Event handlers receive a table with name, id, window_label and payload
// fields. Payloads convert between Lua tables and JSON values; handles do
// not convert.
//
// # Concurrency
//
// The Lua state is single-threaded. The engine serializes script runs and
// event deliveries with an internal lock, so handlers never interleave with
// a running script; deliveries wait until the script completes. Handlers
// may call any win function, including emit, which can dispatch further
// handlers synchronously.
//
// Scripts get the base, table, string and math libraries. io, os and debug
// stay closed.
package script
