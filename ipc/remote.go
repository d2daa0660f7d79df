package ipc

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/MethodicalGamesInc/tauri/event"
)

// Bus plumbing commands. Subscriptions and emits travel as ordinary host
// commands; only deliveries come back as MethodEvent notifications.
const (
	CommandListen   = "event_listen"
	CommandUnlisten = "event_unlisten"
	CommandEmit     = "event_emit"
)

type listenArgs struct {
	Event  string `json:"event"`
	Target string `json:"target,omitempty"`
	ID     int64  `json:"id"`
}

type unlistenArgs struct {
	Event string `json:"event"`
	ID    int64  `json:"id"`
}

type emitArgs struct {
	Event   string          `json:"event"`
	Target  string          `json:"target,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// EventRemote adapts an Invoker to the bus's host-facing interface.
type EventRemote struct {
	inv Invoker
}

var _ event.Remote = (*EventRemote)(nil)

// NewEventRemote returns the host side of a bus backed by inv.
func NewEventRemote(inv Invoker) *EventRemote {
	return &EventRemote{inv: inv}
}

// Subscribe implements event.Remote.
func (r *EventRemote) Subscribe(ctx context.Context, name, target string, id int64) error {
	return r.inv.Invoke(ctx, CommandListen, listenArgs{Event: name, Target: target, ID: id}, nil)
}

// Unsubscribe implements event.Remote.
func (r *EventRemote) Unsubscribe(ctx context.Context, name string, id int64) error {
	return r.inv.Invoke(ctx, CommandUnlisten, unlistenArgs{Event: name, ID: id}, nil)
}

// Publish implements event.Remote.
func (r *EventRemote) Publish(ctx context.Context, name, target string, payload json.RawMessage) error {
	return r.inv.Invoke(ctx, CommandEmit, emitArgs{Event: name, Target: target, Payload: payload}, nil)
}

// BindEvents routes the bridge's event notifications into the broker. Must be
// called before the bridge starts. Handler failures have no caller to return
// to and are logged.
func BindEvents(b *Bridge, broker *event.Broker, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	b.Handle(MethodEvent, func(ctx context.Context, params json.RawMessage) {
		var d event.Delivery
		if err := json.Unmarshal(params, &d); err != nil {
			logger.Warn("malformed event frame", "error", err)
			return
		}
		if err := broker.Dispatch(ctx, d); err != nil {
			logger.Warn("event handler failed", "event", d.Name, "error", err)
		}
	})
}
