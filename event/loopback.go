package event

import (
	"context"
	"encoding/json"
	"sync"
)

// Loopback is a Remote that routes every publish straight back into a broker
// as a delivery. It stands in for a host connection in tests and offline
// tooling, acting as a single window with a fixed label.
//
// The broker and the loopback reference each other, so wiring is two-phase:
//
//	loop := event.NewLoopback("main")
//	bus := event.NewBroker(loop)
//	loop.Attach(bus)
type Loopback struct {
	label string

	mu     sync.Mutex
	broker *Broker
	subs   map[string]int
}

var _ Remote = (*Loopback)(nil)

// NewLoopback returns a loopback remote whose deliveries carry the given
// window label.
func NewLoopback(label string) *Loopback {
	return &Loopback{
		label: label,
		subs:  make(map[string]int),
	}
}

// Attach connects the broker that looped-back publishes are dispatched into.
func (l *Loopback) Attach(b *Broker) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.broker = b
}

// Subscribed reports how many live subscriptions the loopback has seen for
// the named event.
func (l *Loopback) Subscribed(name string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.subs[name]
}

// Subscribe implements Remote.
func (l *Loopback) Subscribe(_ context.Context, name, _ string, _ int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.subs[name]++
	return nil
}

// Unsubscribe implements Remote.
func (l *Loopback) Unsubscribe(_ context.Context, name string, _ int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.subs[name] > 0 {
		l.subs[name]--
	}
	return nil
}

// Publish implements Remote. Events targeted at a label other than the
// loopback's own are dropped, mirroring host-side routing.
func (l *Loopback) Publish(ctx context.Context, name, target string, payload json.RawMessage) error {
	if target != "" && target != l.label {
		return nil
	}
	l.mu.Lock()
	b := l.broker
	l.mu.Unlock()
	if b == nil {
		return nil
	}
	return b.Dispatch(ctx, Delivery{Name: name, WindowLabel: l.label, Payload: payload})
}
