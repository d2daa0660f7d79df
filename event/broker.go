package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Remote is the host-facing side of the bus. The Broker announces every
// registration change through it and publishes emits into it; the transport
// layer implements it on top of the host connection.
type Remote interface {
	// Subscribe tells the host to start forwarding the named event. The id
	// identifies the registration in later Unsubscribe calls. An empty
	// target subscribes to emissions from every window.
	Subscribe(ctx context.Context, name, target string, id int64) error

	// Unsubscribe tells the host to stop forwarding the named event for the
	// given registration.
	Unsubscribe(ctx context.Context, name string, id int64) error

	// Publish emits an event through the host. An empty target broadcasts;
	// otherwise the event is routed to the window with that label.
	Publish(ctx context.Context, name, target string, payload json.RawMessage) error
}

// Delivery is one event frame received from the host, before it has been
// matched against local registrations.
type Delivery struct {
	Name        string          `json:"event"`
	WindowLabel string          `json:"windowLabel"`
	Payload     json.RawMessage `json:"payload,omitempty"`
}

// registration is one live handler slot in the broker table.
type registration struct {
	id      int64
	name    string
	target  string
	once    bool
	handler Handler
}

// Broker implements Bus on top of a Remote. It keeps the authoritative
// client-side registration table: the host only knows which names to forward,
// while per-handler fan-out and target filtering happen here.
//
// All methods are safe for concurrent use.
type Broker struct {
	remote Remote
	logger *slog.Logger

	nextID atomic.Int64

	mu     sync.Mutex
	regs   map[string][]*registration
	closed bool
}

var _ Bus = (*Broker)(nil)

// BrokerOption configures a Broker at construction time.
type BrokerOption func(*Broker)

// WithLogger sets the logger used for background failures that have no caller
// to return to, such as unsubscribing a fired once-registration.
func WithLogger(logger *slog.Logger) BrokerOption {
	return func(b *Broker) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBroker returns a Broker backed by the given remote. A nil remote leaves
// the broker detached: registrations are tracked locally and emits are
// discarded, which is occasionally useful in tests.
func NewBroker(remote Remote, opts ...BrokerOption) *Broker {
	b := &Broker{
		remote: remote,
		logger: slog.Default(),
		regs:   make(map[string][]*registration),
	}
	if b.remote == nil {
		b.remote = noopRemote{}
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Listen implements Bus.
func (b *Broker) Listen(ctx context.Context, name string, handler Handler, opts ...Option) (UnlistenFunc, error) {
	return b.subscribe(ctx, name, handler, false, opts)
}

// Once implements Bus.
func (b *Broker) Once(ctx context.Context, name string, handler Handler, opts ...Option) (UnlistenFunc, error) {
	return b.subscribe(ctx, name, handler, true, opts)
}

func (b *Broker) subscribe(ctx context.Context, name string, handler Handler, once bool, opts []Option) (UnlistenFunc, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	if !ValidName(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	o := Apply(opts)

	reg := &registration{
		id:      b.nextID.Add(1),
		name:    name,
		target:  o.Target,
		once:    once,
		handler: handler,
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil, ErrClosed
	}
	b.regs[name] = append(b.regs[name], reg)
	b.mu.Unlock()

	if err := b.remote.Subscribe(ctx, name, o.Target, reg.id); err != nil {
		b.remove(reg)
		return nil, fmt.Errorf("event: subscribe %q: %w", name, err)
	}
	return b.unlistenFunc(reg), nil
}

// Emit implements Bus.
func (b *Broker) Emit(ctx context.Context, name string, payload any, opts ...Option) error {
	if !ValidName(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	if closed {
		return ErrClosed
	}
	o := Apply(opts)

	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("event: encode %q payload: %w", name, err)
		}
		raw = data
	}
	return b.remote.Publish(ctx, name, o.Target, raw)
}

// Dispatch routes one host delivery to every matching registration, in
// registration order. Handlers run synchronously on the calling goroutine and
// their errors are joined into the return value.
//
// The registration set is snapshotted before the first handler runs, so a
// handler that subscribes or unsubscribes mid-dispatch changes later
// dispatches only. Once-registrations are removed before their handler runs;
// a re-emit from inside the handler cannot fire them twice.
func (b *Broker) Dispatch(ctx context.Context, d Delivery) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrClosed
	}
	regs := b.regs[d.Name]
	snapshot := make([]*registration, len(regs))
	copy(snapshot, regs)
	b.mu.Unlock()

	var errs []error
	for _, reg := range snapshot {
		if reg.target != "" && reg.target != d.WindowLabel {
			continue
		}
		if reg.once {
			if !b.remove(reg) {
				continue
			}
			if err := b.remote.Unsubscribe(ctx, reg.name, reg.id); err != nil {
				b.logger.Warn("unsubscribe after single delivery failed",
					"event", reg.name, "id", reg.id, "error", err)
			}
		}
		ev := Event{Name: d.Name, ID: reg.id, WindowLabel: d.WindowLabel, Payload: d.Payload}
		if err := reg.handler(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Count reports the number of live registrations.
func (b *Broker) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, regs := range b.regs {
		n += len(regs)
	}
	return n
}

// Close drops every local registration and rejects further broker use. It
// does not message the host: broker shutdown accompanies connection teardown,
// which retires the host-side subscriptions on its own.
func (b *Broker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.regs = make(map[string][]*registration)
	return nil
}

func (b *Broker) unlistenFunc(reg *registration) UnlistenFunc {
	var once sync.Once
	return func() error {
		var err error
		once.Do(func() {
			if !b.remove(reg) {
				return
			}
			if uerr := b.remote.Unsubscribe(context.Background(), reg.name, reg.id); uerr != nil {
				err = fmt.Errorf("event: unsubscribe %q: %w", reg.name, uerr)
			}
		})
		return err
	}
}

// remove deletes reg from the table and reports whether it was still present.
func (b *Broker) remove(reg *registration) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	regs := b.regs[reg.name]
	for i, r := range regs {
		if r != reg {
			continue
		}
		b.regs[reg.name] = append(regs[:i:i], regs[i+1:]...)
		if len(b.regs[reg.name]) == 0 {
			delete(b.regs, reg.name)
		}
		return true
	}
	return false
}

// noopRemote backs detached brokers.
type noopRemote struct{}

func (noopRemote) Subscribe(context.Context, string, string, int64) error { return nil }

func (noopRemote) Unsubscribe(context.Context, string, int64) error { return nil }

func (noopRemote) Publish(context.Context, string, string, json.RawMessage) error { return nil }
