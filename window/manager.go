package window

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/MethodicalGamesInc/tauri/event"
	"github.com/MethodicalGamesInc/tauri/ipc"
)

// Manager is the window handle registry. It keeps a label snapshot seeded
// from the handshake and maintained by Watch, so the synchronous queries
// never need a host round trip. Handles returned by queries are fresh
// aliases; their local listener tables start empty.
type Manager struct {
	bus    event.Bus
	inv    ipc.Invoker
	logger *slog.Logger

	mu      sync.Mutex
	current string
	labels  []string
	known   map[string]struct{}
}

// ManagerOption configures a Manager at construction time.
type ManagerOption func(*Manager)

// WithLogger sets the logger shared by the manager and the handles it hands
// out.
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager builds a registry over the given bus and invoker, seeded with
// the handshake snapshot. A nil hello leaves the registry empty.
func NewManager(bus event.Bus, inv ipc.Invoker, hello *ipc.Hello, opts ...ManagerOption) *Manager {
	m := &Manager{
		bus:    bus,
		inv:    inv,
		logger: slog.Default(),
		known:  make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	if hello != nil {
		m.current = hello.Current
		for _, info := range hello.Windows {
			m.remember(info.Label)
		}
	}
	return m
}

// Watch keeps the registry in step with the host by listening for the global
// window-created and destroyed events. The returned unlisten stops tracking.
func (m *Manager) Watch(ctx context.Context) (event.UnlistenFunc, error) {
	unCreated, err := m.bus.Listen(ctx, EventWindowCreated, func(ctx context.Context, ev event.Event) error {
		m.remember(eventLabel(ev))
		return nil
	})
	if err != nil {
		return nil, err
	}
	unDestroyed, err := m.bus.Listen(ctx, EventDestroyed, func(ctx context.Context, ev event.Event) error {
		m.forget(eventLabel(ev))
		return nil
	})
	if err != nil {
		unCreated()
		return nil, err
	}
	return composite(unCreated, unDestroyed), nil
}

// Current returns a handle to the window this client is attached to, or nil
// when the handshake did not name one.
func (m *Manager) Current() *Window {
	m.mu.Lock()
	label := m.current
	m.mu.Unlock()
	if label == "" {
		return nil
	}
	return m.attach(label)
}

// All returns fresh handles for every window known right now, in the order
// the registry learned of them.
func (m *Manager) All() []*Window {
	labels := m.Labels()
	windows := make([]*Window, 0, len(labels))
	for _, label := range labels {
		windows = append(windows, m.attach(label))
	}
	return windows
}

// Labels returns the known window labels in registration order.
func (m *Manager) Labels() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	labels := make([]string, len(m.labels))
	copy(labels, m.labels)
	return labels
}

// GetByLabel returns a handle when the label is currently known, else nil.
func (m *Manager) GetByLabel(label string) *Window {
	m.mu.Lock()
	_, ok := m.known[label]
	m.mu.Unlock()
	if !ok {
		return nil
	}
	return m.attach(label)
}

// GetFocusedWindow asks each known window in registry order whether it has
// focus and returns the first that says yes, or nil when none does. The scan
// is sequential so the first hit skips every remaining query.
func (m *Manager) GetFocusedWindow(ctx context.Context) (*Window, error) {
	for _, w := range m.All() {
		focused, err := w.IsFocused(ctx)
		if err != nil {
			return nil, err
		}
		if focused {
			return w, nil
		}
	}
	return nil, nil
}

// NewWindow builds a handle for a window that does not exist yet. Nothing is
// sent to the host until Create is called on the result.
func (m *Manager) NewWindow(label string, opts *Options) (*Window, error) {
	if !ValidLabel(label) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLabel, label)
	}
	w := m.attach(label)
	w.opts = opts
	w.track = m.remember
	return w, nil
}

// CreateWindow is the fire-and-forget form of NewWindow plus Create: the
// creation request runs in the background and its outcome surfaces only
// through the handle's local created and error events. Attach those handlers
// as soon as the handle returns; an outcome that lands first is missed.
func (m *Manager) CreateWindow(ctx context.Context, label string, opts *Options) (*Window, error) {
	w, err := m.NewWindow(label, opts)
	if err != nil {
		return nil, err
	}
	go func() {
		if err := w.Create(ctx); err != nil {
			m.logger.Debug("window creation failed", "label", label, "error", err)
		}
	}()
	return w, nil
}

func (m *Manager) attach(label string) *Window {
	return newWindow(label, m.bus, m.inv, m.logger)
}

func (m *Manager) remember(label string) {
	if label == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.known[label]; ok {
		return
	}
	m.known[label] = struct{}{}
	m.labels = append(m.labels, label)
}

func (m *Manager) forget(label string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.known[label]; !ok {
		return
	}
	delete(m.known, label)
	for i, l := range m.labels {
		if l == label {
			m.labels = append(m.labels[:i:i], m.labels[i+1:]...)
			break
		}
	}
}

// eventLabel extracts the window a created/destroyed event refers to, from
// the delivery's own label or a {"label": ...} payload.
func eventLabel(ev event.Event) string {
	if ev.WindowLabel != "" {
		return ev.WindowLabel
	}
	var p struct {
		Label string `json:"label"`
	}
	if err := ev.DecodePayload(&p); err == nil {
		return p.Label
	}
	return ""
}
