package event

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

type remoteCall struct {
	name    string
	target  string
	id      int64
	payload string
}

// fakeRemote records every host-facing call and can be told to fail.
type fakeRemote struct {
	mu           sync.Mutex
	subscribed   []remoteCall
	unsubscribed []remoteCall
	published    []remoteCall
	subscribeErr error
	publishErr   error
}

func (f *fakeRemote) Subscribe(_ context.Context, name, target string, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.subscribeErr != nil {
		return f.subscribeErr
	}
	f.subscribed = append(f.subscribed, remoteCall{name: name, target: target, id: id})
	return nil
}

func (f *fakeRemote) Unsubscribe(_ context.Context, name string, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unsubscribed = append(f.unsubscribed, remoteCall{name: name, id: id})
	return nil
}

func (f *fakeRemote) Publish(_ context.Context, name, target string, payload json.RawMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, remoteCall{name: name, target: target, payload: string(payload)})
	return nil
}

func (f *fakeRemote) unsubscribeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.unsubscribed)
}

func TestNewBroker(t *testing.T) {
	b := NewBroker(&fakeRemote{})
	if b == nil {
		t.Fatal("NewBroker() returned nil")
	}
}

func TestBroker_Listen(t *testing.T) {
	remote := &fakeRemote{}
	b := NewBroker(remote)

	var got Event
	_, err := b.Listen(context.Background(), "state-changed", func(ctx context.Context, ev Event) error {
		got = ev
		return nil
	})
	if err != nil {
		t.Fatalf("Listen() failed: %v", err)
	}
	if len(remote.subscribed) != 1 {
		t.Fatalf("expected 1 remote subscription, got %d", len(remote.subscribed))
	}
	if remote.subscribed[0].name != "state-changed" {
		t.Errorf("expected subscription to 'state-changed', got %q", remote.subscribed[0].name)
	}

	err = b.Dispatch(context.Background(), Delivery{
		Name:        "state-changed",
		WindowLabel: "main",
		Payload:     json.RawMessage(`{"dirty":true}`),
	})
	if err != nil {
		t.Fatalf("Dispatch() failed: %v", err)
	}
	if got.Name != "state-changed" {
		t.Errorf("expected event name 'state-changed', got %q", got.Name)
	}
	if got.WindowLabel != "main" {
		t.Errorf("expected window label 'main', got %q", got.WindowLabel)
	}
	if got.ID != remote.subscribed[0].id {
		t.Errorf("expected event ID %d, got %d", remote.subscribed[0].id, got.ID)
	}
}

func TestBroker_Listen_NilHandler(t *testing.T) {
	b := NewBroker(&fakeRemote{})
	_, err := b.Listen(context.Background(), "state-changed", nil)
	if err != ErrNilHandler {
		t.Errorf("expected ErrNilHandler, got %v", err)
	}
}

func TestBroker_Listen_InvalidName(t *testing.T) {
	b := NewBroker(&fakeRemote{})
	for _, name := range []string{"", "has space", "semi;colon"} {
		_, err := b.Listen(context.Background(), name, func(ctx context.Context, ev Event) error {
			return nil
		})
		if !errors.Is(err, ErrInvalidName) {
			t.Errorf("name %q: expected ErrInvalidName, got %v", name, err)
		}
	}
}

func TestBroker_Listen_RemoteFailure(t *testing.T) {
	remoteErr := errors.New("host unreachable")
	remote := &fakeRemote{subscribeErr: remoteErr}
	b := NewBroker(remote)

	_, err := b.Listen(context.Background(), "state-changed", func(ctx context.Context, ev Event) error {
		return nil
	})
	if !errors.Is(err, remoteErr) {
		t.Fatalf("expected remote error, got %v", err)
	}

	// The failed registration must not linger locally.
	if b.Count() != 0 {
		t.Errorf("expected 0 registrations after failed subscribe, got %d", b.Count())
	}
}

func TestBroker_Listen_TargetFilter(t *testing.T) {
	b := NewBroker(&fakeRemote{})

	var fromMain, fromAny atomic.Int32
	b.Listen(context.Background(), "moved", func(ctx context.Context, ev Event) error {
		fromMain.Add(1)
		return nil
	}, WithTarget("main"))
	b.Listen(context.Background(), "moved", func(ctx context.Context, ev Event) error {
		fromAny.Add(1)
		return nil
	})

	b.Dispatch(context.Background(), Delivery{Name: "moved", WindowLabel: "main"})
	b.Dispatch(context.Background(), Delivery{Name: "moved", WindowLabel: "settings"})
	b.Dispatch(context.Background(), Delivery{Name: "moved"})

	if fromMain.Load() != 1 {
		t.Errorf("expected 1 delivery to targeted listener, got %d", fromMain.Load())
	}
	if fromAny.Load() != 3 {
		t.Errorf("expected 3 deliveries to untargeted listener, got %d", fromAny.Load())
	}
}

func TestBroker_Unlisten(t *testing.T) {
	remote := &fakeRemote{}
	b := NewBroker(remote)

	var received atomic.Int32
	unlisten, err := b.Listen(context.Background(), "tick", func(ctx context.Context, ev Event) error {
		received.Add(1)
		return nil
	})
	if err != nil {
		t.Fatalf("Listen() failed: %v", err)
	}

	b.Dispatch(context.Background(), Delivery{Name: "tick"})
	if err := unlisten(); err != nil {
		t.Fatalf("unlisten failed: %v", err)
	}
	b.Dispatch(context.Background(), Delivery{Name: "tick"})

	if received.Load() != 1 {
		t.Errorf("expected 1 delivery, got %d", received.Load())
	}
	if remote.unsubscribeCount() != 1 {
		t.Errorf("expected 1 remote unsubscribe, got %d", remote.unsubscribeCount())
	}

	// Second call is a no-op, not a second unsubscribe.
	if err := unlisten(); err != nil {
		t.Errorf("repeated unlisten failed: %v", err)
	}
	if remote.unsubscribeCount() != 1 {
		t.Errorf("expected 1 remote unsubscribe after repeat, got %d", remote.unsubscribeCount())
	}
}

func TestBroker_Unlisten_FirstMatchOnly(t *testing.T) {
	b := NewBroker(&fakeRemote{})

	var first, second atomic.Int32
	unlistenFirst, _ := b.Listen(context.Background(), "tick", func(ctx context.Context, ev Event) error {
		first.Add(1)
		return nil
	})
	b.Listen(context.Background(), "tick", func(ctx context.Context, ev Event) error {
		second.Add(1)
		return nil
	})

	unlistenFirst()
	b.Dispatch(context.Background(), Delivery{Name: "tick"})

	if first.Load() != 0 {
		t.Errorf("expected removed listener to stay silent, got %d deliveries", first.Load())
	}
	if second.Load() != 1 {
		t.Errorf("expected surviving listener to fire once, got %d", second.Load())
	}
}

func TestBroker_Once(t *testing.T) {
	remote := &fakeRemote{}
	b := NewBroker(remote)

	var received atomic.Int32
	_, err := b.Once(context.Background(), "ready", func(ctx context.Context, ev Event) error {
		received.Add(1)
		return nil
	})
	if err != nil {
		t.Fatalf("Once() failed: %v", err)
	}

	b.Dispatch(context.Background(), Delivery{Name: "ready"})
	b.Dispatch(context.Background(), Delivery{Name: "ready"})

	if received.Load() != 1 {
		t.Errorf("expected 1 delivery, got %d", received.Load())
	}
	if b.Count() != 0 {
		t.Errorf("expected registration gone after delivery, got %d", b.Count())
	}
	if remote.unsubscribeCount() != 1 {
		t.Errorf("expected 1 remote unsubscribe after delivery, got %d", remote.unsubscribeCount())
	}
}

func TestBroker_Once_ReentrantDispatch(t *testing.T) {
	b := NewBroker(&fakeRemote{})

	var received atomic.Int32
	b.Once(context.Background(), "ready", func(ctx context.Context, ev Event) error {
		received.Add(1)
		// The registration is already gone; this must not recurse.
		return b.Dispatch(ctx, Delivery{Name: "ready"})
	})

	if err := b.Dispatch(context.Background(), Delivery{Name: "ready"}); err != nil {
		t.Fatalf("Dispatch() failed: %v", err)
	}
	if received.Load() != 1 {
		t.Errorf("expected 1 delivery, got %d", received.Load())
	}
}

func TestBroker_Once_UnlistenAfterFire(t *testing.T) {
	remote := &fakeRemote{}
	b := NewBroker(remote)

	unlisten, _ := b.Once(context.Background(), "ready", func(ctx context.Context, ev Event) error {
		return nil
	})
	b.Dispatch(context.Background(), Delivery{Name: "ready"})

	if err := unlisten(); err != nil {
		t.Fatalf("unlisten after fire failed: %v", err)
	}
	if remote.unsubscribeCount() != 1 {
		t.Errorf("expected exactly 1 remote unsubscribe, got %d", remote.unsubscribeCount())
	}
}

func TestBroker_Dispatch_Snapshot(t *testing.T) {
	b := NewBroker(&fakeRemote{})

	var late atomic.Int32
	b.Listen(context.Background(), "tick", func(ctx context.Context, ev Event) error {
		// Registered mid-dispatch: must only see later deliveries.
		b.Listen(ctx, "tick", func(ctx context.Context, ev Event) error {
			late.Add(1)
			return nil
		})
		return nil
	})

	b.Dispatch(context.Background(), Delivery{Name: "tick"})
	if late.Load() != 0 {
		t.Errorf("expected mid-dispatch listener to miss current delivery, got %d", late.Load())
	}

	b.Dispatch(context.Background(), Delivery{Name: "tick"})
	if late.Load() != 1 {
		t.Errorf("expected mid-dispatch listener to see next delivery, got %d", late.Load())
	}
}

func TestBroker_Dispatch_HandlerErrors(t *testing.T) {
	b := NewBroker(&fakeRemote{})

	errBoom := errors.New("boom")
	var executed atomic.Int32
	b.Listen(context.Background(), "tick", func(ctx context.Context, ev Event) error {
		executed.Add(1)
		return errBoom
	})
	b.Listen(context.Background(), "tick", func(ctx context.Context, ev Event) error {
		executed.Add(1)
		return nil
	})

	err := b.Dispatch(context.Background(), Delivery{Name: "tick"})
	if !errors.Is(err, errBoom) {
		t.Errorf("expected handler error to propagate, got %v", err)
	}
	if executed.Load() != 2 {
		t.Errorf("expected both handlers to run, got %d", executed.Load())
	}
}

func TestBroker_Dispatch_NoListeners(t *testing.T) {
	b := NewBroker(&fakeRemote{})
	if err := b.Dispatch(context.Background(), Delivery{Name: "unheard"}); err != nil {
		t.Errorf("expected silent no-op for unheard event, got %v", err)
	}
}

func TestBroker_Emit(t *testing.T) {
	remote := &fakeRemote{}
	b := NewBroker(remote)

	err := b.Emit(context.Background(), "refresh", map[string]int{"rate": 60}, WithTarget("main"))
	if err != nil {
		t.Fatalf("Emit() failed: %v", err)
	}
	if len(remote.published) != 1 {
		t.Fatalf("expected 1 publish, got %d", len(remote.published))
	}
	pub := remote.published[0]
	if pub.name != "refresh" || pub.target != "main" {
		t.Errorf("unexpected publish routing: name=%q target=%q", pub.name, pub.target)
	}
	if pub.payload != `{"rate":60}` {
		t.Errorf("unexpected payload: %s", pub.payload)
	}
}

func TestBroker_Emit_NilPayload(t *testing.T) {
	remote := &fakeRemote{}
	b := NewBroker(remote)

	if err := b.Emit(context.Background(), "refresh", nil); err != nil {
		t.Fatalf("Emit() failed: %v", err)
	}
	if remote.published[0].payload != "" {
		t.Errorf("expected empty payload, got %q", remote.published[0].payload)
	}
}

func TestBroker_Emit_InvalidName(t *testing.T) {
	b := NewBroker(&fakeRemote{})
	if err := b.Emit(context.Background(), "not valid", nil); !errors.Is(err, ErrInvalidName) {
		t.Errorf("expected ErrInvalidName, got %v", err)
	}
}

func TestBroker_Close(t *testing.T) {
	b := NewBroker(&fakeRemote{})
	b.Listen(context.Background(), "tick", func(ctx context.Context, ev Event) error {
		return nil
	})

	if err := b.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}
	if b.Count() != 0 {
		t.Errorf("expected 0 registrations after close, got %d", b.Count())
	}

	if _, err := b.Listen(context.Background(), "tick", func(ctx context.Context, ev Event) error {
		return nil
	}); err != ErrClosed {
		t.Errorf("Listen after close: expected ErrClosed, got %v", err)
	}
	if err := b.Emit(context.Background(), "tick", nil); err != ErrClosed {
		t.Errorf("Emit after close: expected ErrClosed, got %v", err)
	}
	if err := b.Dispatch(context.Background(), Delivery{Name: "tick"}); err != ErrClosed {
		t.Errorf("Dispatch after close: expected ErrClosed, got %v", err)
	}
}

func TestBroker_ConcurrentListenDispatch(t *testing.T) {
	b := NewBroker(&fakeRemote{})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlisten, err := b.Listen(context.Background(), "tick", func(ctx context.Context, ev Event) error {
				return nil
			})
			if err != nil {
				t.Errorf("Listen() failed: %v", err)
				return
			}
			b.Dispatch(context.Background(), Delivery{Name: "tick"})
			unlisten()
		}()
	}
	wg.Wait()

	if b.Count() != 0 {
		t.Errorf("expected 0 registrations after concurrent churn, got %d", b.Count())
	}
}

func TestLoopback_Publish(t *testing.T) {
	loop := NewLoopback("main")
	b := NewBroker(loop)
	loop.Attach(b)

	var got Event
	b.Listen(context.Background(), "greeting", func(ctx context.Context, ev Event) error {
		got = ev
		return nil
	})

	if err := b.Emit(context.Background(), "greeting", "hello"); err != nil {
		t.Fatalf("Emit() failed: %v", err)
	}
	if got.Name != "greeting" {
		t.Errorf("expected looped delivery, got %+v", got)
	}
	if got.WindowLabel != "main" {
		t.Errorf("expected loopback label 'main', got %q", got.WindowLabel)
	}

	var payload string
	if err := got.DecodePayload(&payload); err != nil {
		t.Fatalf("DecodePayload() failed: %v", err)
	}
	if payload != "hello" {
		t.Errorf("expected payload 'hello', got %q", payload)
	}
}

func TestLoopback_TargetMismatch(t *testing.T) {
	loop := NewLoopback("main")
	b := NewBroker(loop)
	loop.Attach(b)

	var received atomic.Int32
	b.Listen(context.Background(), "greeting", func(ctx context.Context, ev Event) error {
		received.Add(1)
		return nil
	})

	b.Emit(context.Background(), "greeting", nil, WithTarget("settings"))
	if received.Load() != 0 {
		t.Errorf("expected event for another window to be dropped, got %d deliveries", received.Load())
	}

	b.Emit(context.Background(), "greeting", nil, WithTarget("main"))
	if received.Load() != 1 {
		t.Errorf("expected targeted event to loop back, got %d deliveries", received.Load())
	}
}

func TestLoopback_Subscribed(t *testing.T) {
	loop := NewLoopback("main")
	b := NewBroker(loop)
	loop.Attach(b)

	unlisten, _ := b.Listen(context.Background(), "greeting", func(ctx context.Context, ev Event) error {
		return nil
	})
	if loop.Subscribed("greeting") != 1 {
		t.Errorf("expected 1 subscription, got %d", loop.Subscribed("greeting"))
	}
	unlisten()
	if loop.Subscribed("greeting") != 0 {
		t.Errorf("expected 0 subscriptions after unlisten, got %d", loop.Subscribed("greeting"))
	}
}

func BenchmarkBroker_Dispatch(b *testing.B) {
	broker := NewBroker(&fakeRemote{})
	for i := 0; i < 8; i++ {
		broker.Listen(context.Background(), "tick", func(ctx context.Context, ev Event) error {
			return nil
		})
	}
	d := Delivery{Name: "tick", WindowLabel: "main"}
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		broker.Dispatch(ctx, d)
	}
}
