package script

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/MethodicalGamesInc/tauri/event"
	"github.com/MethodicalGamesInc/tauri/window"
)

// handlerAnchor is the global holding subscribed Lua functions so the VM
// never collects them while a subscription is live.
const handlerAnchor = "_tauri_handlers"

// Engine owns one Lua state wired to a window manager and an event bus.
// The state is not goroutine safe; the engine's lock serializes script runs
// and event deliveries, so a delivery arriving mid-script waits for the
// script to finish.
type Engine struct {
	mgr    *window.Manager
	bus    event.Bus
	logger *slog.Logger

	mu       sync.Mutex
	L        *lua.LState
	ctx      context.Context
	handlers *lua.LTable
	subs     map[int64]event.UnlistenFunc
	nextSub  int64
	closed   bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger win.log writes to.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New builds an engine over the given manager and bus. The Lua state opens
// the base, table, string and math libraries only.
func New(mgr *window.Manager, bus event.Bus, opts ...Option) *Engine {
	e := &Engine{
		mgr:    mgr,
		bus:    bus,
		logger: slog.Default(),
		ctx:    context.Background(),
		subs:   make(map[int64]event.UnlistenFunc),
	}
	for _, opt := range opts {
		opt(e)
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	e.L = L

	e.handlers = L.NewTable()
	L.SetGlobal(handlerAnchor, e.handlers)

	e.registerWindowType()
	L.SetGlobal("win", e.buildModule())
	return e
}

// RunFile executes the Lua file at path to completion.
func (e *Engine) RunFile(ctx context.Context, path string) error {
	err := e.run(ctx, func() error { return e.L.DoFile(path) })
	if err == nil || errors.Is(err, ErrEngineClosed) {
		return err
	}
	return fmt.Errorf("script: %s: %w", path, err)
}

// RunString executes inline Lua source to completion.
func (e *Engine) RunString(ctx context.Context, source string) error {
	err := e.run(ctx, func() error { return e.L.DoString(source) })
	if err == nil || errors.Is(err, ErrEngineClosed) {
		return err
	}
	return fmt.Errorf("script: %w", err)
}

func (e *Engine) run(ctx context.Context, do func() error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrEngineClosed
	}
	prev := e.ctx
	e.ctx = ctx
	defer func() { e.ctx = prev }()
	return e.protect(do)
}

// protect converts a Lua panic into an error.
func (e *Engine) protect(do func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return do()
}

// Subscriptions reports how many script subscriptions are live.
func (e *Engine) Subscriptions() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.subs)
}

// Close drops every live subscription and releases the Lua state. Running
// scripts are not interrupted; Close waits its turn on the engine lock.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true

	var errs []error
	for id, unlisten := range e.subs {
		if err := e.unlocked(unlisten); err != nil {
			errs = append(errs, fmt.Errorf("subscription %d: %w", id, err))
		}
	}
	e.subs = nil
	e.handlers = nil
	e.L.Close()
	return errors.Join(errs...)
}

// unlocked runs fn with the engine lock released, for calls that can
// dispatch back into Lua handlers synchronously. Callers must hold the
// lock.
func (e *Engine) unlocked(fn func() error) error {
	e.mu.Unlock()
	defer e.mu.Lock()
	return fn()
}

// subscribe anchors fn against collection, wires a Go handler through
// attach and tracks the unlisten under a fresh id. Called with the engine
// lock held.
func (e *Engine) subscribe(fn *lua.LFunction, attach func(event.Handler) (event.UnlistenFunc, error)) (int64, error) {
	e.nextSub++
	id := e.nextSub
	key := strconv.FormatInt(id, 10)
	e.handlers.RawSetString(key, fn)

	unlisten, err := attach(func(ctx context.Context, ev event.Event) error {
		return e.deliver(ctx, key, ev)
	})
	if err != nil {
		e.handlers.RawSetString(key, lua.LNil)
		return 0, err
	}
	e.subs[id] = unlisten
	return id, nil
}

// unsubscribe releases a subscription by id. Called with the engine lock
// held.
func (e *Engine) unsubscribe(id int64) (bool, error) {
	unlisten, ok := e.subs[id]
	if !ok {
		return false, nil
	}
	delete(e.subs, id)
	e.handlers.RawSetString(strconv.FormatInt(id, 10), lua.LNil)
	return true, unlisten()
}

// deliver invokes the anchored handler for one event. A handler error
// surfaces to the event dispatcher.
func (e *Engine) deliver(ctx context.Context, key string, ev event.Event) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	fn := e.handlers.RawGetString(key)
	if fn.Type() != lua.LTFunction {
		return nil
	}

	prev := e.ctx
	e.ctx = ctx
	defer func() { e.ctx = prev }()

	tbl := e.L.NewTable()
	tbl.RawSetString("name", lua.LString(ev.Name))
	tbl.RawSetString("id", lua.LNumber(ev.ID))
	tbl.RawSetString("window_label", lua.LString(ev.WindowLabel))
	tbl.RawSetString("payload", payloadToLua(e.L, ev.Payload))

	e.L.Push(fn)
	e.L.Push(tbl)
	if err := e.L.PCall(1, 0, nil); err != nil {
		return fmt.Errorf("script: %s handler: %w", ev.Name, err)
	}
	return nil
}
