package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

// Wire methods with meaning beyond a plain command invocation.
const (
	// MethodHello is the handshake request. The client announces its session
	// and identity; the host answers with a Hello snapshot.
	MethodHello = "hello"

	// MethodEvent is the notification the host pushes bus events through.
	MethodEvent = "event"
)

const (
	clientName    = "tauri-go"
	clientVersion = "0.4.0"

	queueSize = 256
)

// NotificationHandler receives one host notification. Handlers for the same
// bridge run sequentially in arrival order, off the read loop, so they may
// invoke commands without deadlocking.
type NotificationHandler func(ctx context.Context, params json.RawMessage)

// WindowInfo describes one window in the host's hello snapshot.
type WindowInfo struct {
	Label   string `json:"label"`
	Focused bool   `json:"focused,omitempty"`
}

// Hello is the host's handshake reply: the window this connection is attached
// to and every window alive at handshake time.
type Hello struct {
	Current string       `json:"current"`
	Windows []WindowInfo `json:"windows"`
}

type helloParams struct {
	Session string     `json:"session"`
	Client  clientInfo `json:"client"`
}

type clientInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type request struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int64  `json:"id,omitempty"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int64           `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *HostError      `json:"error,omitempty"`
}

type notification struct {
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

// Bridge is a JSON-RPC 2.0 client over a single host connection. It
// implements Invoker for commands and delivers host notifications to
// registered handlers.
type Bridge struct {
	session string
	logger  *slog.Logger

	reader *bufio.Reader
	writer io.Writer
	closer io.Closer

	writeMu sync.Mutex

	mu       sync.Mutex
	pending  map[int64]chan *response
	handlers map[string]NotificationHandler

	nextID  atomic.Int64
	started atomic.Bool
	closed  atomic.Bool
	queue   chan notification
	done    chan struct{}
}

var _ Invoker = (*Bridge)(nil)

// BridgeOption configures a Bridge at construction time.
type BridgeOption func(*Bridge)

// WithLogger sets the logger for connection-level events and frames that have
// no caller to report to.
func WithLogger(logger *slog.Logger) BridgeOption {
	return func(b *Bridge) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBridge wraps an established host connection. The bridge does not read
// from the connection until Start is called.
func NewBridge(conn io.ReadWriteCloser, opts ...BridgeOption) *Bridge {
	b := &Bridge{
		session:  uuid.NewString(),
		logger:   slog.Default(),
		reader:   bufio.NewReaderSize(conn, 64*1024),
		writer:   conn,
		closer:   conn,
		pending:  make(map[int64]chan *response),
		handlers: make(map[string]NotificationHandler),
		queue:    make(chan notification, queueSize),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Session returns the client-minted session ID announced in the handshake.
func (b *Bridge) Session() string { return b.session }

// Handle registers a handler for a host notification method. Registration
// must happen before Start so no early notification is dropped.
func (b *Bridge) Handle(method string, handler NotificationHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[method] = handler
}

// Start launches the read and dispatch loops. The context bounds both loops
// and is the context handlers run under.
func (b *Bridge) Start(ctx context.Context) error {
	if b.closed.Load() {
		return ErrClosed
	}
	if b.started.Swap(true) {
		return ErrAlreadyStarted
	}
	go b.readLoop(ctx)
	go b.dispatchLoop(ctx)
	return nil
}

// Hello performs the handshake and returns the host's window snapshot.
func (b *Bridge) Hello(ctx context.Context) (*Hello, error) {
	params := helloParams{
		Session: b.session,
		Client:  clientInfo{Name: clientName, Version: clientVersion},
	}
	var hello Hello
	if err := b.Invoke(ctx, MethodHello, params, &hello); err != nil {
		return nil, fmt.Errorf("ipc: handshake: %w", err)
	}
	return &hello, nil
}

// Invoke implements Invoker. It blocks until the host answers, the context
// ends, or the bridge closes.
func (b *Bridge) Invoke(ctx context.Context, command string, args any, result any) error {
	if b.closed.Load() {
		return ErrClosed
	}
	if !b.started.Load() {
		return ErrNotStarted
	}

	id := b.nextID.Add(1)
	ch := make(chan *response, 1)

	b.mu.Lock()
	b.pending[id] = ch
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		delete(b.pending, id)
		b.mu.Unlock()
	}()

	req := request{JSONRPC: "2.0", ID: id, Method: command, Params: args}
	if err := b.send(req); err != nil {
		return fmt.Errorf("ipc: send %q: %w", command, err)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-b.done:
		return ErrClosed
	case resp := <-ch:
		if resp.Error != nil {
			return resp.Error
		}
		if result != nil && len(resp.Result) > 0 && string(resp.Result) != "null" {
			if err := json.Unmarshal(resp.Result, result); err != nil {
				return fmt.Errorf("ipc: decode %q result: %w", command, err)
			}
		}
		return nil
	}
}

// Close tears down the connection. In-flight Invokes fail with ErrClosed and
// queued notifications are dropped.
func (b *Bridge) Close() error {
	if b.closed.Swap(true) {
		return nil
	}
	close(b.done)

	// Waiters are released through done; channels stay open so a racing
	// settle cannot panic.
	b.mu.Lock()
	b.pending = make(map[int64]chan *response)
	b.mu.Unlock()

	if b.closer != nil {
		return b.closer.Close()
	}
	return nil
}

func (b *Bridge) send(msg any) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	header := fmt.Sprintf("Content-Length: %d\r\n\r\n", len(data))

	b.writeMu.Lock()
	defer b.writeMu.Unlock()
	if _, err := io.WriteString(b.writer, header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if _, err := b.writer.Write(data); err != nil {
		return fmt.Errorf("write body: %w", err)
	}
	return nil
}

func (b *Bridge) readLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-b.done:
			return
		default:
		}

		data, err := b.readMessage()
		if err != nil {
			if b.closed.Load() || err == io.EOF || err == io.ErrClosedPipe {
				return
			}
			b.logger.Warn("read frame failed", "session", b.session, "error", err)
			continue
		}
		b.route(ctx, data)
	}
}

// route classifies a frame by its discriminator fields without a full decode.
func (b *Bridge) route(ctx context.Context, data []byte) {
	id := gjson.GetBytes(data, "id")
	method := gjson.GetBytes(data, "method")

	switch {
	case method.Exists() && id.Exists():
		// Host-initiated requests are not part of the protocol; refuse
		// politely instead of leaving the host hanging.
		b.reject(id.Int(), method.String())
	case method.Exists():
		var n notification
		if err := json.Unmarshal(data, &n); err != nil {
			b.logger.Warn("malformed notification", "error", err)
			return
		}
		select {
		case b.queue <- n:
		case <-ctx.Done():
		case <-b.done:
		}
	case id.Exists():
		var resp response
		if err := json.Unmarshal(data, &resp); err != nil {
			b.logger.Warn("malformed response", "error", err)
			return
		}
		b.settle(&resp)
	default:
		b.logger.Debug("dropping unroutable frame")
	}
}

func (b *Bridge) dispatchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-b.done:
			return
		case n := <-b.queue:
			b.mu.Lock()
			handler := b.handlers[n.Method]
			b.mu.Unlock()
			if handler == nil {
				b.logger.Debug("unhandled notification", "method", n.Method)
				continue
			}
			handler(ctx, n.Params)
		}
	}
}

func (b *Bridge) settle(resp *response) {
	if b.closed.Load() {
		return
	}
	b.mu.Lock()
	ch, ok := b.pending[resp.ID]
	if ok {
		delete(b.pending, resp.ID)
	}
	b.mu.Unlock()

	if ok {
		ch <- resp
	}
}

func (b *Bridge) reject(id int64, method string) {
	resp := response{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &HostError{Code: CodeMethodNotFound, Message: "method not supported: " + method},
	}
	if err := b.send(resp); err != nil {
		b.logger.Warn("reject host request failed", "method", method, "error", err)
	}
}

func (b *Bridge) readMessage() ([]byte, error) {
	var contentLength int
	for {
		line, err := b.reader.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			break
		}
		if strings.HasPrefix(strings.ToLower(line), "content-length:") {
			parts := strings.SplitN(line, ":", 2)
			if len(parts) == 2 {
				length, err := strconv.Atoi(strings.TrimSpace(parts[1]))
				if err == nil {
					contentLength = length
				}
			}
		}
	}
	if contentLength == 0 {
		return nil, fmt.Errorf("missing Content-Length header")
	}

	body := make([]byte, contentLength)
	if _, err := io.ReadFull(b.reader, body); err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}
