// Package hosttest provides an in-process fake window host speaking the
// bridge wire protocol over an in-memory connection. Integration tests wire
// the real bridge, broker and manager stack against it: command responses are
// scripted per command, every invocation is recorded, and events can be
// pushed to the client at will.
//
// The fake mirrors host-side bus routing: an emit whose event name has a live
// subscription is echoed back to the client as an event notification.
package hosttest

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"

	"github.com/MethodicalGamesInc/tauri/event"
	"github.com/MethodicalGamesInc/tauri/ipc"
)

// Invocation is one recorded command request.
type Invocation struct {
	Command string
	Params  json.RawMessage
}

// Args decodes the recorded params into v.
func (inv Invocation) Args(v any) error {
	return json.Unmarshal(inv.Params, v)
}

// Host is the fake. Construct with New and hand Client to ipc.NewBridge.
type Host struct {
	conn   net.Conn
	client net.Conn

	writeMu sync.Mutex

	mu          sync.Mutex
	current     string
	windows     []string
	invocations []Invocation
	results     map[string]any
	errs        map[string]*ipc.HostError
	subs        map[string]int
	closed      bool
}

// Option configures the fake host.
type Option func(*Host)

// WithWindows sets the hello snapshot. The first label is the window the
// client connection belongs to. Defaults to a single "main" window.
func WithWindows(labels ...string) Option {
	return func(h *Host) {
		if len(labels) > 0 {
			h.current = labels[0]
			h.windows = labels
		}
	}
}

// New starts a fake host on an in-memory duplex connection.
func New(opts ...Option) *Host {
	server, client := net.Pipe()
	h := &Host{
		conn:    server,
		client:  client,
		current: "main",
		windows: []string{"main"},
		results: make(map[string]any),
		errs:    make(map[string]*ipc.HostError),
		subs:    make(map[string]int),
	}
	for _, opt := range opts {
		opt(h)
	}
	go h.serve()
	return h
}

// Client returns the connection end for ipc.NewBridge.
func (h *Host) Client() net.Conn { return h.client }

// Close severs the connection and stops the serve loop.
func (h *Host) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	h.mu.Unlock()
	return h.conn.Close()
}

// Respond scripts the result returned for a command.
func (h *Host) Respond(command string, result any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.results[command] = result
}

// Fail scripts a rejection for a command.
func (h *Host) Fail(command string, code int, message string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errs[command] = &ipc.HostError{Code: code, Message: message}
}

// Invocations returns the recorded requests for a command, oldest first.
func (h *Host) Invocations(command string) []Invocation {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []Invocation
	for _, inv := range h.invocations {
		if inv.Command == command {
			out = append(out, inv)
		}
	}
	return out
}

// Subscriptions reports the live subscription count for an event name.
func (h *Host) Subscriptions(name string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.subs[name]
}

// PushEvent delivers an event notification to the client, as a host would
// after something happened on the named window.
func (h *Host) PushEvent(name, label string, payload any) error {
	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("hosttest: encode payload: %w", err)
		}
		raw = data
	}
	return h.notify(ipc.MethodEvent, event.Delivery{Name: name, WindowLabel: label, Payload: raw})
}

func (h *Host) serve() {
	reader := bufio.NewReader(h.conn)
	for {
		data, err := readFrame(reader)
		if err != nil {
			return
		}
		h.handle(data)
	}
}

func (h *Host) handle(data []byte) {
	var req struct {
		ID     int64           `json:"id"`
		Method string          `json:"method"`
		Params json.RawMessage `json:"params"`
	}
	if err := json.Unmarshal(data, &req); err != nil || req.Method == "" {
		return
	}

	h.mu.Lock()
	h.invocations = append(h.invocations, Invocation{Command: req.Method, Params: req.Params})
	h.mu.Unlock()

	if req.ID == 0 {
		return
	}

	switch req.Method {
	case ipc.MethodHello:
		h.respond(req.ID, h.helloSnapshot(), nil)
	case ipc.CommandListen:
		var args struct {
			Event string `json:"event"`
		}
		if err := json.Unmarshal(req.Params, &args); err == nil {
			h.mu.Lock()
			h.subs[args.Event]++
			h.mu.Unlock()
		}
		h.respond(req.ID, nil, nil)
	case ipc.CommandUnlisten:
		var args struct {
			Event string `json:"event"`
		}
		if err := json.Unmarshal(req.Params, &args); err == nil {
			h.mu.Lock()
			if h.subs[args.Event] > 0 {
				h.subs[args.Event]--
			}
			h.mu.Unlock()
		}
		h.respond(req.ID, nil, nil)
	case ipc.CommandEmit:
		h.handleEmit(req.ID, req.Params)
	default:
		h.mu.Lock()
		herr := h.errs[req.Method]
		result := h.results[req.Method]
		h.mu.Unlock()
		if herr != nil {
			h.respond(req.ID, nil, herr)
			return
		}
		h.respond(req.ID, result, nil)
	}
}

func (h *Host) helloSnapshot() ipc.Hello {
	h.mu.Lock()
	defer h.mu.Unlock()
	hello := ipc.Hello{Current: h.current}
	for _, label := range h.windows {
		hello.Windows = append(hello.Windows, ipc.WindowInfo{Label: label})
	}
	return hello
}

// handleEmit acknowledges the emit, then echoes it back as a delivery when a
// subscription matches, the way a host routes a client's own emit through its
// bus. The delivery label is the target window, or the client's own window
// for a broadcast.
func (h *Host) handleEmit(id int64, params json.RawMessage) {
	var args struct {
		Event   string          `json:"event"`
		Target  string          `json:"target"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(params, &args); err != nil {
		h.respond(id, nil, &ipc.HostError{Code: ipc.CodeInvalidParams, Message: err.Error()})
		return
	}
	h.respond(id, nil, nil)

	h.mu.Lock()
	subscribed := h.subs[args.Event] > 0
	label := h.current
	h.mu.Unlock()
	if args.Target != "" {
		label = args.Target
	}
	if subscribed {
		h.notify(ipc.MethodEvent, event.Delivery{
			Name:        args.Event,
			WindowLabel: label,
			Payload:     args.Payload,
		})
	}
}

type wireResponse struct {
	JSONRPC string         `json:"jsonrpc"`
	ID      int64          `json:"id"`
	Result  any            `json:"result,omitempty"`
	Error   *ipc.HostError `json:"error,omitempty"`
}

type wireNotification struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

func (h *Host) respond(id int64, result any, herr *ipc.HostError) {
	h.send(wireResponse{JSONRPC: "2.0", ID: id, Result: result, Error: herr})
}

func (h *Host) notify(method string, params any) error {
	return h.send(wireNotification{JSONRPC: "2.0", Method: method, Params: params})
}

func (h *Host) send(msg any) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("hosttest: encode frame: %w", err)
	}
	h.writeMu.Lock()
	defer h.writeMu.Unlock()
	if _, err := fmt.Fprintf(h.conn, "Content-Length: %d\r\n\r\n", len(data)); err != nil {
		return err
	}
	_, err = h.conn.Write(data)
	return err
}

func readFrame(r *bufio.Reader) ([]byte, error) {
	length := 0
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			break
		}
		if strings.HasPrefix(strings.ToLower(line), "content-length:") {
			if n, err := strconv.Atoi(strings.TrimSpace(line[len("content-length:"):])); err == nil {
				length = n
			}
		}
	}
	if length == 0 {
		return nil, fmt.Errorf("hosttest: missing Content-Length header")
	}
	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, err
	}
	return body, nil
}
