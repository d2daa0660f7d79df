package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"os/exec"
	"time"

	"github.com/MethodicalGamesInc/tauri/config"
	"github.com/MethodicalGamesInc/tauri/event"
	"github.com/MethodicalGamesInc/tauri/ipc"
	"github.com/MethodicalGamesInc/tauri/window"
)

// session bundles the connected protocol stack behind one handle.
type session struct {
	bridge *ipc.Bridge
	bus    *event.Broker
	mgr    *window.Manager
	cancel context.CancelFunc
}

// connect dials the host named by the configuration and brings up the
// bridge, broker and window manager. The caller must close the session.
func connect(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*session, error) {
	// The exec transport ties the child's lifetime to this context, so the
	// session's cancel can always unblock its Close.
	runCtx, cancel := context.WithCancel(ctx)

	conn, err := dial(runCtx, cfg.Host)
	if err != nil {
		cancel()
		return nil, err
	}

	bridge := ipc.NewBridge(conn, ipc.WithLogger(logger))
	bus := event.NewBroker(ipc.NewEventRemote(bridge), event.WithLogger(logger))
	ipc.BindEvents(bridge, bus, logger)

	if err := bridge.Start(runCtx); err != nil {
		cancel()
		conn.Close()
		return nil, err
	}

	helloCtx := runCtx
	if cfg.Host.Timeout > 0 {
		var done context.CancelFunc
		helloCtx, done = context.WithTimeout(runCtx, cfg.Host.Timeout)
		defer done()
	}
	hello, err := bridge.Hello(helloCtx)
	if err != nil {
		cancel()
		bridge.Close()
		return nil, fmt.Errorf("handshake: %w", err)
	}

	inv := withTimeout(bridge, cfg.Host.Timeout)
	inv = cfg.Authority.Build().Wrap(inv)

	mgr := window.NewManager(bus, inv, hello, window.WithLogger(logger))
	if _, err := mgr.Watch(runCtx); err != nil {
		cancel()
		bridge.Close()
		return nil, fmt.Errorf("watching windows: %w", err)
	}

	logger.Debug("connected", "transport", cfg.Host.Transport, "windows", len(hello.Windows))
	return &session{bridge: bridge, bus: bus, mgr: mgr, cancel: cancel}, nil
}

// Close tears the stack down. Registrations are dropped locally rather than
// unsubscribed one by one; the host notices the connection going away.
func (s *session) Close() error {
	s.bus.Close()
	s.cancel()
	return s.bridge.Close()
}

// withTimeout bounds each command round trip when the configuration sets one.
func withTimeout(inv ipc.Invoker, d time.Duration) ipc.Invoker {
	if d <= 0 {
		return inv
	}
	return ipc.InvokerFunc(func(ctx context.Context, command string, args any, result any) error {
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()
		return inv.Invoke(ctx, command, args, result)
	})
}

// dial opens the transport the configuration names.
func dial(ctx context.Context, host config.Host) (io.ReadWriteCloser, error) {
	switch host.Transport {
	case config.TransportStdio:
		return stdioConn{}, nil
	case config.TransportExec:
		return startHost(ctx, host.Command, host.Args)
	case config.TransportTCP:
		var d net.Dialer
		conn, err := d.DialContext(ctx, "tcp", host.Address)
		if err != nil {
			return nil, fmt.Errorf("dialing %s: %w", host.Address, err)
		}
		return conn, nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownTransport, host.Transport)
	}
}

// stdioConn speaks the protocol over the process's own pipes, for hosts that
// spawn winctl as a sidecar.
type stdioConn struct{}

func (stdioConn) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (stdioConn) Write(p []byte) (int, error) { return os.Stdout.Write(p) }
func (stdioConn) Close() error                { return nil }

// hostProcess runs the host as a child and talks over its pipes. The child's
// stderr passes through so host diagnostics stay visible.
type hostProcess struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.ReadCloser
}

func startHost(ctx context.Context, command string, args []string) (*hostProcess, error) {
	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Stderr = os.Stderr
	cmd.Cancel = func() error { return cmd.Process.Signal(os.Interrupt) }
	cmd.WaitDelay = 3 * time.Second
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("exec %s: %w", command, err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("exec %s: %w", command, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("exec %s: %w", command, err)
	}
	return &hostProcess{cmd: cmd, stdin: stdin, stdout: stdout}, nil
}

func (h *hostProcess) Read(p []byte) (int, error)  { return h.stdout.Read(p) }
func (h *hostProcess) Write(p []byte) (int, error) { return h.stdin.Write(p) }

func (h *hostProcess) Close() error {
	h.stdin.Close()
	err := h.cmd.Wait()
	var exit *exec.ExitError
	if errors.As(err, &exit) && !exit.Exited() {
		// Killed by context cancellation during shutdown.
		return nil
	}
	return err
}
