package ipc

import (
	"errors"
	"fmt"
)

var (
	// ErrNotStarted indicates the bridge has not been started.
	ErrNotStarted = errors.New("ipc: bridge not started")

	// ErrAlreadyStarted indicates the bridge is already running.
	ErrAlreadyStarted = errors.New("ipc: bridge already started")

	// ErrClosed indicates the bridge has been shut down.
	ErrClosed = errors.New("ipc: bridge closed")

	// ErrCommandDenied indicates the access policy rejected a command before
	// it reached the host.
	ErrCommandDenied = errors.New("ipc: command denied")
)

// HostError is a command rejection reported by the host. It satisfies the
// error interface and is returned unwrapped from Invoke so callers can
// inspect the code and data the host attached.
type HostError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Error implements the error interface.
func (e *HostError) Error() string {
	if e.Data != nil {
		return fmt.Sprintf("host error %d: %s (data: %v)", e.Code, e.Message, e.Data)
	}
	return fmt.Sprintf("host error %d: %s", e.Code, e.Message)
}

// Standard JSON-RPC error codes used on the wire.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)
