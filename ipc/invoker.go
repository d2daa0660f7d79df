package ipc

import "context"

// Invoker sends one named command with its argument bag to the host and
// decodes the reply into result. A nil result discards the reply payload.
// Host rejections come back as *HostError; nothing is retried.
type Invoker interface {
	Invoke(ctx context.Context, command string, args any, result any) error
}

// InvokerFunc adapts a function to the Invoker interface.
type InvokerFunc func(ctx context.Context, command string, args any, result any) error

// Invoke implements Invoker.
func (f InvokerFunc) Invoke(ctx context.Context, command string, args any, result any) error {
	return f(ctx, command, args, result)
}
