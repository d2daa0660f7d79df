package ipc

import (
	"context"
	"encoding/json"
	"testing"
)

type recordedInvoke struct {
	command string
	args    string
}

func recordingInvoker(calls *[]recordedInvoke) Invoker {
	return InvokerFunc(func(ctx context.Context, command string, args, result any) error {
		data, err := json.Marshal(args)
		if err != nil {
			return err
		}
		*calls = append(*calls, recordedInvoke{command: command, args: string(data)})
		return nil
	})
}

func TestEventRemote_Subscribe(t *testing.T) {
	var calls []recordedInvoke
	r := NewEventRemote(recordingInvoker(&calls))

	if err := r.Subscribe(context.Background(), "moved", "main", 7); err != nil {
		t.Fatalf("Subscribe() failed: %v", err)
	}
	if len(calls) != 1 || calls[0].command != CommandListen {
		t.Fatalf("expected one %q invoke, got %+v", CommandListen, calls)
	}
	if calls[0].args != `{"event":"moved","target":"main","id":7}` {
		t.Errorf("unexpected args: %s", calls[0].args)
	}
}

func TestEventRemote_Subscribe_Broadcast(t *testing.T) {
	var calls []recordedInvoke
	r := NewEventRemote(recordingInvoker(&calls))

	r.Subscribe(context.Background(), "moved", "", 7)
	if calls[0].args != `{"event":"moved","id":7}` {
		t.Errorf("expected target omitted for broadcast, got %s", calls[0].args)
	}
}

func TestEventRemote_Unsubscribe(t *testing.T) {
	var calls []recordedInvoke
	r := NewEventRemote(recordingInvoker(&calls))

	if err := r.Unsubscribe(context.Background(), "moved", 7); err != nil {
		t.Fatalf("Unsubscribe() failed: %v", err)
	}
	if calls[0].command != CommandUnlisten {
		t.Errorf("expected %q, got %q", CommandUnlisten, calls[0].command)
	}
	if calls[0].args != `{"event":"moved","id":7}` {
		t.Errorf("unexpected args: %s", calls[0].args)
	}
}

func TestEventRemote_Publish(t *testing.T) {
	var calls []recordedInvoke
	r := NewEventRemote(recordingInvoker(&calls))

	err := r.Publish(context.Background(), "refresh", "main", json.RawMessage(`{"rate":60}`))
	if err != nil {
		t.Fatalf("Publish() failed: %v", err)
	}
	if calls[0].command != CommandEmit {
		t.Errorf("expected %q, got %q", CommandEmit, calls[0].command)
	}
	if calls[0].args != `{"event":"refresh","target":"main","payload":{"rate":60}}` {
		t.Errorf("unexpected args: %s", calls[0].args)
	}
}
