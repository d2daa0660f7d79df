package ipc

import (
	"context"
	"errors"
	"testing"
)

func TestAuthority_Check_DenyWins(t *testing.T) {
	a := NewAuthority([]Rule{{Command: "close"}}, []string{"close"})
	if err := a.Check("close", "main"); !errors.Is(err, ErrCommandDenied) {
		t.Errorf("expected deny to win over allow, got %v", err)
	}
}

func TestAuthority_Check_OpenByDefault(t *testing.T) {
	a := NewAuthority(nil, []string{"destroy"})
	if err := a.Check("set_title", "main"); err != nil {
		t.Errorf("expected undenied command to pass, got %v", err)
	}
	if err := a.Check("destroy", "main"); !errors.Is(err, ErrCommandDenied) {
		t.Errorf("expected denied command to fail, got %v", err)
	}
}

func TestAuthority_Check_AllowList(t *testing.T) {
	a := NewAuthority([]Rule{
		{Command: "set_title"},
		{Command: "close", Windows: []string{"tool-*", "scratch"}},
	}, nil)

	if err := a.Check("set_title", "anything"); err != nil {
		t.Errorf("unrestricted allow rule: expected pass, got %v", err)
	}
	if err := a.Check("close", "tool-palette"); err != nil {
		t.Errorf("matching label pattern: expected pass, got %v", err)
	}
	if err := a.Check("close", "scratch"); err != nil {
		t.Errorf("exact label pattern: expected pass, got %v", err)
	}
	if err := a.Check("close", "main"); !errors.Is(err, ErrCommandDenied) {
		t.Errorf("non-matching label: expected ErrCommandDenied, got %v", err)
	}
	if err := a.Check("set_size", "main"); !errors.Is(err, ErrCommandDenied) {
		t.Errorf("unlisted command: expected ErrCommandDenied, got %v", err)
	}
}

func TestAuthority_Wrap(t *testing.T) {
	var invoked int
	inner := InvokerFunc(func(ctx context.Context, command string, args, result any) error {
		invoked++
		return nil
	})

	a := NewAuthority([]Rule{{Command: "set_title", Windows: []string{"main"}}}, nil)
	inv := a.Wrap(inner)

	type titleArgs struct {
		Label string `json:"label"`
		Value string `json:"value"`
	}

	err := inv.Invoke(context.Background(), "set_title", titleArgs{Label: "main", Value: "hi"}, nil)
	if err != nil {
		t.Fatalf("allowed command failed: %v", err)
	}
	if invoked != 1 {
		t.Errorf("expected inner invoker reached once, got %d", invoked)
	}

	err = inv.Invoke(context.Background(), "set_title", titleArgs{Label: "settings", Value: "hi"}, nil)
	if !errors.Is(err, ErrCommandDenied) {
		t.Errorf("expected ErrCommandDenied for wrong label, got %v", err)
	}
	if invoked != 1 {
		t.Errorf("denied command must not reach the wire, inner count %d", invoked)
	}
}
