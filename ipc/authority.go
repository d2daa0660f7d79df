package ipc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/match"
)

// Rule allows one command, optionally limited to windows whose label matches
// one of the patterns ('*' and '?' wildcards). An empty pattern list allows
// the command for every window.
type Rule struct {
	Command string   `json:"command"`
	Windows []string `json:"windows,omitempty"`
}

// Authority decides whether a command may reach the host. Deny entries are
// checked first and always win. If any allow rules exist, a command must
// match one of them; with no allow rules, everything not denied passes.
type Authority struct {
	denied  map[string]struct{}
	allowed []Rule
}

// NewAuthority builds a policy from allow rules and denied command names.
func NewAuthority(allow []Rule, deny []string) *Authority {
	a := &Authority{
		denied:  make(map[string]struct{}, len(deny)),
		allowed: allow,
	}
	for _, command := range deny {
		a.denied[command] = struct{}{}
	}
	return a
}

// Check reports whether the command may run against the window with the given
// label. Commands that do not address a window are checked with an empty
// label.
func (a *Authority) Check(command, label string) error {
	if _, ok := a.denied[command]; ok {
		return fmt.Errorf("%w: %s", ErrCommandDenied, command)
	}
	if len(a.allowed) == 0 {
		return nil
	}
	for _, rule := range a.allowed {
		if rule.Command != command {
			continue
		}
		if len(rule.Windows) == 0 {
			return nil
		}
		for _, pattern := range rule.Windows {
			if match.Match(label, pattern) {
				return nil
			}
		}
	}
	return fmt.Errorf("%w: %s", ErrCommandDenied, command)
}

// Wrap returns an Invoker that evaluates the policy before delegating to
// next. Denied commands never reach the wire.
func (a *Authority) Wrap(next Invoker) Invoker {
	return InvokerFunc(func(ctx context.Context, command string, args any, result any) error {
		if err := a.Check(command, labelOf(args)); err != nil {
			return err
		}
		return next.Invoke(ctx, command, args, result)
	})
}

// labelOf pulls the window label out of an argument bag, if it carries one.
func labelOf(args any) string {
	if args == nil {
		return ""
	}
	data, err := json.Marshal(args)
	if err != nil {
		return ""
	}
	return gjson.GetBytes(data, "label").String()
}
