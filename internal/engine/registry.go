package engine

import (
	"context"
	"fmt"

	"github.com/chriserin/smartui/internal/driver"
	"github.com/chriserin/smartui/internal/scenario"
)

// Hooks are caller extension points invoked by strategies.
type Hooks struct {
	// BeforeInteract runs after a field is resolved and scrolled to, right
	// before it is cleared. An error aborts the action.
	BeforeInteract func(ctx context.Context, field string, el driver.Element) error
}

func (h Hooks) beforeInteract(ctx context.Context, field string, el driver.Element) error {
	if h.BeforeInteract == nil {
		return nil
	}
	if err := h.BeforeInteract(ctx, field, el); err != nil {
		return fmt.Errorf("before interacting with %q: %w", field, err)
	}
	return nil
}

// Result carries what an action recovered from.
type Result struct {
	Warnings []Warning
}

func (r *Result) warn(field string, err error) {
	r.Warnings = append(r.Warnings, Warning{Field: field, Err: err})
}

// Strategy executes one action variant.
type Strategy interface {
	Kind() scenario.Kind
	Execute(ctx context.Context, action scenario.Action, res ElementResolver, hooks Hooks) (Result, error)
}

// Registry holds at most one strategy per action variant.
type Registry struct {
	click  Strategy
	enter  Strategy
	submit Strategy
}

// NewRegistry fails on an empty strategy list or a variant registered twice.
func NewRegistry(strategies ...Strategy) (*Registry, error) {
	if len(strategies) == 0 {
		return nil, &ConfigError{Message: "no action strategies registered"}
	}
	r := &Registry{}
	for _, s := range strategies {
		if s == nil {
			return nil, &ConfigError{Message: "nil action strategy"}
		}
		slot, err := r.slot(s.Kind())
		if err != nil {
			return nil, err
		}
		if *slot != nil {
			return nil, &ConfigError{Message: fmt.Sprintf("duplicate strategy for action type %s", s.Kind())}
		}
		*slot = s
	}
	return r, nil
}

func (r *Registry) slot(kind scenario.Kind) (*Strategy, error) {
	switch kind {
	case scenario.KindClick:
		return &r.click, nil
	case scenario.KindEnter:
		return &r.enter, nil
	case scenario.KindSubmit:
		return &r.submit, nil
	}
	return nil, &ConfigError{Message: fmt.Sprintf("strategy for unknown action type %q", kind)}
}

// Kinds lists the variants that have a strategy.
func (r *Registry) Kinds() []scenario.Kind {
	var out []scenario.Kind
	for _, k := range scenario.Kinds {
		if s, _ := r.slot(k); *s != nil {
			out = append(out, k)
		}
	}
	return out
}

// Dispatch runs the strategy for action's variant.
func (r *Registry) Dispatch(ctx context.Context, action scenario.Action, res ElementResolver, hooks Hooks) (Result, error) {
	var s Strategy
	switch action.(type) {
	case scenario.ClickAction:
		s = r.click
	case scenario.EnterAction:
		s = r.enter
	case scenario.SubmitAction:
		s = r.submit
	case nil:
		return Result{}, fmt.Errorf("dispatching: nil action")
	default:
		return Result{}, fmt.Errorf("dispatching: unsupported action type %T", action)
	}
	if s == nil {
		return Result{}, &NoStrategyError{Kind: action.Kind()}
	}
	return s.Execute(ctx, action, res, hooks)
}
