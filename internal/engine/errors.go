package engine

import (
	"fmt"
	"time"

	"github.com/chriserin/smartui/internal/scenario"
)

// FieldNotFoundError means every resolver lookup came up empty.
type FieldNotFoundError struct {
	Field string
}

func (e *FieldNotFoundError) Error() string {
	return fmt.Sprintf("field not found: %q", e.Field)
}

// NoStrategyError means the registry has nothing for an action variant.
type NoStrategyError struct {
	Kind scenario.Kind
}

func (e *NoStrategyError) Error() string {
	return fmt.Sprintf("no strategy registered for action type %s", e.Kind)
}

// ConfigError reports a registry that was built wrong.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return "engine configuration: " + e.Message
}

// InteractionError wraps a driver failure while acting on an element.
type InteractionError struct {
	Op     string
	Target string
	Err    error
}

func (e *InteractionError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Target, e.Err)
}

func (e *InteractionError) Unwrap() error { return e.Err }

// TimeoutError means a bounded wait ran out.
type TimeoutError struct {
	Op      string
	Target  string
	Timeout time.Duration
	Err     error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s %q: timed out after %s", e.Op, e.Target, e.Timeout)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// Warning is a non-fatal failure an action recovered from.
type Warning struct {
	Field string
	Err   error
}

func (w Warning) String() string {
	if w.Field == "" {
		return w.Err.Error()
	}
	return fmt.Sprintf("field %q: %v", w.Field, w.Err)
}
