// Package engine resolves human field names to page elements and executes
// scenario actions against them.
package engine

import (
	"context"

	"github.com/chriserin/smartui/internal/driver"
	"github.com/chriserin/smartui/internal/scenario"
	"github.com/sirupsen/logrus"
)

// Engine binds a registry to one driver session.
type Engine struct {
	resolver *Resolver
	registry *Registry
	log      logrus.FieldLogger
}

func New(d driver.Driver, registry *Registry, log logrus.FieldLogger) *Engine {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Engine{resolver: NewResolver(d, log), registry: registry, log: log}
}

func (e *Engine) Resolver() *Resolver { return e.resolver }

// FieldValue resolves field and reads its live value.
func (e *Engine) FieldValue(ctx context.Context, field string) (string, error) {
	el, err := e.resolver.Resolve(ctx, field)
	if err != nil {
		return "", err
	}
	v, err := el.Value(ctx)
	if err != nil {
		return "", &InteractionError{Op: "read", Target: field, Err: err}
	}
	return v, nil
}

// Execute dispatches action and logs any warnings it recovered from.
func (e *Engine) Execute(ctx context.Context, action scenario.Action, hooks Hooks) (Result, error) {
	result, err := e.registry.Dispatch(ctx, action, e.resolver, hooks)
	for _, w := range result.Warnings {
		e.log.WithFields(logrus.Fields{"action": action.Kind(), "field": w.Field}).Warn(w.Err)
	}
	return result, err
}
