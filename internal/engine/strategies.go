package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chriserin/smartui/internal/driver"
	"github.com/chriserin/smartui/internal/scenario"
)

// ClickStrategy clicks a button, link or input button by its text, falling
// back to the resolver. A positive Timeout bounds the click itself.
type ClickStrategy struct {
	Timeout time.Duration
}

func (ClickStrategy) Kind() scenario.Kind { return scenario.KindClick }

func (s ClickStrategy) Execute(ctx context.Context, action scenario.Action, res ElementResolver, hooks Hooks) (Result, error) {
	a, ok := action.(scenario.ClickAction)
	if !ok {
		return Result{}, fmt.Errorf("click strategy given %s action", action.Kind())
	}

	el, err := findClickable(ctx, res.Driver(), a.Target)
	if errors.Is(err, driver.ErrNoElement) {
		el, err = res.Resolve(ctx, a.Target)
		if err != nil {
			return Result{}, fmt.Errorf("no clickable element or field for %q: %w", a.Target, err)
		}
	} else if err != nil {
		return Result{}, err
	}

	if err := click(ctx, el, a.Target, s.Timeout); err != nil {
		return Result{}, err
	}
	return Result{}, nil
}

// click runs el.Click under timeout when it is positive. Running out of
// time is a *TimeoutError; a cancelled parent ctx is not.
func click(ctx context.Context, el driver.Element, target string, timeout time.Duration) error {
	cctx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		cctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	err := el.Click(cctx)
	switch {
	case err == nil:
		return nil
	case timeout > 0 && errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil:
		return &TimeoutError{Op: "click", Target: target, Timeout: timeout, Err: err}
	}
	return &InteractionError{Op: "click", Target: target, Err: err}
}

func findClickable(ctx context.Context, d driver.Driver, target string) (driver.Element, error) {
	lit := driver.Literal(target)
	expr := strings.Join([]string{
		"//button[normalize-space(.)=" + lit + "]",
		"//a[normalize-space(.)=" + lit + "]",
		"//input[@type='button' and @value=" + lit + "]",
		"//input[@type='submit' and @value=" + lit + "]",
	}, " | ")
	return d.Find(ctx, driver.XPath(expr))
}

// EnterOptions tune the Enter strategy.
type EnterOptions struct {
	// WaitTimeout bounds the wait for the field to become interactable.
	// DefaultStrategies also bounds every click with it. Zero skips the
	// wait and leaves clicks unbounded.
	WaitTimeout    time.Duration
	PressEnter     bool
	ScrollIntoView bool
}

// EnterStrategy types a value into a resolved field.
type EnterStrategy struct {
	Options EnterOptions
}

func (EnterStrategy) Kind() scenario.Kind { return scenario.KindEnter }

func (s EnterStrategy) Execute(ctx context.Context, action scenario.Action, res ElementResolver, hooks Hooks) (Result, error) {
	a, ok := action.(scenario.EnterAction)
	if !ok {
		return Result{}, fmt.Errorf("enter strategy given %s action", action.Kind())
	}
	if strings.TrimSpace(a.TargetField) == "" {
		return Result{}, fmt.Errorf("enter action has no target field")
	}

	el, err := res.Resolve(ctx, a.TargetField)
	if err != nil {
		return Result{}, err
	}

	d := res.Driver()
	if w, ok := d.(driver.Waiter); ok && s.Options.WaitTimeout > 0 {
		if err := waitInteractable(ctx, w, el, a.TargetField, s.Options.WaitTimeout); err != nil {
			return Result{}, err
		}
	}
	if sc, ok := d.(driver.Scroller); ok && s.Options.ScrollIntoView {
		if err := sc.ScrollIntoView(ctx, el); err != nil {
			return Result{}, &InteractionError{Op: "scroll to", Target: a.TargetField, Err: err}
		}
	}
	if err := hooks.beforeInteract(ctx, a.TargetField, el); err != nil {
		return Result{}, err
	}

	if err := el.Clear(ctx); err != nil {
		return Result{}, &InteractionError{Op: "clear", Target: a.TargetField, Err: err}
	}
	if err := el.Type(ctx, a.Value); err != nil {
		return Result{}, &InteractionError{Op: "type into", Target: a.TargetField, Err: err}
	}
	if s.Options.PressEnter {
		if err := el.PressEnter(ctx); err != nil {
			return Result{}, &InteractionError{Op: "press enter in", Target: a.TargetField, Err: err}
		}
	}
	return Result{}, nil
}

func waitInteractable(ctx context.Context, w driver.Waiter, el driver.Element, field string, timeout time.Duration) error {
	wctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := w.WaitInteractable(wctx, el)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil:
		return &TimeoutError{Op: "wait for", Target: field, Timeout: timeout, Err: err}
	}
	return &InteractionError{Op: "wait for", Target: field, Err: err}
}

// SubmitStrategy fills fields and submits their form, or clicks a generic
// submit control when there are no fields. Every failure after validation
// becomes a warning. A positive ClickTimeout bounds the submit control click.
type SubmitStrategy struct {
	ClickTimeout time.Duration
}

func (SubmitStrategy) Kind() scenario.Kind { return scenario.KindSubmit }

func (s SubmitStrategy) Execute(ctx context.Context, action scenario.Action, res ElementResolver, hooks Hooks) (Result, error) {
	a, ok := action.(scenario.SubmitAction)
	if !ok {
		return Result{}, fmt.Errorf("submit strategy given %s action", action.Kind())
	}

	var result Result
	if len(a.Fields) == 0 {
		if err := clickGenericSubmit(ctx, res.Driver(), s.ClickTimeout); err != nil {
			result.warn("", err)
		}
		return result, nil
	}

	var last driver.Element
	for _, f := range a.Fields {
		el, err := res.Resolve(ctx, f.Name)
		if err != nil {
			result.warn(f.Name, err)
			continue
		}
		if err := el.Clear(ctx); err != nil {
			result.warn(f.Name, &InteractionError{Op: "clear", Target: f.Name, Err: err})
			continue
		}
		if err := el.Type(ctx, f.Value); err != nil {
			result.warn(f.Name, &InteractionError{Op: "type into", Target: f.Name, Err: err})
			continue
		}
		last = el
	}

	if last == nil {
		result.warn("", errors.New("no field could be filled, form not submitted"))
		return result, nil
	}
	err := last.Submit(ctx)
	if err == nil {
		return result, nil
	}
	result.warn("", fmt.Errorf("submitting form of last filled field: %w", err))
	if err := clickGenericSubmit(ctx, res.Driver(), s.ClickTimeout); err != nil {
		result.warn("", err)
	}
	return result, nil
}

var errNoSubmitControl = errors.New("no generic submit control found")

func clickGenericSubmit(ctx context.Context, d driver.Driver, timeout time.Duration) error {
	contains := func(expr string) string {
		return "contains(translate(" + expr + ", " + upperAlpha + ", " + lowerAlpha + "), 'submit')"
	}
	xpath := strings.Join([]string{
		"//input[@type='submit']",
		"//button[@type='submit']",
		"//button[" + contains("normalize-space(.)") + "]",
		"//button[" + contains("@id") + "]",
		"//button[" + contains("@name") + "]",
	}, " | ")

	el, err := d.Find(ctx, driver.XPath(xpath))
	if errors.Is(err, driver.ErrNoElement) {
		return errNoSubmitControl
	}
	if err != nil {
		return err
	}
	return click(ctx, el, "submit control", timeout)
}

// DefaultStrategies returns one strategy per action variant.
func DefaultStrategies(enter EnterOptions) []Strategy {
	return []Strategy{
		ClickStrategy{Timeout: enter.WaitTimeout},
		EnterStrategy{Options: enter},
		SubmitStrategy{ClickTimeout: enter.WaitTimeout},
	}
}
