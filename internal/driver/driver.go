// Package driver defines the browser operations the engine needs and the
// locators it expresses lookups with. Implementations live in subpackages.
package driver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNoElement is returned by Find when nothing matches the locator.
var ErrNoElement = errors.New("no element matches locator")

// By selects how a Locator's Value is interpreted.
type By int

const (
	ByID By = iota
	ByXPath
)

func (b By) String() string {
	if b == ByID {
		return "id"
	}
	return "xpath"
}

// Locator identifies elements on the current page.
type Locator struct {
	By    By
	Value string
}

func (l Locator) String() string {
	return fmt.Sprintf("%s=%s", l.By, l.Value)
}

func ID(id string) Locator { return Locator{By: ByID, Value: id} }

func XPath(expr string) Locator { return Locator{By: ByXPath, Value: expr} }

// Driver is one browser session. Sessions are used by a single goroutine.
type Driver interface {
	Navigate(ctx context.Context, url string) error
	// Find returns the first element in document order, or ErrNoElement.
	Find(ctx context.Context, loc Locator) (Element, error)
	FindAll(ctx context.Context, loc Locator) ([]Element, error)
	Close() error
}

// Element is a handle to one element of the current page.
type Element interface {
	// Attribute returns the attribute value and whether it is present.
	Attribute(ctx context.Context, name string) (string, bool, error)
	Text(ctx context.Context) (string, error)
	// Value is the live form value for inputs, selects and textareas, and
	// the visible text for anything else.
	Value(ctx context.Context) (string, error)
	Click(ctx context.Context) error
	Clear(ctx context.Context) error
	Type(ctx context.Context, text string) error
	// Submit submits the form that owns the element.
	Submit(ctx context.Context) error
	// PressEnter sends an Enter keypress to the element.
	PressEnter(ctx context.Context) error
}

// Waiter is implemented by drivers that can block until an element accepts
// input. Implementations must honor ctx's deadline.
type Waiter interface {
	WaitInteractable(ctx context.Context, el Element) error
}

// Scroller is implemented by drivers with a viewport.
type Scroller interface {
	ScrollIntoView(ctx context.Context, el Element) error
}

// Screenshotter is implemented by drivers that can capture the page as PNG.
type Screenshotter interface {
	Screenshot(ctx context.Context) ([]byte, error)
}

// PageLoadWaiter is implemented by drivers that can wait for the document
// to finish loading after Navigate.
type PageLoadWaiter interface {
	WaitLoad(ctx context.Context, timeout time.Duration) error
}

// Literal quotes s as an XPath 1.0 string literal. XPath has no escape
// sequences, so a string holding both quote kinds is built with concat().
func Literal(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	parts := strings.Split(s, "'")
	var b strings.Builder
	b.WriteString("concat(")
	for i, p := range parts {
		if i > 0 {
			b.WriteString(`, "'", `)
		}
		b.WriteString("'" + p + "'")
	}
	b.WriteString(")")
	return b.String()
}

// NormalizeSpace trims s and collapses inner whitespace runs to one space,
// matching XPath's normalize-space().
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
