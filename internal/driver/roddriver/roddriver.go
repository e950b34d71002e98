// Package roddriver drives a real Chromium over the DevTools protocol.
package roddriver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chriserin/smartui/internal/driver"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/sirupsen/logrus"
)

type Options struct {
	Headless bool
	// Bin overrides the browser binary; empty lets the launcher find or
	// download one.
	Bin string
	// Timeout bounds each element operation; rod otherwise waits forever
	// for an element to become clickable. Zero leaves them unbounded.
	Timeout time.Duration
	Log     logrus.FieldLogger
}

// Driver is one browser process with a single tab.
type Driver struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	timeout  time.Duration
	log      logrus.FieldLogger
}

// Launch starts a browser and opens a blank tab.
func Launch(opts Options) (*Driver, error) {
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	l := launcher.New().Headless(opts.Headless)
	if opts.Bin != "" {
		l = l.Bin(opts.Bin)
	}
	url, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(url)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}
	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = browser.Close()
		l.Kill()
		return nil, fmt.Errorf("opening tab: %w", err)
	}

	log.WithField("control_url", url).Debug("browser launched")
	return &Driver{launcher: l, browser: browser, page: page, timeout: opts.Timeout, log: log}, nil
}

func (d *Driver) Navigate(ctx context.Context, url string) error {
	if err := d.page.Context(ctx).Navigate(url); err != nil {
		return fmt.Errorf("navigating to %s: %w", url, err)
	}
	return nil
}

func (d *Driver) WaitLoad(ctx context.Context, timeout time.Duration) error {
	if err := d.page.Context(ctx).Timeout(timeout).WaitLoad(); err != nil {
		return fmt.Errorf("waiting for page load: %w", err)
	}
	return nil
}

func (d *Driver) Find(ctx context.Context, loc driver.Locator) (driver.Element, error) {
	els, err := d.FindAll(ctx, loc)
	if err != nil {
		return nil, err
	}
	if len(els) == 0 {
		return nil, driver.ErrNoElement
	}
	return els[0], nil
}

// FindAll queries without waiting; an absent element is an empty result.
func (d *Driver) FindAll(ctx context.Context, loc driver.Locator) ([]driver.Element, error) {
	expr := loc.Value
	if loc.By == driver.ByID {
		expr = "//*[@id=" + driver.Literal(loc.Value) + "]"
	}
	els, err := d.page.Context(ctx).ElementsX(expr)
	if err != nil {
		return nil, fmt.Errorf("locating %s: %w", loc, err)
	}
	out := make([]driver.Element, 0, len(els))
	for _, el := range els {
		out = append(out, &element{el: el, timeout: d.timeout})
	}
	return out, nil
}

func (d *Driver) WaitInteractable(ctx context.Context, el driver.Element) error {
	e, ok := el.(*element)
	if !ok {
		return fmt.Errorf("foreign element %T", el)
	}
	_, err := e.el.Context(ctx).WaitInteractable()
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func (d *Driver) ScrollIntoView(ctx context.Context, el driver.Element) error {
	e, ok := el.(*element)
	if !ok {
		return fmt.Errorf("foreign element %T", el)
	}
	rel, ctx, cancel := e.bound(ctx)
	defer cancel()
	return settle(ctx, rel.ScrollIntoView())
}

func (d *Driver) Screenshot(ctx context.Context) ([]byte, error) {
	return d.page.Context(ctx).Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
}

func (d *Driver) Close() error {
	err := d.browser.Close()
	d.launcher.Kill()
	d.log.Debug("browser closed")
	return err
}

type element struct {
	el      *rod.Element
	timeout time.Duration
}

// bound returns the element under ctx, limited to the element timeout.
func (e *element) bound(ctx context.Context) (*rod.Element, context.Context, context.CancelFunc) {
	if e.timeout <= 0 {
		return e.el.Context(ctx), ctx, func() {}
	}
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	return e.el.Context(ctx), ctx, cancel
}

// settle reports ctx's error in place of whatever rod returned once ctx
// is done, so callers can match context.DeadlineExceeded.
func settle(ctx context.Context, err error) error {
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func (e *element) Attribute(ctx context.Context, name string) (string, bool, error) {
	el, ctx, cancel := e.bound(ctx)
	defer cancel()
	v, err := el.Attribute(name)
	if err != nil {
		return "", false, settle(ctx, err)
	}
	if v == nil {
		return "", false, nil
	}
	return *v, true, nil
}

func (e *element) Text(ctx context.Context) (string, error) {
	el, ctx, cancel := e.bound(ctx)
	defer cancel()
	text, err := el.Text()
	if err != nil {
		return "", settle(ctx, err)
	}
	return driver.NormalizeSpace(text), nil
}

func (e *element) Value(ctx context.Context) (string, error) {
	el, ctx, cancel := e.bound(ctx)
	defer cancel()
	res, err := el.Eval(`() => (typeof this.value === 'string' && this.tagName !== 'BUTTON')
		? this.value
		: this.innerText`)
	if err != nil {
		return "", settle(ctx, err)
	}
	return res.Value.Str(), nil
}

func (e *element) Click(ctx context.Context) error {
	el, ctx, cancel := e.bound(ctx)
	defer cancel()
	return settle(ctx, el.Click(proto.InputMouseButtonLeft, 1))
}

func (e *element) Clear(ctx context.Context) error {
	el, ctx, cancel := e.bound(ctx)
	defer cancel()
	_, err := el.Eval(`() => {
		this.value = '';
		this.dispatchEvent(new Event('input', { bubbles: true }));
	}`)
	return settle(ctx, err)
}

func (e *element) Type(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}
	el, ctx, cancel := e.bound(ctx)
	defer cancel()
	return settle(ctx, el.Input(text))
}

var errNoForm = errors.New("element is not in a form")

func (e *element) Submit(ctx context.Context) error {
	el, ctx, cancel := e.bound(ctx)
	defer cancel()
	res, err := el.Eval(`() => {
		const form = this.form || this.closest('form');
		if (!form) return false;
		if (form.requestSubmit) form.requestSubmit(); else form.submit();
		return true;
	}`)
	if err != nil {
		return settle(ctx, err)
	}
	if !res.Value.Bool() {
		return errNoForm
	}
	return nil
}

func (e *element) PressEnter(ctx context.Context) error {
	el, ctx, cancel := e.bound(ctx)
	defer cancel()
	return settle(ctx, el.Type(input.Enter))
}

var (
	_ driver.Driver         = (*Driver)(nil)
	_ driver.Waiter         = (*Driver)(nil)
	_ driver.Scroller       = (*Driver)(nil)
	_ driver.Screenshotter  = (*Driver)(nil)
	_ driver.PageLoadWaiter = (*Driver)(nil)
)
