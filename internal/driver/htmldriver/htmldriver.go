// Package htmldriver is a browser driver over a static DOM. Pages come from
// registered HTML or a plain HTTP GET; no script runs. It backs dry runs
// and the engine tests.
package htmldriver

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/antchfx/htmlquery"
	"github.com/chriserin/smartui/internal/driver"
	"golang.org/x/net/html"
)

// Event records one interaction the driver performed.
type Event struct {
	Kind   string // navigate, click, clear, type, submit, enter, scroll
	Target string
	Value  string
}

// Driver holds the current document of one session.
type Driver struct {
	pages  map[string]string
	client *http.Client

	url    string
	doc    *html.Node
	events []Event
	closed bool
}

type Option func(*Driver)

// WithPage serves html for url instead of fetching it.
func WithPage(url, html string) Option {
	return func(d *Driver) { d.pages[url] = html }
}

func WithHTTPClient(c *http.Client) Option {
	return func(d *Driver) { d.client = c }
}

func New(opts ...Option) *Driver {
	d := &Driver{pages: map[string]string{}, client: http.DefaultClient}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// NewFromHTML returns a driver already showing html.
func NewFromHTML(html string) (*Driver, error) {
	d := New(WithPage("about:blank", html))
	if err := d.Navigate(context.Background(), "about:blank"); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Driver) Navigate(ctx context.Context, url string) error {
	if d.closed {
		return fmt.Errorf("navigating to %s: session closed", url)
	}

	var body io.Reader
	if page, ok := d.pages[url]; ok {
		body = strings.NewReader(page)
	} else {
		content, err := d.fetch(ctx, url)
		if err != nil {
			return err
		}
		body = bytes.NewReader(content)
	}

	doc, err := htmlquery.Parse(body)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", url, err)
	}
	d.url = url
	d.doc = doc
	d.record("navigate", url, "")
	return nil
}

func (d *Driver) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("navigating to %s: %w", url, err)
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("navigating to %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("navigating to %s: status %d", url, resp.StatusCode)
	}
	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}
	return content, nil
}

func (d *Driver) Find(ctx context.Context, loc driver.Locator) (driver.Element, error) {
	nodes, err := d.query(loc)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, driver.ErrNoElement
	}
	return &element{d: d, n: nodes[0]}, nil
}

func (d *Driver) FindAll(ctx context.Context, loc driver.Locator) ([]driver.Element, error) {
	nodes, err := d.query(loc)
	if err != nil {
		return nil, err
	}
	out := make([]driver.Element, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, &element{d: d, n: n})
	}
	return out, nil
}

func (d *Driver) query(loc driver.Locator) ([]*html.Node, error) {
	if d.doc == nil {
		return nil, fmt.Errorf("locating %s: no page loaded", loc)
	}
	expr := loc.Value
	if loc.By == driver.ByID {
		expr = "//*[@id=" + driver.Literal(loc.Value) + "]"
	}
	nodes, err := htmlquery.QueryAll(d.doc, expr)
	if err != nil {
		return nil, fmt.Errorf("locating %s: %w", loc, err)
	}
	return nodes, nil
}

func (d *Driver) Close() error {
	d.closed = true
	d.doc = nil
	return nil
}

// URL is the address of the current document.
func (d *Driver) URL() string { return d.url }

// Events returns every interaction since the session started.
func (d *Driver) Events() []Event {
	return append([]Event(nil), d.events...)
}

// HTML renders the current document, including typed values.
func (d *Driver) HTML() string {
	if d.doc == nil {
		return ""
	}
	return htmlquery.OutputHTML(d.doc, true)
}

// WaitInteractable returns at once for an enabled visible element. A static
// page never changes, so anything else waits out ctx and fails.
func (d *Driver) WaitInteractable(ctx context.Context, el driver.Element) error {
	e, ok := el.(*element)
	if !ok {
		return fmt.Errorf("foreign element %T", el)
	}
	if e.interactable() {
		return nil
	}
	if _, ok := ctx.Deadline(); !ok {
		return fmt.Errorf("%s is not interactable", describe(e.n))
	}
	<-ctx.Done()
	return ctx.Err()
}

func (d *Driver) ScrollIntoView(ctx context.Context, el driver.Element) error {
	if e, ok := el.(*element); ok {
		d.record("scroll", describe(e.n), "")
	}
	return nil
}

func (d *Driver) record(kind, target, value string) {
	d.events = append(d.events, Event{Kind: kind, Target: target, Value: value})
}

var (
	_ driver.Driver   = (*Driver)(nil)
	_ driver.Waiter   = (*Driver)(nil)
	_ driver.Scroller = (*Driver)(nil)
)
