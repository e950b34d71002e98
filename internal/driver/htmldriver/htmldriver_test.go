package htmldriver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chriserin/smartui/internal/driver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const loginPage = `<html><body>
<form id="login">
  <label for="user">User  name</label><input id="user" name="user" value="old">
  <textarea name="notes">hello</textarea>
  <select name="plan"><option value="free">Free</option><option value="pro" selected>Pro</option></select>
  <input type="checkbox" name="remember">
  <input name="locked" readonly value="x">
  <button type="submit">Sign in</button>
</form>
<button id="off" disabled>Off</button>
<a href="/help">Help</a>
</body></html>`

func newLogin(t *testing.T) *Driver {
	t.Helper()
	d, err := NewFromHTML(loginPage)
	require.NoError(t, err)
	return d
}

func TestFind_ByIDAndXPath(t *testing.T) {
	d := newLogin(t)
	ctx := context.Background()

	el, err := d.Find(ctx, driver.ID("user"))
	require.NoError(t, err)
	name, ok, err := el.Attribute(ctx, "name")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "user", name)

	el, err = d.Find(ctx, driver.XPath("//label"))
	require.NoError(t, err)
	text, err := el.Text(ctx)
	require.NoError(t, err)
	assert.Equal(t, "User name", text)

	_, err = d.Find(ctx, driver.ID("missing"))
	assert.ErrorIs(t, err, driver.ErrNoElement)

	all, err := d.FindAll(ctx, driver.XPath("//input"))
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestFind_InvalidXPath(t *testing.T) {
	d := newLogin(t)
	_, err := d.Find(context.Background(), driver.XPath("//input[@"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, driver.ErrNoElement))
}

func TestValue_FormControls(t *testing.T) {
	d := newLogin(t)
	ctx := context.Background()

	for loc, want := range map[driver.Locator]string{
		driver.ID("user"):                   "old",
		driver.XPath("//textarea"):          "hello",
		driver.XPath("//select"):            "pro",
		driver.XPath("//a"):                 "Help",
		driver.XPath("//button[@id='off']"): "Off",
	} {
		el, err := d.Find(ctx, loc)
		require.NoError(t, err)
		got, err := el.Value(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got, loc.String())
	}
}

func TestClearAndType(t *testing.T) {
	d := newLogin(t)
	ctx := context.Background()

	el, err := d.Find(ctx, driver.ID("user"))
	require.NoError(t, err)
	require.NoError(t, el.Clear(ctx))
	require.NoError(t, el.Type(ctx, "ada"))
	v, _ := el.Value(ctx)
	assert.Equal(t, "ada", v)

	ta, err := d.Find(ctx, driver.XPath("//textarea"))
	require.NoError(t, err)
	require.NoError(t, ta.Clear(ctx))
	require.NoError(t, ta.Type(ctx, "new notes"))
	v, _ = ta.Value(ctx)
	assert.Equal(t, "new notes", v)

	sel, err := d.Find(ctx, driver.XPath("//select"))
	require.NoError(t, err)
	require.NoError(t, sel.Type(ctx, "Free"))
	v, _ = sel.Value(ctx)
	assert.Equal(t, "free", v)
	assert.Error(t, sel.Type(ctx, "Enterprise"))

	locked, err := d.Find(ctx, driver.XPath("//input[@name='locked']"))
	require.NoError(t, err)
	assert.ErrorContains(t, locked.Clear(ctx), "not interactable")

	link, err := d.Find(ctx, driver.XPath("//a"))
	require.NoError(t, err)
	assert.ErrorContains(t, link.Type(ctx, "x"), "not editable")

	assert.Contains(t, d.HTML(), `value="ada"`)
}

func TestClick(t *testing.T) {
	d := newLogin(t)
	ctx := context.Background()

	off, err := d.Find(ctx, driver.ID("off"))
	require.NoError(t, err)
	assert.ErrorContains(t, off.Click(ctx), "not interactable")

	box, err := d.Find(ctx, driver.XPath("//input[@type='checkbox']"))
	require.NoError(t, err)
	require.NoError(t, box.Click(ctx))
	_, checked, _ := box.Attribute(ctx, "checked")
	assert.True(t, checked)

	btn, err := d.Find(ctx, driver.XPath("//button[@type='submit']"))
	require.NoError(t, err)
	require.NoError(t, btn.Click(ctx))

	events := d.Events()
	require.GreaterOrEqual(t, len(events), 2)
	assert.Equal(t, Event{Kind: "click", Target: "button(Sign in)"}, events[len(events)-2])
	assert.Equal(t, Event{Kind: "submit", Target: "form#login"}, events[len(events)-1])
}

func TestSubmit(t *testing.T) {
	d := newLogin(t)
	ctx := context.Background()

	user, err := d.Find(ctx, driver.ID("user"))
	require.NoError(t, err)
	require.NoError(t, user.Submit(ctx))
	assert.Equal(t, "submit", d.Events()[len(d.Events())-1].Kind)

	link, err := d.Find(ctx, driver.XPath("//a"))
	require.NoError(t, err)
	assert.ErrorContains(t, link.Submit(ctx), "not in a form")
}

func TestWaitInteractable(t *testing.T) {
	d := newLogin(t)
	ctx := context.Background()

	user, err := d.Find(ctx, driver.ID("user"))
	require.NoError(t, err)
	assert.NoError(t, d.WaitInteractable(ctx, user))

	off, err := d.Find(ctx, driver.ID("off"))
	require.NoError(t, err)
	tctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, d.WaitInteractable(tctx, off), context.DeadlineExceeded)
}

func TestNavigate_FetchesOverHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`<html><body><h1 title="Greeting">Hi</h1></body></html>`))
	}))
	defer srv.Close()

	d := New(WithHTTPClient(srv.Client()))
	ctx := context.Background()
	require.NoError(t, d.Navigate(ctx, srv.URL))
	assert.Equal(t, srv.URL, d.URL())

	el, err := d.Find(ctx, driver.XPath("//*[@title='Greeting']"))
	require.NoError(t, err)
	text, _ := el.Text(ctx)
	assert.Equal(t, "Hi", text)

	assert.ErrorContains(t, d.Navigate(ctx, srv.URL+"/missing"), "404")
}

func TestClose(t *testing.T) {
	d := newLogin(t)
	require.NoError(t, d.Close())
	_, err := d.Find(context.Background(), driver.ID("user"))
	assert.Error(t, err)
	assert.Error(t, d.Navigate(context.Background(), "about:blank"))
}
