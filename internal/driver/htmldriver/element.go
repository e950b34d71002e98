package htmldriver

import (
	"context"
	"fmt"
	"strings"

	"github.com/antchfx/htmlquery"
	"github.com/chriserin/smartui/internal/driver"
	"golang.org/x/net/html"
)

type element struct {
	d *Driver
	n *html.Node
}

func (e *element) Attribute(ctx context.Context, name string) (string, bool, error) {
	for _, a := range e.n.Attr {
		if strings.EqualFold(a.Key, name) {
			return a.Val, true, nil
		}
	}
	return "", false, nil
}

func (e *element) Text(ctx context.Context) (string, error) {
	return driver.NormalizeSpace(htmlquery.InnerText(e.n)), nil
}

func (e *element) Value(ctx context.Context) (string, error) {
	switch e.n.Data {
	case "input":
		return htmlquery.SelectAttr(e.n, "value"), nil
	case "textarea":
		return htmlquery.InnerText(e.n), nil
	case "select":
		if opt := htmlquery.FindOne(e.n, ".//option[@selected]"); opt != nil {
			return optionValue(opt), nil
		}
		if opt := htmlquery.FindOne(e.n, ".//option"); opt != nil {
			return optionValue(opt), nil
		}
		return "", nil
	}
	return e.Text(ctx)
}

func (e *element) Click(ctx context.Context) error {
	if !e.interactable() {
		return fmt.Errorf("clicking %s: element is not interactable", describe(e.n))
	}
	e.d.record("click", describe(e.n), "")

	typ := strings.ToLower(htmlquery.SelectAttr(e.n, "type"))
	switch {
	case e.n.Data == "input" && (typ == "checkbox" || typ == "radio"):
		if hasAttr(e.n, "checked") && typ == "checkbox" {
			removeAttr(e.n, "checked")
		} else {
			setAttr(e.n, "checked", "checked")
		}
	case isSubmitControl(e.n):
		if form := owningForm(e.n); form != nil {
			e.d.record("submit", describe(form), "")
		}
	}
	return nil
}

func (e *element) Clear(ctx context.Context) error {
	if err := e.editable("clearing"); err != nil {
		return err
	}
	e.setValue("")
	e.d.record("clear", describe(e.n), "")
	return nil
}

func (e *element) Type(ctx context.Context, text string) error {
	if err := e.editable("typing into"); err != nil {
		return err
	}
	if e.n.Data == "select" {
		return e.selectOption(text)
	}
	current, _ := e.Value(ctx)
	e.setValue(current + text)
	e.d.record("type", describe(e.n), text)
	return nil
}

func (e *element) Submit(ctx context.Context) error {
	form := owningForm(e.n)
	if form == nil {
		return fmt.Errorf("submitting %s: element is not in a form", describe(e.n))
	}
	e.d.record("submit", describe(form), "")
	return nil
}

func (e *element) PressEnter(ctx context.Context) error {
	if !e.interactable() {
		return fmt.Errorf("pressing enter on %s: element is not interactable", describe(e.n))
	}
	e.d.record("enter", describe(e.n), "")
	return nil
}

func (e *element) interactable() bool {
	if hasAttr(e.n, "disabled") || hasAttr(e.n, "hidden") {
		return false
	}
	if strings.EqualFold(htmlquery.SelectAttr(e.n, "type"), "hidden") {
		return false
	}
	style := strings.ReplaceAll(strings.ToLower(htmlquery.SelectAttr(e.n, "style")), " ", "")
	return !strings.Contains(style, "display:none")
}

func (e *element) editable(op string) error {
	switch e.n.Data {
	case "input", "textarea", "select":
	default:
		return fmt.Errorf("%s %s: element is not editable", op, describe(e.n))
	}
	if !e.interactable() || hasAttr(e.n, "readonly") {
		return fmt.Errorf("%s %s: element is not interactable", op, describe(e.n))
	}
	return nil
}

func (e *element) setValue(v string) {
	switch e.n.Data {
	case "textarea":
		for c := e.n.FirstChild; c != nil; {
			next := c.NextSibling
			e.n.RemoveChild(c)
			c = next
		}
		if v != "" {
			e.n.AppendChild(&html.Node{Type: html.TextNode, Data: v})
		}
	case "input":
		setAttr(e.n, "value", v)
	}
}

func (e *element) selectOption(text string) error {
	options := htmlquery.Find(e.n, ".//option")
	var match *html.Node
	for _, opt := range options {
		if optionValue(opt) == text || driver.NormalizeSpace(htmlquery.InnerText(opt)) == text {
			match = opt
			break
		}
	}
	if match == nil {
		return fmt.Errorf("selecting %q in %s: no such option", text, describe(e.n))
	}
	for _, opt := range options {
		removeAttr(opt, "selected")
	}
	setAttr(match, "selected", "selected")
	e.d.record("type", describe(e.n), text)
	return nil
}

func optionValue(opt *html.Node) string {
	if hasAttr(opt, "value") {
		return htmlquery.SelectAttr(opt, "value")
	}
	return driver.NormalizeSpace(htmlquery.InnerText(opt))
}

func isSubmitControl(n *html.Node) bool {
	typ := strings.ToLower(htmlquery.SelectAttr(n, "type"))
	switch n.Data {
	case "button":
		return typ == "" || typ == "submit"
	case "input":
		return typ == "submit" || typ == "image"
	}
	return false
}

func owningForm(n *html.Node) *html.Node {
	if id := htmlquery.SelectAttr(n, "form"); id != "" {
		root := n
		for root.Parent != nil {
			root = root.Parent
		}
		if form := htmlquery.FindOne(root, "//form[@id="+driver.Literal(id)+"]"); form != nil {
			return form
		}
	}
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && p.Data == "form" {
			return p
		}
	}
	return nil
}

// describe renders a short CSS-like name for logs and events.
func describe(n *html.Node) string {
	if id := htmlquery.SelectAttr(n, "id"); id != "" {
		return n.Data + "#" + id
	}
	if name := htmlquery.SelectAttr(n, "name"); name != "" {
		return fmt.Sprintf("%s[name=%s]", n.Data, name)
	}
	if text := driver.NormalizeSpace(htmlquery.InnerText(n)); text != "" && len(text) <= 40 {
		return fmt.Sprintf("%s(%s)", n.Data, text)
	}
	return n.Data
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return true
		}
	}
	return false
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) {
	attrs := n.Attr[:0]
	for _, a := range n.Attr {
		if !strings.EqualFold(a.Key, key) {
			attrs = append(attrs, a)
		}
	}
	n.Attr = attrs
}
