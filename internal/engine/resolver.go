package engine

import (
	"context"
	"errors"
	"strings"

	"github.com/chriserin/smartui/internal/driver"
	"github.com/sirupsen/logrus"
)

const (
	upperAlpha = "'ABCDEFGHIJKLMNOPQRSTUVWXYZ'"
	lowerAlpha = "'abcdefghijklmnopqrstuvwxyz'"
)

// ElementResolver maps a human field name to an element on the current page.
type ElementResolver interface {
	Resolve(ctx context.Context, field string) (driver.Element, error)
	Driver() driver.Driver
}

// lookup is one resolver heuristic. A lookup that matches nothing returns
// driver.ErrNoElement.
type lookup struct {
	name string
	find func(ctx context.Context, d driver.Driver, field string) (driver.Element, error)
}

// lookups run in this order and the first match wins.
var lookups = []lookup{
	{name: "label-for", find: findByLabelFor},
	{name: "attribute", find: findByAttribute},
	{name: "adjacent-label", find: findByAdjacentLabel},
	{name: "title", find: findByTitle},
	{name: "aria-label", find: findByAriaLabel},
}

// Resolver runs the lookup chain against one driver session.
type Resolver struct {
	d   driver.Driver
	log logrus.FieldLogger
}

func NewResolver(d driver.Driver, log logrus.FieldLogger) *Resolver {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Resolver{d: d, log: log}
}

func (r *Resolver) Driver() driver.Driver { return r.d }

func (r *Resolver) Resolve(ctx context.Context, field string) (driver.Element, error) {
	el, _, err := r.Explain(ctx, field)
	return el, err
}

// Explain resolves field and also names the lookup that matched.
func (r *Resolver) Explain(ctx context.Context, field string) (driver.Element, string, error) {
	if strings.TrimSpace(field) == "" {
		return nil, "", &FieldNotFoundError{Field: field}
	}
	for _, l := range lookups {
		el, err := l.find(ctx, r.d, field)
		if errors.Is(err, driver.ErrNoElement) {
			continue
		}
		if err != nil {
			return nil, "", err
		}
		r.log.WithFields(logrus.Fields{"field": field, "lookup": l.name}).Debug("field resolved")
		return el, l.name, nil
	}
	r.log.WithField("field", field).Debug("field not found")
	return nil, "", &FieldNotFoundError{Field: field}
}

// findByLabelFor matches a label by its whole normalized text and follows
// its for attribute. A label without one falls through.
func findByLabelFor(ctx context.Context, d driver.Driver, field string) (driver.Element, error) {
	label, err := d.Find(ctx, driver.XPath("//label[normalize-space(.)="+driver.Literal(driver.NormalizeSpace(field))+"]"))
	if err != nil {
		return nil, err
	}
	forID, ok, err := label.Attribute(ctx, "for")
	if err != nil {
		return nil, err
	}
	if !ok || forID == "" {
		return nil, driver.ErrNoElement
	}
	return d.Find(ctx, driver.ID(forID))
}

// findByAttribute matches an input or textarea by exact placeholder, or by
// name or id against the lowercase, space-free form of field.
func findByAttribute(ctx context.Context, d driver.Driver, field string) (driver.Element, error) {
	placeholder := driver.Literal(field)
	key := driver.Literal(strings.ReplaceAll(strings.ToLower(field), " ", ""))

	var parts []string
	for _, tag := range []string{"input", "textarea"} {
		parts = append(parts, "//"+tag+"[@placeholder="+placeholder+"]")
	}
	for _, attr := range []string{"@name", "@id"} {
		for _, tag := range []string{"input", "textarea"} {
			parts = append(parts, "//"+tag+"[translate("+attr+", "+upperAlpha+", "+lowerAlpha+")="+key+"]")
		}
	}
	return d.Find(ctx, driver.XPath(strings.Join(parts, " | ")))
}

// findByAdjacentLabel matches a label containing field and takes the first
// input or textarea among its following siblings.
func findByAdjacentLabel(ctx context.Context, d driver.Driver, field string) (driver.Element, error) {
	label := "//label[contains(normalize-space(.), " + driver.Literal(driver.NormalizeSpace(field)) + ")]"
	return d.Find(ctx, driver.XPath(label+"/following-sibling::input[1] | "+label+"/following-sibling::textarea[1]"))
}

func findByTitle(ctx context.Context, d driver.Driver, field string) (driver.Element, error) {
	return d.Find(ctx, driver.XPath("//*[@title="+driver.Literal(field)+"]"))
}

func findByAriaLabel(ctx context.Context, d driver.Driver, field string) (driver.Element, error) {
	return d.Find(ctx, driver.XPath("//*[@aria-label="+driver.Literal(field)+"]"))
}
