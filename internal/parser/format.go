package parser

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/chriserin/smartui/internal/scenario"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// FormatDSL renders a scenario in the line format. Features are written in
// name order. Values are always quoted so surrounding whitespace survives a
// round trip.
func FormatDSL(sc *scenario.Scenario) (string, error) {
	if err := dslSafeValue("host", sc.Host); err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Host: %s\n", sc.Host)

	if len(sc.Features) > 0 {
		b.WriteString("\nFeatures:\n")
		for _, name := range sc.FeatureNames() {
			f := sc.Features[name]
			if err := dslSafeKey("feature", name); err != nil {
				return "", err
			}
			fmt.Fprintf(&b, "  - %s:\n", name)
			fmt.Fprintf(&b, "    enable: %t\n", f.Enabled)
			for _, key := range sortedKeys(f.Context) {
				if err := dslSafeContextKey(key); err != nil {
					return "", err
				}
				if err := dslSafeValue("context value", f.Context[key]); err != nil {
					return "", err
				}
				fmt.Fprintf(&b, "    %s: %s\n", key, quote(f.Context[key]))
			}
		}
	}

	for _, p := range sc.Pages {
		if err := dslSafeValue("page name", p.Name); err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "\nPage %s\n", p.Name)

		if len(p.Expected) > 0 {
			b.WriteString("expected:\n")
			for _, e := range p.Expected {
				if err := dslSafeKey("expected target", e.Target); err != nil {
					return "", err
				}
				if err := dslSafeValue("expected value", e.Value); err != nil {
					return "", err
				}
				fmt.Fprintf(&b, "  - %s: %s\n", e.Target, quote(e.Value))
			}
		}

		b.WriteString("action:\n")
		if err := writeDSLAction(&b, p.Action); err != nil {
			return "", fmt.Errorf("page %q: %w", p.Name, err)
		}
	}
	return b.String(), nil
}

func writeDSLAction(b *strings.Builder, action scenario.Action) error {
	fmt.Fprintf(b, "  type: %s\n", action.Kind())
	switch a := action.(type) {
	case scenario.ClickAction:
		if err := dslSafeValue("target", a.Target); err != nil {
			return err
		}
		fmt.Fprintf(b, "  target: %s\n", quote(a.Target))
	case scenario.EnterAction:
		if err := dslSafeValue("target field", a.TargetField); err != nil {
			return err
		}
		if err := dslSafeValue("value", a.Value); err != nil {
			return err
		}
		fmt.Fprintf(b, "  target-field: %s\n", quote(a.TargetField))
		fmt.Fprintf(b, "  value: %s\n", quote(a.Value))
	case scenario.SubmitAction:
		if len(a.Fields) == 0 {
			return nil
		}
		b.WriteString("  fields:\n")
		for _, f := range a.Fields {
			if err := dslSafeKey("field", f.Name); err != nil {
				return err
			}
			if err := dslSafeValue("field value", f.Value); err != nil {
				return err
			}
			fmt.Fprintf(b, "    - %s: %s\n", f.Name, quote(f.Value))
		}
	}
	return nil
}

// quote wraps a value in double quotes without escaping; the DSL only
// strips one surrounding pair.
func quote(v string) string {
	return `"` + v + `"`
}

func dslSafeValue(what, v string) error {
	if strings.ContainsAny(v, "\r\n") {
		return fmt.Errorf("%s %q cannot be written as DSL: contains a line break", what, v)
	}
	return nil
}

func dslSafeKey(what, k string) error {
	if err := dslSafeValue(what, k); err != nil {
		return err
	}
	if strings.Contains(k, ":") || strings.TrimSpace(k) != k {
		return fmt.Errorf("%s %q cannot be written as DSL: contains a colon or surrounding space", what, k)
	}
	return nil
}

// dslSafeContextKey rejects context keys the scanner would read as a block
// keyword or a new feature.
func dslSafeContextKey(k string) error {
	if err := dslSafeKey("context key", k); err != nil {
		return err
	}
	if k == "on" || k == "Host" || k == "Features" || isPageLine(k) ||
		strings.HasPrefix(k, listItemPrefix) || strings.HasPrefix(k, commentPrefix) {
		return fmt.Errorf("context key %q cannot be written as DSL: collides with a keyword", k)
	}
	return nil
}

// FormatJSON renders a scenario in the JSON schema, indented. Map keys are
// written in name order and fields in declaration order.
func FormatJSON(sc *scenario.Scenario) ([]byte, error) {
	out := []byte(`{}`)
	var err error
	set := func(path string, value any) {
		if err == nil {
			out, err = sjson.SetBytes(out, path, value)
		}
	}
	setRaw := func(path string, raw []byte) {
		if err == nil {
			out, err = sjson.SetRawBytes(out, path, raw)
		}
	}

	set("host", sc.Host)

	features := []byte(`{}`)
	for _, name := range sc.FeatureNames() {
		f := sc.Features[name]
		obj := []byte(`{}`)
		if obj, err = sjson.SetBytes(obj, "name", f.Name); err != nil {
			return nil, err
		}
		if obj, err = sjson.SetBytes(obj, "enable", f.Enabled); err != nil {
			return nil, err
		}
		ctx, cerr := objectOf(sortedKeys(f.Context), f.Context)
		if cerr != nil {
			return nil, cerr
		}
		if obj, err = sjson.SetRawBytes(obj, "context", ctx); err != nil {
			return nil, err
		}
		if features, err = sjson.SetRawBytes(features, escapeKey(name), obj); err != nil {
			return nil, err
		}
	}
	setRaw("features", features)
	setRaw("pages", []byte(`[]`))

	for i, p := range sc.Pages {
		prefix := fmt.Sprintf("pages.%d.", i)
		set(prefix+"name", p.Name)
		setRaw(prefix+"expected", []byte(`[]`))
		for j, e := range p.Expected {
			set(fmt.Sprintf("%sexpected.%d.target", prefix, j), e.Target)
			set(fmt.Sprintf("%sexpected.%d.value", prefix, j), e.Value)
		}
		set(prefix+"action.actionType", string(p.Action.Kind()))
		switch a := p.Action.(type) {
		case scenario.ClickAction:
			set(prefix+"action.target", a.Target)
		case scenario.EnterAction:
			set(prefix+"action.targetField", a.TargetField)
			set(prefix+"action.value", a.Value)
		case scenario.SubmitAction:
			names := make([]string, 0, len(a.Fields))
			for _, f := range a.Fields {
				names = append(names, f.Name)
			}
			fields, ferr := objectOf(names, a.FieldMap())
			if ferr != nil {
				return nil, ferr
			}
			setRaw(prefix+"action.fields", fields)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("encoding scenario: %w", err)
	}
	return pretty.Pretty(out), nil
}

// objectOf builds a JSON object of string values with keys in the given
// order.
func objectOf(keys []string, values map[string]string) ([]byte, error) {
	obj := []byte(`{}`)
	var err error
	for _, k := range keys {
		if obj, err = sjson.SetBytes(obj, escapeKey(k), values[k]); err != nil {
			return nil, err
		}
	}
	return obj, nil
}

// escapeKey escapes the characters sjson treats as path syntax. An all-digit
// key gets the ':' prefix that forces an object key over an array index.
func escapeKey(k string) string {
	var b strings.Builder
	if k != "" && strings.Trim(k, "0123456789") == "" {
		b.WriteByte(':')
	}
	for _, r := range k {
		switch r {
		case '.', '*', '?', '\\', '|', '#', '@', '!', '=', '<', '>', '%', ':':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func sortedKeys(m map[string]string) []string {
	return slices.Sorted(maps.Keys(m))
}
