package parser

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// ParseJSON decodes the JSON scenario schema into a Document. Properties the
// schema does not name are ignored.
func ParseJSON(source string, content []byte) (*Document, error) {
	if !gjson.ValidBytes(content) {
		return nil, &FormatError{Source: source, Message: "malformed JSON"}
	}
	root := gjson.ParseBytes(content)
	if !root.IsObject() {
		return nil, &FormatError{Source: source, Path: "$", Message: "scenario must be a JSON object"}
	}

	d := jsonDecoder{source: source}
	doc := &Document{HostPos: Pos{Path: "$.host"}}

	host, err := d.optString(root.Get("host"), "$.host")
	if err != nil {
		return nil, err
	}
	doc.Host = host

	if doc.Features, err = d.features(root.Get("features")); err != nil {
		return nil, err
	}
	if doc.Pages, err = d.pages(root.Get("pages")); err != nil {
		return nil, err
	}
	return doc, nil
}

type jsonDecoder struct {
	source string
}

func (d jsonDecoder) features(v gjson.Result) ([]FeatureDecl, error) {
	if !present(v) {
		return nil, nil
	}
	if !v.IsObject() {
		return nil, d.errorf("$.features", "features must be an object")
	}

	var out []FeatureDecl
	var err error
	v.ForEach(func(key, value gjson.Result) bool {
		path := fmt.Sprintf("$.features[%q]", key.String())
		var f FeatureDecl
		f, err = d.feature(key.String(), value, path)
		if err != nil {
			return false
		}
		out = append(out, f)
		return true
	})
	return out, err
}

func (d jsonDecoder) feature(name string, v gjson.Result, path string) (FeatureDecl, error) {
	f := FeatureDecl{Pos: Pos{Path: path}, Name: name}
	if !v.IsObject() {
		return f, d.errorf(path, "feature %q must be an object", name)
	}

	if declared := v.Get("name"); present(declared) && declared.String() != name {
		return f, d.errorf(path+".name", "feature name %q does not match its key %q", declared.String(), name)
	}

	if enable := v.Get("enable"); present(enable) {
		if enable.Type != gjson.True && enable.Type != gjson.False {
			return f, d.errorf(path+".enable", "enable must be a boolean")
		}
		b := enable.Bool()
		f.Enable = &b
	}

	kvs, err := d.stringMap(v.Get("context"), path+".context")
	if err != nil {
		return f, err
	}
	f.Context = kvs
	return f, nil
}

func (d jsonDecoder) pages(v gjson.Result) ([]PageDecl, error) {
	if !present(v) {
		return nil, nil
	}
	if !v.IsArray() {
		return nil, d.errorf("$.pages", "pages must be an array")
	}

	var out []PageDecl
	for i, p := range v.Array() {
		page, err := d.page(p, fmt.Sprintf("$.pages[%d]", i))
		if err != nil {
			return nil, err
		}
		out = append(out, page)
	}
	return out, nil
}

func (d jsonDecoder) page(v gjson.Result, path string) (PageDecl, error) {
	p := PageDecl{Pos: Pos{Path: path}}
	if !v.IsObject() {
		return p, d.errorf(path, "page must be an object")
	}

	name, err := d.optString(v.Get("name"), path+".name")
	if err != nil {
		return p, err
	}
	if name != nil {
		p.Name = *name
	}

	if expected := v.Get("expected"); present(expected) {
		if !expected.IsArray() {
			return p, d.errorf(path+".expected", "expected must be an array")
		}
		for i, e := range expected.Array() {
			epath := fmt.Sprintf("%s.expected[%d]", path, i)
			decl, err := d.expected(e, epath)
			if err != nil {
				return p, err
			}
			p.Expected = append(p.Expected, decl)
		}
	}

	if action := v.Get("action"); present(action) {
		a, err := d.action(action, path+".action")
		if err != nil {
			return p, err
		}
		p.Action = a
	}
	return p, nil
}

func (d jsonDecoder) expected(v gjson.Result, path string) (ExpectedDecl, error) {
	e := ExpectedDecl{Pos: Pos{Path: path}}
	if !v.IsObject() {
		return e, d.errorf(path, "expected element must be an object")
	}
	target, err := d.optString(v.Get("target"), path+".target")
	if err != nil {
		return e, err
	}
	value, err := d.optString(v.Get("value"), path+".value")
	if err != nil {
		return e, err
	}
	if value == nil {
		return e, d.errorf(path, "expected element requires a value (use \"\" for blank)")
	}
	if target != nil {
		e.Target = *target
	}
	e.Value = *value
	return e, nil
}

func (d jsonDecoder) action(v gjson.Result, path string) (*ActionDecl, error) {
	if !v.IsObject() {
		return nil, d.errorf(path, "action must be an object")
	}
	a := &ActionDecl{Pos: Pos{Path: path}}

	var err error
	if a.Type, err = d.optString(v.Get("actionType"), path+".actionType"); err != nil {
		return nil, err
	}
	if a.Target, err = d.optString(v.Get("target"), path+".target"); err != nil {
		return nil, err
	}
	if a.TargetField, err = d.optString(v.Get("targetField"), path+".targetField"); err != nil {
		return nil, err
	}
	if a.Value, err = d.optString(v.Get("value"), path+".value"); err != nil {
		return nil, err
	}
	if fields := v.Get("fields"); present(fields) {
		kvs, err := d.stringMap(fields, path+".fields")
		if err != nil {
			return nil, err
		}
		if kvs == nil {
			kvs = []KeyValue{}
		}
		a.Fields = kvs
	}
	return a, nil
}

// stringMap reads an object of scalar values, preserving document order.
func (d jsonDecoder) stringMap(v gjson.Result, path string) ([]KeyValue, error) {
	if !present(v) {
		return nil, nil
	}
	if !v.IsObject() {
		return nil, d.errorf(path, "expected an object of string values")
	}

	var out []KeyValue
	var err error
	v.ForEach(func(key, value gjson.Result) bool {
		kpath := fmt.Sprintf("%s[%q]", path, key.String())
		if value.IsObject() || value.IsArray() || value.Type == gjson.Null {
			err = d.errorf(kpath, "value must be a string")
			return false
		}
		out = append(out, KeyValue{Pos: Pos{Path: kpath}, Key: key.String(), Value: value.String()})
		return true
	})
	return out, err
}

func (d jsonDecoder) optString(v gjson.Result, path string) (*string, error) {
	if !present(v) {
		return nil, nil
	}
	if v.Type != gjson.String {
		return nil, d.errorf(path, "must be a string")
	}
	s := v.String()
	return &s, nil
}

func (d jsonDecoder) errorf(path, format string, args ...any) error {
	return formatErr(d.source, Pos{Path: path}, format, args...)
}

// present treats an explicit null like an absent property.
func present(v gjson.Result) bool {
	return v.Exists() && v.Type != gjson.Null
}
