package parser

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseYAML decodes a YAML document with the same schema as the JSON format.
// Mapping order is preserved and every declaration carries its line.
func ParseYAML(source string, content []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(content, &root); err != nil {
		return nil, &FormatError{Source: source, Message: strings.TrimPrefix(err.Error(), "yaml: ")}
	}

	doc := &Document{HostPos: Pos{Path: "$.host"}}
	if root.Kind == 0 || len(root.Content) == 0 {
		return doc, nil
	}

	d := yamlDecoder{source: source}
	top := root.Content[0]
	if top.Kind != yaml.MappingNode {
		return nil, d.errorf(top, "$", "scenario must be a mapping")
	}

	for _, kv := range pairs(top) {
		key, value := kv[0].Value, kv[1]
		if isNull(value) {
			continue
		}
		var err error
		switch key {
		case "host":
			doc.HostPos = Pos{Line: value.Line, Path: "$.host"}
			doc.Host, err = d.str(value, "$.host")
		case "features":
			doc.Features, err = d.features(value)
		case "pages":
			doc.Pages, err = d.pages(value)
		}
		if err != nil {
			return nil, err
		}
	}
	return doc, nil
}

type yamlDecoder struct {
	source string
}

func (d yamlDecoder) features(n *yaml.Node) ([]FeatureDecl, error) {
	if n.Kind != yaml.MappingNode {
		return nil, d.errorf(n, "$.features", "features must be a mapping")
	}

	var out []FeatureDecl
	for _, kv := range pairs(n) {
		name := kv[0].Value
		path := fmt.Sprintf("$.features[%q]", name)
		f := FeatureDecl{Pos: Pos{Line: kv[0].Line, Path: path}, Name: name}

		body := kv[1]
		if isNull(body) {
			out = append(out, f)
			continue
		}
		if body.Kind != yaml.MappingNode {
			return nil, d.errorf(body, path, "feature %q must be a mapping", name)
		}
		for _, fkv := range pairs(body) {
			if isNull(fkv[1]) {
				continue
			}
			switch fkv[0].Value {
			case "name":
				if fkv[1].Value != name {
					return nil, d.errorf(fkv[1], path+".name", "feature name %q does not match its key %q", fkv[1].Value, name)
				}
			case "enable":
				var b bool
				if fkv[1].Kind != yaml.ScalarNode || fkv[1].Decode(&b) != nil {
					return nil, d.errorf(fkv[1], path+".enable", "enable must be a boolean")
				}
				f.Enable = &b
			case "context":
				kvs, err := d.stringMap(fkv[1], path+".context")
				if err != nil {
					return nil, err
				}
				f.Context = kvs
			}
		}
		out = append(out, f)
	}
	return out, nil
}

func (d yamlDecoder) pages(n *yaml.Node) ([]PageDecl, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, d.errorf(n, "$.pages", "pages must be a sequence")
	}

	var out []PageDecl
	for i, pn := range n.Content {
		path := fmt.Sprintf("$.pages[%d]", i)
		if pn.Kind != yaml.MappingNode {
			return nil, d.errorf(pn, path, "page must be a mapping")
		}
		p := PageDecl{Pos: Pos{Line: pn.Line, Path: path}}
		for _, kv := range pairs(pn) {
			if isNull(kv[1]) {
				continue
			}
			switch kv[0].Value {
			case "name":
				name, err := d.str(kv[1], path+".name")
				if err != nil {
					return nil, err
				}
				p.Name = *name
			case "expected":
				expected, err := d.expected(kv[1], path+".expected")
				if err != nil {
					return nil, err
				}
				p.Expected = expected
			case "action":
				a, err := d.action(kv[1], path+".action")
				if err != nil {
					return nil, err
				}
				p.Action = a
			}
		}
		out = append(out, p)
	}
	return out, nil
}

func (d yamlDecoder) expected(n *yaml.Node, path string) ([]ExpectedDecl, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, d.errorf(n, path, "expected must be a sequence")
	}

	var out []ExpectedDecl
	for i, en := range n.Content {
		epath := fmt.Sprintf("%s[%d]", path, i)
		if en.Kind != yaml.MappingNode {
			return nil, d.errorf(en, epath, "expected element must be a mapping")
		}
		e := ExpectedDecl{Pos: Pos{Line: en.Line, Path: epath}}
		var value *string
		for _, kv := range pairs(en) {
			var err error
			switch kv[0].Value {
			case "target":
				var target *string
				if target, err = d.str(kv[1], epath+".target"); err == nil {
					e.Target = *target
				}
			case "value":
				value, err = d.str(kv[1], epath+".value")
			}
			if err != nil {
				return nil, err
			}
		}
		if value == nil {
			return nil, d.errorf(en, epath, "expected element requires a value (use \"\" for blank)")
		}
		e.Value = *value
		out = append(out, e)
	}
	return out, nil
}

func (d yamlDecoder) action(n *yaml.Node, path string) (*ActionDecl, error) {
	if n.Kind != yaml.MappingNode {
		return nil, d.errorf(n, path, "action must be a mapping")
	}

	a := &ActionDecl{Pos: Pos{Line: n.Line, Path: path}}
	for _, kv := range pairs(n) {
		if isNull(kv[1]) {
			continue
		}
		var err error
		switch key := kv[0].Value; key {
		case "actionType":
			a.Type, err = d.str(kv[1], path+"."+key)
		case "target":
			a.Target, err = d.str(kv[1], path+"."+key)
		case "targetField":
			a.TargetField, err = d.str(kv[1], path+"."+key)
		case "value":
			a.Value, err = d.str(kv[1], path+"."+key)
		case "fields":
			var kvs []KeyValue
			if kvs, err = d.stringMap(kv[1], path+".fields"); err == nil {
				if kvs == nil {
					kvs = []KeyValue{}
				}
				a.Fields = kvs
			}
		}
		if err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (d yamlDecoder) stringMap(n *yaml.Node, path string) ([]KeyValue, error) {
	if n.Kind != yaml.MappingNode {
		return nil, d.errorf(n, path, "expected a mapping of string values")
	}

	var out []KeyValue
	for _, kv := range pairs(n) {
		kpath := fmt.Sprintf("%s[%q]", path, kv[0].Value)
		if kv[1].Kind != yaml.ScalarNode || isNull(kv[1]) {
			return nil, d.errorf(kv[1], kpath, "value must be a string")
		}
		out = append(out, KeyValue{Pos: Pos{Line: kv[0].Line, Path: kpath}, Key: kv[0].Value, Value: kv[1].Value})
	}
	return out, nil
}

// str accepts any scalar; YAML leaves quoting optional, so `value: 50` is the
// string "50".
func (d yamlDecoder) str(n *yaml.Node, path string) (*string, error) {
	if n.Kind != yaml.ScalarNode {
		return nil, d.errorf(n, path, "must be a string")
	}
	s := n.Value
	return &s, nil
}

func (d yamlDecoder) errorf(n *yaml.Node, path, format string, args ...any) error {
	return formatErr(d.source, Pos{Line: n.Line, Path: path}, format, args...)
}

// pairs returns the key/value node pairs of a mapping node.
func pairs(n *yaml.Node) [][2]*yaml.Node {
	out := make([][2]*yaml.Node, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		out = append(out, [2]*yaml.Node{n.Content[i], n.Content[i+1]})
	}
	return out
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null"
}
