package parser

import (
	"strings"

	"github.com/chriserin/smartui/internal/scenario"
)

// Transform validates a Document and builds the scenario model from it. All
// front-ends share this step, so they accept and reject exactly the same
// scenarios. Absent collections become empty, never nil.
func Transform(source string, doc *Document) (*scenario.Scenario, error) {
	if doc.Host == nil || strings.TrimSpace(*doc.Host) == "" {
		pos := doc.HostPos
		if doc.Host == nil {
			pos.Line = 0
		}
		return nil, formatErr(source, pos, "missing Host definition in test scenario")
	}

	sc := &scenario.Scenario{
		Host:     strings.TrimSpace(*doc.Host),
		Features: make(map[string]scenario.Feature, len(doc.Features)),
		Pages:    make([]scenario.Page, 0, len(doc.Pages)),
	}

	for _, fd := range doc.Features {
		f, err := transformFeature(source, fd)
		if err != nil {
			return nil, err
		}
		if _, dup := sc.Features[f.Name]; dup {
			return nil, formatErr(source, fd.Pos, "duplicate feature %q", f.Name)
		}
		sc.Features[f.Name] = f
	}

	for _, pd := range doc.Pages {
		p, err := transformPage(source, pd)
		if err != nil {
			return nil, err
		}
		sc.Pages = append(sc.Pages, p)
	}
	return sc, nil
}

func transformFeature(source string, fd FeatureDecl) (scenario.Feature, error) {
	f := scenario.Feature{
		Name:    strings.TrimSpace(fd.Name),
		Context: make(map[string]string, len(fd.Context)),
	}
	if f.Name == "" {
		return f, formatErr(source, fd.Pos, "feature name is required")
	}
	if fd.Enable != nil {
		f.Enabled = *fd.Enable
	}
	for _, kv := range fd.Context {
		if kv.Key == "name" || kv.Key == "enable" {
			return f, formatErr(source, kv.Pos, "context key %q in feature %q shadows a feature property", kv.Key, f.Name)
		}
		if _, dup := f.Context[kv.Key]; dup {
			return f, formatErr(source, kv.Pos, "duplicate context key %q in feature %q", kv.Key, f.Name)
		}
		f.Context[kv.Key] = kv.Value
	}
	return f, nil
}

func transformPage(source string, pd PageDecl) (scenario.Page, error) {
	p := scenario.Page{
		Name:     strings.TrimSpace(pd.Name),
		Expected: make([]scenario.ExpectedElement, 0, len(pd.Expected)),
	}
	if p.Name == "" {
		return p, formatErr(source, pd.Pos, "page name is required")
	}

	for _, ed := range pd.Expected {
		target := strings.TrimSpace(ed.Target)
		if target == "" {
			return p, formatErr(source, ed.Pos, "expected element target is required in page %q", p.Name)
		}
		p.Expected = append(p.Expected, scenario.ExpectedElement{Target: target, Value: ed.Value})
	}

	if pd.Action == nil {
		return p, formatErr(source, pd.Pos, "page %q has no action", p.Name)
	}
	action, err := transformAction(source, p.Name, *pd.Action)
	if err != nil {
		return p, err
	}
	p.Action = action
	return p, nil
}

func transformAction(source, page string, ad ActionDecl) (scenario.Action, error) {
	if ad.Type == nil || strings.TrimSpace(*ad.Type) == "" {
		return nil, formatErr(source, ad.Pos, "action type is missing in page %q", page)
	}
	kind, ok := scenario.ParseKind(strings.TrimSpace(*ad.Type))
	if !ok {
		return nil, formatErr(source, ad.Pos, "unknown action type %q in page %q (supported: Click, Enter, Submit)", *ad.Type, page)
	}

	switch kind {
	case scenario.KindClick:
		target := trimmed(ad.Target)
		if target == "" {
			return nil, formatErr(source, ad.Pos, "Click action in page %q requires a target", page)
		}
		return scenario.ClickAction{Target: target}, nil

	case scenario.KindEnter:
		field := trimmed(ad.TargetField)
		if field == "" {
			return nil, formatErr(source, ad.Pos, "Enter action in page %q requires a target field", page)
		}
		if ad.Value == nil {
			return nil, formatErr(source, ad.Pos, "Enter action in page %q requires a value (use \"\" to type nothing)", page)
		}
		return scenario.EnterAction{TargetField: field, Value: *ad.Value}, nil

	case scenario.KindSubmit:
		fields := make([]scenario.Field, 0, len(ad.Fields))
		seen := make(map[string]bool, len(ad.Fields))
		for _, kv := range ad.Fields {
			name := strings.TrimSpace(kv.Key)
			if name == "" {
				return nil, formatErr(source, kv.Pos, "submit field name is required in page %q", page)
			}
			if seen[name] {
				return nil, formatErr(source, kv.Pos, "duplicate submit field %q in page %q", name, page)
			}
			seen[name] = true
			fields = append(fields, scenario.Field{Name: name, Value: kv.Value})
		}
		return scenario.SubmitAction{Fields: fields}, nil
	}

	return nil, formatErr(source, ad.Pos, "unsupported action type %q", kind)
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
