package parser

import (
	"strconv"
	"strings"
)

const (
	hostPrefix        = "Host:"
	featuresKeyword   = "Features:"
	pageKeyword       = "Page"
	expectedKeyword   = "expected:"
	actionKeyword     = "action:"
	fieldsKeyword     = "fields:"
	enablePrefix      = "enable:"
	onKeyword         = "on:"
	typePrefix        = "type:"
	targetPrefix      = "target:"
	targetFieldPrefix = "target-field:"
	valuePrefix       = "value:"
	listItemPrefix    = "-"
	commentPrefix     = "//"
)

// dslState is the block the scanner is currently inside.
type dslState int

const (
	stateExpectHost dslState = iota
	stateInFeatures
	stateInPage
	stateInExpected
	stateInAction
	stateInFields
)

// dslScanner is a single-pass, forward-only state machine over trimmed lines.
// Every transition is chosen from the prefix of the current line alone.
type dslScanner struct {
	source string
	state  dslState
	doc    *Document

	sawFeatures bool
	feature     *FeatureDecl
	page        *PageDecl
}

// ParseDSL decodes the line-oriented scenario format into a Document.
// Blank lines and lines starting with // are ignored everywhere.
func ParseDSL(source string, content []byte) (*Document, error) {
	s := &dslScanner{source: source, doc: &Document{}}
	lines := strings.Split(string(content), "\n")

	for i, raw := range lines {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" || strings.HasPrefix(trimmed, commentPrefix) {
			continue
		}
		if err := s.scan(trimmed, Pos{Line: i + 1}); err != nil {
			return nil, err
		}
	}

	s.flushFeature()
	s.flushPage()
	return s.doc, nil
}

func (s *dslScanner) scan(line string, pos Pos) error {
	// Block keywords are recognized in every state.
	switch {
	case strings.HasPrefix(line, hostPrefix):
		return s.host(line, pos)
	case line == featuresKeyword:
		return s.features(pos)
	case isPageLine(line):
		return s.startPage(line, pos)
	}

	switch s.state {
	case stateInFeatures:
		return s.featureLine(line, pos)
	case stateInPage:
		return s.pageLine(line, pos)
	case stateInExpected:
		return s.expectedLine(line, pos)
	case stateInAction:
		return s.actionLine(line, pos)
	case stateInFields:
		if strings.HasPrefix(line, listItemPrefix) {
			return s.fieldLine(line, pos)
		}
		s.state = stateInAction
		return s.actionLine(line, pos)
	}
	return s.errorf(pos, "invalid line format: %s", line)
}

func (s *dslScanner) host(line string, pos Pos) error {
	if s.doc.Host != nil {
		return s.errorf(pos, "duplicate Host definition (first at line %d)", s.doc.HostPos.Line)
	}
	if len(s.doc.Pages) > 0 || s.page != nil {
		return s.errorf(pos, "Host must appear before the first Page")
	}
	host := strings.TrimSpace(strings.TrimPrefix(line, hostPrefix))
	s.doc.Host = &host
	s.doc.HostPos = pos
	return nil
}

func (s *dslScanner) features(pos Pos) error {
	if s.sawFeatures {
		return s.errorf(pos, "duplicate Features block")
	}
	if len(s.doc.Pages) > 0 || s.page != nil {
		return s.errorf(pos, "Features must appear before the first Page")
	}
	s.sawFeatures = true
	s.state = stateInFeatures
	return nil
}

func (s *dslScanner) featureLine(line string, pos Pos) error {
	if strings.HasPrefix(line, listItemPrefix) {
		name, rest, ok := splitKeyValue(strings.TrimPrefix(line, listItemPrefix))
		if !ok {
			return s.errorf(pos, "invalid feature format: %s", line)
		}
		if rest != "" {
			return s.errorf(pos, "unexpected value after feature name %q: %s", name, rest)
		}
		s.flushFeature()
		s.feature = &FeatureDecl{Pos: pos, Name: name}
		return nil
	}

	if s.feature == nil {
		return s.errorf(pos, "feature property outside a feature: %s", line)
	}

	switch {
	case line == onKeyword:
		return nil
	case strings.HasPrefix(line, enablePrefix):
		if s.feature.Enable != nil {
			return s.errorf(pos, "duplicate enable for feature %q", s.feature.Name)
		}
		raw := strings.TrimSpace(strings.TrimPrefix(line, enablePrefix))
		enable, err := strconv.ParseBool(raw)
		if err != nil {
			return s.errorf(pos, "invalid enable value for feature %q: %q", s.feature.Name, raw)
		}
		s.feature.Enable = &enable
		return nil
	}

	key, value, ok := splitKeyValue(line)
	if !ok {
		return s.errorf(pos, "invalid feature context format: %s", line)
	}
	s.feature.Context = append(s.feature.Context, KeyValue{Pos: pos, Key: key, Value: unquote(value)})
	return nil
}

func (s *dslScanner) startPage(line string, pos Pos) error {
	name := strings.TrimSpace(strings.TrimPrefix(line, pageKeyword))
	if name == "" {
		return s.errorf(pos, "page name is required")
	}
	s.flushFeature()
	s.flushPage()
	s.page = &PageDecl{Pos: pos, Name: name}
	s.state = stateInPage
	return nil
}

func (s *dslScanner) pageLine(line string, pos Pos) error {
	switch line {
	case expectedKeyword:
		s.state = stateInExpected
		return nil
	case actionKeyword:
		return s.startAction(pos)
	}
	return s.errorf(pos, "invalid line in page %q: %s", s.page.Name, line)
}

func (s *dslScanner) expectedLine(line string, pos Pos) error {
	if line == actionKeyword {
		return s.startAction(pos)
	}
	if !strings.HasPrefix(line, listItemPrefix) {
		return s.errorf(pos, "invalid line in expected block of page %q: %s", s.page.Name, line)
	}
	target, value, ok := splitKeyValue(strings.TrimPrefix(line, listItemPrefix))
	if !ok {
		return s.errorf(pos, "invalid expected element format: %s", line)
	}
	s.page.Expected = append(s.page.Expected, ExpectedDecl{Pos: pos, Target: target, Value: unquote(value)})
	return nil
}

func (s *dslScanner) startAction(pos Pos) error {
	if s.page.Action != nil {
		return s.errorf(pos, "page %q already has an action (line %d)", s.page.Name, s.page.Action.Pos.Line)
	}
	s.page.Action = &ActionDecl{Pos: pos}
	s.state = stateInAction
	return nil
}

func (s *dslScanner) actionLine(line string, pos Pos) error {
	a := s.page.Action
	if line == actionKeyword {
		return s.startAction(pos)
	}
	if line == fieldsKeyword {
		if a.Fields != nil {
			return s.errorf(pos, "duplicate fields block in page %q", s.page.Name)
		}
		a.Fields = []KeyValue{}
		s.state = stateInFields
		return nil
	}

	var slot **string
	var prefix string
	switch {
	case strings.HasPrefix(line, typePrefix):
		slot, prefix = &a.Type, typePrefix
	case strings.HasPrefix(line, targetFieldPrefix):
		slot, prefix = &a.TargetField, targetFieldPrefix
	case strings.HasPrefix(line, targetPrefix):
		slot, prefix = &a.Target, targetPrefix
	case strings.HasPrefix(line, valuePrefix):
		slot, prefix = &a.Value, valuePrefix
	default:
		return s.errorf(pos, "invalid line in action of page %q: %s", s.page.Name, line)
	}
	if *slot != nil {
		return s.errorf(pos, "duplicate %s in action of page %q", strings.TrimSuffix(prefix, ":"), s.page.Name)
	}
	v := unquote(strings.TrimSpace(strings.TrimPrefix(line, prefix)))
	*slot = &v
	return nil
}

func (s *dslScanner) fieldLine(line string, pos Pos) error {
	name, value, ok := splitKeyValue(strings.TrimPrefix(line, listItemPrefix))
	if !ok {
		return s.errorf(pos, "invalid field format: %s", line)
	}
	s.page.Action.Fields = append(s.page.Action.Fields, KeyValue{Pos: pos, Key: name, Value: unquote(value)})
	return nil
}

func (s *dslScanner) flushFeature() {
	if s.feature != nil {
		s.doc.Features = append(s.doc.Features, *s.feature)
		s.feature = nil
	}
}

func (s *dslScanner) flushPage() {
	if s.page != nil {
		s.doc.Pages = append(s.doc.Pages, *s.page)
		s.page = nil
	}
}

func (s *dslScanner) errorf(pos Pos, format string, args ...any) error {
	return formatErr(s.source, pos, format, args...)
}

func isPageLine(trimmed string) bool {
	if trimmed == pageKeyword {
		return true
	}
	rest, ok := strings.CutPrefix(trimmed, pageKeyword)
	return ok && (rest[0] == ' ' || rest[0] == '\t')
}

// splitKeyValue splits "key: value" on the first colon, so values may contain
// colons (URLs, times).
func splitKeyValue(s string) (key, value string, ok bool) {
	key, value, found := strings.Cut(s, ":")
	key = strings.TrimSpace(key)
	if !found || key == "" {
		return "", "", false
	}
	return key, strings.TrimSpace(value), true
}

func unquote(v string) string {
	if len(v) >= 2 && strings.HasPrefix(v, `"`) && strings.HasSuffix(v, `"`) {
		return v[1 : len(v)-1]
	}
	return v
}
