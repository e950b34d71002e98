package scenario

// Kind names an action variant. The string form is the `actionType` / `type:`
// discriminator used by every scenario format.
type Kind string

const (
	KindClick  Kind = "Click"
	KindEnter  Kind = "Enter"
	KindSubmit Kind = "Submit"
)

// Kinds lists every supported action variant.
var Kinds = []Kind{KindClick, KindEnter, KindSubmit}

// ParseKind maps a discriminator to a Kind. Matching is case-sensitive.
func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// Action is the closed set of UI interactions a page can perform. Only
// ClickAction, EnterAction and SubmitAction implement it.
type Action interface {
	Kind() Kind
	isAction()
}

// ClickAction clicks the control identified by Target.
type ClickAction struct {
	Target string
}

// EnterAction types Value into TargetField. Value may be empty.
type EnterAction struct {
	TargetField string
	Value       string
}

// SubmitAction fills Fields in order and submits the owning form. With no
// fields it clicks a generic submit control instead.
type SubmitAction struct {
	Fields []Field
}

// Field is one name/value pair of a SubmitAction.
type Field struct {
	Name  string
	Value string
}

func (ClickAction) Kind() Kind  { return KindClick }
func (EnterAction) Kind() Kind  { return KindEnter }
func (SubmitAction) Kind() Kind { return KindSubmit }

func (ClickAction) isAction()  {}
func (EnterAction) isAction()  {}
func (SubmitAction) isAction() {}

// FieldMap returns the fields keyed by name.
func (a SubmitAction) FieldMap() map[string]string {
	m := make(map[string]string, len(a.Fields))
	for _, f := range a.Fields {
		m[f.Name] = f.Value
	}
	return m
}
