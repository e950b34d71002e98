package parser

// Document is the front-end neutral form every scenario format decodes into
// before Transform validates it. Optional values are pointers so that absent
// and empty stay distinguishable.
type Document struct {
	Host     *string
	HostPos  Pos
	Features []FeatureDecl
	Pages    []PageDecl
}

// FeatureDecl is one feature flag entry; Context keeps declaration order.
type FeatureDecl struct {
	Pos     Pos
	Name    string
	Enable  *bool
	Context []KeyValue
}

// PageDecl is one page block. Action is nil when the page declared none.
type PageDecl struct {
	Pos      Pos
	Name     string
	Expected []ExpectedDecl
	Action   *ActionDecl
}

// ExpectedDecl pairs a field or element name with the value it must show.
type ExpectedDecl struct {
	Pos    Pos
	Target string
	Value  string
}

// ActionDecl is an action as written, before its type is checked.
type ActionDecl struct {
	Pos         Pos
	Type        *string
	Target      *string
	TargetField *string
	Value       *string
	Fields      []KeyValue
}

// KeyValue is an ordered key and value pair, for feature context and
// submit fields.
type KeyValue struct {
	Pos   Pos
	Key   string
	Value string
}

// Pos locates a declaration: a 1-based line for the DSL, a JSON path for the
// structured formats (plus a line when the decoder knows it).
type Pos struct {
	Line int
	Path string
}
