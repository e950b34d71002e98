// Package scenario holds the read-only model a parsed test scenario is built into.
package scenario

import "slices"

// Scenario is one complete test definition. It is built once by the parser and
// never mutated afterwards.
type Scenario struct {
	Host     string
	Features map[string]Feature
	Pages    []Page
}

// Feature is a flag to apply before the first page is visited.
type Feature struct {
	Name    string
	Enabled bool
	Context map[string]string
}

// Page is one step: assertions first, then exactly one action.
type Page struct {
	Name     string
	Expected []ExpectedElement
	Action   Action
}

// ExpectedElement asserts the live value of a field. An empty Value means the
// field must be blank.
type ExpectedElement struct {
	Target string
	Value  string
}

// FeatureNames returns the feature names in sorted order.
func (s *Scenario) FeatureNames() []string {
	names := make([]string, 0, len(s.Features))
	for name := range s.Features {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
