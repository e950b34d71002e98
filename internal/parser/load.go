package parser

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chriserin/smartui/internal/scenario"
)

// Syntax names a scenario source syntax.
type Syntax int

const (
	SyntaxAuto Syntax = iota
	SyntaxDSL
	SyntaxJSON
	SyntaxYAML
)

func (f Syntax) String() string {
	switch f {
	case SyntaxDSL:
		return "dsl"
	case SyntaxJSON:
		return "json"
	case SyntaxYAML:
		return "yaml"
	}
	return "auto"
}

// ParseSyntax maps a --format flag value to a Syntax.
func ParseSyntax(name string) (Syntax, error) {
	switch strings.ToLower(name) {
	case "", "auto":
		return SyntaxAuto, nil
	case "dsl", "txt", "scenario":
		return SyntaxDSL, nil
	case "json":
		return SyntaxJSON, nil
	case "yaml", "yml":
		return SyntaxYAML, nil
	}
	return SyntaxAuto, fmt.Errorf("unknown scenario format %q (want dsl, json or yaml)", name)
}

var extSyntaxes = map[string]Syntax{
	".json":     SyntaxJSON,
	".yaml":     SyntaxYAML,
	".yml":      SyntaxYAML,
	".txt":      SyntaxDSL,
	".scenario": SyntaxDSL,
}

// IsScenarioFile reports whether a file name carries a scenario extension.
func IsScenarioFile(name string) bool {
	_, ok := extSyntaxes[strings.ToLower(filepath.Ext(name))]
	return ok
}

// DetectSyntax picks a syntax from the file extension, falling back to
// sniffing the content: a leading '{' is JSON, anything else is the DSL.
func DetectSyntax(name string, content []byte) Syntax {
	if f, ok := extSyntaxes[strings.ToLower(filepath.Ext(name))]; ok {
		return f
	}
	if bytes.HasPrefix(bytes.TrimSpace(content), []byte("{")) {
		return SyntaxJSON
	}
	return SyntaxDSL
}

// Parse decodes and validates a scenario, detecting its format.
func Parse(name string, content []byte) (*scenario.Scenario, error) {
	return ParseAs(name, content, SyntaxAuto)
}

// ParseAs decodes and validates a scenario in the given syntax.
func ParseAs(name string, content []byte, format Syntax) (*scenario.Scenario, error) {
	if format == SyntaxAuto {
		format = DetectSyntax(name, content)
	}

	var doc *Document
	var err error
	switch format {
	case SyntaxJSON:
		doc, err = ParseJSON(name, content)
	case SyntaxYAML:
		doc, err = ParseYAML(name, content)
	default:
		doc, err = ParseDSL(name, content)
	}
	if err != nil {
		return nil, err
	}
	return Transform(name, doc)
}

// Load reads and parses a scenario file. Read failures come back as a
// *SourceError, syntax and validation failures as a *FormatError.
func Load(path string) (*scenario.Scenario, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &SourceError{Path: path, Err: err}
	}
	return Parse(path, content)
}

// LoadAs is Load with the syntax forced instead of detected.
func LoadAs(path string, syntax Syntax) (*scenario.Scenario, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &SourceError{Path: path, Err: err}
	}
	return ParseAs(path, content, syntax)
}
