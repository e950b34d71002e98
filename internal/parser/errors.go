package parser

import (
	"fmt"
	"strings"
)

// FormatError reports a structural fault in a scenario source.
type FormatError struct {
	Source  string
	Line    int
	Path    string
	Message string
}

func (e *FormatError) Error() string {
	var b strings.Builder
	if e.Source != "" {
		b.WriteString(e.Source)
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, ":%d", e.Line)
	}
	if e.Path != "" {
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString(e.Path)
	}
	if b.Len() > 0 {
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	return b.String()
}

// SourceError reports that a scenario source could not be read at all.
// errors.Is(err, fs.ErrNotExist) distinguishes a missing file.
type SourceError struct {
	Path string
	Err  error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("reading scenario %s: %v", e.Path, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

func formatErr(source string, pos Pos, format string, args ...any) *FormatError {
	return &FormatError{
		Source:  source,
		Line:    pos.Line,
		Path:    pos.Path,
		Message: fmt.Sprintf(format, args...),
	}
}
