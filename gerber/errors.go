package gerber

import "fmt"

// ParseError reports a malformed or unreadable drawing. It is fatal: no
// geometry is produced from a drawing that fails to parse.
type ParseError struct {
	Line int // 1-based source line
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("gerber: line %d: %s", e.Line, e.Msg)
	}
	return "gerber: " + e.Msg
}

// UnsupportedPrimitiveError reports a syntactically valid construct that
// has no normalized representation in the pipeline, naming the offending
// primitive and where it appears.
type UnsupportedPrimitiveError struct {
	Line      int
	Primitive string
}

func (e *UnsupportedPrimitiveError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("gerber: line %d: unsupported primitive %s", e.Line, e.Primitive)
	}
	return "gerber: unsupported primitive " + e.Primitive
}

func parseErrf(line int, format string, args ...any) *ParseError {
	return &ParseError{Line: line, Msg: fmt.Sprintf(format, args...)}
}
