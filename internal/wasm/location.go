package wasm

import "fmt"

// Location is a source position carried by every IR node (§3, C3).
//
// A zero-length reduction inherits the previous token's end position (§4.1);
// callers building Location spans for a multi-token construct should set
// Line/Col to the first token's start and EndCol to the last token's end
// column on that same line, per the Grammar Engine's span rule.
type Location struct {
	Line   int
	Col    int
	EndCol int
}

// String renders "line:col", matching the prefix used by FormatError.
func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Col)
}

// Span returns a Location covering from l through the end of other,
// implementing the Grammar Engine's reduction-span rule (§4.1): the first
// token's line and column, and the last token's end column.
func (l Location) Span(other Location) Location {
	return Location{Line: l.Line, Col: l.Col, EndCol: other.EndCol}
}
