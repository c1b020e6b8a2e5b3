// Package pymove is the repository root package: it defines the
// pipeline-stage error kinds shared across every lower package, the
// way topple's compiler/errors.go defines ScannerError/ParseError/
// ResolverError at the root of its own module for every stage to
// share.
package pymove

import "fmt"

// Location identifies a point in source for error messages, rendered
// as spec.md §7 requires: "L{line} C{column}".
type Location struct {
	Line   int
	Column int
}

func (l Location) String() string {
	return fmt.Sprintf("L%d C%d", l.Line, l.Column)
}

// SymbolNotFoundError: no top-level statement covers (line, col).
type SymbolNotFoundError struct {
	Loc Location
}

func NewSymbolNotFoundError(loc Location) *SymbolNotFoundError {
	return &SymbolNotFoundError{Loc: loc}
}

func (e *SymbolNotFoundError) Error() string {
	return fmt.Sprintf("no symbol found at %s", e.Loc)
}

// UnsupportedStatementError: point resolves to a multi-target assign,
// tuple-assign, or any other statement kind the extractor can't lift.
type UnsupportedStatementError struct {
	Loc    Location
	Reason string
}

func NewUnsupportedStatementError(loc Location, reason string) *UnsupportedStatementError {
	return &UnsupportedStatementError{Loc: loc, Reason: reason}
}

func (e *UnsupportedStatementError) Error() string {
	return fmt.Sprintf("cannot extract statement at %s: %s", e.Loc, e.Reason)
}

// UnsupportedAnnotationError: a string-typed annotation depends on a
// symbol that would need rewriting.
type UnsupportedAnnotationError struct {
	Loc  Location
	Name string
}

func NewUnsupportedAnnotationError(loc Location, name string) *UnsupportedAnnotationError {
	return &UnsupportedAnnotationError{Loc: loc, Name: name}
}

func (e *UnsupportedAnnotationError) Error() string {
	return fmt.Sprintf("string-literal annotation on %q at %s cannot be resolved", e.Name, e.Loc)
}

// ImportShapeError: a malformed qualified chain was presented to the
// Import Matcher.
type ImportShapeError struct {
	Detail string
}

func NewImportShapeError(detail string) *ImportShapeError {
	return &ImportShapeError{Detail: detail}
}

func (e *ImportShapeError) Error() string {
	return fmt.Sprintf("malformed import shape: %s", e.Detail)
}

// IOError wraps a filesystem failure with the module it touched.
type IOError struct {
	Module string
	Err    error
}

func NewIOError(module string, err error) *IOError {
	return &IOError{Module: module, Err: err}
}

func (e *IOError) Error() string {
	return fmt.Sprintf("io error on %s: %v", e.Module, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
