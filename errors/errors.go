// Package errors collects the fatal diagnostic kinds a compilation unit can
// raise, each carrying the source span of the offending fragment.
package errors

import (
	"fmt"

	"github.com/galluzlang/galluzc/token"
)

// ExpectedKindGotKind reports a lexer/parser mismatch against a single
// expected token kind.
type ExpectedKindGotKind struct {
	Expected token.Kind
	Got      token.Kind
	Location token.Span
}

func (e ExpectedKindGotKind) Error() string {
	return fmt.Sprintf("got a %s, expected a %s. %s", e.Got, e.Expected, e.Location)
}

// ExpectedOneOfKindGotKind reports a lexer/parser mismatch against a set of
// acceptable token kinds.
type ExpectedOneOfKindGotKind struct {
	Expected []token.Kind
	Got      token.Kind
	Location token.Span
}

func (e ExpectedOneOfKindGotKind) Error() string {
	return fmt.Sprintf("got a %s, expected one of %v. %s", e.Got, e.Expected, e.Location)
}

// SyntaxNormalization covers unbalanced parentheses, stray characters
// outside expressions, and an empty program (spec §7).
type SyntaxNormalization struct {
	Message  string
	Location token.Span
}

func (e SyntaxNormalization) Error() string {
	return fmt.Sprintf("syntax error: %s (%s)", e.Message, e.Location)
}

// DispatchFailure reports that no generator accepted an AST node.
type DispatchFailure struct {
	Head     string
	Location token.Span
}

func (e DispatchFailure) Error() string {
	return fmt.Sprintf("no generator accepts '%s' (%s)", e.Head, e.Location)
}

// ShapeError reports a form with the wrong number of children.
type ShapeError struct {
	Form     string
	Message  string
	Location token.Span
}

func (e ShapeError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.Form, e.Message, e.Location)
}

// UndefinedName reports a variable, function, struct, field, or module that
// could not be resolved.
type UndefinedName struct {
	Kind     string // "variable" | "function" | "struct" | "field" | "module"
	Name     string
	Location token.Span
}

func (e UndefinedName) Error() string {
	return fmt.Sprintf("undefined %s '%s' (%s)", e.Kind, e.Name, e.Location)
}

// TypeMismatch reports an argument, return, assignment, or field store that
// does not fit its declared type and for which no coercion applies.
type TypeMismatch struct {
	Context  string
	Expected string
	Got      string
	Location token.Span
}

func (e TypeMismatch) Error() string {
	return fmt.Sprintf("%s: expected '%s', got '%s' (%s)", e.Context, e.Expected, e.Got, e.Location)
}

// ModuleError reports a missing file, a missing requested module, a
// duplicate exported symbol, or a circular file import.
type ModuleError struct {
	Message  string
	Location token.Span
}

func (e ModuleError) Error() string {
	return fmt.Sprintf("module error: %s (%s)", e.Message, e.Location)
}

// ControlFlowMisuse reports break/continue used outside a loop.
type ControlFlowMisuse struct {
	Keyword  string
	Location token.Span
}

func (e ControlFlowMisuse) Error() string {
	return fmt.Sprintf("'%s' outside of a loop (%s)", e.Keyword, e.Location)
}

// IOShape reports a finput target that is a struct, or otherwise invalid.
type IOShape struct {
	Message  string
	Location token.Span
}

func (e IOShape) Error() string {
	return fmt.Sprintf("invalid finput shape: %s (%s)", e.Message, e.Location)
}

// ConstantRequired reports a global initializer that is not a compile-time
// constant.
type ConstantRequired struct {
	Location token.Span
}

func (e ConstantRequired) Error() string {
	return fmt.Sprintf("global initializer must be a compile-time constant (%s)", e.Location)
}
