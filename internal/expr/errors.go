package expr

import (
	"fmt"
	"strings"
)

// NameCollisionError reports two constant names where one is contained in
// the other. Such tables are rejected when they are built.
type NameCollisionError struct {
	Name  string
	Inner string
}

func (e *NameCollisionError) Error() string {
	return fmt.Sprintf("constant name %q contains constant name %q", e.Name, e.Inner)
}

// InvalidNameError reports a constant or variable name that is not a plain identifier.
type InvalidNameError struct {
	Name string
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid identifier %q: must match [A-Za-z_][A-Za-z0-9_]*", e.Name)
}

// UndefinedSymbolError reports identifiers that no scope could resolve.
type UndefinedSymbolError struct {
	Expression string
	Names      []string
}

func (e *UndefinedSymbolError) Error() string {
	if e.Expression == "" {
		return fmt.Sprintf("undefined symbols: %s", strings.Join(e.Names, ", "))
	}
	return fmt.Sprintf("undefined symbols in %q: %s", e.Expression, strings.Join(e.Names, ", "))
}

// SyntaxError reports text that is not valid arithmetic, or arithmetic that
// does not produce a finite number.
type SyntaxError struct {
	Expression string
	Detail     string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid expression %q: %s", e.Expression, e.Detail)
}
