package reformat

import (
	"fmt"
	"strings"

	"github.com/vk/neccard/internal/card"
	"github.com/vk/neccard/internal/expr"
)

// Variables holds the values declared by SY lines seen so far in a stream.
type Variables map[string]float64

// Lookup implements expr.Scope.
func (v Variables) Lookup(name string) (float64, bool) {
	val, ok := v[name]
	return val, ok
}

// define evaluates every assignment of an SY line, in order, and stores the
// results. Later assignments on the same line see earlier ones.
func (v Variables) define(lineNo int, text string) ([]string, error) {
	body := strings.TrimSpace(strings.TrimPrefix(text, string(card.Symbol)))
	var names []string
	for i, assignment := range splitTopLevel(body, ',') {
		name, value, ok := strings.Cut(assignment, "=")
		if !ok {
			return nil, &ExpressionError{
				Line: lineNo, Card: card.Symbol, Field: i, Text: strings.TrimSpace(assignment),
				Err: fmt.Errorf("expected <name> = <value>"),
			}
		}
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)
		if !expr.ValidName(name) {
			return nil, &ExpressionError{
				Line: lineNo, Card: card.Symbol, Field: i, Text: name,
				Err: &expr.InvalidNameError{Name: name},
			}
		}
		val, err := expr.Resolve(value, v)
		if err != nil {
			return nil, &ExpressionError{Line: lineNo, Card: card.Symbol, Field: i, Text: value, Err: err}
		}
		v[name] = val
		names = append(names, name)
	}
	return names, nil
}

// splitTopLevel splits s on sep where sep is not nested inside parentheses.
func splitTopLevel(s string, sep rune) []string {
	var parts []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case sep:
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + len(string(sep))
			}
		}
	}
	return append(parts, s[start:])
}
