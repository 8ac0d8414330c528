package expr

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Scope resolves identifiers to numbers.
type Scope interface {
	Lookup(name string) (float64, bool)
}

// ValidName reports whether name can be used as a constant or variable.
func ValidName(name string) bool {
	return identPattern.MatchString(name)
}

// ConstantTable is an immutable mapping from identifier to value. No name in
// the table is a substring of another.
type ConstantTable struct {
	values map[string]float64
	names  []string
}

// NewConstantTable copies values into a new table. It fails with
// *InvalidNameError for a malformed name, *SyntaxError for a non-finite value
// and *NameCollisionError when one name contains another.
func NewConstantTable(values map[string]float64) (*ConstantTable, error) {
	names := make([]string, 0, len(values))
	copied := make(map[string]float64, len(values))
	for name, v := range values {
		if !ValidName(name) {
			return nil, &InvalidNameError{Name: name}
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, &SyntaxError{Expression: name, Detail: "constant is not a finite number"}
		}
		names = append(names, name)
		copied[name] = v
	}
	sort.Strings(names)

	for _, outer := range names {
		for _, inner := range names {
			if outer != inner && strings.Contains(outer, inner) {
				return nil, &NameCollisionError{Name: outer, Inner: inner}
			}
		}
	}

	return &ConstantTable{values: copied, names: names}, nil
}

// Lookup implements Scope. A nil table resolves nothing.
func (t *ConstantTable) Lookup(name string) (float64, bool) {
	if t == nil {
		return 0, false
	}
	v, ok := t.values[name]
	return v, ok
}

// Names returns the sorted constant names.
func (t *ConstantTable) Names() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.names...)
}

// Len returns the number of constants.
func (t *ConstantTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.names)
}
