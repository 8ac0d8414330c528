package expr

import "sort"

// Batch gathers the expressions of one serialization pass so that every
// unresolved identifier can be reported at once, before anything is
// evaluated.
type Batch struct {
	expressions []*Expression
}

// NewBatch creates an empty batch.
func NewBatch() *Batch {
	return &Batch{}
}

// Add appends expressions to the batch, ignoring nils.
func (b *Batch) Add(exprs ...*Expression) {
	for _, e := range exprs {
		if e != nil {
			b.expressions = append(b.expressions, e)
		}
	}
}

// Len returns the number of expressions in the batch.
func (b *Batch) Len() int { return len(b.expressions) }

// Names returns the sorted, unique identifiers referenced anywhere in the batch.
func (b *Batch) Names() []string {
	seen := make(map[string]struct{})
	for _, e := range b.expressions {
		for _, name := range e.names {
			seen[name] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

// Functions returns the sorted, unique function names called anywhere in the batch.
func (b *Batch) Functions() []string {
	seen := make(map[string]struct{})
	for _, e := range b.expressions {
		for _, name := range e.funcs {
			seen[name] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

// Check returns an *UndefinedSymbolError naming every identifier in the batch
// that scope and the built-ins cannot resolve, or nil.
func (b *Batch) Check(scope Scope) error {
	var missing []string
	for _, name := range b.Names() {
		if _, ok := lookup(scope, name); !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return &UndefinedSymbolError{Names: missing}
}
