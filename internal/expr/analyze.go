package expr

import (
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
)

var arithmetic = map[*hclsyntax.Operation]struct{}{
	hclsyntax.OpAdd:      {},
	hclsyntax.OpSubtract: {},
	hclsyntax.OpMultiply: {},
	hclsyntax.OpDivide:   {},
}

// analysis collects the identifiers and function calls of a syntax tree and
// records the first construct that falls outside the arithmetic grammar.
type analysis struct {
	names   map[string]struct{}
	funcs   map[string]struct{}
	problem string
}

func analyze(root hclsyntax.Expression) *analysis {
	a := &analysis{
		names: make(map[string]struct{}),
		funcs: make(map[string]struct{}),
	}
	a.walk(root)
	return a
}

func (a *analysis) fail(format string, args ...any) {
	if a.problem == "" {
		a.problem = fmt.Sprintf(format, args...)
	}
}

func (a *analysis) walk(expr hclsyntax.Expression) {
	if expr == nil || a.problem != "" {
		return
	}
	switch e := expr.(type) {
	case *hclsyntax.LiteralValueExpr:
		if e.Val.IsNull() || !e.Val.Type().Equals(cty.Number) {
			a.fail("only numeric literals are allowed")
		}
	case *hclsyntax.ScopeTraversalExpr:
		if len(e.Traversal) != 1 {
			a.fail("attribute and index access is not allowed on %q", e.Traversal.RootName())
			return
		}
		a.names[e.Traversal.RootName()] = struct{}{}
	case *hclsyntax.FunctionCallExpr:
		if _, ok := functions[e.Name]; !ok {
			a.fail("call to unsupported function %q", e.Name)
			return
		}
		if e.ExpandFinal {
			a.fail("argument expansion is not allowed in call to %q", e.Name)
			return
		}
		a.funcs[e.Name] = struct{}{}
		for _, arg := range e.Args {
			a.walk(arg)
		}
	case *hclsyntax.BinaryOpExpr:
		if _, ok := arithmetic[e.Op]; !ok {
			a.fail("only the operators + - * / are allowed")
			return
		}
		a.walk(e.LHS)
		a.walk(e.RHS)
	case *hclsyntax.UnaryOpExpr:
		if e.Op != hclsyntax.OpNegate {
			a.fail("only unary minus is allowed")
			return
		}
		a.walk(e.Val)
	case *hclsyntax.ParenthesesExpr:
		a.walk(e.Expression)
	default:
		a.fail("unsupported construct (%T)", expr)
	}
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
