package expr

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

type mapScope map[string]float64

func (m mapScope) Lookup(name string) (float64, bool) {
	v, ok := m[name]
	return v, ok
}

func dipoleTable(t *testing.T) *ConstantTable {
	t.Helper()
	table, err := NewConstantTable(map[string]float64{
		"originx":  0,
		"originy":  0,
		"originz":  0,
		"length":   0.13,
		"wire_rad": 0.001,
	})
	require.NoError(t, err)
	return table
}

func TestResolve_Values(t *testing.T) {
	t.Parallel()
	table := dipoleTable(t)

	testCases := []struct {
		name string
		expr string
		want float64
	}{
		{name: "integer literal", expr: "1", want: 1},
		{name: "leading zeros", expr: "00", want: 0},
		{name: "scientific literal", expr: "-1.30e-01", want: -0.13},
		{name: "unary plus", expr: "+1.30e-01", want: 0.13},
		{name: "unary plus after operator", expr: "2*+3", want: 6},
		{name: "constant subtraction", expr: "originz - length", want: -0.13},
		{name: "constant addition", expr: "originz + length", want: 0.13},
		{name: "dash without spaces", expr: "originz-length", want: -0.13},
		{name: "dash before exponent literal", expr: "wire_rad-1e-3", want: 0},
		{name: "dash before negative exponent", expr: "length-2e-2", want: 0.11},
		{name: "dash before positive exponent", expr: "length-1e+3", want: 0.13 - 1000},
		{name: "chained dashes", expr: "length-originz-wire_rad", want: 0.129},
		{name: "dash before leading dot", expr: "length-.03", want: 0.1},
		{name: "leading dot", expr: ".5", want: 0.5},
		{name: "negated leading dot", expr: "-.5", want: -0.5},
		{name: "leading dot after operator", expr: "2*.5", want: 1},
		{name: "leading dot exponent", expr: ".5e-3", want: 0.0005},
		{name: "trailing dot", expr: "1.", want: 1},
		{name: "trailing dot before operator", expr: "1.*length", want: 0.13},
		{name: "trailing dot in call", expr: "max(2., 1)", want: 2},
		{name: "precedence", expr: "1 + 2*3", want: 7},
		{name: "parentheses", expr: "(1 + 2)*3", want: 9},
		{name: "division", expr: "wire_rad/2", want: 0.0005},
		{name: "builtin pi", expr: "2*pi", want: 2 * math.Pi},
		{name: "builtin tau", expr: "tau/2", want: math.Pi},
		{name: "sin", expr: "sin(pi/2)", want: 1},
		{name: "cos", expr: "cos(0)", want: 1},
		{name: "tan of angle", expr: "tan(50*pi/180)", want: math.Tan(50 * math.Pi / 180)},
		{name: "sqrt", expr: "sqrt(16)", want: 4},
		{name: "exp", expr: "exp(0)", want: 1},
		{name: "atan2", expr: "atan2(1, 1)", want: math.Pi / 4},
		{name: "hypot", expr: "hypot(3, 4)", want: 5},
		{name: "radians", expr: "radians(180)", want: math.Pi},
		{name: "abs from stdlib", expr: "abs(-3)", want: 3},
		{name: "pow from stdlib", expr: "pow(2, 10)", want: 1024},
		{name: "max from stdlib", expr: "max(1, 5, 3)", want: 5},
		{name: "floor from stdlib", expr: "floor(2.7)", want: 2},
		{name: "nested", expr: "(0.2*tan(pi/4) + length)*cos(0)", want: 0.33},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Resolve(tc.expr, table)
			require.NoError(t, err)
			require.InDelta(t, tc.want, got, 1e-12)
		})
	}
}

func TestResolve_BoundaryAwareNames(t *testing.T) {
	t.Parallel()

	// Only whole identifiers are substituted, so overlapping names in a
	// plain scope resolve independently.
	scope := mapScope{"offset": 1, "cone_offset": 2}

	got, err := Resolve("cone_offset*10 + offset", scope)
	require.NoError(t, err)
	require.Equal(t, 21.0, got)
}

func TestResolve_ScopeShadowsBuiltins(t *testing.T) {
	t.Parallel()

	got, err := Resolve("e + pi", mapScope{"e": 5})
	require.NoError(t, err)
	require.InDelta(t, 5+math.Pi, got, 1e-12)
}

func TestResolve_UndefinedSymbols(t *testing.T) {
	t.Parallel()

	_, err := Resolve("zeta + originx*beta", dipoleTable(t))

	var undefined *UndefinedSymbolError
	require.ErrorAs(t, err, &undefined)
	require.Equal(t, []string{"beta", "zeta"}, undefined.Names)
	require.Equal(t, "zeta + originx*beta", undefined.Expression)
}

func TestResolve_SyntaxErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		expr string
	}{
		{name: "empty", expr: ""},
		{name: "dangling operator", expr: "1 +"},
		{name: "unbalanced parenthesis", expr: "(1 + 2"},
		{name: "trailing tokens", expr: "1 2"},
		{name: "string literal", expr: `"abc"`},
		{name: "boolean literal", expr: "true"},
		{name: "modulo", expr: "7 % 2"},
		{name: "comparison", expr: "1 == 1"},
		{name: "logical not", expr: "!x"},
		{name: "conditional", expr: "x > 0 ? 1 : 2"},
		{name: "attribute access", expr: "var.x"},
		{name: "index access", expr: "x[0]"},
		{name: "tuple", expr: "[1, 2]"},
		{name: "unsupported function", expr: "upper(1)"},
		{name: "argument expansion", expr: "max(xs...)"},
		{name: "division by zero", expr: "1/0"},
		{name: "zero over zero", expr: "0/0"},
		{name: "sqrt of negative", expr: "sqrt(-1)"},
		{name: "log of zero", expr: "log(0)"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Resolve(tc.expr, mapScope{"x": 1, "xs": 1})
			var syntaxErr *SyntaxError
			require.ErrorAs(t, err, &syntaxErr, "expected SyntaxError for %q, got %v", tc.expr, err)
			require.Equal(t, tc.expr, syntaxErr.Expression)
			require.NotEmpty(t, syntaxErr.Detail)
		})
	}
}

func TestExpression_EvalIsDeterministic(t *testing.T) {
	t.Parallel()
	table := dipoleTable(t)

	e, err := Parse("(originz + length)*sin(pi/3)/wire_rad")
	require.NoError(t, err)

	first, err := e.Eval(table)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := e.Eval(table)
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}

func TestExpression_NamesAndFunctions(t *testing.T) {
	t.Parallel()

	e, err := Parse("sin(theta) * radius + cos(theta) - pi")
	require.NoError(t, err)

	require.Equal(t, "sin(theta) * radius + cos(theta) - pi", e.Source())
	require.Equal(t, []string{"pi", "radius", "theta"}, e.Names())
	require.Equal(t, []string{"cos", "sin"}, e.Functions())
}

func TestFunctionNames_IsSortedAllowList(t *testing.T) {
	t.Parallel()

	names := FunctionNames()
	require.IsIncreasing(t, names)
	require.Contains(t, names, "sin")
	require.Contains(t, names, "sqrt")
	require.NotContains(t, names, "upper")
}
