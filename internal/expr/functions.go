package expr

import (
	"fmt"
	"math"
	"sort"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// builtins are always in scope unless a caller's scope defines the same name.
var builtins = map[string]float64{
	"pi":  math.Pi,
	"e":   math.E,
	"tau": 2 * math.Pi,
}

// functions is the complete set of callable names. Nothing outside this map
// can be reached from an expression.
var functions = map[string]function.Function{
	"sin":     unary("sin", math.Sin),
	"cos":     unary("cos", math.Cos),
	"tan":     unary("tan", math.Tan),
	"asin":    unary("asin", math.Asin),
	"acos":    unary("acos", math.Acos),
	"atan":    unary("atan", math.Atan),
	"sinh":    unary("sinh", math.Sinh),
	"cosh":    unary("cosh", math.Cosh),
	"tanh":    unary("tanh", math.Tanh),
	"exp":     unary("exp", math.Exp),
	"log":     unary("log", math.Log),
	"log10":   unary("log10", math.Log10),
	"sqrt":    unary("sqrt", math.Sqrt),
	"radians": unary("radians", func(x float64) float64 { return x * math.Pi / 180 }),
	"degrees": unary("degrees", func(x float64) float64 { return x * 180 / math.Pi }),
	"atan2":   binary("atan2", math.Atan2),
	"hypot":   binary("hypot", math.Hypot),
	"abs":     stdlib.AbsoluteFunc,
	"ceil":    stdlib.CeilFunc,
	"floor":   stdlib.FloorFunc,
	"min":     stdlib.MinFunc,
	"max":     stdlib.MaxFunc,
	"pow":     stdlib.PowFunc,
}

// FunctionNames returns the sorted allow-list of callable functions.
func FunctionNames() []string {
	names := make([]string, 0, len(functions))
	for name := range functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func unary(name string, fn func(float64) float64) function.Function {
	return function.New(&function.Spec{
		Description: fmt.Sprintf("Returns %s(x) in double precision.", name),
		Params: []function.Parameter{
			{Name: "x", Type: cty.Number},
		},
		Type: function.StaticReturnType(cty.Number),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			x, _ := args[0].AsBigFloat().Float64()
			return finite(name, fn(x))
		},
	})
}

func binary(name string, fn func(float64, float64) float64) function.Function {
	return function.New(&function.Spec{
		Description: fmt.Sprintf("Returns %s(x, y) in double precision.", name),
		Params: []function.Parameter{
			{Name: "x", Type: cty.Number},
			{Name: "y", Type: cty.Number},
		},
		Type: function.StaticReturnType(cty.Number),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			x, _ := args[0].AsBigFloat().Float64()
			y, _ := args[1].AsBigFloat().Float64()
			return finite(name, fn(x, y))
		},
	})
}

// finite guards cty.NumberFloatVal, which cannot represent NaN.
func finite(name string, v float64) (cty.Value, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return cty.NilVal, fmt.Errorf("%s: result is not a finite number", name)
	}
	return cty.NumberFloatVal(v), nil
}
