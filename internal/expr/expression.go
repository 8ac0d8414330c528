package expr

import (
	"bytes"
	"math"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
)

const filename = "<expression>"

// Expression is a parsed, validated arithmetic expression. It is immutable
// and may be evaluated any number of times against different scopes.
type Expression struct {
	source string
	syntax hclsyntax.Expression
	names  []string
	funcs  []string
}

// Parse validates source against the arithmetic grammar. It fails with
// *SyntaxError.
func Parse(source string) (*Expression, error) {
	text, diags := normalize([]byte(source))
	if diags.HasErrors() {
		return nil, diagError(source, diags)
	}

	syntax, diags := hclsyntax.ParseExpression(text, filename, hcl.InitialPos)
	if diags.HasErrors() {
		return nil, diagError(source, diags)
	}

	a := analyze(syntax)
	if a.problem != "" {
		return nil, &SyntaxError{Expression: source, Detail: a.problem}
	}

	return &Expression{
		source: source,
		syntax: syntax,
		names:  sortedKeys(a.names),
		funcs:  sortedKeys(a.funcs),
	}, nil
}

// Resolve parses source and evaluates it against scope.
func Resolve(source string, scope Scope) (float64, error) {
	e, err := Parse(source)
	if err != nil {
		return 0, err
	}
	return e.Eval(scope)
}

// Source returns the text the expression was parsed from.
func (e *Expression) Source() string { return e.source }

// Names returns the sorted identifiers referenced by the expression.
func (e *Expression) Names() []string { return append([]string(nil), e.names...) }

// Functions returns the sorted function names called by the expression.
func (e *Expression) Functions() []string { return append([]string(nil), e.funcs...) }

// Eval evaluates the expression. Identifiers are looked up in scope first and
// then among the built-in constants.
func (e *Expression) Eval(scope Scope) (float64, error) {
	vars := make(map[string]cty.Value, len(e.names))
	var missing []string
	for _, name := range e.names {
		v, ok := lookup(scope, name)
		if !ok {
			missing = append(missing, name)
			continue
		}
		vars[name] = cty.NumberFloatVal(v)
	}
	if len(missing) > 0 {
		return 0, &UndefinedSymbolError{Expression: e.source, Names: missing}
	}

	val, diags := e.syntax.Value(&hcl.EvalContext{
		Variables: vars,
		Functions: functions,
	})
	if diags.HasErrors() {
		return 0, diagError(e.source, diags)
	}
	if val.IsNull() || !val.IsKnown() || !val.Type().Equals(cty.Number) {
		return 0, &SyntaxError{Expression: e.source, Detail: "expression did not produce a number"}
	}

	f, _ := val.AsBigFloat().Float64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, &SyntaxError{Expression: e.source, Detail: "result is not a finite number"}
	}
	return f, nil
}

func lookup(scope Scope, name string) (float64, bool) {
	if scope != nil {
		if v, ok := scope.Lookup(name); ok {
			return v, true
		}
	}
	v, ok := builtins[name]
	return v, ok
}

// normalize rewrites the spellings HCL reads differently from plain
// arithmetic: a unary plus is dropped, ".5" and "1." become "0.5" and "1",
// and an identifier token containing a dash (HCL allows those) is split back
// into a subtraction.
func normalize(src []byte) ([]byte, hcl.Diagnostics) {
	var out bytes.Buffer
	if diags := normalizeInto(&out, src, 0); diags.HasErrors() {
		return nil, diags
	}
	return out.Bytes(), nil
}

// normalizeInto writes the normalized form of src to out. prev is the token
// type that preceded src.
func normalizeInto(out *bytes.Buffer, src []byte, prev hclsyntax.TokenType) hcl.Diagnostics {
	tokens, diags := hclsyntax.LexExpression(src, filename, hcl.InitialPos)
	if diags.HasErrors() {
		return diags
	}

	pos := 0
	for i, tok := range tokens {
		if tok.Type == hclsyntax.TokenEOF {
			break
		}
		out.Write(src[pos:tok.Range.Start.Byte])
		pos = tok.Range.End.Byte

		switch {
		case tok.Type == hclsyntax.TokenPlus && unaryPosition(prev):
			out.WriteByte(' ')
		case tok.Type == hclsyntax.TokenIdent && bytes.ContainsRune(tok.Bytes, '-'):
			// Only the first dash is known to be a minus. What follows is
			// lexed again, so "x-1e-3" keeps 1e-3 as one number.
			head, _, _ := bytes.Cut(tok.Bytes, []byte("-"))
			out.Write(head)
			out.WriteString(" - ")
			rest := tok.Range.Start.Byte + len(head) + 1
			return normalizeInto(out, src[rest:], hclsyntax.TokenMinus)
		case tok.Type == hclsyntax.TokenDot && unaryPosition(prev) && adjacent(tok, tokens[i+1], hclsyntax.TokenNumberLit):
			out.WriteString("0.")
		case tok.Type == hclsyntax.TokenDot && i > 0 && adjacent(tokens[i-1], tok, hclsyntax.TokenDot) &&
			tokens[i-1].Type == hclsyntax.TokenNumberLit && !continues(tok, tokens[i+1]):
			// Trailing dot of a number such as "1.".
		default:
			out.Write(tok.Bytes)
		}
		prev = tok.Type
	}
	out.Write(src[pos:])
	return nil
}

// adjacent reports whether next starts where tok ends and has type want.
func adjacent(tok, next hclsyntax.Token, want hclsyntax.TokenType) bool {
	return next.Type == want && next.Range.Start.Byte == tok.Range.End.Byte
}

// continues reports whether next is a name or number glued to tok.
func continues(tok, next hclsyntax.Token) bool {
	return adjacent(tok, next, hclsyntax.TokenIdent) || adjacent(tok, next, hclsyntax.TokenNumberLit)
}

// unaryPosition reports whether an operator following prev is a prefix operator.
func unaryPosition(prev hclsyntax.TokenType) bool {
	switch prev {
	case 0,
		hclsyntax.TokenPlus, hclsyntax.TokenMinus,
		hclsyntax.TokenStar, hclsyntax.TokenSlash, hclsyntax.TokenPercent,
		hclsyntax.TokenOParen, hclsyntax.TokenComma:
		return true
	}
	return false
}

func diagError(source string, diags hcl.Diagnostics) error {
	var parts []string
	for _, d := range diags.Errs() {
		if hd, ok := d.(*hcl.Diagnostic); ok {
			msg := hd.Summary
			if hd.Detail != "" {
				msg += ": " + hd.Detail
			}
			parts = append(parts, msg)
			continue
		}
		parts = append(parts, d.Error())
	}
	return &SyntaxError{Expression: source, Detail: strings.Join(parts, "; ")}
}
