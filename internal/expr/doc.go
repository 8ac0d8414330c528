// Package expr resolves the symbolic arithmetic found in NEC2 card fields.
//
// Expressions are parsed with the HCL expression grammar and then restricted
// to number literals, bare identifiers, unary minus, the four binary
// arithmetic operators, parentheses and calls to an allow-listed set of math
// functions. Identifiers are resolved through a Scope, so a name is only ever
// matched as a whole token: `offset` never matches inside `cone_offset`.
package expr
