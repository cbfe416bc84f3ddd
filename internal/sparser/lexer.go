// Package sparser implements the s-expression surface syntax this engine's
// corpus files use: (app f x), (lam body), (programs p1 p2 ...), $N for a
// bound Var, #N for an invention hole, and any other atom (not starting
// with $, # or ;) for a Prim. It is a participle/v2 stateful-lexer grammar
// in the shape of the teacher compiler's grammar package; the parsed tree
// is then inserted into a dagstore.
package sparser

import (
	"github.com/alecthomas/participle/v2/lexer"
)

var stitchLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"Comment", `;[^\n]*`, nil},
		{"LParen", `\(`, nil},
		{"RParen", `\)`, nil},
		{"Var", `\$[0-9]+`, nil},
		{"IVar", `#[0-9]+`, nil},
		{"Ident", `[^\s()$#;][^\s()]*`, nil},
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})
