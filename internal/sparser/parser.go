package sparser

import (
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"

	"stitch/internal/dagstore"
	"stitch/internal/diag"
	"stitch/internal/term"
)

var parser = participle.MustBuild[SExpr](
	participle.Lexer(stitchLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(2),
)

// ParseSource parses src (one s-expression) into participle's SExpr tree
// and then inserts that tree into store, hash-consing every node on the
// way. name is used only to label diagnostics.
func ParseSource(store *dagstore.Store, name, src string) (term.ID, error) {
	expr, err := parser.ParseString(name, src)
	if err != nil {
		return 0, toParseError(src, err)
	}
	return insert(store, expr)
}

func insert(store *dagstore.Store, e *SExpr) (term.ID, error) {
	switch {
	case e.App != nil:
		f, err := insert(store, e.App.F)
		if err != nil {
			return 0, err
		}
		x, err := insert(store, e.App.X)
		if err != nil {
			return 0, err
		}
		return store.InsertApp(f, x), nil

	case e.Lam != nil:
		b, err := insert(store, e.Lam.Body)
		if err != nil {
			return 0, err
		}
		return store.InsertLam(b), nil

	case e.Programs != nil:
		ids := make([]term.ID, len(e.Programs.Roots))
		for i, r := range e.Programs.Roots {
			id, err := insert(store, r)
			if err != nil {
				return 0, err
			}
			ids[i] = id
		}
		return store.InsertPrograms(ids), nil

	case e.Var != "":
		i, err := strconv.Atoi(strings.TrimPrefix(e.Var, "$"))
		if err != nil {
			return 0, diag.NewParseError(diag.CodeParseIndex, "malformed Var index "+e.Var, diag.Position{})
		}
		return store.InsertVar(i), nil

	case e.IVar != "":
		i, err := strconv.Atoi(strings.TrimPrefix(e.IVar, "#"))
		if err != nil {
			return 0, diag.NewParseError(diag.CodeParseIndex, "malformed IVar index "+e.IVar, diag.Position{})
		}
		return store.InsertIVar(i), nil

	case e.Prim != "":
		return store.InsertPrim(e.Prim), nil

	default:
		return 0, diag.NewParseError(diag.CodeParseSyntax, "empty s-expression", diag.Position{})
	}
}

func toParseError(src string, err error) error {
	pe, ok := err.(participle.Error)
	if !ok {
		return diag.NewParseError(diag.CodeParseSyntax, err.Error(), diag.Position{})
	}
	pos := pe.Position()
	return diag.NewParseError(diag.CodeParseSyntax, pe.Message(), diag.Position{Line: pos.Line, Column: pos.Column})
}
