package term

import (
	"fmt"
	"strconv"
	"strings"
)

// Resolver looks up a Node by ID. dagstore.Store implements this; term
// itself never depends on how nodes are stored.
type Resolver interface {
	Node(id ID) Node
}

// Show pretty-prints the subtree rooted at id using the surface grammar:
// $i for Var, #i for IVar, (app f x), (lam b), bare symbols for Prim, and
// (programs c1 c2 ...) for the top-level container.
func Show(r Resolver, id ID) string {
	var b strings.Builder
	show(r, id, &b)
	return b.String()
}

func show(r Resolver, id ID, b *strings.Builder) {
	n := r.Node(id)
	switch n.Kind {
	case Var:
		b.WriteByte('$')
		b.WriteString(strconv.Itoa(n.Index))
	case IVar:
		b.WriteByte('#')
		b.WriteString(strconv.Itoa(n.Index))
	case Prim:
		b.WriteString(n.Sym)
	case App:
		b.WriteString("(app ")
		show(r, n.F, b)
		b.WriteByte(' ')
		show(r, n.X, b)
		b.WriteByte(')')
	case Lam:
		b.WriteString("(lam ")
		show(r, n.Body, b)
		b.WriteByte(')')
	case Programs:
		b.WriteString("(programs")
		for _, c := range n.Children {
			b.WriteByte(' ')
			show(r, c, b)
		}
		b.WriteByte(')')
	default:
		fmt.Fprintf(b, "<bad:%d>", n.Kind)
	}
}

// WrapLambdas wraps an already-printed body expression in `arity` outer
// (lam ...) forms, used to present an invention body as a standalone
// closed definition.
func WrapLambdas(body string, arity int) string {
	for i := 0; i < arity; i++ {
		body = "(lam " + body + ")"
	}
	return body
}
