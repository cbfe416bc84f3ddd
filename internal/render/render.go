// Package render emits Graphviz DOT text for a snapshot of the DAG, colored
// by node kind and with invention-body nodes picked out by a highlight set.
// Turning the DOT text into a PNG is left to an external `dot` binary — this
// package only ever writes text.
package render

import (
	"fmt"
	"io"

	"github.com/iancoleman/strcase"
	colorful "github.com/lucasb-eyer/go-colorful"

	"stitch/internal/dagstore"
	"stitch/internal/term"
)

// kindHue fixes a hue on the HSV wheel per node kind so a snapshot's shape
// is recognizable at a glance without reading labels.
var kindHue = map[term.Kind]float64{
	term.Var:      200,
	term.IVar:     260,
	term.Prim:     40,
	term.App:      0,
	term.Lam:      280,
	term.Programs: 120,
}

func fillColor(k term.Kind) string {
	hue, ok := kindHue[k]
	if !ok {
		hue = 0
	}
	return colorful.Hsv(hue, 0.45, 0.95).Hex()
}

// WriteDOT writes a `digraph` listing every node reachable from roots
// exactly once, edges labeled by argument position, with nodes in highlight
// outlined in red regardless of their kind's fill color.
func WriteDOT(w io.Writer, store *dagstore.Store, roots []term.ID, highlight map[term.ID]bool) error {
	var order []term.ID
	seen := make(map[term.ID]bool)
	for _, r := range roots {
		for _, id := range store.Topological(r) {
			if !seen[id] {
				seen[id] = true
				order = append(order, id)
			}
		}
	}

	if _, err := io.WriteString(w, "digraph stitch {\n  rankdir=BT;\n  node [style=filled, fontname=\"monospace\", shape=box];\n"); err != nil {
		return err
	}

	for _, id := range order {
		n := store.Node(id)
		attrs := fmt.Sprintf("label=%q, fillcolor=%q", nodeLabel(n), fillColor(n.Kind))
		if highlight[id] {
			attrs += `, color="red", penwidth=2`
		}
		if _, err := fmt.Fprintf(w, "  n%d [%s];\n", id, attrs); err != nil {
			return err
		}
	}

	for _, id := range order {
		n := store.Node(id)
		for pos, c := range edges(n) {
			if _, err := fmt.Fprintf(w, "  n%d -> n%d [label=%q];\n", id, c, pos); err != nil {
				return err
			}
		}
	}

	_, err := io.WriteString(w, "}\n")
	return err
}

// nodeLabel renders the node's own content (never its children): a
// primitive's symbol, run through strcase.ToSnake when it contains an
// uppercase letter so CamelCase invention names stay legible in the
// rendered graph. Symbols without uppercase letters (kebab-case ones
// included) are used as they are.
func nodeLabel(n term.Node) string {
	switch n.Kind {
	case term.Var:
		return fmt.Sprintf("$%d", n.Index)
	case term.IVar:
		return fmt.Sprintf("#%d", n.Index)
	case term.Prim:
		snake := strcase.ToSnake(n.Sym)
		if snake == n.Sym || looksSnakeAlready(n.Sym) {
			return n.Sym
		}
		return snake
	case term.App:
		return "app"
	case term.Lam:
		return "lam"
	case term.Programs:
		return "programs"
	default:
		return "?"
	}
}

func looksSnakeAlready(s string) bool {
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			return false
		}
	}
	return true
}

// edges returns n's children labeled by argument position: "f"/"x" for an
// App, "body" for a Lam, numeric index for Programs.
func edges(n term.Node) map[string]term.ID {
	switch n.Kind {
	case term.App:
		return map[string]term.ID{"f": n.F, "x": n.X}
	case term.Lam:
		return map[string]term.ID{"body": n.Body}
	case term.Programs:
		m := make(map[string]term.ID, len(n.Children))
		for i, c := range n.Children {
			m[fmt.Sprintf("%d", i)] = c
		}
		return m
	default:
		return nil
	}
}
