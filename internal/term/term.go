// Package term defines the node variants of the lambda calculus this engine
// compresses: bound-variable references, invention-hole references,
// application, unary lambda, opaque primitives, and the top-level multi-root
// program container.
//
// A Node only ever refers to its children by ID — the actual subtrees live
// in a dagstore.Store. This keeps term free of any dependency on how nodes
// are stored or hash-consed, the way kanso's internal/ast keeps node shapes
// separate from how the parser assembles them.
package term

// ID is an opaque handle into whatever store produced a Node. Two
// structurally equal terms in the same store always carry the same ID.
type ID int

// Kind tags which variant a Node carries.
type Kind int

const (
	Var Kind = iota
	IVar
	App
	Lam
	Prim
	Programs
)

func (k Kind) String() string {
	switch k {
	case Var:
		return "Var"
	case IVar:
		return "IVar"
	case App:
		return "App"
	case Lam:
		return "Lam"
	case Prim:
		return "Prim"
	case Programs:
		return "Programs"
	default:
		return "Unknown"
	}
}

// Node is a single DAG node. Only the fields relevant to Kind are
// meaningful; the zero value of the others is ignored. A single tagged
// struct (rather than one type per kind) keeps hash-consing simple: a Node
// is built from already-known child IDs, never from pointers to other
// Nodes, so there is exactly one representation to canonicalize.
type Node struct {
	Kind Kind

	// Var, IVar
	Index int

	// Prim
	Sym string

	// App
	F, X ID

	// Lam
	Body ID

	// Programs
	Children []ID
}

// MakeVar builds a Var(i) node.
func MakeVar(i int) Node { return Node{Kind: Var, Index: i} }

// MakeIVar builds an IVar(i) node.
func MakeIVar(i int) Node { return Node{Kind: IVar, Index: i} }

// MakeApp builds an App(f, x) node.
func MakeApp(f, x ID) Node { return Node{Kind: App, F: f, X: x} }

// MakeLam builds a Lam(b) node.
func MakeLam(b ID) Node { return Node{Kind: Lam, Body: b} }

// MakePrim builds a Prim(sym) node.
func MakePrim(sym string) Node { return Node{Kind: Prim, Sym: sym} }

// MakePrograms builds a Programs(children) node. The slice is copied so
// callers may freely reuse their backing array.
func MakePrograms(children []ID) Node {
	cp := make([]ID, len(children))
	copy(cp, children)
	return Node{Kind: Programs, Children: cp}
}

// Key returns a canonical string uniquely identifying a Node's shape and
// child IDs, used by the hash-consing store as a map key. Two Nodes with
// equal Key are the same node and must resolve to the same ID.
func (n Node) Key() string {
	var b []byte
	b = appendInt(b, int(n.Kind))
	switch n.Kind {
	case Var, IVar:
		b = append(b, ':')
		b = appendInt(b, n.Index)
	case Prim:
		b = append(b, ':')
		b = append(b, n.Sym...)
	case App:
		b = append(b, ':')
		b = appendInt(b, int(n.F))
		b = append(b, ',')
		b = appendInt(b, int(n.X))
	case Lam:
		b = append(b, ':')
		b = appendInt(b, int(n.Body))
	case Programs:
		b = append(b, ':')
		for i, c := range n.Children {
			if i > 0 {
				b = append(b, ',')
			}
			b = appendInt(b, int(c))
		}
	}
	return string(b)
}

func appendInt(b []byte, v int) []byte {
	if v == 0 {
		return append(b, '0')
	}
	neg := v < 0
	if neg {
		v = -v
	}
	start := len(b)
	for v > 0 {
		b = append(b, byte('0'+v%10))
		v /= 10
	}
	if neg {
		b = append(b, '-')
	}
	// reverse the digits appended in this call
	for i, j := start, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return b
}
