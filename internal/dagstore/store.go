// Package dagstore implements the structural hash-consed node store the
// rest of the engine is built on: a single append-only table, keyed by
// node shape, so that identical subtrees across the whole corpus share one
// ID. It is the Go equivalent of running an e-graph purely as a hash-cons,
// the way the original Rust implementation used `egg` without ever
// invoking a rewrite.
package dagstore

import (
	"stitch/internal/intset"
	"stitch/internal/term"
)

// Analysis is the per-node derived data cached at insertion time: the set
// of free ordinary-variable indices, the set of free invention-hole
// indices, and the inventionless symbolic cost.
type Analysis struct {
	FreeVars  intset.Set
	FreeIVars intset.Set
	Cost      int
}

// Store is an append-only, structurally hash-consed table of term.Node.
// Every distinct node shape is stored exactly once; inserting an
// equivalent node returns the already-assigned ID. Nodes are never
// mutated or removed.
type Store struct {
	nodes    []term.Node
	analysis []Analysis
	index    map[string]term.ID
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		index: make(map[string]term.ID),
	}
}

// Node returns the node stored at id. Panics if id is out of range, which
// would indicate a bug elsewhere — ids are only ever minted by Insert.
func (s *Store) Node(id term.ID) term.Node {
	return s.nodes[id]
}

// Analysis returns the cached analysis for id.
func (s *Store) Analysis(id term.ID) Analysis {
	return s.analysis[id]
}

// Len reports how many distinct nodes the store holds.
func (s *Store) Len() int {
	return len(s.nodes)
}

// Insert hash-conses n: if an equal node already exists its ID is
// returned, otherwise n is appended, its Analysis computed from its
// (already-present) children, and the new ID returned.
func (s *Store) Insert(n term.Node) term.ID {
	key := n.Key()
	if id, ok := s.index[key]; ok {
		return id
	}
	id := term.ID(len(s.nodes))
	a := s.computeAnalysis(n)
	s.nodes = append(s.nodes, n)
	s.analysis = append(s.analysis, a)
	s.index[key] = id
	return id
}

// InsertVar hash-conses a Var(i) node.
func (s *Store) InsertVar(i int) term.ID { return s.Insert(term.MakeVar(i)) }

// InsertIVar hash-conses an IVar(i) node.
func (s *Store) InsertIVar(i int) term.ID { return s.Insert(term.MakeIVar(i)) }

// InsertApp hash-conses an App(f, x) node.
func (s *Store) InsertApp(f, x term.ID) term.ID { return s.Insert(term.MakeApp(f, x)) }

// InsertLam hash-conses a Lam(b) node.
func (s *Store) InsertLam(b term.ID) term.ID { return s.Insert(term.MakeLam(b)) }

// InsertPrim hash-conses a Prim(sym) node.
func (s *Store) InsertPrim(sym string) term.ID { return s.Insert(term.MakePrim(sym)) }

// InsertPrograms hash-conses a Programs(children) node.
func (s *Store) InsertPrograms(children []term.ID) term.ID {
	return s.Insert(term.MakePrograms(children))
}

// computeAnalysis derives Analysis for n from the already-cached Analysis
// of its children, per the rules in the data model: Var/IVar/Prim cost
// CostTerminal; App costs 1 + cost(f) + cost(x); Lam costs 1 + cost(body);
// Programs costs the sum of its children. Lam's free Vars are its body's
// free Vars shifted down past the binder it introduces; Lam never shifts
// free IVars, since ordinary lambdas don't bind invention holes.
func (s *Store) computeAnalysis(n term.Node) Analysis {
	switch n.Kind {
	case term.Var:
		return Analysis{
			FreeVars:  intset.Of(n.Index),
			FreeIVars: intset.Set{},
			Cost:      term.CostTerminal,
		}
	case term.IVar:
		return Analysis{
			FreeVars:  intset.Set{},
			FreeIVars: intset.Of(n.Index),
			Cost:      term.CostTerminal,
		}
	case term.Prim:
		return Analysis{
			FreeVars:  intset.Set{},
			FreeIVars: intset.Set{},
			Cost:      term.CostTerminal,
		}
	case term.App:
		fa, xa := s.analysis[n.F], s.analysis[n.X]
		return Analysis{
			FreeVars:  intset.Union(fa.FreeVars, xa.FreeVars),
			FreeIVars: intset.Union(fa.FreeIVars, xa.FreeIVars),
			Cost:      term.CostNonterminal + fa.Cost + xa.Cost,
		}
	case term.Lam:
		ba := s.analysis[n.Body]
		return Analysis{
			FreeVars:  intset.ShiftedDownPastBinder(ba.FreeVars),
			FreeIVars: ba.FreeIVars.Clone(),
			Cost:      term.CostNonterminal + ba.Cost,
		}
	case term.Programs:
		fv := intset.Set{}
		fiv := intset.Set{}
		cost := 0
		for _, c := range n.Children {
			ca := s.analysis[c]
			fv = intset.Union(fv, ca.FreeVars)
			fiv = intset.Union(fiv, ca.FreeIVars)
			cost += ca.Cost
		}
		return Analysis{FreeVars: fv, FreeIVars: fiv, Cost: cost}
	default:
		panic("dagstore: unknown node kind")
	}
}

// Topological returns every node transitively reachable from root, each
// appearing exactly once, with every child appearing strictly before any
// of its parents. Assumes acyclicity, which the append-only, child-first
// insertion discipline of Store guarantees.
func (s *Store) Topological(root term.ID) []term.ID {
	var order []term.ID
	seen := make(map[term.ID]bool)
	s.topoRec(root, seen, &order)
	return order
}

func (s *Store) topoRec(id term.ID, seen map[term.ID]bool, order *[]term.ID) {
	if seen[id] {
		return
	}
	n := s.nodes[id]
	for _, c := range children(n) {
		s.topoRec(c, seen, order)
	}
	if !seen[id] {
		seen[id] = true
		*order = append(*order, id)
	}
}

func children(n term.Node) []term.ID {
	switch n.Kind {
	case term.App:
		return []term.ID{n.F, n.X}
	case term.Lam:
		return []term.ID{n.Body}
	case term.Programs:
		return n.Children
	default:
		return nil
	}
}
