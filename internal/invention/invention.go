// Package invention defines an Invention — a learned abstraction body plus
// its arity — and the per-node table of best achievable costs under each
// invention reachable from that node.
package invention

import (
	"stitch/internal/dagstore"
	"stitch/internal/term"
)

// Invention is a candidate abstraction: body may reference IVar(0) through
// IVar(arity-1) and must have no free ordinary Vars to be usable as a
// standalone primitive (see Valid). Because the store is a pure hash-cons
// with no union-find, two Inventions are equal iff both fields are equal —
// there is no separate canonicalization step to run.
type Invention struct {
	Body  term.ID
	Arity int
}

// New builds an Invention from a body and the number of arguments it was
// factored out with.
func New(body term.ID, arity int) Invention {
	return Invention{Body: body, Arity: arity}
}

// Valid reports whether inv can become a usable primitive: its body must
// be closed (no free Vars reaching outside the invention) and must not be
// the bare identity hole, which every node trivially has and which would
// be a meaningless "invention."
func (inv Invention) Valid(store *dagstore.Store, identityBody term.ID) bool {
	return store.Analysis(inv.Body).FreeVars.Empty() && inv.Body != identityBody
}

// Wrapped materializes the standalone closed definition of inv: its body
// wrapped in Arity outer Lam nodes, inserted into store. The IVars inside
// are left untouched, since ordinary Lam never shifts invention holes.
func (inv Invention) Wrapped(store *dagstore.Store) term.ID {
	id := inv.Body
	for i := 0; i < inv.Arity; i++ {
		id = store.InsertLam(id)
	}
	return id
}

// BestInventions is the per-node record of the cheapest cost achievable
// when each invention reachable from that node is available as a
// primitive, plus the node's own inventionless cost as the fallback.
type BestInventions struct {
	InventionlessCost int
	costs             map[Invention]int
}

// NewBestInventions seeds an empty table with the node's inventionless
// cost.
func NewBestInventions(inventionlessCost int) *BestInventions {
	return &BestInventions{
		InventionlessCost: inventionlessCost,
		costs:             make(map[Invention]int),
	}
}

// CostUnder returns the best known cost for this node when inv is
// available, or the inventionless cost if no entry has been installed.
func (b *BestInventions) CostUnder(inv Invention) int {
	if c, ok := b.costs[inv]; ok {
		return c
	}
	return b.InventionlessCost
}

// Propose installs cost for inv if it strictly improves on both the
// inventionless cost and any cost already recorded for inv — mirroring
// the DP's "only keep strict improvements" insert rule exactly.
func (b *BestInventions) Propose(inv Invention, cost int) {
	if cost >= b.InventionlessCost {
		return
	}
	if existing, ok := b.costs[inv]; ok && cost >= existing {
		return
	}
	b.costs[inv] = cost
}

// Inventions returns every invention this node has an installed cost for.
func (b *BestInventions) Inventions() []Invention {
	out := make([]Invention, 0, len(b.costs))
	for inv := range b.costs {
		out = append(out, inv)
	}
	return out
}

// Has reports whether inv has an installed (strictly-improving) cost.
func (b *BestInventions) Has(inv Invention) bool {
	_, ok := b.costs[inv]
	return ok
}

// TopInventions returns every installed invention sorted ascending by
// cost — the cheapest invention overall is first.
func (b *BestInventions) TopInventions() []Invention {
	invs := b.Inventions()
	for i := 1; i < len(invs); i++ {
		for j := i; j > 0 && b.costs[invs[j-1]] > b.costs[invs[j]]; j-- {
			invs[j-1], invs[j] = invs[j], invs[j-1]
		}
	}
	return invs
}

// Clone returns an independent copy of b, used when duplicating the table
// of an argument that gets downshifted while bubbling past a Lam.
func (b *BestInventions) Clone() *BestInventions {
	out := &BestInventions{
		InventionlessCost: b.InventionlessCost,
		costs:             make(map[Invention]int, len(b.costs)),
	}
	for k, v := range b.costs {
		out.costs[k] = v
	}
	return out
}
