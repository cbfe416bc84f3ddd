// Package engine runs one child-first pass over a topologically sorted DAG,
// combining applam candidate generation (package applam) with the
// best-invention dynamic-programming table (package invention) exactly as
// the two interleave in the original run_inversions: candidates at a node
// are generated from its children's candidates, then scored immediately
// using its children's best-invention tables, before moving to the next
// node.
package engine

import (
	"stitch/internal/applam"
	"stitch/internal/dagstore"
	"stitch/internal/diag"
	"stitch/internal/invention"
	"stitch/internal/shift"
	"stitch/internal/term"
)

// Result is the pass's output: every node's applam candidates and its
// best-invention table, keyed by node id. Both maps are total over the
// node ids reachable from the pass's topological order, plus any
// downshifted argument ids manufactured while bubbling past a Lam.
type Result struct {
	Applams        map[term.ID][]applam.Applam
	BestInventions map[term.ID]*invention.BestInventions
}

// RunPass processes order (assumed child-before-parent) and returns the
// applam/best-invention tables for every node it touched. An error return
// always indicates a broken invariant, never a normal "nothing found"
// outcome — the caller checks the root's BestInventions.Inventions() for
// that.
func RunPass(store *dagstore.Store, order []term.ID, maxArity int, gen *shift.CacheGenerator) (*Result, error) {
	res := &Result{
		Applams:        make(map[term.ID][]applam.Applam, len(order)),
		BestInventions: make(map[term.ID]*invention.BestInventions, len(order)),
	}

	ivar0 := store.InsertIVar(0)

	for _, id := range order {
		node := store.Node(id)

		candidates := []applam.Applam{applam.Identity(ivar0, id)}

		switch node.Kind {
		case term.IVar:
			return nil, diag.NewInvariantViolation(diag.CodeInvariantFreeVars, "attempted to abstract an IVar node")

		case term.Var, term.Prim, term.Programs:
			// identity is the only candidate at a leaf or a Programs root

		case term.App:
			fApplams := res.Applams[node.F]
			xApplams := res.Applams[node.X]

			candidates = append(candidates, applam.LeftBubble(store, fApplams, node.X)...)
			candidates = append(candidates, applam.RightBubble(store, node.F, xApplams)...)

			for _, fa := range fApplams {
				for _, xa := range xApplams {
					if merged, ok := applam.Merge(store, gen, fa, xa, maxArity); ok {
						candidates = append(candidates, merged)
					}
				}
			}

		case term.Lam:
			bApplams := res.Applams[node.Body]
			produced, shiftedPairs := applam.LambdaBubble(store, gen, bApplams)
			candidates = append(candidates, produced...)

			for _, pair := range shiftedPairs {
				if err := propagateDownshifted(store, gen, res, pair[0], pair[1]); err != nil {
					return nil, err
				}
			}
		}

		for _, c := range candidates {
			if got := c.FreeVars(store); !got.Equal(store.Analysis(id).FreeVars) {
				return nil, diag.NewInvariantViolation(diag.CodeInvariantFreeVars,
					"applam bubbling changed the free-var set at a node")
			}
		}

		best := scoreNode(store, node, id, candidates, res)

		res.Applams[id] = candidates
		res.BestInventions[id] = best
	}

	return res, nil
}

// scoreNode fills in a fresh BestInventions for id: first by treating every
// valid candidate applam as a call to a new invention, then by propagating
// whatever inventions already helped this node's children.
func scoreNode(store *dagstore.Store, node term.Node, id term.ID, candidates []applam.Applam, res *Result) *invention.BestInventions {
	ivar0 := store.InsertIVar(0)
	best := invention.NewBestInventions(store.Analysis(id).Cost)

	for _, c := range candidates {
		if !c.Inv.Valid(store, ivar0) {
			continue
		}
		cost := term.CostTerminal + term.CostNonterminal*c.Inv.Arity
		for _, arg := range c.Args {
			cost += res.BestInventions[arg].CostUnder(c.Inv)
		}
		best.Propose(c.Inv, cost)
	}

	switch node.Kind {
	case term.App:
		fBest := res.BestInventions[node.F]
		xBest := res.BestInventions[node.X]
		for _, inv := range unionInventions(fBest, xBest) {
			best.Propose(inv, term.CostNonterminal+fBest.CostUnder(inv)+xBest.CostUnder(inv))
		}

	case term.Lam:
		bBest := res.BestInventions[node.Body]
		for _, inv := range bBest.Inventions() {
			best.Propose(inv, bBest.CostUnder(inv)+term.CostNonterminal)
		}

	case term.Programs:
		counts := make(map[invention.Invention]int)
		for _, child := range node.Children {
			for _, inv := range res.BestInventions[child].Inventions() {
				counts[inv]++
			}
		}
		// only inventions shared by 2+ programs are worth naming — one that
		// only helps a single program is just that program in disguise.
		for inv, n := range counts {
			if n < 2 {
				continue
			}
			sum := 0
			for _, child := range node.Children {
				sum += res.BestInventions[child].CostUnder(inv)
			}
			best.Propose(inv, sum)
		}
	}

	return best
}

func unionInventions(a, b *invention.BestInventions) []invention.Invention {
	seen := make(map[invention.Invention]struct{})
	var out []invention.Invention
	for _, inv := range a.Inventions() {
		if _, ok := seen[inv]; !ok {
			seen[inv] = struct{}{}
			out = append(out, inv)
		}
	}
	for _, inv := range b.Inventions() {
		if _, ok := seen[inv]; !ok {
			seen[inv] = struct{}{}
			out = append(out, inv)
		}
	}
	return out
}

// propagateDownshifted gives a freshly-minted downshifted argument id the
// same applam/best-invention data as the original it was shifted from,
// recursively downshifting that original's own args in turn. Arguments
// strictly shrink on each recursive step, so this always terminates.
func propagateDownshifted(store *dagstore.Store, gen *shift.CacheGenerator, res *Result, newArg, oldArg term.ID) error {
	type pending struct{ new, old term.ID }
	stack := []pending{{newArg, oldArg}}

	mode := shift.ShiftVar(-1)
	cache := gen.Get(mode)

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, ok := res.BestInventions[p.new]; ok {
			continue
		}

		res.BestInventions[p.new] = res.BestInventions[p.old].Clone()

		oldApplams := res.Applams[p.old]
		newApplams := make([]applam.Applam, len(oldApplams))
		for i, a := range oldApplams {
			newArgs := make([]term.ID, len(a.Args))
			for j, arg := range a.Args {
				shifted, ok := shift.Apply(store, arg, mode, cache)
				if !ok {
					return diag.NewInvariantViolation(diag.CodeInvariantFreeVars,
						"downshifting an applam argument below a crossed Lam failed")
				}
				newArgs[j] = shifted
				stack = append(stack, pending{shifted, arg})
			}
			newApplams[i] = applam.New(a.Inv.Body, newArgs)
		}
		res.Applams[p.new] = newApplams
	}

	return nil
}
