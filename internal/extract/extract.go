// Package extract rewrites a DAG root under a chosen invention: every
// subtree whose own applam/best-invention tables show the invention as its
// cheapest option is replaced by a call to a new primitive applied to that
// applam's arguments, each of which is itself recursively extracted. This
// mirrors extract_under_inv_rec in the original implementation, with one
// simplification: since this store is a pure hash-cons with no rewriting,
// extraction just inserts fresh nodes into the same store rather than
// building up a separate output expression buffer.
package extract

import (
	"fmt"

	"stitch/internal/applam"
	"stitch/internal/dagstore"
	"stitch/internal/diag"
	"stitch/internal/invention"
	"stitch/internal/term"
)

// Extract rewrites root under inv, naming the new primitive
// replaceInvWith. applams and bestInventions are the tables a prior
// engine.RunPass produced over the same store. The returned id is always
// in store; store itself grows with whatever new App/Prim nodes the
// rewrite needs.
func Extract(
	store *dagstore.Store,
	root term.ID,
	inv invention.Invention,
	replaceInvWith string,
	applams map[term.ID][]applam.Applam,
	bestInventions map[term.ID]*invention.BestInventions,
) (term.ID, error) {
	best := bestInventions[root]
	targetCost := best.CostUnder(inv)

	if best.Has(inv) {
		if a, found := findApplam(applams[root], inv); found {
			id := store.InsertPrim(replaceInvWith)
			for i := len(a.Args) - 1; i >= 0; i-- {
				argID, err := Extract(store, a.Args[i], inv, replaceInvWith, applams, bestInventions)
				if err != nil {
					return 0, err
				}
				id = store.InsertApp(id, argID)
			}
			if got := term.Cost(store, id); got != targetCost {
				return 0, diag.NewInvariantViolation(diag.CodeInvariantCostDrift,
					fmt.Sprintf("extracted cost %d does not match tabulated cost %d at node %d", got, targetCost, root))
			}
			return id, nil
		}
	}

	node := store.Node(root)
	var id term.ID

	switch node.Kind {
	case term.Prim:
		id = store.InsertPrim(node.Sym)

	case term.Var:
		id = store.InsertVar(node.Index)

	case term.IVar:
		return 0, diag.NewInvariantViolation(diag.CodeInvariantFreeVars, "attempted to extract a bare IVar node")

	case term.App:
		fID, err := Extract(store, node.F, inv, replaceInvWith, applams, bestInventions)
		if err != nil {
			return 0, err
		}
		xID, err := Extract(store, node.X, inv, replaceInvWith, applams, bestInventions)
		if err != nil {
			return 0, err
		}
		id = store.InsertApp(fID, xID)

	case term.Lam:
		bID, err := Extract(store, node.Body, inv, replaceInvWith, applams, bestInventions)
		if err != nil {
			return 0, err
		}
		id = store.InsertLam(bID)

	case term.Programs:
		ids := make([]term.ID, len(node.Children))
		for i, c := range node.Children {
			cid, err := Extract(store, c, inv, replaceInvWith, applams, bestInventions)
			if err != nil {
				return 0, err
			}
			ids[i] = cid
		}
		id = store.InsertPrograms(ids)
	}

	if got := term.Cost(store, id); got != targetCost {
		return 0, diag.NewInvariantViolation(diag.CodeInvariantCostDrift,
			fmt.Sprintf("extracted cost %d does not match tabulated cost %d at node %d", got, targetCost, root))
	}
	return id, nil
}

func findApplam(as []applam.Applam, inv invention.Invention) (applam.Applam, bool) {
	for _, a := range as {
		if a.Inv == inv {
			return a, true
		}
	}
	return applam.Applam{}, false
}
