package term

const (
	CostTerminal    = 100
	CostNonterminal = 1
)

// Cost computes the inventionless symbolic size of the subtree rooted at
// id, independent of any dagstore.Analysis. Useful from tests and the CLI
// without requiring a full pass to have run first.
func Cost(r Resolver, id ID) int {
	memo := make(map[ID]int)
	return cost(r, id, memo)
}

func cost(r Resolver, id ID, memo map[ID]int) int {
	if v, ok := memo[id]; ok {
		return v
	}
	n := r.Node(id)
	var c int
	switch n.Kind {
	case Var, IVar, Prim:
		c = CostTerminal
	case App:
		c = CostNonterminal + cost(r, n.F, memo) + cost(r, n.X, memo)
	case Lam:
		c = CostNonterminal + cost(r, n.Body, memo)
	case Programs:
		for _, child := range n.Children {
			c += cost(r, child, memo)
		}
	}
	memo[id] = c
	return c
}

// Depth computes the original project's "program depth" metric: terminals
// have depth 1, App/Lam take 1 plus the max of their children's depth, and
// Programs takes the *minimum* depth across its roots (the shallowest
// program in the corpus), matching the Rust ProgramDepth cost function.
func Depth(r Resolver, id ID) int {
	memo := make(map[ID]int)
	return depth(r, id, memo)
}

func depth(r Resolver, id ID, memo map[ID]int) int {
	if v, ok := memo[id]; ok {
		return v
	}
	n := r.Node(id)
	var d int
	switch n.Kind {
	case Var, IVar, Prim:
		d = 1
	case App:
		fd, xd := depth(r, n.F, memo), depth(r, n.X, memo)
		if fd > xd {
			d = 1 + fd
		} else {
			d = 1 + xd
		}
	case Lam:
		d = 1 + depth(r, n.Body, memo)
	case Programs:
		for i, child := range n.Children {
			cd := depth(r, child, memo)
			if i == 0 || cd < d {
				d = cd
			}
		}
	}
	memo[id] = d
	return d
}
