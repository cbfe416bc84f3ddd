// Package applam implements the candidate generation half of the "applam"
// propagation algorithm: given the applams already computed for a node's
// children, produce the valid abstraction candidates at that node by
// bubbling abstraction boundaries up through App and Lam. The child-first
// traversal that drives this, and the duplicated-argument bookkeeping it
// requires when bubbling crosses a Lam, lives in package engine — this
// package only knows how to build one node's worth of candidates from its
// children's.
package applam

import (
	"stitch/internal/dagstore"
	"stitch/internal/intset"
	"stitch/internal/invention"
	"stitch/internal/shift"
	"stitch/internal/term"
)

// Applam is a candidate factoring of a subtree into an invention applied
// to concrete arguments: the subtree equals Inv.Body with each IVar(k)
// replaced by Args[k].
type Applam struct {
	Inv  invention.Invention
	Args []term.ID
}

// New builds an Applam whose invention's arity is len(args).
func New(body term.ID, args []term.ID) Applam {
	cp := make([]term.ID, len(args))
	copy(cp, args)
	return Applam{Inv: invention.New(body, len(cp)), Args: cp}
}

// FreeVars returns the set of free Vars visible at this applam's root —
// the union of the invention body's free Vars (there should be none, for
// a valid invention) and every argument's free Vars. Bubbling must always
// preserve this set relative to the original node it came from.
func (a Applam) FreeVars(store *dagstore.Store) intset.Set {
	fv := store.Analysis(a.Inv.Body).FreeVars.Clone()
	for _, arg := range a.Args {
		fv = intset.Union(fv, store.Analysis(arg).FreeVars)
	}
	return fv
}

// Identity is the trivial applam every node is seeded with: "this whole
// subtree becomes a single argument" — invention (IVar(0), arity 1)
// applied to [self].
func Identity(ivar0, self term.ID) Applam {
	return Applam{Inv: invention.New(ivar0, 1), Args: []term.ID{self}}
}

// LeftBubble produces, for each applam of f, App(f,x) == App(applam(body,
// args), x) => applam(App(body, x), args): x is untouched because the
// holes live in body, not in x.
func LeftBubble(store *dagstore.Store, fApplams []Applam, x term.ID) []Applam {
	out := make([]Applam, 0, len(fApplams))
	for _, fa := range fApplams {
		body := store.InsertApp(fa.Inv.Body, x)
		out = append(out, New(body, fa.Args))
	}
	return out
}

// RightBubble is LeftBubble's mirror image.
func RightBubble(store *dagstore.Store, f term.ID, xApplams []Applam) []Applam {
	out := make([]Applam, 0, len(xApplams))
	for _, xa := range xApplams {
		body := store.InsertApp(f, xa.Inv.Body)
		out = append(out, New(body, xa.Args))
	}
	return out
}

// Merge combines an applam of f with an applam of x into one higher-arity
// candidate, unifying any argument that appears (by shared node-id) in
// both into a single hole. It returns (zero, false) if the merged arity
// would exceed maxArity, or if the required IVar shift of x's body fails.
//
// Unlike the two separate code paths in the original implementation (a
// flat ShiftIVar when nothing overlaps, a table-driven shift when it
// does), this builds one shift table unconditionally: when nothing
// overlaps every x-arg's table entry equals fa.Inv.Arity, which is
// exactly what a flat ShiftIVar(fa.Inv.Arity) would have produced.
func Merge(store *dagstore.Store, gen *shift.CacheGenerator, fa, xa Applam, maxArity int) (Applam, bool) {
	overlap := 0
	for _, farg := range fa.Args {
		if containsID(xa.Args, farg) {
			overlap++
		}
	}
	if fa.Inv.Arity+xa.Inv.Arity-overlap > maxArity {
		return Applam{}, false
	}

	shiftTable := make([]int, len(xa.Args))
	keep := make([]bool, len(xa.Args))
	shiftRestBy := fa.Inv.Arity
	for xi, xarg := range xa.Args {
		if fi, ok := indexOfID(fa.Args, xarg); ok {
			shiftTable[xi] = fi - xi
			keep[xi] = false
			shiftRestBy--
		} else {
			shiftTable[xi] = shiftRestBy
			keep[xi] = true
		}
	}

	mode := shift.TableShiftIVar(shiftTable)
	shiftedXBody, ok := shift.Apply(store, xa.Inv.Body, mode, gen.Get(mode))
	if !ok {
		return Applam{}, false
	}

	newArgs := make([]term.ID, 0, len(fa.Args)+len(xa.Args))
	newArgs = append(newArgs, fa.Args...)
	for xi, xarg := range xa.Args {
		if keep[xi] {
			newArgs = append(newArgs, xarg)
		}
	}

	body := store.InsertApp(fa.Inv.Body, shiftedXBody)
	return New(body, newArgs), true
}

// LambdaBubble computes, for each applam of a Lam's body, the candidate
// obtained by pushing the abstraction boundary above the Lam. An applam
// whose args include a free reference to the binder being crossed is
// dropped — bubbling it up would leave that reference dangling outside
// its binder. Every surviving argument is shifted down by one, since the
// Lam that used to sit above it now sits below it.
//
// Alongside the produced Applams, LambdaBubble returns the (new, old) id
// pairs for every shifted argument: these are subtrees that may never
// have been visited in the child-first traversal before, so the caller
// (engine.RunPass) is responsible for giving them applam and
// best-invention data equivalent to their un-shifted originals.
func LambdaBubble(store *dagstore.Store, gen *shift.CacheGenerator, bApplams []Applam) (produced []Applam, shiftedArgPairs [][2]term.ID) {
	mode := shift.ShiftVar(-1)
	cache := gen.Get(mode)

	for _, ba := range bApplams {
		blocked := false
		for _, arg := range ba.Args {
			if store.Analysis(arg).FreeVars.Has(0) {
				blocked = true
				break
			}
		}
		if blocked {
			continue
		}

		newArgs := make([]term.ID, len(ba.Args))
		ok := true
		for i, arg := range ba.Args {
			shifted, good := shift.Apply(store, arg, mode, cache)
			if !good {
				ok = false
				break
			}
			newArgs[i] = shifted
			shiftedArgPairs = append(shiftedArgPairs, [2]term.ID{shifted, arg})
		}
		if !ok {
			continue
		}

		body := store.InsertLam(ba.Inv.Body)
		produced = append(produced, New(body, newArgs))
	}
	return produced, shiftedArgPairs
}

func containsID(ids []term.ID, id term.ID) bool {
	_, ok := indexOfID(ids, id)
	return ok
}

func indexOfID(ids []term.ID, id term.ID) (int, bool) {
	for i, x := range ids {
		if x == id {
			return i, true
		}
	}
	return 0, false
}
