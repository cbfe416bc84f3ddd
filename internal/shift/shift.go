// Package shift implements the pure de-Bruijn index remapping used to
// bubble abstraction boundaries through the tree: adding a constant (or a
// per-index table lookup) to every free Var or IVar reference below a call
// site, memoized per (node, depth) for one mode at a time.
package shift

import (
	"fmt"

	"stitch/internal/dagstore"
	"stitch/internal/term"
)

// Kind selects which of the three shift behaviors a Mode performs.
type Kind int

const (
	// ShiftVarKind maps every free Var(i) to Var(i+Delta).
	ShiftVarKind Kind = iota
	// ShiftIVarKind maps every free IVar(i) to IVar(i+Delta).
	ShiftIVarKind
	// TableShiftIVarKind maps every free IVar(i) to IVar(i+Table[i]).
	TableShiftIVarKind
)

// Mode names a shift operation: which indices it targets and by how much.
type Mode struct {
	Kind  Kind
	Delta int
	Table []int
}

// ShiftVar builds a mode that shifts free Vars by delta.
func ShiftVar(delta int) Mode { return Mode{Kind: ShiftVarKind, Delta: delta} }

// ShiftIVar builds a mode that shifts free IVars by delta.
func ShiftIVar(delta int) Mode { return Mode{Kind: ShiftIVarKind, Delta: delta} }

// TableShiftIVar builds a mode that shifts free IVar(i) by table[i].
func TableShiftIVar(table []int) Mode {
	cp := make([]int, len(table))
	copy(cp, table)
	return Mode{Kind: TableShiftIVarKind, Table: cp}
}

// key identifies a Mode for the purposes of cache bucketing.
func (m Mode) key() string {
	switch m.Kind {
	case ShiftVarKind:
		return fmt.Sprintf("SV:%d", m.Delta)
	case ShiftIVarKind:
		return fmt.Sprintf("SIV:%d", m.Delta)
	default:
		return fmt.Sprintf("TIV:%v", m.Table)
	}
}

type cacheKey struct {
	id    term.ID
	depth int
}

type cacheVal struct {
	id term.ID
	ok bool
}

// Cache memoizes shift results for one mode across one pass. The zero
// value is not usable; construct with newCache via a CacheGenerator.
type Cache struct {
	m map[cacheKey]cacheVal
}

func newCache() *Cache {
	return &Cache{m: make(map[cacheKey]cacheVal)}
}

// CacheGenerator owns the per-mode caches for a single core pass and hands
// out the right one for a given Mode. With enabled=false it wipes the
// bucket on every Get, trading memory for recomputation, matching the
// engine's --no-cache flag.
type CacheGenerator struct {
	enabled bool
	caches  map[string]*Cache
}

// NewCacheGenerator creates a generator. Its caches live for exactly one
// pass; there is no explicit release beyond letting it go out of scope.
func NewCacheGenerator(enabled bool) *CacheGenerator {
	return &CacheGenerator{enabled: enabled, caches: make(map[string]*Cache)}
}

// Get returns the cache bucket for mode, creating (or, if caching is
// disabled, recreating empty) it as needed.
func (g *CacheGenerator) Get(mode Mode) *Cache {
	key := mode.key()
	if !g.enabled {
		g.caches[key] = newCache()
		return g.caches[key]
	}
	if _, ok := g.caches[key]; !ok {
		g.caches[key] = newCache()
	}
	return g.caches[key]
}

// Apply rebuilds the subtree rooted at id with mode's index remapping
// applied to every free Var or IVar reference, inserting any new nodes
// into store. It returns (zero, false) if the shift would produce a
// negative index (e.g. ShiftVar(-1) hitting a free Var(0)) — the caller
// treats that as "this candidate cannot be produced" and discards it.
func Apply(store *dagstore.Store, id term.ID, mode Mode, cache *Cache) (term.ID, bool) {
	return applyRec(store, id, mode, 0, cache)
}

func applyRec(store *dagstore.Store, id term.ID, mode Mode, depth int, cache *Cache) (term.ID, bool) {
	key := cacheKey{id, depth}
	if v, ok := cache.m[key]; ok {
		return v.id, v.ok
	}

	ivars := mode.Kind != ShiftVarKind
	a := store.Analysis(id)
	if ivars {
		if a.FreeIVars.Empty() {
			cache.m[key] = cacheVal{id, true}
			return id, true
		}
	} else {
		belowDepth := true
		for i := range a.FreeVars {
			if i >= depth {
				belowDepth = false
				break
			}
		}
		if belowDepth {
			cache.m[key] = cacheVal{id, true}
			return id, true
		}
	}

	// Loop guard: if we somehow re-enter this (id, depth) while computing
	// it (there should be no cycles in an append-only store), report
	// failure rather than recursing forever.
	cache.m[key] = cacheVal{0, false}

	n := store.Node(id)
	var result term.ID
	var ok bool

	switch n.Kind {
	case term.Var:
		if ivars {
			panic("shift: unreachable, Var has no free IVars")
		}
		newIdx := n.Index + mode.Delta
		if newIdx >= 0 {
			result, ok = store.InsertVar(newIdx), true
		}
	case term.IVar:
		if !ivars {
			panic("shift: unreachable, IVar has no free Vars")
		}
		var newIdx int
		if mode.Kind == ShiftIVarKind {
			newIdx = n.Index + mode.Delta
		} else {
			newIdx = n.Index + mode.Table[n.Index]
		}
		if newIdx >= 0 {
			result, ok = store.InsertIVar(newIdx), true
		}
	case term.Prim:
		panic("shift: unreachable, Prim never has free vars/ivars")
	case term.App:
		fnew, fok := applyRec(store, n.F, mode, depth, cache)
		xnew, xok := applyRec(store, n.X, mode, depth, cache)
		if fok && xok {
			result, ok = store.InsertApp(fnew, xnew), true
		}
	case term.Lam:
		// Depth is only meaningful to the Var-shift closure; incrementing
		// it unconditionally here matches the shape of the recursion even
		// though the IVar modes never consult it.
		bnew, bok := applyRec(store, n.Body, mode, depth+1, cache)
		if bok {
			result, ok = store.InsertLam(bnew), true
		}
	case term.Programs:
		panic("shift: attempted to shift a Programs node")
	}

	cache.m[key] = cacheVal{result, ok}
	return result, ok
}
