// Package compress drives the iteration loop: parse a corpus, run one
// engine pass per iteration, extract under the cheapest invention found,
// and repeat until a pass turns up nothing — mirroring compression() and
// run_compression_step() in the original implementation. The algorithmic
// work all lives in packages applam/invention/engine/extract; this package
// only sequences, names, and reports.
package compress

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stitch/internal/dagstore"
	"stitch/internal/diag"
	"stitch/internal/engine"
	"stitch/internal/extract"
	"stitch/internal/invention"
	"stitch/internal/shift"
	"stitch/internal/sparser"
	"stitch/internal/term"
)

// ErrNoInvention is a normal, non-fatal sentinel signaling that a pass found
// no invention cheaper than leaving the corpus alone. It ends the driver
// loop but is never returned from Run itself — running out of inventions is
// the ordinary way compression terminates, not a failure.
var ErrNoInvention = errors.New("compress: no invention improves the corpus")

// Config holds the CLI-tunable knobs for a compression run.
type Config struct {
	Iterations      int
	MaxArity        int
	NoCache         bool
	PrintInventions int
}

// InventionDef is one discovered invention, named and wrapped as a
// standalone closed definition ready to print or render.
type InventionDef struct {
	Name          string
	Invention     invention.Invention
	Definition    term.ID // Invention.Body wrapped in Arity outer Lams
	DefinitionStr string
	Cost          int // cost of Definition itself
	RewrittenCost int // cost of the whole corpus immediately after this invention was applied
}

// IterationReport summarizes one pass of the driver loop, whether or not
// it found anything.
type IterationReport struct {
	Index           int
	CandidatesFound int
	CoreMillis      int64
	Chosen          *InventionDef
}

// Result is everything compress.Run produced: the ordered inventions, the
// final rewritten corpus, and a per-iteration trace for reporting.
type Result struct {
	Store        *dagstore.Store
	Inventions   []InventionDef
	FinalProgram term.ID
	Reports      []IterationReport
}

// Run parses programs into a fresh store, preflight-checks them, then
// iterates the engine pass up to cfg.Iterations times, stopping early the
// first time a pass finds no invention.
func Run(ctx context.Context, programs []string, cfg Config) (Result, error) {
	store := dagstore.New()

	roots := make([]term.ID, len(programs))
	for i, p := range programs {
		id, err := sparser.ParseSource(store, fmt.Sprintf("program[%d]", i), p)
		if err != nil {
			return Result{}, err
		}
		roots[i] = id
	}
	corpusRoot := store.InsertPrograms(roots)

	if err := preflightCheck(store, corpusRoot); err != nil {
		return Result{}, err
	}
	if err := closednessCheck(store, corpusRoot); err != nil {
		return Result{}, err
	}

	rewritten := corpusRoot
	var invs []InventionDef
	var reports []IterationReport

	for i := 0; i < cfg.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		order := store.Topological(rewritten)
		gen := shift.NewCacheGenerator(!cfg.NoCache)

		t0 := time.Now()
		res, err := engine.RunPass(store, order, cfg.MaxArity, gen)
		if err != nil {
			return Result{}, err
		}
		elapsed := time.Since(t0).Milliseconds()

		top := res.BestInventions[rewritten].TopInventions()
		report := IterationReport{Index: i, CandidatesFound: len(top), CoreMillis: elapsed}

		if err := stepErr(top); err != nil {
			reports = append(reports, report)
			if errors.Is(err, ErrNoInvention) {
				break
			}
			return Result{}, err
		}

		chosen := top[0]
		name := fmt.Sprintf("inv%d", len(invs))

		rewrittenID, err := extract.Extract(store, rewritten, chosen, name, res.Applams, res.BestInventions)
		if err != nil {
			return Result{}, err
		}

		def := InventionDef{
			Name:          name,
			Invention:     chosen,
			Definition:    chosen.Wrapped(store),
			DefinitionStr: term.Show(store, chosen.Wrapped(store)),
			Cost:          term.Cost(store, chosen.Wrapped(store)),
			RewrittenCost: term.Cost(store, rewrittenID),
		}
		report.Chosen = &def

		invs = append(invs, def)
		reports = append(reports, report)
		rewritten = rewrittenID
	}

	return Result{
		Store:        store,
		Inventions:   invs,
		FinalProgram: rewritten,
		Reports:      reports,
	}, nil
}

// stepErr reports ErrNoInvention when a pass turned up nothing, so the
// driver loop's "stop" condition reads the same way a real failure would.
func stepErr(top []invention.Invention) error {
	if len(top) == 0 {
		return ErrNoInvention
	}
	return nil
}

// preflightCheck rejects any (app (lam ...)) anywhere in the corpus: a
// beta-reducible redex should never appear in well-formed input, so one is
// rejected before any engine pass runs.
func preflightCheck(store *dagstore.Store, root term.ID) error {
	seen := make(map[term.ID]bool)
	var walk func(id term.ID) error
	walk = func(id term.ID) error {
		if seen[id] {
			return nil
		}
		seen[id] = true

		n := store.Node(id)
		switch n.Kind {
		case term.App:
			if store.Node(n.F).Kind == term.Lam {
				return diag.NewPreflightError(fmt.Sprintf("node %d applies a lambda directly", id))
			}
			if err := walk(n.F); err != nil {
				return err
			}
			return walk(n.X)
		case term.Lam:
			return walk(n.Body)
		case term.Programs:
			for _, c := range n.Children {
				if err := walk(c); err != nil {
					return err
				}
			}
		}
		return nil
	}
	return walk(root)
}

// closednessCheck rejects a corpus whose root has any free Var or IVar: a
// program is meant to stand alone, so a dangling reference there is
// malformed input, not something compression should ever see.
func closednessCheck(store *dagstore.Store, root term.ID) error {
	a := store.Analysis(root)
	if !a.FreeVars.Empty() {
		return diag.NewClosednessError(diag.CodeClosednessFreeVar, "corpus has a free Var at its root")
	}
	if !a.FreeIVars.Empty() {
		return diag.NewClosednessError(diag.CodeClosednessFreeIVar, "corpus has a free IVar at its root")
	}
	return nil
}

// Info summarizes a parsed-but-uncompressed corpus the way the original
// implementation's programs_info did before the first iteration even
// starts: how many programs, and the largest cost/depth among them.
type Info struct {
	NumPrograms int
	MaxCost     int
	MaxDepth    int
}

// Summarize computes Info over a Programs node's direct children.
func Summarize(store *dagstore.Store, programRoots []term.ID) Info {
	info := Info{NumPrograms: len(programRoots)}
	for _, id := range programRoots {
		if c := term.Cost(store, id); c > info.MaxCost {
			info.MaxCost = c
		}
		if d := term.Depth(store, id); d > info.MaxDepth {
			info.MaxDepth = d
		}
	}
	return info
}

// VarUsage is a census of how many distinct hash-consed Var/IVar nodes of
// each index are reachable from a root, the Go equivalent of the original
// implementation's per-index egraph searches over "($i)" patterns.
type VarUsage struct {
	Vars  map[int]int
	IVars map[int]int
}

// CensusVarUsage walks every distinct node reachable from root once and
// tallies Var and IVar nodes by index. Equal Vars hash-cons to one node, so
// each index counts at most 1 however many times it is referenced.
func CensusVarUsage(store *dagstore.Store, root term.ID) VarUsage {
	usage := VarUsage{Vars: make(map[int]int), IVars: make(map[int]int)}
	for _, id := range store.Topological(root) {
		n := store.Node(id)
		switch n.Kind {
		case term.Var:
			usage.Vars[n.Index]++
		case term.IVar:
			usage.IVars[n.Index]++
		}
	}
	return usage
}

// VarUsage reports, for each $i in [lo, hi), how many distinct Var(i) nodes
// are reachable from the final rewritten corpus: 1 if $i appears anywhere,
// 0 otherwise. It is the Go equivalent of the original implementation's
// post-pass per-index egraph searches over "($i)" patterns.
func (r Result) VarUsage(lo, hi int) map[int]int {
	full := CensusVarUsage(r.Store, r.FinalProgram)
	out := make(map[int]int, hi-lo)
	for i := lo; i < hi; i++ {
		out[i] = full.Vars[i]
	}
	return out
}
