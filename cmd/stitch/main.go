// SPDX-License-Identifier: Apache-2.0
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/segmentio/ksuid"
	"github.com/tliron/commonlog"

	"stitch/internal/compress"
	"stitch/internal/corpus"
	"stitch/internal/dagstore"
	"stitch/internal/diag"
	"stitch/internal/render"
	"stitch/internal/sparser"
	"stitch/internal/term"
)

var logger = commonlog.GetLogger("stitch.compress")

func main() {
	file := flag.String("file", "", "path to a JSON array of s-expression programs")
	iterations := flag.Int("iterations", 20, "maximum number of compression iterations")
	maxArity := flag.Int("max-arity", 2, "maximum argument count of a discovered invention")
	beamSize := flag.Int("beam-size", 10_000_000, "reserved for a future beam-search core; the DP core ignores it")
	noCache := flag.Bool("no-cache", false, "disable memoized de-Bruijn shifting")
	renderInventions := flag.Bool("render-inventions", false, "write a .dot snapshot of every discovered invention's body")
	renderFinal := flag.Bool("render-final", false, "write a .dot snapshot of the final rewritten corpus")
	renderInitial := flag.Bool("render-initial", false, "write a .dot snapshot of the parsed, uncompressed corpus")
	printInventions := flag.Int("print-inventions", 3, "cap on the 'top N' count shown in each iteration's summary line; only the chosen invention itself is printed")
	debug := flag.Bool("debug", false, "set log verbosity to debug level (the engine itself emits no debug-level messages)")
	flag.Parse()

	verbosity := 0
	if *debug {
		verbosity = 1
	}
	commonlog.Configure(verbosity, nil)
	_ = *beamSize // reserved: the DP core has no beam to size

	if *file == "" {
		color.Red("stitch: -file is required")
		os.Exit(1)
	}

	programs, err := corpus.Load(*file)
	if err != nil {
		reportFatal(err)
		os.Exit(1)
	}

	runID := ksuid.New().String()
	outDir := filepath.Join("target", runID)
	wantsRenders := *renderInventions || *renderFinal || *renderInitial
	if wantsRenders {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			color.Red("stitch: creating %s: %s", outDir, err)
			os.Exit(1)
		}
	}
	logger.Infof("run %s: %d programs, max-arity=%d, iterations=%d", runID, len(programs), *maxArity, *iterations)

	cfg := compress.Config{
		Iterations:      *iterations,
		MaxArity:        *maxArity,
		NoCache:         *noCache,
		PrintInventions: *printInventions,
	}

	res, err := compress.Run(context.Background(), programs, cfg)
	if err != nil {
		reportFatal(err)
		os.Exit(1)
	}

	if *renderInitial {
		// compress.Result does not keep the pre-compression roots; re-parsing
		// the input programs into the same store hash-conses back to them.
		initial := make([]term.ID, 0, len(programs))
		for i, p := range programs {
			id, err := sparser.ParseSource(res.Store, fmt.Sprintf("program[%d]", i), p)
			if err != nil {
				reportFatal(err)
				os.Exit(1)
			}
			initial = append(initial, id)
		}
		writeRenderFile(filepath.Join(outDir, "initial.dot"), res.Store, initial, nil)
	}

	for i, rep := range res.Reports {
		if rep.Chosen == nil {
			logger.Infof("iteration %d: no invention improves the corpus, stopping", i)
			continue
		}
		inv := rep.Chosen
		logger.Infof("iteration %d (%dms): chose %s, arity=%d, cost=%d, rewritten_cost=%d",
			i, rep.CoreMillis, inv.Name, inv.Invention.Arity, inv.Cost, inv.RewrittenCost)
		n := rep.CandidatesFound
		if n > *printInventions {
			n = *printInventions
		}
		fmt.Printf("iteration %d: %d candidates, top %d considered\n", i, rep.CandidatesFound, n)
		fmt.Printf("  chose %s = %s  (cost=%d, rewritten corpus cost=%d)\n", inv.Name, inv.DefinitionStr, inv.Cost, inv.RewrittenCost)
	}

	if len(res.Inventions) == 0 {
		color.Yellow("stitch: no inventions found over %d iteration(s)", len(res.Reports))
	} else {
		color.Green("stitch: found %d invention(s) over %d iteration(s)", len(res.Inventions), len(res.Reports))
	}

	if *renderInventions {
		for _, inv := range res.Inventions {
			path := filepath.Join(outDir, inv.Name+".dot")
			writeRenderFile(path, res.Store, []term.ID{inv.Definition}, nil)
		}
	}
	if *renderFinal {
		writeRenderFile(filepath.Join(outDir, "final.dot"), res.Store, res.Store.Node(res.FinalProgram).Children, nil)
	}

	if wantsRenders {
		rewritten := make([]string, 0, len(res.Store.Node(res.FinalProgram).Children))
		for _, c := range res.Store.Node(res.FinalProgram).Children {
			rewritten = append(rewritten, term.Show(res.Store, c))
		}
		outPath := filepath.Join(outDir, "corpus.json")
		if err := corpus.Write(outPath, rewritten); err != nil {
			color.Red("stitch: writing %s: %s", outPath, err)
			os.Exit(1)
		}
		color.Cyan("stitch: wrote renders and rewritten corpus to %s", outDir)
	}
}

func writeRenderFile(path string, store *dagstore.Store, roots []term.ID, highlight map[term.ID]bool) {
	f, err := os.Create(path)
	if err != nil {
		color.Red("stitch: creating %s: %s", path, err)
		return
	}
	defer f.Close()
	if err := render.WriteDOT(f, store, roots, highlight); err != nil {
		color.Red("stitch: rendering %s: %s", path, err)
	}
}

// reportFatal prints a *diag.Error's own Error() text (kind, code, position
// and message) in red, and anything else as a plain "stitch:" message.
func reportFatal(err error) {
	if de, ok := err.(*diag.Error); ok {
		color.Red("%s", de.Error())
		return
	}
	color.Red("stitch: %s", err)
}
