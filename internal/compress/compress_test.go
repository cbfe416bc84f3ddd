package compress

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrivialCorpusFindsNoInvention(t *testing.T) {
	res, err := Run(context.Background(), []string{"f", "g"}, Config{Iterations: 5, MaxArity: 2})
	require.NoError(t, err)
	assert.Empty(t, res.Inventions)
	assert.Len(t, res.Reports, 1, "the loop should stop after the first pass finds nothing")
	assert.Equal(t, 0, res.Reports[0].CandidatesFound)
}

func TestBasicAbstractionAcrossTwoPrograms(t *testing.T) {
	// "f" and the outer "g" are common to both programs; only the two
	// inner arguments differ, so the invention that bakes f and g while
	// abstracting both inner slots collapses enough baked structure to
	// beat the inventionless cost of either occurrence outright.
	res, err := Run(context.Background(), []string{
		"(app (app (app f a) b) g)",
		"(app (app (app f c) d) g)",
	}, Config{Iterations: 5, MaxArity: 2})
	require.NoError(t, err)
	require.NotEmpty(t, res.Inventions, "the shared (app (app (app f _) _) g) shape should be discovered")
	assert.GreaterOrEqual(t, res.Inventions[0].Invention.Arity, 1)
}

func TestMergingCollapsesRepeatedArgumentIntoOneSlot(t *testing.T) {
	// (app (app (app h a) a) a) vs the same shape over "b": "a" (resp. "b")
	// is used three times in one occurrence, so merge's argument-overlap
	// mechanism is needed to collapse those three references into a single
	// argument slot, which is what actually makes this invention cheaper
	// than repeating "a" three times over.
	res, err := Run(context.Background(), []string{
		"(app (app (app h a) a) a)",
		"(app (app (app h b) b) b)",
	}, Config{Iterations: 5, MaxArity: 2})
	require.NoError(t, err)
	require.NotEmpty(t, res.Inventions)
}

func TestArityCapBoundsDiscoveredInventions(t *testing.T) {
	// The same shared (f _ _ g) shape as the basic-abstraction case needs
	// both inner argument slots held open at once to unify across the two
	// programs, so an arity cap of 1 must suppress it entirely.
	res, err := Run(context.Background(), []string{
		"(app (app (app f a) b) g)",
		"(app (app (app f c) d) g)",
	}, Config{Iterations: 5, MaxArity: 1})
	require.NoError(t, err)
	assert.Empty(t, res.Inventions, "unifying the shared shape needs arity 2; arity 1 must find nothing")
}

func TestLambdaBubbleRejectsArgumentsThatReferenceTheBoundVariable(t *testing.T) {
	// (lam (app f $0)) repeated: every applam of the App node whose args
	// mention $0 (its identity, whose arg is the App node itself, and the
	// one abstracting $0 directly) must be dropped by LambdaBubble; only the
	// one abstracting f survives, giving (lam (app #0 $0)) applied to f.
	// Running this corpus end to end should never panic or error out on
	// the capture check.
	res, err := Run(context.Background(), []string{
		"(lam (app f $0))",
		"(lam (app f $0))",
	}, Config{Iterations: 5, MaxArity: 2})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Inventions)
}

func TestCorpusCostNeverIncreasesAcrossIterations(t *testing.T) {
	res, err := Run(context.Background(), []string{
		"(app (app (app h a) a) a)",
		"(app (app (app h b) b) b)",
		"(app (app (app h c) c) c)",
	}, Config{Iterations: 10, MaxArity: 2})
	require.NoError(t, err)

	var lastRewritten int
	first := true
	for _, r := range res.Reports {
		if r.Chosen == nil {
			continue
		}
		if !first {
			assert.LessOrEqual(t, r.Chosen.RewrittenCost, lastRewritten)
		}
		lastRewritten = r.Chosen.RewrittenCost
		first = false
	}
}

func TestRunningOutOfInventionsIsIdempotent(t *testing.T) {
	res, err := Run(context.Background(), []string{"f", "g"}, Config{Iterations: 3, MaxArity: 2})
	require.NoError(t, err)

	again, err := Run(context.Background(), []string{"f", "g"}, Config{Iterations: 6, MaxArity: 2})
	require.NoError(t, err)

	assert.Equal(t, len(res.Inventions), len(again.Inventions))
	assert.Equal(t, res.Reports[0].CandidatesFound, again.Reports[0].CandidatesFound)
}

func TestPreflightRejectsImmediatelyAppliedLambda(t *testing.T) {
	_, err := Run(context.Background(), []string{"(app (lam $0) f)"}, Config{Iterations: 1, MaxArity: 2})
	assert.Error(t, err)
}

func TestClosednessRejectsFreeVarAtRoot(t *testing.T) {
	_, err := Run(context.Background(), []string{"$0"}, Config{Iterations: 1, MaxArity: 2})
	assert.Error(t, err)
}

func TestVarUsageCountsRemainingBoundVariableReferences(t *testing.T) {
	res, err := Run(context.Background(), []string{"(lam (app f $0))"}, Config{Iterations: 5, MaxArity: 2})
	require.NoError(t, err)

	usage := res.VarUsage(0, 2)
	assert.Equal(t, 1, usage[0])
	assert.Equal(t, 0, usage[1])
}
