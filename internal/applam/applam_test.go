package applam

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stitch/internal/dagstore"
	"stitch/internal/invention"
	"stitch/internal/shift"
	"stitch/internal/term"
)

func TestIdentityWrapsSelfAsTheOnlyArgument(t *testing.T) {
	s := dagstore.New()
	iv0 := s.InsertIVar(0)
	self := s.InsertPrim("f")

	a := Identity(iv0, self)
	assert.Equal(t, invention.New(iv0, 1), a.Inv)
	assert.Equal(t, []term.ID{self}, a.Args)
}

func TestLeftBubbleWrapsBodyInAppLeavingArgsUntouched(t *testing.T) {
	s := dagstore.New()
	iv0 := s.InsertIVar(0)
	f := s.InsertPrim("f")
	x := s.InsertPrim("x")
	fa := Identity(iv0, f)

	out := LeftBubble(s, []Applam{fa}, x)
	require.Len(t, out, 1)
	assert.Equal(t, 1, out[0].Inv.Arity)
	assert.Equal(t, []term.ID{f}, out[0].Args)
	assert.Equal(t, s.InsertApp(iv0, x), out[0].Inv.Body)
}

func TestRightBubbleWrapsBodyInAppLeavingFUntouched(t *testing.T) {
	s := dagstore.New()
	iv0 := s.InsertIVar(0)
	f := s.InsertPrim("f")
	x := s.InsertPrim("x")
	xa := Identity(iv0, x)

	out := RightBubble(s, f, []Applam{xa})
	require.Len(t, out, 1)
	assert.Equal(t, []term.ID{x}, out[0].Args)
	assert.Equal(t, s.InsertApp(f, iv0), out[0].Inv.Body)
}

func TestMergeRejectsCombinationsOverArityCap(t *testing.T) {
	s := dagstore.New()
	gen := shift.NewCacheGenerator(true)
	iv0 := s.InsertIVar(0)
	a := s.InsertPrim("a")
	b := s.InsertPrim("b")
	fa := Identity(iv0, a)
	xa := Identity(iv0, b)

	_, ok := Merge(s, gen, fa, xa, 1)
	assert.False(t, ok, "two disjoint arity-1 applams need arity 2 to merge")

	merged, ok := Merge(s, gen, fa, xa, 2)
	require.True(t, ok)
	assert.Equal(t, 2, merged.Inv.Arity)
	assert.Equal(t, []term.ID{a, b}, merged.Args)
}

func TestMergeCollapsesASharedArgumentIntoOneHole(t *testing.T) {
	s := dagstore.New()
	gen := shift.NewCacheGenerator(true)
	iv0 := s.InsertIVar(0)
	shared := s.InsertPrim("shared")
	fa := Identity(iv0, shared)
	xa := Identity(iv0, shared)

	merged, ok := Merge(s, gen, fa, xa, 1)
	require.True(t, ok, "merging an applam with itself over the same argument needs only arity 1")
	assert.Equal(t, 1, merged.Inv.Arity)
	assert.Equal(t, []term.ID{shared}, merged.Args)
}

func TestMergeBodyAppliesFOverShiftedX(t *testing.T) {
	s := dagstore.New()
	gen := shift.NewCacheGenerator(true)
	iv0 := s.InsertIVar(0)
	a := s.InsertPrim("a")
	b := s.InsertPrim("b")
	fa := Identity(iv0, a)
	xa := Identity(iv0, b)

	merged, ok := Merge(s, gen, fa, xa, 2)
	require.True(t, ok)

	wantXBody := s.InsertIVar(1) // xa's IVar(0) shifted up by fa's arity (1)
	assert.Equal(t, s.InsertApp(iv0, wantXBody), merged.Inv.Body)
}

func TestLambdaBubbleRejectsArgumentsReferencingTheBoundVariable(t *testing.T) {
	s := dagstore.New()
	gen := shift.NewCacheGenerator(true)
	iv0 := s.InsertIVar(0)
	v0 := s.InsertVar(0)
	f := s.InsertPrim("f")

	blocked := Identity(iv0, v0) // arg is $0 itself: crossing the Lam must drop this
	kept := Identity(iv0, f)     // arg doesn't mention $0: safe to bubble

	produced, pairs := LambdaBubble(s, gen, []Applam{blocked, kept})
	require.Len(t, produced, 1)
	assert.Equal(t, []term.ID{f}, produced[0].Args)
	assert.Len(t, pairs, 1)
	assert.Equal(t, f, pairs[0][1], "kept argument had nothing to shift so its pair is (f, f)")
}

func TestLambdaBubbleShiftsSurvivingArgumentsDownByOne(t *testing.T) {
	s := dagstore.New()
	gen := shift.NewCacheGenerator(true)
	iv0 := s.InsertIVar(0)
	v1 := s.InsertVar(1) // references a variable bound outside the Lam being crossed

	a := Identity(iv0, v1)
	produced, pairs := LambdaBubble(s, gen, []Applam{a})

	require.Len(t, produced, 1)
	wantShifted := s.InsertVar(0)
	assert.Equal(t, []term.ID{wantShifted}, produced[0].Args)
	require.Len(t, pairs, 1)
	assert.Equal(t, wantShifted, pairs[0][0])
	assert.Equal(t, v1, pairs[0][1])
}

func TestFreeVarsUnionsBodyAndArguments(t *testing.T) {
	s := dagstore.New()
	iv0 := s.InsertIVar(0)
	v2 := s.InsertVar(2)

	a := Identity(iv0, v2)
	fv := a.FreeVars(s)
	assert.True(t, fv.Has(2))
}
