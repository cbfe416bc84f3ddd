package sparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stitch/internal/dagstore"
	"stitch/internal/term"
)

func TestParsePrim(t *testing.T) {
	s := dagstore.New()
	id, err := ParseSource(s, "t1", "f")
	require.NoError(t, err)
	assert.Equal(t, term.Prim, s.Node(id).Kind)
	assert.Equal(t, "f", s.Node(id).Sym)
}

func TestParseVarAndIVar(t *testing.T) {
	s := dagstore.New()
	v, err := ParseSource(s, "t2", "$3")
	require.NoError(t, err)
	assert.Equal(t, term.Var, s.Node(v).Kind)
	assert.Equal(t, 3, s.Node(v).Index)

	iv, err := ParseSource(s, "t3", "#1")
	require.NoError(t, err)
	assert.Equal(t, term.IVar, s.Node(iv).Kind)
	assert.Equal(t, 1, s.Node(iv).Index)
}

func TestParseAppAndLam(t *testing.T) {
	s := dagstore.New()
	id, err := ParseSource(s, "t4", "(lam (app f $0))")
	require.NoError(t, err)

	lam := s.Node(id)
	require.Equal(t, term.Lam, lam.Kind)

	app := s.Node(lam.Body)
	require.Equal(t, term.App, app.Kind)
	assert.Equal(t, "f", s.Node(app.F).Sym)
	assert.Equal(t, 0, s.Node(app.X).Index)
}

func TestParseEmptyProgramsYieldsZeroChildNode(t *testing.T) {
	s := dagstore.New()
	id, err := ParseSource(s, "t5", "(programs)")
	require.NoError(t, err)
	root := s.Node(id)
	assert.Equal(t, term.Programs, root.Kind)
	assert.Empty(t, root.Children)
}

func TestParseSamePrimTwiceHashCons(t *testing.T) {
	s := dagstore.New()
	id, err := ParseSource(s, "t6", "(programs (app f g) (app f h))")
	require.NoError(t, err)

	root := s.Node(id)
	p1 := s.Node(root.Children[0])
	p2 := s.Node(root.Children[1])
	assert.Equal(t, p1.F, p2.F, "the shared prim 'f' should hash-cons to one id across both programs")
}

func TestMalformedSyntaxReportsParseError(t *testing.T) {
	s := dagstore.New()
	_, err := ParseSource(s, "t7", "(app f")
	assert.Error(t, err)
}
