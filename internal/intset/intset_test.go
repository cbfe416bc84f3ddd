package intset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOfAndHas(t *testing.T) {
	s := Of(1, 3, 5)
	assert.True(t, s.Has(1))
	assert.True(t, s.Has(3))
	assert.False(t, s.Has(2))
}

func TestEmpty(t *testing.T) {
	assert.True(t, Set{}.Empty())
	assert.False(t, Of(0).Empty())
}

func TestAddMutatesInPlace(t *testing.T) {
	s := Of()
	s.Add(7)
	assert.True(t, s.Has(7))
}

func TestCloneIsIndependent(t *testing.T) {
	s := Of(1, 2)
	c := s.Clone()
	c.Add(3)
	assert.False(t, s.Has(3))
	assert.True(t, c.Has(3))
}

func TestEqual(t *testing.T) {
	assert.True(t, Of(1, 2).Equal(Of(2, 1)))
	assert.False(t, Of(1, 2).Equal(Of(1, 3)))
	assert.False(t, Of(1).Equal(Of(1, 2)))
}

func TestUnion(t *testing.T) {
	u := Union(Of(1, 2), Of(2, 3))
	assert.True(t, u.Equal(Of(1, 2, 3)))
}

func TestShiftedDownPastBinderDropsZeroAndDecrementsRest(t *testing.T) {
	shifted := ShiftedDownPastBinder(Of(0, 1, 2))
	assert.True(t, shifted.Equal(Of(0, 1)))
}

func TestSliceIsSortedAscending(t *testing.T) {
	s := Of(5, 1, 3)
	assert.Equal(t, []int{1, 3, 5}, s.Slice())
}
