package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVertexIndex(t *testing.T) {
	x := NewVertexIndex()
	assert.False(t, x.Has(1))
	x.Add(1, 0)
	x.Add(9, 1)

	slot, ok := x.Slot(9)
	assert.True(t, ok)
	assert.Equal(t, 1, slot)
	_, ok = x.Slot(2)
	assert.False(t, ok)
	assert.Equal(t, 2, x.Len())
}

func TestEdgeIndex_Positions(t *testing.T) {
	x := NewEdgeIndex()
	x.Add(1, 2, 0)
	x.Add(2, 1, 1)
	x.Add(1, 3, 2)
	x.Add(1, 1, 3)

	in, out := x.Positions(1, true, true)
	assert.Equal(t, []int{1, 3}, in)
	assert.Equal(t, []int{0, 2, 3}, out)

	in, out = x.Positions(1, false, true)
	assert.Nil(t, in)
	assert.Equal(t, []int{0, 2, 3}, out)

	in, out = x.Positions(3, true, false)
	assert.Equal(t, []int{2}, in)
	assert.Nil(t, out)

	in, out = x.Positions(42, true, true)
	assert.Nil(t, in)
	assert.Nil(t, out)

	din, dout := x.Degree(1)
	assert.Equal(t, 2, din)
	assert.Equal(t, 3, dout)
	din, dout = x.Degree(42)
	assert.Zero(t, din+dout)
}
