package tetris

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGrid(t *testing.T) {
	g := NewGrid(10, 20)
	assert.Equal(t, 10, g.Width())
	assert.Equal(t, 20, g.Height())
	assert.Empty(t, g.FullRows())
	assert.False(t, g.IsOccupied(NewPoint(0, 0)))
	assert.False(t, g.Set(NewPoint(10, 0), BlockI))
	assert.False(t, g.Set(NewPoint(0, 20), BlockI))
}

func TestGrid_CloneIsDeep(t *testing.T) {
	g := NewGrid(4, 2)
	c := g.Clone()
	c.Set(NewPoint(1, 1), BlockT)
	assert.False(t, g.IsOccupied(NewPoint(1, 1)))
	assert.True(t, c.IsOccupied(NewPoint(1, 1)))
}

func TestGrid_ClearFullRows(t *testing.T) {
	g, err := ParseGrid([]string{
		"....",
		".T..",
		"IIII",
		"J..J",
		"OOOO",
	})
	require.NoError(t, err)

	cleared := g.ClearFullRows()
	assert.Equal(t, []int{0, 2}, cleared)
	assert.Equal(t, 5, g.Height())
	assert.Equal(t, "....\n....\n....\n.T..\nJ..J\n", g.String())
}

func TestGrid_ClearFullRowsNoop(t *testing.T) {
	g := NewGrid(3, 3)
	assert.Nil(t, g.ClearFullRows())
}

func TestParseGrid_Errors(t *testing.T) {
	_, err := ParseGrid([]string{"...", ".."})
	assert.Error(t, err)
	_, err = ParseGrid([]string{"..X"})
	assert.Error(t, err)
}
