package grid_test

import (
	"testing"

	"github.com/KirkDiggler/tactics-engine/internal/combat/grid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGridBounds(t *testing.T) {
	g := grid.New(nil)

	t.Run("defaults to 8x8", func(t *testing.T) {
		assert.Equal(t, 8, g.Width())
		assert.Equal(t, 8, g.Height())
	})

	t.Run("out of bounds access returns absent", func(t *testing.T) {
		assert.Nil(t, g.GetCell(-1, 0))
		assert.Nil(t, g.GetCell(0, 8))
		assert.False(t, g.SetTerrain(8, 0, grid.TerrainDifficult))
		assert.False(t, g.SetOccupant(0, -1, "goblin-1"))
	})

	t.Run("in bounds mutation round-trips", func(t *testing.T) {
		require.True(t, g.SetTerrain(3, 4, grid.TerrainWater))
		require.True(t, g.SetOccupant(3, 4, "goblin-1"))

		cell := g.GetCell(3, 4)
		require.NotNil(t, cell)
		assert.Equal(t, grid.TerrainWater, cell.Terrain)
		assert.Equal(t, "goblin-1", cell.Occupant)
		assert.True(t, cell.IsOccupied())
		assert.False(t, cell.IsPassable())

		require.True(t, g.SetOccupant(3, 4, ""))
		assert.False(t, g.GetCell(3, 4).IsOccupied())
	})

	t.Run("impassable terrain is never passable", func(t *testing.T) {
		require.True(t, g.SetTerrain(5, 5, grid.TerrainImpassable))
		assert.False(t, g.GetCell(5, 5).IsPassable())
	})
}

func TestTerrainMovementCost(t *testing.T) {
	cases := []struct {
		terrain  grid.Terrain
		cost     int
		passable bool
	}{
		{grid.TerrainOpen, 5, true},
		{grid.TerrainDifficult, 10, true},
		{grid.TerrainWater, 10, true},
		{grid.TerrainPit, 5, true},
		{grid.TerrainImpassable, 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.terrain.String(), func(t *testing.T) {
			cost, passable := tc.terrain.MovementCost()
			assert.Equal(t, tc.cost, cost)
			assert.Equal(t, tc.passable, passable)
		})
	}
}
