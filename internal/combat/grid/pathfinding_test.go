package grid_test

import (
	"testing"

	"github.com/KirkDiggler/tactics-engine/internal/combat/grid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindPath(t *testing.T) {
	t.Run("same origin and destination succeeds trivially", func(t *testing.T) {
		g := grid.New(nil)
		result := g.FindPath(grid.Position{X: 3, Y: 3}, grid.Position{X: 3, Y: 3}, 30)

		assert.True(t, result.Found)
		assert.Equal(t, 0, result.Cost)
		assert.Equal(t, []grid.Position{{X: 3, Y: 3}}, result.Path)
	})

	t.Run("occupied destination fails with the occupant id", func(t *testing.T) {
		g := grid.New(nil)
		require.True(t, g.SetOccupant(2, 2, "orc-7"))

		result := g.FindPath(grid.Position{X: 0, Y: 0}, grid.Position{X: 2, Y: 2}, 100)
		assert.False(t, result.Found)
		assert.Equal(t, "orc-7", result.BlockedBy)
		assert.Equal(t, "destination is occupied", result.Reason)
	})

	t.Run("corner to corner under chebyshev costs 35", func(t *testing.T) {
		g := grid.New(&grid.Config{Width: 8, Height: 8, Diagonal: grid.DiagonalChebyshev})

		result := g.FindPath(grid.Position{X: 0, Y: 0}, grid.Position{X: 7, Y: 7}, 100)
		require.True(t, result.Found)
		assert.Equal(t, 35, result.Cost)
		assert.Len(t, result.Path, 8)
		assert.Equal(t, grid.Position{X: 0, Y: 0}, result.Path[0])
		assert.Equal(t, grid.Position{X: 7, Y: 7}, result.Path[7])
	})

	t.Run("alternating rule doubles every second diagonal", func(t *testing.T) {
		g := grid.New(&grid.Config{Diagonal: grid.DiagonalAlternating})

		result := g.FindPath(grid.Position{X: 0, Y: 0}, grid.Position{X: 2, Y: 2}, 100)
		require.True(t, result.Found)
		assert.Equal(t, 15, result.Cost)

		result = g.FindPath(grid.Position{X: 0, Y: 0}, grid.Position{X: 4, Y: 4}, 100)
		require.True(t, result.Found)
		assert.Equal(t, 30, result.Cost)
	})

	t.Run("difficult terrain doubles the entry cost", func(t *testing.T) {
		g := grid.New(&grid.Config{Width: 3, Height: 1})
		require.True(t, g.SetTerrain(1, 0, grid.TerrainDifficult))

		result := g.FindPath(grid.Position{X: 0, Y: 0}, grid.Position{X: 2, Y: 0}, 100)
		require.True(t, result.Found)
		assert.Equal(t, 15, result.Cost)
	})

	t.Run("routes around walls optimally", func(t *testing.T) {
		g := grid.New(&grid.Config{Width: 5, Height: 5})
		for y := 0; y <= 3; y++ {
			require.True(t, g.SetTerrain(2, y, grid.TerrainImpassable))
		}

		result := g.FindPath(grid.Position{X: 0, Y: 2}, grid.Position{X: 4, Y: 2}, 100)
		require.True(t, result.Found)
		assert.Equal(t, 20, result.Cost)
		for _, pos := range result.Path {
			cell := g.GetCell(pos.X, pos.Y)
			require.NotNil(t, cell)
			_, passable := cell.Terrain.MovementCost()
			assert.True(t, passable, "path crosses impassable cell %v", pos)
		}
	})

	t.Run("occupied cells are never expanded", func(t *testing.T) {
		g := grid.New(&grid.Config{Width: 3, Height: 3})
		// Wall off the middle row except a single occupied gap.
		require.True(t, g.SetTerrain(0, 1, grid.TerrainImpassable))
		require.True(t, g.SetTerrain(2, 1, grid.TerrainImpassable))
		require.True(t, g.SetOccupant(1, 1, "ogre-1"))

		result := g.FindPath(grid.Position{X: 1, Y: 0}, grid.Position{X: 1, Y: 2}, 100)
		assert.False(t, result.Found)
		assert.Equal(t, "No path found", result.Reason)
	})

	t.Run("movement budget exhaustion reports no path", func(t *testing.T) {
		g := grid.New(nil)

		result := g.FindPath(grid.Position{X: 0, Y: 0}, grid.Position{X: 7, Y: 7}, 30)
		assert.False(t, result.Found)
		assert.Equal(t, "No path found", result.Reason)
	})

	t.Run("deterministic for identical grids", func(t *testing.T) {
		build := func() *grid.Grid {
			g := grid.New(nil)
			g.SetTerrain(4, 4, grid.TerrainImpassable)
			g.SetTerrain(4, 5, grid.TerrainImpassable)
			g.SetTerrain(5, 4, grid.TerrainDifficult)
			return g
		}

		first := build().FindPath(grid.Position{X: 0, Y: 0}, grid.Position{X: 7, Y: 7}, 100)
		for i := 0; i < 5; i++ {
			again := build().FindPath(grid.Position{X: 0, Y: 0}, grid.Position{X: 7, Y: 7}, 100)
			assert.Equal(t, first.Path, again.Path)
			assert.Equal(t, first.Cost, again.Cost)
		}
	})

	t.Run("out of bounds endpoints fail without searching", func(t *testing.T) {
		g := grid.New(nil)
		result := g.FindPath(grid.Position{X: -1, Y: 0}, grid.Position{X: 3, Y: 3}, 30)
		assert.False(t, result.Found)
		assert.Equal(t, "position out of bounds", result.Reason)
	})
}

func TestReachableCells(t *testing.T) {
	t.Run("one step of movement reaches the eight neighbors", func(t *testing.T) {
		g := grid.New(nil)

		cells := g.ReachableCells(grid.Position{X: 4, Y: 4}, 5)
		require.Len(t, cells, 9)

		costs := map[grid.Position]int{}
		for _, c := range cells {
			costs[c.Position] = c.Cost
		}
		assert.Equal(t, 0, costs[grid.Position{X: 4, Y: 4}])
		assert.Equal(t, 5, costs[grid.Position{X: 5, Y: 5}])
		assert.Equal(t, 5, costs[grid.Position{X: 3, Y: 4}])
	})

	t.Run("excludes occupied and impassable cells", func(t *testing.T) {
		g := grid.New(nil)
		require.True(t, g.SetOccupant(5, 4, "orc-1"))
		require.True(t, g.SetTerrain(4, 5, grid.TerrainImpassable))

		cells := g.ReachableCells(grid.Position{X: 4, Y: 4}, 5)
		for _, c := range cells {
			assert.NotEqual(t, grid.Position{X: 5, Y: 4}, c.Position)
			assert.NotEqual(t, grid.Position{X: 4, Y: 5}, c.Position)
		}
	})

	t.Run("reports cheapest cost through difficult terrain", func(t *testing.T) {
		g := grid.New(&grid.Config{Width: 3, Height: 1})
		require.True(t, g.SetTerrain(1, 0, grid.TerrainDifficult))

		cells := g.ReachableCells(grid.Position{X: 0, Y: 0}, 15)
		costs := map[grid.Position]int{}
		for _, c := range cells {
			costs[c.Position] = c.Cost
		}
		assert.Equal(t, 10, costs[grid.Position{X: 1, Y: 0}])
		assert.Equal(t, 15, costs[grid.Position{X: 2, Y: 0}])
	})
}

func TestThreatenedSquares(t *testing.T) {
	g := grid.New(nil)

	t.Run("melee reach threatens the surrounding eight cells", func(t *testing.T) {
		squares := g.ThreatenedSquares(grid.Position{X: 4, Y: 4}, 1)
		assert.Len(t, squares, 8)
	})

	t.Run("corners are clipped to the grid", func(t *testing.T) {
		squares := g.ThreatenedSquares(grid.Position{X: 0, Y: 0}, 1)
		assert.Len(t, squares, 3)
	})

	t.Run("reach weapons extend the threat range", func(t *testing.T) {
		squares := g.ThreatenedSquares(grid.Position{X: 4, Y: 4}, 2)
		assert.Len(t, squares, 24)
	})

	t.Run("zero reach threatens nothing", func(t *testing.T) {
		assert.Nil(t, g.ThreatenedSquares(grid.Position{X: 4, Y: 4}, 0))
	})
}
