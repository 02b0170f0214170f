// Package grid owns the battle grid for one combat encounter: terrain,
// occupancy, cover and elevation per cell, plus pathfinding, reachability,
// threat and line-of-sight queries over it.
package grid

const (
	// CellSize is the side length of one grid cell in feet
	CellSize = 5

	// DefaultWidth and DefaultHeight size a standard skirmish grid
	DefaultWidth  = 8
	DefaultHeight = 8

	// CoverBlocked is the cover value reported when line of sight is fully
	// blocked by impassable terrain
	CoverBlocked = 100
)

// Position is a cell coordinate on the grid
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// DiagonalRule selects how diagonal movement is costed
type DiagonalRule int

const (
	// DiagonalChebyshev costs diagonal and orthogonal steps the same
	DiagonalChebyshev DiagonalRule = iota

	// DiagonalAlternating doubles the cost of every second diagonal step
	// along a path (the 5-10-5 rule)
	DiagonalAlternating
)

// Cell is one square of the battle grid. The occupant field holds a
// combatant id and never owns the combatant itself.
type Cell struct {
	Position  Position `json:"position"`
	Terrain   Terrain  `json:"terrain"`
	Occupant  string   `json:"occupant,omitempty"`
	Cover     int      `json:"cover,omitempty"`
	Elevation int      `json:"elevation,omitempty"`
	PitDepth  int      `json:"pit_depth,omitempty"`
}

// IsOccupied returns true if a combatant occupies the cell
func (c *Cell) IsOccupied() bool {
	return c.Occupant != ""
}

// IsPassable returns true if the cell can be moved through: terrain allows
// entry and no combatant occupies it
func (c *Cell) IsPassable() bool {
	if _, passable := c.Terrain.MovementCost(); !passable {
		return false
	}
	return !c.IsOccupied()
}

// Config holds the dimensions and movement rules for a grid
type Config struct {
	Width    int
	Height   int
	Diagonal DiagonalRule
}

// Grid is a fixed-size battle grid created once per encounter and mutated
// only through its setters. It is exclusively owned by one encounter and is
// not safe for concurrent use.
type Grid struct {
	width    int
	height   int
	diagonal DiagonalRule
	cells    [][]Cell
}

// New creates a grid of open cells. Missing dimensions fall back to the
// 8x8 default.
func New(cfg *Config) *Grid {
	if cfg == nil {
		cfg = &Config{}
	}

	width, height := cfg.Width, cfg.Height
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}

	cells := make([][]Cell, height)
	for y := range cells {
		cells[y] = make([]Cell, width)
		for x := range cells[y] {
			cells[y][x] = Cell{Position: Position{X: x, Y: y}, Terrain: TerrainOpen}
		}
	}

	return &Grid{
		width:    width,
		height:   height,
		diagonal: cfg.Diagonal,
		cells:    cells,
	}
}

// Width returns the grid width in cells
func (g *Grid) Width() int { return g.width }

// Height returns the grid height in cells
func (g *Grid) Height() int { return g.height }

// Diagonal returns the grid's diagonal movement rule
func (g *Grid) Diagonal() DiagonalRule { return g.diagonal }

// InBounds reports whether the coordinate lies on the grid
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// GetCell returns the cell at (x, y), or nil when out of bounds.
// Out-of-bounds access is an expected condition, not an error.
func (g *Grid) GetCell(x, y int) *Cell {
	if !g.InBounds(x, y) {
		return nil
	}
	return &g.cells[y][x]
}

// SetTerrain sets the terrain of a cell, returning false when the
// coordinate is off the grid
func (g *Grid) SetTerrain(x, y int, terrain Terrain) bool {
	if !g.InBounds(x, y) {
		return false
	}
	g.cells[y][x].Terrain = terrain
	return true
}

// SetOccupant places a combatant id on a cell. An empty id clears the
// occupant. Returns false when the coordinate is off the grid.
func (g *Grid) SetOccupant(x, y int, combatantID string) bool {
	if !g.InBounds(x, y) {
		return false
	}
	g.cells[y][x].Occupant = combatantID
	return true
}

// SetCover sets the declared cover value of a cell
func (g *Grid) SetCover(x, y, cover int) bool {
	if !g.InBounds(x, y) {
		return false
	}
	g.cells[y][x].Cover = cover
	return true
}

// SetElevation sets the elevation of a cell
func (g *Grid) SetElevation(x, y, elevation int) bool {
	if !g.InBounds(x, y) {
		return false
	}
	g.cells[y][x].Elevation = elevation
	return true
}
