package grid

// Terrain is a closed set of cell terrain kinds. Movement costs and
// passability are derived from the kind so call sites never branch on
// strings.
type Terrain int

const (
	TerrainOpen Terrain = iota
	TerrainDifficult
	TerrainImpassable
	TerrainWater
	TerrainPit
)

// String returns the terrain name for logs and combat messages
func (t Terrain) String() string {
	switch t {
	case TerrainOpen:
		return "open"
	case TerrainDifficult:
		return "difficult"
	case TerrainImpassable:
		return "impassable"
	case TerrainWater:
		return "water"
	case TerrainPit:
		return "pit"
	default:
		return "unknown"
	}
}

// MovementCost returns the cost in feet to enter a cell of this terrain and
// whether the terrain can be entered at all. Impassable terrain has no
// finite cost.
func (t Terrain) MovementCost() (cost int, passable bool) {
	switch t {
	case TerrainOpen, TerrainPit:
		return CellSize, true
	case TerrainDifficult, TerrainWater:
		return CellSize * 2, true
	case TerrainImpassable:
		return 0, false
	default:
		return 0, false
	}
}
