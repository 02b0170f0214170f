package grid

// Snapshot is the serializable form of a grid, used by storage layers to
// persist an encounter's battlefield as part of its session document.
type Snapshot struct {
	Width    int          `json:"width"`
	Height   int          `json:"height"`
	Diagonal DiagonalRule `json:"diagonal"`
	Cells    []Cell       `json:"cells,omitempty"`
}

// Snapshot captures the grid's dimensions and every cell that differs from
// an open, empty square
func (g *Grid) Snapshot() *Snapshot {
	snapshot := &Snapshot{
		Width:    g.width,
		Height:   g.height,
		Diagonal: g.diagonal,
	}

	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			cell := g.cells[y][x]
			if cell.Terrain == TerrainOpen && cell.Occupant == "" &&
				cell.Cover == 0 && cell.Elevation == 0 && cell.PitDepth == 0 {
				continue
			}
			snapshot.Cells = append(snapshot.Cells, cell)
		}
	}

	return snapshot
}

// FromSnapshot rebuilds a grid from its serialized form. Cells outside the
// snapshot's bounds are ignored.
func FromSnapshot(snapshot *Snapshot) *Grid {
	if snapshot == nil {
		return New(nil)
	}

	g := New(&Config{
		Width:    snapshot.Width,
		Height:   snapshot.Height,
		Diagonal: snapshot.Diagonal,
	})

	for _, cell := range snapshot.Cells {
		if !g.InBounds(cell.Position.X, cell.Position.Y) {
			continue
		}
		g.cells[cell.Position.Y][cell.Position.X] = cell
	}

	return g
}
