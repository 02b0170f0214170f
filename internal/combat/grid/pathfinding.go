package grid

import (
	"container/heap"
	"sort"
)

// PathResult reports the outcome of a path search. Failure to find a path
// is a routine game outcome carried in the result, never an error.
type PathResult struct {
	Found     bool       `json:"found"`
	Path      []Position `json:"path,omitempty"`
	Cost      int        `json:"cost"`
	BlockedBy string     `json:"blocked_by,omitempty"` // occupant id when the destination is taken
	Reason    string     `json:"reason,omitempty"`
}

// ReachableCell is one entry of a reachability query: a cell and the
// cheapest movement cost to get there
type ReachableCell struct {
	Position Position `json:"position"`
	Cost     int      `json:"cost"`
}

// pathNode is A* search scratch, discarded once the search completes
type pathNode struct {
	pos    Position
	g      int // accumulated movement cost
	h      int // heuristic cost to goal
	f      int // g + h
	parity int // diagonal step parity, used by the alternating rule
	parent *pathNode
	seq    int // insertion order, breaks remaining ties deterministically
	index  int
}

type nodeHeap []*pathNode

func (h nodeHeap) Len() int { return len(h) }

// Less orders by f, preferring the deeper node (higher g) on ties, then
// insertion order so identical grids always search identically.
func (h nodeHeap) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	if h[i].g != h[j].g {
		return h[i].g > h[j].g
	}
	return h[i].seq < h[j].seq
}

func (h nodeHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *nodeHeap) Push(x any) {
	node := x.(*pathNode)
	node.index = len(*h)
	*h = append(*h, node)
}

func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return node
}

// searchState keys visited bookkeeping. Under the alternating rule the
// cost of future diagonal steps depends on parity, so parity is part of
// the state.
type searchState struct {
	pos    Position
	parity int
}

var neighborSteps = [8]struct{ dx, dy int }{
	{0, -1}, {1, -1}, {1, 0}, {1, 1},
	{0, 1}, {-1, 1}, {-1, 0}, {-1, -1},
}

// FindPath searches for the cheapest path from one cell to another within
// a movement budget in feet. Occupied and impassable cells are never
// entered. An occupied destination fails immediately with the blocking
// occupant's id and no search is performed.
func (g *Grid) FindPath(from, to Position, maxMovement int) *PathResult {
	if !g.InBounds(from.X, from.Y) || !g.InBounds(to.X, to.Y) {
		return &PathResult{Reason: "position out of bounds"}
	}

	if from == to {
		return &PathResult{Found: true, Path: []Position{from}, Cost: 0}
	}

	if dest := g.GetCell(to.X, to.Y); dest.IsOccupied() {
		return &PathResult{
			BlockedBy: dest.Occupant,
			Reason:    "destination is occupied",
		}
	}

	open := &nodeHeap{}
	heap.Init(open)
	seq := 0
	start := &pathNode{pos: from, h: g.heuristic(from, to), seq: seq}
	start.f = start.h
	heap.Push(open, start)

	bestG := map[searchState]int{{pos: from}: 0}
	closed := map[searchState]bool{}

	for open.Len() > 0 {
		current := heap.Pop(open).(*pathNode)
		state := g.stateFor(current)
		if closed[state] {
			continue
		}
		closed[state] = true

		if current.pos == to {
			return &PathResult{
				Found: true,
				Path:  reconstructPath(current),
				Cost:  current.g,
			}
		}

		for _, step := range neighborSteps {
			nx, ny := current.pos.X+step.dx, current.pos.Y+step.dy
			cell := g.GetCell(nx, ny)
			if cell == nil || !cell.IsPassable() {
				continue
			}

			diagonal := step.dx != 0 && step.dy != 0
			stepCost := g.stepCost(cell, diagonal, current.parity)
			newG := current.g + stepCost
			if newG > maxMovement {
				continue
			}

			parity := current.parity
			if diagonal {
				parity ^= 1
			}

			next := searchState{pos: cell.Position, parity: g.parityKey(parity)}
			if prev, seen := bestG[next]; seen && prev <= newG {
				continue
			}
			bestG[next] = newG

			seq++
			node := &pathNode{
				pos:    cell.Position,
				g:      newG,
				h:      g.heuristic(cell.Position, to),
				parity: parity,
				parent: current,
				seq:    seq,
			}
			node.f = node.g + node.h
			heap.Push(open, node)
		}
	}

	return &PathResult{Reason: "No path found"}
}

// ReachableCells floods outward from the origin and returns every cell
// reachable within the movement budget, annotated with its cheapest cost.
// The origin itself is included at cost zero. Results are ordered row by
// row for deterministic output.
func (g *Grid) ReachableCells(origin Position, budget int) []ReachableCell {
	if !g.InBounds(origin.X, origin.Y) {
		return nil
	}

	open := &nodeHeap{}
	heap.Init(open)
	seq := 0
	heap.Push(open, &pathNode{pos: origin})

	bestG := map[searchState]int{{pos: origin}: 0}
	cheapest := map[Position]int{origin: 0}

	for open.Len() > 0 {
		current := heap.Pop(open).(*pathNode)
		if best, seen := bestG[g.stateFor(current)]; seen && current.g > best {
			continue
		}

		for _, step := range neighborSteps {
			nx, ny := current.pos.X+step.dx, current.pos.Y+step.dy
			cell := g.GetCell(nx, ny)
			if cell == nil || !cell.IsPassable() {
				continue
			}

			diagonal := step.dx != 0 && step.dy != 0
			newG := current.g + g.stepCost(cell, diagonal, current.parity)
			if newG > budget {
				continue
			}

			parity := current.parity
			if diagonal {
				parity ^= 1
			}

			next := searchState{pos: cell.Position, parity: g.parityKey(parity)}
			if prev, seen := bestG[next]; seen && prev <= newG {
				continue
			}
			bestG[next] = newG

			if prev, seen := cheapest[cell.Position]; !seen || newG < prev {
				cheapest[cell.Position] = newG
			}

			seq++
			heap.Push(open, &pathNode{pos: cell.Position, g: newG, f: newG, parity: parity, seq: seq})
		}
	}

	cells := make([]ReachableCell, 0, len(cheapest))
	for pos, cost := range cheapest {
		cells = append(cells, ReachableCell{Position: pos, Cost: cost})
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Position.Y != cells[j].Position.Y {
			return cells[i].Position.Y < cells[j].Position.Y
		}
		return cells[i].Position.X < cells[j].Position.X
	})
	return cells
}

// ThreatenedSquares returns every cell within the given melee reach of a
// position, diagonals included. Reach is measured in cells: 1 for ordinary
// melee, 2 for reach weapons.
func (g *Grid) ThreatenedSquares(pos Position, reach int) []Position {
	if reach < 1 || !g.InBounds(pos.X, pos.Y) {
		return nil
	}

	var squares []Position
	for dy := -reach; dy <= reach; dy++ {
		for dx := -reach; dx <= reach; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			x, y := pos.X+dx, pos.Y+dy
			if g.InBounds(x, y) {
				squares = append(squares, Position{X: x, Y: y})
			}
		}
	}
	return squares
}

// heuristic is the straight-line distance under the grid's diagonal rule.
// Chebyshev distance is also admissible for the alternating rule, which
// never costs less than one cell per step.
func (g *Grid) heuristic(from, to Position) int {
	dx := abs(to.X - from.X)
	dy := abs(to.Y - from.Y)
	if dx > dy {
		return dx * CellSize
	}
	return dy * CellSize
}

// stepCost is the cost of entering a cell. Terrain sets the base cost and
// the alternating rule doubles every second diagonal step.
func (g *Grid) stepCost(cell *Cell, diagonal bool, parity int) int {
	cost, _ := cell.Terrain.MovementCost()
	if diagonal && g.diagonal == DiagonalAlternating && parity == 1 {
		cost *= 2
	}
	return cost
}

// stateFor collapses parity under Chebyshev, where it has no effect on cost
func (g *Grid) stateFor(node *pathNode) searchState {
	return searchState{pos: node.pos, parity: g.parityKey(node.parity)}
}

func (g *Grid) parityKey(parity int) int {
	if g.diagonal == DiagonalChebyshev {
		return 0
	}
	return parity
}

func reconstructPath(node *pathNode) []Position {
	var path []Position
	for n := node; n != nil; n = n.parent {
		path = append(path, n.pos)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
