package model

import (
	"crypto/md5"
	"fmt"
	"math/rand"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-life/rules"
)

const (
	// DefaultWidth is the number of columns of a default grid
	DefaultWidth = 80
	// DefaultHeight is the number of rows of a default grid
	DefaultHeight = 45
)

// Grid is a fixed-size board of cells addressed by (x, y)
type Grid struct {
	width  int
	height int
	cells  [][]bool // [y][x]

	// Bounding box of living cells, computed lazily
	activeBounds struct {
		minX, maxX, minY, maxY int
		empty                  bool
		known                  bool
	}
}

// NewGrid creates a new grid with the specified dimensions
func NewGrid(width, height int) *Grid {
	width, height = max(1, width), max(1, height)
	cells := make([][]bool, height)
	for i := range cells {
		cells[i] = make([]bool, width)
	}
	return &Grid{
		width:  width,
		height: height,
		cells:  cells,
	}
}

// NewGridFromRows builds a grid from rows indexed [y][x]; rows must be non-empty and of equal length
func NewGridFromRows(rows [][]bool) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, errors.New("[NewGridFromRows] empty grid")
	}
	g := NewGrid(len(rows[0]), len(rows))
	for y, row := range rows {
		if len(row) != g.width {
			return nil, errors.Errorf("[NewGridFromRows] row %d has %d cells, expected %d", y, len(row), g.width)
		}
		copy(g.cells[y], row)
	}
	return g, nil
}

// GetWidth returns the width of the grid
func (g *Grid) GetWidth() int {
	return g.width
}

// GetHeight returns the height of the grid
func (g *Grid) GetHeight() int {
	return g.height
}

// SameSize reports whether other has the same dimensions
func (g *Grid) SameSize(other *Grid) bool {
	return other != nil && g.width == other.width && g.height == other.height
}

// reset resizes and clears g for reuse from a GridPool
func (g *Grid) reset(width, height int) {
	g.width = width
	g.height = height
	g.activeBounds.known = false

	// Resize cells if needed
	if len(g.cells) != height {
		g.cells = make([][]bool, height)
	}
	for i := range g.cells {
		if len(g.cells[i]) != width {
			g.cells[i] = make([]bool, width)
		} else {
			clear(g.cells[i])
		}
	}
}

// Clear clears all cells
func (g *Grid) Clear() {
	for y := 0; y < g.height; y++ {
		clear(g.cells[y])
	}
	g.activeBounds.known = true
	g.activeBounds.empty = true
}

func (g *Grid) inBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// Set sets a cell to alive (true) or dead (false); out of range coordinates are ignored
func (g *Grid) Set(x, y int, alive bool) {
	if g.inBounds(x, y) {
		g.cells[y][x] = alive
		g.activeBounds.known = false
	}
}

// Get returns the state of a cell, false when out of range
func (g *Grid) Get(x, y int) bool {
	alive, _ := g.Lookup(x, y)
	return alive
}

// Lookup returns the state of a cell and whether (x, y) lies on the grid
func (g *Grid) Lookup(x, y int) (alive, ok bool) {
	if !g.inBounds(x, y) {
		return false, false
	}
	return g.cells[y][x], true
}

// Clone returns a deep copy of the grid
func (g *Grid) Clone() *Grid {
	c := NewGrid(g.width, g.height)
	c.copyFrom(g)
	return c
}

// copyFrom copies src's cells into g; both must have the same size
func (g *Grid) copyFrom(src *Grid) {
	for y := 0; y < g.height; y++ {
		copy(g.cells[y], src.cells[y])
	}
	g.activeBounds = src.activeBounds
}

// Equal reports whether both grids have the same size and cells
func (g *Grid) Equal(other *Grid) bool {
	if !g.SameSize(other) {
		return false
	}
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			if g.cells[y][x] != other.cells[y][x] {
				return false
			}
		}
	}
	return true
}

/*
CountNeighbors counts living cells in the Moore neighborhood of (x, y).

Edges are bounded: positions off the grid count as dead, there is no wraparound.
*/
func (g *Grid) CountNeighbors(x, y int) int {
	count := 0

	// Calculate bounds once, clipped to the grid
	minX := max(0, x-1)
	maxX := min(g.width-1, x+1)
	minY := max(0, y-1)
	maxY := min(g.height-1, y+1)

	for ny := minY; ny <= maxY; ny++ {
		for nx := minX; nx <= maxX; nx++ {
			if nx == x && ny == y {
				continue // Skip the cell itself
			}
			if g.cells[ny][nx] {
				count++
			}
		}
	}

	return count
}

// calculateActiveBounds calculates the bounding box of living cells
func (g *Grid) calculateActiveBounds() {
	b := &g.activeBounds
	b.known = true
	b.empty = true

	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			if !g.cells[y][x] {
				continue
			}
			if b.empty {
				b.minX, b.maxX, b.minY, b.maxY = x, x, y, y
				b.empty = false
				continue
			}
			b.minX = min(b.minX, x)
			b.maxX = max(b.maxX, x)
			b.minY = min(b.minY, y)
			b.maxY = max(b.maxY, y)
		}
	}
}

// GetBoundingBoxSize returns the size of the active region
func (g *Grid) GetBoundingBoxSize() int {
	if !g.activeBounds.known {
		g.calculateActiveBounds()
	}
	if g.activeBounds.empty {
		return 0
	}
	return (g.activeBounds.maxX - g.activeBounds.minX + 1) *
		(g.activeBounds.maxY - g.activeBounds.minY + 1)
}

/*
nextGeneration writes the successor of g under rs into next, which must be a
cleared grid of the same size. g is only read.

When dead cells with no neighbors stay dead (no B0), only the active region
plus a one cell margin can change, so the pass is limited to it.
*/
func (g *Grid) nextGeneration(next *Grid, rs *rules.RuleSet) error {
	minX, maxX, minY, maxY := 0, g.width-1, 0, g.height-1
	if !rs.Born[0] {
		if !g.activeBounds.known {
			g.calculateActiveBounds()
		}
		if g.activeBounds.empty {
			next.Clear()
			return nil
		}
		minX = max(0, g.activeBounds.minX-1)
		maxX = min(g.width-1, g.activeBounds.maxX+1)
		minY = max(0, g.activeBounds.minY-1)
		maxY = min(g.height-1, g.activeBounds.maxY+1)
	}

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			alive, err := rs.Evaluate(g.cells[y][x], g.CountNeighbors(x, y))
			if err != nil {
				return errors.WithMessagef(err, "[nextGeneration] cell (%d,%d)", x, y)
			}
			next.cells[y][x] = alive
		}
	}
	next.activeBounds.known = false
	return nil
}

// CountLivingCells returns the total number of living cells
func (g *Grid) CountLivingCells() (count int) {
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			if g.cells[y][x] {
				count++
			}
		}
	}
	return
}

// GetGridHash returns an MD5 hash of the current grid state
func (g *Grid) GetGridHash() string {
	h := md5.New()
	row := make([]byte, g.width)
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			row[x] = 0
			if g.cells[y][x] {
				row[x] = 1
			}
		}
		h.Write(row)
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

// Randomize sets every cell alive with probability density, using rng when given
func (g *Grid) Randomize(density float64, rng *rand.Rand) {
	float := rand.Float64
	if rng != nil {
		float = rng.Float64
	}
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			g.cells[y][x] = float() < density
		}
	}
	g.activeBounds.known = false
}
