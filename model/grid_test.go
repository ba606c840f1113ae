package model

import (
	"bytes"
	"strings"
	"testing"
)

func fullGrid(w, h int) *Grid {
	g := NewGrid(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g.Set(x, y, true)
		}
	}
	return g
}

func TestCountNeighborsBoundedEdges(t *testing.T) {
	g := fullGrid(5, 4)
	cases := []struct {
		x, y int
		want int
	}{
		{0, 0, 3},
		{4, 0, 3},
		{0, 3, 3},
		{4, 3, 3},
		{2, 0, 5},
		{0, 2, 5},
		{2, 2, 8},
	}
	for _, tc := range cases {
		if got := g.CountNeighbors(tc.x, tc.y); got != tc.want {
			t.Fatalf("CountNeighbors(%d,%d) = %d, expected %d", tc.x, tc.y, got, tc.want)
		}
	}
}

func TestCountNeighborsIgnoresSelfAndWrap(t *testing.T) {
	g := NewGrid(5, 5)
	g.Set(0, 0, true)
	g.Set(4, 4, true) // would be a neighbor of (0,0) on a torus
	g.Set(4, 0, true)
	if got := g.CountNeighbors(0, 0); got != 0 {
		t.Fatalf("CountNeighbors(0,0) = %d, expected 0", got)
	}
	g.Set(1, 1, true)
	if got := g.CountNeighbors(0, 0); got != 1 {
		t.Fatalf("CountNeighbors(0,0) = %d, expected 1", got)
	}
}

func TestNewGridFromRows(t *testing.T) {
	g, err := NewGridFromRows([][]bool{
		{true, false, false},
		{false, false, true},
	})
	if err != nil {
		t.Fatal(err)
	}
	if g.GetWidth() != 3 || g.GetHeight() != 2 {
		t.Fatalf("size %dx%d, expected 3x2", g.GetWidth(), g.GetHeight())
	}
	if !g.Get(0, 0) || !g.Get(2, 1) || g.Get(1, 0) {
		t.Fatal("cells not copied in [y][x] order")
	}

	if _, err := NewGridFromRows(nil); err == nil {
		t.Fatal("expected error for empty rows")
	}
	if _, err := NewGridFromRows([][]bool{{true}, {true, false}}); err == nil {
		t.Fatal("expected error for ragged rows")
	}
}

func TestNewGridClampsDimensions(t *testing.T) {
	g := NewGrid(0, -3)
	if g.GetWidth() != 1 || g.GetHeight() != 1 {
		t.Fatalf("size %dx%d, expected 1x1", g.GetWidth(), g.GetHeight())
	}
}

func TestGridHashAndEqual(t *testing.T) {
	a := NewGrid(4, 4)
	b := NewGrid(4, 4)
	if a.GetGridHash() != b.GetGridHash() || !a.Equal(b) {
		t.Fatal("empty grids must match")
	}
	a.Set(1, 2, true)
	if a.GetGridHash() == b.GetGridHash() || a.Equal(b) {
		t.Fatal("different grids must not match")
	}
	c := a.Clone()
	if c.GetGridHash() != a.GetGridHash() || !c.Equal(a) {
		t.Fatal("clone must match")
	}
	if a.Equal(NewGrid(4, 5)) {
		t.Fatal("grids of different sizes are not equal")
	}
}

func TestBoundingBoxTracksEdits(t *testing.T) {
	g := NewGrid(10, 10)
	if g.GetBoundingBoxSize() != 0 {
		t.Fatal("empty grid has no bounding box")
	}
	g.Set(2, 3, true)
	g.Set(4, 7, true)
	if got := g.GetBoundingBoxSize(); got != 15 {
		t.Fatalf("GetBoundingBoxSize() = %d, expected 15", got)
	}
	g.Set(9, 9, true)
	if got := g.GetBoundingBoxSize(); got != 56 {
		t.Fatalf("GetBoundingBoxSize() = %d, expected 56", got)
	}
	g.Clear()
	if g.GetBoundingBoxSize() != 0 {
		t.Fatal("cleared grid has no bounding box")
	}
}

func TestPoolReturnsClearedGrids(t *testing.T) {
	pool := NewGridPool()
	g := pool.Get(3, 3)
	g.Set(1, 1, true)
	pool.Put(g)
	h := pool.Get(4, 2)
	if h.GetWidth() != 4 || h.GetHeight() != 2 || h.CountLivingCells() != 0 {
		t.Fatal("pooled grid not reset")
	}
}

func TestResetClearsReusedRows(t *testing.T) {
	g := NewGrid(3, 3)
	g.Set(2, 2, true)
	if g.GetBoundingBoxSize() != 1 {
		t.Fatal("single live cell should have a 1x1 bounding box")
	}
	g.reset(3, 3)
	if g.CountLivingCells() != 0 || g.GetBoundingBoxSize() != 0 {
		t.Fatal("reset kept cells from the previous generation")
	}
	g.reset(2, 5)
	if g.GetWidth() != 2 || g.GetHeight() != 5 || len(g.cells) != 5 || len(g.cells[4]) != 2 {
		t.Fatalf("reset(2, 5) gave %dx%d", g.GetWidth(), g.GetHeight())
	}
}

func TestTerminalRenderer(t *testing.T) {
	var buf bytes.Buffer
	r := &TerminalRenderer{Out: &buf}
	g := NewGrid(2, 2)
	g.Set(0, 0, true)
	g.Set(1, 1, true)
	r.Render(g)
	want := gridPosBlock + gridPosEmpty + "\n" + gridPosEmpty + gridPosBlock + "\n"
	if buf.String() != want {
		t.Fatalf("Render wrote %q, expected %q", buf.String(), want)
	}

	buf.Reset()
	r.ClearScreen = true
	r.Render(g)
	if !strings.HasPrefix(buf.String(), ansiClearScreen) {
		t.Fatal("ClearScreen must prefix the frame")
	}
}

func TestPatternByName(t *testing.T) {
	p, ok := PatternByName("Glider")
	if !ok || p.Width() != 3 || p.Height() != 3 {
		t.Fatal("glider lookup failed")
	}
	if _, ok := PatternByName("spaceship"); ok {
		t.Fatal("unknown pattern must not resolve")
	}
}
