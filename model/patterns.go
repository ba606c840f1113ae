package model

import "strings"

// Pattern is a small block of cells, rows indexed [y][x]
type Pattern [][]bool

var (
	// Glider travels one cell diagonally every four generations
	Glider = Pattern{
		{false, true, false},
		{false, false, true},
		{true, true, true},
	}
	// Blinker oscillates with period 2
	Blinker = Pattern{
		{true, true, true},
	}
	// Block is a still life
	Block = Pattern{
		{true, true},
		{true, true},
	}
)

var patterns = map[string]Pattern{
	"glider":  Glider,
	"blinker": Blinker,
	"block":   Block,
}

// PatternByName looks up a built-in pattern, case-insensitively
func PatternByName(name string) (Pattern, bool) {
	p, ok := patterns[strings.ToLower(name)]
	return p, ok
}

// Width returns the length of the longest row
func (p Pattern) Width() (w int) {
	for _, row := range p {
		w = max(w, len(row))
	}
	return
}

// Height returns the number of rows
func (p Pattern) Height() int {
	return len(p)
}
