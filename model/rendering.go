package model

import (
	"bufio"
	"io"
	"os"
)

const (
	gridPosBlock = "██"
	gridPosEmpty = "  "

	ansiClearScreen = "\033[H\033[2J"
)

// TerminalRenderer draws snapshots as text blocks; it satisfies Observer
type TerminalRenderer struct {
	Out io.Writer
	// ClearScreen moves the cursor home and wipes the terminal before each frame
	ClearScreen bool
}

// NewTerminalRenderer returns a renderer writing to stdout
func NewTerminalRenderer() *TerminalRenderer {
	return &TerminalRenderer{Out: os.Stdout, ClearScreen: true}
}

// Render writes the grid to the terminal
func (r *TerminalRenderer) Render(g *Grid) {
	out := r.Out
	if out == nil {
		out = os.Stdout
	}
	w := bufio.NewWriter(out)
	if r.ClearScreen {
		w.WriteString(ansiClearScreen)
	}
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			if g.cells[y][x] {
				w.WriteString(gridPosBlock)
			} else {
				w.WriteString(gridPosEmpty)
			}
		}
		w.WriteByte('\n')
	}
	w.Flush()
}
