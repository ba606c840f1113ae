package driver

import "github.com/sheikhrachel/go-life/model"

// historySize is how many recent generations are kept for cycle detection
const historySize = 5

// Monitor detects grids that stopped changing or cycle with a short period
type Monitor struct {
	history []string
}

// NewMonitor returns an empty monitor
func NewMonitor() *Monitor {
	return &Monitor{}
}

// Observe records g's hash, keeping the last historySize entries
func (m *Monitor) Observe(g *model.Grid) {
	m.history = append(m.history, g.GetGridHash())
	if len(m.history) > historySize {
		m.history = m.history[1:]
	}
}

// IsStagnant reports whether g repeats one of the last three observed generations
func (m *Monitor) IsStagnant(g *model.Grid) bool {
	if len(m.history) < 3 {
		return false
	}

	currentHash := g.GetGridHash()
	for i := 1; i <= 3; i++ {
		if m.history[len(m.history)-i] == currentHash {
			return true
		}
	}
	return false
}

// Reset forgets all observed generations
func (m *Monitor) Reset() {
	m.history = nil
}
