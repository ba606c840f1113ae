package model

import (
	"math/rand"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-life/rules"
)

// Observer receives a snapshot after every state change
type Observer interface {
	Render(snapshot *Grid)
}

// ObserverFunc adapts a function to the Observer interface
type ObserverFunc func(snapshot *Grid)

// Render calls f(snapshot)
func (f ObserverFunc) Render(snapshot *Grid) { f(snapshot) }

// Option configures an Automaton
type Option func(*Automaton)

// WithObserver registers an observer notified after each state change
func WithObserver(o Observer) Option {
	return func(a *Automaton) {
		if o != nil {
			a.observers = append(a.observers, o)
		}
	}
}

// WithRand sets the random source used by Randomize
func WithRand(rng *rand.Rand) Option {
	return func(a *Automaton) { a.rng = rng }
}

// WithPool shares a buffer pool between automatons
func WithPool(pool *GridPool) Option {
	return func(a *Automaton) {
		if pool != nil {
			a.pool = pool
		}
	}
}

/*
Automaton owns a grid and advances it one generation at a time.

It holds the current generation only. Calls must be serialized by the caller.
*/
type Automaton struct {
	grid       *Grid
	pool       *GridPool
	observers  []Observer
	rng        *rand.Rand
	generation int
}

// NewAutomaton creates an automaton with an all-dead grid of the given size
func NewAutomaton(width, height int, opts ...Option) *Automaton {
	a := &Automaton{
		grid: NewGrid(width, height),
		pool: NewGridPool(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// DefaultAutomaton creates an 80x45 automaton
func DefaultAutomaton(opts ...Option) *Automaton {
	return NewAutomaton(DefaultWidth, DefaultHeight, opts...)
}

// Size returns the grid dimensions
func (a *Automaton) Size() (width, height int) {
	return a.grid.width, a.grid.height
}

// Generation returns the number of steps since construction or the last ResetGeneration
func (a *Automaton) Generation() int {
	return a.generation
}

// ResetGeneration sets the generation counter back to zero
func (a *Automaton) ResetGeneration() {
	a.generation = 0
}

func (a *Automaton) notify() {
	for _, o := range a.observers {
		o.Render(a.grid.Clone())
	}
}

// GetState returns an independent copy of the current grid
func (a *Automaton) GetState() *Grid {
	return a.grid.Clone()
}

// SetState replaces the grid with a copy of g; a nil or mismatched grid is ignored and false returned
func (a *Automaton) SetState(g *Grid) bool {
	if !a.grid.SameSize(g) {
		return false
	}
	a.grid.copyFrom(g)
	a.notify()
	return true
}

// SetCell sets a single cell; out of range coordinates are ignored and false returned
func (a *Automaton) SetCell(x, y int, alive bool) bool {
	if !a.grid.inBounds(x, y) {
		return false
	}
	a.grid.Set(x, y, alive)
	a.notify()
	return true
}

// GetCell returns the cell state; ok is false when (x, y) is not on the grid
func (a *Automaton) GetCell(x, y int) (alive, ok bool) {
	return a.grid.Lookup(x, y)
}

// Clear kills every cell
func (a *Automaton) Clear() {
	a.grid.Clear()
	a.notify()
}

// Randomize sets every cell alive independently with the given probability, clamped to [0, 1]
func (a *Automaton) Randomize(probability float64) {
	a.grid.Randomize(min(1, max(0, probability)), a.rng)
	a.notify()
}

// Place stamps the live cells of p with its top-left corner at (x, y), clipped to the grid
func (a *Automaton) Place(p Pattern, x, y int) {
	for dy, row := range p {
		for dx, alive := range row {
			if alive {
				a.grid.Set(x+dx, y+dy, true)
			}
		}
	}
	a.notify()
}

/*
Step computes the next generation under rs and swaps it in.

Every neighbor read uses the pre-step grid; the new generation is built in a
separate buffer. A nil rs means Conway's rules. An evaluation error leaves the
grid unchanged.
*/
func (a *Automaton) Step(rs *rules.RuleSet) error {
	if rs == nil {
		rs = rules.Conway()
	}

	next := a.pool.Get(a.grid.width, a.grid.height)
	if err := a.grid.nextGeneration(next, rs); err != nil {
		a.pool.Put(next)
		return errors.WithMessagef(err, "[Step] generation %d", a.generation)
	}

	prev := a.grid
	a.grid = next
	a.pool.Put(prev)
	a.generation++
	a.notify()
	return nil
}
