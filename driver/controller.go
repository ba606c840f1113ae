package driver

import (
	"context"
	"io"
	"log"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-life/model"
	"github.com/sheikhrachel/go-life/rules"
)

const (
	// MinSpeedMS and MaxSpeedMS bound the delay between automatic steps
	MinSpeedMS = 1
	MaxSpeedMS = 1000
	// DefaultSpeedMS is the delay a new controller starts with
	DefaultSpeedMS = 100

	// DefaultDensity is the fill probability used by Randomize
	DefaultDensity = 0.5
)

// ErrSpeedOutOfRange is returned by SetSpeed for values outside [MinSpeedMS, MaxSpeedMS]
var ErrSpeedOutOfRange = errors.New("speed out of range")

// StepHook runs after every generation; returning false stops the timed loop
type StepHook func(generation int, snapshot *model.Grid) bool

// ControllerOption configures a Controller
type ControllerOption func(*Controller)

// WithLogger sets the logger used for loop failures
func WithLogger(l *log.Logger) ControllerOption {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithStepHook sets the hook called after each step
func WithStepHook(h StepHook) ControllerOption {
	return func(c *Controller) { c.onStep = h }
}

/*
Controller drives an Automaton with a RuleSet, manually or from a Clock.

It serializes all access to the automaton and rules, so its methods may be
called from any goroutine while the timed loop runs. A StepHook must not call
Play, Pause, Toggle or SetSpeed.
*/
type Controller struct {
	// ctl serializes clock control; it is never taken by the tick
	ctl   sync.Mutex
	clock *Clock

	mu         sync.Mutex
	automaton  *model.Automaton
	rules      *rules.RuleSet
	speed      int
	err        error
	cancelLoop context.CancelFunc

	onStep StepHook
	logger *log.Logger
}

// NewController returns a paused controller; a nil rs means Conway's rules
func NewController(a *model.Automaton, rs *rules.RuleSet, opts ...ControllerOption) *Controller {
	if rs == nil {
		rs = rules.Conway()
	}
	c := &Controller{
		automaton: a,
		rules:     rs.Clone(),
		speed:     DefaultSpeedMS,
		logger:    log.New(io.Discard, "", 0),
	}
	c.clock = NewClock(c.tick)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) interval() time.Duration {
	return time.Duration(c.speed) * time.Millisecond
}

// step advances one generation and runs the hook outside the lock
func (c *Controller) step() (bool, error) {
	c.mu.Lock()
	if err := c.automaton.Step(c.rules); err != nil {
		c.mu.Unlock()
		return false, err
	}
	gen := c.automaton.Generation()
	var snapshot *model.Grid
	if c.onStep != nil {
		snapshot = c.automaton.GetState()
	}
	c.mu.Unlock()

	if c.onStep == nil {
		return true, nil
	}
	return c.onStep(gen, snapshot), nil
}

func (c *Controller) tick(ctx context.Context) {
	more, err := c.step()
	if err == nil && more {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// start cancels the previous loop under mu, so a live ctx means c.cancelLoop is ours
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		c.err = err
		c.logger.Printf("[tick] stopping loop: %+v", err)
	}
	c.cancelLoop()
}

// Step advances the automaton by one generation
func (c *Controller) Step() error {
	_, err := c.step()
	return errors.WithMessage(err, "[Controller.Step]")
}

// Play starts the timed loop, replacing a running one
func (c *Controller) Play(ctx context.Context) {
	c.ctl.Lock()
	defer c.ctl.Unlock()
	c.start(ctx)
}

func (c *Controller) start(ctx context.Context) {
	loopCtx, cancel := context.WithCancel(ctx)

	c.mu.Lock()
	if c.cancelLoop != nil {
		c.cancelLoop()
	}
	c.cancelLoop = cancel
	c.err = nil
	interval := c.interval()
	c.mu.Unlock()

	c.clock.Start(loopCtx, interval)
}

// Pause stops the timed loop
func (c *Controller) Pause() {
	c.ctl.Lock()
	defer c.ctl.Unlock()
	c.clock.Stop()
}

// Toggle pauses a running loop or starts a stopped one, and reports whether it is now running
func (c *Controller) Toggle(ctx context.Context) bool {
	c.ctl.Lock()
	defer c.ctl.Unlock()

	if c.clock.Running() {
		c.clock.Stop()
		return false
	}
	c.start(ctx)
	return true
}

// Running reports whether the timed loop is active
func (c *Controller) Running() bool {
	return c.clock.Running()
}

// Done returns a channel closed when the current loop stops
func (c *Controller) Done() <-chan struct{} {
	return c.clock.Done()
}

// Speed returns the delay between automatic steps in milliseconds
func (c *Controller) Speed() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.speed
}

// SetSpeed changes the step delay; a running loop is stopped and restarted with it
func (c *Controller) SetSpeed(ctx context.Context, ms int) error {
	if ms < MinSpeedMS || ms > MaxSpeedMS {
		return errors.Wrapf(ErrSpeedOutOfRange, "[SetSpeed] %dms not in [%d, %d]", ms, MinSpeedMS, MaxSpeedMS)
	}

	c.ctl.Lock()
	defer c.ctl.Unlock()

	c.mu.Lock()
	c.speed = ms
	c.mu.Unlock()

	if c.clock.Running() {
		c.clock.Stop()
		c.start(ctx)
	}
	return nil
}

// Err returns the error that stopped the last loop, if any
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Rules returns a copy of the active rule set
func (c *Controller) Rules() *rules.RuleSet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rules.Clone()
}

// SetRules replaces the rule set with a copy of rs
func (c *Controller) SetRules(rs *rules.RuleSet) {
	if rs == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rules = rs.Clone()
}

// SetSurvive updates one survival entry
func (c *Controller) SetSurvive(count int, value bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rules.SetSurvive(count, value)
}

// SetBorn updates one birth entry
func (c *Controller) SetBorn(count int, value bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rules.SetBorn(count, value)
}

// Randomize fills the grid with DefaultDensity
func (c *Controller) Randomize() {
	c.RandomizeWith(DefaultDensity)
}

// RandomizeWith fills the grid with the given probability
func (c *Controller) RandomizeWith(probability float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.automaton.Randomize(probability)
}

// Clear kills every cell
func (c *Controller) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.automaton.Clear()
}

// SetCell sets a single cell, reporting false when out of range
func (c *Controller) SetCell(x, y int, alive bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.automaton.SetCell(x, y, alive)
}

// GetCell returns a cell; ok is false when out of range
func (c *Controller) GetCell(x, y int) (alive, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.automaton.GetCell(x, y)
}

// SetState replaces the grid, reporting false on a size mismatch
func (c *Controller) SetState(g *model.Grid) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.automaton.SetState(g)
}

// Place stamps a pattern onto the grid
func (c *Controller) Place(p model.Pattern, x, y int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.automaton.Place(p, x, y)
}

// State returns a snapshot of the grid
func (c *Controller) State() *model.Grid {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.automaton.GetState()
}

// Generation returns the automaton's step count
func (c *Controller) Generation() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.automaton.Generation()
}

// ResetGeneration zeroes the automaton's step count
func (c *Controller) ResetGeneration() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.automaton.ResetGeneration()
}
