package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"math/rand"
	"time"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-life/driver"
	"github.com/sheikhrachel/go-life/model"
	"github.com/sheikhrachel/go-life/utils"
)

// game bundles the controller with the terminal presentation and restart policy
type game struct {
	cfg        utils.Config
	controller *driver.Controller
	monitor    *driver.Monitor
	stats      *utils.Stats
	rng        *rand.Rand
	out        io.Writer
	logger     *log.Logger

	stagnantCount  int
	lastRestartGen int
	totalGens      int
	lastFrameTime  time.Time
}

// initializeGame sets up the initial game state
func initializeGame(cfg utils.Config, out io.Writer, logger *log.Logger) (*game, error) {
	rs, err := cfg.RuleSet()
	if err != nil {
		return nil, errors.WithMessage(err, "[initializeGame]")
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	g := &game{
		cfg:           cfg,
		monitor:       driver.NewMonitor(),
		stats:         utils.NewStats(),
		rng:           rand.New(rand.NewSource(seed)),
		out:           out,
		logger:        logger,
		lastFrameTime: time.Now(),
	}

	var opts []model.Option
	if cfg.Render {
		opts = append(opts, model.WithObserver(&model.TerminalRenderer{Out: out, ClearScreen: true}))
	}
	automaton := model.NewAutomaton(cfg.Width, cfg.Height, opts...)

	g.controller = driver.NewController(automaton, rs,
		driver.WithLogger(logger),
		driver.WithStepHook(g.onStep),
	)
	if err = g.controller.SetSpeed(context.Background(), cfg.SpeedMS); err != nil {
		return nil, errors.WithMessage(err, "[initializeGame]")
	}
	g.controller.SetState(seedGrid(cfg, g.rng))
	return g, nil
}

// seedGrid builds a starting grid: configured patterns, or random fill plus a few classics
func seedGrid(cfg utils.Config, rng *rand.Rand) *model.Grid {
	a := model.NewAutomaton(cfg.Width, cfg.Height, model.WithRand(rng))

	if len(cfg.Patterns) > 0 {
		for _, p := range cfg.Patterns {
			if pattern, ok := model.PatternByName(p.Name); ok {
				a.Place(pattern, p.X, p.Y)
			}
		}
		return a.GetState()
	}

	a.Randomize(cfg.RandomDensity)
	w, h := a.Size()
	if w >= 10 && h >= 10 {
		a.Place(model.Glider, 5, 5)
		if w >= 20 && h >= 15 {
			a.Place(model.Glider, w-8, 5)
		}
		a.Place(model.Blinker, w/4, h/4)
		if w >= 30 {
			a.Place(model.Blinker, 3*w/4, 3*h/4)
		}
	}
	return a.GetState()
}

// displayGameInfo shows the initial game information
func (g *game) displayGameInfo() {
	state := g.controller.State()
	fmt.Fprintf(g.out, "Rule: %s | Speed: %dms\n", g.controller.Rules(), g.controller.Speed())
	fmt.Fprintf(g.out, "Grid: %dx%d | Initial living cells: %d\n",
		state.GetWidth(), state.GetHeight(), state.CountLivingCells())
	fmt.Fprintln(g.out, "Press Ctrl+C to exit gracefully")
	fmt.Fprintln(g.out)
}

// onStep runs on the clock goroutine after every generation
func (g *game) onStep(generation int, snapshot *model.Grid) bool {
	g.totalGens++
	livingCells, density, status, isStagnant := g.updateGameState(generation, snapshot)

	if isStagnant {
		g.stagnantCount++
	} else {
		g.stagnantCount = 0
	}

	g.displayGameStatus(generation, livingCells, density, status)

	if g.cfg.MaxGenerations > 0 && g.totalGens >= g.cfg.MaxGenerations {
		fmt.Fprintf(g.out, "\nReached maximum generations limit (%d)\n", g.cfg.MaxGenerations)
		return false
	}

	shouldRestart, reason := checkRestartConditions(livingCells, g.stagnantCount, g.cfg)
	switch {
	case shouldRestart && g.cfg.AutoRestart:
		g.restartGame(reason)
	case g.stagnantCount >= 2 && g.stagnantCount < g.cfg.StagnationThreshold:
		g.injectRandomLife(g.cfg.InjectionCount)
	}
	return true
}

// updateGameState updates the monitor and stats and returns status information
func (g *game) updateGameState(generation int, snapshot *model.Grid) (int, float64, string, bool) {
	livingCells := snapshot.CountLivingCells()
	density := float64(livingCells) / float64(snapshot.GetWidth()*snapshot.GetHeight()) * 100

	now := time.Now()
	g.stats.Update(generation, livingCells, now.Sub(g.lastFrameTime))
	g.stats.BoundingBoxSize = snapshot.GetBoundingBoxSize()
	g.lastFrameTime = now

	isStagnant := g.monitor.IsStagnant(snapshot)
	g.monitor.Observe(snapshot)

	status := "Active"
	if isStagnant {
		status = fmt.Sprintf("Stagnant (%d)", g.stagnantCount+1)
	}
	if livingCells == 0 {
		status = "Extinct"
	}

	return livingCells, density, status, isStagnant
}

// displayGameStatus shows the current game status
func (g *game) displayGameStatus(generation, livingCells int, density float64, status string) {
	fmt.Fprintf(g.out, "Gen: %d | Living: %d | Density: %.1f%% | Status: %s | Bounding box: %d cells\n",
		generation, livingCells, density, status, g.stats.BoundingBoxSize)
	fmt.Fprintf(g.out, "Performance: %.1f gen/sec | Avg Pop: %.1f | Runtime: %.1fs\n",
		g.stats.GenerationsPerSecond, g.stats.AveragePopulation, g.stats.Runtime().Seconds())

	if g.totalGens > g.lastRestartGen {
		fmt.Fprintf(g.out, "Generations since restart: %d\n", g.totalGens-g.lastRestartGen)
	}
}

// checkRestartConditions determines if the game should restart
func checkRestartConditions(livingCells, stagnantCount int, cfg utils.Config) (bool, string) {
	if livingCells == 0 {
		return true, "extinction"
	}
	if stagnantCount >= cfg.StagnationThreshold {
		return true, "stagnation detected"
	}
	return false, ""
}

// restartGame reseeds the grid in one state change
func (g *game) restartGame(reason string) {
	fmt.Fprintf(g.out, "Restarting due to %s...\n", reason)
	g.logger.Printf("[restartGame] %s after %d generations", reason, g.totalGens-g.lastRestartGen)

	g.controller.SetState(seedGrid(g.cfg, g.rng))
	g.controller.ResetGeneration()
	g.monitor.Reset()
	g.lastRestartGen = g.totalGens
	g.stagnantCount = 0
}

// injectRandomLife turns on up to count random cells to break a cycle
func (g *game) injectRandomLife(count int) {
	state := g.controller.State()
	for i := 0; i < count; i++ {
		state.Set(g.rng.Intn(state.GetWidth()), g.rng.Intn(state.GetHeight()), true)
	}
	g.controller.SetState(state)
}

// run plays the simulation until ctx is cancelled or the loop stops on its own
func (g *game) run(ctx context.Context) error {
	g.displayGameInfo()
	g.controller.Play(ctx)
	defer g.controller.Pause()

	select {
	case <-ctx.Done():
	case <-g.controller.Done():
	}
	return errors.WithMessage(g.controller.Err(), "[run]")
}

// printFinalStats summarizes the session
func (g *game) printFinalStats() {
	fmt.Fprintf(g.out, "Final stats: %d generations in %.1f seconds\n",
		g.totalGens, g.stats.Runtime().Seconds())
	fmt.Fprintf(g.out, "Average: %.1f gen/sec, %.1f avg population\n",
		g.stats.GenerationsPerSecond, g.stats.AveragePopulation)
}
