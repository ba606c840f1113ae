package main

import (
	"bytes"
	"context"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/sheikhrachel/go-life/utils"
)

func testConfig() utils.Config {
	cfg := utils.DefaultConfig()
	cfg.Width, cfg.Height = 12, 10
	cfg.SpeedMS = 1
	cfg.Seed = 42
	cfg.Render = false
	return cfg
}

func TestCheckRestartConditions(t *testing.T) {
	cfg := testConfig()
	if ok, reason := checkRestartConditions(0, 0, cfg); !ok || reason != "extinction" {
		t.Fatalf("extinct grid: %v %q", ok, reason)
	}
	if ok, reason := checkRestartConditions(5, cfg.StagnationThreshold, cfg); !ok || reason != "stagnation detected" {
		t.Fatalf("stagnant grid: %v %q", ok, reason)
	}
	if ok, _ := checkRestartConditions(5, cfg.StagnationThreshold-1, cfg); ok {
		t.Fatal("active grid should not restart")
	}
}

func TestSeedGridDeterministic(t *testing.T) {
	cfg := testConfig()
	a, err := initializeGame(cfg, io.Discard, log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatal(err)
	}
	b, err := initializeGame(cfg, io.Discard, log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatal(err)
	}
	if !a.controller.State().Equal(b.controller.State()) {
		t.Fatal("same seed produced different starting grids")
	}
}

func TestSeedGridPatterns(t *testing.T) {
	cfg := testConfig()
	cfg.Patterns = []utils.PatternPlacement{{Name: "block", X: 1, Y: 1}, {Name: "blinker", X: 6, Y: 5}}
	g, err := initializeGame(cfg, io.Discard, log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatal(err)
	}
	state := g.controller.State()
	if state.CountLivingCells() != 7 {
		t.Fatalf("expected 7 live cells, got %d", state.CountLivingCells())
	}
	if !state.Get(1, 1) || !state.Get(2, 2) || !state.Get(8, 5) {
		t.Fatal("patterns not placed where configured")
	}
}

func TestRunStopsAtMaxGenerations(t *testing.T) {
	cfg := testConfig()
	cfg.MaxGenerations = 5
	var out bytes.Buffer
	g, err := initializeGame(cfg, &out, log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := g.run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}
	if ctx.Err() != nil {
		t.Fatal("run only returned because of the timeout")
	}
	if g.totalGens != 5 {
		t.Fatalf("totalGens = %d, expected 5", g.totalGens)
	}
	if !strings.Contains(out.String(), "Reached maximum generations limit (5)") {
		t.Fatalf("missing stop message in output:\n%s", out.String())
	}
}

func TestRestartOnExtinction(t *testing.T) {
	cfg := testConfig()
	// a lone cell dies immediately
	cfg.Patterns = []utils.PatternPlacement{{Name: "block", X: 11, Y: 9}}
	var out bytes.Buffer
	g, err := initializeGame(cfg, &out, log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatal(err)
	}
	if err := g.controller.Step(); err != nil {
		t.Fatal(err)
	}
	if g.lastRestartGen != 1 || g.controller.Generation() != 0 {
		t.Fatalf("expected a restart after extinction, lastRestartGen=%d generation=%d",
			g.lastRestartGen, g.controller.Generation())
	}
	if !strings.Contains(out.String(), "Restarting due to extinction") {
		t.Fatalf("missing restart message in output:\n%s", out.String())
	}
}
