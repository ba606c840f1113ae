package driver

import (
	"testing"

	"github.com/sheikhrachel/go-life/model"
)

func TestMonitorDetectsStillLife(t *testing.T) {
	a := model.NewAutomaton(6, 6)
	a.Place(model.Block, 2, 2)
	m := NewMonitor()
	for i := 0; i < 3; i++ {
		m.Observe(a.GetState())
		if err := a.Step(nil); err != nil {
			t.Fatal(err)
		}
	}
	if !m.IsStagnant(a.GetState()) {
		t.Fatal("block should be stagnant")
	}
	m.Reset()
	if m.IsStagnant(a.GetState()) {
		t.Fatal("reset monitor has no history")
	}
}

func TestMonitorDetectsOscillator(t *testing.T) {
	a := model.NewAutomaton(5, 5)
	a.Place(model.Blinker, 1, 2)
	m := NewMonitor()
	for i := 0; i < 4; i++ {
		m.Observe(a.GetState())
		if err := a.Step(nil); err != nil {
			t.Fatal(err)
		}
	}
	if !m.IsStagnant(a.GetState()) {
		t.Fatal("blinker should be detected as a cycle")
	}
}

func TestMonitorGliderIsActive(t *testing.T) {
	a := model.NewAutomaton(30, 30)
	a.Place(model.Glider, 0, 0)
	m := NewMonitor()
	for i := 0; i < 8; i++ {
		m.Observe(a.GetState())
		if err := a.Step(nil); err != nil {
			t.Fatal(err)
		}
		if m.IsStagnant(a.GetState()) {
			t.Fatalf("glider flagged stagnant at generation %d", a.Generation())
		}
	}
}
