// Package statetest provides helper functions to create tests using the colony state.
package statetest

import (
	"fmt"
	. "github.com/janpfeifer/antsGo/internal/state"
	"github.com/janpfeifer/must"
	"math/rand/v2"
	"slices"
)

// Seed used by NewColony, so tests are reproducible.
const Seed = 42

// PlaceName in a Line layout: step 0 is next to the home base.
func PlaceName(step int) string {
	return fmt.Sprintf("p%d", step)
}

// Line returns a LayoutFunc with a single tunnel of length places, named by PlaceName.
// The last place is the bee entrance. The steps listed in water are Water places.
func Line(water ...int) LayoutFunc {
	return func(base PlaceID, register RegisterFunc, _, length int) {
		exit := base
		for step := range length {
			kind := PlaceTunnel
			if slices.Contains(water, step) {
				kind = PlaceWater
			}
			exit = register(PlaceName(step), kind, exit, step == length-1)
		}
	}
}

// NewRand returns a deterministic random number generator.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

// NewColony creates a GameState with a single tunnel of the given length, the plan
// (may be nil) and food. It panics on error.
func NewColony(length int, plan *AssaultPlan, food int, water ...int) *GameState {
	return must.M1(New(Config{
		Plan:    plan,
		Layout:  Line(water...),
		Tunnels: 1,
		Length:  length,
		Food:    food,
		Rand:    NewRand(Seed),
	}))
}

// Recorder is a Listener that keeps all the events received.
type Recorder struct {
	Events []Event
}

// OnEvent implements Listener.
func (r *Recorder) OnEvent(_ *GameState, event Event) {
	r.Events = append(r.Events, event)
}

// Kinds returns the kinds of the recorded events, in order.
func (r *Recorder) Kinds() []EventKind {
	kinds := make([]EventKind, 0, len(r.Events))
	for _, e := range r.Events {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}
