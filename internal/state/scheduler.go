package state

import (
	"context"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Phase of the turn the scheduler will run next.
type Phase uint8

const (
	// PhaseRelease releases the wave of the current turn from the hive.
	PhaseRelease Phase = iota

	// PhaseAnts makes every placed ant act, then increments the turn counter.
	PhaseAnts

	// PhaseBees makes every active bee act, then checks whether the ants won.
	PhaseBees

	// PhaseFinished is set once the run reached its outcome.
	PhaseFinished
)

var phaseNames = [...]string{"Release", "Ants", "Bees", "Finished"}

// String returns the phase name.
func (p Phase) String() string {
	return phaseNames[p]
}

// SuspensionPoint where Step returns control to the driver.
type SuspensionPoint uint8

const (
	// SuspendNone is returned when the run is finished.
	SuspendNone SuspensionPoint = iota

	// SuspendDeploy is reached after the hive released its wave, before the ants act:
	// this is when the driver deploys or removes ants.
	SuspendDeploy

	// SuspendAnimate is reached after the ants acted, before the bees act.
	SuspendAnimate
)

var suspensionNames = [...]string{"None", "Deploy", "Animate"}

// String returns the suspension point name.
func (s SuspensionPoint) String() string {
	return suspensionNames[s]
}

// Phase returns the phase that will run on the next call to Step.
func (g *GameState) Phase() Phase { return g.phase }

// Step runs the simulation until the next suspension point, and returns it. Once the
// run is finished it returns SuspendNone, and Outcome tells how it ended.
//
// Each turn is: hive release, SuspendDeploy, ants act, time advances, SuspendAnimate,
// bees act, then the check for a win.
func (g *GameState) Step() SuspensionPoint {
	for {
		if g.IsFinished() {
			g.finish()
			return SuspendNone
		}
		switch g.phase {
		case PhaseRelease:
			g.releaseWave()
			if g.IsFinished() {
				continue
			}
			g.phase = PhaseAnts
			return SuspendDeploy

		case PhaseAnts:
			g.antsTakeActions()
			if g.IsFinished() {
				continue
			}
			g.time++
			g.phase = PhaseBees
			return SuspendAnimate

		case PhaseBees:
			g.beesTakeActions()
			g.phase = PhaseRelease
			if klog.V(1).Enabled() && !g.IsFinished() {
				klog.Infof("Turn %d: food=%d, active bees=%d, remaining bees=%d",
					g.time, g.food, len(g.active), g.remaining)
			}

		case PhaseFinished:
			return SuspendNone
		}
	}
}

// finish moves to PhaseFinished, notifying the listener the first time.
func (g *GameState) finish() {
	if g.phase == PhaseFinished {
		return
	}
	g.phase = PhaseFinished
	if g.outcome == AntsWin {
		g.notify(EventAntsWin, NoInsect, "All bees are vanquished. You win!")
	} else {
		g.notify(EventAntsLose, NoInsect, "The ants lost: %s.", g.lossReason)
	}
}

// antIDs returns the outward ants of the registered places, in registration order.
func (g *GameState) antIDs() []InsectID {
	ids := make([]InsectID, 0, len(g.order))
	for _, placeID := range g.order {
		if ant := g.place(placeID).ant; ant != NoInsect {
			ids = append(ids, ant)
		}
	}
	return ids
}

// antsTakeActions: every ant placed at the start of the phase, with health, acts once.
func (g *GameState) antsTakeActions() {
	for _, id := range g.antIDs() {
		if !g.insect(id).Alive() {
			continue
		}
		g.antAct(id)
		if g.IsFinished() {
			return
		}
	}
}

// beesTakeActions: every active bee with health acts once. Bees out of health leave
// the active set and count down the remaining bees. If no bee remains, the ants win.
func (g *GameState) beesTakeActions() {
	active := g.active
	g.active = make([]InsectID, 0, len(active))
	for ii, id := range active {
		bee := g.insect(id)
		if bee.Alive() {
			g.beeAct(id)
			if g.IsFinished() {
				g.active = append(g.active, active[ii:]...)
				return
			}
		}
		if bee.Alive() {
			g.active = append(g.active, id)
		} else {
			g.remaining--
		}
	}
	if g.remaining == 0 {
		g.win()
	}
}

// Driver is called by Simulate at every suspension point.
type Driver interface {
	// OnSuspend may deploy or remove ants (on SuspendDeploy), or wait for an animation
	// (on SuspendAnimate). An error aborts the simulation.
	OnSuspend(ctx context.Context, g *GameState, point SuspensionPoint) error
}

// DriverFunc adapts a function to a Driver.
type DriverFunc func(ctx context.Context, g *GameState, point SuspensionPoint) error

// OnSuspend implements Driver.
func (fn DriverFunc) OnSuspend(ctx context.Context, g *GameState, point SuspensionPoint) error {
	return fn(ctx, g, point)
}

// Simulate runs Step until the run is finished, calling driver (if not nil) at each
// suspension point. It stops early if ctx is cancelled or the driver returns an error.
func Simulate(ctx context.Context, g *GameState, driver Driver) (Outcome, error) {
	for {
		if err := ctx.Err(); err != nil {
			return g.outcome, errors.Wrapf(err, "simulation interrupted at turn %d", g.time)
		}
		point := g.Step()
		if point == SuspendNone {
			return g.outcome, nil
		}
		if driver == nil {
			continue
		}
		if err := driver.OnSuspend(ctx, g, point); err != nil {
			return g.outcome, errors.WithMessagef(err, "driver failed at turn %d (%s)", g.time, point)
		}
	}
}
