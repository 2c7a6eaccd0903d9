package state

import (
	"github.com/gomlx/exceptions"
	"github.com/janpfeifer/antsGo/internal/generics"
	"k8s.io/klog/v2"
	"slices"
)

// BeeSpec describes one bee of a wave.
type BeeSpec struct {
	Kind   BeeKind
	Health int
}

// AssaultPlan is the bees' plan of attack: waves of bees indexed by the turn they are released.
type AssaultPlan struct {
	waves map[int][]BeeSpec
}

// NewAssaultPlan returns an empty plan.
func NewAssaultPlan() *AssaultPlan {
	return &AssaultPlan{waves: make(map[int][]BeeSpec)}
}

// AddWave appends count bees of the given kind and health to the wave released at turn.
// It returns the plan itself, so calls can be chained.
func (plan *AssaultPlan) AddWave(kind BeeKind, health, turn, count int) *AssaultPlan {
	if turn < 0 || count < 0 || health <= 0 || kind >= NumBeeKinds {
		exceptions.Panicf("invalid wave: %d x %s(health=%d) at turn %d", count, kind, health, turn)
	}
	for range count {
		plan.waves[turn] = append(plan.waves[turn], BeeSpec{Kind: kind, Health: health})
	}
	return plan
}

// Turns returns the turns that have bees scheduled, in increasing order.
func (plan *AssaultPlan) Turns() []int {
	return slices.Collect(generics.SortedKeys(plan.waves))
}

// Wave returns a copy of the bees scheduled for the turn.
func (plan *AssaultPlan) Wave(turn int) []BeeSpec {
	return slices.Clone(plan.waves[turn])
}

// NumBees in the whole plan.
func (plan *AssaultPlan) NumBees() (count int) {
	for _, wave := range plan.waves {
		count += len(wave)
	}
	return
}

// releaseWave moves the bees scheduled for the current turn from the hive to random
// entrances, and makes them active.
func (g *GameState) releaseWave() {
	wave := g.waves[g.time]
	if len(wave) == 0 {
		return
	}
	klog.V(1).Infof("Turn %d: releasing %d bees", g.time, len(wave))
	for _, id := range wave {
		bee := g.insect(id)
		if bee.BeeKind == Boss {
			g.notify(EventBossArrived, id, "Boss Bee is Here!")
		}
		entrance := g.entrances[g.rng.IntN(len(g.entrances))]
		g.moveTo(id, entrance)
		g.active = append(g.active, id)
	}
	delete(g.waves, g.time)
}
