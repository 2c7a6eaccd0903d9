package state

import (
	"fmt"
	"github.com/gomlx/exceptions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"math/rand/v2"
	"testing"
)

// lineLayout is a single tunnel, "p0" next to the home base and the entrance at the far end.
func lineLayout(base PlaceID, register RegisterFunc, _, length int) {
	exit := base
	for step := range length {
		exit = register(fmt.Sprintf("p%d", step), PlaceTunnel, exit, step == length-1)
	}
}

func newLine(t *testing.T, length int) *GameState {
	g, err := New(Config{Layout: lineLayout, Tunnels: 1, Length: length, Food: 100, Rand: rand.New(rand.NewPCG(1, 2))})
	require.NoError(t, err)
	return g
}

// putBee creates an active bee directly in the named place.
func putBee(g *GameState, placeName string, kind BeeKind, health int) *Insect {
	id := g.newBee(BeeSpec{Kind: kind, Health: health})
	g.addInsect(g.byName[placeName], id)
	g.active = append(g.active, id)
	g.remaining++
	return g.insect(id)
}

// putAnt creates an ant directly in the named place, for free.
func putAnt(g *GameState, placeName, typeName string) *Insect {
	id := g.newAnt(AntTypeByName(typeName))
	g.addInsect(g.byName[placeName], id)
	return g.insect(id)
}

func TestLink(t *testing.T) {
	g := newLine(t, 4)
	for _, id := range g.order[1:] {
		p := g.place(id)
		if p.Exit != g.base {
			assert.Equal(t, id, g.place(p.Exit).Entrance, "%s exit %s", p, g.place(p.Exit))
		}
	}
	assert.Equal(t, g.hive, g.place(g.byName["p3"]).Entrance)
	assert.Equal(t, g.base, g.place(g.byName["p0"]).Exit)

	a, b := g.newPlace("a", PlaceTunnel), g.newPlace("b", PlaceTunnel)
	g.link(a, b)
	assert.Equal(t, b, g.place(a).Exit)
	assert.Equal(t, a, g.place(b).Entrance)
}

func TestThrowerRanges(t *testing.T) {
	for _, tc := range []struct {
		antType  string
		beeSteps []int
		hit      int // Index in beeSteps of the bee that should be hit, -1 for none.
	}{
		{"Thrower", []int{7}, 0},
		{"Thrower", []int{4, 2}, 1},
		{"Short", []int{3}, 0},
		{"Short", []int{4}, -1},
		{"Short", []int{2, 1}, 1},
		{"Long", []int{4}, -1},
		{"Long", []int{5}, 0},
		{"Long", []int{2, 6}, 1},
		{"Long", []int{}, -1},
	} {
		t.Run(fmt.Sprintf("%s-%v", tc.antType, tc.beeSteps), func(t *testing.T) {
			g := newLine(t, 10)
			ant := putAnt(g, "p0", tc.antType)
			var bees []*Insect
			for _, step := range tc.beeSteps {
				bees = append(bees, putBee(g, fmt.Sprintf("p%d", step), BasicBee, 5))
			}
			g.antAct(ant.ID)
			for ii, bee := range bees {
				if ii == tc.hit {
					assert.Equal(t, 4, bee.Health, "bee at p%d should be hit", tc.beeSteps[ii])
				} else {
					assert.Equal(t, 5, bee.Health, "bee at p%d should not be hit", tc.beeSteps[ii])
				}
			}
		})
	}
}

func TestThrowerStopsAtHive(t *testing.T) {
	g := newLine(t, 2)
	ant := putAnt(g, "p0", "Thrower")
	id := g.newBee(BeeSpec{Kind: BasicBee, Health: 3})
	g.addInsect(g.hive, id)
	g.antAct(ant.ID)
	assert.Equal(t, 3, g.insect(id).Health)
}

func TestContainers(t *testing.T) {
	g := newLine(t, 3)
	p0 := g.place(g.byName["p0"])

	// Container first, then the ant it shelters.
	protector := putAnt(g, "p0", "Protector")
	thrower := putAnt(g, "p0", "Thrower")
	assert.Equal(t, protector.ID, p0.Ant())
	assert.Equal(t, thrower.ID, protector.Contained())
	assert.Equal(t, p0.ID, thrower.Place)

	// Full container can't take another ant.
	err := exceptions.TryCatch[error](func() { _, _ = g.Deploy("p0", "Harvester") })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too many ants")
	assert.False(t, g.CanDeploy("p0", "Harvester"))

	// Ant first, then the container.
	p1 := g.place(g.byName["p1"])
	harvester := putAnt(g, "p1", "Harvester")
	tank := putAnt(g, "p1", "Tank")
	assert.Equal(t, tank.ID, p1.Ant())
	assert.Equal(t, harvester.ID, tank.Contained())

	// Two containers don't merge.
	putAnt(g, "p2", "Protector")
	assert.False(t, g.CanDeploy("p2", "Tank"))
	require.Panics(t, func() { _, _ = g.Deploy("p2", "Tank") })

	// Contained ants act through their container.
	bee := putBee(g, "p1", BasicBee, 10)
	food := g.food
	g.antAct(tank.ID)
	assert.Equal(t, 9, bee.Health, "only the tank damages the bee, the harvester has no damage")
	assert.Equal(t, food+1, g.food, "contained harvester should produce food")

	// Bees sting the container, and its death promotes the contained ant.
	g.beeAct(bee.ID)
	g.beeAct(bee.ID)
	assert.False(t, tank.Alive())
	assert.Equal(t, harvester.ID, p1.Ant())
	assert.Equal(t, p1.ID, harvester.Place)
	assert.Equal(t, NoPlace, tank.Place)

	// Removing a contained ant leaves the container.
	g.removeInsect(p0.ID, thrower.ID)
	assert.Equal(t, protector.ID, p0.Ant())
	assert.Equal(t, NoInsect, protector.Contained())
}

func TestFireReflectsDamage(t *testing.T) {
	g := newLine(t, 2)
	fire := putAnt(g, "p0", "Fire")
	b1 := putBee(g, "p0", BasicBee, 10)
	b2 := putBee(g, "p0", BasicBee, 2)
	b3 := putBee(g, "p0", BasicBee, 5)
	other := putBee(g, "p1", BasicBee, 5)

	// Non-lethal: reflects the damage taken.
	g.reduceHealth(fire.ID, 1)
	assert.Equal(t, 2, fire.Health)
	assert.Equal(t, []int{9, 1, 4}, []int{b1.Health, b2.Health, b3.Health})

	// Lethal: adds its own damage, and every bee of the snapshot is hit even as some die.
	g.reduceHealth(fire.ID, 2)
	assert.False(t, fire.Alive())
	assert.Equal(t, 4, b1.Health)
	assert.False(t, b2.Alive())
	assert.False(t, b3.Alive())
	assert.Equal(t, []InsectID{b1.ID}, g.place(g.byName["p0"]).Bees())
	assert.Equal(t, NoInsect, g.place(g.byName["p0"]).Ant())
	assert.Equal(t, 5, other.Health)
}

func TestBossDamageCap(t *testing.T) {
	g := newLine(t, 2)
	boss := putBee(g, "p0", Boss, 20)
	g.reduceHealth(boss.ID, 10)
	assert.Equal(t, 12, boss.Health)
	g.reduceHealth(boss.ID, 3)
	assert.Equal(t, 9, boss.Health)

	// The Hungry ant can't swallow a Boss in one bite.
	hungry := putAnt(g, "p0", "Hungry")
	g.antAct(hungry.ID)
	assert.Equal(t, 1, boss.Health)
}

func TestHungry(t *testing.T) {
	g := newLine(t, 2)
	hungry := putAnt(g, "p0", "Hungry")
	g.antAct(hungry.ID) // No bees: nothing to chew, no cooldown.
	assert.Equal(t, 0, hungry.cooldown)

	first := putBee(g, "p0", Wasp, 3)
	g.antAct(hungry.ID)
	assert.False(t, first.Alive())
	assert.Equal(t, ChewCooldown, hungry.cooldown)

	second := putBee(g, "p0", BasicBee, 3)
	for range ChewCooldown {
		g.antAct(hungry.ID)
		assert.Equal(t, 3, second.Health, "digesting")
	}
	g.antAct(hungry.ID)
	assert.False(t, second.Alive())
}

func TestQueenDoublesAntsBehind(t *testing.T) {
	g := newLine(t, 6)
	front := putAnt(g, "p5", "Thrower")
	queen := putAnt(g, "p3", "Queen")
	behind := putAnt(g, "p1", "Thrower")
	protector := putAnt(g, "p0", "Protector")
	contained := putAnt(g, "p0", "Short")

	g.antAct(queen.ID)
	assert.Equal(t, 1, front.Damage)
	assert.Equal(t, 1, queen.Damage)
	assert.Equal(t, 2, behind.Damage)
	assert.True(t, behind.Doubled())
	assert.True(t, protector.Doubled())
	assert.Equal(t, 2, contained.Damage)

	// Doubling happens only once per ant, also with a second queen.
	queen2 := putAnt(g, "p2", "Queen")
	g.antAct(queen.ID)
	g.antAct(queen2.ID)
	assert.Equal(t, 2, queen2.Damage)
	assert.Equal(t, 2, behind.Damage)
	assert.Equal(t, 2, contained.Damage)

	// Losing the queen loses the game.
	g.reduceHealth(queen.ID, 1)
	assert.Equal(t, AntsLose, g.Outcome())
	assert.Equal(t, QueenDied, g.LossReason())
}

func TestNinjaLetsBeesPass(t *testing.T) {
	g := newLine(t, 3)
	ninja := putAnt(g, "p1", "Ninja")
	bee := putBee(g, "p1", BasicBee, 3)
	other := putBee(g, "p2", BasicBee, 3)
	g.antAct(ninja.ID)
	assert.Equal(t, 2, bee.Health)
	assert.Equal(t, 3, other.Health)

	g.beeAct(bee.ID)
	assert.Equal(t, g.byName["p0"], bee.Place)
	assert.Equal(t, 1, ninja.Health)
}

func TestSlow(t *testing.T) {
	g := newLine(t, 4)
	slow := putAnt(g, "p0", "Slow")
	bee := putBee(g, "p2", BasicBee, 3)
	g.antAct(slow.ID)
	assert.Equal(t, 3, bee.Health, "Slow doesn't damage")
	assert.Equal(t, SlowLength, bee.slowTurns)
	g.antAct(slow.ID)
	assert.Equal(t, 2*SlowLength, bee.slowTurns, "slow effects add up")

	// On odd turns the slowed bee doesn't act.
	g.time = 1
	g.beeAct(bee.ID)
	assert.Equal(t, g.byName["p2"], bee.Place)
	assert.Equal(t, 2*SlowLength-1, bee.slowTurns)

	// On even turns it does.
	g.time = 2
	g.beeAct(bee.ID)
	assert.Equal(t, g.byName["p1"], bee.Place)
	assert.Equal(t, 2*SlowLength-2, bee.slowTurns)
}

func TestScary(t *testing.T) {
	g := newLine(t, 4)
	scary := putAnt(g, "p0", "Scary")
	bee := putBee(g, "p2", BasicBee, 3)
	g.antAct(scary.ID)
	assert.Equal(t, 3, bee.Health, "Scary doesn't damage")
	assert.True(t, bee.Scared())
	assert.Equal(t, ScareLength, bee.scareTurns)

	// Walks backwards, but never into the hive.
	g.beeAct(bee.ID)
	assert.Equal(t, g.byName["p3"], bee.Place)
	g.beeAct(bee.ID)
	assert.Equal(t, g.byName["p3"], bee.Place)
	assert.Equal(t, 0, bee.scareTurns)

	// Then it walks forward again, and can't be scared twice.
	g.beeAct(bee.ID)
	assert.Equal(t, g.byName["p2"], bee.Place)
	g.antAct(scary.ID)
	assert.Equal(t, 0, bee.scareTurns)

	// A blocked scared bee still stings.
	wasp := putBee(g, "p1", Wasp, 3)
	wall := putAnt(g, "p1", "Wall")
	wasp.scareTurns = 1
	g.beeAct(wasp.ID)
	assert.Equal(t, g.byName["p1"], wasp.Place)
	assert.Equal(t, 2, wall.Health)
}

func TestBeeReachingBase(t *testing.T) {
	g := newLine(t, 1)
	bee := putBee(g, "p0", BasicBee, 3)
	g.beeAct(bee.ID)
	assert.Equal(t, AntsLose, g.Outcome())
	assert.Equal(t, BeeReachedBase, g.LossReason())
	assert.Equal(t, NoPlace, bee.Place)
	assert.Empty(t, g.place(g.base).bees)

	// Only the first outcome counts.
	g.win()
	assert.Equal(t, AntsLose, g.Outcome())
	require.Panics(t, func() { g.addInsect(g.base, g.newAnt(AntTypes[0])) })
}
