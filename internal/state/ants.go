package state

import (
	"k8s.io/klog/v2"
)

// antAct runs the action of the ant for the current turn.
func (g *GameState) antAct(id InsectID) {
	ant := g.insect(id)
	switch ant.AntKind {
	case Harvester:
		g.food++
		klog.V(2).Infof("%s harvested, food=%d", ant, g.food)

	case Thrower, Short, Long, Scuba, Slow, Scary:
		g.throwAt(ant, g.nearestBee(ant))

	case Queen:
		g.throwAt(ant, g.nearestBee(ant))
		g.doubleBehind(ant)

	case Hungry:
		if ant.cooldown > 0 {
			ant.cooldown--
			return
		}
		p := g.place(ant.Place)
		if len(p.bees) == 0 {
			return
		}
		ant.cooldown = ChewCooldown
		target := g.insect(g.randomBee(p.bees))
		klog.V(2).Infof("%s chews %s", ant, target)
		g.reduceHealth(target.ID, target.Health)

	case Tank:
		g.damageAllBees(ant.Place, ant.Damage)
		g.actContained(ant)

	case Protector:
		g.actContained(ant)

	case Ninja:
		g.damageAllBees(ant.Place, ant.Damage)

	case Fire, Wall:
		// Passive.
	}
}

// actContained delegates the container's action to its contained ant.
func (g *GameState) actContained(container *Insect) {
	if container.contained == NoInsect || g.IsFinished() {
		return
	}
	g.antAct(container.contained)
}

// damageAllBees in the place, iterating over a snapshot of its bees.
func (g *GameState) damageAllBees(placeID PlaceID, amount int) {
	if placeID == NoPlace || amount <= 0 {
		return
	}
	for _, beeID := range g.place(placeID).Bees() {
		g.reduceHealth(beeID, amount)
	}
}

// nearestBee returns a random bee from the nearest place in range, following entrances
// from the ant's place and stopping at the hive. It returns NoInsect if there are none.
func (g *GameState) nearestBee(ant *Insect) InsectID {
	minRange, maxRange := ant.antType.MinRange, ant.antType.MaxRange
	current := ant.Place
	for distance := 0; current != NoPlace && distance <= maxRange; distance++ {
		p := g.place(current)
		if p.IsHive() {
			break
		}
		if distance >= minRange && len(p.bees) > 0 {
			return g.randomBee(p.bees)
		}
		current = p.Entrance
	}
	return NoInsect
}

// randomBee picks one of the bees uniformly. bees must not be empty.
func (g *GameState) randomBee(bees []InsectID) InsectID {
	return bees[g.rng.IntN(len(bees))]
}

// throwAt the target, with the effect of the ant's kind. No-op if target is NoInsect.
func (g *GameState) throwAt(ant *Insect, target InsectID) {
	if target == NoInsect {
		return
	}
	bee := g.insect(target)
	switch ant.AntKind {
	case Slow:
		bee.slowTurns += SlowLength
		klog.V(2).Infof("%s slows %s for %d turns", ant, bee, bee.slowTurns)
	case Scary:
		if !bee.wasScared {
			bee.wasScared = true
			bee.scareTurns = ScareLength
			klog.V(2).Infof("%s scares %s", ant, bee)
		}
	default:
		klog.V(2).Infof("%s throws at %s for %d", ant, bee, ant.Damage)
		g.reduceHealth(target, ant.Damage)
	}
}

// doubleBehind doubles the damage of every ant between the queen and the home base,
// including contained ants.
func (g *GameState) doubleBehind(queen *Insect) {
	if queen.Place == NoPlace {
		return
	}
	for current := g.place(queen.Place).Exit; current != NoPlace; current = g.place(current).Exit {
		p := g.place(current)
		if p.ant == NoInsect {
			continue
		}
		ant := g.insect(p.ant)
		ant.double()
		if contained := ant.Contained(); contained != NoInsect {
			g.insect(contained).double()
		}
	}
}
