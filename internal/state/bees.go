package state

import (
	"k8s.io/klog/v2"
)

// beeAct runs the action of the bee for the current turn: sting the ant blocking its
// place, or move on.
func (g *GameState) beeAct(id InsectID) {
	bee := g.insect(id)
	if bee.slowTurns > 0 {
		bee.slowTurns--
		if g.time%2 == 1 {
			klog.V(2).Infof("%s is slowed", bee)
			return
		}
	}

	p := g.place(bee.Place)
	destination := p.Exit
	if bee.scareTurns > 0 {
		bee.scareTurns--
		destination = p.Entrance
		if destination != NoPlace && g.place(destination).IsHive() {
			destination = NoPlace
		}
	}

	if g.blocked(p) {
		klog.V(2).Infof("%s stings %s", bee, g.insect(p.ant))
		g.reduceHealth(p.ant, bee.Damage)
	} else if bee.Alive() && destination != NoPlace {
		klog.V(2).Infof("%s moves %s -> %s", bee, p, g.place(destination))
		g.moveTo(id, destination)
	}
}

// blocked returns whether the ant slot of the place stops bees. Contained ants don't count.
func (g *GameState) blocked(p *Place) bool {
	return p.ant != NoInsect && g.insect(p.ant).blocksPath()
}

// moveTo moves the insect from its current place to destination.
func (g *GameState) moveTo(id InsectID, destination PlaceID) {
	in := g.insect(id)
	if in.Place != NoPlace {
		g.removeInsect(in.Place, id)
	}
	if destination != NoPlace {
		g.addInsect(destination, id)
	}
}
