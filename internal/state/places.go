package state

import (
	"github.com/gomlx/exceptions"
	"k8s.io/klog/v2"
	"slices"
)

// PlaceID identifies a place in the GameState arena.
type PlaceID int32

// NoPlace is the null PlaceID: no exit, no entrance or an insect not placed.
const NoPlace PlaceID = -1

// PlaceKind selects the insertion policy of a place.
type PlaceKind uint8

const (
	// PlaceTunnel is a regular place.
	PlaceTunnel PlaceKind = iota

	// PlaceWater destroys non-waterproof insects added to it.
	PlaceWater

	// PlaceHive is where the bees wait for their wave.
	PlaceHive

	// PlaceHomeBase ends the game if a bee gets there.
	PlaceHomeBase
)

var placeKindNames = [...]string{"Tunnel", "Water", "Hive", "HomeBase"}

// String returns the name of the kind.
func (k PlaceKind) String() string {
	return placeKindNames[k]
}

// Names of the special places.
const (
	HiveName     = "Hive"
	HomeBaseName = "Ant Home Base"
)

// Place is a node of the tunnels: it holds at most one ant (possibly a container with
// another ant inside) and any number of bees.
type Place struct {
	ID       PlaceID
	Name     string
	Kind     PlaceKind
	Exit     PlaceID
	Entrance PlaceID

	ant  InsectID
	bees []InsectID
}

// Ant returns the ant in the place slot, or NoInsect. A contained ant is only reachable
// through its container.
func (p *Place) Ant() InsectID { return p.ant }

// Bees returns a copy of the bees in the place.
func (p *Place) Bees() []InsectID { return slices.Clone(p.bees) }

// NumBees in the place.
func (p *Place) NumBees() int { return len(p.bees) }

// IsHive returns whether this is the hive.
func (p *Place) IsHive() bool { return p.Kind == PlaceHive }

// String implements fmt.Stringer.
func (p *Place) String() string { return p.Name }

// newPlace adds a place to the arena, without registering it by name.
func (g *GameState) newPlace(name string, kind PlaceKind) PlaceID {
	id := PlaceID(len(g.places))
	g.places = append(g.places, &Place{
		ID:       id,
		Name:     name,
		Kind:     kind,
		Exit:     NoPlace,
		Entrance: NoPlace,
		ant:      NoInsect,
	})
	return id
}

// place returns the place for the id.
func (g *GameState) place(id PlaceID) *Place {
	return g.places[id]
}

// link sets a.Exit = b and b.Entrance = a.
func (g *GameState) link(a, b PlaceID) {
	g.place(a).Exit = b
	if b != NoPlace {
		g.place(b).Entrance = a
	}
}

// addInsect dispatches to the insertion policy of the place.
func (g *GameState) addInsect(placeID PlaceID, id InsectID) {
	p := g.place(placeID)
	in := g.insect(id)
	switch p.Kind {
	case PlaceHomeBase:
		if in.IsAnt() {
			exceptions.Panicf("cannot add %s to %s", in, p)
		}
		klog.V(2).Infof("%s reached %s", in, p)
		g.lose(BeeReachedBase)
		return
	case PlaceWater:
		g.addTo(p, in)
		if !in.Waterproof {
			klog.V(2).Infof("%s drowned in %s", in, p)
			g.reduceHealth(id, in.Health)
		}
	default:
		g.addTo(p, in)
	}
}

// removeInsect dispatches to the removal policy of the place.
func (g *GameState) removeInsect(placeID PlaceID, id InsectID) {
	p := g.place(placeID)
	in := g.insect(id)
	if in.IsBee() {
		idx := slices.Index(p.bees, id)
		if idx < 0 {
			exceptions.Panicf("%s is not in %s", in, p)
		}
		p.bees = slices.Delete(p.bees, idx, idx+1)
		in.Place = NoPlace
		return
	}
	g.removeAnt(p, in)
}

// addTo places the insect in p, following the containment protocol for ants.
func (g *GameState) addTo(p *Place, in *Insect) {
	if in.IsBee() {
		p.bees = append(p.bees, in.ID)
		in.Place = p.ID
		return
	}
	if p.ant == NoInsect {
		p.ant = in.ID
		in.Place = p.ID
		return
	}
	occupant := g.insect(p.ant)
	switch {
	case occupant.canContain(in):
		occupant.contained = in.ID
		klog.V(2).Infof("%s shelters %s in %s", occupant, in, p)
	case in.canContain(occupant):
		in.contained = occupant.ID
		p.ant = in.ID
		klog.V(2).Infof("%s shelters %s in %s", in, occupant, p)
	default:
		exceptions.Panicf("too many ants in %s: %s cannot join %s", p, in, occupant)
	}
	in.Place = p.ID
}

// removeAnt takes the ant out of p. If it is the outward ant and a container, the
// contained ant takes its slot.
func (g *GameState) removeAnt(p *Place, in *Insect) {
	switch {
	case p.ant == in.ID:
		p.ant = NoInsect
		if in.IsContainer() {
			p.ant = in.contained
			in.contained = NoInsect
		}
	case p.ant == NoInsect:
		exceptions.Panicf("%s is not in %s", in, p)
	default:
		container := g.insect(p.ant)
		if !container.IsContainer() || container.contained != in.ID {
			exceptions.Panicf("%s does not contain %s", container, in)
		}
		container.contained = NoInsect
	}
	in.Place = NoPlace
}

// canAdd returns whether adding the ant to the place would follow the placement
// protocol, without changing anything.
func (g *GameState) canAdd(p *Place, in *Insect) bool {
	switch {
	case p.Kind == PlaceHomeBase || p.Kind == PlaceHive:
		return false
	case p.ant == NoInsect:
		return true
	}
	occupant := g.insect(p.ant)
	return occupant.canContain(in) || in.canContain(occupant)
}
