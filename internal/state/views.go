package state

import (
	"github.com/janpfeifer/antsGo/internal/generics"
	"slices"
)

// AntView is a read-only snapshot of an ant.
type AntView struct {
	ID      InsectID
	Type    string
	Place   string
	Health  int
	Damage  int
	Doubled bool

	// Contained is the ant sheltered by this one, if it is a container holding an ant.
	Contained *AntView
}

// BeeView is a read-only snapshot of a bee.
type BeeView struct {
	ID         InsectID
	Type       string
	Place      string
	Health     int
	SlowTurns  int
	ScareTurns int
}

// PlaceView is a read-only snapshot of a place.
type PlaceView struct {
	ID             PlaceID
	Name           string
	Kind           PlaceKind
	Exit, Entrance string
	IsBeeEntrance  bool
	Ant            *AntView
	Bees           []BeeView
}

// Time returns the number of elapsed turns.
func (g *GameState) Time() int { return g.time }

// Food available to the colony.
func (g *GameState) Food() int { return g.food }

// Dimensions given to the layout.
func (g *GameState) Dimensions() (tunnels, length int) { return g.tunnels, g.length }

// RemainingBees is the number of bees not yet defeated, including the ones still in the hive.
func (g *GameState) RemainingBees() int { return g.remaining }

// AntsDeployed is the number of ants deployed since the start of the run.
func (g *GameState) AntsDeployed() int { return g.deployed }

// Catalog returns the ant types the colony can deploy, in display order.
func (g *GameState) Catalog() []*AntType { return slices.Clone(g.catalog) }

// Insect returns a copy of the insect record, or false if id is unknown.
func (g *GameState) Insect(id InsectID) (Insect, bool) {
	if id < 0 || int(id) >= len(g.insects) {
		return Insect{}, false
	}
	return *g.insects[id], true
}

func (g *GameState) placeName(id PlaceID) string {
	if id == NoPlace {
		return ""
	}
	return g.place(id).Name
}

func (g *GameState) antView(id InsectID) *AntView {
	if id == NoInsect {
		return nil
	}
	ant := g.insect(id)
	return &AntView{
		ID:        ant.ID,
		Type:      ant.Name(),
		Place:     g.placeName(ant.Place),
		Health:    ant.Health,
		Damage:    ant.Damage,
		Doubled:   ant.doubled,
		Contained: g.antView(ant.Contained()),
	}
}

func (g *GameState) beeView(id InsectID) BeeView {
	bee := g.insect(id)
	return BeeView{
		ID:         bee.ID,
		Type:       bee.Name(),
		Place:      g.placeName(bee.Place),
		Health:     bee.Health,
		SlowTurns:  bee.slowTurns,
		ScareTurns: bee.scareTurns,
	}
}

// Ants returns the ants in the slots of the registered places, in registration order.
// Contained ants are listed inside their containers.
func (g *GameState) Ants() []AntView {
	return generics.SliceMap(g.antIDs(), func(id InsectID) AntView { return *g.antView(id) })
}

// Bees returns all bees in the registered places, including the ones waiting in the hive.
func (g *GameState) Bees() (views []BeeView) {
	for _, placeID := range g.order {
		for _, id := range g.place(placeID).bees {
			views = append(views, g.beeView(id))
		}
	}
	return
}

// ActiveBees returns the bees released from the hive that are still being counted,
// in the order they act.
func (g *GameState) ActiveBees() []BeeView {
	return generics.SliceMap(g.active, g.beeView)
}

func (g *GameState) placeView(id PlaceID) PlaceView {
	p := g.place(id)
	return PlaceView{
		ID:            p.ID,
		Name:          p.Name,
		Kind:          p.Kind,
		Exit:          g.placeName(p.Exit),
		Entrance:      g.placeName(p.Entrance),
		IsBeeEntrance: p.Entrance == g.hive && p.ID != g.hive,
		Ant:           g.antView(p.ant),
		Bees:          generics.SliceMap(p.bees, g.beeView),
	}
}

// Places returns all registered places, in registration order: the hive comes first.
func (g *GameState) Places() []PlaceView {
	return generics.SliceMap(g.order, g.placeView)
}

// Place returns the view of the named place, or false if it is not registered.
func (g *GameState) Place(name string) (PlaceView, bool) {
	id, found := g.byName[name]
	if !found {
		return PlaceView{}, false
	}
	return g.placeView(id), true
}

// Entrances returns the names of the places where bees enter, in registration order.
func (g *GameState) Entrances() []string {
	return generics.SliceMap(g.entrances, g.placeName)
}

// Tunnels returns, for each bee entrance, the chain of places from the entrance to the
// last place before the home base.
func (g *GameState) Tunnels() [][]PlaceView {
	tunnels := make([][]PlaceView, 0, len(g.entrances))
	for _, entrance := range g.entrances {
		var tunnel []PlaceView
		for current := entrance; current != NoPlace && current != g.base; current = g.place(current).Exit {
			tunnel = append(tunnel, g.placeView(current))
		}
		tunnels = append(tunnels, tunnel)
	}
	return tunnels
}

// Distance returns the number of exits from the named place to the home base, or -1
// if the place is unknown or doesn't lead to the home base.
func (g *GameState) Distance(name string) int {
	id, found := g.byName[name]
	if !found {
		return -1
	}
	for distance := 0; id != NoPlace; distance++ {
		if id == g.base {
			return distance
		}
		id = g.place(id).Exit
	}
	return -1
}
