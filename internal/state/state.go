// Package state holds the simulation of an ant colony defending its tunnels against
// waves of bees.
//
// All mutable state lives in a GameState: places and insects are kept in arenas and
// refer to each other by PlaceID and InsectID. The turn scheduler (see Step) is driven
// explicitly by the caller, and it stops at two suspension points per turn.
package state

import (
	"fmt"
	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
	"math/rand/v2"
	"strings"
)

var (
	// ErrInsufficientFood is returned by Deploy when the colony can't afford the ant.
	ErrInsufficientFood = errors.New("not enough food")

	// ErrUnknownPlace is returned when a place name is not registered.
	ErrUnknownPlace = errors.New("unknown place")

	// ErrUnknownAntType is returned when an ant type name is not in the colony catalog.
	ErrUnknownAntType = errors.New("unknown ant type")

	// ErrInvalidPlace is returned when deploying to a place that can't hold ants.
	ErrInvalidPlace = errors.New("place can't hold ants")

	// ErrGameOver is returned by Deploy and Remove after the run ended.
	ErrGameOver = errors.New("game is over")
)

// RegisterFunc creates a place, linking it to exit (its next place toward the home base),
// and registers it. Bee entrances get the hive as their entrance.
type RegisterFunc func(name string, kind PlaceKind, exit PlaceID, isBeeEntrance bool) PlaceID

// LayoutFunc builds the tunnels of a colony, using register to create its places.
// Tunnels should end at base.
type LayoutFunc func(base PlaceID, register RegisterFunc, tunnels, length int)

// Config for a new GameState.
type Config struct {
	// Plan of the bee attack. If nil, there are no bees and the ants win after the first turn.
	Plan *AssaultPlan

	// AntTypes are the names of the ant types the colony can deploy. If empty, all AntTypes.
	AntTypes []string

	// Layout builds the places, with Tunnels and Length as its dimensions.
	Layout          LayoutFunc
	Tunnels, Length int

	// Food the colony starts with. If 0, DefaultFood is used. Use NoFood to start
	// with no food; other negative values are rejected.
	Food int

	// Rand is the source of randomness. If nil, a randomly seeded one is used.
	Rand *rand.Rand

	// Listener receives notifications. Optional.
	Listener Listener
}

// GameState is the colony and everything in it. It is not safe for concurrent use: it is
// owned by whoever drives Step.
type GameState struct {
	time, food      int
	tunnels, length int

	places     []*Place
	order      []PlaceID // Registered places, in registration order, starting with the hive.
	byName     map[string]PlaceID
	entrances  []PlaceID
	hive, base PlaceID

	insects   []*Insect
	deployed  int
	waves     map[int][]InsectID
	active    []InsectID
	remaining int

	catalog []*AntType

	phase      Phase
	outcome    Outcome
	lossReason LossReason

	rng      *rand.Rand
	listener Listener
}

// New creates a GameState: it builds the layout and puts all the bees of the plan
// in the hive.
func New(cfg Config) (*GameState, error) {
	if cfg.Layout == nil {
		return nil, errors.New("state.Config.Layout is required")
	}
	g := &GameState{
		food:     cfg.Food,
		tunnels:  cfg.Tunnels,
		length:   cfg.Length,
		byName:   make(map[string]PlaceID),
		waves:    make(map[int][]InsectID),
		rng:      cfg.Rand,
		listener: cfg.Listener,
	}
	switch {
	case g.food == 0:
		g.food = DefaultFood
	case g.food == NoFood:
		g.food = 0
	case g.food < 0:
		return nil, errors.Errorf("invalid initial food %d", cfg.Food)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if g.listener == nil {
		g.listener = noListener{}
	}

	// Catalog of deployable ants.
	if len(cfg.AntTypes) == 0 {
		g.catalog = AntTypes
	} else {
		for _, name := range cfg.AntTypes {
			antType := AntTypeByName(name)
			if antType == nil {
				return nil, errors.Wrapf(ErrUnknownAntType, "%q", name)
			}
			g.catalog = append(g.catalog, antType)
		}
	}

	// Places: the hive is registered first, the home base is not registered.
	g.base = g.newPlace(HomeBaseName, PlaceHomeBase)
	g.hive = g.newPlace(HiveName, PlaceHive)
	g.register(g.hive)
	cfg.Layout(g.base, g.registerNew, cfg.Tunnels, cfg.Length)
	if len(g.entrances) == 0 {
		return nil, errors.New("layout registered no bee entrances")
	}

	// Bees wait in the hive until their wave is released.
	if cfg.Plan != nil {
		for _, turn := range cfg.Plan.Turns() {
			for _, spec := range cfg.Plan.Wave(turn) {
				id := g.newBee(spec)
				g.addInsect(g.hive, id)
				g.waves[turn] = append(g.waves[turn], id)
			}
		}
	}
	g.remaining = len(g.place(g.hive).bees)
	klog.V(1).Infof("New colony: %d places, %d entrances, %d bees, %d food",
		len(g.order), len(g.entrances), g.remaining, g.food)
	return g, nil
}

func (g *GameState) register(id PlaceID) {
	p := g.place(id)
	if _, found := g.byName[p.Name]; found {
		exceptions.Panicf("place %q registered twice", p.Name)
	}
	g.byName[p.Name] = id
	g.order = append(g.order, id)
}

// registerNew implements RegisterFunc.
func (g *GameState) registerNew(name string, kind PlaceKind, exit PlaceID, isBeeEntrance bool) PlaceID {
	if kind != PlaceTunnel && kind != PlaceWater {
		exceptions.Panicf("layouts can only register tunnel or water places, got %s for %q", kind, name)
	}
	id := g.newPlace(name, kind)
	if exit != NoPlace {
		g.link(id, exit)
	}
	g.register(id)
	if isBeeEntrance {
		g.place(id).Entrance = g.hive
		g.entrances = append(g.entrances, id)
	}
	return id
}

// insect returns the arena record for id.
func (g *GameState) insect(id InsectID) *Insect {
	return g.insects[id]
}

// newAnt creates an ant of the given type, not yet placed.
func (g *GameState) newAnt(antType *AntType) InsectID {
	id := InsectID(len(g.insects))
	g.insects = append(g.insects, &Insect{
		ID:         id,
		Family:     FamilyAnt,
		AntKind:    antType.Kind,
		Health:     antType.Health,
		FullHealth: antType.Health,
		Damage:     antType.Damage,
		Waterproof: antType.Waterproof,
		Place:      NoPlace,
		antType:    antType,
		contained:  NoInsect,
	})
	return id
}

// newBee creates a bee from its spec, not yet placed.
func (g *GameState) newBee(spec BeeSpec) InsectID {
	beeType := BeeTypes[spec.Kind]
	id := InsectID(len(g.insects))
	g.insects = append(g.insects, &Insect{
		ID:         id,
		Family:     FamilyBee,
		BeeKind:    spec.Kind,
		Health:     spec.Health,
		FullHealth: spec.Health,
		Damage:     beeType.Damage,
		Waterproof: true,
		Place:      NoPlace,
		contained:  NoInsect,
		damageCap:  beeType.DamageCap,
	})
	return id
}

// reduceHealth applies damage to the insect, with the variant specific effects, and
// removes it from its place if it runs out of health.
func (g *GameState) reduceHealth(id InsectID, amount int) {
	in := g.insect(id)
	if in.IsBee() && in.damageCap > 0 {
		amount = min(amount, in.damageCap)
	}
	if in.IsAnt() && in.AntKind == Fire && in.Place != NoPlace {
		reflected := amount
		if in.Health-amount <= 0 {
			reflected += in.Damage
		}
		for _, beeID := range g.place(in.Place).Bees() {
			g.reduceHealth(beeID, reflected)
		}
	}

	wasAlive := in.Alive()
	in.Health -= amount
	if wasAlive && !in.Alive() {
		klog.V(2).Infof("%s died", in)
		g.notify(EventInsectDied, id, "%s died", in.Name())
		if in.Place != NoPlace {
			g.removeInsect(in.Place, id)
		}
		if in.IsAnt() && in.AntKind == Queen {
			g.lose(QueenDied)
		}
	}
}

// lookupPlace by name.
func (g *GameState) lookupPlace(name string) (*Place, error) {
	id, found := g.byName[name]
	if !found {
		return nil, errors.Wrapf(ErrUnknownPlace, "%q", name)
	}
	return g.place(id), nil
}

// lookupAntType in the colony catalog.
func (g *GameState) lookupAntType(name string) (*AntType, error) {
	for _, antType := range g.catalog {
		if antType.Name == name {
			return antType, nil
		}
	}
	return nil, errors.Wrapf(ErrUnknownAntType, "%q", name)
}

// CanDeploy returns whether an ant of the given type can be deployed in the given place
// right now: the names are known, the colony can afford it and the place slot can take it.
func (g *GameState) CanDeploy(placeName, antTypeName string) bool {
	if g.IsFinished() {
		return false
	}
	p, err := g.lookupPlace(placeName)
	if err != nil {
		return false
	}
	antType, err := g.lookupAntType(antTypeName)
	if err != nil || antType.FoodCost > g.food {
		return false
	}
	return g.canAdd(p, probeAnt(antType))
}

// probeAnt is an ant that is not in the arena, used to check placements.
func probeAnt(antType *AntType) *Insect {
	return &Insect{ID: NoInsect, Family: FamilyAnt, AntKind: antType.Kind, antType: antType, contained: NoInsect}
}

// Deploy an ant of the given type in the given place, paying its food cost.
//
// It returns ErrInsufficientFood (wrapped) if the colony can't afford it, in which case
// nothing changes. Deploying into a slot that can't take the ant (see CanDeploy) is a
// contract violation and panics.
func (g *GameState) Deploy(placeName, antTypeName string) (InsectID, error) {
	if g.IsFinished() {
		return NoInsect, ErrGameOver
	}
	p, err := g.lookupPlace(placeName)
	if err != nil {
		return NoInsect, err
	}
	if p.Kind == PlaceHive {
		return NoInsect, errors.Wrapf(ErrInvalidPlace, "%q", placeName)
	}
	antType, err := g.lookupAntType(antTypeName)
	if err != nil {
		return NoInsect, err
	}
	if antType.FoodCost > g.food {
		klog.Warningf("Cannot deploy %s in %s: it costs %d food, colony has %d", antType, p, antType.FoodCost, g.food)
		g.notify(EventNotEnoughFood, NoInsect, "Not enough food!")
		return NoInsect, errors.Wrapf(ErrInsufficientFood, "%s costs %d, colony has %d", antType, antType.FoodCost, g.food)
	}
	if !g.canAdd(p, probeAnt(antType)) {
		exceptions.Panicf("too many ants in %s: %s cannot join %s", p, antType, g.insect(p.ant))
	}
	id := g.newAnt(antType)
	g.addInsect(p.ID, id)
	g.food -= antType.FoodCost
	g.deployed++
	klog.V(2).Infof("Deployed %s in %s, food left %d", g.insect(id), p, g.food)
	return id, nil
}

// Remove the ant in the slot of the given place. If it is a container, the contained
// ant takes its place. It is a no-op if there is no ant.
func (g *GameState) Remove(placeName string) error {
	if g.IsFinished() {
		return ErrGameOver
	}
	p, err := g.lookupPlace(placeName)
	if err != nil {
		return err
	}
	if p.ant == NoInsect {
		return nil
	}
	klog.V(2).Infof("Removing %s from %s", g.insect(p.ant), p)
	g.removeInsect(p.ID, p.ant)
	return nil
}

// String returns a one-line summary of the colony.
func (g *GameState) String() string {
	parts := make([]string, 0, len(g.insects))
	for _, view := range g.Ants() {
		parts = append(parts, fmt.Sprintf("%s(%d, %s)", view.Type, view.Health, view.Place))
	}
	for _, view := range g.Bees() {
		parts = append(parts, fmt.Sprintf("%s(%d, %s)", view.Type, view.Health, view.Place))
	}
	return fmt.Sprintf("[%s] (Food: %d, Time: %d)", strings.Join(parts, ", "), g.food, g.time)
}
