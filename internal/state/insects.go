package state

import (
	"fmt"
	"math"
)

// InsectID identifies an insect in the GameState arena. IDs are assigned in creation order.
type InsectID int32

// NoInsect is the null InsectID, for empty ant slots and empty containers.
const NoInsect InsectID = -1

// Family of an insect: ants defend, bees attack.
type Family uint8

const (
	FamilyAnt Family = iota
	FamilyBee
)

// AntKind enumerates the implemented ant variants.
type AntKind uint8

const (
	Harvester AntKind = iota
	Thrower
	Short
	Long
	Fire
	Wall
	Hungry
	Protector
	Tank
	Scuba
	Queen
	Slow
	Scary
	Ninja
	NumAntKinds
)

// BeeKind enumerates the implemented bee variants.
type BeeKind uint8

const (
	BasicBee BeeKind = iota
	Wasp
	Boss
	NumBeeKinds
)

// Unbounded is used as MaxRange of throwers that can reach any distance.
const Unbounded = math.MaxInt

// Parameters of the extension effects.
const (
	// SlowLength is the number of bee turns a Slow hit lasts.
	SlowLength = 5

	// ScareLength is the number of actions a scared bee walks backwards.
	ScareLength = 2

	// ChewCooldown is the number of turns a Hungry ant takes to digest.
	ChewCooldown = 3

	// DefaultFood the colony starts with, when Config.Food is 0.
	DefaultFood = 2

	// NoFood as Config.Food starts the colony with no food at all.
	NoFood = -1
)

// AntType describes a deployable ant variant. Behavior is selected by Kind, and the
// parameters here are copied into each ant created.
type AntType struct {
	Name     string
	Kind     AntKind
	FoodCost int
	Health   int
	Damage   int

	// Waterproof ants survive being placed in Water.
	Waterproof bool

	// Container ants can shelter one non-container ant.
	Container bool

	// BlocksPath is false for ants that let bees walk past them.
	BlocksPath bool

	// MinRange and MaxRange, inclusive, for ants that throw at the nearest bee.
	MinRange, MaxRange int

	// Description is a one-liner for display.
	Description string
}

// String returns the display name.
func (t *AntType) String() string {
	return t.Name
}

// Throws returns whether the ant type throws leaves at the nearest bee in range.
func (t *AntType) Throws() bool {
	switch t.Kind {
	case Thrower, Short, Long, Scuba, Queen, Slow, Scary:
		return true
	}
	return false
}

// AntTypes is the static registry of ant variants, in display order.
var AntTypes = []*AntType{
	{Name: "Harvester", Kind: Harvester, FoodCost: 2, Health: 1, BlocksPath: true,
		Description: "Produces 1 food per turn"},
	{Name: "Thrower", Kind: Thrower, FoodCost: 3, Health: 1, Damage: 1, BlocksPath: true,
		MinRange: 0, MaxRange: Unbounded, Description: "Throws a leaf at the nearest bee"},
	{Name: "Short", Kind: Short, FoodCost: 2, Health: 1, Damage: 1, BlocksPath: true,
		MinRange: 0, MaxRange: 3, Description: "Throws at bees at most 3 places away"},
	{Name: "Long", Kind: Long, FoodCost: 2, Health: 1, Damage: 1, BlocksPath: true,
		MinRange: 5, MaxRange: Unbounded, Description: "Throws at bees at least 5 places away"},
	{Name: "Fire", Kind: Fire, FoodCost: 5, Health: 3, Damage: 3, BlocksPath: true,
		Description: "Burns the bees in its place when hurt, more when it dies"},
	{Name: "Wall", Kind: Wall, FoodCost: 4, Health: 4, BlocksPath: true,
		Description: "Just takes a beating"},
	{Name: "Hungry", Kind: Hungry, FoodCost: 4, Health: 1, BlocksPath: true,
		Description: fmt.Sprintf("Eats a bee in its place, then digests for %d turns", ChewCooldown)},
	{Name: "Protector", Kind: Protector, FoodCost: 4, Health: 2, Container: true, BlocksPath: true,
		Description: "Shelters another ant"},
	{Name: "Tank", Kind: Tank, FoodCost: 6, Health: 2, Damage: 1, Container: true, BlocksPath: true,
		Description: "Shelters another ant and damages every bee in its place"},
	{Name: "Scuba", Kind: Scuba, FoodCost: 6, Health: 1, Damage: 1, Waterproof: true, BlocksPath: true,
		MinRange: 0, MaxRange: Unbounded, Description: "Thrower that can be placed in water"},
	{Name: "Queen", Kind: Queen, FoodCost: 7, Health: 1, Damage: 1, BlocksPath: true,
		MinRange: 0, MaxRange: Unbounded, Description: "Thrower that doubles the damage of the ants behind her; the colony loses if she dies"},
	{Name: "Slow", Kind: Slow, FoodCost: 6, Health: 1, BlocksPath: true,
		MinRange: 0, MaxRange: Unbounded, Description: fmt.Sprintf("Slows the bee it hits for %d turns", SlowLength)},
	{Name: "Scary", Kind: Scary, FoodCost: 6, Health: 1, BlocksPath: true,
		MinRange: 0, MaxRange: Unbounded, Description: fmt.Sprintf("Scares the bee it hits backwards for %d turns, once per bee", ScareLength)},
	{Name: "Ninja", Kind: Ninja, FoodCost: 5, Health: 1, Damage: 1, BlocksPath: false,
		Description: "Lets bees pass, but damages all bees in its place"},
}

// AntTypeByName returns the registered type with the given display name, or nil.
func AntTypeByName(name string) *AntType {
	for _, t := range AntTypes {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// String returns the display name of the kind.
func (k AntKind) String() string {
	if k >= NumAntKinds {
		return fmt.Sprintf("AntKind(%d)", k)
	}
	return AntTypes[k].Name
}

// BeeType describes a bee variant.
type BeeType struct {
	Name   string
	Kind   BeeKind
	Damage int

	// DamageCap, if > 0, is the most health the bee can lose from a single hit.
	DamageCap int
}

// BeeTypes is the static registry of bee variants, indexed by BeeKind.
var BeeTypes = [NumBeeKinds]*BeeType{
	{Name: "Bee", Kind: BasicBee, Damage: 1},
	{Name: "Wasp", Kind: Wasp, Damage: 2},
	{Name: "Boss", Kind: Boss, Damage: 2, DamageCap: 8},
}

// BeeKindByName returns the kind for the given name, or false if unknown.
func BeeKindByName(name string) (BeeKind, bool) {
	for _, t := range BeeTypes {
		if t.Name == name {
			return t.Kind, true
		}
	}
	return 0, false
}

// String returns the bee kind name.
func (k BeeKind) String() string {
	if k >= NumBeeKinds {
		return fmt.Sprintf("BeeKind(%d)", k)
	}
	return BeeTypes[k].Name
}

// Insect is the arena record for both ants and bees. Variant behavior is selected
// by AntKind or BeeKind, depending on Family.
type Insect struct {
	ID         InsectID
	Family     Family
	AntKind    AntKind
	BeeKind    BeeKind
	Health     int
	FullHealth int
	Damage     int
	Waterproof bool
	Place      PlaceID

	// Ant only.
	antType   *AntType
	doubled   bool
	contained InsectID
	cooldown  int

	// Bee only.
	damageCap  int
	slowTurns  int
	scareTurns int
	wasScared  bool
}

// IsAnt returns whether the insect is an ant.
func (in *Insect) IsAnt() bool { return in.Family == FamilyAnt }

// IsBee returns whether the insect is a bee.
func (in *Insect) IsBee() bool { return in.Family == FamilyBee }

// Alive returns whether the insect has health left.
func (in *Insect) Alive() bool { return in.Health > 0 }

// Name of the insect variant.
func (in *Insect) Name() string {
	if in.IsAnt() {
		return in.antType.Name
	}
	return BeeTypes[in.BeeKind].Name
}

// IsContainer returns whether the insect is a container ant.
func (in *Insect) IsContainer() bool {
	return in.IsAnt() && in.antType.Container
}

// Contained returns the ant sheltered by a container, or NoInsect.
func (in *Insect) Contained() InsectID {
	if !in.IsContainer() {
		return NoInsect
	}
	return in.contained
}

// Doubled returns whether a Queen already doubled this ant's damage.
func (in *Insect) Doubled() bool { return in.doubled }

// Scared returns whether the bee has been scared at some point.
func (in *Insect) Scared() bool { return in.wasScared }

// Type returns the AntType of an ant, or nil for bees.
func (in *Insect) Type() *AntType { return in.antType }

// blocksPath returns whether an ant stops bees from advancing.
func (in *Insect) blocksPath() bool {
	return in.antType.BlocksPath
}

// canContain returns whether the container in can shelter other right now.
func (in *Insect) canContain(other *Insect) bool {
	return in.IsContainer() && in.contained == NoInsect && !other.IsContainer()
}

// double the ant damage, only the first time it is called.
func (in *Insect) double() {
	if in.doubled {
		return
	}
	in.doubled = true
	in.Damage *= 2
}

// String implements fmt.Stringer.
func (in *Insect) String() string {
	return fmt.Sprintf("%s#%d(%d)", in.Name(), in.ID, in.Health)
}
