// Package layouts implements the tunnel layouts a colony can be built with.
//
// A layout is a state.LayoutFunc: given the home base and a register function, it
// creates the places of every tunnel, from the home base outwards. The last place of
// each tunnel is a bee entrance.
package layouts

import (
	"fmt"
	"github.com/janpfeifer/antsGo/internal/state"
	"github.com/pkg/errors"
)

// DefaultMoatFrequency used by the "wet" layout when none is given.
const DefaultMoatFrequency = 3

// Names of the known layouts, as used in scenario files.
const (
	WetName = "wet"
	DryName = "dry"
)

// PlaceName returns the name of the place of the given tunnel and step: step 0 is next
// to the home base.
func PlaceName(kind state.PlaceKind, tunnel, step int) string {
	if kind == state.PlaceWater {
		return fmt.Sprintf("water_%d_%d", tunnel, step)
	}
	return fmt.Sprintf("tunnel_%d_%d", tunnel, step)
}

// Wet returns a layout where every moatFrequency-th step of each tunnel is water.
// A moatFrequency of 0 means no water at all.
func Wet(moatFrequency int) state.LayoutFunc {
	return func(base state.PlaceID, register state.RegisterFunc, tunnels, length int) {
		for tunnel := range tunnels {
			exit := base
			for step := range length {
				kind := state.PlaceTunnel
				if moatFrequency > 0 && (step+1)%moatFrequency == 0 {
					kind = state.PlaceWater
				}
				exit = register(PlaceName(kind, tunnel, step), kind, exit, step == length-1)
			}
		}
	}
}

// Dry is a layout with no water.
func Dry(base state.PlaceID, register state.RegisterFunc, tunnels, length int) {
	Wet(0)(base, register, tunnels, length)
}

// ByName returns the layout with the given name. moatFrequency is only used by the
// "wet" layout, and if <= 0 DefaultMoatFrequency is used.
func ByName(name string, moatFrequency int) (state.LayoutFunc, error) {
	switch name {
	case WetName:
		if moatFrequency <= 0 {
			moatFrequency = DefaultMoatFrequency
		}
		return Wet(moatFrequency), nil
	case DryName, "":
		return Dry, nil
	}
	return nil, errors.Errorf("unknown layout %q, valid values are %q and %q", name, WetName, DryName)
}
