package strategies

import (
	"fmt"
	"github.com/janpfeifer/antsGo/internal/generics"
	"github.com/janpfeifer/antsGo/internal/parameters"
	"github.com/janpfeifer/antsGo/internal/state"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
	"math/rand/v2"
)

func init() {
	Register("greedy", newGreedy)
}

// greedy fills the colony from the rear: first some harvesters, then defenders.
// Optionally it puts walls at the front of each tunnel.
//
// Parameters:
//
//   - harvesters: number of harvesters to deploy. Default 2.
//   - defender: ant type used to fill the other places. Default "Thrower".
//   - wall: put a Wall at the front of every tunnel, before placing defenders.
type greedy struct {
	harvesters int
	defender   string
	wall       bool
}

func newGreedy(_ *rand.Rand, params parameters.Params) (Strategy, error) {
	s := &greedy{}
	var err error
	if s.harvesters, err = parameters.PopParamOr(params, "harvesters", 2); err != nil {
		return nil, err
	}
	if s.defender, err = parameters.PopParamOr(params, "defender", "Thrower"); err != nil {
		return nil, err
	}
	if s.wall, err = parameters.PopParamOr(params, "wall", false); err != nil {
		return nil, err
	}
	if s.harvesters < 0 {
		return nil, errors.Errorf("invalid harvesters=%d", s.harvesters)
	}
	if state.AntTypeByName(s.defender) == nil {
		return nil, errors.Wrapf(state.ErrUnknownAntType, "defender=%q", s.defender)
	}
	return s, nil
}

func (s *greedy) String() string {
	return fmt.Sprintf("greedy:harvesters=%d,defender=%s,wall=%v", s.harvesters, s.defender, s.wall)
}

// placement of one ant type in one place.
type placement struct {
	place, antType string
}

// plan lists the placements the strategy wants, in order of priority. Ant types not in
// the catalog are skipped.
func (s *greedy) plan(g *state.GameState, catalog generics.Set[string]) (plan []placement) {
	byDepth := placesByDepth(g)
	used := generics.SetWith[string]()
	take := func(antType string, count int) {
		if !catalog.Has(antType) {
			return
		}
		waterproof := state.AntTypeByName(antType).Waterproof
		for _, p := range byDepth {
			if count == 0 {
				return
			}
			if used.Has(p.Name) || (p.Kind == state.PlaceWater && !waterproof) {
				continue
			}
			used.Insert(p.Name)
			plan = append(plan, placement{place: p.Name, antType: antType})
			count--
		}
	}
	take("Harvester", s.harvesters)
	if s.wall && catalog.Has("Wall") {
		for _, tunnel := range g.Tunnels() {
			for _, p := range tunnel {
				if p.Kind == state.PlaceWater || used.Has(p.Name) {
					continue
				}
				used.Insert(p.Name)
				plan = append(plan, placement{place: p.Name, antType: "Wall"})
				break
			}
		}
	}
	take(s.defender, len(byDepth))
	return
}

// Deploy implements Strategy. It follows the plan, saving food for the first placement it
// can't afford yet.
func (s *greedy) Deploy(g *state.GameState) error {
	catalog := generics.SetWith(generics.SliceMap(g.Catalog(), func(t *state.AntType) string { return t.Name })...)
	for _, step := range s.plan(g, catalog) {
		p, _ := g.Place(step.place)
		if p.Ant != nil {
			continue
		}
		if state.AntTypeByName(step.antType).FoodCost > g.Food() {
			klog.V(2).Infof("greedy: saving food for %s in %s", step.antType, step.place)
			return nil
		}
		if !g.CanDeploy(step.place, step.antType) {
			continue
		}
		if _, err := g.Deploy(step.place, step.antType); err != nil {
			return err
		}
	}
	return nil
}

// placesByDepth returns the places of all tunnels, the ones closest to the home base first,
// alternating between tunnels at the same depth.
func placesByDepth(g *state.GameState) (places []state.PlaceView) {
	tunnels := g.Tunnels()
	for depth := 0; ; depth++ {
		found := false
		for _, tunnel := range tunnels {
			if depth < len(tunnel) {
				places = append(places, tunnel[len(tunnel)-1-depth])
				found = true
			}
		}
		if !found {
			return
		}
	}
}
