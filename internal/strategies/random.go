package strategies

import (
	"fmt"
	"github.com/janpfeifer/antsGo/internal/generics"
	"github.com/janpfeifer/antsGo/internal/parameters"
	"github.com/janpfeifer/antsGo/internal/state"
	"github.com/pkg/errors"
	"math/rand/v2"
)

func init() {
	Register("random", newRandom)
}

// random deploys, with probability prob at every turn, one random affordable ant in a
// random place that can take it. It never puts ants that would drown in water.
type random struct {
	rng  *rand.Rand
	prob float64
}

func newRandom(rng *rand.Rand, params parameters.Params) (Strategy, error) {
	prob, err := parameters.PopParamOr(params, "prob", 0.5)
	if err != nil {
		return nil, err
	}
	if prob < 0 || prob > 1 {
		return nil, errors.Errorf("invalid prob=%g, it must be in [0, 1]", prob)
	}
	return &random{rng: rng, prob: prob}, nil
}

func (s *random) String() string {
	return fmt.Sprintf("random:prob=%g", s.prob)
}

// Deploy implements Strategy.
func (s *random) Deploy(g *state.GameState) error {
	if s.rng.Float64() >= s.prob {
		return nil
	}
	var candidates []placement
	catalog := g.Catalog()
	for _, p := range g.Places() {
		fits := generics.SliceFilter(catalog, func(antType *state.AntType) bool {
			return (p.Kind != state.PlaceWater || antType.Waterproof) && g.CanDeploy(p.Name, antType.Name)
		})
		for _, antType := range fits {
			candidates = append(candidates, placement{place: p.Name, antType: antType.Name})
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	choice := candidates[s.rng.IntN(len(candidates))]
	_, err := g.Deploy(choice.place, choice.antType)
	return err
}
