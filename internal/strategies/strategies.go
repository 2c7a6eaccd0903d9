// Package strategies provides a factory of automatic deployment strategies from config
// strings, used to play the ants side without a human.
// It also allows strategy providers to register themselves.
package strategies

import (
	"context"
	"github.com/janpfeifer/antsGo/internal/generics"
	"github.com/janpfeifer/antsGo/internal/parameters"
	"github.com/janpfeifer/antsGo/internal/state"
	"github.com/pkg/errors"
	"math/rand/v2"
	"slices"
)

// Strategy decides which ants to deploy.
type Strategy interface {
	// Deploy is called once per turn, after the hive released its wave and before the
	// ants act. It may deploy or remove ants in g.
	Deploy(g *state.GameState) error

	// String returns the strategy name and its parameters.
	String() string
}

// Factory creates a Strategy from its parameters. Factories should pop the parameters
// they know (see parameters.PopParamOr), and New reports the ones left over.
//
// rng is owned by the strategy: each run gets its own.
type Factory func(rng *rand.Rand, params parameters.Params) (Strategy, error)

var (
	// Registered strategies.
	keywordToFactory = make(map[string]Factory)
)

// Register a strategy factory, so it can be used by any of the front-ends.
func Register(name string, factory Factory) {
	keywordToFactory[name] = factory
}

// Names of the registered strategies, sorted.
func Names() []string {
	return slices.Collect(generics.SortedKeys(keywordToFactory))
}

// DefaultConfig is used if no configuration was given.
var DefaultConfig = "greedy"

// New creates a new Strategy given the configuration string.
//
// config is the strategy name followed by a colon (":"), followed by a comma-separated
// list of optional parameters with optional values associated, e.g. "greedy:harvesters=3,wall".
// If empty, DefaultConfig is used.
func New(config string, rng *rand.Rand) (Strategy, error) {
	if config == "" {
		config = DefaultConfig
	}
	name, params := parameters.SplitModule(config)
	factory, ok := keywordToFactory[name]
	if !ok {
		return nil, errors.Errorf("unknown strategy %q, registered strategies are %q", name, Names())
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	strategy, err := factory(rng, params)
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to create strategy %q", name)
	}
	if err = params.Unused(); err != nil {
		return nil, errors.WithMessagef(err, "strategy %q", name)
	}
	return strategy, nil
}

// AnimateFunc is called at the animation suspension point, after the ants acted.
type AnimateFunc func(ctx context.Context, g *state.GameState) error

// Driver adapts a Strategy to a state.Driver: the strategy deploys at every turn, and
// animate (if not nil) is called after the ants acted.
func Driver(strategy Strategy, animate AnimateFunc) state.Driver {
	return state.DriverFunc(func(ctx context.Context, g *state.GameState, point state.SuspensionPoint) error {
		switch point {
		case state.SuspendDeploy:
			return strategy.Deploy(g)
		case state.SuspendAnimate:
			if animate != nil {
				return animate(ctx, g)
			}
		}
		return nil
	})
}
