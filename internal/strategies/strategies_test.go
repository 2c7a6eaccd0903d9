package strategies

import (
	"context"
	"github.com/janpfeifer/antsGo/internal/config"
	"github.com/janpfeifer/antsGo/internal/layouts"
	"github.com/janpfeifer/antsGo/internal/state"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"math/rand/v2"
	"testing"
)

func newRand() *rand.Rand { return rand.New(rand.NewPCG(7, 7)) }

func newColony(t *testing.T, layout state.LayoutFunc, tunnels, length, food int) *state.GameState {
	g, err := state.New(state.Config{Layout: layout, Tunnels: tunnels, Length: length, Food: food, Rand: newRand()})
	require.NoError(t, err)
	return g
}

// antsByPlace maps place name to ant type.
func antsByPlace(g *state.GameState) map[string]string {
	ants := make(map[string]string)
	for _, ant := range g.Ants() {
		ants[ant.Place] = ant.Type
	}
	return ants
}

func TestNew(t *testing.T) {
	assert.Equal(t, []string{"greedy", "idle", "random"}, Names())

	s, err := New("greedy:harvesters=3,wall", newRand())
	require.NoError(t, err)
	assert.Equal(t, "greedy:harvesters=3,defender=Thrower,wall=true", s.String())

	s, err = New("", nil)
	require.NoError(t, err)
	assert.Equal(t, "greedy:harvesters=2,defender=Thrower,wall=false", s.String())

	s, err = New("random:prob=0.25", newRand())
	require.NoError(t, err)
	assert.Equal(t, "random:prob=0.25", s.String())

	for _, bad := range []string{"minimax", "greedy:speed=3", "greedy:defender=Laser", "greedy:harvesters=-1",
		"random:prob=2", "idle:x"} {
		_, err = New(bad, newRand())
		assert.Error(t, err, "config %q", bad)
	}
}

func TestGreedy(t *testing.T) {
	g := newColony(t, layouts.Dry, 2, 3, 100)
	s, err := New("greedy", newRand())
	require.NoError(t, err)
	require.NoError(t, s.Deploy(g))
	assert.Equal(t, map[string]string{
		"tunnel_0_0": "Harvester", "tunnel_1_0": "Harvester",
		"tunnel_0_1": "Thrower", "tunnel_1_1": "Thrower",
		"tunnel_0_2": "Thrower", "tunnel_1_2": "Thrower",
	}, antsByPlace(g))
	assert.Equal(t, 100-2*2-4*3, g.Food())

	// Walls go to the front.
	g = newColony(t, layouts.Dry, 2, 3, 100)
	s, err = New("greedy:harvesters=1,wall,defender=Short", newRand())
	require.NoError(t, err)
	require.NoError(t, s.Deploy(g))
	assert.Equal(t, map[string]string{
		"tunnel_0_0": "Harvester", "tunnel_1_0": "Short",
		"tunnel_0_1": "Short", "tunnel_1_1": "Short",
		"tunnel_0_2": "Wall", "tunnel_1_2": "Wall",
	}, antsByPlace(g))
}

func TestGreedySavesFood(t *testing.T) {
	g := newColony(t, layouts.Dry, 1, 4, 5)
	s, err := New("greedy", newRand())
	require.NoError(t, err)
	require.NoError(t, s.Deploy(g))
	assert.Equal(t, map[string]string{"tunnel_0_0": "Harvester", "tunnel_0_1": "Harvester"}, antsByPlace(g))
	assert.Equal(t, 1, g.Food())

	// Nothing changes until there is enough food for the next ant.
	require.NoError(t, s.Deploy(g))
	assert.Len(t, g.Ants(), 2)
}

func TestGreedyAvoidsWater(t *testing.T) {
	g := newColony(t, layouts.Wet(2), 1, 4, 100)
	s, err := New("greedy:harvesters=2", newRand())
	require.NoError(t, err)
	require.NoError(t, s.Deploy(g))
	assert.Equal(t, map[string]string{"tunnel_0_0": "Harvester", "tunnel_0_2": "Harvester"}, antsByPlace(g))

	g = newColony(t, layouts.Wet(2), 1, 4, 100)
	s, err = New("greedy:harvesters=0,defender=Scuba", newRand())
	require.NoError(t, err)
	require.NoError(t, s.Deploy(g))
	assert.Len(t, g.Ants(), 4)
	for _, ant := range g.Ants() {
		assert.Equal(t, "Scuba", ant.Type)
	}
}

func TestRandom(t *testing.T) {
	g := newColony(t, layouts.Wet(2), 2, 4, 0)
	s, err := New("random:prob=1", newRand())
	require.NoError(t, err)
	require.NoError(t, s.Deploy(g))
	ants := g.Ants()
	require.Len(t, ants, 1)
	assert.LessOrEqual(t, state.AntTypeByName(ants[0].Type).FoodCost, state.DefaultFood)
	assert.Equal(t, 1, g.AntsDeployed())

	// Nothing affordable anymore.
	require.NoError(t, s.Deploy(g))
	assert.Equal(t, 1, g.AntsDeployed())

	g = newColony(t, layouts.Dry, 1, 4, 100)
	s, err = New("random:prob=0", newRand())
	require.NoError(t, err)
	for range 10 {
		require.NoError(t, s.Deploy(g))
	}
	assert.Empty(t, g.Ants())

	// Only waterproof ants go into water.
	g = newColony(t, layouts.Wet(1), 1, 4, 100)
	s, err = New("random:prob=1", newRand())
	require.NoError(t, err)
	for range 10 {
		require.NoError(t, s.Deploy(g))
	}
	require.NotEmpty(t, g.Ants())
	for _, ant := range g.Ants() {
		assert.Equal(t, "Scuba", ant.Type)
	}
}

func TestDriver(t *testing.T) {
	scenario, err := config.Builtin("test")
	require.NoError(t, err)

	g, err := scenario.NewGame(newRand(), nil)
	require.NoError(t, err)
	strategy, err := New("idle", nil)
	require.NoError(t, err)
	outcome, err := state.Simulate(context.Background(), g, Driver(strategy, nil))
	require.NoError(t, err)
	assert.Equal(t, state.AntsLose, outcome)
	assert.Zero(t, g.AntsDeployed())

	g, err = scenario.NewGame(newRand(), nil)
	require.NoError(t, err)
	strategy, err = New("greedy", nil)
	require.NoError(t, err)
	var animations int
	outcome, err = state.Simulate(context.Background(), g, Driver(strategy, func(context.Context, *state.GameState) error {
		animations++
		return nil
	}))
	require.NoError(t, err)
	assert.NotEqual(t, state.InProgress, outcome)
	assert.Positive(t, g.AntsDeployed())
	assert.Equal(t, g.Time(), animations)

	g, err = scenario.NewGame(newRand(), nil)
	require.NoError(t, err)
	stop := errors.New("stop")
	_, err = state.Simulate(context.Background(), g, Driver(strategy, func(context.Context, *state.GameState) error {
		return stop
	}))
	require.ErrorIs(t, err, stop)
}
