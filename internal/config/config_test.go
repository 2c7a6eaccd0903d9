package config

import (
	"github.com/janpfeifer/antsGo/internal/parameters"
	"github.com/janpfeifer/antsGo/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"
)

func TestBuiltin(t *testing.T) {
	for _, name := range BuiltinNames() {
		s, err := Builtin(name)
		require.NoError(t, err, "scenario %q", name)
		assert.Equal(t, name, s.Name)
		assert.Positive(t, s.Plan().NumBees(), "scenario %q", name)
		g, err := s.NewGame(rand.New(rand.NewPCG(1, 1)), nil)
		require.NoError(t, err, "scenario %q", name)
		assert.Len(t, g.Entrances(), s.Layout.Tunnels)
	}
	_, err := Builtin("impossible")
	require.Error(t, err)

	s, err := Builtin("test")
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, s.Plan().Turns())
	assert.Equal(t, "test: dry 1x9, 2 bees", s.String())

	s, err = Builtin("easy")
	require.NoError(t, err)
	assert.Equal(t, 7+3+1, s.Plan().NumBees())
}

func TestParse(t *testing.T) {
	s, err := Parse([]byte(`
name = "tiny"
food = 5
ants = ["Harvester", "Thrower"]

[layout]
kind = "wet"
tunnels = 2
length = 4

[[waves]]
bee = "Wasp"
health = 2
turn = 1
count = 2
every = 3
until = 7
`))
	require.NoError(t, err)
	assert.Equal(t, 5, s.Food)
	assert.Equal(t, 3, s.Layout.MoatFrequency, "default moat frequency for wet layouts")
	assert.Equal(t, []int{1, 4, 7}, s.Waves[0].Turns())
	plan := s.Plan()
	assert.Equal(t, 6, plan.NumBees())
	assert.Equal(t, []state.BeeSpec{{Kind: state.Wasp, Health: 2}, {Kind: state.Wasp, Health: 2}}, plan.Wave(4))

	g, err := s.NewGame(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, g.Food())
	assert.Len(t, g.Catalog(), 2)
	_, found := g.Place("water_1_2")
	assert.True(t, found)

	// Defaults.
	s, err = Parse([]byte(`name = "empty"`))
	require.NoError(t, err)
	assert.Equal(t, "dry", s.Layout.Kind)
	assert.Equal(t, DefaultTunnels, s.Layout.Tunnels)
	assert.Equal(t, DefaultLength, s.Layout.Length)
}

func TestParseErrors(t *testing.T) {
	for _, bad := range []string{
		`food = "lots"`,
		`food = -3`,
		`unknown_field = 1`,
		"ants = [\"Laser\"]",
		"[layout]\nkind = \"lava\"",
		"[layout]\ntunnels = -1",
		"[[waves]]\nbee = \"Hornet\"\nhealth = 1\ncount = 1",
		"[[waves]]\nbee = \"Bee\"\nhealth = 0\ncount = 1",
		"[[waves]]\nbee = \"Bee\"\nhealth = 1\ncount = 1\nturn = -2",
		"[[waves]]\nbee = \"Bee\"\nhealth = 1\ncount = 1\nturn = 5\nevery = 2\nuntil = 3",
	} {
		_, err := Parse([]byte(bad))
		assert.Error(t, err, "scenario %q should fail", bad)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "my-scenario.toml")
	require.NoError(t, os.WriteFile(path, []byte("food = 4\n[[waves]]\nbee = \"Boss\"\nhealth = 10\nturn = 0\ncount = 1\n"), 0o644))
	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "my-scenario", s.Name)
	assert.Equal(t, path, s.Path)
	assert.Equal(t, 1, s.Plan().NumBees())

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}

func TestApply(t *testing.T) {
	s, err := Builtin("test")
	require.NoError(t, err)
	require.NoError(t, s.Apply(parameters.NewFromConfigString("food=10,tunnels=2,layout=wet,moat=2")))
	assert.Equal(t, 10, s.Food)
	assert.Equal(t, 2, s.Layout.Tunnels)
	assert.Equal(t, "wet", s.Layout.Kind)
	assert.Equal(t, 2, s.Layout.MoatFrequency)

	require.Error(t, s.Apply(parameters.NewFromConfigString("speed=3")))
	require.Error(t, s.Apply(parameters.NewFromConfigString("length=-1")))
	require.Error(t, s.Apply(parameters.NewFromConfigString("food=many")))

	s, err = Builtin("test")
	require.NoError(t, err)
	require.NoError(t, s.Apply(parameters.NewFromConfigString("food=-1")))
	g, err := s.NewGame(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, g.Food())
	require.Error(t, s.Apply(parameters.NewFromConfigString("food=-2")))
}

func TestSelect(t *testing.T) {
	s, err := Select("hard", "", "food=7")
	require.NoError(t, err)
	assert.Equal(t, "hard", s.Name)
	assert.Equal(t, 7, s.Food)

	path := filepath.Join(t.TempDir(), "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte("name = \"custom\"\n"), 0o644))
	s, err = Select("hard", path, "")
	require.NoError(t, err)
	assert.Equal(t, "custom", s.Name)

	_, err = Select("hard", "", "turbo")
	require.Error(t, err)
	_, err = Select("nope", "", "")
	require.Error(t, err)
}
