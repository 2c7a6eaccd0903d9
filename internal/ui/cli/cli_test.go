package cli

import (
	"bytes"
	"github.com/janpfeifer/antsGo/internal/layouts"
	"github.com/janpfeifer/antsGo/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"math/rand/v2"
	"strings"
	"testing"
)

func newGame(t *testing.T, ui *UI, food int) *state.GameState {
	plan := state.NewAssaultPlan().AddWave(state.BasicBee, 3, 0, 1)
	g, err := state.New(state.Config{Plan: plan, Layout: layouts.Wet(3), Tunnels: 2, Length: 4, Food: food,
		Rand: rand.New(rand.NewPCG(3, 3)), Listener: ui})
	require.NoError(t, err)
	return g
}

func newTestUI(input string) (*UI, *bytes.Buffer) {
	var out bytes.Buffer
	return NewWithIO(strings.NewReader(input), &out, false, false), &out
}

func plain(buf *bytes.Buffer) string {
	return ansiFilter.ReplaceAllString(buf.String(), "")
}

func TestPrint(t *testing.T) {
	ui, out := newTestUI("")
	g := newGame(t, ui, 10)
	require.Equal(t, state.SuspendDeploy, g.Step())
	_, err := g.Deploy("tunnel_1_0", "Protector")
	require.NoError(t, err)
	_, err = g.Deploy("tunnel_1_0", "Harvester")
	require.NoError(t, err)

	ui.Print(g)
	text := plain(out)
	assert.Contains(t, text, "Turn #0")
	assert.Contains(t, text, "Food: 4")
	assert.Contains(t, text, "Bees remaining: 1")
	assert.Contains(t, text, "Prot+Harv")
	assert.Contains(t, text, "B1:3")
	assert.Contains(t, text, "Hive →")
	assert.Contains(t, text, "→ Base")
	assert.Len(t, strings.Split(ui.Board(g), "\n"), 2*5, "two rows of cells with borders")
}

func TestPrintCatalogAndOutcome(t *testing.T) {
	ui, out := newTestUI("")
	g := newGame(t, ui, 0)
	ui.PrintCatalog(g)
	text := plain(out)
	for _, antType := range state.AntTypes {
		assert.Contains(t, text, antType.Name)
	}
	assert.Contains(t, text, "3 (!)", "Thrower is not affordable")

	out.Reset()
	ui.PrintOutcome(g)
	assert.Contains(t, plain(out), "interrupted")
	_, err := state.Simulate(t.Context(), g, nil)
	require.NoError(t, err)
	out.Reset()
	ui.PrintOutcome(g)
	assert.Contains(t, plain(out), "THE ANTS LOSE: a bee reached the home base")
}

func TestReadCommands(t *testing.T) {
	ui, out := newTestUI(strings.Join([]string{
		"help",
		"deploy harvester tunnel_0_0",
		"d Thrower tunnel_0_0",
		"d Wall TUNNEL_0_1",
		"d Laser tunnel_0_1",
		"d Harvester nowhere",
		"d Harvester Hive",
		"d Harvester",
		"d Thrower tunnel_0_3",
		"r tunnel_0_1",
		"fly away",
		"catalog",
		"next",
		"remove tunnel_0_0",
		"",
		"quit",
	}, "\n"))
	g := newGame(t, ui, 8)
	require.Equal(t, state.SuspendDeploy, g.Step())

	quit, err := ui.ReadCommands(g)
	require.NoError(t, err)
	assert.False(t, quit)
	text := plain(out)
	assert.Contains(t, text, "Commands:")
	assert.Contains(t, text, "Thrower can't be placed in tunnel_0_0, occupied by Harvester")
	assert.Contains(t, text, "Not enough food!")
	assert.Contains(t, text, "unknown ant type")
	assert.Contains(t, text, "unknown place")
	assert.Contains(t, text, "place can't hold ants")
	assert.Contains(t, text, "Usage: deploy")
	assert.Contains(t, text, `Unknown command "fly"`)
	assert.Contains(t, text, "Description")
	assert.Equal(t, 2, g.AntsDeployed(), "harvester and wall")
	assert.Equal(t, 2, g.Food())
	p, _ := g.Place("tunnel_0_1")
	assert.Nil(t, p.Ant, "wall was removed")

	quit, err = ui.ReadCommands(g)
	require.NoError(t, err)
	assert.False(t, quit)
	assert.Empty(t, g.Ants())

	quit, err = ui.ReadCommands(g)
	require.NoError(t, err)
	assert.True(t, quit)

	quit, err = ui.ReadCommands(g)
	require.NoError(t, err)
	assert.True(t, quit, "end of input")
}

func TestDeployOutsideCatalog(t *testing.T) {
	ui, out := newTestUI("d Harvester tunnel_0_0\nd thrower tunnel_0_0\nnext\n")
	g, err := state.New(state.Config{Layout: layouts.Dry, Tunnels: 1, Length: 2, Food: 10,
		AntTypes: []string{"Harvester"}, Listener: ui})
	require.NoError(t, err)
	require.Equal(t, state.SuspendDeploy, g.Step())

	quit, err := ui.ReadCommands(g)
	require.NoError(t, err)
	assert.False(t, quit)
	text := plain(out)
	assert.Contains(t, text, "unknown ant type")
	assert.NotContains(t, text, "occupied by")
	assert.Equal(t, 1, g.AntsDeployed())
}

func TestEvents(t *testing.T) {
	ui, out := newTestUI("")
	plan := state.NewAssaultPlan().AddWave(state.Boss, 20, 0, 1)
	g, err := state.New(state.Config{Plan: plan, Layout: layouts.Dry, Tunnels: 1, Length: 2, Listener: ui})
	require.NoError(t, err)
	require.Equal(t, state.SuspendDeploy, g.Step())
	assert.Contains(t, plain(out), "Boss Bee is Here!")

	_, err = g.Deploy("tunnel_0_1", "Harvester")
	require.NoError(t, err)
	for g.Step() != state.SuspendNone {
	}
	assert.Contains(t, plain(out), "Harvester died in battle.")
}
