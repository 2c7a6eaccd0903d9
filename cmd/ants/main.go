// ants is the interactive game: the player deploys ants from the command line, and
// watches the bees attack.
package main

import (
	"context"
	"flag"
	"fmt"
	"github.com/janpfeifer/antsGo/internal/config"
	"github.com/janpfeifer/antsGo/internal/state"
	"github.com/janpfeifer/antsGo/internal/strategies"
	"github.com/janpfeifer/antsGo/internal/ui/cli"
	"github.com/janpfeifer/antsGo/internal/ui/spinning"
	"github.com/janpfeifer/must"
	"k8s.io/klog/v2"
	"math/rand/v2"
	"time"
)

var (
	flagScenario = flag.String("scenario", "easy",
		fmt.Sprintf("Built-in scenario to play, one of %q.", config.BuiltinNames()))
	flagScenarioFile = flag.String("scenario_file", "", "TOML file with the scenario to play. It takes precedence over -scenario.")
	flagSet          = flag.String("set", "", "Scenario overrides, e.g. \"food=10,tunnels=2,layout=wet,moat=2\".")
	flagSeed         = flag.Uint64("seed", 0, "Random seed. If 0, a random one is used.")
	flagColor        = flag.Bool("color", true, "Use colors in the terminal.")
	flagClear        = flag.Bool("clear", false, "Clear the screen before printing the colony.")
	flagAnimation    = flag.Duration("animation", 500*time.Millisecond, "Pause after the ants act, to watch the battle.")
	flagAuto         = flag.String("auto", "", fmt.Sprintf(
		"If set, a strategy plays instead of the human, one of %q, e.g. \"greedy:harvesters=3,wall\".",
		strategies.Names()))

	globalCtx = context.Background()
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	// Capture Control+C
	var cancel func()
	globalCtx, cancel = context.WithCancel(context.Background())
	spinning.SafeInterrupt(cancel, 3*time.Second)
	defer cancel()

	scenario := must.M1(config.Select(*flagScenario, *flagScenarioFile, *flagSet))
	seed := *flagSeed
	if seed == 0 {
		seed = rand.Uint64()
	}
	klog.V(1).Infof("Scenario %s, seed %d", scenario, seed)
	rng := rand.New(rand.NewPCG(seed, seed))

	ui := cli.New(*flagColor, *flagClear)
	g := must.M1(scenario.NewGame(rng, ui))
	var auto strategies.Strategy
	if *flagAuto != "" {
		auto = must.M1(strategies.New(*flagAuto, rand.New(rand.NewPCG(seed, seed+1))))
	}

	fmt.Printf("Ants vs. SomeBees: %s\n", scenario)
	if scenario.Description != "" {
		fmt.Println(scenario.Description)
	}
	if auto == nil {
		fmt.Println(`Type "help" for the list of commands.`)
	}

	_, err := state.Simulate(globalCtx, g, state.DriverFunc(
		func(ctx context.Context, g *state.GameState, point state.SuspensionPoint) error {
			switch point {
			case state.SuspendDeploy:
				ui.Print(g)
				if auto != nil {
					fmt.Printf("Strategy %s deploying...\n", auto)
					return auto.Deploy(g)
				}
				ui.PrintCatalog(g)
				quit, err := ui.ReadCommands(g)
				if err != nil {
					return err
				}
				if quit {
					cancel()
				}
			case state.SuspendAnimate:
				return spinning.Pause(ctx, *flagAnimation)
			}
			return nil
		}))
	if err != nil && globalCtx.Err() == nil {
		klog.Exitf("Game failed: %+v", err)
	}
	ui.Print(g)
	ui.PrintOutcome(g)
	if !g.IsFinished() {
		fmt.Println("Bye!")
	}
}
