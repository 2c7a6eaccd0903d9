// simulate runs batches of headless games of an automatic strategy on a scenario, and
// reports (and optionally stores) how often the ants win.
package main

import (
	"context"
	"flag"
	"fmt"
	"github.com/google/uuid"
	"github.com/janpfeifer/antsGo/internal/config"
	"github.com/janpfeifer/antsGo/internal/profilers"
	"github.com/janpfeifer/antsGo/internal/state"
	"github.com/janpfeifer/antsGo/internal/store/sqlite"
	"github.com/janpfeifer/antsGo/internal/strategies"
	"github.com/janpfeifer/antsGo/internal/ui/spinning"
	"github.com/janpfeifer/must"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"
	"math/rand/v2"
	"runtime"
	"strings"
	"sync"
	"time"
)

var (
	flagScenario = flag.String("scenario", "normal",
		fmt.Sprintf("Built-in scenario to simulate, one of %q.", config.BuiltinNames()))
	flagScenarioFile = flag.String("scenario_file", "", "TOML file with the scenario. It takes precedence over -scenario.")
	flagSet          = flag.String("set", "", "Scenario overrides, e.g. \"food=10,tunnels=2\".")
	flagStrategy     = flag.String("strategy", strategies.DefaultConfig, fmt.Sprintf(
		"Strategies to simulate, separated by \";\". Registered strategies: %q.", strategies.Names()))
	flagNumRuns     = flag.Int("num_runs", 100, "Number of runs per strategy.")
	flagParallelism = flag.Int("parallelism", 0, "If > 0 ignore GOMAXPROCS and run "+
		"these many games simultaneously.")
	flagSeed     = flag.Uint64("seed", 1, "Base random seed: run i uses seed+i.")
	flagDB       = flag.String("db", "", "If set, SQLite database `file` where results are stored.")
	flagMaxTurns = flag.Int("max_turns", 1000, "Runs not finished after these many turns are reported as timeouts.")
)

// Globals
var (
	// globalCtx used everywhere. It is cancelled when the program is about to exit either by
	// an interrupt (ctrl+C) or by reaching the end.
	globalCtx = context.Background()
)

// errTimeout aborts a run that reached -max_turns.
var errTimeout = errors.New("maximum number of turns reached")

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	if *flagNumRuns <= 0 || *flagMaxTurns <= 0 {
		klog.Exitf("Invalid -num_runs=%d or -max_turns=%d", *flagNumRuns, *flagMaxTurns)
	}

	// Capture Control+C
	var globalCancel func()
	globalCtx, globalCancel = context.WithCancel(context.Background())
	spinning.SafeInterrupt(globalCancel, 5*time.Second)
	defer globalCancel()

	// Profilers: HTTP profiler server and CPU profile.
	profilers.Setup(globalCtx)
	defer profilers.OnQuit()

	scenario := must.M1(config.Select(*flagScenario, *flagScenarioFile, *flagSet))
	var store *sqlite.Store
	if *flagDB != "" {
		store = must.M1(sqlite.Open(*flagDB))
		defer func() { must.M(store.Close()) }()
		must.M(store.Migrate(globalCtx))
	}

	fmt.Printf("Scenario %s\n", scenario)
	for _, strategyConfig := range strings.Split(*flagStrategy, ";") {
		strategyConfig = strings.TrimSpace(strategyConfig)
		if strategyConfig == "" {
			continue
		}
		// Fail early on bad configurations.
		strategy := must.M1(strategies.New(strategyConfig, nil))
		must.M(runBatch(globalCtx, scenario, strategyConfig, strategy.String(), store))
		if globalCtx.Err() != nil {
			break
		}
	}
	if store != nil && globalCtx.Err() == nil {
		printSummary(globalCtx, store)
	}
}

// Results of a batch, updated concurrently by the runs.
type Results struct {
	mu                     sync.Mutex
	strategy               string
	start                  time.Time
	wins, losses, timeouts int
	turns                  int
	played, total          int
}

func (r *Results) String() string {
	var parts []string
	parts = append(parts, fmt.Sprintf("%s: played %d of %d: ", r.strategy, r.played, r.total))
	parts = append(parts, fmt.Sprintf("%d wins / %d losses / %d timeouts", r.wins, r.losses, r.timeouts))
	if r.played > 0 {
		parts = append(parts, fmt.Sprintf(", %.1f turns on average", float64(r.turns)/float64(r.played)))
	}
	parts = append(parts, fmt.Sprintf(" - %s", time.Since(r.start).Round(time.Millisecond)))
	parts = append(parts, "\033[0K")
	return strings.Join(parts, "")
}

// record the run in the results, and prints the updated results.
func (r *Results) record(run sqlite.Run) {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch run.Outcome {
	case state.AntsWin.String():
		r.wins++
	case state.AntsLose.String():
		r.losses++
	default:
		r.timeouts++
	}
	r.turns += run.Turns
	r.played++
	fmt.Printf("\r%s", r)
}

func runBatch(ctx context.Context, scenario *config.Scenario, strategyConfig, strategyName string, store *sqlite.Store) error {
	r := &Results{
		strategy: strategyName,
		start:    time.Now(),
		total:    *flagNumRuns,
	}
	var wg errgroup.Group
	wg.SetLimit(getParallelism())
	fmt.Printf("\r%s", r)

	for runIdx := range r.total {
		wg.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			run, err := runOne(ctx, scenario, strategyConfig, *flagSeed+uint64(runIdx))
			if err != nil || ctx.Err() != nil {
				return err
			}
			run.Strategy = strategyName
			r.record(run)
			if store != nil {
				if _, err := store.RecordRun(ctx, run); err != nil {
					return err
				}
			}
			return nil
		})
	}
	err := wg.Wait()
	fmt.Printf("\r%s", r)
	fmt.Println()
	if ctx.Err() != nil {
		fmt.Printf("Interrupted: %s\n", ctx.Err())
		return nil
	}
	return err
}

// runOne plays one game with its own GameState, random number generators and strategy.
func runOne(ctx context.Context, scenario *config.Scenario, strategyConfig string, seed uint64) (run sqlite.Run, err error) {
	run = sqlite.Run{
		ID:        uuid.NewString(),
		Scenario:  scenario.Name,
		Seed:      seed,
		StartedAt: time.Now(),
	}
	if klog.V(1).Enabled() {
		klog.Infof("Starting run %s (seed %d)", run.ID, seed)
		defer func() { klog.Infof("Finished run %s: %s in %d turns", run.ID, run.Outcome, run.Turns) }()
	}
	g, err := scenario.NewGame(rand.New(rand.NewPCG(seed, seed)), nil)
	if err != nil {
		return
	}
	strategy, err := strategies.New(strategyConfig, rand.New(rand.NewPCG(seed, seed+1)))
	if err != nil {
		return
	}
	driver := strategies.Driver(strategy, func(context.Context, *state.GameState) error {
		if g.Time() >= *flagMaxTurns {
			return errTimeout
		}
		return nil
	})
	outcome, err := state.Simulate(ctx, g, driver)
	switch {
	case errors.Is(err, errTimeout):
		run.Outcome = sqlite.Timeout
		err = nil
	case err != nil:
		return
	default:
		run.Outcome = outcome.String()
		if outcome == state.AntsLose {
			run.Reason = g.LossReason().String()
		}
	}
	run.Turns = g.Time()
	run.Food = g.Food()
	run.AntsDeployed = g.AntsDeployed()
	run.Duration = time.Since(run.StartedAt)
	return
}

// printSummary of all the runs stored in the database.
func printSummary(ctx context.Context, store *sqlite.Store) {
	summary, err := store.Summary(ctx)
	if err != nil {
		klog.Errorf("Failed to summarize runs: %+v", err)
		return
	}
	fmt.Printf("\nAll runs in %s:\n", *flagDB)
	for _, s := range summary {
		fmt.Printf("  %-12s %-45s %5d runs, %5.1f%% wins, %5.1f turns on average\n",
			s.Scenario, s.Strategy, s.Runs, 100*float64(s.Wins)/float64(s.Runs), s.AvgTurns)
	}
}

// getParallelism returns the parallelism.
func getParallelism() (parallelism int) {
	parallelism = runtime.GOMAXPROCS(0)
	if *flagParallelism > 0 {
		parallelism = *flagParallelism
	}
	return
}
