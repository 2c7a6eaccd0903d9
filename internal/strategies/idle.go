package strategies

import (
	"github.com/janpfeifer/antsGo/internal/parameters"
	"github.com/janpfeifer/antsGo/internal/state"
	"math/rand/v2"
)

func init() {
	Register("idle", func(*rand.Rand, parameters.Params) (Strategy, error) { return idle{}, nil })
}

// idle never deploys anything: it is the baseline every other strategy should beat.
type idle struct{}

func (idle) Deploy(*state.GameState) error { return nil }
func (idle) String() string                { return "idle" }
