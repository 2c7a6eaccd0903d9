// Package config loads scenarios: the colony layout, its budget and the bees' assault
// plan, described in TOML files.
//
// A few scenarios are built in (see BuiltinNames), and any field can be overridden
// with a parameters string, e.g. "food=10,tunnels=2".
package config

import (
	"embed"
	"fmt"
	"github.com/BurntSushi/toml"
	"github.com/janpfeifer/antsGo/internal/layouts"
	"github.com/janpfeifer/antsGo/internal/parameters"
	"github.com/janpfeifer/antsGo/internal/state"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
)

// Default dimensions of the colony, if the scenario doesn't set them.
const (
	DefaultTunnels = 3
	DefaultLength  = 9
)

//go:embed scenarios/*.toml
var builtinFS embed.FS

// builtinNames in increasing order of difficulty.
var builtinNames = []string{"test", "easy", "normal", "hard", "extra-hard"}

// Scenario describes a game: the layout of the colony, its food and ant catalog, and the
// waves of bees.
type Scenario struct {
	Name        string `toml:"name"`
	Description string `toml:"description"`

	// Food the colony starts with. 0 (or missing) means state.DefaultFood, and
	// state.NoFood (-1) means none.
	Food int `toml:"food"`

	Layout Layout `toml:"layout"`

	// Ants lists the names of the ant types that can be deployed. Empty means all.
	Ants []string `toml:"ants"`

	Waves []Wave `toml:"waves"`

	// Path of the file the scenario was loaded from, if any.
	Path string `toml:"-"`
}

// Layout of the colony tunnels.
type Layout struct {
	// Kind is "wet" or "dry".
	Kind          string `toml:"kind"`
	Tunnels       int    `toml:"tunnels"`
	Length        int    `toml:"length"`
	MoatFrequency int    `toml:"moat_frequency"`
}

// Wave of Count bees released at Turn. If Every > 0 the wave repeats every Every turns
// until turn Until (inclusive).
type Wave struct {
	Bee    string `toml:"bee"`
	Health int    `toml:"health"`
	Turn   int    `toml:"turn"`
	Count  int    `toml:"count"`
	Every  int    `toml:"every"`
	Until  int    `toml:"until"`
}

// Turns when the wave is released.
func (w Wave) Turns() []int {
	if w.Every <= 0 {
		return []int{w.Turn}
	}
	var turns []int
	for turn := w.Turn; turn <= w.Until; turn += w.Every {
		turns = append(turns, turn)
	}
	return turns
}

// BuiltinNames returns the names of the built-in scenarios, from easiest to hardest.
func BuiltinNames() []string {
	return append([]string(nil), builtinNames...)
}

// Builtin returns the built-in scenario with the given name.
func Builtin(name string) (*Scenario, error) {
	data, err := builtinFS.ReadFile("scenarios/" + name + ".toml")
	if err != nil {
		return nil, errors.Errorf("unknown scenario %q, built-in scenarios are %q", name, builtinNames)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, errors.WithMessagef(err, "built-in scenario %q", name)
	}
	return s, nil
}

// Load a scenario from a TOML file. A leading "~" is expanded to the user's home directory.
func Load(path string) (*Scenario, error) {
	resolved := path
	if strings.HasPrefix(resolved, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(err, "resolve home directory")
		}
		resolved = filepath.Join(home, strings.TrimLeft(strings.TrimPrefix(resolved, "~"), `/\`))
	}
	resolved = filepath.Clean(resolved)
	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, errors.Wrapf(err, "read scenario file %s", resolved)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, errors.WithMessagef(err, "scenario file %s", resolved)
	}
	s.Path = resolved
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(resolved), filepath.Ext(resolved))
	}
	klog.V(1).Infof("Loaded scenario %q from %s", s.Name, resolved)
	return s, nil
}

// Parse a scenario in TOML. Missing layout fields are set to their defaults, and the
// scenario is validated.
func Parse(data []byte) (*Scenario, error) {
	s := &Scenario{}
	md, err := toml.Decode(string(data), s)
	if err != nil {
		return nil, errors.Wrap(err, "decode scenario")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.Errorf("unknown scenario field(s) %q", undecoded)
	}
	s.setDefaults()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scenario) setDefaults() {
	if s.Layout.Kind == "" {
		s.Layout.Kind = layouts.DryName
	}
	if s.Layout.Tunnels == 0 {
		s.Layout.Tunnels = DefaultTunnels
	}
	if s.Layout.Length == 0 {
		s.Layout.Length = DefaultLength
	}
	if s.Layout.Kind == layouts.WetName && s.Layout.MoatFrequency == 0 {
		s.Layout.MoatFrequency = layouts.DefaultMoatFrequency
	}
}

// Validate checks that the names in the scenario are known and that numbers are in range.
func (s *Scenario) Validate() error {
	if _, err := layouts.ByName(s.Layout.Kind, s.Layout.MoatFrequency); err != nil {
		return err
	}
	if s.Layout.Tunnels <= 0 || s.Layout.Length <= 0 {
		return errors.Errorf("layout needs at least one tunnel of length 1, got %d tunnels of length %d",
			s.Layout.Tunnels, s.Layout.Length)
	}
	if s.Food < 0 && s.Food != state.NoFood {
		return errors.Errorf("invalid food=%d: use 0 for the default or %d for none", s.Food, state.NoFood)
	}
	if s.Layout.MoatFrequency < 0 {
		return errors.Errorf("invalid moat_frequency=%d", s.Layout.MoatFrequency)
	}
	for _, name := range s.Ants {
		if state.AntTypeByName(name) == nil {
			return errors.Wrapf(state.ErrUnknownAntType, "%q in scenario ants", name)
		}
	}
	for ii, w := range s.Waves {
		if _, found := state.BeeKindByName(w.Bee); !found {
			return errors.Errorf("wave #%d: unknown bee type %q", ii, w.Bee)
		}
		if w.Turn < 0 || w.Health <= 0 || w.Count <= 0 {
			return errors.Errorf("wave #%d: invalid turn=%d, health=%d or count=%d", ii, w.Turn, w.Health, w.Count)
		}
		if w.Every < 0 || (w.Every > 0 && w.Until < w.Turn) {
			return errors.Errorf("wave #%d: invalid repetition every=%d until=%d", ii, w.Every, w.Until)
		}
	}
	return nil
}

// Apply overrides from params: "food", "tunnels", "length", "moat" and "layout".
// Unknown parameters are an error.
func (s *Scenario) Apply(params parameters.Params) (err error) {
	if s.Food, err = parameters.PopParamOr(params, "food", s.Food); err != nil {
		return err
	}
	if s.Layout.Tunnels, err = parameters.PopParamOr(params, "tunnels", s.Layout.Tunnels); err != nil {
		return err
	}
	if s.Layout.Length, err = parameters.PopParamOr(params, "length", s.Layout.Length); err != nil {
		return err
	}
	if s.Layout.MoatFrequency, err = parameters.PopParamOr(params, "moat", s.Layout.MoatFrequency); err != nil {
		return err
	}
	if s.Layout.Kind, err = parameters.PopParamOr(params, "layout", s.Layout.Kind); err != nil {
		return err
	}
	if err = params.Unused(); err != nil {
		return errors.WithMessage(err, "scenario overrides")
	}
	s.setDefaults()
	return s.Validate()
}

// Plan returns the assault plan of the scenario. The scenario must be valid.
func (s *Scenario) Plan() *state.AssaultPlan {
	plan := state.NewAssaultPlan()
	for _, w := range s.Waves {
		kind, _ := state.BeeKindByName(w.Bee)
		for _, turn := range w.Turns() {
			plan.AddWave(kind, w.Health, turn, w.Count)
		}
	}
	return plan
}

// NewGame creates the colony for the scenario. listener may be nil.
func (s *Scenario) NewGame(rng *rand.Rand, listener state.Listener) (*state.GameState, error) {
	layout, err := layouts.ByName(s.Layout.Kind, s.Layout.MoatFrequency)
	if err != nil {
		return nil, err
	}
	g, err := state.New(state.Config{
		Plan:     s.Plan(),
		AntTypes: s.Ants,
		Layout:   layout,
		Tunnels:  s.Layout.Tunnels,
		Length:   s.Layout.Length,
		Food:     s.Food,
		Rand:     rng,
		Listener: listener,
	})
	if err != nil {
		return nil, errors.WithMessagef(err, "scenario %q", s.Name)
	}
	return g, nil
}

// String returns a one-line description of the scenario.
func (s *Scenario) String() string {
	layout := s.Layout.Kind
	if layout == layouts.WetName {
		layout = fmt.Sprintf("%s(moat=%d)", layout, s.Layout.MoatFrequency)
	}
	return fmt.Sprintf("%s: %s %dx%d, %d bees", s.Name, layout, s.Layout.Tunnels, s.Layout.Length, s.Plan().NumBees())
}

// Select loads the scenario file if path is given, or the built-in scenario name otherwise,
// and then applies the overrides (a parameters string, see Apply).
func Select(name, path, overrides string) (s *Scenario, err error) {
	if path != "" {
		s, err = Load(path)
	} else {
		s, err = Builtin(name)
	}
	if err != nil {
		return nil, err
	}
	if overrides != "" {
		if err = s.Apply(parameters.NewFromConfigString(overrides)); err != nil {
			return nil, err
		}
	}
	return s, nil
}
