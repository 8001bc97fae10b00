package config

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"

	"antevo/pkg/antenna"
)

// ErrInvalid marks a missing, unknown or out-of-range run parameter.
// Raised at load time, before any generational step runs.
var ErrInvalid = errors.New("config: invalid parameter")

// Config is the full run parameter set, decoded from a TOML file.
type Config struct {
	PopulationSize  int     `toml:"population_size"`
	NumGenerations  int     `toml:"num_generations"`
	NumWallPairs    int     `toml:"num_wall_pairs"`
	Seed            int64   `toml:"seed"`
	PerSiteMutRate  float64 `toml:"per_site_mut_rate"`
	MutEffectSize   float64 `toml:"mut_effect_size"`
	SelectionScheme string  `toml:"selection_scheme"`
	Selector        string  `toml:"selector"`

	MinHeight          float64 `toml:"min_height"`
	MaxHeight          float64 `toml:"max_height"`
	MinWaveguideHeight float64 `toml:"min_waveguide_height"`
	MaxWaveguideHeight float64 `toml:"max_waveguide_height"`
	MinWaveguideLength float64 `toml:"min_waveguide_length"`
	MaxWaveguideLength float64 `toml:"max_waveguide_length"`

	Output      Output      `toml:"output"`
	Persistence Persistence `toml:"persistence"`
	Simulator   Simulator   `toml:"sim"`
}

// Output configures the CSV reports and Pareto plots.
type Output struct {
	Dir string `toml:"dir"`
	// PlotObjectives names the two objectives drawn in the Pareto scatter
	// plot; empty disables plotting.
	PlotObjectives []string `toml:"plot_objectives"`
}

// Persistence configures the sqlite run database; an empty path disables it.
type Persistence struct {
	Path          string   `toml:"path"`
	Name          string   `toml:"name"`
	SQLitePragmas []string `toml:"sqlite_pragmas"`
}

// Simulator configures the external electromagnetic simulator; an empty
// command selects the built-in surrogate beam model.
type Simulator struct {
	Command         string   `toml:"command"`
	Args            []string `toml:"args"`
	MacroDir        string   `toml:"macro_dir"`
	ResultDir       string   `toml:"result_dir"`
	PollIntervalSec float64  `toml:"poll_interval_sec"`
	TimeoutSec      float64  `toml:"timeout_sec"`

	FreqStartMHz float64 `toml:"freq_start_mhz"`
	FreqStopMHz  float64 `toml:"freq_stop_mhz"`
	FreqStepMHz  float64 `toml:"freq_step_mhz"`
}

// required lists the parameters that must appear in the file, matching the
// strictness of the original parameter loader.
var required = []string{
	"population_size",
	"num_generations",
	"num_wall_pairs",
	"per_site_mut_rate",
	"mut_effect_size",
	"selection_scheme",
	"min_height",
	"max_height",
	"min_waveguide_height",
	"max_waveguide_height",
	"min_waveguide_length",
	"max_waveguide_length",
}

// Load decodes and validates a parameter file. Unknown keys and missing
// required parameters are rejected.
func Load(path string) (*Config, error) {
	cfg := Config{
		Seed:     1,
		Selector: "tournament",
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%w: %q is not a known parameter", ErrInvalid, undecoded[0].String())
	}
	for _, name := range required {
		if !md.IsDefined(name) {
			return nil, fmt.Errorf("%w: %s not set", ErrInvalid, name)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.PopulationSize <= 0 {
		return fmt.Errorf("%w: population_size must be positive, got %d", ErrInvalid, c.PopulationSize)
	}
	if c.NumGenerations <= 0 {
		return fmt.Errorf("%w: num_generations must be positive, got %d", ErrInvalid, c.NumGenerations)
	}
	if c.NumWallPairs <= 0 {
		return fmt.Errorf("%w: num_wall_pairs must be positive, got %d", ErrInvalid, c.NumWallPairs)
	}
	if c.PerSiteMutRate < 0 || c.PerSiteMutRate > 1 {
		return fmt.Errorf("%w: per_site_mut_rate must be in [0,1], got %g", ErrInvalid, c.PerSiteMutRate)
	}
	if c.MutEffectSize <= 0 {
		return fmt.Errorf("%w: mut_effect_size must be positive, got %g", ErrInvalid, c.MutEffectSize)
	}
	if c.SelectionScheme == "" {
		return fmt.Errorf("%w: selection_scheme must be set", ErrInvalid)
	}
	if c.Selector == "" {
		return fmt.Errorf("%w: selector must be set", ErrInvalid)
	}

	bounds := []struct {
		name     string
		min, max float64
	}{
		{"height", c.MinHeight, c.MaxHeight},
		{"waveguide_height", c.MinWaveguideHeight, c.MaxWaveguideHeight},
		{"waveguide_length", c.MinWaveguideLength, c.MaxWaveguideLength},
	}
	for _, b := range bounds {
		if b.min > b.max {
			return fmt.Errorf("%w: min_%s %g exceeds max_%s %g", ErrInvalid, b.name, b.min, b.name, b.max)
		}
	}
	return nil
}

// GenotypeSpec builds the antenna gene bounds from the loaded parameters.
func (c *Config) GenotypeSpec() *antenna.Spec {
	return &antenna.Spec{
		MinHeight:          c.MinHeight,
		MaxHeight:          c.MaxHeight,
		MinWaveguideHeight: c.MinWaveguideHeight,
		MaxWaveguideHeight: c.MaxWaveguideHeight,
		MinWaveguideLength: c.MinWaveguideLength,
		MaxWaveguideLength: c.MaxWaveguideLength,
		PerSiteMutRate:     c.PerSiteMutRate,
		MutEffectSize:      c.MutEffectSize,
	}
}
