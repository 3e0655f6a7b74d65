// Package config loads the static model configuration from YAML.
package config

import (
	"fmt"
	"os"

	dynfit "github.com/milosgajdos/go-dynfit"
	"github.com/milosgajdos/go-dynfit/model"
	"github.com/milosgajdos/go-dynfit/ode"
	"gopkg.in/yaml.v3"
)

const (
	// SolverRK4 selects the fixed step RK4 solver
	SolverRK4 = "rk4"
	// SolverAdaptive selects the adaptive step halving solver
	SolverAdaptive = "adaptive"
)

// Config is the static model configuration
type Config struct {
	// Dims are static model dimensions
	Dims dynfit.Dims `yaml:"dims"`
	// Subjects is the subject index table: num_sbj+1 observation offsets
	Subjects []int `yaml:"subjects"`
	// Solver configures the latent state solver
	Solver SolverConfig `yaml:"solver"`
	// WeightByLength weighs subject log-likelihoods by their observation counts
	WeightByLength bool `yaml:"weight_by_length"`
	// Seed seeds the simulation noise
	Seed uint64 `yaml:"seed"`
}

// SolverConfig configures the latent state solver
type SolverConfig struct {
	// Kind is either rk4 or adaptive
	Kind string `yaml:"kind"`
	// TauMaxFrac is the maximum adaptive step as a fraction of the integration interval
	TauMaxFrac float64 `yaml:"tau_max_frac"`
	// ErrorLimit is the adaptive solver local error limit
	ErrorLimit float64 `yaml:"error_limit"`
	// MaxIter is the maximum number of adaptive step halvings
	MaxIter int `yaml:"max_iter"`
}

// DefaultConfig returns the default configuration: a single subject
// with a single observation integrated by RK4.
func DefaultConfig() *Config {
	return &Config{
		Dims: dynfit.Dims{
			LatentVar: 1,
			ObsVar:    1,
			Regime:    1,
		},
		Subjects: []int{0, 1},
		Solver: SolverConfig{
			Kind:       SolverRK4,
			TauMaxFrac: ode.DefaultTauMaxFrac,
			ErrorLimit: ode.DefaultErrorLimit,
			MaxIter:    ode.DefaultMaxIter,
		},
	}
}

// Load reads configuration from the YAML file at path on top of DefaultConfig and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML data on top of DefaultConfig and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes cfg to path as YAML.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate returns error if the configuration is invalid.
func (c *Config) Validate() error {
	if err := c.Dims.Validate(); err != nil {
		return err
	}

	if _, err := model.NewSubjectIndex(c.Subjects); err != nil {
		return err
	}

	switch c.Solver.Kind {
	case SolverRK4:
	case SolverAdaptive:
		if c.Solver.MaxIter <= 0 {
			return fmt.Errorf("invalid solver max iterations: %d", c.Solver.MaxIter)
		}
		if _, err := ode.NewAdaptiveSolver(c.Solver.TauMaxFrac, c.Solver.ErrorLimit); err != nil {
			return err
		}
	default:
		return fmt.Errorf("invalid solver kind: %q", c.Solver.Kind)
	}

	return nil
}

// SubjectIndex returns the subject index table.
func (c *Config) SubjectIndex() (model.SubjectIndex, error) {
	return model.NewSubjectIndex(c.Subjects)
}

// NewSolver creates the configured solver and returns it.
func (c *Config) NewSolver() (dynfit.Solver, error) {
	switch c.Solver.Kind {
	case SolverRK4:
		return ode.NewRK4Solver(), nil
	case SolverAdaptive:
		s, err := ode.NewAdaptiveSolver(c.Solver.TauMaxFrac, c.Solver.ErrorLimit)
		if err != nil {
			return nil, err
		}
		s.MaxIter = c.Solver.MaxIter

		return s, nil
	}

	return nil, fmt.Errorf("invalid solver kind: %q", c.Solver.Kind)
}

// Apply copies the configured dimensions, subjects and solver into spec.
// Model functions of spec are left untouched.
func (c *Config) Apply(spec *model.Spec) error {
	subjects, err := c.SubjectIndex()
	if err != nil {
		return err
	}

	solver, err := c.NewSolver()
	if err != nil {
		return err
	}

	spec.Dims = c.Dims
	spec.Subjects = subjects
	spec.Solver = solver
	spec.WeightByLength = c.WeightByLength

	return nil
}
