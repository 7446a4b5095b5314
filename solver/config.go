package solver

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"github.com/zeu5/finite-mdp/core"
	"github.com/zeu5/finite-mdp/policies"
)

// DefaultMaxIterations caps the number of sweeps when Config.MaxIterations is zero
const DefaultMaxIterations = 100000

// TieTolerance is the gap under which two action values count as tied when displaying policies
const TieTolerance = 1e-9

type Config struct {
	// Gamma is the discount factor in [0,1]
	Gamma float64
	// Theta is the convergence threshold on the largest value change of a sweep
	Theta float64
	// MaxIterations caps the number of sweeps, 0 uses DefaultMaxIterations
	MaxIterations int

	Logger logrus.FieldLogger
}

func DefaultConfig() Config {
	return Config{
		Gamma:         1,
		Theta:         1e-12,
		MaxIterations: DefaultMaxIterations,
	}
}

func (c Config) Validate() error {
	if math.IsNaN(c.Gamma) || c.Gamma < 0 || c.Gamma > 1 {
		return fmt.Errorf("%w: gamma must be in [0,1], got %v", core.ErrInvalidConfig, c.Gamma)
	}
	if math.IsNaN(c.Theta) || c.Theta <= 0 {
		return fmt.Errorf("%w: theta must be positive, got %v", core.ErrInvalidConfig, c.Theta)
	}
	if c.MaxIterations < 0 {
		return fmt.Errorf("%w: max iterations must not be negative, got %d", core.ErrInvalidConfig, c.MaxIterations)
	}
	return nil
}

func (c Config) maxIterations() int {
	if c.MaxIterations == 0 {
		return DefaultMaxIterations
	}
	return c.MaxIterations
}

func (c Config) logger() logrus.FieldLogger {
	if c.Logger == nil {
		return logrus.StandardLogger()
	}
	return c.Logger
}

// Result is the outcome of a converged solver run
type Result struct {
	Values core.ValueFunction
	// Policy is the greedy policy, nil for plain policy evaluation
	Policy *policies.Deterministic
	// QValues holds the action values of the last sweep, nil for plain policy evaluation
	QValues *policies.QTable
	Sweeps  int
	Delta   float64
}
