package core

import (
	"fmt"
	"io"
	"math"
)

type DataSet interface{}

// Analyzer observes every finished Monte-Carlo episode
type Analyzer interface {
	Analyze(int, *Trace)
	DataSet() DataSet
	Reset()
}

type Comparator interface {
	Compare([]string, []DataSet) error
}

type RunConfig struct {
	Episodes int
	// Horizon truncates episodes after that many steps, 0 runs until a terminal state
	Horizon int
	Gamma   float64
	Seed    uint64

	// Progress receives one status line per episode when set
	Progress io.Writer
}

func (c *RunConfig) Validate() error {
	if c.Episodes <= 0 {
		return fmt.Errorf("%w: episodes must be positive, got %d", ErrInvalidConfig, c.Episodes)
	}
	if c.Horizon < 0 {
		return fmt.Errorf("%w: horizon must not be negative, got %d", ErrInvalidConfig, c.Horizon)
	}
	if math.IsNaN(c.Gamma) || c.Gamma < 0 || c.Gamma > 1 {
		return fmt.Errorf("%w: gamma must be in [0,1], got %v", ErrInvalidConfig, c.Gamma)
	}
	return nil
}

// Experiment couples an environment family with the policy under verification
type Experiment struct {
	Name        string
	Environment EnvironmentConstructor
	Policy      Policy
	Start       State
}

// Comparison runs several experiments with the same analyzers and
// hands the resulting datasets to the comparators.
type Comparison struct {
	Experiments []*Experiment
	Analyzers   map[string]AnalyzerConstructor
	Comparators map[string]Comparator
}

type AnalyzerConstructor interface {
	NewAnalyzer() Analyzer
}

func NewComparison() *Comparison {
	return &Comparison{
		Analyzers:   make(map[string]AnalyzerConstructor),
		Comparators: make(map[string]Comparator),
		Experiments: make([]*Experiment, 0),
	}
}

func (c *Comparison) AddExperiment(e *Experiment) {
	c.Experiments = append(c.Experiments, e)
}

func (c *Comparison) AddAnalysis(name string, a AnalyzerConstructor, cmp Comparator) {
	c.Analyzers[name] = a
	c.Comparators[name] = cmp
}
