package common

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strconv"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/zeu5/finite-mdp/analysis"
	"github.com/zeu5/finite-mdp/core"
	"github.com/zeu5/finite-mdp/solver"
	"github.com/zeu5/finite-mdp/util"
)

// EnvPrefix prefixes every environment variable read by LoadEnv
const EnvPrefix = "MDP_"

type Flags struct {
	SavePath string
	RunID    string
	SolverFlags
	RunFlags
	Debug bool
}

type SolverFlags struct {
	// Gamma below zero picks the default of the environment
	Gamma         float64
	Theta         float64
	MaxIterations int
}

type RunFlags struct {
	Episodes int
	Horizon  int
	Seed     uint64
}

func DefaultFlags() *Flags {
	return &Flags{
		SavePath: "results",
		SolverFlags: SolverFlags{
			Gamma:         -1,
			Theta:         1e-12,
			MaxIterations: solver.DefaultMaxIterations,
		},
		RunFlags: RunFlags{
			Episodes: 10000,
			Horizon:  0,
			Seed:     1,
		},
		Debug: false,
	}
}

// LoadEnv reads an optional .env file and applies MDP_* variables to every
// setting for which isSet returns false. Malformed values are errors.
func (f *Flags) LoadEnv(isSet func(flag string) bool, files ...string) error {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading env file: %w", err)
	}
	apply := func(flag, key string, parse func(string) error) error {
		if isSet != nil && isSet(flag) {
			return nil
		}
		value, ok := os.LookupEnv(EnvPrefix + key)
		if !ok {
			return nil
		}
		if err := parse(value); err != nil {
			return fmt.Errorf("%w: %s%s=%q: %v", core.ErrInvalidConfig, EnvPrefix, key, value, err)
		}
		return nil
	}
	setters := []struct {
		flag, key string
		parse     func(string) error
	}{
		{"save-path", "SAVE_PATH", func(v string) error { f.SavePath = v; return nil }},
		{"run-id", "RUN_ID", func(v string) error { f.RunID = v; return nil }},
		{"gamma", "GAMMA", floatSetter(&f.Gamma)},
		{"theta", "THETA", floatSetter(&f.Theta)},
		{"max-iterations", "MAX_ITERATIONS", intSetter(&f.MaxIterations)},
		{"episodes", "EPISODES", intSetter(&f.Episodes)},
		{"horizon", "HORIZON", intSetter(&f.Horizon)},
		{"seed", "SEED", func(v string) (err error) { f.Seed, err = strconv.ParseUint(v, 10, 64); return }},
		{"debug", "DEBUG", func(v string) (err error) { f.Debug, err = strconv.ParseBool(v); return }},
	}
	for _, s := range setters {
		if err := apply(s.flag, s.key, s.parse); err != nil {
			return err
		}
	}
	return nil
}

func floatSetter(dst *float64) func(string) error {
	return func(v string) (err error) {
		*dst, err = strconv.ParseFloat(v, 64)
		return
	}
}

func intSetter(dst *int) func(string) error {
	return func(v string) (err error) {
		*dst, err = strconv.Atoi(v)
		return
	}
}

// EnsureRunID assigns a fresh run id when none was given
func (f *Flags) EnsureRunID() string {
	if f.RunID == "" {
		f.RunID = uuid.NewString()
	}
	return f.RunID
}

// RunPath is the directory results of this run are saved under
func (f *Flags) RunPath() string {
	return path.Join(f.SavePath, f.EnsureRunID())
}

// Saving reports whether results are written to disk, an empty save path turns it off
func (f *Flags) Saving() bool {
	return f.SavePath != ""
}

// Record saves the flags of the run next to its results
func (f *Flags) Record() error {
	if !f.Saving() {
		return nil
	}
	return util.SaveJson(path.Join(f.RunPath(), "config.json"), f)
}

// DatasetComparator saves the datasets of one analysis as name.json under
// the run directory, or discards them when saving is off
func (f *Flags) DatasetComparator(name string) core.Comparator {
	if !f.Saving() {
		return analysis.NewNoOpComparator()
	}
	return analysis.NewJSONComparator(f.RunPath(), name)
}

// GammaOr returns the configured discount factor or def when none was set
func (f *Flags) GammaOr(def float64) float64 {
	if f.Gamma < 0 {
		return def
	}
	return f.Gamma
}

func (f *Flags) SolverConfig(gamma float64, logger logrus.FieldLogger) solver.Config {
	return solver.Config{
		Gamma:         gamma,
		Theta:         f.Theta,
		MaxIterations: f.MaxIterations,
		Logger:        logger,
	}
}

func (f *Flags) RunConfig(gamma float64, progress io.Writer) *core.RunConfig {
	return &core.RunConfig{
		Episodes: f.Episodes,
		Horizon:  f.Horizon,
		Gamma:    gamma,
		Seed:     f.Seed,
		Progress: progress,
	}
}

// NewLogger builds the logger shared by the commands
func (f *Flags) NewLogger(out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	if f.Debug {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}
	return logger
}
