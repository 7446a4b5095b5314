package cmd

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"path"
	"sort"
	"text/tabwriter"

	"github.com/gosuri/uilive"
	"github.com/sirupsen/logrus"
	"github.com/zeu5/finite-mdp/analysis"
	"github.com/zeu5/finite-mdp/core"
	"github.com/zeu5/finite-mdp/solver"
	"github.com/zeu5/finite-mdp/util"
)

// interruptContext is cancelled on the first interrupt
func interruptContext() (context.Context, context.CancelFunc) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		select {
		case <-sigCh:
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
		cancel()
	}()
	return ctx, cancel
}

// walk applies the actions in order and prints every step
func walk(out io.Writer, env core.Environment, actions []core.Action, names []string) (float64, error) {
	total := float64(0)
	for i, a := range actions {
		reward, state, err := env.Step(a)
		if err != nil {
			return total, err
		}
		total += reward
		fmt.Fprintf(out, "#%d Action: %s, State: %d, Reward: %g, Total: %g\n", i+1, names[a], state, reward, total)
	}
	return total, nil
}

func parseActions(args []string, parse func(string) (core.Action, error)) ([]core.Action, error) {
	actions := make([]core.Action, len(args))
	for i, arg := range args {
		a, err := parse(arg)
		if err != nil {
			return nil, err
		}
		actions[i] = a
	}
	return actions, nil
}

type savedResult struct {
	Values  core.ValueFunction        `json:"values"`
	Policy  map[core.State]int        `json:"policy,omitempty"`
	// QValues holds null for actions the model rejects
	QValues map[core.State][]*float64 `json:"qValues,omitempty"`
	Sweeps  int                       `json:"sweeps"`
	Delta   float64                   `json:"delta"`
}

func newSavedResult(model core.Model, res *solver.Result) savedResult {
	out := savedResult{
		Values: res.Values,
		Sweeps: res.Sweeps,
		Delta:  res.Delta,
	}
	if res.Policy != nil {
		out.Policy = make(map[core.State]int)
		for _, s := range model.States() {
			out.Policy[s] = int(res.Policy.Action(s))
		}
	}
	if res.QValues != nil {
		out.QValues = make(map[core.State][]*float64)
		for _, s := range model.States() {
			qs, ok := res.QValues.GetAll(s)
			if !ok {
				continue
			}
			saved := make([]*float64, len(qs))
			for i, q := range qs {
				if math.IsInf(q, 0) || math.IsNaN(q) {
					continue
				}
				q := q
				saved[i] = &q
			}
			out.QValues[s] = saved
		}
	}
	return out
}

// saveResult writes a solver result and the flags under the run directory
func saveResult(name string, model core.Model, res *solver.Result) error {
	if !flags.Saving() {
		return nil
	}
	if err := flags.Record(); err != nil {
		return err
	}
	file := path.Join(flags.RunPath(), name+".json")
	logger.WithField("file", file).Info("saved result")
	return util.SaveJson(file, newSavedResult(model, res))
}

const histogramBins = 10

// verify runs the comparison with a live progress display and prints the
// estimates next to the exact values
func verify(ctx context.Context, out io.Writer, cmp *core.Comparison, run *core.RunConfig, exact map[string]core.ValueFunction) (*core.ComparisonResult, error) {
	if err := flags.Record(); err != nil {
		return nil, err
	}
	writer := uilive.New()
	writer.Out = out
	writer.Start()
	run.Progress = writer
	result, err := cmp.Run(ctx, run)
	writer.Stop()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(result.Estimates))
	for name := range result.Estimates {
		names = append(names, name)
	}
	sort.Strings(names)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "policy\tstart\texact\testimate\tstderr\ttruncated")
	for _, name := range names {
		e := result.Estimates[name]
		exactValue := "-"
		if v, ok := exact[name]; ok {
			exactValue = fmt.Sprintf("%.4f", v[e.Start])
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%.4f\t%.4f\t%d\n", name, e.Start, exactValue, e.Mean, e.StdErr, e.Truncated)

		if h, err := analysis.HistogramOf(result.Datasets[name]["Returns"], histogramBins); err == nil {
			logger.WithFields(logrus.Fields{
				"policy":   name,
				"dividers": h.Dividers,
				"counts":   h.Counts,
			}).Debug("returns histogram")
		}
	}
	return result, tw.Flush()
}
