package analysis

import (
	"github.com/zeu5/finite-mdp/core"
)

type visitDataset struct {
	// Visits counts how often every state was entered over all episodes
	Visits       map[core.State]int
	Timesteps    []int
	UniqueStates []int
}

func (v *visitDataset) Copy() *visitDataset {
	visits := make(map[core.State]int, len(v.Visits))
	for s, n := range v.Visits {
		visits[s] = n
	}
	return &visitDataset{
		Visits:       visits,
		Timesteps:    append([]int(nil), v.Timesteps...),
		UniqueStates: append([]int(nil), v.UniqueStates...),
	}
}

// VisitAnalyzer tracks state visits and how many distinct states were seen after each episode
type VisitAnalyzer struct {
	dataset *visitDataset
}

var _ core.Analyzer = &VisitAnalyzer{}

func NewVisitAnalyzer() *VisitAnalyzer {
	a := &VisitAnalyzer{}
	a.Reset()
	return a
}

func (v *VisitAnalyzer) Reset() {
	v.dataset = &visitDataset{
		Visits:       make(map[core.State]int),
		Timesteps:    make([]int, 0),
		UniqueStates: make([]int, 0),
	}
}

func (v *VisitAnalyzer) Analyze(_ int, trace *core.Trace) {
	for _, s := range trace.Path() {
		v.dataset.Visits[s]++
	}
	lastTimeStep := 0
	if len(v.dataset.Timesteps) > 0 {
		lastTimeStep = v.dataset.Timesteps[len(v.dataset.Timesteps)-1]
	}
	v.dataset.Timesteps = append(v.dataset.Timesteps, lastTimeStep+trace.Len())
	v.dataset.UniqueStates = append(v.dataset.UniqueStates, len(v.dataset.Visits))
}

func (v *VisitAnalyzer) Visits(s core.State) int {
	return v.dataset.Visits[s]
}

func (v *VisitAnalyzer) DataSet() core.DataSet {
	return v.dataset.Copy()
}

type VisitAnalyzerConstructor struct{}

var _ core.AnalyzerConstructor = &VisitAnalyzerConstructor{}

func (c *VisitAnalyzerConstructor) NewAnalyzer() core.Analyzer {
	return NewVisitAnalyzer()
}
