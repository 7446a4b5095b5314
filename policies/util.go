package policies

import (
	"fmt"
	"math"

	"github.com/zeu5/finite-mdp/core"
	"gonum.org/v1/gonum/floats"
)

// QTable stores one value per action for every state
type QTable struct {
	table      map[core.State][]float64
	numActions int
}

func NewQTable(numActions int) *QTable {
	return &QTable{
		table:      make(map[core.State][]float64),
		numActions: numActions,
	}
}

func (q *QTable) NumActions() int {
	return q.numActions
}

func (q *QTable) Get(state core.State, action core.Action) float64 {
	values, ok := q.table[state]
	if !ok {
		return 0
	}
	return values[action]
}

func (q *QTable) GetAll(state core.State) ([]float64, bool) {
	values, ok := q.table[state]
	return values, ok
}

// SetAll replaces the action values of a state
func (q *QTable) SetAll(state core.State, values []float64) error {
	if len(values) != q.numActions {
		return fmt.Errorf("%w: %d values for %d actions", core.ErrInvalidPolicy, len(values), q.numActions)
	}
	stored := make([]float64, len(values))
	copy(stored, values)
	q.table[state] = stored
	return nil
}

func (q *QTable) Set(state core.State, action core.Action, val float64) {
	if _, ok := q.table[state]; !ok {
		q.table[state] = make([]float64, q.numActions)
	}
	q.table[state][action] = val
}

func (q *QTable) HasState(state core.State) bool {
	_, ok := q.table[state]
	return ok
}

// Max returns the first best action and its value.
// Unknown states return action 0 and def.
func (q *QTable) Max(state core.State, def float64) (core.Action, float64) {
	values, ok := q.table[state]
	if !ok || len(values) == 0 {
		return 0, def
	}
	i := floats.MaxIdx(values)
	return core.Action(i), values[i]
}

// Ties lists every action within tol of the best value
func (q *QTable) Ties(state core.State, tol float64) core.ActionSet {
	values, ok := q.table[state]
	if !ok || len(values) == 0 {
		return nil
	}
	best := floats.Max(values)
	out := make(core.ActionSet, 0)
	for a, v := range values {
		if math.Abs(v-best) <= tol {
			out = append(out, core.Action(a))
		}
	}
	return out
}

func (q *QTable) Size() int {
	return len(q.table)
}

// Greedy picks the first best action in every stored state
func (q *QTable) Greedy() *Deterministic {
	d := NewDeterministic(q.numActions)
	for s := range q.table {
		a, _ := q.Max(s, 0)
		d.Set(s, a)
	}
	return d
}

// TieChooser shows every action within tol of the best one, a single action when there is no tie
func (q *QTable) TieChooser(tol float64) core.Chooser {
	return tieChooser{q: q, tol: tol}
}

type tieChooser struct {
	q   *QTable
	tol float64
}

func (t tieChooser) Choice(s core.State) core.Choice {
	ties := t.q.Ties(s, t.tol)
	if len(ties) == 1 {
		return core.SingleAction(ties[0])
	}
	return ties
}
