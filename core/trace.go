package core

type Step struct {
	State     State
	Action    Action
	Reward    float64
	NextState State
}

// Trace records the steps of one episode
type Trace struct {
	steps []*Step
	// Return is the discounted sum of rewards of the episode
	Return    float64
	Truncated bool
}

func NewTrace() *Trace {
	return &Trace{
		steps: make([]*Step, 0),
	}
}

func (t *Trace) AddStep(s *Step) {
	t.steps = append(t.steps, s)
}

// Step returns the i-th step, the first step has index 0
func (t *Trace) Step(i int) *Step {
	return t.steps[i]
}

func (t *Trace) Len() int {
	return len(t.steps)
}

func (t *Trace) Last() *Step {
	if len(t.steps) == 0 {
		return nil
	}
	return t.steps[len(t.steps)-1]
}

// Path lists the visited states, starting state first
func (t *Trace) Path() []State {
	if len(t.steps) == 0 {
		return nil
	}
	path := make([]State, 0, len(t.steps)+1)
	path = append(path, t.Step(0).State)
	for i := 0; i < t.Len(); i++ {
		path = append(path, t.Step(i).NextState)
	}
	return path
}
