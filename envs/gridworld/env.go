// Package gridworld implements a rectangular world with rewarded cells,
// teleporting cells and blocked squares.
package gridworld

import (
	"fmt"
	"sort"

	"github.com/zeu5/finite-mdp/core"
)

const (
	ActionUp core.Action = iota
	ActionRight
	ActionDown
	ActionLeft
)

// Moves are the (row, col) offsets of the actions, in action order
var Moves = []Position{
	{-1, 0},
	{0, 1},
	{1, 0},
	{0, -1},
}

var MoveLabels = []string{"↑", "→", "↓", "←"}

var moveNames = []string{"up", "right", "down", "left"}

type Position struct {
	Row int
	Col int
}

func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.Row, p.Col)
}

func (p Position) Add(o Position) Position {
	return Position{Row: p.Row + o.Row, Col: p.Col + o.Col}
}

// Teleport moves the agent from its source cell to Target whatever the action
type Teleport struct {
	Target Position
	Reward float64
}

type Config struct {
	Height int
	Width  int
	Start  Position

	// Rewards for landing on a cell, 0 elsewhere
	Rewards   map[Position]float64
	Teleports map[Position]Teleport
	Blocked   []Position
	Terminals []Position
	Labels    map[Position]string

	// InvalidMoveReward is paid when a move would leave the grid or enter a blocked square
	InvalidMoveReward float64
}

func (c Config) inside(p Position) bool {
	return p.Row >= 0 && p.Col >= 0 && p.Row < c.Height && p.Col < c.Width
}

func (c Config) Validate() error {
	if c.Height <= 0 || c.Width <= 0 {
		return fmt.Errorf("%w: grid size %dx%d", core.ErrInvalidConfig, c.Height, c.Width)
	}
	blocked := make(map[Position]bool)
	for _, p := range c.Blocked {
		if !c.inside(p) {
			return fmt.Errorf("%w: blocked square %s outside the grid", core.ErrInvalidConfig, p)
		}
		blocked[p] = true
	}
	if !c.inside(c.Start) || blocked[c.Start] {
		return fmt.Errorf("%w: start %s is not a free cell", core.ErrInvalidConfig, c.Start)
	}
	for p := range c.Rewards {
		if !c.inside(p) {
			return fmt.Errorf("%w: reward cell %s outside the grid", core.ErrInvalidConfig, p)
		}
	}
	for from, t := range c.Teleports {
		if !c.inside(from) || blocked[from] {
			return fmt.Errorf("%w: teleport source %s is not a free cell", core.ErrInvalidConfig, from)
		}
		if !c.inside(t.Target) || blocked[t.Target] {
			return fmt.Errorf("%w: teleport target %s is not a free cell", core.ErrInvalidConfig, t.Target)
		}
	}
	for _, p := range c.Terminals {
		if !c.inside(p) || blocked[p] {
			return fmt.Errorf("%w: terminal %s is not a free cell", core.ErrInvalidConfig, p)
		}
	}
	return nil
}

// World is the transition model of a gridworld
type World struct {
	config    Config
	blocked   map[Position]bool
	terminals map[Position]bool
	states    []core.State
}

var _ core.Model = &World{}

func New(config Config) (*World, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	w := &World{
		config:    config,
		blocked:   make(map[Position]bool),
		terminals: make(map[Position]bool),
	}
	w.config.Rewards = make(map[Position]float64, len(config.Rewards))
	for p, r := range config.Rewards {
		w.config.Rewards[p] = r
	}
	w.config.Teleports = make(map[Position]Teleport, len(config.Teleports))
	for p, t := range config.Teleports {
		w.config.Teleports[p] = t
	}
	w.config.Labels = make(map[Position]string, len(config.Labels))
	for p, l := range config.Labels {
		w.config.Labels[p] = l
	}
	for _, p := range config.Blocked {
		w.blocked[p] = true
	}
	for _, p := range config.Terminals {
		w.terminals[p] = true
	}
	for _, p := range w.AllPositions() {
		if !w.blocked[p] {
			w.states = append(w.states, w.StateOf(p))
		}
	}
	return w, nil
}

// NewSimple builds the minimal gridworld: no teleports, no blocked squares, start at (0, 0)
func NewSimple(height, width int, rewards map[Position]float64, invalidMoveReward float64) (*World, error) {
	return New(Config{
		Height:            height,
		Width:             width,
		Rewards:           rewards,
		InvalidMoveReward: invalidMoveReward,
	})
}

func (w *World) Config() Config {
	return w.config
}

// AllPositions lists every cell in row-major order, blocked ones included
func (w *World) AllPositions() []Position {
	out := make([]Position, 0, w.config.Height*w.config.Width)
	for i := 0; i < w.config.Height; i++ {
		for j := 0; j < w.config.Width; j++ {
			out = append(out, Position{Row: i, Col: j})
		}
	}
	return out
}

func (w *World) StateOf(p Position) core.State {
	return core.State(p.Row*w.config.Width + p.Col)
}

func (w *World) Pos(s core.State) Position {
	return Position{Row: int(s) / w.config.Width, Col: int(s) % w.config.Width}
}

func (w *World) IsBlocked(p Position) bool {
	return w.blocked[p]
}

func (w *World) States() []core.State {
	return w.states
}

func (w *World) NumActions() int {
	return len(Moves)
}

func (w *World) Initial() core.State {
	return w.StateOf(w.config.Start)
}

func (w *World) IsTerminal(s core.State) bool {
	return w.terminals[w.Pos(s)]
}

func (w *World) validPosition(p Position) bool {
	return w.config.inside(p) && !w.blocked[p]
}

func (w *World) Transitions(s core.State, a core.Action) ([]core.Outcome, error) {
	if err := core.ValidAction(w, s, a); err != nil {
		return nil, err
	}
	pos := w.Pos(s)
	if s < 0 || !w.validPosition(pos) {
		return nil, fmt.Errorf("%w: %d", core.ErrInvalidState, s)
	}
	if w.terminals[pos] {
		return []core.Outcome{{Next: s, Reward: 0, Probability: 1}}, nil
	}
	next, reward := w.move(pos, a)
	return []core.Outcome{{Next: w.StateOf(next), Reward: reward, Probability: 1}}, nil
}

func (w *World) move(pos Position, a core.Action) (Position, float64) {
	if t, ok := w.config.Teleports[pos]; ok {
		return t.Target, t.Reward
	}
	next := pos.Add(Moves[a])
	if !w.validPosition(next) {
		return pos, w.config.InvalidMoveReward
	}
	return next, w.config.Rewards[next]
}

// ValidActions lists the moves from the state that stay on free cells
func (w *World) ValidActions(s core.State) []core.Action {
	pos := w.Pos(s)
	out := make([]core.Action, 0, len(Moves))
	for a, m := range Moves {
		if w.validPosition(pos.Add(m)) {
			out = append(out, core.Action(a))
		}
	}
	return out
}

// TeleportSources lists the teleporting cells in row-major order
func (w *World) TeleportSources() []Position {
	out := make([]Position, 0, len(w.config.Teleports))
	for p := range w.config.Teleports {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return w.StateOf(out[i]) < w.StateOf(out[j])
	})
	return out
}

// ParseAction accepts a move name, arrow label or index
func ParseAction(s string) (core.Action, error) {
	for i := range Moves {
		if s == moveNames[i] || s == MoveLabels[i] || s == fmt.Sprint(i) {
			return core.Action(i), nil
		}
	}
	return 0, &core.InvalidActionError{Action: -1, Reason: fmt.Sprintf("unknown move %q", s)}
}
