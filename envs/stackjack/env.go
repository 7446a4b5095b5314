// Package stackjack is a simplified blackjack: the player draws cards from one of
// two stacks or stands and compares the card sum against a single dealer card.
package stackjack

import (
	"fmt"

	"github.com/zeu5/finite-mdp/core"
)

const (
	ActionStand core.Action = iota
	ActionStack1
	ActionStack2

	numActions = 3
)

var ActionNames = []string{"stand", "stack1", "stack2"}

// BustComposition decides the reward for drawing a card that busts the player
type BustComposition int

const (
	// ComposeAdditive pays RewardBust + RewardCard
	ComposeAdditive BustComposition = iota
	// ComposeBustOnly pays RewardBust
	ComposeBustOnly
)

type Config struct {
	// Bust is the card sum at which the player goes bust. It doubles as the terminal state.
	Bust int

	RewardCard float64
	RewardWin  float64
	RewardDraw float64
	RewardLost float64
	RewardBust float64

	Stack1      []int
	Stack2      []int
	DealerStack []int

	BustComposition BustComposition
}

func DefaultConfig() Config {
	return Config{
		Bust:        27,
		RewardCard:  -1,
		RewardWin:   10,
		RewardDraw:  0,
		RewardLost:  -10,
		RewardBust:  -20,
		Stack1:      cardRange(1, 6),
		Stack2:      cardRange(11, 16),
		DealerStack: cardRange(20, 27),
	}
}

func cardRange(from, to int) []int {
	out := make([]int, 0, to-from)
	for c := from; c < to; c++ {
		out = append(out, c)
	}
	return out
}

func (c Config) Validate() error {
	if c.Bust <= 0 {
		return fmt.Errorf("%w: bust must be positive, got %d", core.ErrInvalidConfig, c.Bust)
	}
	stacks := map[string][]int{"stack1": c.Stack1, "stack2": c.Stack2, "dealer": c.DealerStack}
	for name, stack := range stacks {
		if len(stack) == 0 {
			return fmt.Errorf("%w: %s stack is empty", core.ErrInvalidConfig, name)
		}
		for _, card := range stack {
			if card <= 0 {
				return fmt.Errorf("%w: %s stack holds card %d", core.ErrInvalidConfig, name, card)
			}
		}
	}
	switch c.BustComposition {
	case ComposeAdditive, ComposeBustOnly:
	default:
		return fmt.Errorf("%w: unknown bust composition %d", core.ErrInvalidConfig, c.BustComposition)
	}
	return nil
}

func (c Config) bustReward() float64 {
	if c.BustComposition == ComposeBustOnly {
		return c.RewardBust
	}
	return c.RewardBust + c.RewardCard
}

func copyCards(cards []int) []int {
	out := make([]int, len(cards))
	copy(out, cards)
	return out
}

// Game is the transition model of StackJack
type Game struct {
	config Config
	states []core.State
}

var _ core.Model = &Game{}

func New(config Config) (*Game, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	config.Stack1 = copyCards(config.Stack1)
	config.Stack2 = copyCards(config.Stack2)
	config.DealerStack = copyCards(config.DealerStack)

	states := make([]core.State, config.Bust+1)
	for s := range states {
		states[s] = core.State(s)
	}
	return &Game{config: config, states: states}, nil
}

func (g *Game) Config() Config {
	return g.config
}

func (g *Game) States() []core.State {
	return g.states
}

func (g *Game) NumActions() int {
	return numActions
}

func (g *Game) Initial() core.State {
	return 0
}

func (g *Game) Terminal() core.State {
	return core.State(g.config.Bust)
}

func (g *Game) IsTerminal(s core.State) bool {
	return int(s) == g.config.Bust
}

func (g *Game) Transitions(s core.State, a core.Action) ([]core.Outcome, error) {
	if err := core.ValidAction(g, s, a); err != nil {
		return nil, err
	}
	if s < 0 || int(s) > g.config.Bust {
		return nil, fmt.Errorf("%w: card sum %d", core.ErrInvalidState, s)
	}
	if g.IsTerminal(s) {
		return []core.Outcome{{Next: s, Reward: 0, Probability: 1}}, nil
	}
	switch a {
	case ActionStand:
		return core.Merge(core.Uniform(g.config.DealerStack, func(dealer int) (core.State, float64) {
			return g.Terminal(), g.compare(int(s), dealer)
		})), nil
	case ActionStack1:
		return g.draw(s, g.config.Stack1), nil
	case ActionStack2:
		return g.draw(s, g.config.Stack2), nil
	}
	return nil, &core.InvalidActionError{State: s, Action: a, Reason: "unknown action"}
}

func (g *Game) compare(sum, dealer int) float64 {
	switch {
	case sum > dealer:
		return g.config.RewardWin
	case sum == dealer:
		return g.config.RewardDraw
	default:
		return g.config.RewardLost
	}
}

func (g *Game) draw(s core.State, stack []int) []core.Outcome {
	return core.Merge(core.Uniform(stack, func(card int) (core.State, float64) {
		sum := int(s) + card
		if sum >= g.config.Bust {
			return g.Terminal(), g.config.bustReward()
		}
		return core.State(sum), g.config.RewardCard
	}))
}

// StandValue is the closed-form expected reward of standing with the given card sum
func (g *Game) StandValue(sum int) float64 {
	v := float64(0)
	for _, dealer := range g.config.DealerStack {
		v += g.compare(sum, dealer)
	}
	return v / float64(len(g.config.DealerStack))
}

// ParseAction accepts an action name or index
func ParseAction(s string) (core.Action, error) {
	for i, name := range ActionNames {
		if s == name || s == fmt.Sprint(i) {
			return core.Action(i), nil
		}
	}
	return 0, &core.InvalidActionError{Action: -1, Reason: fmt.Sprintf("unknown action %q", s)}
}
