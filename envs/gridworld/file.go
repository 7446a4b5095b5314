package gridworld

import (
	"github.com/zeu5/finite-mdp/util"
)

// Cell is a position with an attached number, as used in config files
type Cell struct {
	Row    int     `json:"row"`
	Col    int     `json:"col"`
	Reward float64 `json:"reward,omitempty"`
	Label  string  `json:"label,omitempty"`
}

func (c Cell) Position() Position {
	return Position{Row: c.Row, Col: c.Col}
}

type TeleportCell struct {
	From   Cell    `json:"from"`
	To     Cell    `json:"to"`
	Reward float64 `json:"reward"`
}

// FileConfig is the JSON form of Config
type FileConfig struct {
	Height            int            `json:"height"`
	Width             int            `json:"width"`
	Start             Cell           `json:"start"`
	Rewards           []Cell         `json:"rewards,omitempty"`
	Teleports         []TeleportCell `json:"teleports,omitempty"`
	Blocked           []Cell         `json:"blocked,omitempty"`
	Terminals         []Cell         `json:"terminals,omitempty"`
	Labels            []Cell         `json:"labels,omitempty"`
	InvalidMoveReward float64        `json:"invalidMoveReward"`
}

func (f FileConfig) Config() Config {
	c := Config{
		Height:            f.Height,
		Width:             f.Width,
		Start:             f.Start.Position(),
		Rewards:           make(map[Position]float64),
		Teleports:         make(map[Position]Teleport),
		Labels:            make(map[Position]string),
		InvalidMoveReward: f.InvalidMoveReward,
	}
	for _, r := range f.Rewards {
		c.Rewards[r.Position()] = r.Reward
	}
	for _, t := range f.Teleports {
		c.Teleports[t.From.Position()] = Teleport{Target: t.To.Position(), Reward: t.Reward}
	}
	for _, b := range f.Blocked {
		c.Blocked = append(c.Blocked, b.Position())
	}
	for _, t := range f.Terminals {
		c.Terminals = append(c.Terminals, t.Position())
	}
	for _, l := range f.Labels {
		c.Labels[l.Position()] = l.Label
	}
	return c
}

// Load reads a world from a JSON config file
func Load(path string) (*World, error) {
	var f FileConfig
	if err := util.LoadJson(path, &f); err != nil {
		return nil, err
	}
	return New(f.Config())
}
