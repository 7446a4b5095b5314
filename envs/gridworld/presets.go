package gridworld

// ClassroomConfig is the 6x7 world from the first gridworld exercise
func ClassroomConfig() Config {
	return Config{
		Height: 6,
		Width:  7,
		Rewards: map[Position]float64{
			{Row: 0, Col: 3}: 10,
			{Row: 1, Col: 3}: -10,
		},
		InvalidMoveReward: -2,
	}
}

// TeleportConfig is the 5x6 world with two teleporting cells and a wall
func TeleportConfig() Config {
	a, aPrime := Position{Row: 0, Col: 1}, Position{Row: 4, Col: 1}
	b, bPrime := Position{Row: 0, Col: 3}, Position{Row: 2, Col: 3}
	return Config{
		Height: 5,
		Width:  6,
		Labels: map[Position]string{
			a: "A",
			b: "B",
		},
		Teleports: map[Position]Teleport{
			aPrime: {Target: a, Reward: 10},
			bPrime: {Target: b, Reward: 5},
		},
		Blocked: []Position{
			{Row: 1, Col: 1},
			{Row: 1, Col: 2},
		},
		InvalidMoveReward: -1,
	}
}
