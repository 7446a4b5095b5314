package main

import (
	"os"

	"github.com/zeu5/finite-mdp/cmd"
)

func main() {
	if err := cmd.RootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
