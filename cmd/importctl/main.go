package main

import (
	"os"

	"github.com/carson-networks/budget-import/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
