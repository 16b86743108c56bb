package main

import (
	"os"

	"github.com/structql/structql/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
