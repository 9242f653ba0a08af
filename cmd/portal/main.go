package main

import (
	"os"

	"github.com/commstack/portal/cmd/portal/commands"
)

func main() {
	if err := commands.Run(os.Args[1:]); err != nil {
		os.Exit(1)
	}
}
