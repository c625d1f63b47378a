package main

import (
	"os"

	"storaged/cmd/storaged/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
