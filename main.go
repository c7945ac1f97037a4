package main

import (
	"os"

	"github.com/remotescout/remotescout/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
