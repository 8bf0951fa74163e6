package main

import (
	"os"

	"github.com/spiretools/runlex/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
