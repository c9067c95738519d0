// Command gitsim runs the git commit graph simulator.
package main

import (
	"os"

	"github.com/kilupskalvis/gitsim/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
