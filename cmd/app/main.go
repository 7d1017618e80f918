package main

import (
	"os"

	"github.com/KeyzarRasya/lativa/cmd"
)

func main() {
	if err := cmd.Run(); err != nil {
		os.Exit(1)
	}
}
