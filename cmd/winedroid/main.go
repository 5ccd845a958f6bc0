package main

import (
	"os"

	"github.com/randomgraphics/wine-droid/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
