package main

import (
	"fmt"
	"os"

	"github.com/ppiankov/factbot/internal/cli"
)

// Set with -ldflags "-X main.version=..."
var version string

func main() {
	cli.SetVersion(version)
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
