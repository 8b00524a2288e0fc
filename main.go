package main

import (
	"os"

	"github.com/dutch-bridge/settler-svc/internal/cli"
)

func main() {
	if !cli.Run(os.Args) {
		os.Exit(1)
	}
}
