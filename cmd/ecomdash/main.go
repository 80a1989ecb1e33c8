package main

import (
	"os"

	"github.com/ecomdash/ecomdash/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
