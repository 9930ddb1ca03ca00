package main

import (
	"os"

	"github.com/clipsheet/clipsheet-agent/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
