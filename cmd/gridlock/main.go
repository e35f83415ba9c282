package main

import (
	"os"

	"github.com/Additional-Code/gridlock/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
