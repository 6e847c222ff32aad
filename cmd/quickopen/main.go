// Package main is the entry point for the quickopen CLI.
package main

import (
	"os"

	"github.com/runger/quickopen/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
