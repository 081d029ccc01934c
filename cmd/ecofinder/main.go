// Package main is the entry point for the ecofinder server.
package main

import (
	"os"

	"github.com/donaldgifford/ecofinder/cmd/ecofinder/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
