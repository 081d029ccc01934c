// Package main is the entry point for the eco CLI client.
package main

import (
	"github.com/donaldgifford/ecofinder/cmd/eco/cmd"
)

func main() {
	cmd.Execute()
}
