// Package main generates CLI reference documentation for the eco and
// ecofinder command trees.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	ecocmd "github.com/donaldgifford/ecofinder/cmd/eco/cmd"
	servercmd "github.com/donaldgifford/ecofinder/cmd/ecofinder/cmd"
)

func main() {
	output := flag.String("output", "docs/cli", "output directory for generated markdown")
	flag.Parse()

	trees := map[string]*cobra.Command{
		"eco":       ecocmd.Root(),
		"ecofinder": servercmd.Root(),
	}

	for name, root := range trees {
		dir := filepath.Join(*output, name)
		if err := generate(root, dir); err != nil {
			log.Fatalf("generating %s docs: %v", name, err)
		}
		fmt.Printf("%s CLI docs generated in %s/\n", name, dir)
	}
}

func generate(root *cobra.Command, dir string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	root.DisableAutoGenTag = true
	return doc.GenMarkdownTree(root, dir)
}
