// Command rulegen writes the Prometheus recording and alert rules for
// ecofinder. By default it emits Prometheus Operator PrometheusRule
// resources; -format=file writes plain rule files for a standalone
// Prometheus.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/donaldgifford/ecofinder/tools/rulegen/rules"
)

// Config controls where the generator writes and in which shape.
type Config struct {
	OutputDir string
	Format    string
}

// DefaultConfig writes CRs into ../../deploy (relative to tools/rulegen/).
func DefaultConfig() Config {
	return Config{
		OutputDir: "../../deploy",
		Format:    "cr",
	}
}

// Validate checks that the config is usable.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("output directory must be set")
	}
	if c.Format != "cr" && c.Format != "file" {
		return fmt.Errorf("unknown format %q (want cr or file)", c.Format)
	}
	return nil
}

func main() {
	validateOnly := flag.Bool("validate", false, "validate generated rules without writing files")
	outputDir := flag.String("output", "", "override output directory")
	format := flag.String("format", "", "output format: cr or file")
	flag.Parse()

	cfg := DefaultConfig()
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}
	if *format != "" {
		cfg.Format = *format
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, *validateOnly); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg Config, validateOnly bool) error {
	recording := rules.RecordingRules()
	alerts := rules.AlertRules()

	if err := rules.Validate(recording, alerts); err != nil {
		return err
	}
	if validateOnly {
		fmt.Println("validation passed")
		return nil
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o750); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	for _, cr := range []rules.PrometheusRule{recording, alerts} {
		var doc any = cr
		if cfg.Format == "file" {
			doc = cr.File()
		}
		path := filepath.Join(cfg.OutputDir, cr.Metadata.Name+".yaml")
		if err := writeYAML(path, doc); err != nil {
			return err
		}
		fmt.Printf("rulegen: wrote %s\n", path)
	}
	return nil
}

func writeYAML(path string, doc any) error {
	f, err := os.Create(path) //nolint:gosec // output path from trusted CLI flag
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		_ = f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		_ = f.Close()
		return fmt.Errorf("flushing %s: %w", path, err)
	}
	return f.Close()
}
