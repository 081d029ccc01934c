// Package cmd implements the CLI commands for ecofinder.
package cmd

import (
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "ecofinder",
	Short: "Search MercadoLibre for eco-friendly products",
	Long: "ecofinder serves a web site and JSON API over the MercadoLibre search API.\n" +
		"Searches fall back through public, category and regional strategies until\n" +
		"one returns results, and products are classified as ecological or not.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")
	rootCmd.AddCommand(versionCommand())
}

// Root returns the root cobra command for documentation generation.
func Root() *cobra.Command {
	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
