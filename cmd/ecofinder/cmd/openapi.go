package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/ecofinder/api/openapi"
)

var openapiCmd = &cobra.Command{
	Use:   "openapi",
	Short: "Print the OpenAPI document for the JSON API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		format, _ := cmd.Flags().GetString("format")
		doc, err := openapi.Document(Version, format)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(doc))
		return err
	},
}

func init() {
	openapiCmd.Flags().String("format", "yaml", "output format (json or yaml)")
	rootCmd.AddCommand(openapiCmd)
}
