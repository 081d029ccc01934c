package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	apiclient "github.com/donaldgifford/ecofinder/internal/api/client"
	"github.com/donaldgifford/ecofinder/internal/cli"
)

func searchCmd() *cobra.Command {
	var params apiclient.SearchParams

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search MercadoLibre products",
		Long:  "Sends a search to the API server, which falls back through its strategies until one returns results.",
		Example: `  eco search "botella reutilizable"
  eco search cepillo --eco --site MLA --limit 10`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params.Query = args[0]
			return runSearch(cmd, params)
		},
	}

	cmd.Flags().IntVar(&params.Limit, "limit", 0, "maximum number of results (server default when 0)")
	cmd.Flags().IntVar(&params.Offset, "offset", 0, "result offset")
	cmd.Flags().StringVar(&params.Site, "site", "", "MercadoLibre site id, e.g. MLC")
	cmd.Flags().BoolVar(&params.EcoOnly, "eco", false, "only ecological products")

	return cmd
}

func runSearch(cmd *cobra.Command, params apiclient.SearchParams) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), viper.GetDuration("timeout"))
	defer cancel()

	resp, err := newClient().Search(ctx, params)
	if err != nil {
		return err
	}

	if jsonOutput() {
		return cli.JSON(cmd.OutOrStdout(), resp)
	}

	if !resp.OK {
		return fmt.Errorf("search failed: %s", resp.Error)
	}
	return cli.PrintProducts(cmd.OutOrStdout(), resp.Results, resp.Paging)
}
