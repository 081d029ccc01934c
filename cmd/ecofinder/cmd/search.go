package cmd

import (
	"github.com/spf13/cobra"

	"github.com/donaldgifford/ecofinder/internal/cli"
	"github.com/donaldgifford/ecofinder/internal/pipeline"
	domain "github.com/donaldgifford/ecofinder/pkg/types"
)

func init() {
	rootCmd.AddCommand(searchCommand())
}

func searchCommand() *cobra.Command {
	var (
		req     pipeline.Request
		catalog bool
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Run a search through the fallback pipeline",
		Long: "Searches MercadoLibre directly, without the web server, using the same\n" +
			"strategies as the API. With --catalog, looks the query up in the product catalog.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()

			if catalog {
				products, err := a.catalog.Lookup(cmd.Context(), req.Site, args[0], req.Limit)
				if err != nil {
					return err
				}
				if asJSON {
					return cli.JSON(out, products)
				}
				site := req.Site
				if site == "" {
					site = a.cfg.Meli.Site
				}
				return cli.PrintProducts(out, products, domain.Paging{
					Total:      len(products),
					RegionUsed: site,
					UsedQuery:  args[0],
					Strategy:   "catalog",
				})
			}

			req.Query = args[0]
			res, err := a.pipeline.Search(cmd.Context(), req)
			if err != nil {
				return err
			}
			if asJSON {
				return cli.JSON(out, res)
			}
			return cli.PrintProducts(out, res.Products, res.Paging)
		},
	}

	cmd.Flags().StringVar(&req.Site, "site", "", "MercadoLibre site id (default from config)")
	cmd.Flags().IntVar(&req.Limit, "limit", 0, "page size (default from config)")
	cmd.Flags().IntVar(&req.Offset, "offset", 0, "result offset")
	cmd.Flags().BoolVar(&req.EcoOnly, "eco", false, "only ecological products")
	cmd.Flags().BoolVar(&catalog, "catalog", false, "search the product catalog instead")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	return cmd
}
