package cmd

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/ecofinder/internal/cli"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "whoami",
		Short: "Show the MercadoLibre account behind the configured credential",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			u, err := a.client.Me(cmd.Context())
			if err != nil {
				return err
			}

			return cli.PrintFields(cmd.OutOrStdout(), [][2]string{
				{"ID", strconv.FormatInt(u.ID, 10)},
				{"Nickname", u.Nickname},
				{"Site", u.SiteID},
				{"Permalink", u.Permalink},
				{"Token expires", a.tokens.Expiry().Local().Format("2006-01-02 15:04:05")},
			})
		},
	})
}
