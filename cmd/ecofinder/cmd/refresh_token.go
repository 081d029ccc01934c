package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/ecofinder/internal/cli"
	"github.com/donaldgifford/ecofinder/pkg/logger"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "refresh-token",
		Short: "Exchange the refresh token now and persist the new credential",
		Long: "Forces an OAuth2 refresh_token exchange even if the current access token\n" +
			"is still valid. Useful after seeding a new refresh token or to check that\n" +
			"the stored one has not been revoked.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			token, err := a.tokens.ForceRefresh(cmd.Context())
			if err != nil {
				return err
			}

			expiry := a.tokens.Expiry()
			a.log.Info("token refreshed", "backend", a.cfg.Credentials.Backend)

			return cli.PrintFields(cmd.OutOrStdout(), [][2]string{
				{"Access token", logger.Mask(token)},
				{"Expires", expiry.Local().Format(time.RFC3339)},
				{"Valid for", time.Until(expiry).Round(time.Second).String()},
			})
		},
	})
}
