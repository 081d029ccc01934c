package cmd

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/donaldgifford/ecofinder/internal/cli"
)

func healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the server's MercadoLibre credential",
		Long:  "Calls users/me through the server and shows the account behind its access token.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), viper.GetDuration("timeout"))
			defer cancel()

			resp, err := newClient().Health(ctx)
			if err != nil {
				return err
			}

			if jsonOutput() {
				return cli.JSON(cmd.OutOrStdout(), resp)
			}
			if !resp.OK {
				return errors.New("credential check failed: " + resp.Error)
			}

			return cli.PrintFields(cmd.OutOrStdout(), [][2]string{
				{"Status", "ok"},
				{"User ID", strconv.FormatInt(resp.User.ID, 10)},
				{"Nickname", resp.User.Nickname},
				{"Site", resp.User.SiteID},
			})
		},
	}
}

func quotaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quota",
		Short: "Show the server's MercadoLibre call budget",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), viper.GetDuration("timeout"))
			defer cancel()

			resp, err := newClient().Quota(ctx)
			if err != nil {
				return err
			}

			if jsonOutput() {
				return cli.JSON(cmd.OutOrStdout(), resp)
			}

			limit := "unlimited"
			remaining := "-"
			if resp.DailyLimit > 0 {
				limit = strconv.FormatInt(resp.DailyLimit, 10)
				remaining = strconv.FormatInt(resp.Remaining, 10)
			}
			return cli.PrintFields(cmd.OutOrStdout(), [][2]string{
				{"Daily limit", limit},
				{"Used", strconv.FormatInt(resp.DailyUsed, 10)},
				{"Remaining", remaining},
				{"Resets", resp.ResetAt.Local().Format(time.RFC3339)},
			})
		},
	}
}
