package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rankUser string

func rankCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank the charity catalog for a donor",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer a.close()

			limit, _ := cmd.Flags().GetInt("limit")
			ranked, err := a.service.Recommendations(cmd.Context(), rankUser, limit)
			if err != nil {
				return err
			}
			for i, r := range ranked {
				fmt.Fprintf(cmd.OutOrStdout(), "%2d. %-36s score %2d  match %3.0f%%\n",
					i+1, r.Charity.Name, r.Score, r.MatchPercent)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&rankUser, "user", "u", "", "donor id")
	cmd.Flags().IntP("limit", "n", 0, "maximum results, 0 for all")
	cmd.MarkFlagRequired("user")
	return cmd
}
