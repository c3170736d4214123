package main

import (
	"github.com/spf13/cobra"

	"jariyah/internal/impact"
	"jariyah/internal/models"
)

func summaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show a donor's tier, badges and totals over a window",
		Long: `Show a donor's tier, badges and totals over a window.

Examples:
  jariyahctl summary --user alice
  jariyahctl summary --user alice --preset 1y`,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, _ := cmd.Flags().GetString("user")
			preset, _ := cmd.Flags().GetString("preset")

			a, err := openApp(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer a.close()

			window, err := impact.WindowFor(impact.Preset(preset), a.service.Now())
			if err != nil {
				return err
			}
			dash, err := a.service.Dashboard(cmd.Context(), user, window)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), struct {
				User    string           `json:"user"`
				Tier    impact.TierState `json:"tier"`
				Window  impact.Window    `json:"window"`
				Summary impact.Summary   `json:"summary"`
				Badges  []models.Badge   `json:"badges"`
			}{user, dash.Tier, dash.Window, dash.Summary, dash.Profile.Badges})
		},
	}

	cmd.Flags().StringP("user", "u", "", "donor id")
	cmd.Flags().StringP("preset", "p", string(impact.PresetAll), "window preset (24h, 7d, 30d, 1y, all)")
	cmd.MarkFlagRequired("user")
	return cmd
}
