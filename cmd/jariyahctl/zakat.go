package main

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"jariyah/internal/zakat"
)

func zakatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "zakat",
		Short: "Estimate the Zakat due on a set of assets",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			rates, err := cfg.ZakatRates()
			if err != nil {
				return err
			}

			var assets zakat.Assets
			for flag, dst := range map[string]*decimal.Decimal{
				"cash":        &assets.Cash,
				"gold":        &assets.Gold,
				"silver":      &assets.Silver,
				"investments": &assets.Investments,
				"business":    &assets.BusinessAssets,
				"other":       &assets.OtherAssets,
			} {
				raw, _ := cmd.Flags().GetString(flag)
				if *dst, err = decimal.NewFromString(raw); err != nil {
					return fmt.Errorf("invalid --%s %q: %w", flag, raw, err)
				}
			}

			result, err := zakat.Calculate(assets, rates)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().String("cash", "0", "cash and savings")
	cmd.Flags().String("gold", "0", "value of gold held")
	cmd.Flags().String("silver", "0", "value of silver held")
	cmd.Flags().String("investments", "0", "investments")
	cmd.Flags().String("business", "0", "business assets")
	cmd.Flags().String("other", "0", "other zakatable assets")
	return cmd
}
