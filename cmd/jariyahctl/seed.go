package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"jariyah/internal/models"
)

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Write the sample charity catalog to the configured store",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer a.close()

			for _, charity := range models.SampleCharities() {
				if err := a.gateway.SaveCharity(cmd.Context(), charity); err != nil {
					return fmt.Errorf("seed %s: %w", charity.ID, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "seeded %s (%s)\n", charity.ID, charity.Name)
			}
			return nil
		},
	}
}
