package main

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"jariyah/internal/models"
	"jariyah/internal/recorder"
)

const dateLayout = "2006-01-02"

func recordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record a donation made outside the platform",
		Long: `Record a donation made outside the platform.

Leave --charity empty for a donation to an organization outside the catalog.

Examples:
  jariyahctl record --user alice --charity 1 --amount 250
  jariyahctl record --user alice --amount 40 --date 2024-03-01 --recurring --frequency monthly`,
		RunE: runRecord,
	}

	cmd.Flags().StringP("user", "u", "", "donor id")
	cmd.Flags().StringP("charity", "c", "", "charity id")
	cmd.Flags().StringP("amount", "a", "", "donation amount")
	cmd.Flags().String("date", "", "donation date (YYYY-MM-DD), default today")
	cmd.Flags().Bool("recurring", false, "mark the donation as recurring")
	cmd.Flags().String("frequency", "", "recurrence (weekly, monthly, yearly)")
	cmd.MarkFlagRequired("user")
	cmd.MarkFlagRequired("amount")
	return cmd
}

func runRecord(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	user, _ := flags.GetString("user")
	charity, _ := flags.GetString("charity")
	rawAmount, _ := flags.GetString("amount")
	rawDate, _ := flags.GetString("date")
	recurring, _ := flags.GetBool("recurring")
	frequency, _ := flags.GetString("frequency")

	amount, err := decimal.NewFromString(rawAmount)
	if err != nil {
		return fmt.Errorf("invalid --amount %q: %w", rawAmount, err)
	}
	req := recorder.Request{
		CharityID:   charity,
		Amount:      amount,
		IsRecurring: recurring,
		Frequency:   models.Frequency(frequency),
	}
	if rawDate != "" {
		date, err := time.Parse(dateLayout, rawDate)
		if err != nil {
			return fmt.Errorf("invalid --date %q: %w", rawDate, err)
		}
		req.Date = &date
	}

	a, err := openApp(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer a.close()

	result, err := a.service.Donate(cmd.Context(), user, req)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "recorded %s: %s to %s, total %s (%s)\n",
		result.Donation.ID, result.Donation.Amount, result.Donation.CharityID,
		result.Profile.TotalDonated, result.Tier.Current.Name)
	for _, b := range result.NewBadges {
		fmt.Fprintf(out, "unlocked badge %s\n", b.Name)
	}
	return nil
}
