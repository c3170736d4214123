// Package impact derives read-only views from a donor profile: tiers,
// badge progress, windowed totals and impact units. Nothing in this
// package mutates its inputs.
package impact

import (
	"github.com/shopspring/decimal"

	"jariyah/internal/models"
)

var hundred = decimal.NewFromInt(100)

// Tier is one band of the donation ladder.
type Tier struct {
	Level     int             `json:"level"`
	Name      string          `json:"name"`
	Threshold decimal.Decimal `json:"threshold"`
}

// DefaultTiers is the ladder shown to donors. Thresholds strictly increase
// and the first tier starts at zero.
var DefaultTiers = []Tier{
	{Level: 1, Name: "Supporter", Threshold: decimal.Zero},
	{Level: 2, Name: "Champion", Threshold: decimal.NewFromInt(500)},
	{Level: 3, Name: "Guardian", Threshold: decimal.NewFromInt(1000)},
	{Level: 4, Name: "Legend", Threshold: decimal.NewFromInt(5000)},
}

// TierState is where a profile sits on the ladder.
type TierState struct {
	Current         Tier            `json:"current"`
	Next            *Tier           `json:"next,omitempty"`
	Progress        float64         `json:"progress"`
	RemainingToNext decimal.Decimal `json:"remainingToNext"`
}

// ComputeTierState returns the highest tier whose threshold is <= the
// profile's total and the progress towards the next one. At the top tier
// progress is 100.
func ComputeTierState(profile models.UserProfile, tiers []Tier) TierState {
	if len(tiers) == 0 {
		tiers = DefaultTiers
	}
	total := profile.TotalDonated

	current := tiers[0]
	var next *Tier
	for i, t := range tiers {
		if t.Threshold.LessThanOrEqual(total) {
			current = t
			continue
		}
		n := tiers[i]
		next = &n
		break
	}

	state := TierState{Current: current, Next: next, Progress: 100, RemainingToNext: decimal.Zero}
	if next == nil {
		return state
	}

	span := next.Threshold.Sub(current.Threshold)
	if span.IsPositive() {
		state.Progress = models.ClampPercent(total.Sub(current.Threshold).Div(span).Mul(hundred))
	}
	state.RemainingToNext = next.Threshold.Sub(total)
	return state
}
