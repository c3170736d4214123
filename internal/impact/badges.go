package impact

import (
	"github.com/shopspring/decimal"

	"jariyah/internal/models"
)

// BadgeDefinition is a catalog badge with the rule used to evaluate it.
type BadgeDefinition struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Category    models.BadgeCategory
	Rule        models.BadgeRule
	Requirement decimal.Decimal
}

// DefaultBadges is the achievement catalog.
var DefaultBadges = []BadgeDefinition{
	{
		ID: "first-donation", Name: "First Steps", Description: "Made your first donation",
		Icon: "Heart", Category: models.BadgeMilestone,
		Rule: models.RuleHasAnyDonation, Requirement: decimal.NewFromInt(1),
	},
	{
		ID: "recurring-donor", Name: "Committed Giver", Description: "Set up recurring donations",
		Icon: "Repeat", Category: models.BadgeConsistency,
		Rule: models.RuleHasAnyRecurring, Requirement: decimal.NewFromInt(1),
	},
	{
		ID: "diverse-causes", Name: "Diverse Impact", Description: "Donated to 3 different causes",
		Icon: "Target", Category: models.BadgeDiversity,
		Rule: models.RuleDistinctCharities, Requirement: decimal.NewFromInt(3),
	},
	{
		ID: "milestone-100", Name: "Century Mark", Description: "Reached $100 in total donations",
		Icon: "Award", Category: models.BadgeMilestone,
		Rule: models.RuleTotalAtLeast, Requirement: decimal.NewFromInt(100),
	},
	{
		ID: "milestone-1000", Name: "Grand Contributor", Description: "Reached $1,000 in total donations",
		Icon: "Trophy", Category: models.BadgeMilestone,
		Rule: models.RuleTotalAtLeast, Requirement: decimal.NewFromInt(1000),
	},
	{
		ID: "consistent-monthly", Name: "Monthly Champion", Description: "Donated every month for 3 months",
		Icon: "Flame", Category: models.BadgeConsistency,
		Rule: models.RuleDistinctMonths, Requirement: decimal.NewFromInt(3),
	},
}

// Progress evaluates one badge against a profile, in [0, 100].
func (d BadgeDefinition) Progress(profile models.UserProfile) float64 {
	switch d.Rule {
	case models.RuleHasAnyDonation:
		if len(profile.Donations) > 0 {
			return 100
		}
		return 0
	case models.RuleHasAnyRecurring:
		for _, don := range profile.Donations {
			if don.IsRecurring {
				return 100
			}
		}
		return 0
	case models.RuleDistinctCharities:
		return ratio(decimal.NewFromInt(int64(countDistinct(profile.Donations, charityKey))), d.Requirement)
	case models.RuleTotalAtLeast:
		return ratio(profile.TotalDonated, d.Requirement)
	case models.RuleDistinctMonths:
		return ratio(decimal.NewFromInt(int64(countDistinct(profile.Donations, monthKey))), d.Requirement)
	default:
		return 0
	}
}

// Badge returns the definition as a models.Badge with progress filled in.
func (d BadgeDefinition) Badge(profile models.UserProfile) models.Badge {
	p := d.Progress(profile)
	return models.Badge{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Icon:        d.Icon,
		Category:    d.Category,
		Rule:        d.Rule,
		Requirement: d.Requirement,
		Progress:    p,
		Unlocked:    Unlocked(p),
	}
}

// Unlocked reports whether a progress value unlocks its badge.
func Unlocked(progress float64) bool {
	return progress == 100
}

// ComputeBadgeProgress maps every badge id to its progress.
func ComputeBadgeProgress(profile models.UserProfile, defs []BadgeDefinition) map[string]float64 {
	out := make(map[string]float64, len(defs))
	for _, d := range defs {
		out[d.ID] = d.Progress(profile)
	}
	return out
}

// EvaluateBadges returns the badges in catalog order with progress set.
func EvaluateBadges(profile models.UserProfile, defs []BadgeDefinition) []models.Badge {
	out := make([]models.Badge, 0, len(defs))
	for _, d := range defs {
		out = append(out, d.Badge(profile))
	}
	return out
}

// UnlockedIDs returns the ids of badges the profile has fully completed.
func UnlockedIDs(profile models.UserProfile, defs []BadgeDefinition) []string {
	var ids []string
	for _, d := range defs {
		if Unlocked(d.Progress(profile)) {
			ids = append(ids, d.ID)
		}
	}
	return ids
}

// ratio is value/requirement as a clamped percentage. A non-positive
// requirement is always met.
func ratio(value, requirement decimal.Decimal) float64 {
	if !requirement.IsPositive() {
		return 100
	}
	return models.ClampPercent(value.Div(requirement).Mul(hundred))
}

func countDistinct(donations []models.Donation, key func(models.Donation) string) int {
	seen := make(map[string]struct{}, len(donations))
	for _, d := range donations {
		seen[key(d)] = struct{}{}
	}
	return len(seen)
}

func charityKey(d models.Donation) string { return d.CharityID }

func monthKey(d models.Donation) string { return d.Date.UTC().Format(MonthLayout) }
