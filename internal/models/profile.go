package models

import (
	"maps"
	"slices"

	"github.com/shopspring/decimal"
)

// DefaultUserID is the id of the fallback profile.
const DefaultUserID = "default-user"

// NewProfile returns an empty profile for id.
func NewProfile(id string) UserProfile {
	return UserProfile{
		ID:              id,
		Username:        id,
		Donations:       []Donation{},
		TotalDonated:    decimal.Zero,
		ImpactMetrics:   map[string]int{},
		Interests:       []string{},
		PreferredCauses: []string{},
		DonationHistory: map[string]Interaction{},
		Badges:          []Badge{},
		UnlockedBadges:  []string{},
	}
}

// DefaultProfile is the fallback profile shown when the gateway cannot be reached.
// Callers decide explicitly when to use it.
func DefaultProfile() UserProfile {
	p := NewProfile(DefaultUserID)
	p.Username = "Default User"
	p.Interests = []string{"education", "technology", "health"}
	p.PreferredCauses = []string{"education", "social justice"}
	return p
}

// SumDonations returns the exact sum of all donation amounts.
func SumDonations(donations []Donation) decimal.Decimal {
	total := decimal.Zero
	for _, d := range donations {
		total = total.Add(d.Amount)
	}
	return total
}

// Clone returns a copy of p that shares no mutable state with it.
func (p UserProfile) Clone() UserProfile {
	c := p
	c.Donations = slices.Clone(p.Donations)
	c.Interests = slices.Clone(p.Interests)
	c.PreferredCauses = slices.Clone(p.PreferredCauses)
	c.Badges = slices.Clone(p.Badges)
	c.UnlockedBadges = slices.Clone(p.UnlockedBadges)
	c.ImpactMetrics = maps.Clone(p.ImpactMetrics)
	c.DonationHistory = maps.Clone(p.DonationHistory)
	if c.Donations == nil {
		c.Donations = []Donation{}
	}
	if c.DonationHistory == nil {
		c.DonationHistory = map[string]Interaction{}
	}
	return c
}

// HasUnlocked reports whether badgeID is in the unlocked set.
func (p UserProfile) HasUnlocked(badgeID string) bool {
	return slices.Contains(p.UnlockedBadges, badgeID)
}
