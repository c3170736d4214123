package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JSON tags follow the camelCase the web client already speaks.
// Money is always decimal.Decimal so running totals stay exact.

// ImpactMetric maps a donation amount to one unit of concrete impact.
type ImpactMetric struct {
	Amount decimal.Decimal `json:"amount"`
	Impact string          `json:"impact"`
}

// ImpactSchedule is the ordered list of impact metrics of a charity.
type ImpactSchedule struct {
	Description string         `json:"description"`
	Metrics     []ImpactMetric `json:"metrics"`
}

// Charity is a catalog entry. It is only written by the persistence gateway.
type Charity struct {
	ID          string          `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description" db:"description"`
	Category    string          `json:"category" db:"category"`
	ImageURL    string          `json:"imageUrl" db:"image_url"`
	Impact      ImpactSchedule  `json:"impact" db:"-"`
	TotalRaised decimal.Decimal `json:"totalRaised" db:"total_raised"`
	Goal        decimal.Decimal `json:"goal" db:"goal"`
	Tags        []string        `json:"tags" db:"-"`
	Causes      []string        `json:"causes" db:"-"`
}

// Frequency of a recurring donation.
type Frequency string

const (
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

// Valid reports whether f is one of the recognized frequencies.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return true
	}
	return false
}

// Donation is a single recorded gift. Frequency is set iff IsRecurring.
type Donation struct {
	ID          string          `json:"id" db:"id"`
	CharityID   string          `json:"charityId" db:"charity_id"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	Date        time.Time       `json:"date" db:"date"`
	IsRecurring bool            `json:"isRecurring" db:"is_recurring"`
	Frequency   Frequency       `json:"frequency,omitempty" db:"frequency"`
}

// Interaction tracks how often a donor gave to one charity.
type Interaction struct {
	InteractionCount int       `json:"interactionCount"`
	LastInteraction  time.Time `json:"lastInteraction"`
}

// BadgeCategory groups badges for display.
type BadgeCategory string

const (
	BadgeMilestone   BadgeCategory = "milestone"
	BadgeImpact      BadgeCategory = "impact"
	BadgeConsistency BadgeCategory = "consistency"
	BadgeDiversity   BadgeCategory = "diversity"
)

// BadgeRule tags which progress rule a badge is evaluated with.
type BadgeRule string

const (
	RuleHasAnyDonation    BadgeRule = "hasAnyDonation"
	RuleHasAnyRecurring   BadgeRule = "hasAnyRecurring"
	RuleDistinctCharities BadgeRule = "distinctCharities"
	RuleTotalAtLeast      BadgeRule = "totalAtLeast"
	RuleDistinctMonths    BadgeRule = "distinctMonths"
)

// Badge is a catalog definition plus the progress computed for one profile.
// Progress is never persisted; only UserProfile.UnlockedBadges is.
type Badge struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Icon        string          `json:"icon"`
	Category    BadgeCategory   `json:"category"`
	Rule        BadgeRule       `json:"rule"`
	Requirement decimal.Decimal `json:"requirement"`
	Progress    float64         `json:"progress"`
	Unlocked    bool            `json:"unlocked"`
}

// UserProfile is a donor and everything derived from their giving.
// TotalDonated must always equal the sum of Donations[].Amount.
type UserProfile struct {
	ID              string                 `json:"id"`
	Username        string                 `json:"username"`
	Donations       []Donation             `json:"donations"`
	TotalDonated    decimal.Decimal        `json:"totalDonated"`
	ImpactMetrics   map[string]int         `json:"impactMetrics"`
	Interests       []string               `json:"interests"`
	PreferredCauses []string               `json:"preferredCauses"`
	DonationHistory map[string]Interaction `json:"donationHistory"`
	Badges          []Badge                `json:"badges"`
	UnlockedBadges  []string               `json:"unlockedBadges"`
}

// ImpactAlert is pushed to a donor's live connections after a donation is
// stored.
type ImpactAlert struct {
	UserID       string          `json:"-"`
	Donation     Donation        `json:"donation"`
	TotalDonated decimal.Decimal `json:"totalDonated"`
	Tier         string          `json:"tier"`
	TierUp       bool            `json:"tierUp"`
	NewBadges    []Badge         `json:"newBadges"`
}

// CheckoutStatus tracks an online payment order.
type CheckoutStatus string

const (
	CheckoutPending CheckoutStatus = "pending"
	CheckoutSettled CheckoutStatus = "settled"
)

// Checkout is an online donation waiting for the payment gateway to settle.
type Checkout struct {
	OrderID     string          `json:"orderId" db:"order_id"`
	UserID      string          `json:"userId" db:"user_id"`
	CharityID   string          `json:"charityId" db:"charity_id"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	IsRecurring bool            `json:"isRecurring" db:"is_recurring"`
	Frequency   Frequency       `json:"frequency,omitempty" db:"frequency"`
	Status      CheckoutStatus  `json:"status" db:"status"`
	DonationID  string          `json:"donationId,omitempty" db:"donation_id"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
}
