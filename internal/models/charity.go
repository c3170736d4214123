package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Validate checks the catalog invariants: goal > 0 and totalRaised >= 0.
func (c Charity) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("%w: charity id is empty", ErrInvalidInput)
	}
	if !c.Goal.IsPositive() {
		return fmt.Errorf("%w: charity %s goal must be positive", ErrInvalidInput, c.ID)
	}
	if c.TotalRaised.IsNegative() {
		return fmt.Errorf("%w: charity %s total raised is negative", ErrInvalidInput, c.ID)
	}
	return nil
}

// FundingProgress returns TotalRaised/Goal as a percentage clamped to [0, 100].
func (c Charity) FundingProgress() float64 {
	if !c.Goal.IsPositive() {
		return 0
	}
	return ClampPercent(c.TotalRaised.Div(c.Goal).Mul(hundred))
}

// ClampPercent converts a decimal percentage to a float clamped to [0, 100].
func ClampPercent(p decimal.Decimal) float64 {
	if p.IsNegative() {
		return 0
	}
	if p.GreaterThanOrEqual(hundred) {
		return 100
	}
	return p.InexactFloat64()
}
