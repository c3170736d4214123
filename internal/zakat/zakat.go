// Package zakat estimates the yearly Zakat due on a set of assets. It
// follows the common 2.5% rule over the lower of the gold and silver nisab
// and makes no claim to jurisprudential completeness.
package zakat

import (
	"fmt"

	"github.com/shopspring/decimal"

	"jariyah/internal/models"
)

// Assets are the zakatable holdings, all in the same currency.
type Assets struct {
	Cash           decimal.Decimal `json:"cash"`
	Gold           decimal.Decimal `json:"gold"`
	Silver         decimal.Decimal `json:"silver"`
	Investments    decimal.Decimal `json:"investments"`
	BusinessAssets decimal.Decimal `json:"businessAssets"`
	OtherAssets    decimal.Decimal `json:"otherAssets"`
}

// Rates are the prices and thresholds the calculation uses.
type Rates struct {
	GoldPricePerGram   decimal.Decimal
	SilverPricePerGram decimal.Decimal
	NisabGoldGrams     decimal.Decimal
	NisabSilverGrams   decimal.Decimal
	Rate               decimal.Decimal
}

// DefaultRates are static USD prices; deployments override the prices via config.
func DefaultRates() Rates {
	return Rates{
		GoldPricePerGram:   decimal.NewFromInt(60),
		SilverPricePerGram: decimal.RequireFromString("0.80"),
		NisabGoldGrams:     decimal.NewFromInt(85),
		NisabSilverGrams:   decimal.NewFromInt(595),
		Rate:               decimal.RequireFromString("0.025"),
	}
}

// Line is the Zakat due on one asset class.
type Line struct {
	Asset  string          `json:"asset"`
	Amount decimal.Decimal `json:"amount"`
}

// Result of a calculation. When Due is false, Total is zero and Breakdown empty.
type Result struct {
	TotalWealth decimal.Decimal `json:"totalWealth"`
	Nisab       decimal.Decimal `json:"nisab"`
	Due         bool            `json:"due"`
	Total       decimal.Decimal `json:"total"`
	Breakdown   []Line          `json:"breakdown"`
}

// Nisab is the lower of the gold and silver thresholds.
func (r Rates) Nisab() decimal.Decimal {
	gold := r.GoldPricePerGram.Mul(r.NisabGoldGrams)
	silver := r.SilverPricePerGram.Mul(r.NisabSilverGrams)
	return decimal.Min(gold, silver)
}

func (a Assets) lines() []Line {
	return []Line{
		{Asset: "cash", Amount: a.Cash},
		{Asset: "gold", Amount: a.Gold},
		{Asset: "silver", Amount: a.Silver},
		{Asset: "investments", Amount: a.Investments},
		{Asset: "businessAssets", Amount: a.BusinessAssets},
		{Asset: "otherAssets", Amount: a.OtherAssets},
	}
}

// Calculate returns the Zakat due on assets.
func Calculate(assets Assets, rates Rates) (Result, error) {
	total := decimal.Zero
	for _, l := range assets.lines() {
		if l.Amount.IsNegative() {
			return Result{}, fmt.Errorf("%w: %s must not be negative", models.ErrInvalidInput, l.Asset)
		}
		total = total.Add(l.Amount)
	}

	res := Result{
		TotalWealth: total,
		Nisab:       rates.Nisab(),
		Total:       decimal.Zero,
		Breakdown:   []Line{},
	}
	if total.LessThan(res.Nisab) {
		return res, nil
	}

	res.Due = true
	res.Total = total.Mul(rates.Rate)
	for _, l := range assets.lines() {
		if l.Amount.IsPositive() {
			res.Breakdown = append(res.Breakdown, Line{Asset: l.Asset, Amount: l.Amount.Mul(rates.Rate)})
		}
	}
	return res, nil
}
