package impact

import (
	"github.com/shopspring/decimal"

	"jariyah/internal/models"
)

// ImpactUnit is how many times a metric is covered by an amount.
type ImpactUnit struct {
	Impact string `json:"impact"`
	Units  int64  `json:"units"`
}

// ImpactUnits translates amount into whole units of each metric of the
// charity's schedule. Metrics that amount does not cover once are dropped.
func ImpactUnits(charity models.Charity, amount decimal.Decimal) []ImpactUnit {
	out := make([]ImpactUnit, 0, len(charity.Impact.Metrics))
	if !amount.IsPositive() {
		return out
	}
	for _, m := range charity.Impact.Metrics {
		if !m.Amount.IsPositive() {
			continue
		}
		q, _ := amount.QuoRem(m.Amount, 0)
		n := q.IntPart()
		if n > 0 {
			out = append(out, ImpactUnit{Impact: m.Impact, Units: n})
		}
	}
	return out
}
