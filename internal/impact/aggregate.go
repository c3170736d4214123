package impact

import (
	"github.com/shopspring/decimal"

	"jariyah/internal/models"
)

// MonthLayout formats the month grouping key.
const MonthLayout = "2006-01"

// Bucket is one group of an aggregation.
type Bucket struct {
	Key    string          `json:"key"`
	Amount decimal.Decimal `json:"amount"`
}

// AggregateByCharity sums amounts per charity id, in first-occurrence order.
func AggregateByCharity(donations []models.Donation) []Bucket {
	return aggregate(donations, charityKey)
}

// AggregateByMonth sums amounts per "YYYY-MM" (UTC), in first-occurrence order.
func AggregateByMonth(donations []models.Donation) []Bucket {
	return aggregate(donations, monthKey)
}

func aggregate(donations []models.Donation, key func(models.Donation) string) []Bucket {
	index := make(map[string]int)
	out := make([]Bucket, 0)
	for _, d := range donations {
		k := key(d)
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, Bucket{Key: k, Amount: decimal.Zero})
		}
		out[i].Amount = out[i].Amount.Add(d.Amount)
	}
	return out
}

// Summary is the portfolio view of a set of donations.
type Summary struct {
	Count          int             `json:"count"`
	Total          decimal.Decimal `json:"total"`
	RecurringCount int             `json:"recurringCount"`
	Average        decimal.Decimal `json:"average"`
	ByCharity      []Bucket        `json:"byCharity"`
	ByMonth        []Bucket        `json:"byMonth"`
}

// Summarize totals a (usually windowed) donation list.
func Summarize(donations []models.Donation) Summary {
	s := Summary{
		Count:     len(donations),
		Total:     models.SumDonations(donations),
		Average:   decimal.Zero,
		ByCharity: AggregateByCharity(donations),
		ByMonth:   AggregateByMonth(donations),
	}
	for _, d := range donations {
		if d.IsRecurring {
			s.RecurringCount++
		}
	}
	if s.Count > 0 {
		s.Average = s.Total.Div(decimal.NewFromInt(int64(s.Count))).Round(2)
	}
	return s
}

// CharityImpact is the total given to one charity, with its name when known.
type CharityImpact struct {
	CharityID string          `json:"charityId"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
}

// ImpactByCharity joins per-charity totals with the catalog. Donations to
// charities missing from the catalog keep their id as the name.
func ImpactByCharity(donations []models.Donation, catalog []models.Charity) []CharityImpact {
	names := make(map[string]string, len(catalog))
	for _, c := range catalog {
		names[c.ID] = c.Name
	}
	buckets := AggregateByCharity(donations)
	out := make([]CharityImpact, 0, len(buckets))
	for _, b := range buckets {
		name, ok := names[b.Key]
		if !ok {
			name = b.Key
		}
		out = append(out, CharityImpact{CharityID: b.Key, Name: name, Amount: b.Amount})
	}
	return out
}
