package finance

import (
	"math"

	"backend/internal/app/ds"
)

// Summary is the financial rollup over a visible project set. Values are kept
// at full precision; callers round only at the presentation boundary.
type Summary struct {
	TotalRevenue        float64
	TotalCosts          float64
	TotalProfit         float64
	ProfitMargin        float64
	TotalClientPayments float64
	TotalOutstanding    float64
	CollectionRate      float64
}

// Summarize computes the rollup. Deterministic and side-effect free; an empty
// set yields all zeros rather than a division by zero.
func Summarize(projects []ds.Project) Summary {
	var s Summary
	for _, p := range projects {
		s.TotalRevenue += p.TotalCost
		s.TotalCosts += p.VendorPaid
		s.TotalClientPayments += p.ClientPaid
		s.TotalOutstanding += p.TotalCost - p.ClientPaid
	}
	s.TotalProfit = s.TotalRevenue - s.TotalCosts
	if s.TotalRevenue != 0 {
		s.ProfitMargin = s.TotalProfit / s.TotalRevenue * 100
		s.CollectionRate = s.TotalClientPayments / s.TotalRevenue * 100
	}
	return s
}

// RoundCurrency rounds to 2 decimal places for money presentation.
func RoundCurrency(v float64) float64 {
	return math.Round(v*100) / 100
}

// RoundPercent rounds to 1 decimal place for percentage presentation.
func RoundPercent(v float64) float64 {
	return math.Round(v*10) / 10
}
