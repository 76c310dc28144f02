package solver

import (
	"math"

	"fia_cof/pkg/core/engine"
)

// CedingCommission is the block NPV at a supplied discount rate, reported
// with its rate components in percent.
type CedingCommission struct {
	NPV          float64 `json:"npv"`
	BBBRatePct   float64 `json:"bbb_rate_pct"`
	SpreadPct    float64 `json:"spread_pct"`
	TotalRatePct float64 `json:"total_rate_pct"`
}

// ComputeCedingCommission discounts the block cashflows at bbbRate + spread,
// compounded monthly.
func ComputeCedingCommission(rows []engine.CashflowRow, bbbRate, spread float64) *CedingCommission {
	totalRate := bbbRate + spread
	d := totalRate / 12

	var npv float64
	for i, r := range rows {
		m := float64(i + 1)
		npv += r.TotalNetCashflow * math.Pow(1+d, -m)
	}

	bbbPct := bbbRate * 100
	spreadPct := spread * 100
	return &CedingCommission{
		NPV:          npv,
		BBBRatePct:   bbbPct,
		SpreadPct:    spreadPct,
		TotalRatePct: bbbPct + spreadPct,
	}
}
