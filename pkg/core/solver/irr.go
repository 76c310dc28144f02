package solver

import (
	"math"

	"fia_cof/pkg/core/engine"
)

const (
	// irrInitialGuess is roughly 5% annualized; robust for this book and
	// deliberately not configurable.
	irrInitialGuess = 0.004
	// irrTolerance is in dollars on the NPV of the block cashflows.
	irrTolerance    = 1.0
	irrMaxIter      = 50
	derivativeFloor = 1e-12
	// rateCeiling: a monthly rate beyond unit magnitude means divergence.
	rateCeiling = 1.0
)

// CostOfFunds solves for the monthly internal rate of return of the block
// cashflow series with Newton-Raphson and reports it annualized in percent.
// Returns (nil) when the iteration diverges, the derivative collapses, or
// the horizon is too short to define a rate.
func CostOfFunds(rows []engine.CashflowRow) *float64 {
	if len(rows) < 2 {
		return nil
	}
	cfs := make([]float64, len(rows))
	for i, r := range rows {
		cfs[i] = r.TotalNetCashflow
	}

	r, ok := solveMonthlyIRR(cfs)
	if !ok {
		return nil
	}
	annualized := (math.Pow(1+r, 12) - 1) * 100
	return &annualized
}

// solveMonthlyIRR finds r with sum_m cf_m * (1+r)^(-m) = 0, months 1-based.
func solveMonthlyIRR(cfs []float64) (float64, bool) {
	r := irrInitialGuess
	for iter := 0; iter < irrMaxIter; iter++ {
		f, df := npvAndDerivative(cfs, r)
		if math.Abs(f) < irrTolerance {
			return r, true
		}
		if math.Abs(df) < derivativeFloor {
			return 0, false
		}
		r -= f / df
		if math.Abs(r) > rateCeiling || math.IsNaN(r) || math.IsInf(r, 0) {
			return 0, false
		}
	}
	return 0, false
}

// npvAndDerivative returns f(r) = sum cf_m (1+r)^(-m) and its analytic
// derivative df/dr = sum -m cf_m (1+r)^(-m-1).
func npvAndDerivative(cfs []float64, r float64) (float64, float64) {
	var f, df float64
	for i, cf := range cfs {
		m := float64(i + 1)
		disc := math.Pow(1+r, -m)
		f += cf * disc
		df += -m * cf * disc / (1 + r)
	}
	return f, df
}
