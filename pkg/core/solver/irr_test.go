package solver

import (
	"math"
	"testing"

	"fia_cof/pkg/core/engine"
)

func rowsFrom(cfs []float64) []engine.CashflowRow {
	rows := make([]engine.CashflowRow, len(cfs))
	for i, cf := range cfs {
		rows[i] = engine.CashflowRow{Month: i + 1, TotalNetCashflow: cf}
	}
	return rows
}

func TestCostOfFundsKnownRate(t *testing.T) {
	// Outflow at month 1, single repayment at month 13 grown at 0.5%/month:
	// the monthly IRR is exactly 0.005.
	cfs := make([]float64, 13)
	cfs[0] = -1_000_000
	cfs[12] = 1_000_000 * math.Pow(1.005, 12)

	got := CostOfFunds(rowsFrom(cfs))
	if got == nil {
		t.Fatalf("Expected convergence")
	}
	want := (math.Pow(1.005, 12) - 1) * 100
	if math.Abs(*got-want) > 1e-3 {
		t.Errorf("Expected %.6f%%, got %.6f%%", want, *got)
	}
}

func TestCostOfFundsResidualUnderOneDollar(t *testing.T) {
	// A messier series: the solved rate must zero the NPV to under a dollar.
	cfs := []float64{-5_000_000}
	for m := 2; m <= 120; m++ {
		cfs = append(cfs, 50_000)
	}

	got := CostOfFunds(rowsFrom(cfs))
	if got == nil {
		t.Fatalf("Expected convergence")
	}
	r := math.Pow(1+*got/100, 1.0/12.0) - 1
	f, _ := npvAndDerivative(cfs, r)
	if math.Abs(f) >= 1 {
		t.Errorf("Expected |NPV(r*)| < 1 dollar, got %.4f", f)
	}
}

func TestCostOfFundsUndefined(t *testing.T) {
	// A single month cannot define a rate.
	if got := CostOfFunds(rowsFrom([]float64{100})); got != nil {
		t.Errorf("Expected nil for one-month horizon, got %f", *got)
	}

	// All-positive cashflows have no root; the iteration must give up
	// rather than report a rate.
	cfs := make([]float64, 24)
	for i := range cfs {
		cfs[i] = 1_000_000
	}
	if got := CostOfFunds(rowsFrom(cfs)); got != nil {
		t.Errorf("Expected nil for rootless series, got %f", *got)
	}
}

func TestCedingCommission(t *testing.T) {
	rows := rowsFrom([]float64{-1000, 600, 600})
	cc := ComputeCedingCommission(rows, 0.05, 0.01)

	d := 0.06 / 12
	want := -1000/math.Pow(1+d, 1) + 600/math.Pow(1+d, 2) + 600/math.Pow(1+d, 3)
	if math.Abs(cc.NPV-want) > 1e-9 {
		t.Errorf("Expected NPV %.9f, got %.9f", want, cc.NPV)
	}
	if cc.BBBRatePct != 5 || cc.SpreadPct != 1 || cc.TotalRatePct != 6 {
		t.Errorf("Rate components wrong: %+v", cc)
	}
}
