package engine

import (
	"math"
	"testing"

	"fia_cof/pkg/core/assumptions"
	"fia_cof/pkg/core/inforce"
)

func blockOf(n int) []inforce.Policy {
	policies := make([]inforce.Policy, n)
	for i := range policies {
		p := basePolicy()
		p.PolicyID = i + 1
		if i%2 == 1 {
			p.CreditingStrategy = inforce.Indexed
			p.Gender = "F"
		}
		policies[i] = p
	}
	return policies
}

func TestParallelMatchesDeterministic(t *testing.T) {
	tables := assumptions.Default()
	policies := blockOf(8)

	parallel := &Config{ProjectionMonths: 120, FixedAnnualRate: 0.0275, IndexedAnnualRate: 0.0378, Workers: 4}
	sequential := &Config{ProjectionMonths: 120, FixedAnnualRate: 0.0275, IndexedAnnualRate: 0.0378, Deterministic: true}

	got, err := ProjectBlock(policies, tables, parallel)
	if err != nil {
		t.Fatalf("parallel ProjectBlock: %v", err)
	}
	want, err := ProjectBlock(policies, tables, sequential)
	if err != nil {
		t.Fatalf("deterministic ProjectBlock: %v", err)
	}

	for m := range want {
		relDiff(t, m+1, "total_net_cashflow", got[m].TotalNetCashflow, want[m].TotalNetCashflow)
		relDiff(t, m+1, "eop_av", got[m].EopAV, want[m].EopAV)
		relDiff(t, m+1, "lives", got[m].Lives, want[m].Lives)
	}
}

func relDiff(t *testing.T, month int, field string, got, want float64) {
	t.Helper()
	denom := math.Abs(want)
	if denom < 1 {
		denom = 1
	}
	if math.Abs(got-want)/denom > 1e-6 {
		t.Fatalf("Month %d %s: parallel %0.9f vs deterministic %0.9f", month, field, got, want)
	}
}

func TestProjectionIdempotent(t *testing.T) {
	tables := assumptions.Default()
	policies := blockOf(4)
	cfg := &Config{ProjectionMonths: 60, FixedAnnualRate: 0.0275, IndexedAnnualRate: 0.0378, Deterministic: true}

	a, err := ProjectBlock(policies, tables, cfg)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	b, err := ProjectBlock(policies, tables, cfg)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	for m := range a {
		if a[m] != b[m] {
			t.Fatalf("Month %d: repeated run differs bitwise", m+1)
		}
	}
}

func TestTwoIdenticalPoliciesSumExactly(t *testing.T) {
	tables := assumptions.Default()
	one := []inforce.Policy{basePolicy()}
	two := []inforce.Policy{basePolicy(), basePolicy()}
	two[1].PolicyID = 2

	cfg := &Config{ProjectionMonths: 60, FixedAnnualRate: 0.0275, Deterministic: true}

	single, err := ProjectBlock(one, tables, cfg)
	if err != nil {
		t.Fatalf("single: %v", err)
	}
	double, err := ProjectBlock(two, tables, cfg)
	if err != nil {
		t.Fatalf("double: %v", err)
	}

	for m := range single {
		if double[m].TotalNetCashflow != 2*single[m].TotalNetCashflow {
			t.Fatalf("Month %d: doubled cashflow %0.9f vs 2x single %0.9f", m+1, double[m].TotalNetCashflow, 2*single[m].TotalNetCashflow)
		}
	}
}

func TestProjectBlockEmpty(t *testing.T) {
	tables := assumptions.Default()
	cfg := &Config{ProjectionMonths: 12}
	if _, err := ProjectBlock(nil, tables, cfg); err == nil {
		t.Fatalf("Expected error on empty block")
	}
}

func TestConfigNormalize(t *testing.T) {
	cfg := &Config{}
	if err := cfg.Normalize(); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if cfg.ProjectionMonths != 768 {
		t.Errorf("Expected default horizon 768, got %d", cfg.ProjectionMonths)
	}
	if cfg.ChargebackBasis != ChargebackAllDecrements {
		t.Errorf("Expected aggregate chargeback basis default")
	}

	bad := &Config{ChargebackBasis: "sometimes"}
	if err := bad.Normalize(); err == nil {
		t.Errorf("Expected error for unknown chargeback basis")
	}
}
