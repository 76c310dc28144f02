package config

import "testing"

func TestApplyDefaults(t *testing.T) {
	var r Request
	r.ApplyDefaults()

	if r.ProjectionMonths != 768 {
		t.Errorf("Expected 768 months, got %d", r.ProjectionMonths)
	}
	if r.FixedAnnualRate != 0.0275 || r.IndexedAnnualRate != 0.0378 {
		t.Errorf("Crediting defaults wrong: %f / %f", r.FixedAnnualRate, r.IndexedAnnualRate)
	}
	if r.InforceFixedPct != 0.25 || r.InforceBBBonus != 0.30 {
		t.Errorf("Inforce defaults wrong: %f / %f", r.InforceFixedPct, r.InforceBBBonus)
	}
	if r.RollupRate != 0.10 {
		t.Errorf("Expected rollup 0.10, got %f", r.RollupRate)
	}
	if r.BBBRate != nil {
		t.Errorf("bbb_rate must default to nil")
	}

	// Explicit values survive defaulting.
	r2 := Request{ProjectionMonths: 12, TreasuryChange: -0.005}
	r2.ApplyDefaults()
	if r2.ProjectionMonths != 12 || r2.TreasuryChange != -0.005 {
		t.Errorf("Explicit values overwritten: %+v", r2)
	}

	// Idempotent.
	r2.ApplyDefaults()
	if r2.ProjectionMonths != 12 {
		t.Errorf("Defaulting not idempotent")
	}
}
