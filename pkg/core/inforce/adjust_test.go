package inforce

import (
	"math"
	"testing"
)

func cellPair(id int, age int, gender string, qual QualStatus, lives, premium float64) []Policy {
	fixed := Policy{
		PolicyID:           id,
		QualStatus:         qual,
		IssueAge:           age,
		Gender:             gender,
		CreditingStrategy:  Fixed,
		BBBucket:           "100k",
		InitialPols:        lives,
		InitialPremium:     premium,
		InitialBenefitBase: premium * 1.30,
		SCPeriod:           120,
		Bonus:              0.30,
		RollupType:         SimpleRollup,
		GLWBStartYear:      11,
	}
	indexed := fixed
	indexed.PolicyID = id + 1
	indexed.CreditingStrategy = Indexed
	return []Policy{fixed, indexed}
}

func sumPremium(ps []Policy, strat CreditingStrategy) float64 {
	var s float64
	for _, p := range ps {
		if strat == "" || p.CreditingStrategy == strat {
			s += p.InitialPremium
		}
	}
	return s
}

func TestAdjustTargetPremiumAndMix(t *testing.T) {
	base := append(cellPair(1, 60, "M", Qualified, 100, 5_000_000),
		cellPair(3, 70, "F", NonQualified, 200, 7_000_000)...)

	params := AdjustmentParams{
		FixedPct:      0.25,
		MaleMult:      1, FemaleMult: 1, QualMult: 1, NonQualMult: 1,
		BBBonus:       0.30,
		TargetPremium: 100_000_000,
	}
	out, err := Adjust(base, params, 0.30)
	if err != nil {
		t.Fatalf("Adjust: %v", err)
	}

	total := sumPremium(out, "")
	if math.Abs(total-100_000_000) > 1 {
		t.Errorf("Expected total premium 100M, got %.2f", total)
	}

	fixed := sumPremium(out, Fixed)
	if math.Abs(fixed-25_000_000) > 1 {
		t.Errorf("Expected fixed premium 25M, got %.2f", fixed)
	}

	// The base block is untouched.
	if base[0].InitialPremium != 5_000_000 {
		t.Errorf("Adjust mutated its input")
	}
}

func TestAdjustDemographicMultipliers(t *testing.T) {
	base := append(cellPair(1, 60, "M", Qualified, 100, 1_000_000),
		cellPair(3, 60, "F", NonQualified, 100, 1_000_000)...)

	params := AdjustmentParams{
		FixedPct: 0.5,
		MaleMult: 2.0, FemaleMult: 0.5,
		QualMult: 1.5, NonQualMult: 1.0,
		BBBonus: 0.30,
	}
	out, err := Adjust(base, params, 0.30)
	if err != nil {
		t.Fatalf("Adjust: %v", err)
	}

	// Male qualified cell: x2 x1.5 = x3 lives; female nonqualified: x0.5.
	var maleLives, femaleLives float64
	for _, p := range out {
		if p.Gender == "M" {
			maleLives += p.InitialPols
		} else {
			femaleLives += p.InitialPols
		}
	}
	if math.Abs(maleLives-600) > 1e-9 {
		t.Errorf("Expected 600 male lives, got %f", maleLives)
	}
	if math.Abs(femaleLives-100) > 1e-9 {
		t.Errorf("Expected 100 female lives, got %f", femaleLives)
	}
}

func TestAdjustBonusRebase(t *testing.T) {
	base := cellPair(1, 60, "M", Qualified, 100, 1_000_000)

	params := AdjustmentParams{
		FixedPct: 0.5,
		MaleMult: 1, FemaleMult: 1, QualMult: 1, NonQualMult: 1,
		BBBonus:  0.10,
	}
	out, err := Adjust(base, params, 0.30)
	if err != nil {
		t.Fatalf("Adjust: %v", err)
	}

	factor := 1.10 / 1.30
	for i, p := range out {
		wantBB := base[i].InitialBenefitBase * factor
		if math.Abs(p.InitialBenefitBase-wantBB) > 1e-6 {
			t.Errorf("Policy %d: expected BB %.4f, got %.4f", p.PolicyID, wantBB, p.InitialBenefitBase)
		}
		if p.Bonus != 0.10 {
			t.Errorf("Policy %d: expected bonus 0.10, got %f", p.PolicyID, p.Bonus)
		}
	}
}

func TestAdjustValidation(t *testing.T) {
	if _, err := Adjust(nil, AdjustmentParams{}, 0.30); err == nil {
		t.Errorf("Expected error on empty block")
	}
	base := cellPair(1, 60, "M", Qualified, 100, 1_000_000)
	if _, err := Adjust(base, AdjustmentParams{FixedPct: 1.5}, 0.30); err == nil {
		t.Errorf("Expected error on fixed_pct > 1")
	}
}
