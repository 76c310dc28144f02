package inforce

import "fmt"

// AdjustmentParams reshapes a base inforce block: demographic multipliers,
// a target fixed/indexed mix, a replacement benefit-base bonus and a target
// total premium.
type AdjustmentParams struct {
	FixedPct      float64 `json:"fixed_pct"`
	MaleMult      float64 `json:"male_mult"`
	FemaleMult    float64 `json:"female_mult"`
	QualMult      float64 `json:"qual_mult"`
	NonQualMult   float64 `json:"nonqual_mult"`
	BBBonus       float64 `json:"bb_bonus"`
	TargetPremium float64 `json:"target_premium"`
}

// cellKey groups policies that differ only by crediting strategy.
type cellKey struct {
	age      int
	gender   string
	qual     QualStatus
	bbBucket string
}

// Adjust returns a reshaped copy of the base block. Steps, in order:
//
//  1. Scale lives by the gender and tax-status multipliers.
//  2. Within each (age, gender, qual, bucket) cell, redistribute lives
//     between Fixed and Indexed to hit FixedPct; premium and benefit base
//     move with the lives.
//  3. Rebase the benefit-base bonus from baseBonus to BBBonus.
//  4. Rescale every initial_* field uniformly so total premium equals
//     TargetPremium.
//
// The base slice is not modified.
func Adjust(base []Policy, params AdjustmentParams, baseBonus float64) ([]Policy, error) {
	if len(base) == 0 {
		return nil, fmt.Errorf("dynamic inforce: empty base block")
	}
	if params.FixedPct < 0 || params.FixedPct > 1 {
		return nil, fmt.Errorf("dynamic inforce: fixed_pct %.4f outside [0,1]", params.FixedPct)
	}

	out := make([]Policy, len(base))
	copy(out, base)

	// 1. Demographic multipliers.
	for i := range out {
		mult := 1.0
		if out[i].Gender == "M" {
			mult *= params.MaleMult
		} else {
			mult *= params.FemaleMult
		}
		if out[i].QualStatus == Qualified {
			mult *= params.QualMult
		} else {
			mult *= params.NonQualMult
		}
		scalePolicy(&out[i], mult)
	}

	// 2. Fixed/Indexed remix per cell.
	cells := map[cellKey][]int{}
	for i, p := range out {
		k := cellKey{age: p.IssueAge, gender: p.Gender, qual: p.QualStatus, bbBucket: p.BBBucket}
		cells[k] = append(cells[k], i)
	}
	for _, idxs := range cells {
		remixCell(out, idxs, params.FixedPct)
	}

	// 3. Benefit-base bonus rebase.
	bonusFactor := (1 + params.BBBonus) / (1 + baseBonus)
	for i := range out {
		out[i].InitialBenefitBase *= bonusFactor
		out[i].Bonus = params.BBBonus
	}

	// 4. Premium normalization.
	if params.TargetPremium > 0 {
		var total float64
		for i := range out {
			total += out[i].InitialPremium
		}
		if total <= 0 {
			return nil, fmt.Errorf("dynamic inforce: zero total premium, cannot hit target %.2f", params.TargetPremium)
		}
		scale := params.TargetPremium / total
		for i := range out {
			scalePolicy(&out[i], scale)
		}
	}

	return out, nil
}

// remixCell moves lives between the Fixed and Indexed rows of one cell so
// the fixed share of lives equals fixedPct. Cells missing one strategy are
// left unchanged (there is nowhere to move lives to).
func remixCell(out []Policy, idxs []int, fixedPct float64) {
	var totalLives, fixedLives float64
	for _, i := range idxs {
		totalLives += out[i].InitialPols
		if out[i].CreditingStrategy == Fixed {
			fixedLives += out[i].InitialPols
		}
	}
	if totalLives <= 0 {
		return
	}

	targetFixed := totalLives * fixedPct
	targetIndexed := totalLives - targetFixed
	indexedLives := totalLives - fixedLives

	// A strategy with zero current lives cannot absorb its target by pro-rata
	// scaling; the cell is left at its organic mix in that case.
	if fixedLives <= 0 || indexedLives <= 0 {
		return
	}

	for _, i := range idxs {
		if out[i].CreditingStrategy == Fixed {
			scalePolicy(&out[i], targetFixed/fixedLives)
		} else {
			scalePolicy(&out[i], targetIndexed/indexedLives)
		}
	}
}

func scalePolicy(p *Policy, factor float64) {
	p.InitialPols *= factor
	p.InitialPremium *= factor
	p.InitialBenefitBase *= factor
}
