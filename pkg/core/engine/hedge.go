package engine

import (
	"math"

	"fia_cof/pkg/core/assumptions"
)

// applyHedge writes the simplified hedge-gain columns for an indexed cell.
// Fixed cells never reach here, so both columns stay zero for them.
//
// The option budget released by decremented account value earns the net
// appreciation accrued so far this policy year; at each anniversary the
// carrier is reimbursed (or pays) the gap between the credited index rate
// and the appreciated option budget. A negative gap flows through as-is.
func applyHedge(s *policyState, h *assumptions.HedgeParams, cfg *Config, row *CashflowRow, avPersistency float64) {
	rateMult := 1.0
	if s.policyYear > 10 {
		rateMult = 0.5
	}

	if s.monthInYear == 1 && s.policyYear > 1 {
		gap := cfg.indexedAnnualRate() - h.OptionBudget*(1+h.Appreciation)
		row.NetIndexCreditReimbursement = s.bopAV * gap * rateMult
	}

	accrual := math.Pow(h.NetAppreciation(), float64(s.monthInYear)/12.0)
	row.HedgeGains = s.bopAV*(1-avPersistency)*h.OptionBudget*rateMult*accrual +
		row.NetIndexCreditReimbursement
}
