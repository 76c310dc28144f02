package engine

import "fia_cof/pkg/core/assumptions"

// applyCommission writes the compensation columns for the month: the full
// first-month commission stack, the month-13 persistency bonus, and
// first-policy-year chargebacks referencing the recorded month-1 total.
func applyCommission(s *policyState, c *assumptions.CommissionSchedule, cfg *Config, row *CashflowRow, livesLostAll, livesLostTerm float64) {
	p := s.policy

	switch {
	case s.projectionMonth == 1:
		row.Premium = p.InitialPremium

		var imoGross, whGross float64
		if c.IsYoung(p.IssueAge) {
			row.AgentCommission = p.InitialPremium * c.AgentRateYoung
			imoGross = p.InitialPremium * c.IMOGrossYoung
			whGross = p.InitialPremium * c.WholesalerGrossYoung
		} else {
			row.AgentCommission = p.InitialPremium * c.AgentRateOld
			overrideOld := p.InitialPremium * c.OverrideGrossOld
			imoShare := c.IMOGrossYoung / (c.IMOGrossYoung + c.WholesalerGrossYoung)
			imoGross = overrideOld * imoShare
			whGross = overrideOld * (1 - imoShare)
		}

		row.IMOOverride = imoGross * (1 - c.IMOConversion)
		row.IMOConversionOwed = imoGross * c.IMOConversion
		row.WholesalerOverride = whGross * (1 - c.WholesalerConversion)
		row.WholesalerConversionOwed = whGross * c.WholesalerConversion

		// Memoized for chargebacks; months 2-12 reference exactly this
		// value rather than recomputing from rates.
		s.firstMonthTotalCommission = row.AgentCommission + row.IMOOverride + row.WholesalerOverride

	case s.projectionMonth == 13:
		row.BonusComp = s.bopAV * c.BonusRate(p.IssueAge)

	case s.projectionMonth <= 12:
		// Policy year one only; factor 1.0 through month 6, 0.5 through 12.
		if s.initialLivesRef <= 0 {
			return
		}
		livesLost := livesLostAll
		if cfg.ChargebackBasis == ChargebackTerminationsOnly {
			livesLost = livesLostTerm
		}
		factor := c.ChargebackFactor(s.projectionMonth)
		row.Chargebacks = (livesLost / s.initialLivesRef) * s.firstMonthTotalCommission * factor
	}
}
