package engine

import (
	"math"

	"fia_cof/pkg/core/assumptions"
	"fia_cof/pkg/core/inforce"
)

const avEpsilon = 1e-9

// step advances one policy cell by one month. The ordering of operations is
// fixed: decrements on BOP account value, rider charge, interest crediting,
// expenses, commissions, hedge gains, anniversary rollup. Results depend on
// this order.
func step(s *policyState, t *assumptions.Tables, cfg *Config) (CashflowRow, error) {
	p := s.policy
	row := CashflowRow{
		Month: s.projectionMonth,
		BopAV: s.bopAV,
		BopBB: s.bopBB,
		Lives: s.lives,
	}

	// 1. Decrement rates.
	qMortAnnual, err := t.Mortality.AnnualQx(gender(p), s.attainedAge(), s.duration())
	if err != nil {
		return row, err
	}
	qMort := assumptions.MonthlyRate(qMortAnnual)

	qLapse, err := lapseRate(s, t)
	if err != nil {
		return row, err
	}

	qPwd, err := pwdRate(s, t)
	if err != nil {
		return row, err
	}

	// Decrements cannot exceed the whole account in one month. Mortality
	// takes priority, then lapse, then partials; at the mortality table's
	// terminal age this zeroes the cell exactly.
	if qMort > 1 {
		qMort = 1
	}
	if qLapse > 1-qMort {
		qLapse = 1 - qMort
	}
	if qPwd > 1-qMort-qLapse {
		qPwd = 1 - qMort - qLapse
	}

	// 2. Decremented-dollar cashflows on BOP AV. Mortality and partial
	// withdrawals pay out account value; lapses pay surrender value and the
	// charge is retained.
	scRate, err := surrenderRate(s, t)
	if err != nil {
		return row, err
	}

	avAvailable := s.bopAV > avEpsilon
	if avAvailable {
		row.Mortality = s.bopAV * qMort
		lapseGross := s.bopAV * qLapse
		row.SurrenderCharges = lapseGross * scRate
		row.Lapse = lapseGross - row.SurrenderCharges
		row.PWD = s.bopAV * qPwd
	}

	avAfterDec := s.bopAV * (1 - qMort - qLapse - qPwd)
	if avAfterDec < 0 {
		avAfterDec = 0
	}

	// GLWB withdrawals once the wait period has elapsed, capped at the
	// remaining account value.
	if avAvailable && s.policyYear >= p.GLWBStartYear {
		factor, err := s.lockGLWBFactor(t.GLWB)
		if err != nil {
			return row, err
		}
		glwbWd := s.bopBB * factor / 12
		if glwbWd > avAfterDec {
			glwbWd = avAfterDec
		}
		row.PWD += glwbWd
		avAfterDec -= glwbWd
	}

	// 3. Rider charge against the benefit base, collected from AV.
	if avAvailable {
		riderCharge := t.GLWB.RiderChargeAnnual * s.bopBB / 12
		if riderCharge > avAfterDec {
			riderCharge = avAfterDec
		}
		row.RiderCharges = riderCharge
		avAfterDec -= riderCharge
	}

	// 4. Interest crediting. Fixed credits monthly; indexed deposits the
	// full annual rate at each month-12 anniversary.
	switch p.CreditingStrategy {
	case inforce.Fixed:
		row.Interest = avAfterDec * cfg.fixedMonthlyRate()
	case inforce.Indexed:
		if s.monthInYear == 12 {
			row.Interest = avAfterDec * cfg.indexedAnnualRate()
		}
	}
	row.EopAV = avAfterDec + row.Interest
	if row.EopAV < 0 {
		row.EopAV = 0
	}

	avPersistency := 0.0
	if s.bopAV > avEpsilon {
		avPersistency = row.EopAV / s.bopAV
	}
	s.avPersistency = avPersistency

	// 5. Expenses on EOP AV.
	row.Expenses = row.EopAV * t.Product.ExpenseRateOfAV / 12

	// 6. Lives roll-forward. Partial withdrawals do not terminate lives.
	livesEnd := s.lives * (1 - qMort - qLapse)
	if livesEnd < 0 {
		livesEnd = 0
	}
	livesLostAll := s.lives - livesEnd
	livesLostTerm := s.lives * qLapse

	// 7. Commissions, month-13 bonus, first-year chargebacks.
	applyCommission(s, t.Commission, cfg, &row, livesLostAll, livesLostTerm)

	// 8. Hedge gains, indexed only.
	if p.CreditingStrategy == inforce.Indexed {
		applyHedge(s, t.Hedge, cfg, &row, avPersistency)
	}

	// 9. Net monthly cashflow. Conversion owed stays out; chargebacks come
	// back in with a plus.
	row.TotalNetCashflow = row.Premium -
		row.Mortality - row.Lapse - row.PWD +
		row.RiderCharges + row.SurrenderCharges -
		row.Expenses -
		row.AgentCommission - row.IMOOverride - row.WholesalerOverride -
		row.BonusComp +
		row.Chargebacks +
		row.HedgeGains

	// 10. Benefit base roll-forward: survivor share, then anniversary
	// rollup during the deferral accrual window.
	eopBB := s.bopBB * (1 - qMort - qLapse - qPwd)
	if eopBB < 0 {
		eopBB = 0
	}
	if s.monthInYear == 12 {
		eopBB = applyRollup(eopBB, s.policyYear, p, t.GLWB, cfg)
	}

	s.advance(row.EopAV, eopBB, livesEnd)
	return row, nil
}

// lapseRate combines the base monthly rate with the in-the-moneyness
// multiplier and the post-surrender-charge shock skew.
func lapseRate(s *policyState, t *assumptions.Tables) (float64, error) {
	base, err := t.Lapse.BaseMonthly(s.projectionMonth)
	if err != nil {
		return 0, err
	}

	itm := s.bopBB/math.Max(s.bopAV, avEpsilon) - 1
	mult, err := t.Lapse.ITMMultiplier(itm)
	if err != nil {
		return 0, err
	}

	q := base * mult
	scPeriod := s.policy.SCPeriod
	if s.projectionMonth > scPeriod && s.projectionMonth <= scPeriod+12 {
		q *= t.Lapse.ShockMultiplier
	}
	if q > 1 {
		q = 1
	}
	return q, nil
}

// pwdRate is the free-partial rate plus, for qualified lives past the RMD
// start age, the uniform-lifetime requirement net of free partials. No
// partials in policy year one.
func pwdRate(s *policyState, t *assumptions.Tables) (float64, error) {
	if s.policyYear <= 1 {
		return 0, nil
	}
	free := t.Withdrawal.FreeWithdrawalAnnual
	annual := free
	if s.policy.QualStatus == inforce.Qualified {
		rmd, err := t.Withdrawal.RMDAnnualRate(s.attainedAge())
		if err != nil {
			return 0, err
		}
		if rmd > free {
			annual = rmd
		}
	}
	return annual / 12, nil
}

// surrenderRate is zero once the policy's own charge period has run off,
// regardless of the schedule length.
func surrenderRate(s *policyState, t *assumptions.Tables) (float64, error) {
	if s.policyYear > s.policy.SCPeriod/12 {
		return 0, nil
	}
	return t.Surrender.Rate(s.policyYear)
}

func gender(p *inforce.Policy) assumptions.Gender {
	if p.Gender == "F" {
		return assumptions.Female
	}
	return assumptions.Male
}

// applyRollup fires at the boundary between month 12 of policy year k and
// month 1 of year k+1, for k below the rollup period; the benefit base is
// frozen afterwards. Simple rollup uses the ratio-of-cumulative-factors form
// so the running product carried in bop_bb stays consistent with straight
// accrual on the bonused initial base.
func applyRollup(eopBB float64, policyYear int, p *inforce.Policy, glwb *assumptions.GLWBTable, cfg *Config) float64 {
	rollupYears := glwb.RollupYears
	if policyYear >= rollupYears {
		return eopBB
	}
	rate := glwb.RollupRate
	if cfg.RollupRate > 0 {
		rate = cfg.RollupRate
	}
	switch p.RollupType {
	case inforce.CompoundRollup:
		return eopBB * (1 + rate)
	default:
		k := float64(policyYear)
		prior := 1 + p.Bonus + rate*(k-1)
		next := 1 + p.Bonus + rate*k
		return eopBB * next / prior
	}
}

// zeroRow pads the projection once a cell has run off.
func zeroRow(month int) CashflowRow {
	return CashflowRow{Month: month}
}
