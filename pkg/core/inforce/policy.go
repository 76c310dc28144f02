package inforce

import "fmt"

// QualStatus is the tax qualification of the premium.
type QualStatus string

const (
	Qualified    QualStatus = "Q"
	NonQualified QualStatus = "NQ"
)

// CreditingStrategy selects fixed or index-linked crediting.
type CreditingStrategy string

const (
	Fixed   CreditingStrategy = "Fixed"
	Indexed CreditingStrategy = "Indexed"
)

// RollupType selects the benefit-base accrual form during deferral.
type RollupType string

const (
	SimpleRollup   RollupType = "Simple"
	CompoundRollup RollupType = "Compound"
)

// Policy is one inforce cell, immutable after loading. InitialPols is a
// fractional live count; InitialPremium, InitialBenefitBase and the
// cashflow columns downstream are cell totals.
type Policy struct {
	PolicyID           int               `json:"policy_id"`
	QualStatus         QualStatus        `json:"qual_status"`
	IssueAge           int               `json:"issue_age"`
	Gender             string            `json:"gender"` // "M" or "F"
	CreditingStrategy  CreditingStrategy `json:"crediting_strategy"`
	BBBucket           string            `json:"bb_bucket"`
	InitialPols        float64           `json:"initial_pols"`
	InitialPremium     float64           `json:"initial_premium"`
	InitialBenefitBase float64           `json:"initial_benefit_base"`
	// SCPeriod is the surrender-charge period in months.
	SCPeriod int `json:"sc_period"`
	// Bonus is the benefit-base bonus applied at issue:
	// InitialPremium = InitialBenefitBase / (1 + Bonus).
	Bonus         float64    `json:"bonus"`
	RollupType    RollupType `json:"rollup_type"`
	GLWBStartYear int        `json:"glwb_start_year"`
}

// WaitPeriod is the deferral period in whole policy years before GLWB
// withdrawals begin.
func (p *Policy) WaitPeriod() int {
	return p.GLWBStartYear - 1
}

// Validate checks load-time invariants. Load errors are fatal.
func (p *Policy) Validate() error {
	if p.IssueAge < 18 || p.IssueAge > 90 {
		return fmt.Errorf("policy %d: issue age %d outside [18,90]", p.PolicyID, p.IssueAge)
	}
	if p.Gender != "M" && p.Gender != "F" {
		return fmt.Errorf("policy %d: gender %q", p.PolicyID, p.Gender)
	}
	if p.QualStatus != Qualified && p.QualStatus != NonQualified {
		return fmt.Errorf("policy %d: qual status %q", p.PolicyID, p.QualStatus)
	}
	if p.CreditingStrategy != Fixed && p.CreditingStrategy != Indexed {
		return fmt.Errorf("policy %d: crediting strategy %q", p.PolicyID, p.CreditingStrategy)
	}
	if p.RollupType != SimpleRollup && p.RollupType != CompoundRollup {
		return fmt.Errorf("policy %d: rollup type %q", p.PolicyID, p.RollupType)
	}
	if p.InitialPols < 0 || p.InitialPremium < 0 || p.InitialBenefitBase < 0 {
		return fmt.Errorf("policy %d: negative initial amount", p.PolicyID)
	}
	if p.GLWBStartYear < 1 {
		return fmt.Errorf("policy %d: glwb start year %d", p.PolicyID, p.GLWBStartYear)
	}
	return nil
}
