package engine

import (
	"fia_cof/pkg/core/assumptions"
	"fia_cof/pkg/core/inforce"
)

// livesFloor: once a cell's surviving lives drop below this, the projector
// emits zero rows for the remaining horizon.
const livesFloor = 1e-9

// policyState is the mutable roll-forward state for one policy cell. It is
// owned by a single projection worker and never shared.
type policyState struct {
	policy *inforce.Policy

	projectionMonth int // 1-based
	policyYear      int
	monthInYear     int // 1..12

	bopAV float64
	bopBB float64
	lives float64

	livesPersistency float64
	avPersistency    float64

	initialLivesRef           float64
	firstMonthTotalCommission float64

	// glwbPayoutFactor is locked at withdrawal commencement.
	glwbPayoutFactor float64
	glwbElected      bool
}

func newPolicyState(p *inforce.Policy) *policyState {
	return &policyState{
		policy:           p,
		projectionMonth:  1,
		policyYear:       1,
		monthInYear:      1,
		bopAV:            p.InitialPremium,
		bopBB:            p.InitialBenefitBase,
		lives:            p.InitialPols,
		livesPersistency: 1,
		initialLivesRef:  p.InitialPols,
	}
}

// attainedAge increments at each policy anniversary.
func (s *policyState) attainedAge() int {
	return s.policy.IssueAge + s.policyYear - 1
}

// duration in whole policy years since issue, for mortality improvement.
func (s *policyState) duration() int {
	return s.policyYear - 1
}

// advance moves the state to the next projection month after the kernel has
// written eopAV/eopBB/lives for the current one.
func (s *policyState) advance(eopAV, eopBB, lives float64) {
	s.bopAV = eopAV
	s.bopBB = eopBB
	s.lives = lives
	if s.initialLivesRef > 0 {
		s.livesPersistency = lives / s.initialLivesRef
	}
	s.projectionMonth++
	s.monthInYear++
	if s.monthInYear > 12 {
		s.monthInYear = 1
		s.policyYear++
	}
}

// lockGLWBFactor resolves the payout factor once, at the attained age of
// withdrawal commencement.
func (s *policyState) lockGLWBFactor(glwb *assumptions.GLWBTable) (float64, error) {
	if s.glwbElected {
		return s.glwbPayoutFactor, nil
	}
	commenceAge := s.policy.IssueAge + s.policy.GLWBStartYear - 1
	f, err := glwb.PayoutFactor(commenceAge)
	if err != nil {
		return 0, err
	}
	s.glwbPayoutFactor = f
	s.glwbElected = true
	return f, nil
}
