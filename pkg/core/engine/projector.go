package engine

import (
	"fmt"

	"fia_cof/pkg/core/assumptions"
	"fia_cof/pkg/core/inforce"
)

// ProjectPolicy rolls one policy cell forward for the configured horizon and
// returns exactly ProjectionMonths rows. Once surviving lives fall below the
// floor the remaining rows are emitted as zeros, so the output vector always
// aligns month-for-month across the block.
func ProjectPolicy(p *inforce.Policy, t *assumptions.Tables, cfg *Config) ([]CashflowRow, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	s := newPolicyState(p)
	rows := make([]CashflowRow, 0, cfg.ProjectionMonths)
	for m := 1; m <= cfg.ProjectionMonths; m++ {
		if s.lives < livesFloor {
			rows = append(rows, zeroRow(m))
			continue
		}
		row, err := step(s, t, cfg)
		if err != nil {
			return nil, fmt.Errorf("policy %d month %d: %w", p.PolicyID, m, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
