package engine

import (
	"fmt"
	"runtime"
	"sync"

	"fia_cof/pkg/core/assumptions"
	"fia_cof/pkg/core/inforce"
)

// ProjectBlock projects every policy and sums the per-policy vectors into a
// single block-level cashflow series of ProjectionMonths rows.
//
// Projection is data-parallel fork-join: each worker owns a disjoint set of
// policies and no mutable state is shared during projection. The reduction
// always runs in policy order after the join, so for a fixed input the block
// result is identical between parallel and deterministic modes; the
// tolerance in the tests only covers summation-order drift if the reduction
// strategy ever changes.
func ProjectBlock(policies []inforce.Policy, t *assumptions.Tables, cfg *Config) ([]CashflowRow, error) {
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	if len(policies) == 0 {
		return nil, fmt.Errorf("%w: empty policy block", ErrConfiguration)
	}

	perPolicy := make([][]CashflowRow, len(policies))
	errs := make([]error, len(policies))

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(policies) {
		workers = len(policies)
	}
	if cfg.Deterministic {
		workers = 1
	}

	var wg sync.WaitGroup
	next := make(chan int)
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range next {
				perPolicy[i], errs[i] = ProjectPolicy(&policies[i], t, cfg)
			}
		}()
	}
	for i := range policies {
		next <- i
	}
	close(next)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("projection aborted at policy %d: %w", policies[i].PolicyID, err)
		}
	}

	// Element-wise reduction in policy order.
	block := make([]CashflowRow, cfg.ProjectionMonths)
	for m := 0; m < cfg.ProjectionMonths; m++ {
		block[m].Month = m + 1
	}
	for _, rows := range perPolicy {
		for m := range rows {
			block[m].Add(&rows[m])
		}
	}
	return block, nil
}
