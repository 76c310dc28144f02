package cof

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"fia_cof/pkg/core/assumptions"
	"fia_cof/pkg/core/config"
	"fia_cof/pkg/core/engine"
	"fia_cof/pkg/core/inforce"
	"fia_cof/pkg/core/solver"
)

// Summary is the block-level rollup of a run.
type Summary struct {
	TotalPremium      float64 `json:"total_premium"`
	TotalInitialAV    float64 `json:"total_initial_av"`
	TotalInitialBB    float64 `json:"total_initial_bb"`
	TotalInitialLives float64 `json:"total_initial_lives"`
	TotalNetCashflows float64 `json:"total_net_cashflows"`
	Month1Cashflow    float64 `json:"month_1_cashflow"`
	FinalLives        float64 `json:"final_lives"`
	FinalAV           float64 `json:"final_av"`
}

// Response is the full computation result.
type Response struct {
	RunID            string                   `json:"run_id"`
	CostOfFundsPct   *float64                 `json:"cost_of_funds_pct"`
	CedingCommission *solver.CedingCommission `json:"ceding_commission,omitempty"`
	PolicyCount      int                      `json:"policy_count"`
	ProjectionMonths int                      `json:"projection_months"`
	Summary          Summary                  `json:"summary"`
	Cashflows        []engine.CashflowRow     `json:"cashflows"`
	ExecutionTimeMs  int64                    `json:"execution_time_ms"`
	Error            string                   `json:"error,omitempty"`
}

// Run executes one cost-of-funds computation: optional dynamic inforce
// reshaping, parallel block projection, IRR and ceding-commission NPV.
// A non-nil error is fatal; IRR non-convergence is not an error and shows
// up as a nil cost_of_funds_pct.
func Run(req *config.Request, policies []inforce.Policy, tables *assumptions.Tables) (*Response, error) {
	req.ApplyDefaults()
	start := time.Now()

	block := policies
	if req.UseDynamicInforce {
		adjusted, err := inforce.Adjust(block, inforce.AdjustmentParams{
			FixedPct:      req.InforceFixedPct,
			MaleMult:      req.InforceMaleMult,
			FemaleMult:    req.InforceFemaleMult,
			QualMult:      req.InforceQualMult,
			NonQualMult:   req.InforceNonQualMult,
			BBBonus:       req.InforceBBBonus,
			TargetPremium: req.TargetPremium,
		}, tables.Product.BaseBBBonus)
		if err != nil {
			return nil, err
		}
		block = adjusted
	}

	cfg := &engine.Config{
		ProjectionMonths:  req.ProjectionMonths,
		FixedAnnualRate:   req.FixedAnnualRate,
		IndexedAnnualRate: req.IndexedAnnualRate,
		TreasuryChange:    req.TreasuryChange,
		RollupRate:        req.RollupRate,
		ChargebackBasis:   engine.ChargebackBasis(req.ChargebackBasis),
		Deterministic:     req.Deterministic,
	}
	rows, err := engine.ProjectBlock(block, tables, cfg)
	if err != nil {
		return nil, fmt.Errorf("projection failed: %w", err)
	}

	resp := &Response{
		RunID:            uuid.New().String(),
		PolicyCount:      len(block),
		ProjectionMonths: cfg.ProjectionMonths,
		Cashflows:        rows,
		Summary:          summarize(block, rows),
	}

	resp.CostOfFundsPct = solver.CostOfFunds(rows)
	if req.BBBRate != nil {
		resp.CedingCommission = solver.ComputeCedingCommission(rows, *req.BBBRate, req.Spread)
	}

	resp.ExecutionTimeMs = time.Since(start).Milliseconds()
	return resp, nil
}

func summarize(block []inforce.Policy, rows []engine.CashflowRow) Summary {
	var s Summary
	for i := range block {
		s.TotalPremium += block[i].InitialPremium
		s.TotalInitialAV += block[i].InitialPremium
		s.TotalInitialBB += block[i].InitialBenefitBase
		s.TotalInitialLives += block[i].InitialPols
	}
	for i := range rows {
		s.TotalNetCashflows += rows[i].TotalNetCashflow
	}
	if len(rows) > 0 {
		s.Month1Cashflow = rows[0].TotalNetCashflow
		last := rows[len(rows)-1]
		s.FinalLives = last.Lives
		s.FinalAV = last.EopAV
	}
	return s
}
