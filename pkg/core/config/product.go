package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"fia_cof/pkg/core/assumptions"
	"fia_cof/pkg/core/inforce"
)

// ProductConfig is the yaml product file. Every block is optional; omitted
// values keep the built-in assumption defaults.
type ProductConfig struct {
	Product struct {
		ExpenseRateOfAV *float64 `yaml:"expense_rate_of_av"`
		BaseBBBonus     *float64 `yaml:"base_bb_bonus"`
		SCPeriodMonths  *int     `yaml:"sc_period_months"`
	} `yaml:"product"`
	GLWB struct {
		RollupRate        *float64 `yaml:"rollup_rate"`
		RollupYears       *int     `yaml:"rollup_years"`
		RiderChargeAnnual *float64 `yaml:"rider_charge_annual"`
		StartYear         *int     `yaml:"start_year"`
		RollupType        string   `yaml:"rollup_type"`
	} `yaml:"glwb"`
	Hedge struct {
		OptionBudget *float64 `yaml:"option_budget"`
		Appreciation *float64 `yaml:"appreciation"`
		Financing    *float64 `yaml:"financing"`
	} `yaml:"hedge"`
	Lapse struct {
		ShockMultiplier *float64 `yaml:"shock_multiplier"`
		UltimateAnnual  *float64 `yaml:"ultimate_annual"`
	} `yaml:"lapse"`
	Withdrawal struct {
		FreeWithdrawalAnnual *float64 `yaml:"free_withdrawal_annual"`
	} `yaml:"withdrawal"`
}

// LoadProduct reads the product yaml; a missing path returns an empty
// config so the defaults apply.
func LoadProduct(path string) (*ProductConfig, error) {
	var pc ProductConfig
	if path == "" {
		return &pc, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &pc, nil
		}
		return nil, fmt.Errorf("read product config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &pc); err != nil {
		return nil, fmt.Errorf("parse product config %s: %w", path, err)
	}
	return &pc, nil
}

// Apply overlays the configured values onto the assumption set.
func (pc *ProductConfig) Apply(t *assumptions.Tables) {
	if v := pc.Product.ExpenseRateOfAV; v != nil {
		t.Product.ExpenseRateOfAV = *v
	}
	if v := pc.Product.BaseBBBonus; v != nil {
		t.Product.BaseBBBonus = *v
	}
	if v := pc.Product.SCPeriodMonths; v != nil {
		t.Product.SCPeriodMonths = *v
	}
	if v := pc.GLWB.RollupRate; v != nil {
		t.GLWB.RollupRate = *v
	}
	if v := pc.GLWB.RollupYears; v != nil {
		t.GLWB.RollupYears = *v
	}
	if v := pc.GLWB.RiderChargeAnnual; v != nil {
		t.GLWB.RiderChargeAnnual = *v
	}
	if v := pc.Hedge.OptionBudget; v != nil {
		t.Hedge.OptionBudget = *v
	}
	if v := pc.Hedge.Appreciation; v != nil {
		t.Hedge.Appreciation = *v
	}
	if v := pc.Hedge.Financing; v != nil {
		t.Hedge.Financing = *v
	}
	if v := pc.Lapse.ShockMultiplier; v != nil {
		t.Lapse.ShockMultiplier = *v
	}
	if v := pc.Lapse.UltimateAnnual; v != nil {
		t.Lapse.UltimateAnnual = *v
	}
	if v := pc.Withdrawal.FreeWithdrawalAnnual; v != nil {
		t.Withdrawal.FreeWithdrawalAnnual = *v
	}
}

// InforceDefaults derives the per-policy load defaults from the product
// configuration.
func (pc *ProductConfig) InforceDefaults(t *assumptions.Tables) inforce.LoadDefaults {
	def := inforce.LoadDefaults{
		SCPeriodMonths: t.Product.SCPeriodMonths,
		BBBonus:        t.Product.BaseBBBonus,
		RollupType:     inforce.SimpleRollup,
		GLWBStartYear:  11,
	}
	if pc.GLWB.StartYear != nil {
		def.GLWBStartYear = *pc.GLWB.StartYear
	}
	if pc.GLWB.RollupType != "" {
		def.RollupType = inforce.RollupType(pc.GLWB.RollupType)
	}
	return def
}
