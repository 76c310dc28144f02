package inforce

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// LoadDefaults supplies the per-policy fields the inforce file does not
// carry: the surrender-charge period, issue bonus, rollup form and the
// withdrawal start year.
type LoadDefaults struct {
	SCPeriodMonths int
	BBBonus        float64
	RollupType     RollupType
	GLWBStartYear  int
}

// LoadCSV reads the inforce file. Expected header:
//
//	policy_id,qual_status,issue_age,gender,crediting_strategy,bb_bucket,initial_pols,initial_premium,initial_benefit_base
//
// qual_status accepts Q/Qualified and NQ/NonQualified; gender M/F;
// crediting_strategy Fixed/Indexed. Any malformed row aborts the load.
func LoadCSV(path string, def LoadDefaults) ([]Policy, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open inforce %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse inforce %s: %w", path, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("inforce %s: no data rows", path)
	}

	policies := make([]Policy, 0, len(records)-1)
	for i, r := range records[1:] {
		row := i + 2 // 1-based, after header
		if len(r) < 9 {
			return nil, fmt.Errorf("inforce row %d: want 9 columns, got %d", row, len(r))
		}
		id, err := strconv.Atoi(strings.TrimSpace(r[0]))
		if err != nil {
			return nil, fmt.Errorf("inforce row %d: bad policy_id %q", row, r[0])
		}
		qual, err := parseQual(r[1])
		if err != nil {
			return nil, fmt.Errorf("inforce row %d: %w", row, err)
		}
		age, err := strconv.Atoi(strings.TrimSpace(r[2]))
		if err != nil {
			return nil, fmt.Errorf("inforce row %d: bad issue_age %q", row, r[2])
		}
		gender, err := parseGender(r[3])
		if err != nil {
			return nil, fmt.Errorf("inforce row %d: %w", row, err)
		}
		strat, err := parseStrategy(r[4])
		if err != nil {
			return nil, fmt.Errorf("inforce row %d: %w", row, err)
		}
		pols, err := strconv.ParseFloat(strings.TrimSpace(r[6]), 64)
		if err != nil {
			return nil, fmt.Errorf("inforce row %d: bad initial_pols %q", row, r[6])
		}
		premium, err := strconv.ParseFloat(strings.TrimSpace(r[7]), 64)
		if err != nil {
			return nil, fmt.Errorf("inforce row %d: bad initial_premium %q", row, r[7])
		}
		bb, err := strconv.ParseFloat(strings.TrimSpace(r[8]), 64)
		if err != nil {
			return nil, fmt.Errorf("inforce row %d: bad initial_benefit_base %q", row, r[8])
		}

		p := Policy{
			PolicyID:           id,
			QualStatus:         qual,
			IssueAge:           age,
			Gender:             gender,
			CreditingStrategy:  strat,
			BBBucket:           strings.TrimSpace(r[5]),
			InitialPols:        pols,
			InitialPremium:     premium,
			InitialBenefitBase: bb,
			SCPeriod:           def.SCPeriodMonths,
			Bonus:              def.BBBonus,
			RollupType:         def.RollupType,
			GLWBStartYear:      def.GLWBStartYear,
		}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("inforce row %d: %w", row, err)
		}
		policies = append(policies, p)
	}
	return policies, nil
}

func parseQual(s string) (QualStatus, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "Q", "QUALIFIED":
		return Qualified, nil
	case "NQ", "NONQUALIFIED", "NON-QUALIFIED":
		return NonQualified, nil
	}
	return "", fmt.Errorf("bad qual_status %q", s)
}

func parseGender(s string) (string, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "M", "MALE":
		return "M", nil
	case "F", "FEMALE":
		return "F", nil
	}
	return "", fmt.Errorf("bad gender %q", s)
}

func parseStrategy(s string) (CreditingStrategy, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "FIXED":
		return Fixed, nil
	case "INDEXED":
		return Indexed, nil
	}
	return "", fmt.Errorf("bad crediting_strategy %q", s)
}
