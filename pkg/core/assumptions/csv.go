package assumptions

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// LoadDir overlays CSV assumption tables from dir onto the defaults. Files
// are optional; a missing file keeps the built-in table, a malformed file is
// a fatal load error. Recognized files:
//
//	mortality.csv  age,male_qx,female_qx
//	lapse_itm.csv  itm,mult
//	surrender.csv  policy_year,rate
//	glwb_payout.csv  age,factor
func LoadDir(dir string) (*Tables, error) {
	t := Default()
	if dir == "" {
		return t, nil
	}

	if rows, err := readCSV(filepath.Join(dir, "mortality.csv")); err != nil {
		return nil, err
	} else if rows != nil {
		if err := applyMortality(t.Mortality, rows); err != nil {
			return nil, err
		}
	}

	if rows, err := readCSV(filepath.Join(dir, "lapse_itm.csv")); err != nil {
		return nil, err
	} else if rows != nil {
		curve := make([]ITMPoint, 0, len(rows))
		for i, r := range rows {
			itm, mult, err := twoFloats(r, "lapse_itm.csv", i)
			if err != nil {
				return nil, err
			}
			curve = append(curve, ITMPoint{ITM: itm, Mult: mult})
		}
		if len(curve) > 0 {
			t.Lapse.ITMCurve = curve
		}
	}

	if rows, err := readCSV(filepath.Join(dir, "surrender.csv")); err != nil {
		return nil, err
	} else if rows != nil {
		rates := make([]float64, 0, len(rows))
		for i, r := range rows {
			yr, rate, err := twoFloats(r, "surrender.csv", i)
			if err != nil {
				return nil, err
			}
			if int(yr) != len(rates)+1 {
				return nil, fmt.Errorf("surrender.csv row %d: policy years must be contiguous from 1", i+1)
			}
			rates = append(rates, rate)
		}
		if len(rates) > 0 {
			t.Surrender.RateByPolicyYear = rates
		}
	}

	if rows, err := readCSV(filepath.Join(dir, "glwb_payout.csv")); err != nil {
		return nil, err
	} else if rows != nil {
		if err := applyPayout(t.GLWB, rows); err != nil {
			return nil, err
		}
	}

	return t, nil
}

func applyMortality(m *MortalityTable, rows [][]string) error {
	byAge := map[int][2]float64{}
	minAge, maxAge := 0, 0
	for i, r := range rows {
		if len(r) < 3 {
			return fmt.Errorf("mortality.csv row %d: want age,male_qx,female_qx", i+1)
		}
		age, err := strconv.Atoi(r[0])
		if err != nil {
			return fmt.Errorf("mortality.csv row %d: bad age %q", i+1, r[0])
		}
		qm, err := strconv.ParseFloat(r[1], 64)
		if err != nil {
			return fmt.Errorf("mortality.csv row %d: bad male_qx %q", i+1, r[1])
		}
		qf, err := strconv.ParseFloat(r[2], 64)
		if err != nil {
			return fmt.Errorf("mortality.csv row %d: bad female_qx %q", i+1, r[2])
		}
		if len(byAge) == 0 || age < minAge {
			minAge = age
		}
		if age > maxAge {
			maxAge = age
		}
		byAge[age] = [2]float64{qm, qf}
	}
	if len(byAge) == 0 {
		return nil
	}
	male := make([]float64, maxAge-minAge+1)
	fem := make([]float64, maxAge-minAge+1)
	for age := minAge; age <= maxAge; age++ {
		q, ok := byAge[age]
		if !ok {
			return fmt.Errorf("mortality.csv: missing age %d (table must be contiguous)", age)
		}
		male[age-minAge] = q[0]
		fem[age-minAge] = q[1]
	}
	m.MinAge = minAge
	m.MaxAge = maxAge
	m.QxMale = male
	m.QxFem = fem
	return nil
}

func applyPayout(g *GLWBTable, rows [][]string) error {
	byAge := map[int]float64{}
	minAge, maxAge := 0, 0
	for i, r := range rows {
		age, f, err := twoFloats(r, "glwb_payout.csv", i)
		if err != nil {
			return err
		}
		a := int(age)
		if len(byAge) == 0 || a < minAge {
			minAge = a
		}
		if a > maxAge {
			maxAge = a
		}
		byAge[a] = f
	}
	if len(byAge) == 0 {
		return nil
	}
	factors := make([]float64, maxAge-minAge+1)
	for age := minAge; age <= maxAge; age++ {
		f, ok := byAge[age]
		if !ok {
			return fmt.Errorf("glwb_payout.csv: missing age %d (table must be contiguous)", age)
		}
		factors[age-minAge] = f
	}
	g.PayoutMinAge = minAge
	g.PayoutMaxAge = maxAge
	g.PayoutFactors = factors
	return nil
}

// readCSV returns the data rows of a CSV file (header skipped), or nil if
// the file does not exist.
func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(records) <= 1 {
		return [][]string{}, nil
	}
	return records[1:], nil
}

func twoFloats(r []string, file string, row int) (float64, float64, error) {
	if len(r) < 2 {
		return 0, 0, fmt.Errorf("%s row %d: want two columns", file, row+1)
	}
	a, err := strconv.ParseFloat(r[0], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%s row %d: bad value %q", file, row+1, r[0])
	}
	b, err := strconv.ParseFloat(r[1], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%s row %d: bad value %q", file, row+1, r[1])
	}
	return a, b, nil
}
