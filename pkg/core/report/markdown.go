package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"

	"fia_cof/pkg/core/cof"
)

// Markdown builds the human-readable run summary.
func Markdown(resp *cof.Response) string {
	var b strings.Builder

	b.WriteString("# Cost of Funds Run\n\n")
	fmt.Fprintf(&b, "Run `%s`: %d policies, %d months, %d ms\n\n",
		resp.RunID, resp.PolicyCount, resp.ProjectionMonths, resp.ExecutionTimeMs)

	b.WriteString("## Results\n\n")
	if resp.CostOfFundsPct != nil {
		fmt.Fprintf(&b, "- **Cost of funds**: %.4f%%\n", *resp.CostOfFundsPct)
	} else {
		b.WriteString("- **Cost of funds**: did not converge\n")
	}
	if cc := resp.CedingCommission; cc != nil {
		fmt.Fprintf(&b, "- **Ceding commission NPV**: %.2f at %.2f%% (BBB %.2f%% + spread %.2f%%)\n",
			cc.NPV, cc.TotalRatePct, cc.BBBRatePct, cc.SpreadPct)
	}

	s := resp.Summary
	b.WriteString("\n## Block\n\n")
	b.WriteString("| metric | value |\n|---|---|\n")
	fmt.Fprintf(&b, "| total premium | %.2f |\n", s.TotalPremium)
	fmt.Fprintf(&b, "| total initial AV | %.2f |\n", s.TotalInitialAV)
	fmt.Fprintf(&b, "| total initial BB | %.2f |\n", s.TotalInitialBB)
	fmt.Fprintf(&b, "| total initial lives | %.4f |\n", s.TotalInitialLives)
	fmt.Fprintf(&b, "| total net cashflows | %.2f |\n", s.TotalNetCashflows)
	fmt.Fprintf(&b, "| month 1 cashflow | %.2f |\n", s.Month1Cashflow)
	fmt.Fprintf(&b, "| final lives | %.6f |\n", s.FinalLives)
	fmt.Fprintf(&b, "| final AV | %.2f |\n", s.FinalAV)

	return b.String()
}

// HTML renders the markdown summary into a standalone HTML document.
func HTML(resp *cof.Response) (string, error) {
	var body bytes.Buffer
	if err := goldmark.Convert([]byte(Markdown(resp)), &body); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return "<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>Cost of Funds Run</title></head><body>\n" +
		body.String() + "\n</body></html>\n", nil
}
