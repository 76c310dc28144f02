package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"fia_cof/pkg/core/assumptions"
	"fia_cof/pkg/core/cof"
	"fia_cof/pkg/core/config"
	"fia_cof/pkg/core/inforce"
	"fia_cof/pkg/core/report"
	"fia_cof/pkg/core/utils"
)

func main() {
	jsonOut := flag.Bool("json", false, "Emit the full response object as JSON on stdout")
	scenarioPath := flag.String("scenario", "", "Scenario file (JSON or HJSON request)")
	dataDir := flag.String("data", "data", "Directory with inforce.csv and assumption CSVs")
	configPath := flag.String("config", "config/product.yaml", "Product configuration yaml")
	reportPath := flag.String("report", "", "Write an HTML run report to this path")
	flag.Parse()

	godotenv.Load()

	req := &config.Request{}
	if *scenarioPath != "" {
		data, err := os.ReadFile(*scenarioPath)
		if err != nil {
			fatal("read scenario: %v", err)
		}
		if err := utils.DecodeScenario(*scenarioPath, data, req); err != nil {
			fatal("%v", err)
		}
	}

	tables, err := assumptions.LoadDir(*dataDir)
	if err != nil {
		fatal("load assumptions: %v", err)
	}
	productCfg, err := config.LoadProduct(*configPath)
	if err != nil {
		fatal("load product config: %v", err)
	}
	productCfg.Apply(tables)

	policies, err := inforce.LoadCSV(*dataDir+"/inforce.csv", productCfg.InforceDefaults(tables))
	if err != nil {
		fatal("load inforce: %v", err)
	}

	resp, err := cof.Run(req, policies, tables)
	if err != nil {
		fatal("computation failed: %v", err)
	}

	if *reportPath != "" {
		html, err := report.HTML(resp)
		if err != nil {
			fatal("%v", err)
		}
		if err := os.WriteFile(*reportPath, []byte(html), 0644); err != nil {
			fatal("write report: %v", err)
		}
		fmt.Fprintf(os.Stderr, "[REPORT] Wrote %s\n", *reportPath)
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		if err := enc.Encode(resp); err != nil {
			fatal("encode response: %v", err)
		}
		return
	}

	// Human-readable summary.
	fmt.Print(report.Markdown(resp))
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
