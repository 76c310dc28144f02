package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	apicof "fia_cof/pkg/api/cof"
	"fia_cof/pkg/core/assumptions"
	"fia_cof/pkg/core/config"
	"fia_cof/pkg/core/inforce"
	"fia_cof/pkg/core/store"
)

func main() {
	// Load environment variables
	godotenv.Load()

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}
	configPath := os.Getenv("PRODUCT_CONFIG")
	if configPath == "" {
		configPath = "config/product.yaml"
	}

	// Assumption tables: built-in defaults overlaid with CSVs from DATA_DIR
	// and the yaml product config.
	tables, err := assumptions.LoadDir(dataDir)
	if err != nil {
		fmt.Printf("[FATAL] Failed to load assumption tables: %v\n", err)
		os.Exit(1)
	}
	productCfg, err := config.LoadProduct(configPath)
	if err != nil {
		fmt.Printf("[FATAL] Failed to load product config: %v\n", err)
		os.Exit(1)
	}
	productCfg.Apply(tables)

	// Inforce block, read once at startup and shared read-only.
	inforcePath := dataDir + "/inforce.csv"
	policies, err := inforce.LoadCSV(inforcePath, productCfg.InforceDefaults(tables))
	if err != nil {
		fmt.Printf("[FATAL] Failed to load inforce: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("[INFORCE] Loaded %d policies from %s\n", len(policies), inforcePath)

	// Run store: DB when DATABASE_URL is set, file cache otherwise.
	ctx := context.Background()
	if err := store.InitDB(ctx); err != nil {
		fmt.Printf("[STORE] No database (%v), using file store\n", err)
	}
	runs := store.NewRunStore(store.GetPool(), "")

	handler := apicof.NewHandler(policies, tables, runs)
	http.HandleFunc("/api/cof/run", handler.HandleRun)
	http.HandleFunc("/api/cof/runs/", handler.HandleGetRun)
	http.HandleFunc("/api/cof/health", handler.HandleHealth)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	fmt.Printf("API server starting on :%s...\n", port)
	fmt.Println("  - POST /api/cof/run")
	fmt.Println("  - GET  /api/cof/runs/{id}")
	fmt.Println("  - GET  /api/cof/health")

	if err := http.ListenAndServe(":"+port, nil); err != nil {
		fmt.Printf("[FATAL] Server failed: %v\n", err)
		os.Exit(1)
	}
}
