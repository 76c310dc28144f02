package cof

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"fia_cof/pkg/core/assumptions"
	core "fia_cof/pkg/core/cof"
	"fia_cof/pkg/core/config"
	"fia_cof/pkg/core/inforce"
	"fia_cof/pkg/core/store"
)

// Handler serves the computation endpoints over a preloaded inforce block
// and assumption set. Both are read-only after construction.
type Handler struct {
	policies []inforce.Policy
	tables   *assumptions.Tables
	runs     *store.RunStore
}

func NewHandler(policies []inforce.Policy, tables *assumptions.Tables, runs *store.RunStore) *Handler {
	return &Handler{policies: policies, tables: tables, runs: runs}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Error: message})
}

func cors(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

// HandleRun executes a cost-of-funds computation.
// POST /api/cof/run
func (h *Handler) HandleRun(w http.ResponseWriter, r *http.Request) {
	cors(w)
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != "POST" {
		writeError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req config.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Sprintf("malformed request: %v", err), http.StatusBadRequest)
		return
	}

	fmt.Printf("[COF] Run request: %d policies, %d months\n", len(h.policies), req.ProjectionMonths)
	resp, err := core.Run(&req, h.policies, h.tables)
	if err != nil {
		// Fatal computation error: 5xx with the first error's message.
		writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if h.runs != nil {
		rec := &store.RunRecord{
			RunID:            resp.RunID,
			Request:          &req,
			CostOfFundsPct:   resp.CostOfFundsPct,
			CedingCommission: resp.CedingCommission,
			PolicyCount:      resp.PolicyCount,
			ProjectionMonths: resp.ProjectionMonths,
			TotalNetCashflow: resp.Summary.TotalNetCashflows,
			ExecutionTimeMs:  resp.ExecutionTimeMs,
			CompletedAt:      time.Now().UTC(),
		}
		if err := h.runs.Save(context.Background(), rec); err != nil {
			fmt.Printf("[WARNING] Failed to persist run %s: %v\n", resp.RunID, err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// HandleGetRun returns a stored run summary.
// GET /api/cof/runs/{id}
func (h *Handler) HandleGetRun(w http.ResponseWriter, r *http.Request) {
	cors(w)
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != "GET" {
		writeError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/cof/runs/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, "missing run id", http.StatusBadRequest)
		return
	}

	rec, err := h.runs.Get(r.Context(), id)
	if err != nil {
		writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if rec == nil {
		writeError(w, fmt.Sprintf("run not found: %s", id), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rec)
}

// HandleHealth reports readiness and block size.
// GET /api/cof/health
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	cors(w)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":       "ok",
		"policy_count": len(h.policies),
	})
}
