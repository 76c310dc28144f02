package cof

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fia_cof/pkg/core/assumptions"
	core "fia_cof/pkg/core/cof"
	"fia_cof/pkg/core/inforce"
	"fia_cof/pkg/core/store"
)

func testHandler(t *testing.T) *Handler {
	t.Helper()
	policies := []inforce.Policy{{
		PolicyID:           1,
		QualStatus:         inforce.NonQualified,
		IssueAge:           65,
		Gender:             "M",
		CreditingStrategy:  inforce.Fixed,
		InitialPols:        10,
		InitialPremium:     1_000_000,
		InitialBenefitBase: 1_300_000,
		SCPeriod:           120,
		Bonus:              0.30,
		RollupType:         inforce.SimpleRollup,
		GLWBStartYear:      11,
	}}
	runs := store.NewRunStore(nil, t.TempDir())
	return NewHandler(policies, assumptions.Default(), runs)
}

func TestHandleRun(t *testing.T) {
	h := testHandler(t)

	body := `{"projection_months": 24, "deterministic": true}`
	req := httptest.NewRequest("POST", "/api/cof/run", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.HandleRun(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp core.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Decode response: %v", err)
	}
	if resp.PolicyCount != 1 || len(resp.Cashflows) != 24 {
		t.Errorf("Response shape wrong: %d policies, %d rows", resp.PolicyCount, len(resp.Cashflows))
	}

	// The completed run is retrievable from the store.
	get := httptest.NewRequest("GET", "/api/cof/runs/"+resp.RunID, nil)
	w2 := httptest.NewRecorder()
	h.HandleGetRun(w2, get)
	if w2.Code != http.StatusOK {
		t.Fatalf("Expected stored run, got %d: %s", w2.Code, w2.Body.String())
	}
}

func TestHandleRunBadRequest(t *testing.T) {
	h := testHandler(t)

	req := httptest.NewRequest("POST", "/api/cof/run", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	h.HandleRun(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for malformed request, got %d", w.Code)
	}

	req = httptest.NewRequest("GET", "/api/cof/run", nil)
	w = httptest.NewRecorder()
	h.HandleRun(w, req)
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405 for GET, got %d", w.Code)
	}
}

func TestHandleGetRunNotFound(t *testing.T) {
	h := testHandler(t)

	req := httptest.NewRequest("GET", "/api/cof/runs/does-not-exist", nil)
	w := httptest.NewRecorder()
	h.HandleGetRun(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}
}
