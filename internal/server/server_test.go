package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"consortium-compare/internal/config"
	"consortium-compare/internal/indexdata"
	"consortium-compare/internal/simulation"
	"go.uber.org/zap"
)

func testHandler(provider indexdata.Provider) http.Handler {
	return NewHandler(zap.NewNop(), provider, 0, "test")
}

func compareBody(t *testing.T, sim config.SimulationConfig) *bytes.Buffer {
	t.Helper()
	body, err := json.Marshal(sim)
	if err != nil {
		t.Fatalf("failed to marshal request: %v", err)
	}
	return bytes.NewBuffer(body)
}

func TestHandleCompare(t *testing.T) {
	handler := testHandler(nil)
	sim := config.Default().Simulation

	req := httptest.NewRequest(http.MethodPost, "/api/compare", compareBody(t, sim))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, expected 200; body: %s", rec.Code, rec.Body.String())
	}

	var result simulation.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(result.Loan.Payments) != sim.Loan.TermMonths {
		t.Errorf("loan payments length = %d, expected %d", len(result.Loan.Payments), sim.Loan.TermMonths)
	}
	if len(result.Consortium.Payments) != sim.Consortium.TermMonths {
		t.Errorf("consortium payments length = %d, expected %d", len(result.Consortium.Payments), sim.Consortium.TermMonths)
	}
	if result.Loan.Analytics.IRRAnnual == nil {
		t.Errorf("loan annual IRR missing from response")
	}
}

func TestHandleCompareIndexDriven(t *testing.T) {
	factors := make([]float64, 12)
	for i := range factors {
		factors[i] = 1.004
	}
	handler := testHandler(indexdata.StaticProvider(factors))

	sim := config.Default().Simulation
	sim.Consortium.Adjustment = config.AdjustmentIndex

	req := httptest.NewRequest(http.MethodPost, "/api/compare", compareBody(t, sim))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, expected 200; body: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleCompareErrors(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		body           string
		expectedStatus int
	}{
		{
			name:           "Wrong method",
			method:         http.MethodGet,
			body:           "",
			expectedStatus: http.StatusMethodNotAllowed,
		},
		{
			name:           "Malformed JSON",
			method:         http.MethodPost,
			body:           "{not json",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Unknown field",
			method:         http.MethodPost,
			body:           `{"Bogus": 1}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Invalid parameters",
			method:         http.MethodPost,
			body:           `{"TotalValue": 500000, "Loan": {"TermMonths": 0, "Convention": "price"}, "Consortium": {"TermMonths": 180, "Adjustment": "fixed"}}`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	handler := testHandler(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/compare", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Errorf("status = %d, expected %d; body: %s", rec.Code, tt.expectedStatus, rec.Body.String())
			}

			var envelope struct {
				Error string `json:"error"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
				t.Fatalf("error response is not the JSON envelope: %v", err)
			}
			if envelope.Error == "" {
				t.Errorf("error envelope is empty")
			}
		})
	}
}

func TestHandleCompareIndexUnavailable(t *testing.T) {
	handler := testHandler(nil)

	sim := config.Default().Simulation
	sim.Consortium.Adjustment = config.AdjustmentIndex

	req := httptest.NewRequest(http.MethodPost, "/api/compare", compareBody(t, sim))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, expected 502 when the index provider is unavailable", rec.Code)
	}
}

func TestHandleVersion(t *testing.T) {
	handler := testHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, expected 200", rec.Code)
	}

	var payload struct {
		Version string `json:"version"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode version response: %v", err)
	}
	if payload.Version != "test" {
		t.Errorf("version = %q, expected test", payload.Version)
	}
}

func TestHandleExampleConfig(t *testing.T) {
	handler := testHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/config/example", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, expected 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "simulation") {
		t.Errorf("example config does not mention the simulation section")
	}

	post := httptest.NewRequest(http.MethodPost, "/api/config/example", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, post)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, expected 405 for POST", rec.Code)
	}
}
