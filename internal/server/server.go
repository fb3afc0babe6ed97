// Package server exposes the comparison pipeline over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"consortium-compare/internal/config"
	"consortium-compare/internal/indexdata"
	"consortium-compare/internal/simulation"
	"consortium-compare/pkg/amortization"
	"consortium-compare/pkg/cashflow"
	"consortium-compare/pkg/consortium"
	"consortium-compare/pkg/constants"
	"consortium-compare/pkg/gapinvest"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type handler struct {
	logger         *zap.Logger
	provider       indexdata.Provider
	maxRequestSize int64
	version        string
}

// NewHandler constructs the HTTP handler serving the comparison API. The
// index provider is consulted for index-driven adjustment requests; it may
// be nil when only fixed adjustment is used.
func NewHandler(logger *zap.Logger, provider indexdata.Provider, maxRequestSize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxRequestSize <= 0 {
		maxRequestSize = constants.DefaultMaxRequestSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, provider: provider, maxRequestSize: maxRequestSize, version: trimmedVersion}

	mux := http.NewServeMux()

	// Comparison API endpoint
	mux.HandleFunc("/api/compare", h.handleCompare)

	// Example configuration for clients bootstrapping a scenario
	mux.HandleFunc("/api/config/example", h.handleExampleConfig)

	// Version endpoint for client metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	return cors.Default().Handler(mux)
}

type errorResponse struct {
	Error string `json:"error"`
}

type versionResponse struct {
	Version string `json:"version"`
}

func (h *handler) handleCompare(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	started := time.Now()

	var sim config.SimulationConfig
	body := http.MaxBytesReader(w, r.Body, h.maxRequestSize)
	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&sim); err != nil {
		h.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	conf := config.Default()
	conf.Simulation = sim
	if err := conf.Validate(); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := simulation.Compare(r.Context(), h.logger, conf.Simulation, h.provider)
	if err != nil {
		h.writeError(w, statusForError(err), err.Error())
		return
	}

	h.logger.Info("served comparison",
		zap.String("op", "server.handleCompare"),
		zap.String("convention", sim.Loan.Convention),
		zap.Duration("duration", time.Since(started)),
	)
	h.writeJSON(w, http.StatusOK, result)
}

func (h *handler) handleExampleConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	example := config.Default()
	serialized, err := yaml.Marshal(example)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "failed to serialize example configuration")
		return
	}

	w.Header().Set("Content-Type", "application/x-yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(serialized)
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	h.writeJSON(w, http.StatusOK, versionResponse{Version: h.version})
}

// statusForError maps the error taxonomy onto HTTP statuses: parameter
// problems are client errors, an unreachable index upstream is a bad
// gateway. An IRR that does not exist never surfaces here; it is encoded in
// the result itself.
func statusForError(err error) int {
	switch {
	case errors.Is(err, amortization.ErrInvalidParameter),
		errors.Is(err, consortium.ErrInvalidParameter),
		errors.Is(err, consortium.ErrInsufficientIndexData),
		errors.Is(err, gapinvest.ErrInvalidParameter):
		return http.StatusBadRequest
	case errors.Is(err, indexdata.ErrUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, cashflow.ErrIRRNotFound):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to encode response",
			zap.String("op", "server.writeJSON"),
			zap.Error(err),
		)
	}
}

func (h *handler) writeError(w http.ResponseWriter, status int, msg string) {
	if status >= http.StatusInternalServerError {
		h.logger.Error(msg, zap.String("op", "server"))
	}
	h.writeJSON(w, status, errorResponse{Error: msg})
}
