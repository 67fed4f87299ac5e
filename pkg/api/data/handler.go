// Package data exposes dataset management endpoints: reload the CSV
// sources and inspect what the active ledger contains.
package data

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"cfocopilot/pkg/core/dataset"
)

// Handler holds dependencies for data endpoints.
type Handler struct {
	loader *dataset.Loader
	log    zerolog.Logger
}

// NewHandler creates a new data handler.
func NewHandler(loader *dataset.Loader, log zerolog.Logger) *Handler {
	return &Handler{loader: loader, log: log}
}

// StatusResponse describes the active ledger.
type StatusResponse struct {
	Loaded      bool   `json:"loaded"`
	Fingerprint string `json:"fingerprint,omitempty"`
	ActualsRows int    `json:"actuals_rows"`
	BudgetRows  int    `json:"budget_rows"`
	CashMonths  int    `json:"cash_months"`
	LatestMonth string `json:"latest_month,omitempty"`
}

// HandleStatus reports whether a ledger is loaded and its shape.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	resp := StatusResponse{}
	if l := h.loader.Current(); l != nil {
		resp.Loaded = true
		resp.Fingerprint = h.loader.Fingerprint()
		resp.ActualsRows = len(l.Actuals)
		resp.BudgetRows = len(l.Budget)
		resp.CashMonths = len(l.Cash)
		if m := l.LatestActualsMonth(); !m.IsZero() {
			resp.LatestMonth = m.String()
		}
	}
	json.NewEncoder(w).Encode(resp)
}

// HandleReload rebuilds the ledger from the source files. A failed rebuild
// leaves the previous ledger serving and reports the build error.
func (h *Handler) HandleReload(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")

	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != "POST" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if _, err := h.loader.Load(); err != nil {
		h.log.Error().Err(err).Msg("reload failed")
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}

	h.log.Info().Str("fingerprint", h.loader.Fingerprint()).Msg("dataset reloaded")
	json.NewEncoder(w).Encode(map[string]string{
		"status":      "ok",
		"fingerprint": h.loader.Fingerprint(),
	})
}
