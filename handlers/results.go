// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"database/sql"
	"net/http"
	"slices"
	"strconv"

	"github.com/Rohith723/nss-election-app/cliparse"
	"github.com/Rohith723/nss-election-app/middleware"
	"github.com/Rohith723/nss-election-app/models"
	"github.com/Rohith723/nss-election-app/tally"
)

type ResultsHandler struct {
	reporter *tally.Reporter
}

func NewResultsHandler(db *sql.DB, cfg cliparse.Config) *ResultsHandler {
	return &ResultsHandler{reporter: tally.NewReporter(db, cfg.TxTimeout)}
}

// GetResults handles GET /admin/results
// Returns tallies grouped by position, highest first
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	results, err := h.reporter.ResultsByPosition(r.Context())
	if err != nil {
		writeError(w, err, "load results")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, tally.GroupByPosition(results))
}

// Recount handles POST /admin/results/recount
func (h *ResultsHandler) Recount(w http.ResponseWriter, r *http.Request) {
	drift, err := h.reporter.Recount(r.Context())
	if err != nil {
		writeError(w, err, "recount")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.RecountResponse{Corrected: drift})
}

// Export handles GET /admin/export/{table}
func (h *ResultsHandler) Export(w http.ResponseWriter, r *http.Request) {
	table := r.PathValue("table")
	if !slices.Contains(tally.Tables, table) {
		middleware.ErrorResponse(w, http.StatusNotFound, "unknown table "+strconv.Quote(table))
		return
	}

	// Buffered so a failed query still gets an error status
	var buf bytes.Buffer
	if err := h.reporter.WriteCSV(r.Context(), table, &buf); err != nil {
		writeError(w, err, "export "+table)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+table+`.csv"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
