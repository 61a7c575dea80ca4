// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Rohith723/nss-election-app/db"
	"github.com/Rohith723/nss-election-app/middleware"
	"github.com/Rohith723/nss-election-app/models"
)

// writeError maps a domain error to its HTTP status. Anything unrecognised
// is logged and reported as a generic failure to action.
func writeError(w http.ResponseWriter, err error, action string) {
	var ve *models.ValidationError
	switch {
	case errors.As(err, &ve):
		middleware.ErrorResponse(w, http.StatusBadRequest, ve.Error())
	case errors.Is(err, models.ErrDuplicateIdentifier):
		middleware.ErrorResponse(w, http.StatusConflict, "Student ID already registered")
	case errors.Is(err, models.ErrAlreadyVoted):
		middleware.ErrorResponse(w, http.StatusConflict, "Already voted for this position")
	case errors.Is(err, models.ErrCandidateHasVotes):
		middleware.ErrorResponse(w, http.StatusConflict, "Candidate has recorded votes")
	case errors.Is(err, models.ErrInvalidCandidate):
		middleware.ErrorResponse(w, http.StatusBadRequest, "Candidate is not standing for this position")
	case errors.Is(err, models.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Not found")
	case errors.Is(err, models.ErrInvalidCredentials):
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, models.ErrStorage) && db.IsRetryable(err):
		slog.Warn("store busy", "action", action, "error", err)
		w.Header().Set("Retry-After", "1")
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Store busy, try again")
	default:
		slog.Error("failed to "+action, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to "+action)
	}
}

// pathID parses a positive integer path value
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
