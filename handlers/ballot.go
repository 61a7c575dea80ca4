// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/Rohith723/nss-election-app/auth"
	"github.com/Rohith723/nss-election-app/ballot"
	"github.com/Rohith723/nss-election-app/cliparse"
	"github.com/Rohith723/nss-election-app/events"
	"github.com/Rohith723/nss-election-app/middleware"
	"github.com/Rohith723/nss-election-app/models"
	"github.com/Rohith723/nss-election-app/roster"
)

type BallotHandler struct {
	db     *sql.DB
	engine *ballot.Engine
	roster *roster.Service
}

func NewBallotHandler(db *sql.DB, cfg cliparse.Config, publisher events.Publisher) *BallotHandler {
	return &BallotHandler{
		db:     db,
		engine: ballot.NewEngine(db, cfg.TxTimeout, publisher),
		roster: roster.NewService(db, cfg.TxTimeout, publisher),
	}
}

// ListCandidates handles GET /candidates
func (h *BallotHandler) ListCandidates(w http.ResponseWriter, r *http.Request) {
	candidates, err := h.roster.ListCandidates(r.Context())
	if err != nil {
		writeError(w, err, "list candidates")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, roster.GroupCandidates(candidates))
}

// CandidatePhoto handles GET /candidates/{id}/photo
func (h *BallotHandler) CandidatePhoto(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid candidate id")
		return
	}

	photo, err := h.roster.CandidatePhoto(r.Context(), id)
	if err != nil {
		writeError(w, err, "load photo")
		return
	}

	w.Header().Set("Content-Type", photo.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(photo.Data)))
	w.Header().Set("Cache-Control", "private, max-age=300")
	w.WriteHeader(http.StatusOK)
	w.Write(photo.Data)
}

// GetBallot handles GET /ballot
func (h *BallotHandler) GetBallot(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Valid session required")
		return
	}

	// The volunteer may have been removed since the session was issued
	volunteer, err := auth.ResolveVolunteer(r.Context(), h.db, claims.Subject)
	if err != nil {
		writeError(w, err, "load ballot")
		return
	}

	votes, open, err := h.engine.Status(r.Context(), volunteer.StudentID)
	if err != nil {
		writeError(w, err, "load ballot")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.BallotResponse{
		StudentID:      volunteer.StudentID,
		Name:           volunteer.Name,
		Votes:          votes,
		OpenPositions:  open,
		HasVotedForAll: len(open) == 0,
	})
}

// CastVote handles POST /ballot/votes
func (h *BallotHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Valid session required")
		return
	}

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, err, "cast vote")
		return
	}

	vote, err := h.engine.CastVote(r.Context(), claims.Subject, req.CandidateID, req.Position)
	if err != nil {
		writeError(w, err, "cast vote")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.CastVoteResponse{
		Receipt: vote.Receipt,
		Message: "Vote recorded for " + vote.Position,
	})
}
