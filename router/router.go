// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/Rohith723/nss-election-app/auth"
	"github.com/Rohith723/nss-election-app/cliparse"
	"github.com/Rohith723/nss-election-app/events"
	"github.com/Rohith723/nss-election-app/handlers"
	"github.com/Rohith723/nss-election-app/middleware"
	"github.com/Rohith723/nss-election-app/models"
)

func NewRouter(db *sql.DB, cfg cliparse.Config, publisher events.Publisher) *http.ServeMux {
	mux := http.NewServeMux()
	sessions := auth.NewSessions(cfg.SessionSecret, cfg.SessionTTL)

	// Initialize handlers
	sessionHandler := handlers.NewSessionHandler(db, cfg)
	ballotHandler := handlers.NewBallotHandler(db, cfg, publisher)
	rosterHandler := handlers.NewRosterHandler(db, cfg, publisher)
	resultsHandler := handlers.NewResultsHandler(db, cfg)

	volunteer := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireRole(sessions, h, models.RoleVolunteer))
	}
	anyVoter := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireRole(sessions, h, models.RoleVolunteer, models.RoleAdmin))
	}
	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireRole(sessions, h, models.RoleAdmin))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Sessions (public)
	mux.HandleFunc("POST /sessions/volunteer", middleware.WithLogging(sessionHandler.VolunteerLogin))
	mux.HandleFunc("POST /sessions/admin", middleware.WithLogging(sessionHandler.AdminLogin))
	mux.HandleFunc("POST /admin/password", middleware.WithLogging(
		middleware.RequireRole(sessions, sessionHandler.RotatePassword, models.RoleAdmin, models.RoleAdminRotate)))

	// Ballot
	mux.HandleFunc("GET /candidates", anyVoter(ballotHandler.ListCandidates))
	mux.HandleFunc("GET /candidates/{id}/photo", anyVoter(ballotHandler.CandidatePhoto))
	mux.HandleFunc("GET /ballot", volunteer(ballotHandler.GetBallot))
	mux.HandleFunc("POST /ballot/votes", volunteer(ballotHandler.CastVote))

	// Roster administration
	mux.HandleFunc("GET /admin/volunteers", admin(rosterHandler.ListVolunteers))
	mux.HandleFunc("POST /admin/volunteers", admin(rosterHandler.AddVolunteer))
	mux.HandleFunc("POST /admin/volunteers/import", admin(rosterHandler.ImportVolunteers))
	mux.HandleFunc("DELETE /admin/volunteers/{id}", admin(rosterHandler.RemoveVolunteer))
	mux.HandleFunc("POST /admin/candidates", admin(rosterHandler.AddCandidate))
	mux.HandleFunc("DELETE /admin/candidates/{id}", admin(rosterHandler.RemoveCandidate))

	// Results and export
	mux.HandleFunc("GET /admin/results", admin(resultsHandler.GetResults))
	mux.HandleFunc("POST /admin/results/recount", admin(resultsHandler.Recount))
	mux.HandleFunc("GET /admin/export/{table}", admin(resultsHandler.Export))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("nss-election API v1"))
	})

	return mux
}
