// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/Rohith723/nss-election-app/auth"
	"github.com/Rohith723/nss-election-app/cliparse"
	"github.com/Rohith723/nss-election-app/middleware"
	"github.com/Rohith723/nss-election-app/models"
)

type SessionHandler struct {
	db       *sql.DB
	cfg      cliparse.Config
	sessions auth.Sessions
}

func NewSessionHandler(db *sql.DB, cfg cliparse.Config) *SessionHandler {
	return &SessionHandler{
		db:       db,
		cfg:      cfg,
		sessions: auth.NewSessions(cfg.SessionSecret, cfg.SessionTTL),
	}
}

// VolunteerLogin handles POST /sessions/volunteer
func (h *SessionHandler) VolunteerLogin(w http.ResponseWriter, r *http.Request) {
	var req models.VolunteerLoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	volunteer, err := auth.ResolveVolunteer(r.Context(), h.db, req.StudentID)
	if err != nil {
		writeError(w, err, "sign in")
		return
	}

	token, expiresAt, err := h.sessions.IssueVolunteer(volunteer)
	if err != nil {
		slog.Error("failed to issue volunteer session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to sign in")
		return
	}

	slog.Info("volunteer signed in", "student_id", volunteer.StudentID)

	middleware.JSONResponse(w, http.StatusOK, models.SessionResponse{
		Token:     token,
		Role:      models.RoleVolunteer,
		ExpiresAt: expiresAt,
		Volunteer: &volunteer,
	})
}

// AdminLogin handles POST /sessions/admin
func (h *SessionHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req models.AdminLoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Username == "" || req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "username and password are required")
		return
	}

	admin, err := auth.AuthenticateAdmin(r.Context(), h.db, req.Username, req.Password)
	if err != nil {
		slog.Info("admin sign-in rejected", "username", req.Username)
		writeError(w, err, "sign in")
		return
	}

	token, role, expiresAt, err := h.sessions.IssueAdmin(admin)
	if err != nil {
		slog.Error("failed to issue admin session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to sign in")
		return
	}

	slog.Info("admin signed in", "username", admin.Username, "must_rotate", admin.MustRotate)

	middleware.JSONResponse(w, http.StatusOK, models.SessionResponse{
		Token:      token,
		Role:       role,
		ExpiresAt:  expiresAt,
		MustRotate: admin.MustRotate,
	})
}

// RotatePassword handles POST /admin/password and returns a full admin
// session on success
func (h *SessionHandler) RotatePassword(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Valid session required")
		return
	}

	var req models.RotatePasswordRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	err := auth.RotateAdminPassword(r.Context(), h.db, claims.Subject, req.CurrentPassword, req.NewPassword)
	if err != nil {
		writeError(w, err, "rotate password")
		return
	}

	token, role, expiresAt, err := h.sessions.IssueAdmin(models.Admin{Username: claims.Subject})
	if err != nil {
		slog.Error("failed to issue admin session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to rotate password")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.SessionResponse{
		Token:     token,
		Role:      role,
		ExpiresAt: expiresAt,
	})
}
