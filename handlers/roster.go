// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/gorilla/schema"

	"github.com/Rohith723/nss-election-app/auth"
	"github.com/Rohith723/nss-election-app/cliparse"
	"github.com/Rohith723/nss-election-app/events"
	"github.com/Rohith723/nss-election-app/middleware"
	"github.com/Rohith723/nss-election-app/models"
	"github.com/Rohith723/nss-election-app/roster"
)

const (
	maxImportBytes    = 1 << 20
	maxCandidateBytes = roster.MaxPhotoBytes + 64<<10
)

var formDecoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}()

type RosterHandler struct {
	roster *roster.Service
}

func NewRosterHandler(db *sql.DB, cfg cliparse.Config, publisher events.Publisher) *RosterHandler {
	return &RosterHandler{roster: roster.NewService(db, cfg.TxTimeout, publisher)}
}

// ListVolunteers handles GET /admin/volunteers
func (h *RosterHandler) ListVolunteers(w http.ResponseWriter, r *http.Request) {
	volunteers, err := h.roster.ListVolunteers(r.Context())
	if err != nil {
		writeError(w, err, "list volunteers")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, volunteers)
}

// AddVolunteer handles POST /admin/volunteers
func (h *RosterHandler) AddVolunteer(w http.ResponseWriter, r *http.Request) {
	var req models.AddVolunteerRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	volunteer, err := h.roster.AddVolunteer(r.Context(), req)
	if err != nil {
		writeError(w, err, "add volunteer")
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, volunteer)
}

// ImportVolunteers handles POST /admin/volunteers/import. The CSV is
// either the raw body (text/csv) or a multipart "file" field.
func (h *RosterHandler) ImportVolunteers(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)

	var src io.Reader = r.Body
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		file, _, err := r.FormFile("file")
		if err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "file is required")
			return
		}
		defer file.Close()
		src = file
	}

	reqs, err := roster.ParseVolunteersCSV(src)
	if err != nil {
		var ve *models.ValidationError
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &ve):
			middleware.ErrorResponse(w, http.StatusBadRequest, ve.Error())
		case errors.As(err, &tooLarge):
			middleware.ErrorResponse(w, http.StatusRequestEntityTooLarge, "import file too large")
		default:
			middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid CSV")
		}
		return
	}

	summary, err := h.roster.ImportVolunteers(r.Context(), reqs)
	if err != nil {
		writeError(w, err, "import volunteers")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, summary)
}

// RemoveVolunteer handles DELETE /admin/volunteers/{id}
func (h *RosterHandler) RemoveVolunteer(w http.ResponseWriter, r *http.Request) {
	studentID := r.PathValue("id")
	if studentID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "student_id is required")
		return
	}

	removed, err := h.roster.RemoveVolunteer(r.Context(), studentID)
	if err != nil {
		writeError(w, err, "remove volunteer")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.RemoveVolunteerResponse{
		StudentID:    auth.NormalizeStudentID(studentID),
		RemovedVotes: removed,
	})
}

// AddCandidate handles POST /admin/candidates. Fields arrive as form
// values with an optional "photo" file.
func (h *RosterHandler) AddCandidate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxCandidateBytes)

	if err := r.ParseMultipartForm(maxCandidateBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			middleware.ErrorResponse(w, http.StatusRequestEntityTooLarge, "photo too large")
			return
		}
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid form")
		return
	}

	var req models.AddCandidateRequest
	if err := formDecoder.Decode(&req, r.PostForm); err != nil {
		slog.Info("candidate form rejected", "error", err)
		middleware.ErrorResponse(w, http.StatusBadRequest, "name and position1 are required")
		return
	}

	var photo *models.Photo
	file, _, err := r.FormFile("photo")
	switch {
	case err == nil:
		defer file.Close()
		photo, err = roster.ReadPhoto(file)
		if errors.Is(err, roster.ErrPhotoTooLarge) {
			middleware.ErrorResponse(w, http.StatusRequestEntityTooLarge, err.Error())
			return
		}
		if err != nil {
			writeError(w, err, "read photo")
			return
		}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid photo upload")
		return
	}

	candidate, err := h.roster.AddCandidate(r.Context(), req, photo)
	if err != nil {
		writeError(w, err, "add candidate")
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, candidate)
}

// RemoveCandidate handles DELETE /admin/candidates/{id}
func (h *RosterHandler) RemoveCandidate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid candidate id")
		return
	}

	if err := h.roster.RemoveCandidate(r.Context(), id); err != nil {
		writeError(w, err, "remove candidate")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
