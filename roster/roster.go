// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package roster

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Rohith723/nss-election-app/auth"
	"github.com/Rohith723/nss-election-app/db"
	"github.com/Rohith723/nss-election-app/events"
	"github.com/Rohith723/nss-election-app/models"
)

type Service struct {
	db        *sql.DB
	timeout   time.Duration
	publisher events.Publisher
}

func NewService(db *sql.DB, timeout time.Duration, publisher events.Publisher) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Service{db: db, timeout: timeout, publisher: publisher}
}

// AddVolunteer registers a volunteer under the normalized student id.
// An existing row is never modified; the call fails with
// models.ErrDuplicateIdentifier instead.
func (s *Service) AddVolunteer(ctx context.Context, req models.AddVolunteerRequest) (models.Volunteer, error) {
	if err := req.Validate(); err != nil {
		return models.Volunteer{}, err
	}

	v := models.Volunteer{
		StudentID: auth.NormalizeStudentID(req.StudentID),
		Name:      req.Name,
		Year:      req.Year,
		Branch:    req.Branch,
		Phone:     req.Phone,
		CreatedAt: time.Now().UTC(),
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO volunteer (student_id, name, year, branch, phone, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, v.StudentID, v.Name, v.Year, v.Branch, v.Phone, v.CreatedAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return models.Volunteer{}, models.ErrDuplicateIdentifier
		}
		return models.Volunteer{}, storageErr("insert volunteer", err)
	}

	slog.Info("volunteer added", "student_id", v.StudentID)
	return v, nil
}

// ImportVolunteers adds each row independently. Invalid rows and
// duplicates are reported in the summary; only storage failures abort.
func (s *Service) ImportVolunteers(ctx context.Context, reqs []models.AddVolunteerRequest) (models.ImportSummary, error) {
	summary := models.ImportSummary{Duplicates: []string{}, Invalid: []string{}}

	for i, req := range reqs {
		_, err := s.AddVolunteer(ctx, req)
		var ve *models.ValidationError
		switch {
		case err == nil:
			summary.Created++
		case errors.Is(err, models.ErrDuplicateIdentifier):
			summary.Duplicates = append(summary.Duplicates, auth.NormalizeStudentID(req.StudentID))
		case errors.As(err, &ve):
			summary.Invalid = append(summary.Invalid, fmt.Sprintf("row %d: %s", i+1, ve.Error()))
		default:
			return summary, err
		}
	}

	slog.Info("volunteers imported",
		"created", summary.Created,
		"duplicates", len(summary.Duplicates),
		"invalid", len(summary.Invalid),
	)
	return summary, nil
}

// ListVolunteers returns all volunteers ordered by student id
func (s *Service) ListVolunteers(ctx context.Context) ([]models.Volunteer, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT v.student_id, v.name, v.year, v.branch, v.phone, v.created_at,
		       (SELECT COUNT(*) FROM vote WHERE vote.student_id = v.student_id)
		FROM volunteer v
		ORDER BY v.student_id
	`)
	if err != nil {
		return nil, storageErr("query volunteers", err)
	}
	defer rows.Close()

	volunteers := []models.Volunteer{}
	for rows.Next() {
		var v models.Volunteer
		if err := rows.Scan(&v.StudentID, &v.Name, &v.Year, &v.Branch, &v.Phone, &v.CreatedAt, &v.VotedCount); err != nil {
			return nil, storageErr("scan volunteer", err)
		}
		volunteers = append(volunteers, v)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate volunteers", err)
	}
	return volunteers, nil
}

// RemoveVolunteer deletes the volunteer and, by cascade, their votes.
// Tallies keep the removed votes; Recount reconciles them.
func (s *Service) RemoveVolunteer(ctx context.Context, studentID string) (int, error) {
	studentID = auth.NormalizeStudentID(studentID)
	if studentID == "" {
		return 0, models.ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, storageErr("begin transaction", err)
	}
	defer tx.Rollback()

	var removed int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM vote WHERE student_id = $1
	`, studentID).Scan(&removed)
	if err != nil {
		return 0, storageErr("count votes", err)
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM volunteer WHERE student_id = $1", studentID)
	if err != nil {
		return 0, storageErr("delete volunteer", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, storageErr("delete volunteer", err)
	}
	if n == 0 {
		return 0, models.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return 0, storageErr("commit volunteer removal", err)
	}

	if removed > 0 {
		slog.Warn("volunteer removed with recorded votes; tallies unchanged until recount",
			"student_id", studentID, "removed_votes", removed)
	} else {
		slog.Info("volunteer removed", "student_id", studentID)
	}

	events.PublishLogged(ctx, s.publisher, events.Event{
		Type:       events.TypeVolunteerRemoved,
		Subject:    studentID,
		Attributes: map[string]string{"removed_votes": fmt.Sprint(removed)},
		At:         time.Now().UTC(),
	})

	return removed, nil
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", models.ErrStorage, op, err)
}
