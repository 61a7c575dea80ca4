// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Rohith723/nss-election-app/auth"
	"github.com/Rohith723/nss-election-app/db"
	"github.com/Rohith723/nss-election-app/events"
	"github.com/Rohith723/nss-election-app/models"
)

type Engine struct {
	db        *sql.DB
	timeout   time.Duration
	publisher events.Publisher
}

func NewEngine(db *sql.DB, timeout time.Duration, publisher events.Publisher) *Engine {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Engine{db: db, timeout: timeout, publisher: publisher}
}

// CastVote records one vote for (studentID, position) and increments the
// candidate's tally for that position, both in one transaction.
//
// It returns models.ErrNotFound for an unknown volunteer,
// models.ErrInvalidCandidate when the candidate does not exist or is not
// standing for the position, and models.ErrAlreadyVoted when a vote for the
// position exists. Nothing is written in those cases.
func (e *Engine) CastVote(ctx context.Context, studentID string, candidateID int64, position string) (models.CastVote, error) {
	studentID = auth.NormalizeStudentID(studentID)
	position = strings.TrimSpace(position)
	if studentID == "" {
		return models.CastVote{}, models.ErrNotFound
	}
	if position == "" || candidateID <= 0 {
		return models.CastVote{}, models.ErrInvalidCandidate
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return models.CastVote{}, storageErr("begin transaction", err)
	}
	defer tx.Rollback()

	// Volunteer must exist
	var exists bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM volunteer WHERE student_id = $1)
	`, studentID).Scan(&exists)
	if err != nil {
		return models.CastVote{}, storageErr("query volunteer", err)
	}
	if !exists {
		return models.CastVote{}, models.ErrNotFound
	}

	// Candidate must be standing for the position. Labels match without
	// regard to case and the stored spelling keys the vote.
	err = tx.QueryRowContext(ctx, `
		SELECT position FROM tally
		WHERE candidate_id = $1 AND lower(position) = lower($2)
	`, candidateID, position).Scan(&position)
	if errors.Is(err, sql.ErrNoRows) {
		return models.CastVote{}, models.ErrInvalidCandidate
	}
	if err != nil {
		return models.CastVote{}, storageErr("query tally", err)
	}

	// Fast path for repeat submissions; the primary key still decides races
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM vote WHERE student_id = $1 AND position = $2)
	`, studentID, position).Scan(&exists)
	if err != nil {
		return models.CastVote{}, storageErr("query vote", err)
	}
	if exists {
		return models.CastVote{}, models.ErrAlreadyVoted
	}

	vote := models.CastVote{
		StudentID:   studentID,
		Position:    position,
		CandidateID: candidateID,
		Receipt:     uuid.NewString(),
		CastAt:      time.Now().UTC(),
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO vote (student_id, position, candidate_id, receipt, cast_at)
		VALUES ($1, $2, $3, $4, $5)
	`, vote.StudentID, vote.Position, vote.CandidateID, vote.Receipt, vote.CastAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return models.CastVote{}, models.ErrAlreadyVoted
		}
		return models.CastVote{}, storageErr("insert vote", err)
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE tally SET votes = votes + 1
		WHERE candidate_id = $1 AND position = $2
	`, candidateID, position)
	if err != nil {
		return models.CastVote{}, storageErr("increment tally", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return models.CastVote{}, storageErr("increment tally", err)
	}
	if n != 1 {
		return models.CastVote{}, storageErr("increment tally", fmt.Errorf("expected 1 tally row, got %d", n))
	}

	if err := tx.Commit(); err != nil {
		if db.IsUniqueViolation(err) {
			return models.CastVote{}, models.ErrAlreadyVoted
		}
		return models.CastVote{}, storageErr("commit vote", err)
	}

	slog.Info("vote recorded",
		"student_id", vote.StudentID,
		"position", vote.Position,
		"candidate_id", vote.CandidateID,
		"receipt", vote.Receipt,
	)

	events.PublishLogged(ctx, e.publisher, events.Event{
		Type:    events.TypeVoteCast,
		Subject: vote.StudentID,
		Attributes: map[string]string{
			"position":     vote.Position,
			"candidate_id": strconv.FormatInt(vote.CandidateID, 10),
			"receipt":      vote.Receipt,
		},
		At: vote.CastAt,
	})

	return vote, nil
}

// VotedPositions returns the volunteer's recorded votes, ordered by position
func (e *Engine) VotedPositions(ctx context.Context, studentID string) ([]models.CastVote, error) {
	studentID = auth.NormalizeStudentID(studentID)

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	rows, err := e.db.QueryContext(ctx, `
		SELECT student_id, position, candidate_id, receipt, cast_at
		FROM vote
		WHERE student_id = $1
		ORDER BY position
	`, studentID)
	if err != nil {
		return nil, storageErr("query votes", err)
	}
	defer rows.Close()

	votes := []models.CastVote{}
	for rows.Next() {
		var v models.CastVote
		if err := rows.Scan(&v.StudentID, &v.Position, &v.CandidateID, &v.Receipt, &v.CastAt); err != nil {
			return nil, storageErr("scan vote", err)
		}
		votes = append(votes, v)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate votes", err)
	}
	return votes, nil
}

// Positions returns every position with at least one candidate, ordered by
// first appearance (lowest candidate id, then slot)
func (e *Engine) Positions(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	rows, err := e.db.QueryContext(ctx, `
		SELECT position, MIN(candidate_id * 2 + slot) AS first_seen
		FROM tally
		GROUP BY position
		ORDER BY first_seen
	`)
	if err != nil {
		return nil, storageErr("query positions", err)
	}
	defer rows.Close()

	positions := []string{}
	for rows.Next() {
		var (
			p     string
			first int64
		)
		if err := rows.Scan(&p, &first); err != nil {
			return nil, storageErr("scan position", err)
		}
		positions = append(positions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate positions", err)
	}
	return positions, nil
}

// Status combines the volunteer's votes with the positions still open to them
func (e *Engine) Status(ctx context.Context, studentID string) ([]models.CastVote, []string, error) {
	votes, err := e.VotedPositions(ctx, studentID)
	if err != nil {
		return nil, nil, err
	}
	positions, err := e.Positions(ctx)
	if err != nil {
		return nil, nil, err
	}

	voted := make(map[string]bool, len(votes))
	for _, v := range votes {
		voted[v.Position] = true
	}
	open := []string{}
	for _, p := range positions {
		if !voted[p] {
			open = append(open, p)
		}
	}
	return votes, open, nil
}

func storageErr(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s: timed out: %w", models.ErrStorage, op, err)
	}
	return fmt.Errorf("%w: %s: %w", models.ErrStorage, op, err)
}
