// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package roster

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/Rohith723/nss-election-app/db"
	"github.com/Rohith723/nss-election-app/events"
	"github.com/Rohith723/nss-election-app/models"
)

const candidateColumns = `
	c.id, c.name, c.year, c.branch, c.phone, c.position1, c.position2,
	c.photo IS NOT NULL, c.photo_type, c.created_at,
	COALESCE((SELECT SUM(t.votes) FROM tally t WHERE t.candidate_id = c.id), 0)
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCandidate(row rowScanner) (models.Candidate, error) {
	var c models.Candidate
	err := row.Scan(&c.ID, &c.Name, &c.Year, &c.Branch, &c.Phone, &c.Position1, &c.Position2,
		&c.HasPhoto, &c.PhotoType, &c.CreatedAt, &c.Votes)
	return c, err
}

// AddCandidate stores the candidate and one zeroed tally row per position
// in a single transaction. photo may be nil.
func (s *Service) AddCandidate(ctx context.Context, req models.AddCandidateRequest, photo *models.Photo) (models.Candidate, error) {
	if err := req.Validate(); err != nil {
		return models.Candidate{}, err
	}

	c := models.Candidate{
		Name:      req.Name,
		Year:      req.Year,
		Branch:    req.Branch,
		Phone:     req.Phone,
		Position1: req.Position1,
		Position2: req.Position2,
		CreatedAt: time.Now().UTC(),
	}

	// NULL rather than an empty blob when there is no photo
	var (
		photoData any
		photoType string
	)
	if photo != nil && len(photo.Data) > 0 {
		photoData = photo.Data
		photoType = photo.ContentType
		c.HasPhoto = true
		c.PhotoType = photoType
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Candidate{}, storageErr("begin transaction", err)
	}
	defer tx.Rollback()

	// Reuse the stored spelling of a position another candidate already holds
	if c.Position1, err = canonicalPosition(ctx, tx, c.Position1); err != nil {
		return models.Candidate{}, err
	}
	if c.Position2 != "" {
		if c.Position2, err = canonicalPosition(ctx, tx, c.Position2); err != nil {
			return models.Candidate{}, err
		}
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO candidate (name, year, branch, phone, position1, position2, photo, photo_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`, c.Name, c.Year, c.Branch, c.Phone, c.Position1, c.Position2, photoData, photoType, c.CreatedAt).Scan(&c.ID)
	if err != nil {
		return models.Candidate{}, storageErr("insert candidate", err)
	}

	for i, position := range c.Positions() {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO tally (candidate_id, position, slot, votes)
			VALUES ($1, $2, $3, 0)
		`, c.ID, position, i+1)
		if err != nil {
			return models.Candidate{}, storageErr("insert tally", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return models.Candidate{}, storageErr("commit candidate", err)
	}

	slog.Info("candidate added", "candidate_id", c.ID, "name", c.Name, "positions", c.Positions())

	events.PublishLogged(ctx, s.publisher, events.Event{
		Type:    events.TypeCandidateAdded,
		Subject: strconv.FormatInt(c.ID, 10),
		Attributes: map[string]string{
			"name":      c.Name,
			"position1": c.Position1,
			"position2": c.Position2,
		},
		At: c.CreatedAt,
	})

	return c, nil
}

// canonicalPosition returns the existing label matching position without
// regard to case, or position itself when no candidate stands for it yet
func canonicalPosition(ctx context.Context, tx *sql.Tx, position string) (string, error) {
	var stored string
	err := tx.QueryRowContext(ctx, `
		SELECT position FROM tally
		WHERE lower(position) = lower($1)
		ORDER BY candidate_id, slot
		LIMIT 1
	`, position).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return position, nil
	}
	if err != nil {
		return "", storageErr("query position", err)
	}
	return stored, nil
}

// ListCandidates returns every candidate in insertion order
func (s *Service) ListCandidates(ctx context.Context) ([]models.Candidate, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `SELECT `+candidateColumns+` FROM candidate c ORDER BY c.id`)
	if err != nil {
		return nil, storageErr("query candidates", err)
	}
	defer rows.Close()

	candidates := []models.Candidate{}
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, storageErr("scan candidate", err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate candidates", err)
	}
	return candidates, nil
}

func (s *Service) GetCandidate(ctx context.Context, id int64) (models.Candidate, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	c, err := scanCandidate(s.db.QueryRowContext(ctx,
		`SELECT `+candidateColumns+` FROM candidate c WHERE c.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Candidate{}, models.ErrNotFound
	}
	if err != nil {
		return models.Candidate{}, storageErr("query candidate", err)
	}
	return c, nil
}

// CandidatePhoto returns the stored photo, or models.ErrNotFound when the
// candidate does not exist or has none
func (s *Service) CandidatePhoto(ctx context.Context, id int64) (models.Photo, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var p models.Photo
	err := s.db.QueryRowContext(ctx, `
		SELECT photo, photo_type FROM candidate WHERE id = $1
	`, id).Scan(&p.Data, &p.ContentType)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Photo{}, models.ErrNotFound
	}
	if err != nil {
		return models.Photo{}, storageErr("query photo", err)
	}
	if len(p.Data) == 0 {
		return models.Photo{}, models.ErrNotFound
	}
	return p, nil
}

// GroupCandidates groups candidates by position. A candidate standing for
// two positions appears under both. Positions keep first-appearance order.
func GroupCandidates(candidates []models.Candidate) []models.PositionCandidates {
	groups := []models.PositionCandidates{}
	index := map[string]int{}
	for _, c := range candidates {
		for _, p := range c.Positions() {
			i, ok := index[p]
			if !ok {
				i = len(groups)
				index[p] = i
				groups = append(groups, models.PositionCandidates{Position: p})
			}
			groups[i].Candidates = append(groups[i].Candidates, c)
		}
	}
	return groups
}

// RemoveCandidate deletes a candidate without votes. Candidates with
// recorded votes are kept and models.ErrCandidateHasVotes is returned.
func (s *Service) RemoveCandidate(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("begin transaction", err)
	}
	defer tx.Rollback()

	var votes int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM vote WHERE candidate_id = $1
	`, id).Scan(&votes)
	if err != nil {
		return storageErr("count votes", err)
	}
	if votes > 0 {
		return models.ErrCandidateHasVotes
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM candidate WHERE id = $1", id)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return models.ErrCandidateHasVotes
		}
		return storageErr("delete candidate", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr("delete candidate", err)
	}
	if n == 0 {
		return models.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		if db.IsForeignKeyViolation(err) {
			return models.ErrCandidateHasVotes
		}
		return storageErr("commit candidate removal", err)
	}

	slog.Info("candidate removed", "candidate_id", id)

	events.PublishLogged(ctx, s.publisher, events.Event{
		Type:    events.TypeCandidateRemoved,
		Subject: strconv.FormatInt(id, 10),
		At:      time.Now().UTC(),
	})
	return nil
}
