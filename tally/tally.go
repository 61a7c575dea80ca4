// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/Rohith723/nss-election-app/models"
)

type Reporter struct {
	db      *sql.DB
	timeout time.Duration
}

func NewReporter(db *sql.DB, timeout time.Duration) *Reporter {
	return &Reporter{db: db, timeout: timeout}
}

// ResultsByPosition returns one row per (candidate, position) sorted by
// votes descending. Ties keep insertion order: candidate id, then slot.
// Rank is dense within each position.
func (r *Reporter) ResultsByPosition(ctx context.Context) ([]models.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT t.candidate_id, c.name, t.position, t.votes
		FROM tally t
		JOIN candidate c ON c.id = t.candidate_id
		ORDER BY t.votes DESC, t.candidate_id ASC, t.slot ASC
	`)
	if err != nil {
		return nil, storageErr("query results", err)
	}
	defer rows.Close()

	results := []models.Result{}
	for rows.Next() {
		var res models.Result
		if err := rows.Scan(&res.CandidateID, &res.CandidateName, &res.Position, &res.Votes); err != nil {
			return nil, storageErr("scan result", err)
		}
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate results", err)
	}

	assignRanks(results)
	return results, nil
}

// assignRanks sets dense ranks per position; results must already be
// sorted by votes descending
func assignRanks(results []models.Result) {
	type state struct {
		rank  int
		votes int
	}
	seen := map[string]*state{}
	for i := range results {
		s, ok := seen[results[i].Position]
		switch {
		case !ok:
			s = &state{rank: 1, votes: results[i].Votes}
			seen[results[i].Position] = s
		case results[i].Votes < s.votes:
			s.rank++
			s.votes = results[i].Votes
		}
		results[i].Rank = s.rank
	}
}

// GroupByPosition groups results by position, preserving their order.
// Positions appear in order of first occurrence.
func GroupByPosition(results []models.Result) []models.PositionResults {
	groups := []models.PositionResults{}
	index := map[string]int{}
	for _, res := range results {
		i, ok := index[res.Position]
		if !ok {
			i = len(groups)
			index[res.Position] = i
			groups = append(groups, models.PositionResults{Position: res.Position})
		}
		groups[i].Results = append(groups[i].Results, res)
	}
	return groups
}

// Recount recomputes every tally row from the vote table and returns the
// rows it corrected
func (r *Reporter) Recount(ctx context.Context) ([]models.Drift, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, storageErr("begin transaction", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, `
		SELECT t.candidate_id, t.position, t.votes,
		       (SELECT COUNT(*) FROM vote v
		        WHERE v.candidate_id = t.candidate_id AND v.position = t.position)
		FROM tally t
		ORDER BY t.candidate_id, t.slot
	`)
	if err != nil {
		return nil, storageErr("query tallies", err)
	}

	drift := []models.Drift{}
	for rows.Next() {
		var d models.Drift
		if err := rows.Scan(&d.CandidateID, &d.Position, &d.Stored, &d.Counted); err != nil {
			rows.Close()
			return nil, storageErr("scan tally", err)
		}
		if d.Stored != d.Counted {
			drift = append(drift, d)
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, storageErr("iterate tallies", err)
	}
	rows.Close()

	for _, d := range drift {
		_, err := tx.ExecContext(ctx, `
			UPDATE tally SET votes = $1 WHERE candidate_id = $2 AND position = $3
		`, d.Counted, d.CandidateID, d.Position)
		if err != nil {
			return nil, storageErr("update tally", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, storageErr("commit recount", err)
	}

	slog.Info("tallies recounted", "corrected", len(drift))
	return drift, nil
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", models.ErrStorage, op, err)
}
