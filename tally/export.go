// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/Rohith723/nss-election-app/models"
)

// Tables lists the exportable tables in the order ExportAll writes them
var Tables = []string{models.TableVolunteers, models.TableCandidates, models.TableResults}

// WriteCSV writes the named table to w
func (r *Reporter) WriteCSV(ctx context.Context, table string, w io.Writer) error {
	switch table {
	case models.TableVolunteers:
		return r.WriteVolunteersCSV(ctx, w)
	case models.TableCandidates:
		return r.WriteCandidatesCSV(ctx, w)
	case models.TableResults:
		return r.WriteResultsCSV(ctx, w)
	default:
		return fmt.Errorf("%w: table %q", models.ErrNotFound, table)
	}
}

func (r *Reporter) WriteVolunteersCSV(ctx context.Context, w io.Writer) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT v.student_id, v.name, v.year, v.branch, v.phone, v.created_at,
		       (SELECT COUNT(*) FROM vote WHERE vote.student_id = v.student_id)
		FROM volunteer v
		ORDER BY v.student_id
	`)
	if err != nil {
		return storageErr("query volunteers", err)
	}
	defer rows.Close()

	cw := csv.NewWriter(w)
	cw.Write([]string{"student_id", "name", "year", "branch", "phone", "created_at", "voted_positions"})
	for rows.Next() {
		var v models.Volunteer
		if err := rows.Scan(&v.StudentID, &v.Name, &v.Year, &v.Branch, &v.Phone, &v.CreatedAt, &v.VotedCount); err != nil {
			return storageErr("scan volunteer", err)
		}
		cw.Write([]string{
			v.StudentID, v.Name, v.Year, v.Branch, v.Phone,
			v.CreatedAt.UTC().Format(time.RFC3339),
			strconv.Itoa(v.VotedCount),
		})
	}
	if err := rows.Err(); err != nil {
		return storageErr("iterate volunteers", err)
	}
	return flush(cw)
}

func (r *Reporter) WriteCandidatesCSV(ctx context.Context, w io.Writer) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.year, c.branch, c.phone, c.position1, c.position2,
		       c.photo IS NOT NULL, c.created_at,
		       COALESCE((SELECT SUM(t.votes) FROM tally t WHERE t.candidate_id = c.id), 0)
		FROM candidate c
		ORDER BY c.id
	`)
	if err != nil {
		return storageErr("query candidates", err)
	}
	defer rows.Close()

	cw := csv.NewWriter(w)
	cw.Write([]string{"id", "name", "year", "branch", "phone", "position1", "position2", "has_photo", "created_at", "votes"})
	for rows.Next() {
		var c models.Candidate
		err := rows.Scan(&c.ID, &c.Name, &c.Year, &c.Branch, &c.Phone, &c.Position1, &c.Position2,
			&c.HasPhoto, &c.CreatedAt, &c.Votes)
		if err != nil {
			return storageErr("scan candidate", err)
		}
		cw.Write([]string{
			strconv.FormatInt(c.ID, 10), c.Name, c.Year, c.Branch, c.Phone, c.Position1, c.Position2,
			strconv.FormatBool(c.HasPhoto),
			c.CreatedAt.UTC().Format(time.RFC3339),
			strconv.Itoa(c.Votes),
		})
	}
	if err := rows.Err(); err != nil {
		return storageErr("iterate candidates", err)
	}
	return flush(cw)
}

func (r *Reporter) WriteResultsCSV(ctx context.Context, w io.Writer) error {
	results, err := r.ResultsByPosition(ctx)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	cw.Write([]string{"position", "rank", "candidate_id", "candidate_name", "votes"})
	for _, g := range GroupByPosition(results) {
		for _, res := range g.Results {
			cw.Write([]string{
				res.Position,
				strconv.Itoa(res.Rank),
				strconv.FormatInt(res.CandidateID, 10),
				res.CandidateName,
				strconv.Itoa(res.Votes),
			})
		}
	}
	return flush(cw)
}

// ExportAll writes <table>.csv for every table into dir and returns the
// paths written
func (r *Reporter) ExportAll(ctx context.Context, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}

	paths := make([]string, 0, len(Tables))
	for _, table := range Tables {
		path := filepath.Join(dir, table+".csv")
		if err := r.exportFile(ctx, table, path); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}

	slog.Info("export written", "dir", dir, "files", len(paths))
	return paths, nil
}

func (r *Reporter) exportFile(ctx context.Context, table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := r.WriteCSV(ctx, table, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func flush(cw *csv.Writer) error {
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}
