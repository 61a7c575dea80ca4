// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Rohith723/nss-election-app/models"
	"github.com/Rohith723/nss-election-app/testutil"
)

func readCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV: %v", err)
	}
	return records
}

func TestWriteCSV(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	seedElection(t, conn)
	r := NewReporter(conn, 5*time.Second)

	tests := []struct {
		table  string
		header string
		rows   int
	}{
		{models.TableVolunteers, "student_id", 4},
		{models.TableCandidates, "id", 3},
		{models.TableResults, "position", 4},
	}

	for _, tt := range tests {
		t.Run(tt.table, func(t *testing.T) {
			var buf bytes.Buffer
			if err := r.WriteCSV(context.Background(), tt.table, &buf); err != nil {
				t.Fatalf("WriteCSV() error = %v", err)
			}
			records := readCSV(t, buf.Bytes())
			if len(records) != tt.rows+1 {
				t.Errorf("expected %d rows plus header, got %d", tt.rows, len(records)-1)
			}
			if records[0][0] != tt.header {
				t.Errorf("header starts with %q, want %q", records[0][0], tt.header)
			}
		})
	}
}

func TestWriteResultsCSVGrouped(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	seedElection(t, conn)

	var buf bytes.Buffer
	if err := NewReporter(conn, time.Second).WriteResultsCSV(context.Background(), &buf); err != nil {
		t.Fatal(err)
	}
	records := readCSV(t, buf.Bytes())

	// Secretary rows stay together ahead of Treasurer
	positions := []string{}
	for _, rec := range records[1:] {
		positions = append(positions, rec[0])
	}
	want := []string{"Secretary", "Secretary", "Secretary", "Treasurer"}
	for i := range want {
		if positions[i] != want[i] {
			t.Fatalf("positions = %v, want %v", positions, want)
		}
	}
	if records[3][1] != "2" || records[3][3] != "Ravi" {
		t.Errorf("unexpected third-place row %v", records[3])
	}
}

func TestWriteVolunteersCSVVotedCount(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	seedElection(t, conn)

	var buf bytes.Buffer
	if err := NewReporter(conn, time.Second).WriteVolunteersCSV(context.Background(), &buf); err != nil {
		t.Fatal(err)
	}
	records := readCSV(t, buf.Bytes())
	// a1 voted for Secretary and Treasurer
	if records[1][0] != "a1" || records[1][6] != "2" {
		t.Errorf("unexpected row %v", records[1])
	}
}

func TestWriteCSVUnknownTable(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	err := NewReporter(conn, time.Second).WriteCSV(context.Background(), "admin", &bytes.Buffer{})
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestExportAll(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	seedElection(t, conn)
	dir := filepath.Join(t.TempDir(), "out")

	paths, err := NewReporter(conn, 5*time.Second).ExportAll(context.Background(), dir)
	if err != nil {
		t.Fatalf("ExportAll() error = %v", err)
	}
	if len(paths) != len(Tables) {
		t.Fatalf("expected %d files, got %v", len(Tables), paths)
	}
	for i, table := range Tables {
		if filepath.Base(paths[i]) != table+".csv" {
			t.Errorf("paths[%d] = %q", i, paths[i])
		}
		data, err := os.ReadFile(paths[i])
		if err != nil {
			t.Fatal(err)
		}
		if len(readCSV(t, data)) < 2 {
			t.Errorf("%s has no data rows", table)
		}
	}

	// Export is read-only
	if n := testutil.CountRows(t, conn, "vote"); n != 5 {
		t.Errorf("vote rows changed to %d", n)
	}
}
