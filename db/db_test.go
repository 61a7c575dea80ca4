// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/lib/pq"

	"github.com/Rohith723/nss-election-app/cliparse"
	"github.com/Rohith723/nss-election-app/db"
	"github.com/Rohith723/nss-election-app/testutil"
)

func TestCreateSchemaIsIdempotent(t *testing.T) {
	conn := testutil.SetupTestDB(t)

	for i := 0; i < 2; i++ {
		if err := db.CreateSchema(conn, cliparse.DatabaseSQLite); err != nil {
			t.Fatalf("CreateSchema() call %d: %v", i+1, err)
		}
	}

	for _, table := range []string{"admin", "volunteer", "candidate", "tally", "vote"} {
		if n := testutil.CountRows(t, conn, table); n != 0 {
			t.Errorf("expected empty %s table, got %d rows", table, n)
		}
	}
}

func TestCreateSchemaUnknownDialect(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	if err := db.CreateSchema(conn, "mysql"); err == nil {
		t.Error("expected error for unknown dialect")
	}
}

func TestVoteKeyIsUnique(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	testutil.CreateTestVolunteer(t, conn, "21cs001", "Asha")
	c1 := testutil.CreateTestCandidate(t, conn, "Meera", "Secretary")
	c2 := testutil.CreateTestCandidate(t, conn, "Kiran", "Secretary")

	testutil.CreateTestVote(t, conn, "21cs001", c1, "Secretary")

	_, err := conn.Exec(`
		INSERT INTO vote (student_id, position, candidate_id, receipt, cast_at)
		VALUES ($1, $2, $3, $4, $5)
	`, "21cs001", "Secretary", c2, "another-receipt", time.Now())
	if err == nil {
		t.Fatal("expected second vote for the same position to fail")
	}
	if !db.IsUniqueViolation(err) {
		t.Errorf("expected unique violation, got %v", err)
	}
	if db.IsForeignKeyViolation(err) {
		t.Error("unique violation misclassified as foreign key violation")
	}
}

func TestVolunteerKeyIsUnique(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	testutil.CreateTestVolunteer(t, conn, "21cs001", "Asha")

	_, err := conn.Exec(`
		INSERT INTO volunteer (student_id, name, created_at) VALUES ($1, $2, $3)
	`, "21cs001", "Someone Else", time.Now())
	if !db.IsUniqueViolation(err) {
		t.Errorf("expected unique violation, got %v", err)
	}
}

func TestVolunteerDeleteCascadesVotes(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	testutil.CreateTestVolunteer(t, conn, "21cs001", "Asha")
	c1 := testutil.CreateTestCandidate(t, conn, "Meera", "Secretary")
	testutil.CreateTestVote(t, conn, "21cs001", c1, "Secretary")

	if _, err := conn.Exec(`DELETE FROM volunteer WHERE student_id = $1`, "21cs001"); err != nil {
		t.Fatal(err)
	}
	if n := testutil.CountRows(t, conn, "vote"); n != 0 {
		t.Errorf("expected votes to cascade, %d remain", n)
	}
}

func TestCandidateDeleteRestrictedByVotes(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	testutil.CreateTestVolunteer(t, conn, "21cs001", "Asha")
	c1 := testutil.CreateTestCandidate(t, conn, "Meera", "Secretary")
	testutil.CreateTestVote(t, conn, "21cs001", c1, "Secretary")

	_, err := conn.Exec(`DELETE FROM candidate WHERE id = $1`, c1)
	if !db.IsForeignKeyViolation(err) {
		t.Errorf("expected foreign key violation, got %v", err)
	}
}

func TestTallyCannotGoNegative(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	c1 := testutil.CreateTestCandidate(t, conn, "Meera", "Secretary")

	_, err := conn.Exec(`UPDATE tally SET votes = votes - 1 WHERE candidate_id = $1`, c1)
	if err == nil {
		t.Error("expected CHECK constraint to reject negative tally")
	}
}

func TestErrorClassifiersNil(t *testing.T) {
	if db.IsUniqueViolation(nil) || db.IsForeignKeyViolation(nil) {
		t.Error("nil error must not classify as a violation")
	}
	if db.IsUniqueViolation(errors.New("connection refused")) {
		t.Error("unrelated error classified as unique violation")
	}
}

func TestIsRetryable(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"timeout", fmt.Errorf("commit vote: %w", context.DeadlineExceeded), true},
		{"locked", errors.New("database is locked (5) (SQLITE_BUSY)"), true},
		{"serialization", &pq.Error{Code: "40001"}, true},
		{"unique", &pq.Error{Code: "23505"}, false},
		{"canceled", context.Canceled, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := db.IsRetryable(tc.err); got != tc.want {
				t.Errorf("IsRetryable(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestSQLiteDSN(t *testing.T) {
	tests := []struct {
		in         string
		wantPrefix string
	}{
		{"nss_election.db", "file:nss_election.db?"},
		{"file:nss_election.db", "file:nss_election.db?"},
		{"file:nss.db?cache=shared", "file:nss.db?cache=shared&"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := db.SQLiteDSN(tt.in)
			if !strings.HasPrefix(got, tt.wantPrefix) {
				t.Errorf("SQLiteDSN(%q) = %q, want prefix %q", tt.in, got, tt.wantPrefix)
			}
			if !strings.Contains(got, "foreign_keys(1)") {
				t.Errorf("SQLiteDSN(%q) missing foreign_keys pragma", tt.in)
			}
		})
	}
}
