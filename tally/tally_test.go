// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/Rohith723/nss-election-app/models"
	"github.com/Rohith723/nss-election-app/testutil"
)

// seedElection builds three candidates over two positions:
//
//	Secretary: Meera 2, Kiran 2, Ravi 0
//	Treasurer: Meera 1
func seedElection(t *testing.T, conn *sql.DB) (meera, kiran, ravi int64) {
	t.Helper()
	meera = testutil.CreateTestCandidate(t, conn, "Meera", "Secretary", "Treasurer")
	kiran = testutil.CreateTestCandidate(t, conn, "Kiran", "Secretary")
	ravi = testutil.CreateTestCandidate(t, conn, "Ravi", "Secretary")

	for _, id := range []string{"a1", "a2", "a3", "a4"} {
		testutil.CreateTestVolunteer(t, conn, id, "Voter "+id)
	}
	testutil.CreateTestVote(t, conn, "a1", kiran, "Secretary")
	testutil.CreateTestVote(t, conn, "a2", meera, "Secretary")
	testutil.CreateTestVote(t, conn, "a3", kiran, "Secretary")
	testutil.CreateTestVote(t, conn, "a4", meera, "Secretary")
	testutil.CreateTestVote(t, conn, "a1", meera, "Treasurer")
	return meera, kiran, ravi
}

func TestResultsByPosition(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	meera, kiran, ravi := seedElection(t, conn)
	r := NewReporter(conn, 5*time.Second)

	results, err := r.ResultsByPosition(context.Background())
	if err != nil {
		t.Fatalf("ResultsByPosition() error = %v", err)
	}

	want := []models.Result{
		{Rank: 1, CandidateID: meera, CandidateName: "Meera", Position: "Secretary", Votes: 2},
		{Rank: 1, CandidateID: kiran, CandidateName: "Kiran", Position: "Secretary", Votes: 2},
		{Rank: 1, CandidateID: meera, CandidateName: "Meera", Position: "Treasurer", Votes: 1},
		{Rank: 2, CandidateID: ravi, CandidateName: "Ravi", Position: "Secretary", Votes: 0},
	}
	if len(results) != len(want) {
		t.Fatalf("got %d results, want %d: %+v", len(results), len(want), results)
	}
	for i := range want {
		if results[i] != want[i] {
			t.Errorf("results[%d] = %+v, want %+v", i, results[i], want[i])
		}
	}
}

func TestResultsEmpty(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	results, err := NewReporter(conn, time.Second).ResultsByPosition(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %v", results)
	}
	if groups := GroupByPosition(results); len(groups) != 0 {
		t.Errorf("expected no groups, got %v", groups)
	}
}

func TestGroupByPosition(t *testing.T) {
	results := []models.Result{
		{CandidateID: 1, Position: "Secretary", Votes: 5},
		{CandidateID: 2, Position: "President", Votes: 4},
		{CandidateID: 3, Position: "Secretary", Votes: 3},
		{CandidateID: 1, Position: "Treasurer", Votes: 1},
	}

	groups := GroupByPosition(results)
	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}

	tests := []struct {
		position string
		ids      []int64
	}{
		{"Secretary", []int64{1, 3}},
		{"President", []int64{2}},
		{"Treasurer", []int64{1}},
	}
	for i, tt := range tests {
		g := groups[i]
		if g.Position != tt.position {
			t.Errorf("groups[%d].Position = %q, want %q", i, g.Position, tt.position)
		}
		if len(g.Results) != len(tt.ids) {
			t.Errorf("%s: %d results, want %d", tt.position, len(g.Results), len(tt.ids))
			continue
		}
		for j, id := range tt.ids {
			if g.Results[j].CandidateID != id {
				t.Errorf("%s[%d] = %d, want %d", tt.position, j, g.Results[j].CandidateID, id)
			}
		}
	}
}

func TestAssignRanks(t *testing.T) {
	results := []models.Result{
		{Position: "A", Votes: 3},
		{Position: "B", Votes: 9},
		{Position: "A", Votes: 3},
		{Position: "A", Votes: 1},
		{Position: "B", Votes: 0},
		{Position: "A", Votes: 0},
	}
	assignRanks(results)

	want := []int{1, 1, 1, 2, 2, 3}
	for i, w := range want {
		if results[i].Rank != w {
			t.Errorf("results[%d].Rank = %d, want %d", i, results[i].Rank, w)
		}
	}
}

func TestRecount(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	meera, kiran, _ := seedElection(t, conn)
	r := NewReporter(conn, 5*time.Second)

	// Nothing to correct on a consistent store
	drift, err := r.Recount(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(drift) != 0 {
		t.Fatalf("expected no drift, got %+v", drift)
	}

	// Removing a volunteer leaves their votes in the tallies
	if _, err := conn.Exec("DELETE FROM volunteer WHERE student_id = $1", "a1"); err != nil {
		t.Fatal(err)
	}
	if got := testutil.TallyVotes(t, conn, kiran, "Secretary"); got != 2 {
		t.Fatalf("tally should be stale, got %d", got)
	}

	drift, err = r.Recount(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	want := []models.Drift{
		{CandidateID: meera, Position: "Treasurer", Stored: 1, Counted: 0},
		{CandidateID: kiran, Position: "Secretary", Stored: 2, Counted: 1},
	}
	if len(drift) != len(want) {
		t.Fatalf("drift = %+v, want %+v", drift, want)
	}
	for i := range want {
		if drift[i] != want[i] {
			t.Errorf("drift[%d] = %+v, want %+v", i, drift[i], want[i])
		}
	}

	if got := testutil.TallyVotes(t, conn, kiran, "Secretary"); got != 1 {
		t.Errorf("kiran tally = %d, want 1", got)
	}
	if got := testutil.TallyVotes(t, conn, meera, "Treasurer"); got != 0 {
		t.Errorf("meera treasurer tally = %d, want 0", got)
	}
	if got := testutil.TallyVotes(t, conn, meera, "Secretary"); got != 2 {
		t.Errorf("meera secretary tally = %d, want 2", got)
	}
}

func TestStorageFailure(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	r := NewReporter(conn, time.Second)
	conn.Close()

	if _, err := r.ResultsByPosition(context.Background()); !errors.Is(err, models.ErrStorage) {
		t.Errorf("ResultsByPosition() error = %v, want ErrStorage", err)
	}
	if _, err := r.Recount(context.Background()); !errors.Is(err, models.ErrStorage) {
		t.Errorf("Recount() error = %v, want ErrStorage", err)
	}
}
