// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Rohith723/nss-election-app/auth"
	"github.com/Rohith723/nss-election-app/events"
	"github.com/Rohith723/nss-election-app/middleware"
	"github.com/Rohith723/nss-election-app/models"
	"github.com/Rohith723/nss-election-app/testutil"
)

// TestFullElectionWorkflow tests the complete end-to-end workflow:
// 1. Bootstrap admin signs in and rotates the default password
// 2. Admin registers candidates and volunteers
// 3. Volunteers sign in and vote
// 4. Repeat vote is rejected
// 5. Results reflect the votes
// 6. Volunteer removal followed by a recount
func TestFullElectionWorkflow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	rec := &events.Recorder{}

	sessionHandler := NewSessionHandler(db, cfg)
	ballotHandler := NewBallotHandler(db, cfg, rec)
	rosterHandler := NewRosterHandler(db, cfg, rec)
	resultsHandler := NewResultsHandler(db, cfg)
	sessions := auth.NewSessions(cfg.SessionSecret, cfg.SessionTTL)

	// call runs a handler behind the session gate with the given token
	call := func(h http.HandlerFunc, req *http.Request, token string, roles ...string) *httptest.ResponseRecorder {
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		middleware.RequireRole(sessions, h, roles...)(w, req)
		return w
	}

	if _, err := auth.BootstrapAdmin(context.Background(), db, "", ""); err != nil {
		t.Fatal(err)
	}

	// Step 1: default credential only yields a rotate-scoped token
	req := testutil.MakeRequest("POST", "/sessions/admin", models.AdminLoginRequest{
		Username: auth.DefaultAdminUsername, Password: auth.DefaultAdminPassword,
	}, nil)
	w := httptest.NewRecorder()
	sessionHandler.AdminLogin(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Step 1 - Admin login failed: %d - %s", w.Code, w.Body.String())
	}
	var adminSession models.SessionResponse
	testutil.AssertJSON(t, w, &adminSession)
	if adminSession.Role != models.RoleAdminRotate {
		t.Fatalf("Step 1 - Expected rotate-scoped session, got %q", adminSession.Role)
	}

	req = testutil.MakeRequest("GET", "/admin/volunteers", nil, nil)
	w = call(rosterHandler.ListVolunteers, req, adminSession.Token, models.RoleAdmin)
	if w.Code != http.StatusForbidden {
		t.Fatalf("Step 1 - Rotate token reached roster: %d", w.Code)
	}

	req = testutil.MakeRequest("POST", "/admin/password", models.RotatePasswordRequest{
		CurrentPassword: auth.DefaultAdminPassword, NewPassword: "election-day-2025",
	}, nil)
	w = call(sessionHandler.RotatePassword, req, adminSession.Token, models.RoleAdmin, models.RoleAdminRotate)
	if w.Code != http.StatusOK {
		t.Fatalf("Step 1 - Rotate failed: %d - %s", w.Code, w.Body.String())
	}
	testutil.AssertJSON(t, w, &adminSession)
	adminToken := adminSession.Token
	t.Logf("Step 1 - Admin rotated password")

	// Step 2: candidates and volunteers
	candidates := map[string]int64{}
	for _, c := range []map[string]string{
		{"name": "Meera", "position1": "Secretary", "position2": "Treasurer"},
		{"name": "Kiran", "position1": "Secretary"},
	} {
		w := call(rosterHandler.AddCandidate, candidateForm(t, c, nil), adminToken, models.RoleAdmin)
		if w.Code != http.StatusCreated {
			t.Fatalf("Step 2 - Add candidate %s failed: %d - %s", c["name"], w.Code, w.Body.String())
		}
		var created models.Candidate
		testutil.AssertJSON(t, w, &created)
		candidates[created.Name] = created.ID
	}

	for _, v := range []models.AddVolunteerRequest{
		{StudentID: "A1", Name: "Asha"},
		{StudentID: "B2", Name: "Bala"},
		{StudentID: "C3", Name: "Chitra"},
	} {
		req := testutil.MakeRequest("POST", "/admin/volunteers", v, nil)
		w := call(rosterHandler.AddVolunteer, req, adminToken, models.RoleAdmin)
		if w.Code != http.StatusCreated {
			t.Fatalf("Step 2 - Add volunteer %s failed: %d - %s", v.StudentID, w.Code, w.Body.String())
		}
	}
	t.Logf("Step 2 - Registered %d candidates and 3 volunteers", len(candidates))

	// Step 3: volunteers sign in and vote
	votes := []struct {
		studentID string
		candidate string
		position  string
	}{
		{"a1", "Meera", "Secretary"},
		{"b2", "Meera", "Secretary"},
		{"c3", "Kiran", "Secretary"},
		{"a1", "Meera", "Treasurer"},
	}
	tokens := map[string]string{}
	for _, v := range votes {
		if _, ok := tokens[v.studentID]; !ok {
			req := testutil.MakeRequest("POST", "/sessions/volunteer", models.VolunteerLoginRequest{StudentID: v.studentID}, nil)
			w := httptest.NewRecorder()
			sessionHandler.VolunteerLogin(w, req)
			if w.Code != http.StatusOK {
				t.Fatalf("Step 3 - Login %s failed: %d", v.studentID, w.Code)
			}
			var s models.SessionResponse
			testutil.AssertJSON(t, w, &s)
			tokens[v.studentID] = s.Token
		}

		req := testutil.MakeRequest("POST", "/ballot/votes", models.CastVoteRequest{
			CandidateID: candidates[v.candidate], Position: v.position,
		}, nil)
		w := call(ballotHandler.CastVote, req, tokens[v.studentID], models.RoleVolunteer)
		if w.Code != http.StatusCreated {
			t.Fatalf("Step 3 - Vote %+v failed: %d - %s", v, w.Code, w.Body.String())
		}
	}
	t.Logf("Step 3 - Cast %d votes", len(votes))

	// Step 4: repeat vote
	req = testutil.MakeRequest("POST", "/ballot/votes", models.CastVoteRequest{
		CandidateID: candidates["Kiran"], Position: "Secretary",
	}, nil)
	w = call(ballotHandler.CastVote, req, tokens["a1"], models.RoleVolunteer)
	if w.Code != http.StatusConflict {
		t.Fatalf("Step 4 - Expected 409 for repeat vote, got %d", w.Code)
	}

	req = testutil.MakeRequest("GET", "/ballot", nil, nil)
	w = call(ballotHandler.GetBallot, req, tokens["a1"], models.RoleVolunteer)
	var status models.BallotResponse
	testutil.AssertJSON(t, w, &status)
	if !status.HasVotedForAll || len(status.Votes) != 2 {
		t.Errorf("Step 4 - Unexpected ballot status %+v", status)
	}

	// Step 5: results
	req = testutil.MakeRequest("GET", "/admin/results", nil, nil)
	w = call(resultsHandler.GetResults, req, adminToken, models.RoleAdmin)
	if w.Code != http.StatusOK {
		t.Fatalf("Step 5 - Results failed: %d", w.Code)
	}
	var groups []models.PositionResults
	testutil.AssertJSON(t, w, &groups)
	if len(groups) != 2 {
		t.Fatalf("Step 5 - Expected 2 positions, got %d", len(groups))
	}
	secretary := groups[0]
	if secretary.Position != "Secretary" || secretary.Results[0].CandidateName != "Meera" || secretary.Results[0].Votes != 2 {
		t.Errorf("Step 5 - Unexpected Secretary results %+v", secretary)
	}
	t.Logf("Step 5 - Secretary leader: %s with %d votes", secretary.Results[0].CandidateName, secretary.Results[0].Votes)

	// Step 6: removal keeps tallies until recount
	req = testutil.MakeRequest("DELETE", "/admin/volunteers/a1", nil, nil)
	req.SetPathValue("id", "a1")
	w = call(rosterHandler.RemoveVolunteer, req, adminToken, models.RoleAdmin)
	if w.Code != http.StatusOK {
		t.Fatalf("Step 6 - Remove volunteer failed: %d", w.Code)
	}
	if got := testutil.TallyVotes(t, db, candidates["Meera"], "Secretary"); got != 2 {
		t.Errorf("Step 6 - Expected stale tally 2, got %d", got)
	}

	req = testutil.MakeRequest("POST", "/admin/results/recount", nil, nil)
	w = call(resultsHandler.Recount, req, adminToken, models.RoleAdmin)
	var recount models.RecountResponse
	testutil.AssertJSON(t, w, &recount)
	if len(recount.Corrected) != 2 {
		t.Errorf("Step 6 - Expected 2 corrected tallies, got %+v", recount.Corrected)
	}
	if got := testutil.TallyVotes(t, db, candidates["Meera"], "Secretary"); got != 1 {
		t.Errorf("Step 6 - Expected tally 1 after recount, got %d", got)
	}

	if rec.Count(events.TypeVoteCast) != len(votes) {
		t.Errorf("Expected %d vote events, got %d", len(votes), rec.Count(events.TypeVoteCast))
	}
	if rec.Count(events.TypeCandidateAdded) != 2 {
		t.Errorf("Expected 2 candidate events, got %d", rec.Count(events.TypeCandidateAdded))
	}
}
