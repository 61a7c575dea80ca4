// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Rohith723/nss-election-app/auth"
	"github.com/Rohith723/nss-election-app/models"
)

func TestRequireRole(t *testing.T) {
	sessions := auth.NewSessions("middleware-test-secret-0123", time.Hour)
	other := auth.NewSessions("a-different-secret-0123456", time.Hour)
	expired := auth.NewSessions("middleware-test-secret-0123", -time.Minute)

	volunteer, _, _ := sessions.Issue("21cs001", models.RoleVolunteer, "Asha")
	admin, _, _ := sessions.Issue("admin", models.RoleAdmin, "")
	rotate, _, _ := sessions.Issue("admin", models.RoleAdminRotate, "")
	forged, _, _ := other.Issue("admin", models.RoleAdmin, "")
	stale, _, _ := expired.Issue("21cs001", models.RoleVolunteer, "Asha")

	testCases := []struct {
		name           string
		authorization  string
		roles          []string
		expectedStatus int
	}{
		{"volunteer on volunteer route", "Bearer " + volunteer, []string{models.RoleVolunteer}, http.StatusOK},
		{"admin on shared route", "Bearer " + admin, []string{models.RoleVolunteer, models.RoleAdmin}, http.StatusOK},
		{"rotate token on rotate route", "Bearer " + rotate, []string{models.RoleAdmin, models.RoleAdminRotate}, http.StatusOK},
		{"rotate token on admin route", "Bearer " + rotate, []string{models.RoleAdmin}, http.StatusForbidden},
		{"volunteer on admin route", "Bearer " + volunteer, []string{models.RoleAdmin}, http.StatusForbidden},
		{"missing header", "", []string{models.RoleVolunteer}, http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", []string{models.RoleVolunteer}, http.StatusUnauthorized},
		{"wrong secret", "Bearer " + forged, []string{models.RoleAdmin}, http.StatusUnauthorized},
		{"expired token", "Bearer " + stale, []string{models.RoleVolunteer}, http.StatusUnauthorized},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			called := false
			handler := RequireRole(sessions, func(w http.ResponseWriter, r *http.Request) {
				called = true
				if _, ok := ClaimsFrom(r.Context()); !ok {
					t.Error("Expected claims in request context")
				}
				w.WriteHeader(http.StatusOK)
			}, tc.roles...)

			req := httptest.NewRequest("GET", "/", nil)
			if tc.authorization != "" {
				req.Header.Set("Authorization", tc.authorization)
			}
			w := httptest.NewRecorder()
			handler(w, req)

			if w.Code != tc.expectedStatus {
				t.Errorf("Expected status %d, got %d", tc.expectedStatus, w.Code)
			}
			if called != (tc.expectedStatus == http.StatusOK) {
				t.Errorf("Handler called = %v with status %d", called, w.Code)
			}
			if tc.expectedStatus == http.StatusUnauthorized && w.Header().Get("WWW-Authenticate") == "" {
				t.Error("Expected WWW-Authenticate header")
			}
		})
	}
}

func TestClaimsFrom(t *testing.T) {
	sessions := auth.NewSessions("middleware-test-secret-0123", time.Hour)
	token, _, _ := sessions.Issue("21cs001", models.RoleVolunteer, "Asha")

	var got auth.Claims
	handler := RequireRole(sessions, func(w http.ResponseWriter, r *http.Request) {
		got, _ = ClaimsFrom(r.Context())
	}, models.RoleVolunteer)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler(httptest.NewRecorder(), req)

	if got.Subject != "21cs001" || got.Role != models.RoleVolunteer || got.Name != "Asha" {
		t.Errorf("Unexpected claims %+v", got)
	}

	if _, ok := ClaimsFrom(httptest.NewRequest("GET", "/", nil).Context()); ok {
		t.Error("Expected no claims without RequireRole")
	}
}
