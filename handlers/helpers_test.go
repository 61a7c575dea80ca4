// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Rohith723/nss-election-app/auth"
	"github.com/Rohith723/nss-election-app/middleware"
	"github.com/Rohith723/nss-election-app/testutil"
)

// tokenFor signs a session with the test configuration
func tokenFor(t *testing.T, subject, role string) string {
	t.Helper()
	cfg := testutil.GetTestConfig()
	token, _, err := auth.NewSessions(cfg.SessionSecret, cfg.SessionTTL).Issue(subject, role, "")
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}
	return token
}

// serveAs runs handler behind RequireRole with a session for subject
func serveAs(t *testing.T, handler http.HandlerFunc, req *http.Request, subject, role string) *httptest.ResponseRecorder {
	t.Helper()
	cfg := testutil.GetTestConfig()
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, subject, role))
	w := httptest.NewRecorder()
	middleware.RequireRole(auth.NewSessions(cfg.SessionSecret, cfg.SessionTTL), handler, role)(w, req)
	return w
}
