// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Rohith723/nss-election-app/cliparse"
	"github.com/Rohith723/nss-election-app/db"
)

// TestSessionSecret signs tokens in handler tests
const TestSessionSecret = "test-session-secret-0123456789"

// SetupTestDB creates a fresh SQLite database file with the full schema.
// The database is closed when the test finishes.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	cfg := GetTestConfig()
	cfg.DatabaseURL = "file:" + filepath.Join(t.TempDir(), "election.db")

	conn, err := db.Open(cfg)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          8501,
		DatabaseURL:   "file::memory:",
		DatabaseType:  cliparse.DatabaseSQLite,
		SessionSecret: TestSessionSecret,
		SessionTTL:    time.Hour,
		TxTimeout:     5 * time.Second,
		KafkaTopic:    "nss-election-events",
	}
}

// CreateTestAdmin inserts an admin account with the given password
func CreateTestAdmin(t *testing.T, conn *sql.DB, username, password string, mustRotate bool) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	_, err = conn.Exec(`
		INSERT INTO admin (username, password_hash, must_rotate, created_at)
		VALUES ($1, $2, $3, $4)
	`, username, string(hash), mustRotate, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test admin: %v", err)
	}
}

// CreateTestVolunteer inserts a volunteer; studentID must already be normalized
func CreateTestVolunteer(t *testing.T, conn *sql.DB, studentID, name string) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO volunteer (student_id, name, created_at)
		VALUES ($1, $2, $3)
	`, studentID, name, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test volunteer: %v", err)
	}
}

// CreateTestCandidate inserts a candidate with tally rows for each position
// and returns its ID
func CreateTestCandidate(t *testing.T, conn *sql.DB, name string, positions ...string) int64 {
	t.Helper()

	if len(positions) == 0 || len(positions) > 2 {
		t.Fatalf("candidate needs one or two positions, got %d", len(positions))
	}
	position2 := ""
	if len(positions) == 2 {
		position2 = positions[1]
	}

	var id int64
	err := conn.QueryRow(`
		INSERT INTO candidate (name, position1, position2, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, name, positions[0], position2, time.Now()).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test candidate: %v", err)
	}

	for i, p := range positions {
		_, err := conn.Exec(`
			INSERT INTO tally (candidate_id, position, slot, votes)
			VALUES ($1, $2, $3, 0)
		`, id, p, i+1)
		if err != nil {
			t.Fatalf("Failed to create test tally: %v", err)
		}
	}

	return id
}

// CreateTestVote records a vote and bumps the tally directly
func CreateTestVote(t *testing.T, conn *sql.DB, studentID string, candidateID int64, position string) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO vote (student_id, position, candidate_id, receipt, cast_at)
		VALUES ($1, $2, $3, $4, $5)
	`, studentID, position, candidateID, uuid.NewString(), time.Now())
	if err != nil {
		t.Fatalf("Failed to create test vote: %v", err)
	}
	_, err = conn.Exec(`
		UPDATE tally SET votes = votes + 1 WHERE candidate_id = $1 AND position = $2
	`, candidateID, position)
	if err != nil {
		t.Fatalf("Failed to bump test tally: %v", err)
	}
}

// TallyVotes returns the stored tally for a candidate in a position
func TallyVotes(t *testing.T, conn *sql.DB, candidateID int64, position string) int {
	t.Helper()

	var votes int
	err := conn.QueryRow(`
		SELECT votes FROM tally WHERE candidate_id = $1 AND position = $2
	`, candidateID, position).Scan(&votes)
	if err != nil {
		t.Fatalf("Failed to read tally: %v", err)
	}
	return votes
}

// CountRows returns the number of rows in a table
func CountRows(t *testing.T, conn *sql.DB, table string) int {
	t.Helper()

	var n int
	if err := conn.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return n
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// Bearer returns an Authorization header map for a session token
func Bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
