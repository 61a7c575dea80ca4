// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Rohith723/nss-election-app/db"
	"github.com/Rohith723/nss-election-app/models"
)

// Default bootstrap credential. Stored with must_rotate set.
const (
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "admin123"
)

// dummyHash keeps the login path the same cost for unknown usernames
var dummyHash = sync.OnceValue(func() []byte {
	h, _ := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
	return h
})

// NormalizeStudentID trims and lower-cases a student identifier.
// Every read and write of volunteer.student_id goes through it.
func NormalizeStudentID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// HashPassword returns a bcrypt hash of the password
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword compares a plain password against a bcrypt hash
func VerifyPassword(plain, hashed string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)); err != nil {
		return models.ErrInvalidCredentials
	}
	return nil
}

// BootstrapAdmin creates the admin account on first run. An empty password
// stores the default credential flagged for rotation. Existing accounts are
// left untouched. It reports whether an account was created.
func BootstrapAdmin(ctx context.Context, conn *sql.DB, username, password string) (bool, error) {
	if username == "" {
		username = DefaultAdminUsername
	}
	mustRotate := false
	if password == "" {
		password = DefaultAdminPassword
		mustRotate = true
	}

	var exists bool
	err := conn.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM admin WHERE username = $1)
	`, username).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%w: check admin: %w", models.ErrStorage, err)
	}
	if exists {
		return false, nil
	}

	hash, err := HashPassword(password)
	if err != nil {
		return false, err
	}

	_, err = conn.ExecContext(ctx, `
		INSERT INTO admin (username, password_hash, must_rotate, created_at)
		VALUES ($1, $2, $3, $4)
	`, username, hash, mustRotate, time.Now())
	if err != nil {
		// Another process bootstrapped first
		if db.IsUniqueViolation(err) {
			return false, nil
		}
		return false, fmt.Errorf("%w: insert admin: %w", models.ErrStorage, err)
	}

	if mustRotate {
		slog.Warn("admin account created with the default password; rotate it before the election",
			"username", username)
	} else {
		slog.Info("admin account created", "username", username)
	}
	return true, nil
}

// AuthenticateAdmin checks a username and password against the stored hash
func AuthenticateAdmin(ctx context.Context, conn *sql.DB, username, password string) (models.Admin, error) {
	var (
		admin models.Admin
		hash  string
	)
	err := conn.QueryRowContext(ctx, `
		SELECT username, password_hash, must_rotate, created_at, rotated_at
		FROM admin
		WHERE username = $1
	`, username).Scan(&admin.Username, &hash, &admin.MustRotate, &admin.CreatedAt, &admin.RotatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
		return models.Admin{}, models.ErrInvalidCredentials
	}
	if err != nil {
		return models.Admin{}, fmt.Errorf("%w: query admin: %w", models.ErrStorage, err)
	}

	if err := VerifyPassword(password, hash); err != nil {
		return models.Admin{}, err
	}
	return admin, nil
}

// RotateAdminPassword replaces the admin password after verifying the
// current one, and clears the rotation flag.
func RotateAdminPassword(ctx context.Context, conn *sql.DB, username, current, next string) error {
	req := models.RotatePasswordRequest{CurrentPassword: current, NewPassword: next}
	if err := req.Validate(); err != nil {
		return err
	}
	if _, err := AuthenticateAdmin(ctx, conn, username, current); err != nil {
		return err
	}
	return SetAdminPassword(ctx, conn, username, next)
}

// SetAdminPassword overwrites the admin password without checking the
// current one. Used by the operator CLI.
func SetAdminPassword(ctx context.Context, conn *sql.DB, username, password string) error {
	if len(password) < models.MinPasswordLength {
		return &models.ValidationError{Field: "new_password", Message: "must be at least 8 characters"}
	}

	hash, err := HashPassword(password)
	if err != nil {
		return err
	}

	res, err := conn.ExecContext(ctx, `
		UPDATE admin
		SET password_hash = $1, must_rotate = $2, rotated_at = $3
		WHERE username = $4
	`, hash, false, time.Now(), username)
	if err != nil {
		return fmt.Errorf("%w: update admin: %w", models.ErrStorage, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrNotFound
	}

	slog.Info("admin password rotated", "username", username)
	return nil
}

// ResolveVolunteer looks up a volunteer by student id after normalizing it
func ResolveVolunteer(ctx context.Context, conn *sql.DB, identifier string) (models.Volunteer, error) {
	id := NormalizeStudentID(identifier)
	if id == "" {
		return models.Volunteer{}, models.ErrNotFound
	}

	var v models.Volunteer
	err := conn.QueryRowContext(ctx, `
		SELECT v.student_id, v.name, v.year, v.branch, v.phone, v.created_at,
		       (SELECT COUNT(*) FROM vote WHERE vote.student_id = v.student_id)
		FROM volunteer v
		WHERE v.student_id = $1
	`, id).Scan(&v.StudentID, &v.Name, &v.Year, &v.Branch, &v.Phone, &v.CreatedAt, &v.VotedCount)

	if errors.Is(err, sql.ErrNoRows) {
		return models.Volunteer{}, models.ErrNotFound
	}
	if err != nil {
		return models.Volunteer{}, fmt.Errorf("%w: query volunteer: %w", models.ErrStorage, err)
	}
	return v, nil
}
