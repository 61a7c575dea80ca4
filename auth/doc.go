// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth is the identity gate: student id normalization, admin
credentials and signed session tokens.

# Student IDs

NormalizeStudentID trims and lower-cases an identifier. Roster writes,
logins and ballot lookups all normalize, so "21CS001 " and "21cs001" are
the same volunteer.

# Admin Credential

The admin password is stored as a bcrypt hash:

	created, err := auth.BootstrapAdmin(ctx, db, "admin", cfg.AdminBootstrapPassword)
	admin, err := auth.AuthenticateAdmin(ctx, db, username, password)

Without a configured password, BootstrapAdmin stores the default
admin/admin123 with must_rotate set. Such an admin only receives a
rotate-scoped session until RotateAdminPassword succeeds.

# Sessions

Sessions are HS256 JWTs:

	sessions := auth.NewSessions(cfg.SessionSecret, cfg.SessionTTL)
	token, expiresAt, err := sessions.IssueVolunteer(volunteer)
	claims, err := sessions.Verify(r.Header.Get("Authorization"))

Claims carry the subject, role and display name only. Whether a
volunteer has voted is always read from the vote table.
*/
package auth
