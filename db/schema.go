// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"

	"github.com/Rohith723/nss-election-app/cliparse"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB, dialect string) error {
	var stmt string
	switch dialect {
	case cliparse.DatabaseSQLite:
		stmt = sqliteSchema
	case cliparse.DatabasePostgres:
		stmt = postgresSchema
	default:
		return fmt.Errorf("unsupported dialect %q", dialect)
	}

	_, err := db.Exec(stmt)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const sqliteSchema = `
-- Admin credential
CREATE TABLE IF NOT EXISTS admin (
    username TEXT PRIMARY KEY,
    password_hash TEXT NOT NULL,
    must_rotate BOOLEAN NOT NULL DEFAULT 1,
    created_at TIMESTAMP NOT NULL,
    rotated_at TIMESTAMP
);

-- Volunteers
CREATE TABLE IF NOT EXISTS volunteer (
    student_id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    year TEXT NOT NULL DEFAULT '',
    branch TEXT NOT NULL DEFAULT '',
    phone TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL
);

-- Candidates
CREATE TABLE IF NOT EXISTS candidate (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    year TEXT NOT NULL DEFAULT '',
    branch TEXT NOT NULL DEFAULT '',
    phone TEXT NOT NULL DEFAULT '',
    position1 TEXT NOT NULL,
    position2 TEXT NOT NULL DEFAULT '',
    photo BLOB,
    photo_type TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL,
    CHECK (position2 <> position1)
);

-- Tallies, one row per eligible position
CREATE TABLE IF NOT EXISTS tally (
    candidate_id INTEGER NOT NULL REFERENCES candidate(id) ON DELETE CASCADE,
    position TEXT NOT NULL,
    slot INTEGER NOT NULL CHECK (slot IN (1, 2)),
    votes INTEGER NOT NULL DEFAULT 0 CHECK (votes >= 0),
    PRIMARY KEY (candidate_id, position)
);

CREATE INDEX IF NOT EXISTS idx_tally_position ON tally(position);

-- Votes, one per volunteer per position
CREATE TABLE IF NOT EXISTS vote (
    student_id TEXT NOT NULL REFERENCES volunteer(student_id) ON DELETE CASCADE,
    position TEXT NOT NULL,
    candidate_id INTEGER NOT NULL REFERENCES candidate(id) ON DELETE RESTRICT,
    receipt TEXT NOT NULL UNIQUE,
    cast_at TIMESTAMP NOT NULL,
    PRIMARY KEY (student_id, position)
);

CREATE INDEX IF NOT EXISTS idx_vote_candidate_id ON vote(candidate_id);
`

const postgresSchema = `
-- Admin credential
CREATE TABLE IF NOT EXISTS admin (
    username TEXT PRIMARY KEY,
    password_hash TEXT NOT NULL,
    must_rotate BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    rotated_at TIMESTAMP
);

-- Volunteers
CREATE TABLE IF NOT EXISTS volunteer (
    student_id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    year TEXT NOT NULL DEFAULT '',
    branch TEXT NOT NULL DEFAULT '',
    phone TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

-- Candidates
CREATE TABLE IF NOT EXISTS candidate (
    id BIGSERIAL PRIMARY KEY,
    name TEXT NOT NULL,
    year TEXT NOT NULL DEFAULT '',
    branch TEXT NOT NULL DEFAULT '',
    phone TEXT NOT NULL DEFAULT '',
    position1 TEXT NOT NULL,
    position2 TEXT NOT NULL DEFAULT '',
    photo BYTEA,
    photo_type TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    CHECK (position2 <> position1)
);

-- Tallies, one row per eligible position
CREATE TABLE IF NOT EXISTS tally (
    candidate_id BIGINT NOT NULL REFERENCES candidate(id) ON DELETE CASCADE,
    position TEXT NOT NULL,
    slot INTEGER NOT NULL CHECK (slot IN (1, 2)),
    votes INTEGER NOT NULL DEFAULT 0 CHECK (votes >= 0),
    PRIMARY KEY (candidate_id, position)
);

CREATE INDEX IF NOT EXISTS idx_tally_position ON tally(position);

-- Votes, one per volunteer per position
CREATE TABLE IF NOT EXISTS vote (
    student_id TEXT NOT NULL REFERENCES volunteer(student_id) ON DELETE CASCADE,
    position TEXT NOT NULL,
    candidate_id BIGINT NOT NULL REFERENCES candidate(id) ON DELETE RESTRICT,
    receipt TEXT NOT NULL UNIQUE,
    cast_at TIMESTAMP NOT NULL DEFAULT NOW(),
    PRIMARY KEY (student_id, position)
);

CREATE INDEX IF NOT EXISTS idx_vote_candidate_id ON vote(candidate_id);
`
