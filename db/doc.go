// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connections and schema creation.

# Opening

Open connects using the configured dialect and creates the schema:

	conn, err := db.Open(cfg)

SQLite connections enable foreign keys, a busy timeout, WAL and
immediate transactions, and are limited to one open connection so that
writers queue instead of failing. PostgreSQL uses a small pool.

# Tables

  - admin: bootstrap administrator credential (bcrypt hash)
  - volunteer: registered voters keyed by normalized student_id
  - candidate: candidates with one or two positions and an inline photo
  - tally: running vote count per (candidate, position)
  - vote: one row per (student_id, position)

# Relationships

	volunteer 1──* vote      (ON DELETE CASCADE)
	candidate 1──* vote      (ON DELETE RESTRICT)
	candidate 1──* tally     (ON DELETE CASCADE)

# Constraints

The vote primary key (student_id, position) is the final guarantee of
one vote per position. IsUniqueViolation and IsForeignKeyViolation
classify constraint failures from both drivers.
*/
package db
