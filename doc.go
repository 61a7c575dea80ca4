// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the NSS election server.

The server runs the student volunteer election for an NSS unit: volunteers
log in with their student id and cast one vote per position, while the
administrator manages the roster and candidates and reads the results.

# Starting the Server

	SESSION_SECRET=... go run . serve

Or with flags:

	go run . serve -p 8501 -t postgres -d "postgres://..."

Operator commands work on the same store without the server running:

	go run . results
	go run . export ./out
	go run . admin-password NEW

# Configuration

Required settings:

  - SESSION_SECRET (--session-secret): token signing secret, at least 16 characters

Optional settings:

  - PORT (-p): Server port (default: 8501)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - DATABASE_URL (-d): connection string (default: file:nss_election.db)
  - ADMIN_BOOTSTRAP_PASSWORD (--admin-password): first admin password
  - SESSION_TTL, TX_TIMEOUT: durations (default: 2h, 5s)
  - KAFKA_BROKER, KAFKA_TOPIC, KAFKA_USERNAME, KAFKA_PASSWORD: event sink

A .env file in the working directory is loaded first and never overrides
variables that are already set.

# Architecture

  - cli: cobra command tree (serve, results, export, admin-password)
  - router: Route definitions using Go 1.22+ routing
  - handlers: HTTP request handlers (session, ballot, roster, results)
  - middleware: CORS, logging, JSON helpers, role checks
  - ballot: vote casting
  - roster: volunteers, candidates, photos, CSV import
  - tally: ranked results, recount, CSV export
  - events: optional Kafka publisher for committed changes
  - auth: password hashing and session tokens
  - db: connection, schema and driver error mapping
  - models: Request/response types and errors
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
