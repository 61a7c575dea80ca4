// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the NSS election API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - SessionHandler: Volunteer and admin sign-in, admin password rotation
  - BallotHandler: Candidate listing, photos, ballot status and vote casting
  - RosterHandler: Volunteer and candidate administration
  - ResultsHandler: Tallies, recount and CSV export

Handlers are created via constructor functions that accept *sql.DB and Config:

	sessionHandler := handlers.NewSessionHandler(db, cfg)
	ballotHandler := handlers.NewBallotHandler(db, cfg, publisher)

# Sessions

Routes other than sign-in sit behind middleware.RequireRole. Handlers
read the signed-in subject from middleware.ClaimsFrom; a volunteer's
subject is the normalized student id.

# Voting Flow

	POST /sessions/volunteer → VolunteerLogin (returns token)
	GET  /candidates         → ListCandidates
	POST /ballot/votes       → CastVote (201, or 409 when already voted)

# Error Mapping

writeError translates domain errors: duplicates, repeat votes and
candidates with votes are 409, unknown rows 404, validation failures and
ineligible candidates 400. Storage failures are logged and returned as
500 with a generic message.
*/
package handlers
