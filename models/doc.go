// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response and domain types for the NSS
election API, plus the sentinel errors shared by every layer.

# Domain Types

  - Volunteer: registered voter, keyed by normalized student id
  - Candidate: person standing for one or two positions
  - CastVote: one vote per (student id, position)
  - Result: tally for one candidate in one position
  - Admin: the bootstrap administrator account

# Request Validation

Request types validate themselves at the HTTP boundary. Validate trims
every field in place before checking it:

	var req models.AddVolunteerRequest
	if err := req.Validate(); err != nil {
		// *models.ValidationError
	}

# Errors

	ErrDuplicateIdentifier  student id already registered
	ErrAlreadyVoted         vote exists for (student id, position)
	ErrNotFound             unknown volunteer or candidate
	ErrInvalidCandidate     candidate not standing for the position
	ErrCandidateHasVotes    candidate cannot be removed
	ErrInvalidCredentials   admin login failed
	ErrStorage              transaction or connectivity failure

Storage failures wrap both ErrStorage and the driver error, so
errors.Is works for either.
*/
package models
