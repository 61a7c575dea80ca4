// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package roster manages the volunteer and candidate lists.

# Volunteers

	svc := roster.NewService(db, cfg.TxTimeout, publisher)
	v, err := svc.AddVolunteer(ctx, req)          // models.ErrDuplicateIdentifier on conflict
	removed, err := svc.RemoveVolunteer(ctx, id)  // cascades the volunteer's votes

Removing a volunteer leaves tallies untouched. Run tally.Recount to
bring them back in line with the vote table.

ParseVolunteersCSV and ImportVolunteers handle bulk registration.

# Candidates

AddCandidate writes the candidate and a tally row for each position in
one transaction. Photos pass through ReadPhoto first and are stored
inline. RemoveCandidate refuses candidates that already have votes.
*/
package roster
