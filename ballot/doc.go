// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ballot records votes.

# Casting

	engine := ballot.NewEngine(db, cfg.TxTimeout, publisher)
	vote, err := engine.CastVote(ctx, "21cs001", candidateID, "Secretary")

A vote insert and the matching tally increment share one transaction.
The vote table's primary key (student_id, position) decides concurrent
submissions: exactly one commits, the rest fail with
models.ErrAlreadyVoted.

# Status

VotedPositions lists a volunteer's votes; Status adds the positions
still open to them, in ballot order.
*/
package ballot
