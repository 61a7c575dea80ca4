// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package tally reports election results and exports the store as CSV.

# Results

	reporter := tally.NewReporter(db, cfg.TxTimeout)
	results, err := reporter.ResultsByPosition(ctx)
	groups := tally.GroupByPosition(results)

Results are ordered by votes descending with ties in insertion order
(candidate id, then slot). Rank is dense within a position, so tied
candidates share a rank.

# Recount

Recount rewrites each tally row to the number of matching vote rows and
returns what changed. Volunteer removal deletes votes without touching
tallies; Recount is how the two are brought back together.

# Export

WriteCSV streams one table (volunteers, candidates, results) to a
writer. ExportAll writes all three into a directory.
*/
package tally
