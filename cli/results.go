// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Rohith723/nss-election-app/db"
	"github.com/Rohith723/nss-election-app/tally"
)

// ResultsCmd returns the results command
func ResultsCmd() *cobra.Command {
	var recount bool

	cmd := &cobra.Command{
		Use:   "results",
		Short: "Print the ranked results for every position",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			conn, err := db.Open(cfg)
			if err != nil {
				return err
			}
			defer conn.Close()

			reporter := tally.NewReporter(conn, cfg.TxTimeout)
			out := cmd.OutOrStdout()

			if recount {
				drift, err := reporter.Recount(cmd.Context())
				if err != nil {
					return err
				}
				for _, d := range drift {
					fmt.Fprintf(out, "%s candidate %d for %s: %d -> %d\n",
						color.New(color.FgYellow).Sprint("corrected"), d.CandidateID, d.Position, d.Stored, d.Counted)
				}
			}

			results, err := reporter.ResultsByPosition(cmd.Context())
			if err != nil {
				return err
			}
			grouped := tally.GroupByPosition(results)
			if len(grouped) == 0 {
				fmt.Fprintln(out, "No candidates registered.")
				return nil
			}

			heading := color.New(color.Bold)
			leader := color.New(color.FgGreen, color.Bold)
			for i, pr := range grouped {
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintln(out, heading.Sprint(pr.Position))
				for _, r := range pr.Results {
					line := fmt.Sprintf("  %-4s %s (#%d) %s %s",
						humanize.Ordinal(r.Rank), r.CandidateName, r.CandidateID,
						humanize.Comma(int64(r.Votes)), plural(r.Votes, "vote", "votes"))
					if r.Rank == 1 && r.Votes > 0 {
						line = leader.Sprint(line)
					}
					fmt.Fprintln(out, line)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&recount, "recount", false, "Reconcile tallies against recorded votes first")

	return cmd
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
