// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Rohith723/nss-election-app/db"
	"github.com/Rohith723/nss-election-app/tally"
)

// ExportCmd returns the export command
func ExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export DIR",
		Short: "Write volunteers, candidates and results as CSV files",
		Args:  cobra.ExactArgs(1),
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

			paths, err := tally.NewReporter(conn, cfg.TxTimeout).ExportAll(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, p := range paths {
				info, err := os.Stat(p)
				if err != nil {
					return fmt.Errorf("failed to stat %s: %w", p, err)
				}
				fmt.Fprintf(out, "%s %s (%s)\n",
					color.New(color.FgGreen).Sprint("wrote"), filepath.Base(p), humanize.Bytes(uint64(info.Size())))
			}
			return nil
		},
	}
}
