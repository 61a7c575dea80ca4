// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cli

import (
	"github.com/spf13/cobra"

	"github.com/Rohith723/nss-election-app/cliparse"
)

// RootCmd returns the nss-election command tree
func RootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "nss-election",
		Short: "NSS volunteer election server",
		Long: `nss-election runs the NSS volunteer election API and the operator
commands that work directly against the election store.

Configuration comes from flags, then the environment, then a .env file
in the working directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cliparse.LoadEnvFile(".env")
		},
	}

	rootCmd.PersistentFlags().StringP("database", "d", "", "Database URL (overrides DATABASE_URL)")
	rootCmd.PersistentFlags().StringP("database-type", "t", "", "Database type: sqlite or postgres (overrides DATABASE_TYPE)")

	rootCmd.AddCommand(ServeCmd())
	rootCmd.AddCommand(ResultsCmd())
	rootCmd.AddCommand(ExportCmd())
	rootCmd.AddCommand(AdminPasswordCmd())

	return rootCmd
}

// loadConfig resolves configuration for the store commands. Only the
// database flags are read from cobra; everything else falls back to the
// environment the same way serve does.
func loadConfig(cmd *cobra.Command) (cliparse.Config, error) {
	var args []string
	if f := cmd.Flag("database"); f != nil && f.Changed {
		args = append(args, "-d", f.Value.String())
	}
	if f := cmd.Flag("database-type"); f != nil && f.Changed {
		args = append(args, "-t", f.Value.String())
	}
	return cliparse.ParseFlags(args)
}
