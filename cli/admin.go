// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Rohith723/nss-election-app/auth"
	"github.com/Rohith723/nss-election-app/db"
)

// AdminPasswordCmd returns the admin-password command
func AdminPasswordCmd() *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "admin-password NEW",
		Short: "Set the admin password without the current one",
		Long: `Set the admin password directly in the store. The account is created
first when it does not exist yet. The new password clears the rotation
requirement.`,
		Args: cobra.ExactArgs(1),
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

			if _, err := auth.BootstrapAdmin(cmd.Context(), conn, username, ""); err != nil {
				return err
			}
			if err := auth.SetAdminPassword(cmd.Context(), conn, username, args[0]); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s password updated for %s\n",
				color.New(color.FgGreen).Sprint("✓"), username)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", auth.DefaultAdminUsername, "Admin account")

	return cmd
}
