// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Nimbus Launcher Contributors

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newLogoutCmd creates the logout subcommand.
func newLogoutCmd(deps *Deps, logFormat *string) *cobra.Command {
	return &cobra.Command{
		Use:   "logout [account]",
		Short: "Remove a stored account",
		Long: `Remove a stored account, by id or display name, after a best-effort
remote logout. Without an argument the selected account is removed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := ""
			if len(args) > 0 {
				ref = args[0]
			}
			return runLogout(cmd, deps, *logFormat, ref)
		},
	}
}

// runLogout executes the logout command.
func runLogout(cmd *cobra.Command, deps *Deps, logFormat, ref string) error {
	env, err := openEnv(deps, logFormat)
	if err != nil {
		return err
	}

	var id, name string
	if ref == "" {
		acct := env.registry.Selected()
		if acct == nil {
			return fmt.Errorf("no account selected")
		}
		id, name = acct.ID, acct.DisplayName
	} else {
		acct := resolveAccount(env, ref)
		if acct == nil {
			return fmt.Errorf("no account matching %q", ref)
		}
		id, name = acct.ID, acct.DisplayName
	}

	if err := env.manager.RemoveAccount(cmd.Context(), id); err != nil {
		return err
	}

	cmd.Printf("Removed %s (%s)\n", name, id)
	return nil
}
