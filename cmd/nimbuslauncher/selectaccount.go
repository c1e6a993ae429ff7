// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Nimbus Launcher Contributors

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nimbuslauncher/nimbuslauncher/internal/config"
)

// newSelectCmd creates the select subcommand.
func newSelectCmd(deps *Deps, logFormat *string) *cobra.Command {
	return &cobra.Command{
		Use:   "select <account>",
		Short: "Select the active account",
		Long:  `Select the account to launch with, by id or display name.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSelect(cmd, deps, *logFormat, args[0])
		},
	}
}

// runSelect executes the select command. The argument is tried as an
// account id first, then as a display name.
func runSelect(cmd *cobra.Command, deps *Deps, logFormat, ref string) error {
	env, err := openEnv(deps, logFormat)
	if err != nil {
		return err
	}

	acct := resolveAccount(env, ref)
	if acct == nil {
		return fmt.Errorf("no account matching %q", ref)
	}

	if env.registry.Select(acct.ID) == nil {
		return fmt.Errorf("no account matching %q", ref)
	}
	if err := env.store.Save(); err != nil {
		return err
	}

	cmd.Printf("Selected %s (%s)\n", acct.DisplayName, acct.ID)
	return nil
}

// resolveAccount finds an account by id, falling back to an exact
// display name match.
func resolveAccount(env *appEnv, ref string) *config.Account {
	if acct := env.registry.Get(ref); acct != nil {
		return acct
	}
	for _, acct := range env.registry.List() {
		if acct.DisplayName == ref {
			return acct
		}
	}
	return nil
}
