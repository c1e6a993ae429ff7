// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Nimbus Launcher Contributors

package main

import (
	"context"

	"github.com/spf13/cobra"
)

// registerConfig holds configuration for the register command.
type registerConfig struct {
	username string
	password string
	email    string
}

// newRegisterCmd creates the register subcommand with all flags configured.
func newRegisterCmd(deps *Deps, logFormat *string) *cobra.Command {
	cfg := &registerConfig{}

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account on the auth server",
		Long: `Create a new account on the configured auth server. Nothing is
stored locally; follow up with login to store a session.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRegister(cmd, deps, *logFormat, cfg)
		},
	}

	cmd.Flags().StringVarP(&cfg.username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&cfg.password, "password", "p", "", "account password")
	cmd.Flags().StringVar(&cfg.email, "email", "", "account email (optional)")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

// runRegister executes the register command.
func runRegister(cmd *cobra.Command, deps *Deps, logFormat string, cfg *registerConfig) error {
	env, err := openEnv(deps, logFormat)
	if err != nil {
		return err
	}

	err = withTransportRetry(cmd.Context(), func(ctx context.Context) error {
		return env.manager.Register(ctx, cfg.username, cfg.password, cfg.email)
	})
	if err != nil {
		return err
	}

	cmd.Printf("Registered %s\n", cfg.username)
	return nil
}
