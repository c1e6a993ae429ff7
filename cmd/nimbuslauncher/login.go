// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Nimbus Launcher Contributors

package main

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/spf13/cobra"

	"github.com/nimbuslauncher/nimbuslauncher/internal/authapi"
	"github.com/nimbuslauncher/nimbuslauncher/internal/config"
)

// loginConfig holds configuration for the login command.
type loginConfig struct {
	username string
	password string
}

// newLoginCmd creates the login subcommand with all flags configured.
func newLoginCmd(deps *Deps, logFormat *string) *cobra.Command {
	cfg := &loginConfig{}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and store the account",
		Long: `Authenticate against the configured auth server, store the returned
session under a stable account id, and select that account.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLogin(cmd, deps, *logFormat, cfg)
		},
	}

	cmd.Flags().StringVarP(&cfg.username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&cfg.password, "password", "p", "", "account password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

// runLogin executes the login command.
func runLogin(cmd *cobra.Command, deps *Deps, logFormat string, cfg *loginConfig) error {
	env, err := openEnv(deps, logFormat)
	if err != nil {
		return err
	}

	var acct *config.Account
	err = withTransportRetry(cmd.Context(), func(ctx context.Context) error {
		var loginErr error
		acct, loginErr = env.manager.Login(ctx, cfg.username, cfg.password)
		return loginErr
	})
	if err != nil {
		return err
	}

	cmd.Printf("Logged in as %s (%s)\n", acct.DisplayName, acct.ID)
	return nil
}

// withTransportRetry runs fn, retrying connection-level failures with a
// short fibonacci backoff. Server rejections are never retried; a wrong
// password does not get better with repetition.
func withTransportRetry(ctx context.Context, fn func(context.Context) error) error {
	backoff := retry.WithMaxRetries(2, retry.NewFibonacci(500*time.Millisecond))
	//nolint:wrapcheck // retry.Do returns fn's error unwrapped after the last attempt
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := fn(ctx)
		if authapi.IsTransportFailure(err) {
			return retry.RetryableError(err)
		}
		return err
	})
}
