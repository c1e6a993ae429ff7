// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Nimbus Launcher Contributors

package main

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for the launcher CLI. A nil deps
// uses production defaults.
func NewRootCmd(deps *Deps) *cobra.Command {
	if deps == nil {
		deps = &Deps{}
	}

	var logFormat string

	cmd := &cobra.Command{
		Use:   "nimbuslauncher",
		Short: "Nimbus Launcher - account and session management",
		Long: `Nimbus Launcher manages game accounts and credential sessions
against a self-hosted authentication server.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&deps.ConfigPath, "config", deps.ConfigPath, "config file path")
	cmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text or json)")

	cmd.AddCommand(newLoginCmd(deps, &logFormat))
	cmd.AddCommand(newRegisterCmd(deps, &logFormat))
	cmd.AddCommand(newAccountsCmd(deps, &logFormat))
	cmd.AddCommand(newSelectCmd(deps, &logFormat))
	cmd.AddCommand(newLogoutCmd(deps, &logFormat))
	cmd.AddCommand(newStatusCmd(deps, &logFormat))

	return cmd
}
