// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Nimbus Launcher Contributors

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// launcherStatus holds the status information for the launcher.
type launcherStatus struct {
	ConfigPath      string `json:"config_path"`
	FirstLaunch     bool   `json:"first_launch"`
	AuthServerURL   string `json:"auth_server_url"`
	Accounts        int    `json:"accounts"`
	SelectedAccount string `json:"selected_account,omitempty"`
	SessionValid    bool   `json:"session_valid"`
}

// statusConfig holds configuration for the status command.
type statusConfig struct {
	jsonOutput bool
}

// newStatusCmd creates the status subcommand with all flags configured.
func newStatusCmd(deps *Deps, logFormat *string) *cobra.Command {
	cfg := &statusConfig{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show launcher and session status",
		Long: `Show the stored configuration and whether the selected account's
session is currently usable. An expired session is refreshed in place
when a refresh token is stored.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd, deps, *logFormat, cfg)
		},
	}

	cmd.Flags().BoolVar(&cfg.jsonOutput, "json", false, "output status as JSON")

	return cmd
}

// runStatus executes the status command.
func runStatus(cmd *cobra.Command, deps *Deps, logFormat string, cfg *statusConfig) error {
	env, err := openEnv(deps, logFormat)
	if err != nil {
		return err
	}

	status := launcherStatus{
		ConfigPath:    env.store.Path(),
		FirstLaunch:   env.store.IsFirstLaunch(),
		AuthServerURL: env.store.Document().Settings.Launcher.AuthServerURL,
		Accounts:      len(env.registry.List()),
	}
	if acct := env.registry.Selected(); acct != nil {
		status.SelectedAccount = acct.DisplayName
		status.SessionValid = env.manager.ValidateSelected(cmd.Context())
	}

	if cfg.jsonOutput {
		data, err := json.MarshalIndent(status, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal status: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Config:      %s\n", status.ConfigPath)
	cmd.Printf("Auth server: %s\n", status.AuthServerURL)
	cmd.Printf("Accounts:    %d\n", status.Accounts)
	if status.SelectedAccount == "" {
		cmd.Println("Selected:    none")
		return nil
	}
	validity := "expired, login required"
	if status.SessionValid {
		validity = "valid"
	}
	cmd.Printf("Selected:    %s (session %s)\n", status.SelectedAccount, validity)
	return nil
}
