// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Nimbus Launcher Contributors

package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// accountRow is the externally visible shape of a stored account.
// Tokens are deliberately absent; listing accounts must not print
// credentials.
type accountRow struct {
	ID          string `json:"id" yaml:"id"`
	DisplayName string `json:"displayName" yaml:"displayName"`
	Kind        string `json:"kind" yaml:"kind"`
	Selected    bool   `json:"selected" yaml:"selected"`
}

// accountsConfig holds configuration for the accounts command.
type accountsConfig struct {
	output string
}

// newAccountsCmd creates the accounts subcommand with all flags configured.
func newAccountsCmd(deps *Deps, logFormat *string) *cobra.Command {
	cfg := &accountsConfig{}

	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "List stored accounts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAccounts(cmd, deps, *logFormat, cfg)
		},
	}

	cmd.Flags().StringVarP(&cfg.output, "output", "o", "table", "output format (table, json, or yaml)")

	return cmd
}

// runAccounts executes the accounts command.
func runAccounts(cmd *cobra.Command, deps *Deps, logFormat string, cfg *accountsConfig) error {
	env, err := openEnv(deps, logFormat)
	if err != nil {
		return err
	}

	selectedID := ""
	if id := env.registry.SelectedID(); id != nil {
		selectedID = *id
	}

	rows := make([]accountRow, 0)
	for _, acct := range env.registry.List() {
		rows = append(rows, accountRow{
			ID:          acct.ID,
			DisplayName: acct.DisplayName,
			Kind:        acct.Kind,
			Selected:    acct.ID == selectedID,
		})
	}

	var output string
	switch cfg.output {
	case "json":
		data, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format JSON: %w", err)
		}
		output = string(data)
	case "yaml":
		data, err := yaml.Marshal(rows)
		if err != nil {
			return fmt.Errorf("failed to format YAML: %w", err)
		}
		output = strings.TrimRight(string(data), "\n")
	case "table":
		output = formatAccountsTable(rows)
	default:
		return fmt.Errorf("unknown output format %q", cfg.output)
	}

	cmd.Println(output)
	return nil
}

// formatAccountsTable formats the accounts as a human-readable table.
// The selected account is marked with an asterisk.
func formatAccountsTable(rows []accountRow) string {
	if len(rows) == 0 {
		return "No accounts stored. Run 'nimbuslauncher login' to add one."
	}

	var buf strings.Builder
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)

	_, _ = fmt.Fprintln(w, " \tNAME\tID\tKIND")
	for _, row := range rows {
		marker := " "
		if row.Selected {
			marker = "*"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", marker, row.DisplayName, row.ID, row.Kind)
	}

	_ = w.Flush()
	return strings.TrimRight(buf.String(), "\n")
}
