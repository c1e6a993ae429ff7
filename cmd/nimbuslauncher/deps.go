// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Nimbus Launcher Contributors

package main

import (
	"io"
	"log/slog"
	"path/filepath"

	"github.com/nimbuslauncher/nimbuslauncher/internal/account"
	"github.com/nimbuslauncher/nimbuslauncher/internal/authapi"
	"github.com/nimbuslauncher/nimbuslauncher/internal/config"
	"github.com/nimbuslauncher/nimbuslauncher/internal/logging"
	"github.com/nimbuslauncher/nimbuslauncher/internal/session"
	"github.com/nimbuslauncher/nimbuslauncher/internal/xdg"
)

// Deps contains injectable dependencies for the launcher commands.
// All fields with zero values use their default implementations.
type Deps struct {
	// ConfigPath overrides the canonical document location.
	// Default: <xdg config dir>/config.json
	ConfigPath string

	// LegacyPath overrides the pre-XDG location checked on load.
	// Default: ~/.nimbuslauncher/config.json
	LegacyPath string

	// DataDir overrides the default game data directory.
	// Default: xdg.DataDir()
	DataDir string

	// ClientFactory creates the auth API client from the configured
	// server URL. Default: authapi.NewHTTPClient with a nil http.Client.
	ClientFactory func(baseURL string) authapi.Client

	// LogWriter receives structured logs. Default: os.Stderr.
	LogWriter io.Writer
}

// appEnv is the wired object graph every subcommand runs against.
type appEnv struct {
	store    *config.Store
	registry *account.Registry
	manager  *session.Manager
	logger   *slog.Logger
}

// openEnv loads the document and wires the registry, auth client, and
// session manager over it. The auth server URL comes from the loaded
// document, so overrides saved by the user take effect here.
func openEnv(deps *Deps, logFormat string) (*appEnv, error) {
	logger := logging.Setup("nimbuslauncher", version, logFormat, deps.LogWriter)

	cfgPath := deps.ConfigPath
	if cfgPath == "" {
		cfgPath = filepath.Join(xdg.ConfigDir(), "config.json")
	}

	legacyPath := deps.LegacyPath
	if legacyPath == "" {
		legacyPath = filepath.Join(xdg.LegacyDir(), "config.json")
	}

	dataDir := deps.DataDir
	if dataDir == "" {
		dataDir = xdg.DataDir()
	}
	if err := xdg.EnsureDir(dataDir); err != nil {
		return nil, err
	}

	store := config.NewStore(cfgPath, legacyPath, dataDir, logger)
	if err := store.Load(); err != nil {
		return nil, err
	}

	factory := deps.ClientFactory
	if factory == nil {
		factory = func(baseURL string) authapi.Client {
			return authapi.NewHTTPClient(baseURL, nil)
		}
	}
	client := factory(store.Document().Settings.Launcher.AuthServerURL)

	registry := account.NewRegistry(store)
	return &appEnv{
		store:    store,
		registry: registry,
		manager:  session.NewManager(store, registry, client, logger),
		logger:   logger,
	}, nil
}
