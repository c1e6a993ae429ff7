// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Nimbus Launcher Contributors

// Package session drives the login, validate, refresh, and logout
// protocol against the remote authentication service and keeps the
// stored account records in step with it.
//
// A single account's session moves through three states: it starts
// unauthenticated, a successful login makes it valid, a failed probe
// with a successful refresh keeps it valid, and a failed probe with no
// usable refresh token leaves it requiring re-login. Removal returns it
// to unauthenticated. Nothing here re-enters the valid state without an
// explicit login.
package session

import (
	"context"
	"log/slog"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/nimbuslauncher/nimbuslauncher/internal/account"
	"github.com/nimbuslauncher/nimbuslauncher/internal/authapi"
	"github.com/nimbuslauncher/nimbuslauncher/internal/config"
	"github.com/nimbuslauncher/nimbuslauncher/pkg/errutil"
)

// Validation error codes, raised before any network call.
const (
	CodeEmptyUsername = "VALIDATION_EMPTY_USERNAME"
	CodeEmptyPassword = "VALIDATION_EMPTY_PASSWORD"
)

// Manager coordinates the remote auth service, the account registry,
// and the persisted document. All methods assume single-threaded,
// non-overlapping invocation; two concurrent ValidateSelected calls may
// race to refresh the same token.
type Manager struct {
	store    *config.Store
	registry *account.Registry
	client   authapi.Client
	logger   *slog.Logger
}

// NewManager creates a session manager over the given collaborators.
// A nil logger falls back to slog.Default.
func NewManager(store *config.Store, registry *account.Registry, client authapi.Client, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		store:    store,
		registry: registry,
		client:   client,
		logger:   logger,
	}
}

// Register creates a remote account. The remote result is surfaced
// unmodified; nothing is stored locally.
func (m *Manager) Register(ctx context.Context, username, password, email string) error {
	if err := validateCredentials(username, password); err != nil {
		return err
	}
	return m.client.Register(ctx, username, password, email)
}

// Login authenticates against the remote service, stores the returned
// token pair under the deterministically derived account id, selects
// that account, persists the document, and returns the stored record.
func (m *Manager) Login(ctx context.Context, username, password string) (*config.Account, error) {
	if err := validateCredentials(username, password); err != nil {
		return nil, err
	}

	device := m.ensureClientToken()

	resp, err := m.client.Login(ctx, username, password, device)
	if err != nil {
		return nil, err
	}

	// The id comes from the server-confirmed display name so that
	// casing fixes applied server-side win over what the user typed.
	name := resp.User.Username
	if name == "" {
		name = username
	}

	acct := m.registry.Upsert(DeriveID(name), resp.Access, resp.Refresh, name)
	if err := m.store.Save(); err != nil {
		return nil, err
	}

	m.logger.Info("logged in", "account_id", acct.ID, "display_name", acct.DisplayName)
	return acct, nil
}

// ValidateSelected reports whether the selected account's session is
// usable. It probes the remote profile endpoint with the stored access
// token and, when the probe fails and a refresh token is stored,
// attempts one refresh. A successful refresh replaces the access token
// (and the refresh token only when the server rotated it) and persists.
// False means the caller must force a fresh login. Remote failures are
// logged, never surfaced.
func (m *Manager) ValidateSelected(ctx context.Context) bool {
	acct := m.registry.Selected()
	if acct == nil || acct.Kind != config.AccountKindLocal {
		return false
	}

	if acct.AccessToken != nil {
		_, err := m.client.Me(ctx, *acct.AccessToken)
		if err == nil {
			return true
		}
		m.logger.Debug("access token probe failed", "account_id", acct.ID, "error", err)
	}

	if acct.RefreshToken == nil {
		return false
	}

	resp, err := m.client.Refresh(ctx, *acct.RefreshToken)
	if err != nil {
		errutil.LogWarn(m.logger, "token refresh failed", err)
		return false
	}

	patches := []account.TokenPatch{account.WithAccessToken(&resp.Access)}
	if resp.Refresh != nil {
		patches = append(patches, account.WithRefreshToken(resp.Refresh))
	}
	m.registry.UpdateTokens(acct.ID, patches...)

	if err := m.store.Save(); err != nil {
		// The refreshed token is live in memory; persisting it again is
		// the next mutation's problem.
		errutil.LogError(m.logger, "failed to persist refreshed tokens", err)
	}

	m.logger.Info("session refreshed", "account_id", acct.ID)
	return true
}

// RemoveAccount logs the account out remotely on a best-effort basis,
// then unconditionally removes the local record and persists. Remote
// failures are logged and swallowed; local removal must still succeed.
func (m *Manager) RemoveAccount(ctx context.Context, id string) error {
	if acct := m.registry.Get(id); acct != nil && acct.RefreshToken != nil {
		if err := m.client.Logout(ctx, *acct.RefreshToken); err != nil {
			errutil.LogWarn(m.logger, "remote logout failed", err)
		}
	}

	m.registry.Remove(id)
	return m.store.Save()
}

// ensureClientToken returns the document's client token, generating and
// storing one the first time it is needed. The token identifies this
// installation as the "device" in login requests. Persisted by the
// login that triggered it.
func (m *Manager) ensureClientToken() string {
	doc := m.store.Document()
	if doc.ClientToken != nil && *doc.ClientToken != "" {
		return *doc.ClientToken
	}
	token := ulid.Make().String()
	doc.ClientToken = &token
	return token
}

func validateCredentials(username, password string) error {
	if username == "" {
		return oops.Code(CodeEmptyUsername).Errorf("username cannot be empty")
	}
	if password == "" {
		return oops.Code(CodeEmptyPassword).Errorf("password cannot be empty")
	}
	return nil
}
