// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Nimbus Launcher Contributors

// Package account provides CRUD over the account map in the launcher
// document and maintains the selected-account invariant: the selection
// pointer is always null or a key of a live record.
package account

import (
	"sort"
	"strings"

	"github.com/nimbuslauncher/nimbuslauncher/internal/config"
)

// Registry operates on the accounts subtree of the shared document.
// It mutates in place and never saves; callers persist through the
// store after a mutating call.
type Registry struct {
	store *config.Store
}

// NewRegistry creates a registry over the given store handle.
func NewRegistry(store *config.Store) *Registry {
	return &Registry{store: store}
}

// TokenPatch is a partial token update for UpdateTokens. Patches that
// are not passed leave the corresponding token unchanged; passing a
// patch with a nil value clears the token.
type TokenPatch func(*config.Account)

// WithAccessToken overwrites the access token. A nil token clears it.
func WithAccessToken(token *string) TokenPatch {
	return func(a *config.Account) {
		a.AccessToken = token
	}
}

// WithRefreshToken overwrites the refresh token. A nil token clears it.
func WithRefreshToken(token *string) TokenPatch {
	return func(a *config.Account) {
		a.RefreshToken = token
	}
}

// Upsert inserts or fully replaces the record at id and makes it the
// selected account. Whitespace is trimmed from id and displayName.
func (r *Registry) Upsert(id, accessToken, refreshToken, displayName string) *config.Account {
	id = strings.TrimSpace(id)
	displayName = strings.TrimSpace(displayName)

	acct := &config.Account{
		ID:           id,
		DisplayName:  displayName,
		AccessToken:  &accessToken,
		RefreshToken: &refreshToken,
		Kind:         config.AccountKindLocal,
	}

	doc := r.store.Document()
	if doc.Accounts == nil {
		doc.Accounts = config.AccountMap{}
	}
	doc.Accounts[id] = acct

	selected := id
	doc.SelectedAccountID = &selected

	return acct
}

// UpdateTokens applies the given patches to the record at id. Returns
// nil when id is unknown. Fields without a patch are left unchanged.
func (r *Registry) UpdateTokens(id string, patches ...TokenPatch) *config.Account {
	acct, ok := r.store.Document().Accounts[id]
	if !ok {
		return nil
	}
	for _, patch := range patches {
		patch(acct)
	}
	return acct
}

// Remove deletes the record at id and reports whether it existed.
// When the removed record was selected, a remaining record is selected
// instead; when none remain, selection and the client token are cleared
// together in one step so no caller ordering can split them.
func (r *Registry) Remove(id string) bool {
	doc := r.store.Document()
	if _, ok := doc.Accounts[id]; !ok {
		return false
	}
	delete(doc.Accounts, id)

	if doc.SelectedAccountID != nil && *doc.SelectedAccountID == id {
		doc.SelectedAccountID = nil
		for k := range doc.Accounts {
			next := k
			doc.SelectedAccountID = &next
			break
		}
		if doc.SelectedAccountID == nil {
			doc.ClientToken = nil
		}
	}
	return true
}

// Select makes id the selected account and returns its record.
// A no-op returning nil when id is unknown: selection is never set to
// a nonexistent id.
func (r *Registry) Select(id string) *config.Account {
	doc := r.store.Document()
	acct, ok := doc.Accounts[id]
	if !ok {
		return nil
	}
	selected := id
	doc.SelectedAccountID = &selected
	return acct
}

// Get returns the record at id, or nil.
func (r *Registry) Get(id string) *config.Account {
	return r.store.Document().Accounts[id]
}

// Selected returns the selected account's record, or nil when nothing
// is selected.
func (r *Registry) Selected() *config.Account {
	doc := r.store.Document()
	if doc.SelectedAccountID == nil {
		return nil
	}
	return doc.Accounts[*doc.SelectedAccountID]
}

// SelectedID returns the selected account id, or nil.
func (r *Registry) SelectedID() *string {
	return r.store.Document().SelectedAccountID
}

// List returns all records sorted by display name.
func (r *Registry) List() []*config.Account {
	doc := r.store.Document()
	out := make([]*config.Account, 0, len(doc.Accounts))
	for _, acct := range doc.Accounts {
		out = append(out, acct)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].DisplayName < out[j].DisplayName
	})
	return out
}
