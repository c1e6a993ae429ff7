// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Nimbus Launcher Contributors

package config

import "github.com/invopop/jsonschema"

// AccountKindLocal is the only account kind this core manages. Accounts
// of other kinds are carried in the document but never touched by the
// session layer.
const AccountKindLocal = "local"

// DefaultAuthServerURL is the canonical authentication endpoint, patched
// into documents written by builds that predate the setting.
const DefaultAuthServerURL = "https://auth.nimbuslauncher.dev"

// Account is a single stored identity. ID is derived deterministically
// from the display name and is immutable once created. Tokens are opaque
// bearer strings; nil means absent.
type Account struct {
	ID           string  `json:"id"`
	DisplayName  string  `json:"displayName"`
	AccessToken  *string `json:"accessToken" jsonschema:"oneof_type=string;null"`
	RefreshToken *string `json:"refreshToken" jsonschema:"oneof_type=string;null"`
	Kind         string  `json:"kind"`
}

// AccountMap is the accounts subtree. It is opaque to both schema
// validation and migration: records written by newer builds must
// survive untouched.
type AccountMap map[string]*Account

// JSONSchema marks the accounts subtree as a free-form object.
func (AccountMap) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{Type: "object"}
}

// JavaConfigMap holds per-server Java runtime records, keyed by server
// id. Opaque for the same reason as AccountMap.
type JavaConfigMap map[string]map[string]any

// JSONSchema marks the javaConfig subtree as a free-form object.
func (JavaConfigMap) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{Type: "object"}
}

// GameSettings holds game window and connection options.
type GameSettings struct {
	ResWidth       int  `json:"resWidth"`
	ResHeight      int  `json:"resHeight"`
	Fullscreen     bool `json:"fullscreen"`
	AutoConnect    bool `json:"autoConnect"`
	LaunchDetached bool `json:"launchDetached"`
}

// LauncherSettings holds launcher behavior options.
type LauncherSettings struct {
	AllowPrerelease  bool   `json:"allowPrerelease"`
	DataDirectory    string `json:"dataDirectory"`
	AuthServerURL    string `json:"authServerURL"`
	KeepLauncherOpen bool   `json:"keepLauncherOpen"`
	Language         string `json:"language"`
}

// Settings groups game and launcher options.
type Settings struct {
	Game     GameSettings     `json:"game"`
	Launcher LauncherSettings `json:"launcher"`
}

// ModConfiguration is the mod selection for one server.
type ModConfiguration struct {
	ServerID string         `json:"serverId"`
	Mods     map[string]any `json:"mods"`
}

// Document is the single persisted root. Fields tagged merge:"opaque"
// are never recursed into by Reconcile.
type Document struct {
	Settings          Settings           `json:"settings"`
	SelectedServerID  *string            `json:"selectedServerId" jsonschema:"oneof_type=string;null"`
	SelectedAccountID *string            `json:"selectedAccountId" jsonschema:"oneof_type=string;null"`
	ClientToken       *string            `json:"clientToken" jsonschema:"oneof_type=string;null"`
	Accounts          AccountMap         `json:"accounts" merge:"opaque"`
	ModConfigurations []ModConfiguration `json:"modConfigurations"`
	JavaConfig        JavaConfigMap      `json:"javaConfig" merge:"opaque"`
}

// DefaultDocument returns the canonical default document, written on
// first launch and used as the merge source during migration.
func DefaultDocument(dataDir string) *Document {
	return &Document{
		Settings: Settings{
			Game: GameSettings{
				ResWidth:       1280,
				ResHeight:      720,
				Fullscreen:     false,
				AutoConnect:    true,
				LaunchDetached: true,
			},
			Launcher: LauncherSettings{
				AllowPrerelease:  false,
				DataDirectory:    dataDir,
				AuthServerURL:    DefaultAuthServerURL,
				KeepLauncherOpen: false,
				Language:         "en_US",
			},
		},
		SelectedServerID:  nil,
		SelectedAccountID: nil,
		ClientToken:       nil,
		Accounts:          AccountMap{},
		ModConfigurations: []ModConfiguration{},
		JavaConfig:        JavaConfigMap{},
	}
}
